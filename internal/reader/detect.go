package reader

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/common"
)

// Detection is the outcome of sniffing a file's true type.
type Detection struct {
	MimeType string
	Safe     bool
	// Message carries the rejection reason or an extension mismatch
	// warning; "OK" otherwise.
	Message string
}

// MimeDetector determines the true MIME type from file content rather than
// trusting the extension.
type MimeDetector struct{}

func NewMimeDetector() *MimeDetector { return &MimeDetector{} }

// Detect sniffs magic bytes, checks the deny and allow lists, and flags
// extension mismatches.
func (d *MimeDetector) Detect(path string) (Detection, error) {
	f, err := os.Open(path)
	if err != nil {
		return Detection{MimeType: "unknown", Message: "file not found"},
			common.NewAppError("FILE_NOT_FOUND", "cannot open file", err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return Detection{MimeType: "unknown", Message: "unreadable file"},
			common.NewAppError("FILE_UNREADABLE", "cannot read file header", err)
	}
	buf = buf[:n]

	mime := sniffMime(buf, filepath.Ext(path))

	if _, dangerous := constants.DangerousMimeTypes[mime]; dangerous {
		return Detection{MimeType: mime, Message: fmt.Sprintf("dangerous file type: %s", mime)}, nil
	}
	if _, allowed := constants.AllowedMimeTypes[mime]; !allowed {
		return Detection{MimeType: mime, Message: fmt.Sprintf("unsupported file type: %s", mime)}, nil
	}

	det := Detection{MimeType: mime, Safe: true, Message: "OK"}
	ext := constants.NormalizeExt(filepath.Ext(path))
	if ext != "" && constants.MimeForExt(ext) != mime {
		det.Message = fmt.Sprintf("extension mismatch: .%s vs %s", ext, mime)
	}
	return det, nil
}

// Container signatures that http.DetectContentType cannot tell apart. OOXML
// files are zip archives; legacy Office files share one OLE2 header.
var (
	sigPDF    = []byte("%PDF-")
	sigZip    = []byte("PK\x03\x04")
	sigOLE2   = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	sigTiffLE = []byte("II*\x00")
	sigTiffBE = []byte("MM\x00*")
)

func sniffMime(head []byte, ext string) string {
	switch {
	case bytes.HasPrefix(head, sigPDF):
		return constants.MimePDF
	case bytes.HasPrefix(head, sigTiffLE), bytes.HasPrefix(head, sigTiffBE):
		return constants.MimeTIFF
	case bytes.HasPrefix(head, sigZip):
		return disambiguateZip(ext)
	case bytes.HasPrefix(head, sigOLE2):
		if constants.NormalizeExt(ext) == "doc" {
			return "application/msword"
		}
		return constants.MimeXLS
	}

	detected := http.DetectContentType(head)
	// Strip charset parameters from text types.
	if i := strings.Index(detected, ";"); i >= 0 {
		detected = detected[:i]
	}
	if detected == "text/plain" {
		// CSV sniffs as plain text; the extension decides.
		if constants.NormalizeExt(ext) == "csv" {
			return constants.MimeCSV
		}
	}
	return detected
}

// disambiguateZip picks the OOXML type a zip archive carries. The zip
// member list would be authoritative, but the extension is sufficient for
// the formats this pipeline accepts.
func disambiguateZip(ext string) string {
	switch constants.NormalizeExt(ext) {
	case "docx":
		return constants.MimeDOCX
	case "xlsx", "":
		return constants.MimeXLSX
	default:
		return constants.MimeXLSX
	}
}
