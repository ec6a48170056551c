package constants

import "strings"

// MIME types this pipeline accepts. Anything outside this set is rejected
// before a Document is created.
const (
	MimePDF  = "application/pdf"
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimeXLS  = "application/vnd.ms-excel"
	MimeCSV  = "text/csv"
	MimeText = "text/plain"
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimeTIFF = "image/tiff"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// AllowedMimeTypes is the allowlist checked at load time.
var AllowedMimeTypes = map[string]struct{}{
	MimePDF:  {},
	MimeXLSX: {},
	MimeXLS:  {},
	MimeCSV:  {},
	MimeText: {},
	MimeJPEG: {},
	MimePNG:  {},
	MimeTIFF: {},
	MimeDOCX: {},
}

// DangerousMimeTypes are rejected outright regardless of extension.
var DangerousMimeTypes = map[string]struct{}{
	"application/x-executable":  {},
	"application/x-dosexec":     {},
	"application/x-msdownload":  {},
	"application/x-sh":          {},
	"application/x-shellscript": {},
	"text/x-shellscript":        {},
}

// ExtToMime maps normalized file extensions to their expected MIME type.
var ExtToMime = map[string]string{
	"pdf":  MimePDF,
	"xlsx": MimeXLSX,
	"xls":  MimeXLS,
	"csv":  MimeCSV,
	"txt":  MimeText,
	"jpg":  MimeJPEG,
	"jpeg": MimeJPEG,
	"png":  MimePNG,
	"tif":  MimeTIFF,
	"tiff": MimeTIFF,
	"docx": MimeDOCX,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MimeForExt returns the expected MIME type for an extension, or "" when
// the extension is not recognized.
func MimeForExt(ext string) string {
	return ExtToMime[NormalizeExt(ext)]
}
