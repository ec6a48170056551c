package reader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/common"
	"github.com/intakehq/docintel/internal/entity"
)

// maxFieldNames caps the field name list stored in document metadata.
const maxFieldNames = 50

// PDFReader extracts text, structure, and AcroForm fields from PDF files.
type PDFReader struct{}

func NewPDFReader() *PDFReader { return &PDFReader{} }

func (r *PDFReader) Name() string        { return "pdf" }
func (r *PDFReader) MimeTypes() []string { return []string{constants.MimePDF} }

func (r *PDFReader) Read(ctx context.Context, path string, doc *entity.Document) error {
	f, err := os.Open(path)
	if err != nil {
		return common.NewAppError("PDF_OPEN", "cannot open pdf", err)
	}
	defer f.Close()

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(f, conf)
	if err != nil {
		return common.NewAppError("PDF_PARSE", "cannot parse pdf", err)
	}

	doc.Structure.PageCount = pdfCtx.PageCount

	fields := acroFormFields(pdfCtx)
	if len(fields) > 0 {
		doc.Structure.HasFillableFields = true
		doc.Metadata["field_count"] = len(fields)
		names := make([]string, 0, len(fields))
		for _, f := range fields {
			names = append(names, f.Name)
			if len(names) == maxFieldNames {
				break
			}
		}
		doc.Metadata["field_names"] = names
		doc.Metadata["form_fields"] = fieldMap(fields)
	}

	var pages []string
	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		text := extractPageText(pdfCtx, pageNr)
		if text == "" {
			doc.AddWarning(fmt.Sprintf("no text extracted from page %d", pageNr))
			continue
		}
		pages = append(pages, fmt.Sprintf("=== Page %d ===\n%s", pageNr, text))
	}
	doc.RawText = strings.Join(pages, "\n\n")

	if detectImageStreams(pdfCtx) {
		doc.Structure.HasImages = true
	}

	if strings.TrimSpace(doc.RawText) == "" {
		doc.AddWarning("pdf contains no text, may be a scanned document requiring ocr")
		doc.Metadata["requires_ocr"] = true
	} else {
		doc.Metadata["requires_ocr"] = false
	}
	return nil
}

// FormField is one AcroForm field with its current value.
type FormField struct {
	Name  string
	Value string
	Type  string
}

func fieldMap(fields []FormField) map[string]string {
	m := make(map[string]string, len(fields))
	for _, f := range fields {
		m[f.Name] = f.Value
	}
	return m
}

// acroFormFields walks the catalog's AcroForm dictionary and flattens the
// field tree. Errors along the way yield a shorter list, never a failure;
// a malformed form degrades to text-only extraction.
func acroFormFields(ctx *model.Context) []FormField {
	catalog, err := ctx.Catalog()
	if err != nil {
		return nil
	}
	obj, found := catalog.Find("AcroForm")
	if !found {
		return nil
	}
	form, err := ctx.DereferenceDict(obj)
	if err != nil || form == nil {
		return nil
	}
	fieldsObj, found := form.Find("Fields")
	if !found {
		return nil
	}
	arr, err := ctx.DereferenceArray(fieldsObj)
	if err != nil {
		return nil
	}

	var fields []FormField
	for _, o := range arr {
		fields = appendFields(ctx, o, "", fields)
	}
	return fields
}

func appendFields(ctx *model.Context, obj types.Object, prefix string, fields []FormField) []FormField {
	dict, err := ctx.DereferenceDict(obj)
	if err != nil || dict == nil {
		return fields
	}

	name := prefix
	if t, found := dict.Find("T"); found {
		if partial := stringValue(ctx, t); partial != "" {
			if name != "" {
				name = name + "." + partial
			} else {
				name = partial
			}
		}
	}

	if kidsObj, found := dict.Find("Kids"); found {
		if kids, err := ctx.DereferenceArray(kidsObj); err == nil && len(kids) > 0 {
			for _, kid := range kids {
				fields = appendFields(ctx, kid, name, fields)
			}
			return fields
		}
	}

	if name == "" {
		return fields
	}
	field := FormField{Name: name}
	if ft, found := dict.Find("FT"); found {
		if n, ok := ft.(types.Name); ok {
			field.Type = n.Value()
		}
	}
	if v, found := dict.Find("V"); found {
		field.Value = stringValue(ctx, v)
	}
	return append(fields, field)
}

func stringValue(ctx *model.Context, obj types.Object) string {
	resolved, err := ctx.Dereference(obj)
	if err != nil {
		return ""
	}
	switch v := resolved.(type) {
	case types.StringLiteral:
		s, err := types.StringLiteralToString(v)
		if err != nil {
			return ""
		}
		return s
	case types.HexLiteral:
		s, err := types.HexLiteralToString(v)
		if err != nil {
			return ""
		}
		return s
	case types.Name:
		return v.Value()
	}
	return ""
}

// extractPageText pulls text from a single page's content stream.
func extractPageText(ctx *model.Context, pageNr int) string {
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return ""
	}
	return extractTextFromStream(data)
}

// detectImageStreams checks the PDF for image XObjects.
func detectImageStreams(ctx *model.Context) bool {
	if ctx.Optimize != nil {
		for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
			if len(pdfcpu.ImageObjNrs(ctx, pageNr)) > 0 {
				return true
			}
		}
	}
	for _, entry := range ctx.Table {
		if entry == nil || entry.Free || entry.Compressed {
			continue
		}
		sd, ok := entry.Object.(types.StreamDict)
		if !ok {
			continue
		}
		if subtype, found := sd.Find("Subtype"); found {
			if name, isName := subtype.(types.Name); isName && name == "Image" {
				return true
			}
		}
	}
	return false
}

// pdfStringRe matches PDF string literals in parentheses.
var pdfStringRe = regexp.MustCompile(`\(([^)]*)\)`)

// extractTextFromStream parses content stream text operators (Tj, TJ, ',
// Td, T*) and concatenates their string operands.
func extractTextFromStream(data []byte) string {
	var sb strings.Builder

	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		if bytes.HasSuffix(line, []byte("Tj")) || bytes.HasSuffix(line, []byte("TJ")) {
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				sb.WriteString(decodePDFString(m[1]))
			}
		}

		if bytes.HasSuffix(line, []byte("'")) && bytes.Contains(line, []byte("(")) {
			for _, m := range pdfStringRe.FindAllSubmatch(line, -1) {
				if text := decodePDFString(m[1]); text != "" {
					sb.WriteByte('\n')
					sb.WriteString(text)
				}
			}
		}

		if bytes.HasSuffix(line, []byte("Td")) || bytes.HasSuffix(line, []byte("TD")) {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
		}

		if bytes.Equal(line, []byte("T*")) {
			sb.WriteByte('\n')
		}
	}

	return cleanPDFText(sb.String())
}

// decodePDFString handles basic PDF escape sequences.
func decodePDFString(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			i++
			switch raw[i] {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case '\\', '(', ')':
				sb.WriteByte(raw[i])
			default:
				if raw[i] >= '0' && raw[i] <= '7' {
					val := int(raw[i] - '0')
					for j := 0; j < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; j++ {
						i++
						val = val*8 + int(raw[i]-'0')
					}
					sb.WriteByte(byte(val))
				} else {
					sb.WriteByte(raw[i])
				}
			}
		} else {
			sb.WriteByte(raw[i])
		}
	}
	return sb.String()
}

// cleanPDFText collapses whitespace runs and drops non-printable runes.
func cleanPDFText(text string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
		} else if unicode.IsPrint(r) {
			sb.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(sb.String())
}
