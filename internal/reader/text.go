package reader

import (
	"context"
	"os"
	"strings"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/common"
	"github.com/intakehq/docintel/internal/entity"
)

// TextReader loads plain text files.
type TextReader struct{}

func NewTextReader() *TextReader { return &TextReader{} }

func (r *TextReader) Name() string        { return "text" }
func (r *TextReader) MimeTypes() []string { return []string{constants.MimeText} }

func (r *TextReader) Read(ctx context.Context, path string, doc *entity.Document) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return common.NewAppError("TEXT_READ", "cannot read text file", err)
	}
	doc.RawText = string(data)
	doc.Structure.PageCount = 1
	doc.Metadata["line_count"] = strings.Count(doc.RawText, "\n") + 1
	if strings.TrimSpace(doc.RawText) == "" {
		doc.AddWarning("text file is empty")
	}
	return nil
}
