package reader

import (
	"context"
	"os"
	"unicode/utf8"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/common"
	"github.com/intakehq/docintel/internal/entity"
)

// GenericReader is the fallback for types without a dedicated reader
// (docx, legacy doc). It records file metadata and salvages text when the
// content happens to be readable as UTF-8.
type GenericReader struct{}

func NewGenericReader() *GenericReader { return &GenericReader{} }

func (r *GenericReader) Name() string        { return "generic" }
func (r *GenericReader) MimeTypes() []string { return []string{constants.MimeDOCX} }

func (r *GenericReader) Read(ctx context.Context, path string, doc *entity.Document) error {
	info, err := os.Stat(path)
	if err != nil {
		return common.NewAppError("GENERIC_STAT", "cannot stat file", err)
	}
	doc.Metadata["file_size"] = info.Size()
	doc.Metadata["modified"] = info.ModTime()
	doc.Structure.PageCount = 1

	data, err := os.ReadFile(path)
	if err != nil {
		return common.NewAppError("GENERIC_READ", "cannot read file", err)
	}
	if utf8.Valid(data) && len(data) > 0 {
		doc.RawText = string(data)
	} else {
		doc.AddWarning("binary content, no text extracted")
	}
	return nil
}
