package reader

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/common"
	"github.com/intakehq/docintel/internal/entity"
)

// ImageReader loads image files as supplemental attachments. No OCR is
// performed; downstream extraction works from dimensions and metadata.
type ImageReader struct{}

func NewImageReader() *ImageReader { return &ImageReader{} }

func (r *ImageReader) Name() string { return "image" }

func (r *ImageReader) MimeTypes() []string {
	return []string{constants.MimeJPEG, constants.MimePNG, constants.MimeTIFF}
}

func (r *ImageReader) Read(ctx context.Context, path string, doc *entity.Document) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return common.NewAppError("IMAGE_READ", "cannot read image", err)
	}

	img := entity.ImageData{Data: data, Page: 1}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		// TIFF and exotic encodings are stored without dimensions.
		doc.AddWarning(fmt.Sprintf("cannot decode image dimensions: %v", err))
	} else {
		img.Format = format
		img.Width = cfg.Width
		img.Height = cfg.Height
		doc.Metadata["width"] = cfg.Width
		doc.Metadata["height"] = cfg.Height
		doc.Metadata["format"] = format
	}

	doc.AddImage(img)
	doc.Structure.PageCount = 1
	doc.Structure.HasImages = true
	doc.Metadata["file_size"] = len(data)
	return nil
}
