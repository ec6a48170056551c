package extract

import (
	"context"
	"strings"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/entity"
)

const previewLength = 500

// GenericData is the fallback extraction payload: raw content plus basic
// statistics, enough for a reviewer to triage the document by hand.
type GenericData struct {
	Preview    string         `json:"preview,omitempty"`
	TextLength int            `json:"text_length"`
	WordCount  int            `json:"word_count"`
	PageCount  int            `json:"page_count"`
	TableCount int            `json:"table_count"`
	ImageCount int            `json:"image_count"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// GenericExtractor is the safety net. It accepts every document and never
// fails, so the pipeline always produces a result, however thin.
type GenericExtractor struct{}

func NewGenericExtractor() *GenericExtractor { return &GenericExtractor{} }

func (e *GenericExtractor) Name() string { return "generic" }

func (e *GenericExtractor) SupportedTypes() []constants.DocumentType {
	return []constants.DocumentType{
		constants.Generic,
		constants.Unknown,
		constants.Supplemental,
	}
}

func (e *GenericExtractor) CanExtract(doc *entity.Document) bool { return doc != nil }

func (e *GenericExtractor) Extract(_ context.Context, doc *entity.Document) entity.ExtractionResult {
	if doc == nil {
		return entity.Failed("no document")
	}

	data := GenericData{
		Preview:    preview(doc.RawText),
		TextLength: len(doc.RawText),
		WordCount:  len(strings.Fields(doc.RawText)),
		PageCount:  doc.Structure.PageCount,
		TableCount: len(doc.Tables),
		ImageCount: len(doc.Images),
		Metadata:   doc.Metadata,
	}

	var warnings []string
	if data.TextLength == 0 && data.TableCount == 0 && data.ImageCount == 0 {
		warnings = append(warnings, "no extractable content found")
	}

	return entity.ExtractionResult{
		Success:    true,
		Data:       data,
		Confidence: genericConfidence(data),
		Warnings:   warnings,
	}
}

func preview(text string) string {
	if len(text) <= previewLength {
		return text
	}
	return text[:previewLength] + "..."
}

// Confidence reflects how much there was to extract, not how well it was
// understood.
func genericConfidence(data GenericData) float64 {
	confidence := 0.5
	if data.TextLength > 0 {
		confidence += 0.2
	}
	if data.TableCount > 0 {
		confidence += 0.15
	}
	if data.ImageCount > 0 {
		confidence += 0.1
	}
	if len(data.Metadata) > 0 {
		confidence += 0.05
	}
	return entity.Clamp(confidence)
}
