// Package classify determines document types from content analysis.
//
// Classifiers inspect what a document contains (text, tables, file type)
// rather than trusting its filename. Each classifier reports a type with a
// confidence score; the composite combines them.
package classify

import (
	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/entity"
)

// Classifier analyzes a loaded document and proposes a type.
type Classifier interface {
	// Classify returns the best matching type and a confidence in [0, 1].
	Classify(doc *entity.Document) (constants.DocumentType, float64)

	// Indicators returns the signals that support classification, for
	// auditability. May be empty.
	Indicators(doc *entity.Document) []entity.Indicator

	// CanClassify reports whether this classifier can analyze the document.
	CanClassify(doc *entity.Document) bool

	// SupportedTypes lists the types this classifier can identify.
	SupportedTypes() []constants.DocumentType

	// Priority orders classifiers; lower runs first.
	Priority() int

	Name() string
}

// Result bundles one classifier's output with its provenance.
type Result struct {
	DocumentType constants.DocumentType
	Confidence   float64
	Classifier   string
}

// IsConfident reports whether the result meets the given threshold.
func (r Result) IsConfident(threshold float64) bool {
	return r.Confidence >= threshold
}
