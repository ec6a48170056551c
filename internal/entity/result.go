package entity

import "github.com/intakehq/docintel/constants"

// ExtractionResult is the outcome of extracting one document (or of fusing
// a whole group). Success is the sole gate consumers branch on: a failed
// result always carries at least one error, and a result is never partially
// successful.
type ExtractionResult struct {
	Success    bool           `json:"success"`
	Data       any            `json:"data,omitempty"`
	Confidence float64        `json:"confidence"`
	Warnings   []string       `json:"warnings,omitempty"`
	Errors     []string       `json:"errors,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Failed builds a failed result from error messages.
func Failed(errs ...string) ExtractionResult {
	return ExtractionResult{Success: false, Errors: errs}
}

// SetMeta records a metadata key, allocating the map on first use.
func (r *ExtractionResult) SetMeta(key string, value any) {
	if r.Metadata == nil {
		r.Metadata = map[string]any{}
	}
	r.Metadata[key] = value
}

// Indicator is one explainability signal a classifier found: a matched
// keyword, a matched column header, a MIME hint.
type Indicator struct {
	Type         string                 `json:"type"`
	Category     string                 `json:"category,omitempty"`
	Value        string                 `json:"value"`
	Matches      int                    `json:"matches,omitempty"`
	Confidence   float64                `json:"confidence"`
	Location     string                 `json:"location,omitempty"`
	DocumentType constants.DocumentType `json:"document_type,omitempty"`
	Classifier   string                 `json:"classifier,omitempty"`
}

// ClassificationResult wraps a classification decision with its supporting
// indicators. Optional: control flow only needs (type, confidence).
type ClassificationResult struct {
	DocumentType constants.DocumentType `json:"document_type"`
	Confidence   float64                `json:"confidence"`
	Classifier   string                 `json:"classifier"`
	Indicators   []Indicator            `json:"indicators,omitempty"`
}
