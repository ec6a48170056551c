package classify

import (
	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/entity"
)

// mimeHints maps MIME types to candidate document types, most likely first.
// PDF is ambiguous; spreadsheets lean toward schedules; images toward
// supplemental material.
var mimeHints = map[string][]constants.DocumentType{
	constants.MimePDF: {
		constants.Acord126,
		constants.Acord125,
		constants.Acord130,
		constants.Acord140,
		constants.LossRun,
		constants.FinancialStatement,
		constants.Generic,
	},
	constants.MimeXLSX: {
		constants.SOV,
		constants.FinancialStatement,
		constants.LossRun,
	},
	constants.MimeXLS: {
		constants.SOV,
		constants.FinancialStatement,
		constants.LossRun,
	},
	constants.MimeCSV: {
		constants.SOV,
		constants.LossRun,
	},
	constants.MimeJPEG: {constants.Supplemental},
	constants.MimePNG:  {constants.Supplemental},
	constants.MimeTIFF: {constants.Supplemental},
	constants.MimeDOCX: {
		constants.Supplemental,
		constants.Generic,
	},
}

// extensionHints is the fallback when the MIME type is absent or unmapped.
var extensionHints = map[string][]constants.DocumentType{
	"pdf": {
		constants.Acord126,
		constants.LossRun,
		constants.FinancialStatement,
		constants.Generic,
	},
	"xlsx": {constants.SOV, constants.FinancialStatement},
	"xls":  {constants.SOV, constants.FinancialStatement},
	"csv":  {constants.SOV, constants.LossRun},
	"jpg":  {constants.Supplemental},
	"jpeg": {constants.Supplemental},
	"png":  {constants.Supplemental},
	"tiff": {constants.Supplemental},
	"tif":  {constants.Supplemental},
	"docx": {constants.Supplemental, constants.Generic},
	"doc":  {constants.Supplemental, constants.Generic},
}

// MimeClassifier gives a cheap first-pass hint from the file type alone.
// Confidence is deliberately low; content classifiers override it.
type MimeClassifier struct {
	confidenceMultiplier float64
}

// NewMimeClassifier returns a MIME hint classifier. multiplier <= 0
// defaults to 0.3.
func NewMimeClassifier(multiplier float64) *MimeClassifier {
	if multiplier <= 0 {
		multiplier = 0.3
	}
	return &MimeClassifier{confidenceMultiplier: multiplier}
}

func (m *MimeClassifier) Name() string  { return "mime" }
func (m *MimeClassifier) Priority() int { return 10 }

func (m *MimeClassifier) CanClassify(doc *entity.Document) bool {
	return doc != nil && (doc.MimeType != "" || doc.FileExtension != "")
}

func (m *MimeClassifier) SupportedTypes() []constants.DocumentType {
	seen := map[constants.DocumentType]struct{}{}
	var types []constants.DocumentType
	add := func(candidates []constants.DocumentType) {
		for _, dt := range candidates {
			if _, ok := seen[dt]; !ok {
				seen[dt] = struct{}{}
				types = append(types, dt)
			}
		}
	}
	// Iterate the enum order so the result is deterministic.
	for _, mime := range []string{
		constants.MimePDF, constants.MimeXLSX, constants.MimeXLS,
		constants.MimeCSV, constants.MimeJPEG, constants.MimePNG,
		constants.MimeTIFF, constants.MimeDOCX,
	} {
		add(mimeHints[mime])
	}
	for _, ext := range []string{"pdf", "xlsx", "csv", "jpg", "docx"} {
		add(extensionHints[ext])
	}
	return types
}

// Classify returns the first candidate for the file type. A single
// candidate scores 0.4 x multiplier; an ambiguous mapping scores 0.2 x
// multiplier.
func (m *MimeClassifier) Classify(doc *entity.Document) (constants.DocumentType, float64) {
	candidates := m.possibleTypes(doc)
	if len(candidates) == 0 {
		return constants.Unknown, 0.0
	}
	if len(candidates) == 1 {
		return candidates[0], 0.4 * m.confidenceMultiplier
	}
	return candidates[0], 0.2 * m.confidenceMultiplier
}

func (m *MimeClassifier) Indicators(doc *entity.Document) []entity.Indicator {
	if doc == nil {
		return nil
	}
	var indicators []entity.Indicator
	if doc.MimeType != "" {
		indicators = append(indicators, entity.Indicator{
			Type:       "mime_type",
			Value:      doc.MimeType,
			Confidence: 0.3,
			Location:   "file_metadata",
		})
	}
	if doc.FileExtension != "" {
		indicators = append(indicators, entity.Indicator{
			Type:       "file_extension",
			Value:      doc.FileExtension,
			Confidence: 0.2,
			Location:   "filename",
		})
	}
	return indicators
}

// LikelyTypes returns every candidate with a decayed confidence, most
// likely first. Position i scores 0.3 x multiplier x 0.8^i.
func (m *MimeClassifier) LikelyTypes(doc *entity.Document) []TypeHint {
	candidates := m.possibleTypes(doc)
	if len(candidates) == 0 {
		return []TypeHint{{DocumentType: constants.Unknown, Confidence: 0.0}}
	}

	base := 0.3 * m.confidenceMultiplier
	hints := make([]TypeHint, len(candidates))
	decay := 1.0
	for i, dt := range candidates {
		hints[i] = TypeHint{DocumentType: dt, Confidence: base * decay}
		decay *= 0.8
	}
	return hints
}

func (m *MimeClassifier) possibleTypes(doc *entity.Document) []constants.DocumentType {
	if doc == nil {
		return nil
	}
	if doc.MimeType != "" {
		if hints, ok := mimeHints[doc.MimeType]; ok {
			return hints
		}
	}
	if doc.FileExtension != "" {
		return extensionHints[constants.NormalizeExt(doc.FileExtension)]
	}
	return nil
}
