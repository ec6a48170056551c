package classify

import (
	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/common"
	"github.com/intakehq/docintel/internal/entity"
)

// MLClassifier is a placeholder for a model-backed classifier. Until a
// model is loaded it declines every document, so composites skip it.
type MLClassifier struct {
	modelPath string
	loaded    bool
}

func NewMLClassifier(modelPath string) *MLClassifier {
	return &MLClassifier{modelPath: modelPath}
}

func (m *MLClassifier) Name() string  { return "ml" }
func (m *MLClassifier) Priority() int { return 90 }

func (m *MLClassifier) CanClassify(*entity.Document) bool { return m.loaded }

func (m *MLClassifier) Classify(*entity.Document) (constants.DocumentType, float64) {
	return constants.Unknown, 0.0
}

func (m *MLClassifier) Indicators(*entity.Document) []entity.Indicator { return nil }

func (m *MLClassifier) SupportedTypes() []constants.DocumentType {
	types := make([]constants.DocumentType, 0, len(constants.DocumentTypes)-1)
	for _, dt := range constants.DocumentTypes {
		if dt != constants.Unknown {
			types = append(types, dt)
		}
	}
	return types
}

// LoadModel would load inference weights from disk. Model support is not
// implemented, so this always fails.
func (m *MLClassifier) LoadModel(path string) error {
	return common.NewAppError("ML_MODEL_UNAVAILABLE", "ml model loading is not implemented", nil)
}
