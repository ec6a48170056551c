package classify

import (
	"log/slog"
	"sort"

	"github.com/intakehq/docintel/internal/common"
	"github.com/intakehq/docintel/internal/entity"
)

// Registry holds the available classifiers in priority order.
type Registry struct {
	classifiers []Classifier
	logger      *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Register adds a classifier and keeps the list sorted by priority.
// Registration order is preserved within equal priorities.
func (r *Registry) Register(c Classifier) {
	r.classifiers = append(r.classifiers, c)
	sort.SliceStable(r.classifiers, func(i, j int) bool {
		return r.classifiers[i].Priority() < r.classifiers[j].Priority()
	})
	r.logger.Debug("classify.registry.registered", "classifier", c.Name(), "priority", c.Priority())
}

// Classifiers returns the registered classifiers, highest priority first.
func (r *Registry) Classifiers() []Classifier {
	out := make([]Classifier, len(r.classifiers))
	copy(out, r.classifiers)
	return out
}

// For returns the classifiers that can analyze the given document.
func (r *Registry) For(doc *entity.Document) []Classifier {
	var out []Classifier
	for _, c := range r.classifiers {
		if c.CanClassify(doc) {
			out = append(out, c)
		}
	}
	return out
}

// Composite wraps the registered classifiers in a composite using the
// given aggregation strategy.
func (r *Registry) Composite(strategy Strategy) *CompositeClassifier {
	return NewCompositeClassifier(r.Classifiers(), strategy, r.logger)
}

// DefaultRegistry wires the standard classifier set: MIME hints first,
// then keyword and table analysis. The ML placeholder is registered but
// declines documents until a model is loaded. Thresholds and tier weights
// come from cfg; zero fields fall back to each classifier's defaults.
func DefaultRegistry(cfg common.ClassifyConfig, logger *slog.Logger) *Registry {
	r := NewRegistry(logger)
	r.Register(NewMimeClassifier(cfg.MimeMultiplier))
	r.Register(NewKeywordClassifier(cfg.KeywordMinScore, cfg.KeywordWeights))
	r.Register(NewTableClassifier(cfg.TableMinScore, cfg.TableWeights))
	r.Register(NewMLClassifier(""))
	return r
}
