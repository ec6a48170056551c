package classify

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/entity"
)

// Strategy selects how the composite aggregates sub-classifier results.
type Strategy string

const (
	// StrategyHighestConfidence takes the single most confident result.
	StrategyHighestConfidence Strategy = "highest_confidence"
	// StrategyWeightedAverage averages confidence per document type and
	// takes the best average.
	StrategyWeightedAverage Strategy = "weighted_average"
	// StrategyVoting takes the majority type, breaking ties by confidence.
	StrategyVoting Strategy = "voting"
)

// ParseStrategy maps a config string to a Strategy. Unrecognized values
// fall back to highest_confidence.
func ParseStrategy(s string) Strategy {
	switch Strategy(s) {
	case StrategyHighestConfidence, StrategyWeightedAverage, StrategyVoting:
		return Strategy(s)
	}
	return StrategyHighestConfidence
}

// CompositeClassifier fans a document out to several classifiers and
// aggregates their votes. A sub-classifier that errors or panics is skipped
// so one bad signal cannot sink classification.
type CompositeClassifier struct {
	classifiers []Classifier
	strategy    Strategy
	logger      *slog.Logger
}

// NewCompositeClassifier builds a composite over the given classifiers,
// ordered by ascending priority. Registration order breaks priority ties
// and, for highest_confidence, equal-confidence ties.
func NewCompositeClassifier(classifiers []Classifier, strategy Strategy, logger *slog.Logger) *CompositeClassifier {
	if logger == nil {
		logger = slog.Default()
	}
	ordered := make([]Classifier, len(classifiers))
	copy(ordered, classifiers)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority() < ordered[j].Priority()
	})
	return &CompositeClassifier{classifiers: ordered, strategy: strategy, logger: logger}
}

func (c *CompositeClassifier) Name() string {
	return fmt.Sprintf("composite(%d)", len(c.classifiers))
}

func (c *CompositeClassifier) Priority() int { return 50 }

func (c *CompositeClassifier) CanClassify(doc *entity.Document) bool {
	for _, cl := range c.classifiers {
		if cl.CanClassify(doc) {
			return true
		}
	}
	return false
}

func (c *CompositeClassifier) SupportedTypes() []constants.DocumentType {
	seen := map[constants.DocumentType]struct{}{}
	var types []constants.DocumentType
	for _, cl := range c.classifiers {
		for _, dt := range cl.SupportedTypes() {
			if _, ok := seen[dt]; !ok {
				seen[dt] = struct{}{}
				types = append(types, dt)
			}
		}
	}
	return types
}

func (c *CompositeClassifier) Classify(doc *entity.Document) (constants.DocumentType, float64) {
	results := c.collect(doc)
	if len(results) == 0 {
		return constants.Unknown, 0.0
	}

	switch c.strategy {
	case StrategyWeightedAverage:
		return weightedAverage(results)
	case StrategyVoting:
		return voting(results)
	default:
		r := highestConfidence(results)
		return r.DocumentType, r.Confidence
	}
}

func (c *CompositeClassifier) Indicators(doc *entity.Document) []entity.Indicator {
	var all []entity.Indicator
	for _, cl := range c.classifiers {
		if !cl.CanClassify(doc) {
			continue
		}
		indicators := c.safeIndicators(cl, doc)
		for i := range indicators {
			indicators[i].Classifier = cl.Name()
		}
		all = append(all, indicators...)
	}
	return all
}

func (c *CompositeClassifier) collect(doc *entity.Document) []Result {
	var results []Result
	for _, cl := range c.classifiers {
		if !cl.CanClassify(doc) {
			continue
		}
		docType, confidence, ok := c.safeClassify(cl, doc)
		if !ok {
			continue
		}
		results = append(results, Result{
			DocumentType: docType,
			Confidence:   confidence,
			Classifier:   cl.Name(),
		})
	}
	return results
}

func (c *CompositeClassifier) safeClassify(cl Classifier, doc *entity.Document) (docType constants.DocumentType, confidence float64, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("classify.panic", "classifier", cl.Name(), "panic", r)
			ok = false
		}
	}()
	docType, confidence = cl.Classify(doc)
	return docType, confidence, true
}

func (c *CompositeClassifier) safeIndicators(cl Classifier, doc *entity.Document) (indicators []entity.Indicator) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("classify.indicators.panic", "classifier", cl.Name(), "panic", r)
			indicators = nil
		}
	}()
	return cl.Indicators(doc)
}

// highestConfidence keeps the first result on equal confidence, so earlier
// registered classifiers win ties.
func highestConfidence(results []Result) Result {
	best := results[0]
	for _, r := range results[1:] {
		if r.Confidence > best.Confidence {
			best = r
		}
	}
	return best
}

func weightedAverage(results []Result) (constants.DocumentType, float64) {
	sums := map[constants.DocumentType]float64{}
	counts := map[constants.DocumentType]int{}
	var order []constants.DocumentType
	for _, r := range results {
		if _, ok := sums[r.DocumentType]; !ok {
			order = append(order, r.DocumentType)
		}
		sums[r.DocumentType] += r.Confidence
		counts[r.DocumentType]++
	}

	best := order[0]
	bestAvg := sums[best] / float64(counts[best])
	for _, dt := range order[1:] {
		avg := sums[dt] / float64(counts[dt])
		if avg > bestAvg {
			best = dt
			bestAvg = avg
		}
	}
	return best, bestAvg
}

func voting(results []Result) (constants.DocumentType, float64) {
	votes := map[constants.DocumentType]int{}
	for _, r := range results {
		votes[r.DocumentType]++
	}
	maxVotes := 0
	for _, n := range votes {
		if n > maxVotes {
			maxVotes = n
		}
	}

	var tied []constants.DocumentType
	for dt, n := range votes {
		if n == maxVotes {
			tied = append(tied, dt)
		}
	}

	if len(tied) == 1 {
		winner := tied[0]
		sum, count := 0.0, 0
		for _, r := range results {
			if r.DocumentType == winner {
				sum += r.Confidence
				count++
			}
		}
		return winner, sum / float64(count)
	}

	tiedSet := map[constants.DocumentType]struct{}{}
	for _, dt := range tied {
		tiedSet[dt] = struct{}{}
	}
	var tiedResults []Result
	for _, r := range results {
		if _, ok := tiedSet[r.DocumentType]; ok {
			tiedResults = append(tiedResults, r)
		}
	}
	r := highestConfidence(tiedResults)
	return r.DocumentType, r.Confidence
}
