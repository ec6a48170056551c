package classify

import (
	"regexp"
	"strings"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/common"
	"github.com/intakehq/docintel/internal/entity"
)

// Default keyword tier weights. One required hit anchors a classification;
// strong and weak hits refine it.
const (
	defaultKeywordRequiredWeight = 0.40
	defaultKeywordStrongWeight   = 0.10
	defaultKeywordWeakWeight     = 0.03
)

type keywordSet struct {
	docType  constants.DocumentType
	required []*regexp.Regexp
	strong   []*regexp.Regexp
	weak     []*regexp.Regexp
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// Ordered by declaration order of the document types; ties between equal
// scores resolve to the earlier entry.
var keywordSets = []keywordSet{
	{
		docType: constants.Acord126,
		required: compileAll(
			`acord\s*126`,
			`commercial\s+general\s+liability`,
		),
		strong: compileAll(
			`named\s+insured`,
			`general\s+aggregate`,
			`products\s+completed\s+operations`,
			`each\s+occurrence`,
			`personal\s+advertising\s+injury`,
		),
		weak: compileAll(
			`premises\s+operations`,
			`medical\s+expense`,
			`fire\s+damage`,
			`policy\s+period`,
		),
	},
	{
		docType: constants.Acord125,
		required: compileAll(
			`acord\s*125`,
			`commercial\s+insurance`,
		),
		strong: compileAll(
			`general\s+liability`,
			`automobile\s+liability`,
			`umbrella\s+liability`,
			`workers\s+compensation`,
		),
		weak: compileAll(
			`certificate\s+holder`,
			`policy\s+number`,
		),
	},
	{
		docType: constants.Acord130,
		required: compileAll(
			`acord\s*130`,
			`workers\s+compensation`,
		),
		strong: compileAll(
			`experience\s+modification`,
			`classification\s+code`,
			`payroll`,
		),
	},
	{
		docType: constants.Acord140,
		required: compileAll(
			`acord\s*140`,
			`property\s+section`,
		),
		strong: compileAll(
			`building\s+value`,
			`contents\s+value`,
			`business\s+income`,
		),
	},
	{
		docType: constants.LossRun,
		required: compileAll(
			`(loss\s+run|claim\s+history|loss\s+history)`,
		),
		strong: compileAll(
			`date\s+of\s+loss`,
			`claim\s+(number|amount|status)`,
			`(paid|incurred|reserve)`,
			`claimant`,
			`description\s+of\s+loss`,
		),
		weak: compileAll(
			`policy\s+number`,
			`policy\s+period`,
			`total\s+(paid|incurred)`,
		),
	},
	{
		docType: constants.SOV,
		required: compileAll(
			`(schedule\s+of\s+values|statement\s+of\s+values|sov)`,
		),
		strong: compileAll(
			`(building|property)\s+value`,
			`contents\s+value`,
			`(location|address)`,
			`construction\s+type`,
			`occupancy`,
			`total\s+insured\s+value`,
		),
		weak: compileAll(
			`year\s+built`,
			`square\s+feet`,
			`number\s+of\s+stories`,
		),
	},
	{
		docType: constants.FinancialStatement,
		required: compileAll(
			`(balance\s+sheet|income\s+statement|financial\s+statement)`,
		),
		strong: compileAll(
			`(assets|liabilities|equity)`,
			`(revenue|expenses|net\s+income)`,
			`total\s+assets`,
			`total\s+liabilities`,
			`shareholders\s+equity`,
		),
		weak: compileAll(
			`fiscal\s+year`,
			`cash\s+flow`,
			`retained\s+earnings`,
		),
	},
}

// KeywordClassifier scores documents by matching type-specific keyword
// patterns against the document text.
//
// Scores accumulate per matched pattern, so a text hitting every tier can
// exceed 1.0 before the final clamp. The raw tier sums differ across types
// (types with longer pattern lists can reach higher raw scores); scores are
// comparable as evidence counts, not calibrated probabilities.
type KeywordClassifier struct {
	minConfidence float64
	weights       common.KeywordWeights
}

// NewKeywordClassifier returns a keyword classifier. minConfidence <= 0
// defaults to 0.5; zero weight fields fall back to the default tier
// weights.
func NewKeywordClassifier(minConfidence float64, weights common.KeywordWeights) *KeywordClassifier {
	if minConfidence <= 0 {
		minConfidence = 0.5
	}
	if weights.Required <= 0 {
		weights.Required = defaultKeywordRequiredWeight
	}
	if weights.Strong <= 0 {
		weights.Strong = defaultKeywordStrongWeight
	}
	if weights.Weak <= 0 {
		weights.Weak = defaultKeywordWeakWeight
	}
	return &KeywordClassifier{minConfidence: minConfidence, weights: weights}
}

func (k *KeywordClassifier) Name() string  { return "keyword" }
func (k *KeywordClassifier) Priority() int { return 30 }

// MinConfidence is the threshold callers may use with IsConfident.
func (k *KeywordClassifier) MinConfidence() float64 { return k.minConfidence }

func (k *KeywordClassifier) CanClassify(doc *entity.Document) bool {
	return doc != nil && doc.RawText != ""
}

func (k *KeywordClassifier) SupportedTypes() []constants.DocumentType {
	types := make([]constants.DocumentType, len(keywordSets))
	for i, set := range keywordSets {
		types[i] = set.docType
	}
	return types
}

func (k *KeywordClassifier) Classify(doc *entity.Document) (constants.DocumentType, float64) {
	if !k.CanClassify(doc) {
		return constants.Unknown, 0.0
	}
	text := strings.ToLower(doc.RawText)

	best := constants.Unknown
	bestScore := 0.0
	for _, set := range keywordSets {
		score := scoreKeywordSet(text, set, k.weights)
		if score > bestScore {
			best = set.docType
			bestScore = score
		}
	}
	if bestScore == 0 {
		return constants.Unknown, 0.0
	}
	return best, entity.Clamp(bestScore)
}

func (k *KeywordClassifier) Indicators(doc *entity.Document) []entity.Indicator {
	if !k.CanClassify(doc) {
		return nil
	}
	text := strings.ToLower(doc.RawText)

	var indicators []entity.Indicator
	for _, set := range keywordSets {
		tiers := []struct {
			category string
			weight   float64
			patterns []*regexp.Regexp
		}{
			{"required", k.weights.Required, set.required},
			{"strong", k.weights.Strong, set.strong},
			{"weak", k.weights.Weak, set.weak},
		}
		for _, tier := range tiers {
			for _, re := range tier.patterns {
				matches := re.FindAllString(text, -1)
				if len(matches) == 0 {
					continue
				}
				indicators = append(indicators, entity.Indicator{
					Type:         "keyword",
					Category:     tier.category,
					Value:        re.String(),
					Matches:      len(matches),
					Confidence:   tier.weight,
					DocumentType: set.docType,
				})
			}
		}
	}
	return indicators
}

// scoreKeywordSet gates on the required tier. Zero required hits means
// score zero regardless of strong or weak matches.
func scoreKeywordSet(text string, set keywordSet, w common.KeywordWeights) float64 {
	requiredFound := countMatching(text, set.required)
	if len(set.required) > 0 && requiredFound == 0 {
		return 0.0
	}

	score := float64(requiredFound) * w.Required
	score += float64(countMatching(text, set.strong)) * w.Strong
	score += float64(countMatching(text, set.weak)) * w.Weak
	return score
}

func countMatching(text string, patterns []*regexp.Regexp) int {
	n := 0
	for _, re := range patterns {
		if re.MatchString(text) {
			n++
		}
	}
	return n
}
