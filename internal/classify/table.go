package classify

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/common"
	"github.com/intakehq/docintel/internal/entity"
)

// Default column match weights plus a bonus when the table shape looks
// right for the candidate type.
const (
	defaultTableRequiredWeight = 0.35
	defaultTableStrongWeight   = 0.08
	defaultTableWeakWeight     = 0.02
	defaultTableStructureBonus = 0.15
)

type tablePattern struct {
	docType    constants.DocumentType
	required   []*regexp.Regexp
	strong     []*regexp.Regexp
	weak       []*regexp.Regexp
	minColumns int
	minRows    int
}

var tablePatterns = []tablePattern{
	{
		docType: constants.LossRun,
		required: compileAll(
			`(date|dt).*loss`,
			`claim.*amount`,
		),
		strong: compileAll(
			`claim.*(number|no|id)`,
			`(paid|incurred|reserve)`,
			`claimant`,
			`status`,
			`description.*(loss|claim)`,
			`policy.*(number|no)`,
		),
		weak: compileAll(
			`date.*report`,
			`adjuster`,
			`carrier`,
			`coverage`,
		),
		minColumns: 3,
		minRows:    2,
	},
	{
		docType: constants.SOV,
		required: compileAll(
			`location`,
			`(building|property).*value`,
		),
		strong: compileAll(
			`address`,
			`contents.*value`,
			`construction`,
			`occupancy`,
			`total.*value`,
			`(tiv|total.*insured.*value)`,
			`year.*built`,
		),
		weak: compileAll(
			`stories`,
			`square.*feet`,
			`sprinkler`,
			`alarm`,
			`roof`,
		),
		minColumns: 3,
		minRows:    2,
	},
	{
		docType: constants.FinancialStatement,
		required: compileAll(
			`(account|category)`,
			`(amount|balance|value)`,
		),
		strong: compileAll(
			`(assets|liabilities)`,
			`(debit|credit)`,
			`(revenue|expense)`,
			`total`,
			`(current|prior).*year`,
		),
		weak: compileAll(
			`description`,
			`notes`,
			`percentage`,
		),
		minColumns: 2,
		minRows:    3,
	},
}

type columnMatches struct {
	required []string
	strong   []string
	weak     []string
}

// TableClassifier identifies schedule-style documents (loss runs, SOVs,
// financial statements) from column headers and table shape. A document's
// score for a type is the best score among its tables.
type TableClassifier struct {
	minConfidence float64
	weights       common.TableWeights
}

// NewTableClassifier returns a table structure classifier. minConfidence
// <= 0 defaults to 0.6; zero weight fields fall back to the default
// column weights.
func NewTableClassifier(minConfidence float64, weights common.TableWeights) *TableClassifier {
	if minConfidence <= 0 {
		minConfidence = 0.6
	}
	if weights.Required <= 0 {
		weights.Required = defaultTableRequiredWeight
	}
	if weights.Strong <= 0 {
		weights.Strong = defaultTableStrongWeight
	}
	if weights.Weak <= 0 {
		weights.Weak = defaultTableWeakWeight
	}
	if weights.StructureBonus <= 0 {
		weights.StructureBonus = defaultTableStructureBonus
	}
	return &TableClassifier{minConfidence: minConfidence, weights: weights}
}

func (t *TableClassifier) Name() string           { return "table" }
func (t *TableClassifier) Priority() int          { return 40 }
func (t *TableClassifier) MinConfidence() float64 { return t.minConfidence }

func (t *TableClassifier) CanClassify(doc *entity.Document) bool {
	return doc != nil && len(doc.Tables) > 0
}

func (t *TableClassifier) SupportedTypes() []constants.DocumentType {
	types := make([]constants.DocumentType, len(tablePatterns))
	for i, p := range tablePatterns {
		types[i] = p.docType
	}
	return types
}

func (t *TableClassifier) Classify(doc *entity.Document) (constants.DocumentType, float64) {
	if !t.CanClassify(doc) {
		return constants.Unknown, 0.0
	}

	best := constants.Unknown
	bestScore := 0.0
	for _, pattern := range tablePatterns {
		score := t.scoreType(doc, pattern)
		if score > bestScore {
			best = pattern.docType
			bestScore = score
		}
	}
	if bestScore == 0 {
		return constants.Unknown, 0.0
	}
	return best, entity.Clamp(bestScore)
}

// scoreType takes the max over tables; a table with no required column
// match contributes nothing.
func (t *TableClassifier) scoreType(doc *entity.Document, pattern tablePattern) float64 {
	maxScore := 0.0
	for _, table := range doc.Tables {
		matches := matchColumns(table.Headers, pattern)
		if len(matches.required) == 0 {
			continue
		}
		score := matchScore(matches, t.weights)
		if goodStructure(table, pattern) {
			score += t.weights.StructureBonus
		}
		if score > maxScore {
			maxScore = score
		}
	}
	return maxScore
}

func (t *TableClassifier) Indicators(doc *entity.Document) []entity.Indicator {
	if !t.CanClassify(doc) {
		return nil
	}

	var indicators []entity.Indicator
	for i, table := range doc.Tables {
		for _, pattern := range tablePatterns {
			matches := matchColumns(table.Headers, pattern)
			if len(matches.required) == 0 && len(matches.strong) == 0 {
				continue
			}
			indicators = append(indicators, entity.Indicator{
				Type:         "table_structure",
				Category:     "columns",
				Value:        strings.Join(append(matches.required, matches.strong...), ","),
				Matches:      len(matches.required) + len(matches.strong) + len(matches.weak),
				Confidence:   entity.Clamp(matchScore(matches, t.weights)),
				Location:     tableLocation(i, table),
				DocumentType: pattern.docType,
			})
		}
	}
	return indicators
}

// TypeHint pairs a candidate type with its table-level confidence.
type TypeHint struct {
	DocumentType constants.DocumentType
	Confidence   float64
}

// TableTypeHints scores every table independently, returning per-table
// candidate types sorted by confidence. Extractors use this to pick the
// most relevant table in mixed workbooks.
func (t *TableClassifier) TableTypeHints(doc *entity.Document) map[int][]TypeHint {
	hints := make(map[int][]TypeHint)
	for i, table := range doc.Tables {
		var tableHints []TypeHint
		for _, pattern := range tablePatterns {
			matches := matchColumns(table.Headers, pattern)
			if len(matches.required) == 0 {
				continue
			}
			confidence := entity.Clamp(matchScore(matches, t.weights))
			if goodStructure(table, pattern) {
				confidence += t.weights.StructureBonus
			}
			tableHints = append(tableHints, TypeHint{
				DocumentType: pattern.docType,
				Confidence:   entity.Clamp(confidence),
			})
		}
		if len(tableHints) > 0 {
			sort.SliceStable(tableHints, func(a, b int) bool {
				return tableHints[a].Confidence > tableHints[b].Confidence
			})
			hints[i] = tableHints
		}
	}
	return hints
}

// matchColumns records which headers satisfy each pattern tier. Each
// pattern counts at most once, against the first header it matches.
func matchColumns(headers []string, pattern tablePattern) columnMatches {
	lower := make([]string, len(headers))
	for i, h := range headers {
		lower[i] = strings.ToLower(h)
	}

	var matches columnMatches
	tiers := []struct {
		patterns []*regexp.Regexp
		out      *[]string
	}{
		{pattern.required, &matches.required},
		{pattern.strong, &matches.strong},
		{pattern.weak, &matches.weak},
	}
	for _, tier := range tiers {
		for _, re := range tier.patterns {
			for _, header := range lower {
				if re.MatchString(header) {
					*tier.out = append(*tier.out, header)
					break
				}
			}
		}
	}
	return matches
}

func matchScore(matches columnMatches, w common.TableWeights) float64 {
	return float64(len(matches.required))*w.Required +
		float64(len(matches.strong))*w.Strong +
		float64(len(matches.weak))*w.Weak
}

func goodStructure(table entity.TableData, pattern tablePattern) bool {
	return table.ColumnCount() >= pattern.minColumns && table.RowCount() >= pattern.minRows
}

func tableLocation(index int, table entity.TableData) string {
	if sheet, ok := table.Metadata["sheet"].(string); ok && sheet != "" {
		return sheet
	}
	return "table_" + strconv.Itoa(index)
}
