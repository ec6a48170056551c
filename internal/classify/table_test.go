package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/common"
	"github.com/intakehq/docintel/internal/entity"
)

func lossRunTable() entity.TableData {
	return entity.TableData{
		Headers: []string{"Claim Number", "Date of Loss", "Claimant", "Claim Amount", "Status"},
		Rows: [][]string{
			{"CLM-001", "01/15/2023", "Smith", "$12,500", "Closed"},
			{"CLM-002", "03/02/2023", "Jones", "$4,200", "Open"},
		},
	}
}

func sovTable() entity.TableData {
	return entity.TableData{
		Headers: []string{"Location", "Address", "Building Value", "Contents Value", "Year Built"},
		Rows: [][]string{
			{"1", "100 Main St", "$1,000,000", "$250,000", "1995"},
			{"2", "200 Oak Ave", "$750,000", "$100,000", "2004"},
		},
	}
}

func TestTableClassify(t *testing.T) {
	tc := NewTableClassifier(0, common.TableWeights{})

	tests := []struct {
		name     string
		table    entity.TableData
		wantType constants.DocumentType
	}{
		{"loss run columns", lossRunTable(), constants.LossRun},
		{"sov columns", sovTable(), constants.SOV},
		{
			"financial columns",
			entity.TableData{
				Headers: []string{"Account", "Amount", "Current Year", "Prior Year"},
				Rows: [][]string{
					{"Cash", "50000", "50000", "42000"},
					{"Receivables", "12000", "12000", "9000"},
					{"Total Assets", "62000", "62000", "51000"},
				},
			},
			constants.FinancialStatement,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &entity.Document{Tables: []entity.TableData{tt.table}}
			docType, confidence := tc.Classify(doc)
			assert.Equal(t, tt.wantType, docType)
			assert.Greater(t, confidence, 0.0)
		})
	}
}

func TestTableRequiredColumnGate(t *testing.T) {
	tc := NewTableClassifier(0, common.TableWeights{})

	// Plenty of strong loss run columns but no date-of-loss or
	// claim-amount column, so the table scores zero for loss run.
	doc := &entity.Document{Tables: []entity.TableData{{
		Headers: []string{"Claimant", "Status", "Adjuster", "Carrier"},
		Rows:    [][]string{{"Smith", "Open", "Doe", "Acme"}},
	}}}
	docType, confidence := tc.Classify(doc)
	assert.Equal(t, constants.Unknown, docType)
	assert.Zero(t, confidence)
}

func TestTableStructureBonus(t *testing.T) {
	tc := NewTableClassifier(0, common.TableWeights{})

	full := entity.TableData{
		Headers: []string{"Date of Loss", "Claim Amount", "Status"},
		Rows: [][]string{
			{"01/15/2023", "$12,500", "Closed"},
			{"03/02/2023", "$4,200", "Open"},
		},
	}
	// Same headers but a single row; below min_rows, no structure bonus.
	thin := entity.TableData{
		Headers: full.Headers,
		Rows:    full.Rows[:1],
	}

	_, fullScore := tc.Classify(&entity.Document{Tables: []entity.TableData{full}})
	_, thinScore := tc.Classify(&entity.Document{Tables: []entity.TableData{thin}})
	assert.InDelta(t, defaultTableStructureBonus, fullScore-thinScore, 1e-9)
}

func TestTableWeightsInjected(t *testing.T) {
	doc := &entity.Document{Tables: []entity.TableData{lossRunTable()}}

	_, defConf := NewTableClassifier(0, common.TableWeights{}).Classify(doc)
	assert.Equal(t, 1.0, defConf)

	custom := common.TableWeights{Required: 0.15, Strong: 0.03, Weak: 0.01, StructureBonus: 0.05}
	docType, conf := NewTableClassifier(0, custom).Classify(doc)
	assert.Equal(t, constants.LossRun, docType)
	// Two required and three strong column hits plus the shape bonus.
	assert.InDelta(t, 0.44, conf, 1e-9)
}

func TestTableBestOfSeveral(t *testing.T) {
	tc := NewTableClassifier(0, common.TableWeights{})

	// The score for a type is the max over tables, not a sum.
	doc := &entity.Document{Tables: []entity.TableData{lossRunTable(), lossRunTable()}}
	_, double := tc.Classify(doc)
	_, single := tc.Classify(&entity.Document{Tables: []entity.TableData{lossRunTable()}})
	assert.Equal(t, single, double)
}

func TestTableNoTables(t *testing.T) {
	tc := NewTableClassifier(0, common.TableWeights{})

	assert.False(t, tc.CanClassify(&entity.Document{}))
	docType, confidence := tc.Classify(&entity.Document{})
	assert.Equal(t, constants.Unknown, docType)
	assert.Zero(t, confidence)
}

func TestTableTypeHints(t *testing.T) {
	tc := NewTableClassifier(0, common.TableWeights{})

	doc := &entity.Document{Tables: []entity.TableData{
		lossRunTable(),
		sovTable(),
		{Headers: []string{"Notes"}, Rows: [][]string{{"n/a"}}},
	}}
	hints := tc.TableTypeHints(doc)
	require.Len(t, hints, 2)
	assert.Equal(t, constants.LossRun, hints[0][0].DocumentType)
	assert.Equal(t, constants.SOV, hints[1][0].DocumentType)
	for _, tableHints := range hints {
		for i := 1; i < len(tableHints); i++ {
			assert.GreaterOrEqual(t, tableHints[i-1].Confidence, tableHints[i].Confidence)
		}
	}
}
