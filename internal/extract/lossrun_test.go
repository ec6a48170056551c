package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/entity"
)

func lossRunDoc() *entity.Document {
	doc := entity.NewDocument("/tmp/lossrun.xlsx", "lossrun.xlsx")
	doc.DocumentType = constants.LossRun
	doc.RawText = "Policy Number: GL-123456\nNamed Insured: Acme Manufacturing\nPolicy Period: 01/01/2022 to 01/01/2023"
	doc.AddTable(entity.TableData{
		Headers: []string{"Claim Number", "Date of Loss", "Claimant", "Status", "Paid", "Incurred", "Reserve"},
		Rows: [][]string{
			{"CLM-001", "03/15/2022", "J. Smith", "Closed", "$12,500", "$15,000", "$0"},
			{"CLM-002", "06/01/2022", "B. Jones", "Open", "$3,000", "$8,000", "$5,000"},
			{"CLM-003", "09/30/2022", "A. Doe", "Closed", "$1,200.50", "$1,200.50", "$0"},
			{"", "", "", "", "", "", ""},
		},
	})
	return doc
}

func TestLossRunExtract(t *testing.T) {
	result := NewLossRunExtractor().Extract(context.Background(), lossRunDoc())
	require.True(t, result.Success, "errors: %v", result.Errors)

	data, ok := result.Data.(entity.LossRunData)
	require.True(t, ok)

	require.Len(t, data.Claims, 3)
	assert.Equal(t, 3, data.ClaimCount)
	assert.Equal(t, "CLM-001", data.Claims[0].ClaimNumber)
	assert.Equal(t, "2022-03-15", data.Claims[0].DateOfLoss)
	require.NotNil(t, data.Claims[0].Paid)
	assert.InDelta(t, 12500, *data.Claims[0].Paid, 0.001)

	assert.InDelta(t, 16700.50, data.Totals.TotalPaid, 0.001)
	assert.InDelta(t, 24200.50, data.Totals.TotalIncurred, 0.001)
	assert.InDelta(t, 5000, data.Totals.TotalReserve, 0.001)
	assert.Equal(t, 3, data.Totals.TotalClaims)

	assert.Equal(t, "GL-123456", data.PolicyInformation.PolicyNumber)
	assert.Equal(t, "Acme Manufacturing", data.PolicyInformation.InsuredName)
	assert.Equal(t, "2022-01-01", data.PolicyInformation.PeriodStart)
	assert.Equal(t, "2023-01-01", data.PolicyInformation.PeriodEnd)

	// Three complete claims, no warnings: 0.7 + 0.1 + 0.15.
	assert.InDelta(t, 0.95, result.Confidence, 0.001)
}

func TestLossRunRowValidity(t *testing.T) {
	doc := entity.NewDocument("/tmp/lr.csv", "lr.csv")
	doc.DocumentType = constants.LossRun
	doc.AddTable(entity.TableData{
		Headers: []string{"Claim Number", "Date of Loss", "Paid"},
		Rows: [][]string{
			{"CLM-100", "01/01/2023", "$500"}, // valid
			{"", "02/01/2023", "$250"},        // valid: date identifies it
			{"CLM-101", "03/01/2023", ""},     // no amount
			{"", "", "$900"},                  // no identifier
		},
	})

	result := NewLossRunExtractor().Extract(context.Background(), doc)
	require.True(t, result.Success)
	data := result.Data.(entity.LossRunData)
	assert.Len(t, data.Claims, 2)
}

func TestLossRunProvenance(t *testing.T) {
	result := NewLossRunExtractor().Extract(context.Background(), lossRunDoc())
	require.True(t, result.Success)
	data := result.Data.(entity.LossRunData)

	require.NotNil(t, data.Claims[1].Source)
	assert.Equal(t, 0, data.Claims[1].Source.TableIndex)
	assert.Equal(t, 1, data.Claims[1].Source.RowIndex)
}

func TestLossRunWrongType(t *testing.T) {
	doc := entity.NewDocument("/tmp/x.pdf", "x.pdf")
	doc.DocumentType = constants.SOV

	result := NewLossRunExtractor().Extract(context.Background(), doc)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Errors)
}

func TestLossRunUnmappableTable(t *testing.T) {
	doc := entity.NewDocument("/tmp/x.csv", "x.csv")
	doc.DocumentType = constants.LossRun
	doc.AddTable(entity.TableData{
		Headers: []string{"Alpha", "Beta"},
		Rows:    [][]string{{"1", "2"}},
	})

	result := NewLossRunExtractor().Extract(context.Background(), doc)
	assert.False(t, result.Success)
}

func TestLossRunCanExtract(t *testing.T) {
	e := NewLossRunExtractor()
	assert.True(t, e.CanExtract(lossRunDoc()))

	empty := entity.NewDocument("/tmp/e.pdf", "e.pdf")
	empty.DocumentType = constants.LossRun
	assert.False(t, e.CanExtract(empty))
	assert.False(t, e.CanExtract(nil))
}
