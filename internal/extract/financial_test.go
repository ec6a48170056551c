package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/entity"
)

func balanceSheetDoc() *entity.Document {
	doc := entity.NewDocument("/tmp/bs.xlsx", "bs.xlsx")
	doc.DocumentType = constants.FinancialStatement
	doc.RawText = "Acme Holdings Balance Sheet\nAssets and Liabilities\nPeriod Ending: 12/31/2023\nFiscal Year: 2023"
	doc.AddTable(entity.TableData{
		Headers: []string{"Account", "Amount"},
		Rows: [][]string{
			{"Cash", "$500,000"},
			{"Accounts Receivable", "$250,000"},
			{"Accounts Payable", "($300,000)"},
			{"Retained Earnings", "$450,000"},
		},
	})
	return doc
}

func TestFinancialBalanceSheet(t *testing.T) {
	result := NewFinancialExtractor().Extract(context.Background(), balanceSheetDoc())
	require.True(t, result.Success, "errors: %v", result.Errors)

	data, ok := result.Data.(entity.FinancialData)
	require.True(t, ok)

	assert.Equal(t, "balance_sheet", data.StatementType)
	assert.Equal(t, 4, data.ItemCount)
	assert.Len(t, data.LineItems["assets"], 2)
	assert.Len(t, data.LineItems["liabilities"], 1)
	assert.Len(t, data.LineItems["equity"], 1)

	assert.InDelta(t, 750000, data.Totals["assets_total"], 0.001)
	assert.InDelta(t, -300000, data.Totals["liabilities_total"], 0.001)
	assert.InDelta(t, 450000, data.Totals["equity_total"], 0.001)

	// 750000 != -300000 + 450000, so the equation does not balance.
	require.NotNil(t, data.BalanceCheck)
	assert.False(t, data.BalanceCheck.Balanced)
	assert.InDelta(t, 600000, data.BalanceCheck.Difference, 0.001)

	assert.Equal(t, "12/31/2023", data.StatementMetadata.PeriodEnding)
	assert.Equal(t, "2023", data.StatementMetadata.FiscalYear)
}

func TestFinancialBalancedSheet(t *testing.T) {
	doc := entity.NewDocument("/tmp/bs.csv", "bs.csv")
	doc.DocumentType = constants.FinancialStatement
	doc.RawText = "Balance Sheet"
	doc.AddTable(entity.TableData{
		Headers: []string{"Account", "Balance"},
		Rows: [][]string{
			{"Total Assets", "$1,000,000"},
			{"Total Liabilities", "$600,000"},
			{"Shareholders Equity", "$400,000"},
		},
	})

	result := NewFinancialExtractor().Extract(context.Background(), doc)
	require.True(t, result.Success)
	data := result.Data.(entity.FinancialData)

	require.NotNil(t, data.BalanceCheck)
	assert.True(t, data.BalanceCheck.Balanced)
}

func TestFinancialIncomeStatement(t *testing.T) {
	doc := entity.NewDocument("/tmp/is.xlsx", "is.xlsx")
	doc.DocumentType = constants.FinancialStatement
	doc.RawText = "Income Statement for the year\nRevenue and Expenses"
	doc.AddTable(entity.TableData{
		Headers: []string{"Item", "Amount"},
		Rows: [][]string{
			{"Total Revenue", "$2,000,000"},
			{"Operating Expenses", "$1,400,000"},
		},
	})

	result := NewFinancialExtractor().Extract(context.Background(), doc)
	require.True(t, result.Success)
	data := result.Data.(entity.FinancialData)

	assert.Equal(t, "income_statement", data.StatementType)
	assert.InDelta(t, 600000, data.Totals["net_income"], 0.001)
	assert.Nil(t, data.BalanceCheck)
}

func TestFinancialCurrentYearColumn(t *testing.T) {
	doc := entity.NewDocument("/tmp/fin.xlsx", "fin.xlsx")
	doc.DocumentType = constants.FinancialStatement
	doc.RawText = "Balance Sheet"
	doc.AddTable(entity.TableData{
		Headers: []string{"Description", "2023", "Prior Year"},
		Rows: [][]string{
			{"Cash", "$100,000", "$80,000"},
		},
	})

	result := NewFinancialExtractor().Extract(context.Background(), doc)
	require.True(t, result.Success)
	data := result.Data.(entity.FinancialData)

	items := data.LineItems["assets"]
	require.Len(t, items, 1)
	require.NotNil(t, items[0].CurrentYear)
	assert.InDelta(t, 100000, *items[0].CurrentYear, 0.001)
	require.NotNil(t, items[0].PriorYear)
	assert.InDelta(t, 80000, *items[0].PriorYear, 0.001)
	assert.InDelta(t, 100000, data.Totals["assets_total"], 0.001)
}

func TestDetectStatementType(t *testing.T) {
	assert.Equal(t, "balance_sheet", detectStatementType("Consolidated Balance Sheet"))
	assert.Equal(t, "income_statement", detectStatementType("Profit and Loss Statement"))
	assert.Equal(t, "cash_flow", detectStatementType("Cash Flow from Operating Activities"))
	assert.Equal(t, "unknown", detectStatementType("quarterly summary"))
}

func TestFinancialNoValidItems(t *testing.T) {
	doc := entity.NewDocument("/tmp/fin.csv", "fin.csv")
	doc.DocumentType = constants.FinancialStatement
	doc.AddTable(entity.TableData{
		Headers: []string{"Account", "Amount"},
		Rows:    [][]string{{"Cash", "n/a"}},
	})

	result := NewFinancialExtractor().Extract(context.Background(), doc)
	assert.False(t, result.Success)
}
