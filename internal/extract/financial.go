package extract

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/entity"
)

// Statement kinds the financial extractor distinguishes.
const (
	statementBalanceSheet    = "balance_sheet"
	statementIncomeStatement = "income_statement"
	statementCashFlow        = "cash_flow"
	statementUnknown         = "unknown"
)

type accountCategory struct {
	name     string
	patterns []*regexp.Regexp
}

var balanceSheetCategories = []accountCategory{
	{"assets", compileAll(
		`(total\s+)?assets`,
		`current\s+assets`,
		`fixed\s+assets`,
		`cash`,
		`accounts\s+receivable`,
		`inventory`,
		`property.*equipment`,
	)},
	{"liabilities", compileAll(
		`(total\s+)?liabilities`,
		`current\s+liabilities`,
		`long.*term.*liabilities`,
		`accounts\s+payable`,
		`notes\s+payable`,
		`debt`,
	)},
	{"equity", compileAll(
		`(shareholders?\s+|stockholders?\s+)?equity`,
		`retained\s+earnings`,
		`common\s+stock`,
		`capital`,
	)},
}

var incomeStatementCategories = []accountCategory{
	{"revenue", compileAll(
		`(total\s+)?revenue`,
		`(gross\s+)?sales`,
		`income`,
		`earnings`,
	)},
	{"expenses", compileAll(
		`(total\s+)?expenses`,
		`cost.*(goods\s+sold|sales)`,
		`operating\s+expenses`,
		`(selling|general|administrative).*expenses`,
		`depreciation`,
		`interest\s+expense`,
	)},
	{"net_income", compileAll(
		`net\s+income`,
		`net\s+(profit|loss)`,
		`(net\s+)?earnings`,
	)},
}

var financialColumns = []columnPattern{
	{"account", compileAll(
		`account`,
		`description`,
		`item`,
		`category`,
	)},
	{"amount", compileAll(
		`amount`,
		`balance`,
		`value`,
	)},
	{"current_year", compileAll(
		`(current\s+)?year`,
		`20\d{2}`,
		`ytd`,
	)},
	{"prior_year", compileAll(
		`prior.*year`,
		`previous.*year`,
		`comparative`,
	)},
}

var (
	companyNameRe  = regexp.MustCompile(`(?i)(?:company|corporation|inc|llc)[:\s]+([^\n]+)`)
	periodEndingRe = regexp.MustCompile(`(?i)(?:period|year).*ending[:\s]+([0-9/\-]+)`)
	fiscalYearRe   = regexp.MustCompile(`(?i)fiscal\s+year[:\s]+(\d{4})`)
)

// FinancialExtractor reads balance sheets, income statements, and cash flow
// statements from tables. Line items are bucketed by account category and
// the accounting equation is checked on balance sheets.
type FinancialExtractor struct{}

func NewFinancialExtractor() *FinancialExtractor { return &FinancialExtractor{} }

func (e *FinancialExtractor) Name() string { return "financial_statement" }

func (e *FinancialExtractor) SupportedTypes() []constants.DocumentType {
	return []constants.DocumentType{constants.FinancialStatement}
}

func (e *FinancialExtractor) CanExtract(doc *entity.Document) bool {
	return doc != nil && doc.DocumentType == constants.FinancialStatement && len(doc.Tables) > 0
}

func (e *FinancialExtractor) Extract(_ context.Context, doc *entity.Document) entity.ExtractionResult {
	if doc == nil || doc.DocumentType != constants.FinancialStatement {
		return entity.Failed(fmt.Sprintf("expected %s document", constants.FinancialStatement))
	}
	if len(doc.Tables) == 0 {
		return entity.Failed("no financial tables found")
	}

	statementType := detectStatementType(doc.RawText)

	var (
		items    []entity.LineItem
		warnings []string
	)
	for tableIdx, table := range doc.Tables {
		columnMap := mapColumns(table.Headers, financialColumns)
		if len(columnMap) == 0 {
			warnings = append(warnings, fmt.Sprintf("table %d: no financial columns recognized", tableIdx))
			continue
		}
		for rowIdx, row := range table.Rows {
			item, ok := lineItemFromRow(row, columnMap, statementType)
			if !ok {
				continue
			}
			item.Source = &entity.RowRef{TableIndex: tableIdx, RowIndex: rowIdx}
			items = append(items, item)
		}
	}

	if len(items) == 0 {
		return entity.Failed("no valid financial line items found")
	}

	categorized := make(map[string][]entity.LineItem)
	for _, item := range items {
		categorized[item.Category] = append(categorized[item.Category], item)
	}

	totals, balanceCheck := financialTotals(categorized, statementType)

	data := entity.FinancialData{
		StatementType:     statementType,
		StatementMetadata: extractStatementMeta(doc.RawText),
		LineItems:         categorized,
		Totals:            totals,
		BalanceCheck:      balanceCheck,
		ItemCount:         len(items),
	}
	return entity.ExtractionResult{
		Success:    true,
		Data:       data,
		Confidence: financialConfidence(items, warnings),
		Warnings:   warnings,
	}
}

// detectStatementType keys off statement vocabulary in the prose. Balance
// sheet terms are checked first because mixed filings lead with them.
func detectStatementType(text string) string {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, "balance sheet", "assets", "liabilities", "equity"):
		return statementBalanceSheet
	case containsAny(lower, "income statement", "profit and loss", "revenue", "expenses"):
		return statementIncomeStatement
	case containsAny(lower, "cash flow", "operating activities", "investing activities"):
		return statementCashFlow
	}
	return statementUnknown
}

func containsAny(text string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

// lineItemFromRow maps one row to a LineItem. Valid items carry an account
// name and an amount (current-year counts).
func lineItemFromRow(row []string, columnMap map[string]int, statementType string) (entity.LineItem, bool) {
	item := entity.LineItem{
		Account:     pick(row, columnMap, "account"),
		Amount:      parseAmount(pick(row, columnMap, "amount")),
		CurrentYear: parseAmount(pick(row, columnMap, "current_year")),
		PriorYear:   parseAmount(pick(row, columnMap, "prior_year")),
	}
	if item.Account != "" {
		item.Category = categorizeAccount(item.Account, statementType)
	}
	hasAmount := item.Amount != nil || item.CurrentYear != nil
	return item, item.Account != "" && hasAmount
}

func categorizeAccount(account, statementType string) string {
	var categories []accountCategory
	switch statementType {
	case statementBalanceSheet:
		categories = balanceSheetCategories
	case statementIncomeStatement:
		categories = incomeStatementCategories
	default:
		return "other"
	}

	lower := strings.ToLower(account)
	for _, cat := range categories {
		for _, re := range cat.patterns {
			if re.MatchString(lower) {
				return cat.name
			}
		}
	}
	return "other"
}

// financialTotals sums each category and derives the statement-level
// figures: net income for income statements, and the accounting-equation
// check (within $1) for balance sheets.
func financialTotals(categorized map[string][]entity.LineItem, statementType string) (map[string]float64, *entity.BalanceCheck) {
	totals := make(map[string]float64, len(categorized))
	for category, items := range categorized {
		sum := 0.0
		for _, item := range items {
			switch {
			case item.Amount != nil:
				sum += *item.Amount
			case item.CurrentYear != nil:
				sum += *item.CurrentYear
			}
		}
		totals[category+"_total"] = sum
	}

	switch statementType {
	case statementIncomeStatement:
		totals["net_income"] = totals["revenue_total"] - totals["expenses_total"]
		return totals, nil
	case statementBalanceSheet:
		assets := totals["assets_total"]
		expected := totals["liabilities_total"] + totals["equity_total"]
		if math.Abs(assets-expected) > 1.0 {
			return totals, &entity.BalanceCheck{Balanced: false, Difference: assets - expected}
		}
		return totals, &entity.BalanceCheck{Balanced: true}
	}
	return totals, nil
}

func extractStatementMeta(text string) entity.StatementMeta {
	return entity.StatementMeta{
		CompanyName:  firstGroup(companyNameRe, text),
		PeriodEnding: firstGroup(periodEndingRe, text),
		FiscalYear:   firstGroup(fiscalYearRe, text),
	}
}

// Confidence rewards volume and the share of items that fell into a real
// category rather than "other".
func financialConfidence(items []entity.LineItem, warnings []string) float64 {
	if len(items) == 0 {
		return 0.0
	}
	confidence := 0.7
	if len(items) >= 5 {
		confidence += 0.1
	}
	categorized := 0
	for _, item := range items {
		if item.Category != "other" {
			categorized++
		}
	}
	confidence += float64(categorized) / float64(len(items)) * 0.1
	confidence -= float64(len(warnings)) * 0.05
	return entity.Clamp(confidence)
}
