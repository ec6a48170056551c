package entity

// LineItem is one row of a financial statement.
type LineItem struct {
	Account     string   `json:"account"`
	Amount      *float64 `json:"amount,omitempty"`
	CurrentYear *float64 `json:"current_year,omitempty"`
	PriorYear   *float64 `json:"prior_year,omitempty"`
	Category    string   `json:"category,omitempty"`
	Source      *RowRef  `json:"_source,omitempty"`
}

// StatementMeta is statement-level context found in a document's prose.
type StatementMeta struct {
	CompanyName  string `json:"company_name,omitempty"`
	PeriodEnding string `json:"period_ending,omitempty"`
	FiscalYear   string `json:"fiscal_year,omitempty"`
}

// BalanceCheck records whether a balance sheet satisfied
// assets = liabilities + equity within a $1 rounding tolerance.
type BalanceCheck struct {
	Balanced   bool    `json:"balanced"`
	Difference float64 `json:"difference,omitempty"`
}

// FinancialData is the typed extraction output for FINANCIAL_STATEMENT
// documents. Line items are grouped by detected category (assets,
// liabilities, revenue, ...); totals are keyed "<category>_total" plus the
// derived net_income / balance_check entries.
type FinancialData struct {
	StatementType     string                `json:"statement_type"`
	StatementMetadata StatementMeta         `json:"statement_metadata"`
	LineItems         map[string][]LineItem `json:"line_items"`
	Totals            map[string]float64    `json:"totals"`
	BalanceCheck      *BalanceCheck         `json:"balance_check,omitempty"`
	ItemCount         int                   `json:"item_count"`
}
