package entity

// RowRef points back at the table row (or sheet row) an item came from.
type RowRef struct {
	TableIndex int    `json:"table_index,omitempty"`
	RowIndex   int    `json:"row_index"`
	Sheet      string `json:"sheet,omitempty"`
}

// Claim is one historical claim from a loss run. Amounts are pointers so a
// missing column is distinguishable from a zero amount.
type Claim struct {
	ClaimNumber  string            `json:"claim_number,omitempty"`
	DateOfLoss   string            `json:"date_of_loss,omitempty"`
	DateReported string            `json:"date_reported,omitempty"`
	Claimant     string            `json:"claimant,omitempty"`
	Status       string            `json:"status,omitempty"`
	Description  string            `json:"description,omitempty"`
	PolicyNumber string            `json:"policy_number,omitempty"`
	ClaimAmount  *float64          `json:"claim_amount,omitempty"`
	Paid         *float64          `json:"paid,omitempty"`
	Incurred     *float64          `json:"incurred,omitempty"`
	Reserve      *float64          `json:"reserve,omitempty"`
	Source       *RowRef           `json:"_source,omitempty"`
	Extra        map[string]string `json:"extra,omitempty"`
}

// ClaimTotals aggregates amounts across a claim list.
type ClaimTotals struct {
	TotalPaid     float64 `json:"total_paid"`
	TotalIncurred float64 `json:"total_incurred"`
	TotalReserve  float64 `json:"total_reserve"`
	TotalClaims   int     `json:"total_claims"`
}

// PolicyInfo is policy-level context found in a document's prose.
type PolicyInfo struct {
	PolicyNumber string `json:"policy_number,omitempty"`
	InsuredName  string `json:"insured_name,omitempty"`
	PeriodStart  string `json:"period_start,omitempty"`
	PeriodEnd    string `json:"period_end,omitempty"`
}

// LossRunData is the typed extraction output for LOSS_RUN documents.
type LossRunData struct {
	PolicyInformation PolicyInfo  `json:"policy_information"`
	Claims            []Claim     `json:"claims"`
	ClaimCount        int         `json:"claim_count"`
	Totals            ClaimTotals `json:"totals"`
}
