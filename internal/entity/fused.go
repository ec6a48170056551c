package entity

import "time"

// FusionMetadata records how a fused submission was assembled.
type FusionMetadata struct {
	GroupID         string         `json:"group_id"`
	DocumentCount   int            `json:"document_count"`
	SuccessfulCount int            `json:"successful_count"`
	FailedCount     int            `json:"failed_count"`
	DocumentsByType map[string]int `json:"documents_by_type"`
	FusedAt         time.Time      `json:"fused_at"`
	Parallelism     int            `json:"parallelism"`
}

// AcordSection pairs one merged ACORD form with the documents it came from.
type AcordSection struct {
	Data       any      `json:"data"`
	Confidence float64  `json:"confidence"`
	SourceIDs  []string `json:"source_documents"`
}

// MergedClaims is the cross-document claims history: concatenated claims,
// deduplicated by claim number, with summed totals and provenance.
type MergedClaims struct {
	Claims     []Claim      `json:"claims"`
	ClaimCount int          `json:"claim_count"`
	Totals     ClaimTotals  `json:"totals"`
	Policies   []PolicyInfo `json:"policies,omitempty"`
	SourceIDs  []string     `json:"source_documents"`
	Duplicates int          `json:"duplicates_removed"`
}

// MergedProperties is the cross-document statement of values.
type MergedProperties struct {
	Properties    []Property     `json:"properties"`
	PropertyCount int            `json:"property_count"`
	Totals        PropertyTotals `json:"totals"`
	SourceIDs     []string       `json:"source_documents"`
	Duplicates    int            `json:"duplicates_removed"`
}

// FinancialSection is the single retained financial statement.
type FinancialSection struct {
	Data       *FinancialData `json:"data"`
	Confidence float64        `json:"confidence"`
	SourceID   string         `json:"source_document"`
}

// SupplementalItem is one supplemental document kept in the fused output,
// tagged with its processing outcome. Failed extractions keep their errors
// here so the fused record shows the gap.
type SupplementalItem struct {
	Data     *SupplementalData `json:"data,omitempty"`
	Status   string            `json:"status"`
	Errors   []string          `json:"errors,omitempty"`
	SourceID string            `json:"source_document"`
	FileName string            `json:"file_name,omitempty"`
}

// FusedSubmission is the single consolidated output of fusing a document
// group: one section per business area, each with provenance back to the
// contributing documents.
type FusedSubmission struct {
	Application          map[string]AcordSection `json:"application,omitempty"`
	ClaimsHistory        *MergedClaims           `json:"claims_history,omitempty"`
	PropertySchedule     *MergedProperties       `json:"property_schedule,omitempty"`
	FinancialInformation *FinancialSection       `json:"financial_information,omitempty"`
	Supplemental         []SupplementalItem      `json:"supplemental_documents,omitempty"`
	Applicant            *Applicant              `json:"applicant,omitempty"`
	Confidence           float64                 `json:"confidence"`
	Metadata             FusionMetadata          `json:"fusion_metadata"`
}
