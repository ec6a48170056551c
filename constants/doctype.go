package constants

// DocumentType is the closed set of submission document types this
// pipeline classifies into. The declaration order is significant: keyword
// scoring breaks ties by taking the first declared type.
type DocumentType string

// Stable values (these exact strings appear in extraction output).
const (
	Acord126           DocumentType = "acord_126"
	Acord125           DocumentType = "acord_125"
	Acord130           DocumentType = "acord_130"
	Acord140           DocumentType = "acord_140"
	LossRun            DocumentType = "loss_run"
	SOV                DocumentType = "sov"
	FinancialStatement DocumentType = "financial_statement"
	Supplemental       DocumentType = "supplemental"
	Generic            DocumentType = "generic"
	Unknown            DocumentType = "unknown"
)

// DocumentTypes lists every type in declaration order.
var DocumentTypes = []DocumentType{
	Acord126, Acord125, Acord130, Acord140,
	LossRun, SOV, FinancialStatement,
	Supplemental, Generic, Unknown,
}

// AcordTypes lists the four ACORD application form types in merge order.
var AcordTypes = []DocumentType{Acord126, Acord125, Acord130, Acord140}

// IsAcord reports whether t is one of the ACORD form types.
func IsAcord(t DocumentType) bool {
	for _, a := range AcordTypes {
		if t == a {
			return true
		}
	}
	return false
}
