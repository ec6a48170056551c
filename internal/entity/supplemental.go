package entity

// Supplemental sub-type names reported by the supplemental extractor.
const (
	SupplementalGeneric       = "generic"
	SupplementalDriverLicense = "driver_license"
	SupplementalCertificate   = "certificate"
	SupplementalPhoto         = "photo"
	SupplementalReceipt       = "receipt"
)

// SupplementalData is the typed output for documents that carry supporting
// information rather than a structured schedule: licenses, certificates,
// photos, receipts, and anything else that classified as supplemental.
type SupplementalData struct {
	SubType    string            `json:"sub_type"`
	Fields     map[string]string `json:"extracted_fields,omitempty"`
	TextLength int               `json:"text_length"`
	ImageCount int               `json:"image_count"`
}
