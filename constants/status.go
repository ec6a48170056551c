package constants

// DocumentStatus is the canonical per-document processing state.
type DocumentStatus string

// Stable values (surfaced in result metadata as these exact strings).
const (
	StatusPending    DocumentStatus = "PENDING"    // created, not yet loaded
	StatusLoaded     DocumentStatus = "LOADED"     // reader populated content
	StatusClassified DocumentStatus = "CLASSIFIED" // type + confidence set
	StatusExtracted  DocumentStatus = "EXTRACTED"  // extraction succeeded
	StatusValidated  DocumentStatus = "VALIDATED"  // reserved for the external validation service
	StatusFailed     DocumentStatus = "FAILED"     // terminal failure
)
