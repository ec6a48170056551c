// Package entity holds the data types shared across the classification,
// extraction, and fusion layers. Every type here is a plain record for
// transfer between layers; behavior lives in the packages that consume them.
package entity

import (
	"time"

	"github.com/intakehq/docintel/constants"
)

// Document is the normalized in-memory representation of one submission
// file, regardless of its original format. A reader populates the content
// fields at load time; classification sets the type and confidence;
// extraction only reads.
type Document struct {
	ID            string                    `json:"id"`
	FilePath      string                    `json:"file_path"`
	FileName      string                    `json:"file_name"`
	MimeType      string                    `json:"mime_type,omitempty"`
	FileExtension string                    `json:"file_extension,omitempty"`
	DocumentType  constants.DocumentType    `json:"document_type"`
	Status        constants.DocumentStatus  `json:"status"`
	Confidence    float64                   `json:"confidence"`
	RawText       string                    `json:"raw_text,omitempty"`
	Tables        []TableData               `json:"tables,omitempty"`
	Images        []ImageData               `json:"images,omitempty"`
	Metadata      map[string]any            `json:"metadata,omitempty"`
	Structure     StructureInfo             `json:"structure"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
	Errors        []string                  `json:"errors,omitempty"`
	Warnings      []string                  `json:"warnings,omitempty"`
}

// NewDocument creates a Document in the PENDING state.
func NewDocument(filePath, fileName string) *Document {
	now := time.Now().UTC()
	return &Document{
		FilePath:     filePath,
		FileName:     fileName,
		DocumentType: constants.Unknown,
		Status:       constants.StatusPending,
		Metadata:     map[string]any{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// SetDocumentType records the classification outcome. Confidence is
// clamped to [0,1].
func (d *Document) SetDocumentType(t constants.DocumentType, confidence float64) {
	d.DocumentType = t
	d.Confidence = Clamp(confidence)
	d.UpdatedAt = time.Now().UTC()
}

// SetStatus advances the processing state machine.
func (d *Document) SetStatus(s constants.DocumentStatus) {
	d.Status = s
	d.UpdatedAt = time.Now().UTC()
}

// AddTable appends a table and flags the structure.
func (d *Document) AddTable(t TableData) {
	d.Tables = append(d.Tables, t)
	d.Structure.HasTables = true
	d.UpdatedAt = time.Now().UTC()
}

// AddImage appends image metadata and flags the structure.
func (d *Document) AddImage(img ImageData) {
	d.Images = append(d.Images, img)
	d.Structure.HasImages = true
	d.UpdatedAt = time.Now().UTC()
}

// AddError records a fatal per-document issue.
func (d *Document) AddError(msg string) {
	d.Errors = append(d.Errors, msg)
	d.UpdatedAt = time.Now().UTC()
}

// AddWarning records a non-fatal per-document issue.
func (d *Document) AddWarning(msg string) {
	d.Warnings = append(d.Warnings, msg)
	d.UpdatedAt = time.Now().UTC()
}

// HasErrors reports whether any fatal issue was recorded.
func (d *Document) HasErrors() bool { return len(d.Errors) > 0 }

// IsClassified reports whether classification assigned a concrete type.
func (d *Document) IsClassified() bool { return d.DocumentType != constants.Unknown }

// TableData is one structured table attached to a Document. Immutable once
// attached.
type TableData struct {
	Headers  []string       `json:"headers"`
	Rows     [][]string     `json:"rows"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// RowCount returns the number of data rows.
func (t TableData) RowCount() int { return len(t.Rows) }

// ColumnCount returns the number of header columns.
func (t TableData) ColumnCount() int { return len(t.Headers) }

// ImageData describes one embedded or standalone image. Raw bytes are kept
// so a future OCR collaborator can consume them; everything in this core
// only reads the metadata.
type ImageData struct {
	Data     []byte         `json:"-"`
	Format   string         `json:"format"`
	Width    int            `json:"width,omitempty"`
	Height   int            `json:"height,omitempty"`
	Page     int            `json:"page,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// StructureInfo summarizes document structure discovered at load time.
type StructureInfo struct {
	PageCount         int  `json:"page_count"`
	HasFillableFields bool `json:"has_fillable_fields"`
	HasTables         bool `json:"has_tables"`
	HasImages         bool `json:"has_images"`
}

// Clamp bounds a confidence value to [0,1].
func Clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
