// Package reader loads source files into documents.
//
// A Reader populates an existing Document with content (text, tables,
// images, structure) for its MIME types. The Loader detects the true file
// type from magic bytes and routes to the registered reader.
package reader

import (
	"context"
	"log/slog"

	"github.com/intakehq/docintel/internal/entity"
)

// Reader populates a document from a file on disk.
type Reader interface {
	// Read loads file content into doc. Partial content with warnings is
	// acceptable; an error means nothing usable was loaded.
	Read(ctx context.Context, path string, doc *entity.Document) error

	// MimeTypes lists the MIME types this reader handles.
	MimeTypes() []string

	Name() string
}

// mimeAliases folds MIME type variations onto their canonical form.
var mimeAliases = map[string]string{
	"application/x-pdf": "application/pdf",
	"image/jpg":         "image/jpeg",
}

func normalizeMime(mime string) string {
	if canonical, ok := mimeAliases[mime]; ok {
		return canonical
	}
	return mime
}

// Registry routes MIME types to readers.
type Registry struct {
	handlers map[string]Reader
	generic  Reader
	logger   *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{handlers: make(map[string]Reader), logger: logger}
}

// Register maps a reader's MIME types to it. Later registrations for the
// same type win.
func (r *Registry) Register(reader Reader) {
	for _, mime := range reader.MimeTypes() {
		r.handlers[normalizeMime(mime)] = reader
	}
	r.logger.Debug("reader.registry.registered", "reader", reader.Name(), "types", len(reader.MimeTypes()))
}

// RegisterGeneric sets the fallback reader for unhandled MIME types.
func (r *Registry) RegisterGeneric(reader Reader) {
	r.generic = reader
}

// Get returns the reader for a MIME type, or nil.
func (r *Registry) Get(mime string) Reader {
	return r.handlers[normalizeMime(mime)]
}

// Generic returns the fallback reader, or nil when none is set.
func (r *Registry) Generic() Reader { return r.generic }

// Has reports whether a specific reader exists for the MIME type.
func (r *Registry) Has(mime string) bool {
	_, ok := r.handlers[normalizeMime(mime)]
	return ok
}

// SupportedTypes lists the MIME types with a registered reader.
func (r *Registry) SupportedTypes() []string {
	types := make([]string, 0, len(r.handlers))
	for mime := range r.handlers {
		types = append(types, mime)
	}
	return types
}
