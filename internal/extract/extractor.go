// Package extract turns classified documents into typed business records:
// claims from loss runs, scheduled locations from SOVs, line items from
// financial statements, and form sections from ACORD applications. Every
// extractor reports a confidence score alongside its data; a document that
// cannot be extracted falls through to the generic extractor, which never
// fails.
package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/common"
	"github.com/intakehq/docintel/internal/entity"
)

// Extractor pulls structured data out of one classified document.
type Extractor interface {
	// Extract produces a typed payload for the document. A failed result
	// carries at least one error and no data.
	Extract(ctx context.Context, doc *entity.Document) entity.ExtractionResult

	// CanExtract reports whether the document carries enough content for
	// this extractor to work on.
	CanExtract(doc *entity.Document) bool

	// SupportedTypes lists the document types this extractor handles.
	SupportedTypes() []constants.DocumentType

	// Name identifies the extractor in logs and result metadata.
	Name() string
}

// Registry maps document types to extractors. GENERIC and UNKNOWN route to
// the generic fallback, as does any document whose registered extractor
// declines it.
type Registry struct {
	extractors map[constants.DocumentType]Extractor
	generic    Extractor
	logger     *slog.Logger
}

// NewRegistry returns an empty registry with the generic extractor as
// fallback. A nil logger defaults to slog.Default().
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		extractors: make(map[constants.DocumentType]Extractor),
		generic:    NewGenericExtractor(),
		logger:     logger,
	}
}

// DefaultRegistry wires up the full extractor set.
func DefaultRegistry(cfg common.ExtractConfig, logger *slog.Logger) *Registry {
	r := NewRegistry(logger)
	r.Register(constants.Acord126, NewAcord126Extractor(cfg.KeepRawFields))
	r.Register(constants.Acord125, NewAcord125Extractor(cfg.KeepRawFields))
	r.Register(constants.Acord130, NewAcord130Extractor(cfg.KeepRawFields))
	r.Register(constants.Acord140, NewAcord140Extractor(cfg.KeepRawFields))
	r.Register(constants.LossRun, NewLossRunExtractor())
	r.Register(constants.SOV, NewSOVExtractor())
	r.Register(constants.FinancialStatement, NewFinancialExtractor())
	r.Register(constants.Supplemental, NewSupplementalExtractor())
	r.Register(constants.Generic, r.generic)
	r.Register(constants.Unknown, r.generic)
	return r
}

// Register binds an extractor to a document type, replacing any previous
// binding.
func (r *Registry) Register(t constants.DocumentType, e Extractor) {
	r.extractors[t] = e
	r.logger.Debug("extract.registry.registered",
		slog.String("document_type", string(t)),
		slog.String("extractor", e.Name()))
}

// Get returns the extractor registered for a type.
func (r *Registry) Get(t constants.DocumentType) (Extractor, bool) {
	e, ok := r.extractors[t]
	return e, ok
}

// Has reports whether a type has a registered extractor.
func (r *Registry) Has(t constants.DocumentType) bool {
	_, ok := r.extractors[t]
	return ok
}

// Types lists the document types with a registered extractor.
func (r *Registry) Types() []constants.DocumentType {
	types := make([]constants.DocumentType, 0, len(r.extractors))
	for _, t := range constants.DocumentTypes {
		if _, ok := r.extractors[t]; ok {
			types = append(types, t)
		}
	}
	return types
}

// ForDocument picks the extractor for a document. Never returns nil: when
// no extractor is registered for the type, or the registered one declines
// the document, the generic extractor is returned.
func (r *Registry) ForDocument(doc *entity.Document) Extractor {
	if doc == nil {
		return r.generic
	}
	if e, ok := r.extractors[doc.DocumentType]; ok && e.CanExtract(doc) {
		return e
	}
	return r.generic
}

// Extract is the package entry point: it selects the extractor, runs it
// with panic isolation, and stamps provenance metadata on the result. A
// panicking extractor yields a failed result, never a crash.
func (r *Registry) Extract(ctx context.Context, doc *entity.Document) (result entity.ExtractionResult) {
	extractor := r.ForDocument(doc)

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("extract.panic",
				slog.String("extractor", extractor.Name()),
				slog.Any("panic", rec))
			result = entity.Failed(fmt.Sprintf("extraction panicked in %s: %v", extractor.Name(), rec))
		}
		result.SetMeta("extractor", extractor.Name())
		if doc != nil {
			result.SetMeta("document_type", string(doc.DocumentType))
		}
	}()

	result = extractor.Extract(ctx, doc)
	return result
}
