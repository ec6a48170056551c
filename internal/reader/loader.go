package reader

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/common"
	"github.com/intakehq/docintel/internal/entity"
)

// Loader turns file paths into loaded documents.
//
// Load detects the true MIME type from magic bytes, rejects unsafe or
// unsupported files, routes to the registered reader, and returns the
// document in LOADED state. Extension mismatches become warnings on the
// document, not failures.
type Loader struct {
	detector *MimeDetector
	registry *Registry
	logger   *slog.Logger
}

func NewLoader(registry *Registry, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = DefaultRegistry(logger)
	}
	return &Loader{detector: NewMimeDetector(), registry: registry, logger: logger}
}

// DefaultRegistry wires the standard reader set with the generic fallback.
func DefaultRegistry(logger *slog.Logger) *Registry {
	r := NewRegistry(logger)
	r.Register(NewPDFReader())
	r.Register(NewExcelReader())
	r.Register(NewCSVReader())
	r.Register(NewTextReader())
	r.Register(NewImageReader())
	r.Register(NewGenericReader())
	r.RegisterGeneric(NewGenericReader())
	return r
}

// Load reads the file at path into a new document.
func (l *Loader) Load(ctx context.Context, path string) (*entity.Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, common.NewAppError("FILE_NOT_FOUND", "file not found", err)
	}

	det, err := l.detector.Detect(path)
	if err != nil {
		return nil, err
	}
	if !det.Safe {
		l.logger.Warn("loader.rejected", "path", path, "mime", det.MimeType, "reason", det.Message)
		return nil, common.NewAppError("FILE_REJECTED", det.Message, common.ErrUnsafeFile)
	}

	doc := entity.NewDocument(path, filepath.Base(path))
	doc.ID = uuid.NewString()
	doc.FileExtension = strings.ToLower(filepath.Ext(path))
	doc.MimeType = det.MimeType
	if det.Message != "OK" {
		doc.AddWarning(det.Message)
	}

	r := l.registry.Get(det.MimeType)
	if r == nil {
		doc.AddWarning("no specific reader for " + det.MimeType + ", using generic")
		r = l.registry.Generic()
		if r == nil {
			return nil, common.NewAppError("NO_READER", "no reader available for "+det.MimeType, common.ErrUnsupportedFile)
		}
	}

	l.logger.Debug("loader.read", "path", path, "mime", det.MimeType, "reader", r.Name())
	if err := r.Read(ctx, path, doc); err != nil {
		doc.AddError("failed to load file: " + err.Error())
		doc.SetStatus(constants.StatusFailed)
		return doc, common.WrapError(err, "load file")
	}

	doc.SetStatus(constants.StatusLoaded)
	return doc, nil
}

// CanLoad checks whether a file would be accepted, without loading it.
func (l *Loader) CanLoad(path string) (bool, string) {
	if _, err := os.Stat(path); err != nil {
		return false, "file not found"
	}
	det, err := l.detector.Detect(path)
	if err != nil {
		return false, det.Message
	}
	if !det.Safe {
		return false, det.Message
	}
	if !l.registry.Has(det.MimeType) && l.registry.Generic() == nil {
		return false, "no reader for " + det.MimeType
	}
	return true, "OK"
}

// SupportedTypes lists the MIME types the loader accepts.
func (l *Loader) SupportedTypes() []string {
	return l.registry.SupportedTypes()
}
