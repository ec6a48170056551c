// Package pipeline sequences Load, Classify, and Extract for single
// documents and batches. Every result carries pipeline provenance metadata
// regardless of outcome, and classification never fails a document: a
// below-threshold decision degrades to UNKNOWN and routes to the generic
// extractor.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/classify"
	"github.com/intakehq/docintel/internal/common"
	"github.com/intakehq/docintel/internal/entity"
	"github.com/intakehq/docintel/internal/extract"
	"github.com/intakehq/docintel/internal/reader"
)

const version = "1.0.0"

// Pipeline drives one document through the state machine
// PENDING -> LOADED -> CLASSIFIED -> EXTRACTED | FAILED.
type Pipeline struct {
	loader        *reader.Loader
	classifier    *classify.CompositeClassifier
	extractors    *extract.Registry
	minConfidence float64
	logger        *slog.Logger
}

// New builds a pipeline from its collaborators. A nil classifier disables
// classification: documents keep the type they arrive with. A nil logger
// defaults to slog.Default().
func New(loader *reader.Loader, classifier *classify.CompositeClassifier, extractors *extract.Registry, cfg common.ClassifyConfig, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		loader:        loader,
		classifier:    classifier,
		extractors:    extractors,
		minConfidence: cfg.AcceptanceMinScore,
		logger:        logger,
	}
}

// Default wires a pipeline with the standard loader, classifier set, and
// extractor registry for the given configuration.
func Default(cfg *common.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	loader := reader.NewLoader(nil, logger)
	composite := classify.DefaultRegistry(cfg.Classify, logger).Composite(classify.ParseStrategy(cfg.Classify.Strategy))
	extractors := extract.DefaultRegistry(cfg.Extract, logger)
	return New(loader, composite, extractors, cfg.Classify, logger)
}

// Process runs the full pipeline for one file path.
func (p *Pipeline) Process(ctx context.Context, path string) entity.ExtractionResult {
	doc, err := p.loader.Load(ctx, path)
	if err != nil {
		p.logger.Error("pipeline.load.failed", "path", path, "err", err)
		result := entity.Failed("pipeline processing failed: " + err.Error())
		p.stampMetadata(&result, doc, path)
		return result
	}
	return p.ProcessDocument(ctx, doc)
}

// ProcessDocument classifies and extracts an already-loaded document.
func (p *Pipeline) ProcessDocument(ctx context.Context, doc *entity.Document) entity.ExtractionResult {
	p.classifyDocument(doc)

	result := p.extractors.Extract(ctx, doc)
	if result.Success {
		doc.SetStatus(constants.StatusExtracted)
		p.logger.Info("pipeline.extracted",
			"file", doc.FileName,
			"document_type", string(doc.DocumentType),
			"confidence", result.Confidence)
	} else {
		doc.SetStatus(constants.StatusFailed)
		for _, e := range result.Errors {
			doc.AddError(e)
		}
		p.logger.Warn("pipeline.extract.failed",
			"file", doc.FileName,
			"document_type", string(doc.DocumentType),
			"errors", result.Errors)
	}

	p.stampMetadata(&result, doc, doc.FilePath)
	return result
}

// Classify runs classification only, without mutating the document.
func (p *Pipeline) Classify(doc *entity.Document) (constants.DocumentType, float64) {
	if p.classifier == nil || !p.classifier.CanClassify(doc) {
		return constants.Unknown, 0.0
	}
	return p.classifier.Classify(doc)
}

func (p *Pipeline) classifyDocument(doc *entity.Document) {
	if p.classifier == nil || !p.classifier.CanClassify(doc) {
		return
	}
	docType, confidence := p.classifier.Classify(doc)
	if confidence >= p.minConfidence {
		doc.SetDocumentType(docType, confidence)
	} else {
		// Low confidence degrades to UNKNOWN rather than failing.
		doc.SetDocumentType(constants.Unknown, confidence)
		doc.Metadata["low_classification_confidence"] = true
	}
	doc.SetStatus(constants.StatusClassified)
	p.logger.Debug("pipeline.classified",
		"file", doc.FileName,
		"document_type", string(doc.DocumentType),
		"confidence", confidence)
}

// ProcessBatch runs every path through the pipeline, collecting one result
// per path. A failed document never stops its siblings.
func (p *Pipeline) ProcessBatch(ctx context.Context, paths []string) []entity.ExtractionResult {
	results := make([]entity.ExtractionResult, 0, len(paths))
	for _, path := range paths {
		results = append(results, p.Process(ctx, path))
	}
	return results
}

// ProcessDirectory processes every loadable file directly under dir, in
// name order. Unloadable files are skipped with a log entry.
func (p *Pipeline) ProcessDirectory(ctx context.Context, dir string) ([]entity.ExtractionResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, common.NewAppError("DIR_READ_ERROR", "cannot read directory", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if ok, reason := p.loader.CanLoad(path); !ok {
			p.logger.Debug("pipeline.skipped", "path", path, "reason", reason)
			continue
		}
		paths = append(paths, path)
	}
	return p.ProcessBatch(ctx, paths), nil
}

// LoadGroup loads every path into a document group for fusion. Files that
// fail to load are recorded in the group metadata and skipped.
func (p *Pipeline) LoadGroup(ctx context.Context, groupID string, paths []string) *entity.DocumentGroup {
	group := &entity.DocumentGroup{GroupID: groupID, Metadata: map[string]any{}}
	var loadErrors []string
	for _, path := range paths {
		doc, err := p.loader.Load(ctx, path)
		if err != nil {
			p.logger.Warn("pipeline.group.load.failed", "group_id", groupID, "path", path, "err", err)
			loadErrors = append(loadErrors, path+": "+err.Error())
			continue
		}
		p.classifyDocument(doc)
		group.Documents = append(group.Documents, doc)
	}
	if len(loadErrors) > 0 {
		group.Metadata["load_errors"] = loadErrors
	}
	return group
}

func (p *Pipeline) stampMetadata(result *entity.ExtractionResult, doc *entity.Document, path string) {
	meta := map[string]any{
		"version":             version,
		"processing_date":     time.Now().UTC().Format(time.RFC3339),
		"file_path":           path,
		"classification_used": p.classifier != nil,
	}
	if doc != nil {
		meta["file_name"] = doc.FileName
		meta["document_type"] = string(doc.DocumentType)
		meta["classification_confidence"] = doc.Confidence
	}
	result.SetMeta("pipeline", meta)
}
