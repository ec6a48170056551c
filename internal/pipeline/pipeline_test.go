package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/classify"
	"github.com/intakehq/docintel/internal/common"
	"github.com/intakehq/docintel/internal/entity"
	"github.com/intakehq/docintel/internal/extract"
)

const lossRunCSV = "Claim Number,Date of Loss,Amount Paid\n" +
	"CLM-001,01/15/2022,\"$12,500\"\n" +
	"CLM-002,03/02/2022,\"$4,200\"\n"

func testConfig() *common.Config {
	return &common.Config{
		Classify: common.ClassifyConfig{Strategy: "highest_confidence"},
	}
}

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestProcessLossRunCSV(t *testing.T) {
	p := Default(testConfig(), nil)

	result := p.Process(context.Background(), writeTemp(t, "losses.csv", []byte(lossRunCSV)))
	require.True(t, result.Success, "errors: %v", result.Errors)

	data, ok := result.Data.(entity.LossRunData)
	require.True(t, ok)
	assert.Equal(t, 2, data.ClaimCount)

	meta, ok := result.Metadata["pipeline"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, string(constants.LossRun), meta["document_type"])
	assert.Equal(t, "losses.csv", meta["file_name"])
	assert.Equal(t, true, meta["classification_used"])
}

func TestProcessLoadFailure(t *testing.T) {
	p := Default(testConfig(), nil)

	result := p.Process(context.Background(), "/nonexistent/file.pdf")
	require.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "pipeline processing failed")

	meta, ok := result.Metadata["pipeline"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/nonexistent/file.pdf", meta["file_path"])
}

func TestLowConfidenceDegradesToUnknown(t *testing.T) {
	cfg := testConfig()
	cfg.Classify.AcceptanceMinScore = 0.9

	composite := classify.DefaultRegistry(common.ClassifyConfig{}, nil).Composite(classify.StrategyHighestConfidence)
	extractors := extract.DefaultRegistry(common.ExtractConfig{}, nil)
	p := New(nil, composite, extractors, cfg.Classify, nil)

	doc := entity.NewDocument("/tmp/note.txt", "note.txt")
	doc.RawText = "an unremarkable memo about the office picnic"

	result := p.ProcessDocument(context.Background(), doc)
	require.True(t, result.Success)

	assert.Equal(t, constants.Unknown, doc.DocumentType)
	assert.Equal(t, true, doc.Metadata["low_classification_confidence"])
	assert.Equal(t, constants.StatusExtracted, doc.Status)
	assert.Equal(t, "generic", result.Metadata["extractor"])
}

func TestClassificationDisabled(t *testing.T) {
	extractors := extract.DefaultRegistry(common.ExtractConfig{}, nil)
	p := New(nil, nil, extractors, common.ClassifyConfig{}, nil)

	doc := entity.NewDocument("/tmp/sov.xlsx", "sov.xlsx")
	doc.DocumentType = constants.SOV
	doc.AddTable(entity.TableData{
		Headers: []string{"Loc #", "Address", "Building Value"},
		Rows:    [][]string{{"1", "100 Main St", "$1,000,000"}},
	})

	result := p.ProcessDocument(context.Background(), doc)
	require.True(t, result.Success)
	// The pre-assigned type is kept when no classifier is configured.
	assert.Equal(t, constants.SOV, doc.DocumentType)
	assert.Equal(t, "sov", result.Metadata["extractor"])
}

func TestExtractionFailureSetsFailed(t *testing.T) {
	extractors := extract.DefaultRegistry(common.ExtractConfig{}, nil)
	p := New(nil, nil, extractors, common.ClassifyConfig{}, nil)

	doc := entity.NewDocument("/tmp/losses.pdf", "losses.pdf")
	doc.DocumentType = constants.LossRun
	doc.RawText = "loss run with no recognizable tables"

	result := p.ProcessDocument(context.Background(), doc)
	require.False(t, result.Success)
	assert.Equal(t, constants.StatusFailed, doc.Status)
	assert.NotEmpty(t, doc.Errors)
}

func TestProcessBatchContinueOnError(t *testing.T) {
	p := Default(testConfig(), nil)

	paths := []string{
		"/nonexistent/one.pdf",
		writeTemp(t, "losses.csv", []byte(lossRunCSV)),
	}
	results := p.ProcessBatch(context.Background(), paths)
	require.Len(t, results, 2)
	assert.False(t, results[0].Success)
	assert.True(t, results[1].Success)
}

func TestProcessDirectory(t *testing.T) {
	p := Default(testConfig(), nil)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "losses.csv"), []byte(lossRunCSV), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	results, err := p.ProcessDirectory(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
}

func TestLoadGroup(t *testing.T) {
	p := Default(testConfig(), nil)

	group := p.LoadGroup(context.Background(), "sub-1", []string{
		writeTemp(t, "losses.csv", []byte(lossRunCSV)),
		"/nonexistent/two.pdf",
	})

	require.Len(t, group.Documents, 1)
	assert.Equal(t, "sub-1", group.GroupID)
	assert.Equal(t, constants.LossRun, group.Documents[0].DocumentType)
	assert.Equal(t, constants.StatusClassified, group.Documents[0].Status)

	loadErrors, ok := group.Metadata["load_errors"].([]string)
	require.True(t, ok)
	assert.Len(t, loadErrors, 1)
}

func TestProcessDocumentIdempotent(t *testing.T) {
	extractors := extract.DefaultRegistry(common.ExtractConfig{}, nil)
	composite := classify.DefaultRegistry(common.ClassifyConfig{}, nil).Composite(classify.StrategyHighestConfidence)
	p := New(nil, composite, extractors, common.ClassifyConfig{}, nil)

	doc := entity.NewDocument("/tmp/losses.csv", "losses.csv")
	doc.RawText = "loss run report\nclaim number date of loss"
	doc.AddTable(entity.TableData{
		Headers: []string{"Claim Number", "Date of Loss", "Amount Paid"},
		Rows:    [][]string{{"CLM-1", "01/15/2022", "$100"}},
	})

	first := p.ProcessDocument(context.Background(), doc)
	second := p.ProcessDocument(context.Background(), doc)

	assert.Equal(t, first.Success, second.Success)
	assert.Equal(t, first.Confidence, second.Confidence)
	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, doc.DocumentType, constants.LossRun)
}
