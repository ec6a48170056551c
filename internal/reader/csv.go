package reader

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/common"
	"github.com/intakehq/docintel/internal/entity"
)

// CSVReader loads a CSV file as a single table.
type CSVReader struct{}

func NewCSVReader() *CSVReader { return &CSVReader{} }

func (r *CSVReader) Name() string        { return "csv" }
func (r *CSVReader) MimeTypes() []string { return []string{constants.MimeCSV} }

func (r *CSVReader) Read(ctx context.Context, path string, doc *entity.Document) error {
	f, err := os.Open(path)
	if err != nil {
		return common.NewAppError("CSV_OPEN", "cannot open csv", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1 // ragged rows are common in exported schedules

	var headers []string
	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			doc.AddWarning("csv parse error: " + err.Error())
			continue
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		if headers == nil {
			headers = record
			continue
		}
		if rowHasContent(record) {
			rows = append(rows, padRow(record, len(headers)))
		}
	}

	if headers == nil {
		return common.NewAppError("CSV_EMPTY", "csv has no rows", common.ErrInvalidInput)
	}

	doc.AddTable(entity.TableData{
		Headers: headers,
		Rows:    rows,
		Metadata: map[string]any{
			"sheet":        "CSV",
			"row_count":    len(rows),
			"column_count": len(headers),
		},
	})
	doc.RawText = tableAsText("CSV", headers, rows)
	doc.Metadata["sheet_count"] = 1
	doc.Metadata["total_rows"] = len(rows)
	doc.Metadata["total_columns"] = len(headers)
	doc.Structure.PageCount = 1
	return nil
}
