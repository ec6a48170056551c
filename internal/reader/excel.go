package reader

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/common"
	"github.com/intakehq/docintel/internal/entity"
)

// ExcelReader extracts one table per sheet from xlsx workbooks. Legacy xls
// files are routed here as well; excelize rejects them with a clear error.
type ExcelReader struct{}

func NewExcelReader() *ExcelReader { return &ExcelReader{} }

func (r *ExcelReader) Name() string { return "excel" }

func (r *ExcelReader) MimeTypes() []string {
	return []string{constants.MimeXLSX, constants.MimeXLS}
}

func (r *ExcelReader) Read(ctx context.Context, path string, doc *entity.Document) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return common.NewAppError("EXCEL_OPEN", "cannot open workbook", err)
	}
	defer f.Close()

	if props, err := f.GetDocProps(); err == nil && props != nil {
		doc.Metadata["title"] = props.Title
		doc.Metadata["author"] = props.Creator
		doc.Metadata["subject"] = props.Subject
		doc.Metadata["keywords"] = props.Keywords
		doc.Metadata["created"] = props.Created
		doc.Metadata["modified"] = props.Modified
	} else if err != nil {
		doc.AddWarning(fmt.Sprintf("cannot read workbook properties: %v", err))
	}

	sheets := f.GetSheetList()
	doc.Metadata["sheet_count"] = len(sheets)
	doc.Metadata["sheet_names"] = sheets
	doc.Structure.PageCount = len(sheets)

	totalRows := 0
	var textParts []string
	for _, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return err
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			doc.AddWarning(fmt.Sprintf("cannot read sheet %q: %v", sheet, err))
			continue
		}
		if len(rows) < 2 {
			continue
		}

		headers := padRow(rows[0], widest(rows))
		var dataRows [][]string
		for _, row := range rows[1:] {
			padded := padRow(row, len(headers))
			if rowHasContent(padded) {
				dataRows = append(dataRows, padded)
			}
		}
		if len(dataRows) == 0 {
			continue
		}

		doc.AddTable(entity.TableData{
			Headers: headers,
			Rows:    dataRows,
			Metadata: map[string]any{
				"sheet":        sheet,
				"row_count":    len(dataRows),
				"column_count": len(headers),
			},
		})
		totalRows += len(dataRows)
		textParts = append(textParts, tableAsText(sheet, headers, dataRows))
	}

	doc.Metadata["total_rows"] = totalRows
	doc.RawText = strings.Join(textParts, "\n\n")
	if len(doc.Tables) == 0 {
		doc.AddWarning("workbook contains no tabular data")
	}
	return nil
}

func widest(rows [][]string) int {
	w := 0
	for _, row := range rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

func padRow(row []string, width int) []string {
	out := make([]string, width)
	for i := range out {
		if i < len(row) {
			out[i] = strings.TrimSpace(row[i])
		}
	}
	return out
}

func rowHasContent(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return true
		}
	}
	return false
}

// tableAsText renders a table for the keyword classifier, which only sees
// RawText.
func tableAsText(name string, headers []string, rows [][]string) string {
	var sb strings.Builder
	sb.WriteString("=== Sheet: ")
	sb.WriteString(name)
	sb.WriteString(" ===\n")
	sb.WriteString(strings.Join(headers, " | "))
	limit := len(rows)
	if limit > 100 {
		limit = 100
	}
	for _, row := range rows[:limit] {
		sb.WriteByte('\n')
		sb.WriteString(strings.Join(row, " | "))
	}
	return sb.String()
}
