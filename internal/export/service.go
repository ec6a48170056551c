// Package export renders fused submission records as XLSX workbooks for
// underwriter review: a summary sheet plus one sheet per merged section.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/intakehq/docintel/internal/entity"
)

// Service produces XLSX bytes from fused submission data.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportFusedXLSX returns an XLSX workbook for one fused submission.
// Sections absent from the submission produce no sheet.
func (s *Service) ExportFusedXLSX(fused entity.FusedSubmission) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}

	writeSummary(f, summary, fused)

	if fused.ClaimsHistory != nil {
		if err := writeClaims(f, fused.ClaimsHistory); err != nil {
			return nil, err
		}
	}
	if fused.PropertySchedule != nil {
		if err := writeProperties(f, fused.PropertySchedule); err != nil {
			return nil, err
		}
	}
	if len(fused.Supplemental) > 0 {
		if err := writeSupplemental(f, fused.Supplemental); err != nil {
			return nil, err
		}
	}

	index, _ := f.GetSheetIndex(summary)
	f.SetActiveSheet(index)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"group_id", fused.Metadata.GroupID,
		"documents", fused.Metadata.DocumentCount,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, sheet string, col, row int, v any) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	_ = f.SetCellValue(sheet, cell, v)
}

func writeHeaders(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		setCell(f, sheet, i+1, 1, h)
	}
}

func writeSummary(f *excelize.File, sheet string, fused entity.FusedSubmission) {
	row := 1
	pair := func(label string, value any) {
		setCell(f, sheet, 1, row, label)
		setCell(f, sheet, 2, row, value)
		row++
	}

	pair("Group ID", fused.Metadata.GroupID)
	pair("Fused At", fused.Metadata.FusedAt.Format("2006-01-02 15:04:05"))
	pair("Documents", fused.Metadata.DocumentCount)
	pair("Successful", fused.Metadata.SuccessfulCount)
	pair("Failed", fused.Metadata.FailedCount)
	pair("Confidence", fused.Confidence)

	if a := fused.Applicant; a != nil {
		row++
		pair("Applicant", a.Name)
		if a.MailingAddress != "" {
			pair("Address", a.MailingAddress)
		}
		if a.City != "" {
			pair("City/State/Zip", fmt.Sprintf("%s, %s %s", a.City, a.State, a.Zip))
		}
		if a.Phone != "" {
			pair("Phone", a.Phone)
		}
		if a.Email != "" {
			pair("Email", a.Email)
		}
	}

	if len(fused.Application) > 0 {
		row++
		setCell(f, sheet, 1, row, "ACORD Forms")
		row++
		for _, acordType := range []string{"acord_126", "acord_125", "acord_130", "acord_140"} {
			section, ok := fused.Application[acordType]
			if !ok {
				continue
			}
			setCell(f, sheet, 1, row, acordType)
			setCell(f, sheet, 2, row, fmt.Sprintf("confidence %.2f, %d document(s)",
				section.Confidence, len(section.SourceIDs)))
			row++
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 18)
	_ = f.SetColWidth(sheet, "B", "B", 48)
}

func writeClaims(f *excelize.File, claims *entity.MergedClaims) error {
	const sheet = "Claims"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	writeHeaders(f, sheet, []string{
		"Claim Number", "Date of Loss", "Claimant", "Status", "Description",
		"Paid", "Incurred", "Reserve",
	})

	row := 2
	for _, c := range claims.Claims {
		setCell(f, sheet, 1, row, c.ClaimNumber)
		setCell(f, sheet, 2, row, c.DateOfLoss)
		setCell(f, sheet, 3, row, c.Claimant)
		setCell(f, sheet, 4, row, c.Status)
		setCell(f, sheet, 5, row, truncate(c.Description, 140))
		writeAmount(f, sheet, 6, row, c.Paid)
		writeAmount(f, sheet, 7, row, c.Incurred)
		writeAmount(f, sheet, 8, row, c.Reserve)
		row++
	}

	setCell(f, sheet, 1, row, fmt.Sprintf("Total (%d claims)", claims.Totals.TotalClaims))
	setCell(f, sheet, 6, row, claims.Totals.TotalPaid)
	setCell(f, sheet, 7, row, claims.Totals.TotalIncurred)
	setCell(f, sheet, 8, row, claims.Totals.TotalReserve)

	_ = f.SetColWidth(sheet, "A", "B", 16)
	_ = f.SetColWidth(sheet, "C", "C", 24)
	_ = f.SetColWidth(sheet, "E", "E", 48)
	_ = f.SetColWidth(sheet, "F", "H", 14)
	return nil
}

func writeProperties(f *excelize.File, props *entity.MergedProperties) error {
	const sheet = "Properties"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	writeHeaders(f, sheet, []string{
		"Location #", "Address", "Construction", "Occupancy",
		"Building Value", "Contents Value", "Business Income", "Total Value",
	})

	row := 2
	for _, p := range props.Properties {
		address := p.FullAddress
		if address == "" {
			address = p.Address
		}
		setCell(f, sheet, 1, row, p.LocationNumber)
		setCell(f, sheet, 2, row, address)
		setCell(f, sheet, 3, row, p.Construction)
		setCell(f, sheet, 4, row, p.Occupancy)
		writeAmount(f, sheet, 5, row, p.BuildingValue)
		writeAmount(f, sheet, 6, row, p.ContentsValue)
		writeAmount(f, sheet, 7, row, p.BusinessIncome)
		writeAmount(f, sheet, 8, row, p.TotalValue)
		row++
	}

	setCell(f, sheet, 1, row, fmt.Sprintf("Total (%d locations)", props.Totals.TotalLocations))
	setCell(f, sheet, 5, row, props.Totals.TotalBuildingValue)
	setCell(f, sheet, 6, row, props.Totals.TotalContentsValue)
	setCell(f, sheet, 7, row, props.Totals.TotalBusinessIncome)
	setCell(f, sheet, 8, row, props.Totals.TotalInsuredValue)

	_ = f.SetColWidth(sheet, "B", "B", 40)
	_ = f.SetColWidth(sheet, "E", "H", 16)
	return nil
}

func writeSupplemental(f *excelize.File, items []entity.SupplementalItem) error {
	const sheet = "Supplemental"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	writeHeaders(f, sheet, []string{"File", "Status", "Type", "Notes"})

	row := 2
	for _, item := range items {
		setCell(f, sheet, 1, row, item.FileName)
		setCell(f, sheet, 2, row, item.Status)
		if item.Data != nil {
			setCell(f, sheet, 3, row, item.Data.SubType)
		}
		if len(item.Errors) > 0 {
			setCell(f, sheet, 4, row, truncate(item.Errors[0], 140))
		}
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 36)
	_ = f.SetColWidth(sheet, "D", "D", 48)
	return nil
}

func writeAmount(f *excelize.File, sheet string, col, row int, v *float64) {
	if v == nil {
		return
	}
	setCell(f, sheet, col, row, *v)
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
