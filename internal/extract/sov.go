package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/entity"
)

var sovColumns = []columnPattern{
	{"location_number", compileAll(
		`location.*(number|no|#|id)`,
		`site.*(number|no|#)`,
		`loc.*#`,
	)},
	{"address", compileAll(
		`(property\s+)?address`,
		`street.*address`,
		`location.*address`,
	)},
	{"city", compileAll(`city`)},
	{"state", compileAll(`state`, `st`)},
	{"zip", compileAll(
		`zip.*code`,
		`postal.*code`,
		`zip`,
	)},
	{"building_value", compileAll(
		`building.*value`,
		`structure.*value`,
		`bldg.*value`,
	)},
	{"contents_value", compileAll(
		`contents.*value`,
		`personal.*property`,
		`pp.*value`,
	)},
	{"business_income", compileAll(
		`business.*income`,
		`bi.*value`,
		`loss.*income`,
	)},
	{"total_value", compileAll(
		`total.*(insured\s+)?value`,
		`tiv`,
		`total.*coverage`,
	)},
	{"construction", compileAll(
		`construction.*type`,
		`construction`,
		`const.*type`,
	)},
	{"occupancy", compileAll(
		`occupancy.*type`,
		`occupancy`,
		`use.*type`,
	)},
	{"year_built", compileAll(
		`year.*built`,
		`construction.*year`,
		`built.*year`,
	)},
	{"square_feet", compileAll(
		`(square\s+)?(feet|ft|footage)`,
		`sq.*ft`,
		`area`,
	)},
	{"stories", compileAll(
		`(number.*of\s+)?stor(ies|ys)`,
		`floors`,
	)},
	{"sprinkler", compileAll(
		`sprinkler.*(system|protected)?`,
		`fire.*protection`,
	)},
	{"roof_type", compileAll(
		`roof.*type`,
		`roofing`,
	)},
}

var effectiveDateRe = regexp.MustCompile(`(?i)effective.*date[:\s]+([0-9/\-]+)`)

// SOVExtractor reads property schedules. Spreadsheets arrive as tables via
// the reader layer, so the table path covers Excel and CSV too.
type SOVExtractor struct{}

func NewSOVExtractor() *SOVExtractor { return &SOVExtractor{} }

func (e *SOVExtractor) Name() string { return "sov" }

func (e *SOVExtractor) SupportedTypes() []constants.DocumentType {
	return []constants.DocumentType{constants.SOV}
}

func (e *SOVExtractor) CanExtract(doc *entity.Document) bool {
	return doc != nil && doc.DocumentType == constants.SOV && len(doc.Tables) > 0
}

func (e *SOVExtractor) Extract(_ context.Context, doc *entity.Document) entity.ExtractionResult {
	if doc == nil || doc.DocumentType != constants.SOV {
		return entity.Failed(fmt.Sprintf("expected %s document", constants.SOV))
	}
	if len(doc.Tables) == 0 {
		return entity.Failed("no property tables found")
	}

	var (
		properties []entity.Property
		warnings   []string
	)
	for tableIdx, table := range doc.Tables {
		columnMap := mapColumns(table.Headers, sovColumns)
		if len(columnMap) == 0 {
			warnings = append(warnings, fmt.Sprintf("table %d: no property columns recognized", tableIdx))
			continue
		}
		for rowIdx, row := range table.Rows {
			prop, ok := propertyFromRow(row, columnMap)
			if !ok {
				continue
			}
			prop.Source = &entity.RowRef{TableIndex: tableIdx, RowIndex: rowIdx}
			if sheet, sheetOK := table.Metadata["sheet"].(string); sheetOK {
				prop.Source.Sheet = sheet
			}
			properties = append(properties, prop)
		}
	}

	if len(properties) == 0 {
		return entity.Failed("no valid properties found in tables")
	}

	data := entity.SOVData{
		ScheduleInformation: extractScheduleInfo(doc.RawText),
		Properties:          properties,
		PropertyCount:       len(properties),
		Totals:              propertyTotals(properties),
	}
	return entity.ExtractionResult{
		Success:    true,
		Data:       data,
		Confidence: sovConfidence(properties, warnings),
		Warnings:   warnings,
	}
}

// propertyFromRow maps one schedule row to a Property. Valid rows carry a
// location identifier (number or address) and at least one value.
func propertyFromRow(row []string, columnMap map[string]int) (entity.Property, bool) {
	prop := entity.Property{
		LocationNumber: pick(row, columnMap, "location_number"),
		Address:        pick(row, columnMap, "address"),
		City:           pick(row, columnMap, "city"),
		State:          pick(row, columnMap, "state"),
		Zip:            pick(row, columnMap, "zip"),
		BuildingValue:  parseAmount(pick(row, columnMap, "building_value")),
		ContentsValue:  parseAmount(pick(row, columnMap, "contents_value")),
		BusinessIncome: parseAmount(pick(row, columnMap, "business_income")),
		TotalValue:     parseAmount(pick(row, columnMap, "total_value")),
		Construction:   pick(row, columnMap, "construction"),
		Occupancy:      pick(row, columnMap, "occupancy"),
		YearBuilt:      parseYear(pick(row, columnMap, "year_built")),
		SquareFeet:     parseAmount(pick(row, columnMap, "square_feet")),
		Stories:        parseInt(pick(row, columnMap, "stories")),
		Sprinkler:      pick(row, columnMap, "sprinkler"),
		RoofType:       pick(row, columnMap, "roof_type"),
	}
	prop.FullAddress = formatAddress(prop)

	hasLocation := prop.LocationNumber != "" || prop.Address != "" || prop.FullAddress != ""
	hasValue := prop.BuildingValue != nil || prop.ContentsValue != nil || prop.TotalValue != nil
	return prop, hasLocation && hasValue
}

// formatAddress joins address components as "street, city, state zip".
func formatAddress(prop entity.Property) string {
	var parts []string
	if prop.Address != "" {
		parts = append(parts, prop.Address)
	}
	if prop.City != "" {
		parts = append(parts, prop.City)
	}
	var stateZip []string
	if prop.State != "" {
		stateZip = append(stateZip, prop.State)
	}
	if prop.Zip != "" {
		stateZip = append(stateZip, prop.Zip)
	}
	if len(stateZip) > 0 {
		parts = append(parts, strings.Join(stateZip, " "))
	}
	return strings.Join(parts, ", ")
}

// propertyTotals sums the schedule; when no row carried an explicit total
// value, TIV is derived from building + contents + business income.
func propertyTotals(properties []entity.Property) entity.PropertyTotals {
	totals := entity.PropertyTotals{TotalLocations: len(properties)}
	for _, p := range properties {
		if p.BuildingValue != nil {
			totals.TotalBuildingValue += *p.BuildingValue
		}
		if p.ContentsValue != nil {
			totals.TotalContentsValue += *p.ContentsValue
		}
		if p.BusinessIncome != nil {
			totals.TotalBusinessIncome += *p.BusinessIncome
		}
		if p.TotalValue != nil {
			totals.TotalInsuredValue += *p.TotalValue
		}
	}
	if totals.TotalInsuredValue == 0 {
		totals.TotalInsuredValue = totals.TotalBuildingValue +
			totals.TotalContentsValue + totals.TotalBusinessIncome
	}
	return totals
}

func extractScheduleInfo(text string) entity.ScheduleInfo {
	return entity.ScheduleInfo{
		InsuredName:   firstGroup(insuredNameRe, text),
		PolicyNumber:  firstGroup(policyNumberRe, text),
		EffectiveDate: firstGroup(effectiveDateRe, text),
	}
}

func sovConfidence(properties []entity.Property, warnings []string) float64 {
	if len(properties) == 0 {
		return 0.0
	}
	confidence := 0.7
	if len(properties) >= 3 {
		confidence += 0.1
	}
	complete := 0
	for _, p := range properties {
		if p.Address != "" && p.BuildingValue != nil && p.ContentsValue != nil {
			complete++
		}
	}
	confidence += float64(complete) / float64(len(properties)) * 0.15
	confidence -= float64(len(warnings)) * 0.05
	return entity.Clamp(confidence)
}
