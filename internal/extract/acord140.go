package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/entity"
)

var acord140Fields = []fieldAliases{
	{"insured_name", []string{"Named Insured"}},
	{"location_number", []string{"Location Number", "Loc #"}},
	{"location_address", []string{"Location Address", "Address"}},
	{"city", []string{"City"}},
	{"state", []string{"State"}},
	{"zip", []string{"ZIP"}},
	{"building_value", []string{"Building Limit", "Building Value"}},
	{"contents_value", []string{"Contents Limit", "Personal Property"}},
	{"business_income", []string{"Business Income", "BI Limit"}},
	{"construction_type", []string{"Construction Type", "Construction"}},
	{"year_built", []string{"Year Built"}},
	{"number_of_stories", []string{"Number of Stories", "Stories"}},
	{"square_footage", []string{"Square Footage", "Area"}},
	{"sprinkler_system", []string{"Sprinkler", "Automatic Sprinkler"}},
	{"occupancy", []string{"Occupancy Type", "Occupancy"}},
	{"effective_date", []string{"Effective Date"}},
	{"expiration_date", []string{"Expiration Date"}},
}

// Acord140Extractor reads the Property Section. A fillable form yields one
// primary location; location grids attached as tables yield a schedule.
type Acord140Extractor struct {
	keepRawFields bool
}

func NewAcord140Extractor(keepRawFields bool) *Acord140Extractor {
	return &Acord140Extractor{keepRawFields: keepRawFields}
}

func (e *Acord140Extractor) Name() string { return "acord_140" }

func (e *Acord140Extractor) SupportedTypes() []constants.DocumentType {
	return []constants.DocumentType{constants.Acord140}
}

func (e *Acord140Extractor) CanExtract(doc *entity.Document) bool {
	return doc != nil &&
		doc.DocumentType == constants.Acord140 &&
		(doc.Structure.HasFillableFields || len(doc.Tables) > 0)
}

func (e *Acord140Extractor) Extract(_ context.Context, doc *entity.Document) entity.ExtractionResult {
	if doc == nil || doc.DocumentType != constants.Acord140 {
		return entity.Failed(fmt.Sprintf("expected %s document", constants.Acord140))
	}

	raw := formFields(doc)
	locations := locationsFromTables(doc.Tables)

	if len(raw) == 0 && len(locations) == 0 {
		return entity.Failed("no extractable property data found")
	}

	mapped := mapFormFields(raw, acord140Fields)
	data := entity.Acord140Data{
		FormNumber:  "ACORD 140",
		InsuredName: mapped["insured_name"],
		Location: entity.Property{
			LocationNumber: mapped["location_number"],
			Address:        mapped["location_address"],
			City:           mapped["city"],
			State:          mapped["state"],
			Zip:            mapped["zip"],
			BuildingValue:  parseAmount(mapped["building_value"]),
			ContentsValue:  parseAmount(mapped["contents_value"]),
			BusinessIncome: parseAmount(mapped["business_income"]),
			Construction:   mapped["construction_type"],
			Occupancy:      mapped["occupancy"],
			YearBuilt:      parseYear(mapped["year_built"]),
			SquareFeet:     parseAmount(mapped["square_footage"]),
			Stories:        parseInt(mapped["number_of_stories"]),
			Sprinkler:      mapped["sprinkler_system"],
		},
		Coverage: entity.CoverageDates{
			EffectiveDate:  parseDate(mapped["effective_date"]),
			ExpirationDate: parseDate(mapped["expiration_date"]),
		},
		Locations: locations,
	}
	data.Location.FullAddress = formatAddress(data.Location)
	if e.keepRawFields {
		data.RawFields = raw
	}

	confidence := 0.8
	if len(raw) == 0 {
		confidence = 0.75
	}

	result := entity.ExtractionResult{
		Success:    true,
		Data:       data,
		Confidence: confidence,
	}
	result.SetMeta("form_type", "140")
	result.SetMeta("location_count", len(locations))
	return result
}

// locationsFromTables pulls location rows out of any table whose headers
// mention locations or buildings.
func locationsFromTables(tables []entity.TableData) []entity.Property {
	var locations []entity.Property
	for _, table := range tables {
		if !hasLocationColumn(table.Headers) {
			continue
		}
		for _, row := range table.Rows {
			if len(row) < 2 || cell(row, 0) == "" {
				continue
			}
			locations = append(locations, entity.Property{
				Address:       cell(row, 0),
				BuildingValue: parseAmount(cell(row, 1)),
				ContentsValue: parseAmount(cell(row, 2)),
			})
		}
	}
	return locations
}

func hasLocationColumn(headers []string) bool {
	for _, h := range headers {
		lower := strings.ToLower(h)
		if strings.Contains(lower, "location") || strings.Contains(lower, "building") {
			return true
		}
	}
	return false
}
