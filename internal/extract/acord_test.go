package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/entity"
)

func formDoc(docType constants.DocumentType, fields map[string]string) *entity.Document {
	doc := entity.NewDocument("/tmp/form.pdf", "form.pdf")
	doc.DocumentType = docType
	if len(fields) > 0 {
		doc.Metadata["form_fields"] = fields
		doc.Structure.HasFillableFields = true
	}
	return doc
}

func TestAcord126Extract(t *testing.T) {
	doc := formDoc(constants.Acord126, map[string]string{
		f126InsuredName:    "Acme Manufacturing LLC",
		f126Occurrence:     "/Yes",
		f126EachOccurrence: "1,000,000",
		f126GeneralAgg:     "2,000,000",
		f126ProductsOps:    "2,000,000",
		f126PolicyNumber:   "GL-123456",
		f126EffectiveDate:  "01/15/2023",
		f126DeductPD:       "5,000",
	})

	ex := NewAcord126Extractor(false)
	require.True(t, ex.CanExtract(doc))
	result := ex.Extract(context.Background(), doc)
	require.True(t, result.Success, "errors: %v", result.Errors)

	data, ok := result.Data.(entity.Acord126Data)
	require.True(t, ok)

	assert.Equal(t, "ACORD 126", data.FormNumber)
	assert.Equal(t, "Acme Manufacturing LLC", data.Applicant.Name)
	assert.True(t, data.CoverageType.Occurrence)
	assert.False(t, data.CoverageType.ClaimsMade)

	require.NotNil(t, data.Limits.EachOccurrence)
	assert.InDelta(t, 1000000, *data.Limits.EachOccurrence, 0.001)
	require.NotNil(t, data.Limits.GeneralAggregate)
	assert.InDelta(t, 2000000, *data.Limits.GeneralAggregate, 0.001)
	assert.Nil(t, data.Limits.MedicalExpense)

	require.NotNil(t, data.Deductibles)
	assert.InDelta(t, 5000, data.Deductibles["property_damage"].(float64), 0.001)
	_, hasBI := data.Deductibles["bodily_injury"]
	assert.False(t, hasBI)

	assert.Equal(t, "GL-123456", data.Policy.PolicyNumber)
	assert.Equal(t, "2023-01-15", data.Policy.PeriodStart)
	assert.Nil(t, data.RawFields)

	// 8 non-empty values averaging 0.75, all three critical fields present.
	assert.InDelta(t, 0.825, result.Confidence, 0.0001)
	assert.Equal(t, 8, result.Metadata["total_fields_extracted"])
	assert.Equal(t, 1, result.Metadata["low_confidence_count"])
	assert.Equal(t, "126", result.Metadata["form_type"])

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "low field count")
}

func TestAcord126Warnings(t *testing.T) {
	doc := formDoc(constants.Acord126, map[string]string{
		f126PolicyNumber: "GL-123456",
	})

	result := NewAcord126Extractor(false).Extract(context.Background(), doc)
	require.True(t, result.Success)

	assert.Contains(t, result.Warnings, "missing critical field: business name")
	assert.Contains(t, result.Warnings, "missing critical field: each occurrence limit")
	assert.Contains(t, result.Warnings, "missing critical field: general aggregate limit")
	assert.Contains(t, result.Warnings, "no coverage type selected (occurrence or claims made)")
}

func TestAcord126NoFields(t *testing.T) {
	doc := entity.NewDocument("/tmp/scan.pdf", "scan.pdf")
	doc.DocumentType = constants.Acord126
	doc.RawText = "ACORD 126 scanned image"

	ex := NewAcord126Extractor(false)
	assert.False(t, ex.CanExtract(doc))

	result := ex.Extract(context.Background(), doc)
	require.False(t, result.Success)
	assert.Contains(t, result.Errors, "no readable form fields")
}

func TestAcord126KeepsRawFields(t *testing.T) {
	fields := map[string]string{f126InsuredName: "Acme Manufacturing LLC"}
	doc := formDoc(constants.Acord126, fields)

	result := NewAcord126Extractor(true).Extract(context.Background(), doc)
	require.True(t, result.Success)
	data := result.Data.(entity.Acord126Data)
	assert.Equal(t, fields, data.RawFields)
}

func TestFieldValueConfidence(t *testing.T) {
	assert.InDelta(t, 0.0, fieldValueConfidence(""), 0.0001)
	assert.InDelta(t, 0.6, fieldValueConfidence("Yes"), 0.0001)
	assert.InDelta(t, 0.7, fieldValueConfidence("GL-123456"), 0.0001)
	assert.InDelta(t, 0.7, fieldValueConfidence("5,000"), 0.0001)
	assert.InDelta(t, 0.8, fieldValueConfidence("1,000,000"), 0.0001)
	assert.InDelta(t, 0.8, fieldValueConfidence("01/15/2023"), 0.0001)
	assert.InDelta(t, 0.8, fieldValueConfidence("(217) 555-0100"), 0.0001)
	assert.InDelta(t, 0.8, fieldValueConfidence("Acme Manufacturing LLC"), 0.0001)
}

func TestAcord125FromFields(t *testing.T) {
	doc := formDoc(constants.Acord125, map[string]string{
		"Named Insured":        "Acme Manufacturing LLC",
		"Mailing Address":      "100 Main St",
		"City":                 "Springfield",
		"State":                "IL",
		"ZIP":                  "62701",
		"Phone":                "(217) 555-0100",
		"email":                "info@acme.example",
		"Business Description": "Metal fabrication",
		"FEIN":                 "12-3456789",
		"General Liability":    "X",
		"Property":             "X",
		"Effective Date":       "1/1/2023",
		"Expiration Date":      "1/1/2024",
		"Current Carrier":      "Travelers",
	})

	result := NewAcord125Extractor(false).Extract(context.Background(), doc)
	require.True(t, result.Success, "errors: %v", result.Errors)
	data := result.Data.(entity.Acord125Data)

	assert.Equal(t, "ACORD 125", data.FormNumber)
	assert.Equal(t, "Acme Manufacturing LLC", data.Applicant.Name)
	assert.Equal(t, "Springfield", data.Applicant.City)
	// Alias lookup is case-insensitive when the exact spelling is absent.
	assert.Equal(t, "info@acme.example", data.Applicant.Email)

	assert.Equal(t, "Metal fabrication", data.Business.Description)
	assert.Equal(t, "12-3456789", data.Business.FederalID)

	assert.True(t, data.Coverage.GeneralLiability)
	assert.True(t, data.Coverage.Property)
	assert.False(t, data.Coverage.Auto)

	assert.Equal(t, "2023-01-01", data.Policy.EffectiveDate)
	assert.Equal(t, "2024-01-01", data.Policy.ExpirationDate)
	assert.Equal(t, "Travelers", data.PriorInsurance.CurrentCarrier)

	assert.InDelta(t, 0.95, result.Confidence, 0.0001)
	assert.Equal(t, "125", result.Metadata["form_type"])
	assert.Empty(t, result.Warnings)
}

func TestAcord125TextFallback(t *testing.T) {
	doc := entity.NewDocument("/tmp/flat.pdf", "flat.pdf")
	doc.DocumentType = constants.Acord125
	doc.RawText = "ACORD 125\nNamed Insured: Beta Distributors Inc\nPhone: 217-555-0199\nBusiness Description: Wholesale food distribution"

	ex := NewAcord125Extractor(false)
	require.True(t, ex.CanExtract(doc))
	result := ex.Extract(context.Background(), doc)
	require.True(t, result.Success)
	data := result.Data.(entity.Acord125Data)

	assert.Equal(t, "Beta Distributors Inc", data.Applicant.Name)
	assert.Equal(t, "217-555-0199", data.Applicant.Phone)
	assert.Equal(t, "Wholesale food distribution", data.Business.Description)

	assert.InDelta(t, 0.6, result.Confidence, 0.0001)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "no fillable fields present")
}

func TestAcord125Empty(t *testing.T) {
	doc := entity.NewDocument("/tmp/empty.pdf", "empty.pdf")
	doc.DocumentType = constants.Acord125

	result := NewAcord125Extractor(false).Extract(context.Background(), doc)
	assert.False(t, result.Success)
}

func TestAcord130Extract(t *testing.T) {
	doc := formDoc(constants.Acord130, map[string]string{
		"Named Insured":                  "Acme Manufacturing LLC",
		"FEIN":                           "12-3456789",
		"Effective Date":                 "1/1/2023",
		"Experience Mod":                 "0.85",
		"Total Estimated Annual Payroll": "$2,500,000",
	})
	doc.AddTable(entity.TableData{
		Headers: []string{"Class Code", "Description", "Annual Payroll"},
		Rows: [][]string{
			{"8810", "Clerical Office", "$500,000"},
			{"3632", "Machine Shop", "$2,000,000"},
			{"", "orphan row", ""},
		},
	})

	result := NewAcord130Extractor(false).Extract(context.Background(), doc)
	require.True(t, result.Success, "errors: %v", result.Errors)
	data := result.Data.(entity.Acord130Data)

	assert.Equal(t, "ACORD 130", data.FormNumber)
	assert.Equal(t, "Acme Manufacturing LLC", data.Employer.Name)
	assert.Equal(t, "12-3456789", data.Employer.Extra["federal_id"])
	assert.Equal(t, "acord_130", data.Employer.Sources["federal_id"])
	assert.Equal(t, "2023-01-01", data.Coverage.EffectiveDate)
	assert.Equal(t, "0.85", data.ExperienceMod)
	assert.Equal(t, "$2,500,000", data.TotalPayroll)

	require.Len(t, data.Classifications, 2)
	assert.Equal(t, "8810", data.Classifications[0].ClassCode)
	assert.Equal(t, "Clerical Office", data.Classifications[0].Description)
	assert.Equal(t, "$500,000", data.Classifications[0].Payroll)

	assert.InDelta(t, 0.8, result.Confidence, 0.0001)
	assert.Equal(t, "130", result.Metadata["form_type"])
	assert.Equal(t, 2, result.Metadata["classification_count"])
}

func TestAcord130GridOnly(t *testing.T) {
	doc := entity.NewDocument("/tmp/wc.pdf", "wc.pdf")
	doc.DocumentType = constants.Acord130
	doc.AddTable(entity.TableData{
		Headers: []string{"Class Code", "Description", "Payroll"},
		Rows:    [][]string{{"8810", "Clerical Office", "$500,000"}},
	})

	result := NewAcord130Extractor(false).Extract(context.Background(), doc)
	require.True(t, result.Success)
	assert.InDelta(t, 0.75, result.Confidence, 0.0001)
}

func TestAcord130Empty(t *testing.T) {
	doc := entity.NewDocument("/tmp/wc.pdf", "wc.pdf")
	doc.DocumentType = constants.Acord130
	doc.AddTable(entity.TableData{
		Headers: []string{"Notes"},
		Rows:    [][]string{{"nothing ratable"}},
	})

	result := NewAcord130Extractor(false).Extract(context.Background(), doc)
	require.False(t, result.Success)
	assert.Contains(t, result.Errors, "no extractable workers compensation data found")
}

func TestAcord140Extract(t *testing.T) {
	doc := formDoc(constants.Acord140, map[string]string{
		"Named Insured":    "Acme Manufacturing LLC",
		"Location Number":  "1",
		"Location Address": "100 Main St",
		"City":             "Springfield",
		"State":            "IL",
		"ZIP":              "62701",
		"Building Limit":   "$1,500,000",
		"Contents Limit":   "$500,000",
		"Year Built":       "1998",
		"Stories":          "2",
		"Sprinkler":        "Yes",
	})

	result := NewAcord140Extractor(false).Extract(context.Background(), doc)
	require.True(t, result.Success, "errors: %v", result.Errors)
	data := result.Data.(entity.Acord140Data)

	assert.Equal(t, "ACORD 140", data.FormNumber)
	assert.Equal(t, "Acme Manufacturing LLC", data.InsuredName)
	assert.Equal(t, "1", data.Location.LocationNumber)
	assert.Equal(t, "100 Main St, Springfield, IL 62701", data.Location.FullAddress)

	require.NotNil(t, data.Location.BuildingValue)
	assert.InDelta(t, 1500000, *data.Location.BuildingValue, 0.001)
	require.NotNil(t, data.Location.ContentsValue)
	assert.InDelta(t, 500000, *data.Location.ContentsValue, 0.001)
	require.NotNil(t, data.Location.YearBuilt)
	assert.Equal(t, 1998, *data.Location.YearBuilt)
	require.NotNil(t, data.Location.Stories)
	assert.Equal(t, 2, *data.Location.Stories)
	assert.Equal(t, "Yes", data.Location.Sprinkler)

	assert.InDelta(t, 0.8, result.Confidence, 0.0001)
	assert.Equal(t, "140", result.Metadata["form_type"])
	assert.Equal(t, 0, result.Metadata["location_count"])
}

func TestAcord140LocationGrid(t *testing.T) {
	doc := entity.NewDocument("/tmp/prop.pdf", "prop.pdf")
	doc.DocumentType = constants.Acord140
	doc.AddTable(entity.TableData{
		Headers: []string{"Location", "Building Value", "Contents Value"},
		Rows: [][]string{
			{"100 Main St", "$1,000,000", "$250,000"},
			{"200 Oak Ave", "$2,500,000", "$400,000"},
		},
	})

	result := NewAcord140Extractor(false).Extract(context.Background(), doc)
	require.True(t, result.Success)
	data := result.Data.(entity.Acord140Data)

	require.Len(t, data.Locations, 2)
	assert.Equal(t, "200 Oak Ave", data.Locations[1].Address)
	require.NotNil(t, data.Locations[1].BuildingValue)
	assert.InDelta(t, 2500000, *data.Locations[1].BuildingValue, 0.001)

	assert.InDelta(t, 0.75, result.Confidence, 0.0001)
	assert.Equal(t, 2, result.Metadata["location_count"])
}
