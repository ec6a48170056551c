package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/entity"
)

var acord130Fields = []fieldAliases{
	{"employer_name", []string{"Named Insured", "Employer Name"}},
	{"address", []string{"Address", "Mailing Address"}},
	{"federal_id", []string{"FEIN", "Federal ID"}},
	{"effective_date", []string{"Effective Date", "Policy Period From"}},
	{"expiration_date", []string{"Expiration Date", "Policy Period To"}},
	{"states", []string{"States", "Coverage States"}},
	{"experience_mod", []string{"Experience Mod", "Experience Modification", "Mod Factor"}},
	{"prior_carrier", []string{"Prior Carrier", "Current Carrier"}},
	{"prior_policy_number", []string{"Prior Policy Number"}},
	{"total_estimated_payroll", []string{"Total Estimated Annual Payroll", "Total Payroll"}},
}

// Acord130Extractor reads the Workers Compensation Application. The header
// block comes from fillable fields; the class-code rating schedule comes
// from tables, since most 130s carry it as an attached grid.
type Acord130Extractor struct {
	keepRawFields bool
}

func NewAcord130Extractor(keepRawFields bool) *Acord130Extractor {
	return &Acord130Extractor{keepRawFields: keepRawFields}
}

func (e *Acord130Extractor) Name() string { return "acord_130" }

func (e *Acord130Extractor) SupportedTypes() []constants.DocumentType {
	return []constants.DocumentType{constants.Acord130}
}

func (e *Acord130Extractor) CanExtract(doc *entity.Document) bool {
	return doc != nil &&
		doc.DocumentType == constants.Acord130 &&
		(doc.Structure.HasFillableFields || len(doc.Tables) > 0)
}

func (e *Acord130Extractor) Extract(_ context.Context, doc *entity.Document) entity.ExtractionResult {
	if doc == nil || doc.DocumentType != constants.Acord130 {
		return entity.Failed(fmt.Sprintf("expected %s document", constants.Acord130))
	}

	raw := formFields(doc)
	classifications := classificationsFromTables(doc.Tables)

	if len(raw) == 0 && len(classifications) == 0 {
		return entity.Failed("no extractable workers compensation data found")
	}

	mapped := mapFormFields(raw, acord130Fields)
	data := entity.Acord130Data{
		FormNumber: "ACORD 130",
		Employer: entity.Applicant{
			Name:           mapped["employer_name"],
			MailingAddress: mapped["address"],
		},
		Coverage: entity.CoverageDates{
			EffectiveDate:  parseDate(mapped["effective_date"]),
			ExpirationDate: parseDate(mapped["expiration_date"]),
		},
		States:          mapped["states"],
		ExperienceMod:   mapped["experience_mod"],
		PriorCarrier:    mapped["prior_carrier"],
		PriorPolicy:     mapped["prior_policy_number"],
		TotalPayroll:    mapped["total_estimated_payroll"],
		Classifications: classifications,
	}
	if fein := mapped["federal_id"]; fein != "" {
		data.Employer.Set("federal_id", fein, "acord_130")
	}
	if e.keepRawFields {
		data.RawFields = raw
	}

	// Fillable header fields are more reliable than a grid-only form.
	confidence := 0.8
	if len(raw) == 0 {
		confidence = 0.75
	}

	result := entity.ExtractionResult{
		Success:    true,
		Data:       data,
		Confidence: confidence,
	}
	result.SetMeta("form_type", "130")
	result.SetMeta("classification_count", len(classifications))
	return result
}

// classificationsFromTables pulls class-code rows out of any table whose
// headers mention a class column.
func classificationsFromTables(tables []entity.TableData) []entity.WorkClassification {
	var classifications []entity.WorkClassification
	for _, table := range tables {
		if !hasClassColumn(table.Headers) {
			continue
		}
		for _, row := range table.Rows {
			if len(row) < 2 || cell(row, 0) == "" {
				continue
			}
			classifications = append(classifications, entity.WorkClassification{
				ClassCode:   cell(row, 0),
				Description: cell(row, 1),
				Payroll:     cell(row, 2),
			})
		}
	}
	return classifications
}

func hasClassColumn(headers []string) bool {
	for _, h := range headers {
		if strings.Contains(strings.ToLower(h), "class") {
			return true
		}
	}
	return false
}
