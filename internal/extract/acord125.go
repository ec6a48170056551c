package extract

import (
	"context"
	"fmt"
	"regexp"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/entity"
)

// Unlike the 126's eForm identifiers, 125s in the wild carry human-labeled
// fields, so each canonical field gets a list of spellings.
var acord125Fields = []fieldAliases{
	{"applicant_name", []string{"Named Insured", "Applicant", "Company Name"}},
	{"mailing_address", []string{"Mailing Address", "Address"}},
	{"city", []string{"City"}},
	{"state", []string{"State"}},
	{"zip", []string{"ZIP", "Zip Code"}},
	{"phone", []string{"Phone", "Telephone"}},
	{"fax", []string{"Fax"}},
	{"email", []string{"Email", "E-mail"}},
	{"website", []string{"Website", "Web Site"}},
	{"business_description", []string{"Business Description", "Description of Operations"}},
	{"years_in_business", []string{"Years in Business", "Years Experience"}},
	{"number_of_employees", []string{"Number of Employees", "Total Employees"}},
	{"annual_revenue", []string{"Annual Revenue", "Annual Sales", "Gross Receipts"}},
	{"federal_id", []string{"Federal ID", "FEIN", "Tax ID"}},
	{"general_liability", []string{"General Liability"}},
	{"property", []string{"Property"}},
	{"auto", []string{"Auto", "Automobile"}},
	{"workers_comp", []string{"Workers Compensation", "Workers' Comp"}},
	{"umbrella", []string{"Umbrella", "Excess Liability"}},
	{"professional_liability", []string{"Professional Liability", "E&O"}},
	{"effective_date", []string{"Effective Date", "Desired Effective Date"}},
	{"expiration_date", []string{"Expiration Date"}},
	{"current_carrier", []string{"Current Carrier", "Prior Carrier"}},
	{"prior_policy_number", []string{"Prior Policy Number", "Policy Number"}},
	{"losses_last_5_years", []string{"Losses - Last 5 Years", "Number of Losses"}},
}

var (
	namedInsuredTextRe = regexp.MustCompile(`(?i)named\s+insured[:\s]+([^\n]+)`)
	phoneTextRe        = regexp.MustCompile(`(?i)phone[:\s]+([0-9\-\(\)\s]+)`)
	businessDescTextRe = regexp.MustCompile(`(?i)business\s+description[:\s]+([^\n]+)`)
)

// Acord125Extractor reads the Commercial Insurance Application. Fillable
// fields are the primary source; a flattened or scanned form degrades to
// regex extraction over the text layer at reduced confidence.
type Acord125Extractor struct {
	keepRawFields bool
}

func NewAcord125Extractor(keepRawFields bool) *Acord125Extractor {
	return &Acord125Extractor{keepRawFields: keepRawFields}
}

func (e *Acord125Extractor) Name() string { return "acord_125" }

func (e *Acord125Extractor) SupportedTypes() []constants.DocumentType {
	return []constants.DocumentType{constants.Acord125}
}

func (e *Acord125Extractor) CanExtract(doc *entity.Document) bool {
	return doc != nil &&
		doc.DocumentType == constants.Acord125 &&
		(doc.Structure.HasFillableFields || doc.RawText != "")
}

func (e *Acord125Extractor) Extract(_ context.Context, doc *entity.Document) entity.ExtractionResult {
	if doc == nil || doc.DocumentType != constants.Acord125 {
		return entity.Failed(fmt.Sprintf("expected %s document", constants.Acord125))
	}

	if raw := formFields(doc); len(raw) > 0 {
		return e.extractFromFields(raw)
	}
	if doc.RawText != "" {
		return e.extractFromText(doc.RawText)
	}
	return entity.Failed("no form fields or text to extract from")
}

func (e *Acord125Extractor) extractFromFields(raw map[string]string) entity.ExtractionResult {
	mapped := mapFormFields(raw, acord125Fields)

	data := entity.Acord125Data{
		FormNumber: "ACORD 125",
		Applicant: entity.Applicant{
			Name:           mapped["applicant_name"],
			MailingAddress: mapped["mailing_address"],
			City:           mapped["city"],
			State:          mapped["state"],
			Zip:            mapped["zip"],
			Phone:          mapped["phone"],
			Fax:            mapped["fax"],
			Email:          mapped["email"],
			Website:        mapped["website"],
		},
		Business: entity.BusinessInfo{
			Description:       mapped["business_description"],
			YearsInBusiness:   mapped["years_in_business"],
			NumberOfEmployees: mapped["number_of_employees"],
			AnnualRevenue:     mapped["annual_revenue"],
			FederalID:         mapped["federal_id"],
		},
		Coverage: entity.CoverageRequested{
			GeneralLiability:      mapped["general_liability"] != "",
			Property:              mapped["property"] != "",
			Auto:                  mapped["auto"] != "",
			WorkersComp:           mapped["workers_comp"] != "",
			Umbrella:              mapped["umbrella"] != "",
			ProfessionalLiability: mapped["professional_liability"] != "",
		},
		Policy: entity.CoverageDates{
			EffectiveDate:  parseDate(mapped["effective_date"]),
			ExpirationDate: parseDate(mapped["expiration_date"]),
		},
		PriorInsurance: entity.PriorInsurance{
			CurrentCarrier:    mapped["current_carrier"],
			PriorPolicyNumber: mapped["prior_policy_number"],
			LossesLast5Years:  mapped["losses_last_5_years"],
		},
	}
	if e.keepRawFields {
		data.RawFields = raw
	}

	result := entity.ExtractionResult{
		Success:    true,
		Data:       data,
		Confidence: acord125Confidence(data),
	}
	result.SetMeta("form_type", "125")
	result.SetMeta("total_fields_extracted", len(raw))
	return result
}

func (e *Acord125Extractor) extractFromText(text string) entity.ExtractionResult {
	data := entity.Acord125Data{
		FormNumber: "ACORD 125",
		Applicant: entity.Applicant{
			Name:  firstGroup(namedInsuredTextRe, text),
			Phone: firstGroup(phoneTextRe, text),
		},
		Business: entity.BusinessInfo{
			Description: firstGroup(businessDescTextRe, text),
		},
	}

	result := entity.ExtractionResult{
		Success:    true,
		Data:       data,
		Confidence: 0.6,
		Warnings:   []string{"extracted from text layer; no fillable fields present"},
	}
	result.SetMeta("form_type", "125")
	return result
}

func acord125Confidence(data entity.Acord125Data) float64 {
	confidence := 0.7
	if data.Applicant.Name != "" {
		confidence += 0.1
	}
	if data.Business.Description != "" {
		confidence += 0.1
	}
	if data.Coverage != (entity.CoverageRequested{}) {
		confidence += 0.05
	}
	return entity.Clamp(confidence)
}
