package extract

import (
	"context"
	"fmt"
	"regexp"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/entity"
)

// ACORD eForm field identifiers for the 126. These names are standardized
// across carriers, so the mapping is exact rather than alias-based.
const (
	f126InsuredName    = "NamedInsured_FullName_A"
	f126Occurrence     = "GeneralLiability_OccurrenceIndicator_A"
	f126ClaimsMade     = "GeneralLiability_ClaimsMadeIndicator_A"
	f126EachOccurrence = "GeneralLiability_EachOccurrence_LimitAmount_A"
	f126GeneralAgg     = "GeneralLiability_GeneralAggregate_LimitAmount_A"
	f126ProductsOps    = "GeneralLiability_ProductsAndCompletedOperations_AggregateLimitAmount_A"
	f126PersonalAdv    = "GeneralLiability_PersonalAndAdvertisingInjury_LimitAmount_A"
	f126MedicalExpense = "GeneralLiability_MedicalExpense_EachPersonLimitAmount_A"
	f126FireDamage     = "GeneralLiability_FireDamageRentedPremises_EachOccurrenceLimitAmount_A"
	f126DeductPD       = "GeneralLiability_PropertyDamage_DeductibleAmount_A"
	f126DeductBI       = "GeneralLiability_BodilyInjury_DeductibleAmount_A"
	f126DeductPerClaim = "GeneralLiability_DeductiblePerClaimIndicator_A"
	f126DeductPerOcc   = "GeneralLiability_DeductiblePerOccurrenceIndicator_A"
	f126PolicyNumber   = "Policy_PolicyNumberIdentifier_A"
	f126EffectiveDate  = "Policy_EffectiveDate_A"
)

var (
	phoneRe = regexp.MustCompile(`^\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}$`)
	moneyRe = regexp.MustCompile(`^\$?[\d,]+(\.\d{2})?$`)
	dateRe  = regexp.MustCompile(`^\d{1,2}[/-]\d{1,2}[/-]\d{2,4}$`)
)

// Acord126Extractor reads the Commercial General Liability Application
// from its fillable AcroForm fields. A 126 without readable fields is a
// scan; that case fails here so the pipeline records the gap instead of
// guessing.
type Acord126Extractor struct {
	keepRawFields bool
}

func NewAcord126Extractor(keepRawFields bool) *Acord126Extractor {
	return &Acord126Extractor{keepRawFields: keepRawFields}
}

func (e *Acord126Extractor) Name() string { return "acord_126" }

func (e *Acord126Extractor) SupportedTypes() []constants.DocumentType {
	return []constants.DocumentType{constants.Acord126}
}

func (e *Acord126Extractor) CanExtract(doc *entity.Document) bool {
	return doc != nil &&
		doc.DocumentType == constants.Acord126 &&
		doc.Structure.HasFillableFields
}

func (e *Acord126Extractor) Extract(_ context.Context, doc *entity.Document) entity.ExtractionResult {
	if doc == nil || doc.DocumentType != constants.Acord126 {
		return entity.Failed(fmt.Sprintf("expected %s document", constants.Acord126))
	}
	raw := formFields(doc)
	if len(raw) == 0 {
		return entity.Failed("no readable form fields")
	}

	get := func(name string) string { return cleanFieldValue(raw[name]) }

	data := entity.Acord126Data{
		FormNumber: "ACORD 126",
		Applicant:  entity.Applicant{Name: get(f126InsuredName)},
		CoverageType: entity.CoverageType{
			Occurrence: normalizeCheckbox(raw[f126Occurrence]),
			ClaimsMade: normalizeCheckbox(raw[f126ClaimsMade]),
		},
		Limits: entity.GLLimits{
			EachOccurrence:       parseAmount(get(f126EachOccurrence)),
			GeneralAggregate:     parseAmount(get(f126GeneralAgg)),
			ProductsCompletedOps: parseAmount(get(f126ProductsOps)),
			PersonalAdvInjury:    parseAmount(get(f126PersonalAdv)),
			MedicalExpense:       parseAmount(get(f126MedicalExpense)),
			FireDamage:           parseAmount(get(f126FireDamage)),
		},
		Policy: entity.PolicyInfo{
			PolicyNumber: get(f126PolicyNumber),
			PeriodStart:  parseDate(get(f126EffectiveDate)),
		},
	}

	deductibles := map[string]any{}
	if v := parseAmount(get(f126DeductPD)); v != nil {
		deductibles["property_damage"] = *v
	}
	if v := parseAmount(get(f126DeductBI)); v != nil {
		deductibles["bodily_injury"] = *v
	}
	if normalizeCheckbox(raw[f126DeductPerClaim]) {
		deductibles["per_claim"] = true
	}
	if normalizeCheckbox(raw[f126DeductPerOcc]) {
		deductibles["per_occurrence"] = true
	}
	if len(deductibles) > 0 {
		data.Deductibles = deductibles
	}
	if e.keepRawFields {
		data.RawFields = raw
	}

	warnings := acord126Warnings(data, len(raw))
	confidence, lowConfidence := acord126Confidence(data, raw)
	result := entity.ExtractionResult{
		Success:    true,
		Data:       data,
		Confidence: confidence,
		Warnings:   warnings,
	}
	result.SetMeta("total_fields_extracted", len(raw))
	result.SetMeta("low_confidence_count", lowConfidence)
	result.SetMeta("form_type", "126")
	return result
}

func acord126Warnings(data entity.Acord126Data, fieldCount int) []string {
	var warnings []string
	if data.Applicant.Name == "" {
		warnings = append(warnings, "missing critical field: business name")
	}
	if data.Limits.EachOccurrence == nil {
		warnings = append(warnings, "missing critical field: each occurrence limit")
	}
	if data.Limits.GeneralAggregate == nil {
		warnings = append(warnings, "missing critical field: general aggregate limit")
	}
	if fieldCount < 20 {
		warnings = append(warnings, fmt.Sprintf("low field count (%d); form may be incomplete or blank", fieldCount))
	}
	if !data.CoverageType.Occurrence && !data.CoverageType.ClaimsMade {
		warnings = append(warnings, "no coverage type selected (occurrence or claims made)")
	}
	return warnings
}

// acord126Confidence blends per-field value quality (70%) with the share
// of critical fields present (30%). It also counts fields scoring below
// 0.7 for result metadata.
func acord126Confidence(data entity.Acord126Data, raw map[string]string) (float64, int) {
	sum := 0.0
	scored := 0
	lowConfidence := 0
	for _, v := range raw {
		v = cleanFieldValue(v)
		if v == "" {
			continue
		}
		c := fieldValueConfidence(v)
		sum += c
		scored++
		if c < 0.7 {
			lowConfidence++
		}
	}
	overall := 0.0
	if scored > 0 {
		overall = sum / float64(scored)
	}

	critical := 0
	if data.Applicant.Name != "" {
		critical++
	}
	if data.Limits.EachOccurrence != nil {
		critical++
	}
	if data.Limits.GeneralAggregate != nil {
		critical++
	}
	criticalRatio := float64(critical) / 3.0

	return entity.Clamp(overall*0.7 + criticalRatio*0.3), lowConfidence
}

// fieldValueConfidence scores one extracted value on its shape: length,
// plus a bonus when it matches a phone, money, or date pattern.
func fieldValueConfidence(value string) float64 {
	if value == "" {
		return 0.0
	}
	conf := 0.6
	switch {
	case len(value) > 20:
		conf += 0.2
	case len(value) > 5:
		conf += 0.1
	}
	if phoneRe.MatchString(value) || moneyRe.MatchString(value) || dateRe.MatchString(value) {
		conf += 0.1
	}
	return entity.Clamp(conf)
}
