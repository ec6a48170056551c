// Package schema holds the canonical JSON shapes for extraction output.
// Schemas are built in code as generic maps (draft 2020-12 subset), one per
// document type plus one for the fused submission, and compiled once into a
// Registry that validates payloads before they are stored or exported.
package schema

import (
	"github.com/intakehq/docintel/constants"
)

func buildSchemas() map[constants.DocumentType]map[string]any {
	return map[constants.DocumentType]map[string]any{
		constants.Acord126:           buildAcord126Schema(),
		constants.Acord125:           buildAcord125Schema(),
		constants.Acord130:           buildAcord130Schema(),
		constants.Acord140:           buildAcord140Schema(),
		constants.LossRun:            buildLossRunSchema(),
		constants.SOV:                buildSOVSchema(),
		constants.FinancialStatement: buildFinancialSchema(),
		constants.Supplemental:       buildSupplementalSchema(),
		constants.Generic:            buildGenericSchema(),
	}
}

func buildAcord126Schema() map[string]any {
	return objectSchema(map[string]any{
		"form_number":          map[string]any{"type": "string", "const": "ACORD 126"},
		"applicant":            applicantProp(),
		"coverage_type":        map[string]any{"type": "object"},
		"coverage_information": coverageDatesProp(),
		"limits":               map[string]any{"type": "object"},
		"deductibles":          map[string]any{"type": "object"},
		"policy_information":   map[string]any{"type": "object"},
		"raw_fields":           map[string]any{"type": "object"},
	}, "form_number", "applicant", "limits", "policy_information")
}

func buildAcord125Schema() map[string]any {
	return objectSchema(map[string]any{
		"form_number":           map[string]any{"type": "string", "const": "ACORD 125"},
		"applicant_information": applicantProp(),
		"business_information":  map[string]any{"type": "object"},
		"coverage_requirements": map[string]any{"type": "object"},
		"coverage_information":  coverageDatesProp(),
		"prior_insurance":       map[string]any{"type": "object"},
		"raw_fields":            map[string]any{"type": "object"},
	}, "form_number", "applicant_information")
}

func buildAcord130Schema() map[string]any {
	return objectSchema(map[string]any{
		"form_number":             map[string]any{"type": "string", "const": "ACORD 130"},
		"employer_information":    applicantProp(),
		"coverage_information":    coverageDatesProp(),
		"states":                  map[string]any{"type": "string"},
		"experience_modification": map[string]any{"type": "string"},
		"total_estimated_payroll": map[string]any{"type": "string"},
		"classifications": map[string]any{
			"type": []string{"array", "null"},
			"items": objectSchema(map[string]any{
				"class_code":  map[string]any{"type": "string"},
				"description": map[string]any{"type": "string"},
				"payroll":     map[string]any{"type": "string"},
			}, "class_code"),
		},
	}, "form_number", "employer_information", "classifications")
}

func buildAcord140Schema() map[string]any {
	return objectSchema(map[string]any{
		"form_number":          map[string]any{"type": "string", "const": "ACORD 140"},
		"insured_name":         map[string]any{"type": "string"},
		"location":             map[string]any{"type": "object"},
		"coverage_information": coverageDatesProp(),
		"locations":            map[string]any{"type": "array"},
	}, "form_number", "location")
}

func buildLossRunSchema() map[string]any {
	return objectSchema(map[string]any{
		"policy_information": map[string]any{"type": "object"},
		// A nil claim list serializes as null; an empty loss run is valid.
		"claims": map[string]any{
			"type": []string{"array", "null"},
			"items": objectSchema(map[string]any{
				"claim_number": map[string]any{"type": "string"},
				"date_of_loss": map[string]any{"type": "string"},
				"status":       map[string]any{"type": "string"},
				"paid":         map[string]any{"type": "number"},
				"incurred":     map[string]any{"type": "number"},
				"reserve":      map[string]any{"type": "number"},
			}),
		},
		"claim_count": countProp(),
		"totals": objectSchema(map[string]any{
			"total_paid":     map[string]any{"type": "number"},
			"total_incurred": map[string]any{"type": "number"},
			"total_reserve":  map[string]any{"type": "number"},
			"total_claims":   countProp(),
		}, "total_claims"),
	}, "claims", "claim_count", "totals")
}

func buildSOVSchema() map[string]any {
	return objectSchema(map[string]any{
		"schedule_information": map[string]any{"type": "object"},
		"properties": map[string]any{
			"type": []string{"array", "null"},
			"items": objectSchema(map[string]any{
				"location_number": map[string]any{"type": "string"},
				"address":         map[string]any{"type": "string"},
				"building_value":  map[string]any{"type": "number"},
				"contents_value":  map[string]any{"type": "number"},
				"total_value":     map[string]any{"type": "number"},
			}),
		},
		"property_count": countProp(),
		"totals": objectSchema(map[string]any{
			"total_building_value":  map[string]any{"type": "number"},
			"total_contents_value":  map[string]any{"type": "number"},
			"total_business_income": map[string]any{"type": "number"},
			"total_insured_value":   map[string]any{"type": "number"},
			"total_locations":       countProp(),
		}, "total_locations"),
	}, "properties", "property_count", "totals")
}

func buildFinancialSchema() map[string]any {
	return objectSchema(map[string]any{
		"statement_type": map[string]any{
			"type": "string",
			"enum": []string{"balance_sheet", "income_statement", "cash_flow", "unknown"},
		},
		"statement_metadata": map[string]any{"type": "object"},
		"line_items":         map[string]any{"type": []string{"object", "null"}},
		"totals":             map[string]any{"type": []string{"object", "null"}},
		"balance_check":      map[string]any{"type": "object"},
		"item_count":         countProp(),
	}, "statement_type", "line_items", "totals", "item_count")
}

func buildSupplementalSchema() map[string]any {
	return objectSchema(map[string]any{
		"sub_type": map[string]any{
			"type": "string",
			"enum": []string{"generic", "driver_license", "certificate", "photo", "receipt"},
		},
		"extracted_fields": map[string]any{"type": "object"},
		"text_length":      countProp(),
		"image_count":      countProp(),
	}, "sub_type", "text_length", "image_count")
}

func buildGenericSchema() map[string]any {
	return objectSchema(map[string]any{
		"preview":     map[string]any{"type": "string"},
		"text_length": countProp(),
		"word_count":  countProp(),
		"page_count":  countProp(),
		"table_count": countProp(),
		"image_count": countProp(),
		"metadata":    map[string]any{"type": "object"},
	}, "text_length", "word_count")
}

// BuildFusedSchema returns the schema for a fused submission record.
func BuildFusedSchema() map[string]any {
	return objectSchema(map[string]any{
		"application":           map[string]any{"type": "object"},
		"claims_history":        map[string]any{"type": "object"},
		"property_schedule":     map[string]any{"type": "object"},
		"financial_information": map[string]any{"type": "object"},
		"supplemental_documents": map[string]any{
			"type": "array",
			"items": objectSchema(map[string]any{
				"status": map[string]any{"type": "string", "enum": []string{"processed", "failed"}},
			}, "status"),
		},
		"applicant":  applicantProp(),
		"confidence": confidenceProp(),
		"fusion_metadata": objectSchema(map[string]any{
			"group_id":          map[string]any{"type": "string", "minLength": 1},
			"document_count":    countProp(),
			"successful_count":  countProp(),
			"failed_count":      countProp(),
			"documents_by_type": map[string]any{"type": "object"},
			"parallelism":       map[string]any{"type": "integer", "minimum": 1},
		}, "group_id", "document_count"),
	}, "confidence", "fusion_metadata")
}

func objectSchema(props map[string]any, required ...string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func applicantProp() map[string]any {
	return objectSchema(map[string]any{
		"name":            map[string]any{"type": "string"},
		"mailing_address": map[string]any{"type": "string"},
		"city":            map[string]any{"type": "string"},
		"state":           map[string]any{"type": "string"},
		"zip":             map[string]any{"type": "string"},
		"phone":           map[string]any{"type": "string"},
		"email":           map[string]any{"type": "string"},
	})
}

func coverageDatesProp() map[string]any {
	return objectSchema(map[string]any{
		"effective_date":  map[string]any{"type": "string"},
		"expiration_date": map[string]any{"type": "string"},
	})
}

func countProp() map[string]any {
	return map[string]any{"type": "integer", "minimum": 0}
}

func confidenceProp() map[string]any {
	return map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0}
}
