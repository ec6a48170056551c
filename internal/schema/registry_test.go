package schema

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/entity"
	"github.com/intakehq/docintel/internal/extract"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry()
	require.NoError(t, err)
	return r
}

func TestRegistryCompilesEverySchema(t *testing.T) {
	r := testRegistry(t)
	for _, docType := range constants.DocumentTypes {
		if docType == constants.Unknown {
			continue
		}
		assert.True(t, r.Has(docType), "missing schema for %s", docType)
	}
	assert.False(t, r.Has(constants.Unknown))
}

func TestValidateLossRun(t *testing.T) {
	r := testRegistry(t)
	paid := 1200.50

	data := entity.LossRunData{
		PolicyInformation: entity.PolicyInfo{PolicyNumber: "GL-123456"},
		Claims: []entity.Claim{
			{ClaimNumber: "CLM-001", DateOfLoss: "01/15/2023", Paid: &paid},
		},
		ClaimCount: 1,
		Totals:     entity.ClaimTotals{TotalPaid: 1200.50, TotalClaims: 1},
	}
	assert.NoError(t, r.Validate(constants.LossRun, data))

	// Empty loss runs are still structurally valid.
	assert.NoError(t, r.Validate(constants.LossRun, entity.LossRunData{}))
}

func TestValidateRejectsWrongShape(t *testing.T) {
	r := testRegistry(t)

	err := r.Validate(constants.LossRun, map[string]any{
		"claims":      "not-a-list",
		"claim_count": -1,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCHEMA_VALIDATION_FAILED")
}

func TestValidateAcordFormNumber(t *testing.T) {
	r := testRegistry(t)

	valid := entity.Acord126Data{
		FormNumber: "ACORD 126",
		Applicant:  entity.Applicant{Name: "Acme Manufacturing LLC"},
	}
	assert.NoError(t, r.Validate(constants.Acord126, valid))

	wrong := valid
	wrong.FormNumber = "ACORD 125"
	assert.Error(t, r.Validate(constants.Acord126, wrong))
}

func TestValidateSupplementalSubType(t *testing.T) {
	r := testRegistry(t)

	assert.NoError(t, r.Validate(constants.Supplemental, entity.SupplementalData{
		SubType: entity.SupplementalDriverLicense,
	}))
	assert.Error(t, r.Validate(constants.Supplemental, entity.SupplementalData{
		SubType: "hologram",
	}))
}

// The schemas must accept what the extractors actually produce, not just
// hand-built fixtures.
func TestValidateExtractorOutput(t *testing.T) {
	r := testRegistry(t)
	ctx := context.Background()

	formDoc := entity.NewDocument("/tmp/acord126.pdf", "acord126.pdf")
	formDoc.DocumentType = constants.Acord126
	formDoc.Structure.HasFillableFields = true
	formDoc.Metadata["form_fields"] = map[string]string{
		"NamedInsured_FullName_A":         "Acme Manufacturing LLC",
		"Policy_PolicyNumberIdentifier_A": "GL-123456",
	}
	result := extract.NewAcord126Extractor(false).Extract(ctx, formDoc)
	require.True(t, result.Success, "errors: %v", result.Errors)
	assert.NoError(t, r.Validate(constants.Acord126, result.Data))

	// No statement vocabulary in the prose, so the type stays "unknown".
	finDoc := entity.NewDocument("/tmp/fin.xlsx", "fin.xlsx")
	finDoc.DocumentType = constants.FinancialStatement
	finDoc.RawText = "Annual figures"
	finDoc.AddTable(entity.TableData{
		Headers: []string{"Item", "Amount"},
		Rows:    [][]string{{"Miscellaneous", "$5,000"}},
	})
	result = extract.NewFinancialExtractor().Extract(ctx, finDoc)
	require.True(t, result.Success, "errors: %v", result.Errors)
	data := result.Data.(entity.FinancialData)
	assert.Equal(t, "unknown", data.StatementType)
	assert.NoError(t, r.Validate(constants.FinancialStatement, data))
}

func TestValidateUnknownType(t *testing.T) {
	r := testRegistry(t)
	err := r.Validate(constants.Unknown, map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCHEMA_NOT_FOUND")
}

func TestValidateFused(t *testing.T) {
	r := testRegistry(t)

	fused := entity.FusedSubmission{
		Confidence: 0.87,
		Metadata: entity.FusionMetadata{
			GroupID:         "grp-1",
			DocumentCount:   2,
			SuccessfulCount: 2,
			DocumentsByType: map[string]int{"loss_run": 2},
			FusedAt:         time.Now().UTC(),
			Parallelism:     4,
		},
	}
	assert.NoError(t, r.ValidateFused(fused))

	fused.Confidence = 1.5
	assert.Error(t, r.ValidateFused(fused))
}

func TestRequiredFields(t *testing.T) {
	r := testRegistry(t)

	fields := r.RequiredFields(constants.LossRun)
	assert.Contains(t, fields, "claims")
	assert.Contains(t, fields, "totals.total_claims")
	assert.Nil(t, r.RequiredFields(constants.Unknown))
}
