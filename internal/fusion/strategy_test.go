package fusion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/common"
	"github.com/intakehq/docintel/internal/entity"
	"github.com/intakehq/docintel/internal/extract"
)

// stubExtractor returns canned results keyed by file name so fusion tests
// control every member outcome.
type stubExtractor struct {
	results map[string]entity.ExtractionResult
	delay   time.Duration
}

func (s stubExtractor) Name() string                             { return "stub" }
func (s stubExtractor) CanExtract(*entity.Document) bool         { return true }
func (s stubExtractor) SupportedTypes() []constants.DocumentType { return nil }

func (s stubExtractor) Extract(_ context.Context, doc *entity.Document) entity.ExtractionResult {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if r, ok := s.results[doc.FileName]; ok {
		return r
	}
	return entity.Failed("no result for " + doc.FileName)
}

func stubStrategy(results map[string]entity.ExtractionResult) *Strategy {
	return stubStrategyDelayed(results, 0, 0)
}

func stubStrategyDelayed(results map[string]entity.ExtractionResult, delay, timeout time.Duration) *Strategy {
	reg := extract.NewRegistry(nil)
	stub := stubExtractor{results: results, delay: delay}
	for _, t := range constants.DocumentTypes {
		reg.Register(t, stub)
	}
	return New(reg, common.FusionConfig{Parallelism: 2, DocumentTimeout: timeout}, nil)
}

func typedDoc(id, name string, t constants.DocumentType) *entity.Document {
	doc := entity.NewDocument("/submissions/"+name, name)
	doc.ID = id
	doc.SetDocumentType(t, 0.9)
	return doc
}

func group(docs ...*entity.Document) *entity.DocumentGroup {
	return &entity.DocumentGroup{GroupID: "grp-1", Documents: docs}
}

func ok(data any, confidence float64) entity.ExtractionResult {
	return entity.ExtractionResult{Success: true, Data: data, Confidence: confidence}
}

func fp(v float64) *float64 { return &v }

func fuse(t *testing.T, s *Strategy, g *entity.DocumentGroup) (entity.ExtractionResult, entity.FusedSubmission) {
	t.Helper()
	result, err := s.Fuse(context.Background(), g)
	require.NoError(t, err)
	require.True(t, result.Success)
	fused, okCast := result.Data.(entity.FusedSubmission)
	require.True(t, okCast)
	return result, fused
}

func TestFuseEmptyGroup(t *testing.T) {
	s := stubStrategy(nil)

	_, err := s.Fuse(context.Background(), nil)
	assert.ErrorIs(t, err, common.ErrEmptyGroup)

	_, err = s.Fuse(context.Background(), &entity.DocumentGroup{GroupID: "grp-1"})
	assert.ErrorIs(t, err, common.ErrEmptyGroup)
}

func TestFuseMergesClaims(t *testing.T) {
	s := stubStrategy(map[string]entity.ExtractionResult{
		"lr1.csv": ok(entity.LossRunData{
			PolicyInformation: entity.PolicyInfo{PolicyNumber: "GL-1", InsuredName: "Acme Manufacturing"},
			Claims: []entity.Claim{
				{ClaimNumber: "A1", Paid: fp(100)},
				{ClaimNumber: "A2", Paid: fp(200)},
			},
		}, 0.9),
		"lr2.csv": ok(entity.LossRunData{
			Claims: []entity.Claim{
				{ClaimNumber: "A1", Paid: fp(999)},
				{ClaimNumber: "A3", Paid: fp(50)},
				{Claimant: "Walk-in"},
			},
		}, 0.8),
	})

	result, fused := fuse(t, s, group(
		typedDoc("d1", "lr1.csv", constants.LossRun),
		typedDoc("d2", "lr2.csv", constants.LossRun),
	))

	claims := fused.ClaimsHistory
	require.NotNil(t, claims)
	assert.Equal(t, 4, claims.ClaimCount)
	assert.Equal(t, 1, claims.Duplicates)
	assert.Equal(t, []string{"d1", "d2"}, claims.SourceIDs)
	assert.Len(t, claims.Policies, 1)

	// First occurrence of A1 wins, so the 999 duplicate is dropped.
	require.NotNil(t, claims.Claims[0].Paid)
	assert.Equal(t, 100.0, *claims.Claims[0].Paid)
	assert.Equal(t, 350.0, claims.Totals.TotalPaid)
	assert.Equal(t, 4, claims.Totals.TotalClaims)

	assert.Contains(t, result.Warnings, "1 duplicate claim(s) removed during merge")
	assert.InDelta(t, 0.87, result.Confidence, 1e-9)
}

func TestFuseMergesProperties(t *testing.T) {
	s := stubStrategy(map[string]entity.ExtractionResult{
		"sov1.xlsx": ok(entity.SOVData{
			Properties: []entity.Property{
				{LocationNumber: "L1", BuildingValue: fp(100000), ContentsValue: fp(50000)},
				{Address: "2 Oak St", BuildingValue: fp(200000)},
			},
		}, 0.9),
		"sov2.xlsx": ok(entity.SOVData{
			Properties: []entity.Property{
				{LocationNumber: "L1", BuildingValue: fp(999)},
				{Address: "2 Oak St"},
				{LocationNumber: "L3", BuildingValue: fp(300000)},
			},
		}, 0.9),
	})

	result, fused := fuse(t, s, group(
		typedDoc("d1", "sov1.xlsx", constants.SOV),
		typedDoc("d2", "sov2.xlsx", constants.SOV),
	))

	props := fused.PropertySchedule
	require.NotNil(t, props)
	assert.Equal(t, 3, props.PropertyCount)
	assert.Equal(t, 2, props.Duplicates)
	assert.Equal(t, 600000.0, props.Totals.TotalBuildingValue)
	assert.Equal(t, 50000.0, props.Totals.TotalContentsValue)
	// No row carried an explicit total, so TIV is the component sum.
	assert.Equal(t, 650000.0, props.Totals.TotalInsuredValue)

	assert.Contains(t, result.Warnings, "2 duplicate location(s) removed during merge")
}

func TestFuseAcordFirstSuccessWins(t *testing.T) {
	first := entity.Acord126Data{
		Applicant: entity.Applicant{Name: "Acme LLC"},
		Policy:    entity.PolicyInfo{PolicyNumber: "GL-1"},
	}
	second := entity.Acord126Data{
		Applicant: entity.Applicant{Name: "ACME LLC"},
		Policy:    entity.PolicyInfo{PolicyNumber: "GL-1"},
	}
	s := stubStrategy(map[string]entity.ExtractionResult{
		"a126-1.pdf": ok(first, 0.9),
		"a126-2.pdf": ok(second, 0.95),
	})

	_, fused := fuse(t, s, group(
		typedDoc("d1", "a126-1.pdf", constants.Acord126),
		typedDoc("d2", "a126-2.pdf", constants.Acord126),
	))

	section, present := fused.Application["acord_126"]
	require.True(t, present)
	assert.Equal(t, first, section.Data)
	assert.Equal(t, 0.9, section.Confidence)
	assert.Equal(t, []string{"d1", "d2"}, section.SourceIDs)
}

func TestFuseApplicantPriority(t *testing.T) {
	s := stubStrategy(map[string]entity.ExtractionResult{
		"a126.pdf": ok(entity.Acord126Data{
			Applicant: entity.Applicant{Name: "Acme LLC"},
		}, 0.9),
		"a125.pdf": ok(entity.Acord125Data{
			Applicant: entity.Applicant{Name: "ACME LLC", Email: "info@acme.com"},
		}, 0.9),
		"license.jpg": ok(entity.SupplementalData{
			SubType: entity.SupplementalDriverLicense,
			Fields: map[string]string{
				"name":          "Jane Driver",
				"date_of_birth": "01/02/1980",
			},
		}, 0.9),
	})

	result, fused := fuse(t, s, group(
		typedDoc("d1", "a126.pdf", constants.Acord126),
		typedDoc("d2", "a125.pdf", constants.Acord125),
		typedDoc("d3", "license.jpg", constants.Supplemental),
	))

	applicant := fused.Applicant
	require.NotNil(t, applicant)
	assert.Equal(t, "Acme LLC", applicant.Name)
	assert.Equal(t, "a126.pdf", applicant.Sources["name"])
	assert.Equal(t, "info@acme.com", applicant.Email)
	assert.Equal(t, "a125.pdf", applicant.Sources["email"])
	assert.Equal(t, "01/02/1980", applicant.DateOfBirth)
	assert.Equal(t, "license.jpg", applicant.Sources["date_of_birth"])

	// "Acme LLC" and "ACME LLC" normalize to the same name.
	for _, w := range result.Warnings {
		assert.NotContains(t, w, "inconsistent applicant names")
	}
}

func TestFuseFinancialHighestConfidence(t *testing.T) {
	s := stubStrategy(map[string]entity.ExtractionResult{
		"fin1.xlsx": ok(entity.FinancialData{StatementType: "balance_sheet"}, 0.6),
		"fin2.xlsx": ok(entity.FinancialData{StatementType: "income_statement"}, 0.85),
	})

	_, fused := fuse(t, s, group(
		typedDoc("d1", "fin1.xlsx", constants.FinancialStatement),
		typedDoc("d2", "fin2.xlsx", constants.FinancialStatement),
	))

	require.NotNil(t, fused.FinancialInformation)
	assert.Equal(t, "d2", fused.FinancialInformation.SourceID)
	assert.Equal(t, 0.85, fused.FinancialInformation.Confidence)
	assert.Equal(t, "income_statement", fused.FinancialInformation.Data.StatementType)
}

func TestFuseSupplementalKeepsFailures(t *testing.T) {
	s := stubStrategy(map[string]entity.ExtractionResult{
		"cert.pdf": ok(entity.SupplementalData{SubType: entity.SupplementalCertificate}, 0.85),
		"blob.bin": entity.Failed("unreadable content"),
	})

	_, fused := fuse(t, s, group(
		typedDoc("d1", "cert.pdf", constants.Supplemental),
		typedDoc("d2", "blob.bin", constants.Supplemental),
	))

	require.Len(t, fused.Supplemental, 2)
	assert.Equal(t, "processed", fused.Supplemental[0].Status)
	assert.Equal(t, entity.SupplementalCertificate, fused.Supplemental[0].Data.SubType)
	assert.Equal(t, "failed", fused.Supplemental[1].Status)
	assert.Equal(t, []string{"unreadable content"}, fused.Supplemental[1].Errors)
	assert.Equal(t, "blob.bin", fused.Supplemental[1].FileName)
}

func TestFusePartialFailureIsolated(t *testing.T) {
	s := stubStrategy(map[string]entity.ExtractionResult{
		"lr1.csv": ok(entity.LossRunData{
			Claims: []entity.Claim{{ClaimNumber: "A1", Paid: fp(100)}},
		}, 0.8),
		"broken.pdf": entity.Failed("parse error"),
	})

	result, fused := fuse(t, s, group(
		typedDoc("d1", "lr1.csv", constants.LossRun),
		typedDoc("d2", "broken.pdf", constants.Acord126),
	))

	require.NotNil(t, fused.ClaimsHistory)
	assert.Equal(t, 1, fused.ClaimsHistory.ClaimCount)
	assert.Empty(t, fused.Application)

	assert.Equal(t, 1, fused.Metadata.SuccessfulCount)
	assert.Equal(t, 1, fused.Metadata.FailedCount)
	// Failures do not drag the average down; only successes count.
	assert.InDelta(t, 0.82, result.Confidence, 1e-9)
}

func TestFuseConfidenceCapped(t *testing.T) {
	results := map[string]entity.ExtractionResult{}
	docs := make([]*entity.Document, 0, len(constants.DocumentTypes))
	for i, docType := range []constants.DocumentType{
		constants.Acord126, constants.Acord125, constants.Acord130,
		constants.Acord140, constants.LossRun, constants.SOV,
	} {
		name := string(docType) + ".pdf"
		results[name] = ok(nil, 0.99)
		docs = append(docs, typedDoc(string(rune('a'+i)), name, docType))
	}
	s := stubStrategy(results)

	result, _ := fuse(t, s, group(docs...))
	assert.Equal(t, 1.0, result.Confidence)
}

func TestFuseAllFailed(t *testing.T) {
	s := stubStrategy(map[string]entity.ExtractionResult{
		"a.pdf": entity.Failed("bad"),
		"b.pdf": entity.Failed("worse"),
	})

	result, fused := fuse(t, s, group(
		typedDoc("d1", "a.pdf", constants.Acord126),
		typedDoc("d2", "b.pdf", constants.LossRun),
	))

	assert.Equal(t, 0.0, result.Confidence)
	assert.Equal(t, 2, fused.Metadata.FailedCount)
	assert.Nil(t, fused.ClaimsHistory)
	assert.Nil(t, fused.Applicant)
}

func TestFuseCrossValidation(t *testing.T) {
	s := stubStrategy(map[string]entity.ExtractionResult{
		"a125.pdf": ok(entity.Acord125Data{
			Applicant: entity.Applicant{Name: "Acme LLC"},
			Policy: entity.CoverageDates{
				EffectiveDate:  "01/01/2024",
				ExpirationDate: "01/01/2023",
			},
		}, 0.9),
		"lr.csv": ok(entity.LossRunData{
			PolicyInformation: entity.PolicyInfo{PolicyNumber: "GL-9", InsuredName: "Beta Corp"},
			Claims:            []entity.Claim{{ClaimNumber: "A1"}},
		}, 0.9),
		"sov.xlsx": ok(entity.SOVData{
			ScheduleInformation: entity.ScheduleInfo{PolicyNumber: "PKG-7"},
		}, 0.9),
	})

	result, _ := fuse(t, s, group(
		typedDoc("d1", "a125.pdf", constants.Acord125),
		typedDoc("d2", "lr.csv", constants.LossRun),
		typedDoc("d3", "sov.xlsx", constants.SOV),
	))

	assert.Contains(t, result.Warnings, "acord_125: effective date is after expiration date")
	assert.Contains(t, result.Warnings, "inconsistent applicant names across documents: Acme LLC; Beta Corp")
	assert.Contains(t, result.Warnings, "inconsistent policy numbers across documents: GL-9; PKG-7")
}

func TestFuseDocumentTimeout(t *testing.T) {
	s := stubStrategyDelayed(map[string]entity.ExtractionResult{
		"slow.pdf": ok(nil, 0.9),
	}, 200*time.Millisecond, 10*time.Millisecond)

	result, fused := fuse(t, s, group(typedDoc("d1", "slow.pdf", constants.Acord126)))

	assert.Equal(t, 0, fused.Metadata.SuccessfulCount)
	assert.Equal(t, 1, fused.Metadata.FailedCount)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestFuseMetadata(t *testing.T) {
	s := stubStrategy(map[string]entity.ExtractionResult{
		"lr1.csv": ok(entity.LossRunData{}, 0.8),
		"lr2.csv": ok(entity.LossRunData{}, 0.8),
		"a.pdf":   entity.Failed("bad"),
	})

	_, fused := fuse(t, s, group(
		typedDoc("d1", "lr1.csv", constants.LossRun),
		typedDoc("d2", "lr2.csv", constants.LossRun),
		typedDoc("d3", "a.pdf", constants.Acord126),
	))

	meta := fused.Metadata
	assert.Equal(t, "grp-1", meta.GroupID)
	assert.Equal(t, 3, meta.DocumentCount)
	assert.Equal(t, 2, meta.SuccessfulCount)
	assert.Equal(t, 1, meta.FailedCount)
	assert.Equal(t, map[string]int{"loss_run": 2, "acord_126": 1}, meta.DocumentsByType)
	assert.Equal(t, 2, meta.Parallelism)
	assert.False(t, meta.FusedAt.IsZero())
}
