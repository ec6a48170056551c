// Package fusion merges the extraction results of one submission's
// documents into a single consolidated record. Member documents are
// extracted independently (optionally in parallel), organized by type,
// merged per-type with deduplication, and cross-validated; contradictions
// surface as warnings, never as silent overwrites.
package fusion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/common"
	"github.com/intakehq/docintel/internal/entity"
	"github.com/intakehq/docintel/internal/extract"
)

// member pairs one group document with its extraction result.
type member struct {
	doc    *entity.Document
	result entity.ExtractionResult
}

// Strategy fuses a DocumentGroup into one ExtractionResult. Member
// extractions fan out on a bounded worker pool; the merge runs only after
// every member has completed or definitively failed.
type Strategy struct {
	extractors  *extract.Registry
	parallelism int
	timeout     time.Duration
	logger      *slog.Logger
}

// New builds a fusion strategy. Parallelism below 1 is treated as 1; a
// zero timeout disables the per-document deadline. A nil logger defaults
// to slog.Default().
func New(extractors *extract.Registry, cfg common.FusionConfig, logger *slog.Logger) *Strategy {
	if logger == nil {
		logger = slog.Default()
	}
	parallelism := cfg.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}
	return &Strategy{
		extractors:  extractors,
		parallelism: parallelism,
		timeout:     cfg.DocumentTimeout,
		logger:      logger,
	}
}

// Fuse merges the group into one result. An empty group is a structural
// precondition failure and returns common.ErrEmptyGroup before any
// extraction starts; per-document failures are represented in the result
// instead.
func (s *Strategy) Fuse(ctx context.Context, group *entity.DocumentGroup) (entity.ExtractionResult, error) {
	if group == nil || len(group.Documents) == 0 {
		return entity.ExtractionResult{}, common.ErrEmptyGroup
	}

	members := s.extractAll(ctx, group)
	organized := organizeByType(members)

	fused := entity.FusedSubmission{
		Application:          mergeAcordForms(organized),
		ClaimsHistory:        mergeClaims(organized[constants.LossRun]),
		PropertySchedule:     mergeProperties(organized[constants.SOV]),
		FinancialInformation: mergeFinancial(organized[constants.FinancialStatement]),
		Supplemental:         mergeSupplemental(organized[constants.Supplemental]),
	}
	fused.Applicant = mergeApplicant(organized)

	warnings := crossValidate(members, fused)
	fused.Confidence = fusionConfidence(members)
	fused.Metadata = s.buildMetadata(group, members)

	s.logger.Info("fusion.complete",
		"group_id", group.GroupID,
		"documents", len(members),
		"successful", fused.Metadata.SuccessfulCount,
		"failed", fused.Metadata.FailedCount,
		"confidence", fused.Confidence)

	return entity.ExtractionResult{
		Success:    true,
		Data:       fused,
		Confidence: fused.Confidence,
		Warnings:   warnings,
	}, nil
}

// extractAll runs every member extraction on the worker pool. Failures
// never cancel siblings: each worker records its own result and returns
// nil to the group.
func (s *Strategy) extractAll(ctx context.Context, group *entity.DocumentGroup) []member {
	members := make([]member, len(group.Documents))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, doc := range group.Documents {
		g.Go(func() error {
			result := s.extractOne(ctx, doc)
			if !result.Success {
				s.logger.Warn("fusion.extract.failed",
					"group_id", group.GroupID,
					"file", doc.FileName,
					"errors", result.Errors)
			}
			members[i] = member{doc: doc, result: result}
			return nil
		})
	}
	_ = g.Wait()
	return members
}

// extractOne enforces the per-document timeout. The registry already
// isolates panics, so the only way past the deadline is an extractor that
// genuinely hangs.
func (s *Strategy) extractOne(ctx context.Context, doc *entity.Document) entity.ExtractionResult {
	if s.timeout <= 0 {
		return s.extractors.Extract(ctx, doc)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	done := make(chan entity.ExtractionResult, 1)
	go func() {
		done <- s.extractors.Extract(ctx, doc)
	}()

	select {
	case result := <-done:
		return result
	case <-ctx.Done():
		return entity.Failed(fmt.Sprintf("extraction timed out after %s: %s", s.timeout, doc.FileName))
	}
}

func organizeByType(members []member) map[constants.DocumentType][]member {
	organized := make(map[constants.DocumentType][]member)
	for _, m := range members {
		organized[m.doc.DocumentType] = append(organized[m.doc.DocumentType], m)
	}
	return organized
}

// mergeAcordForms keeps one section per form type. The first successful
// extraction of each type wins; further documents of the same type only
// contribute their ids to provenance.
func mergeAcordForms(organized map[constants.DocumentType][]member) map[string]entity.AcordSection {
	merged := make(map[string]entity.AcordSection)
	for _, acordType := range constants.AcordTypes {
		for _, m := range organized[acordType] {
			if !m.result.Success {
				continue
			}
			key := string(acordType)
			section, ok := merged[key]
			if !ok {
				section = entity.AcordSection{Data: m.result.Data, Confidence: m.result.Confidence}
			}
			section.SourceIDs = append(section.SourceIDs, m.doc.ID)
			merged[key] = section
		}
	}
	if len(merged) == 0 {
		return nil
	}
	return merged
}

// mergeClaims concatenates claims in document order, deduplicates by claim
// number (first occurrence wins; numberless claims are always kept), and
// recomputes totals over the survivors.
func mergeClaims(members []member) *entity.MergedClaims {
	var (
		claims    []entity.Claim
		policies  []entity.PolicyInfo
		sourceIDs []string
		dropped   int
	)
	seen := map[string]bool{}

	for _, m := range members {
		if !m.result.Success {
			continue
		}
		data, ok := m.result.Data.(entity.LossRunData)
		if !ok {
			continue
		}
		sourceIDs = append(sourceIDs, m.doc.ID)
		if data.PolicyInformation != (entity.PolicyInfo{}) {
			policies = append(policies, data.PolicyInformation)
		}
		for _, claim := range data.Claims {
			if claim.ClaimNumber != "" {
				if seen[claim.ClaimNumber] {
					dropped++
					continue
				}
				seen[claim.ClaimNumber] = true
			}
			claims = append(claims, claim)
		}
	}
	if len(sourceIDs) == 0 {
		return nil
	}

	totals := entity.ClaimTotals{TotalClaims: len(claims)}
	for _, claim := range claims {
		if claim.Paid != nil {
			totals.TotalPaid += *claim.Paid
		}
		if claim.Incurred != nil {
			totals.TotalIncurred += *claim.Incurred
		}
		if claim.Reserve != nil {
			totals.TotalReserve += *claim.Reserve
		}
	}

	return &entity.MergedClaims{
		Claims:     claims,
		ClaimCount: len(claims),
		Totals:     totals,
		Policies:   policies,
		SourceIDs:  sourceIDs,
		Duplicates: dropped,
	}
}

// mergeProperties concatenates schedules, deduplicates by location number
// (falling back to address), and recomputes totals. TIV falls back to
// building+contents+business income when no row carried an explicit total.
func mergeProperties(members []member) *entity.MergedProperties {
	var (
		properties []entity.Property
		sourceIDs  []string
		dropped    int
	)
	seen := map[string]bool{}

	for _, m := range members {
		if !m.result.Success {
			continue
		}
		data, ok := m.result.Data.(entity.SOVData)
		if !ok {
			continue
		}
		sourceIDs = append(sourceIDs, m.doc.ID)
		for _, prop := range data.Properties {
			key := prop.LocationNumber
			if key == "" {
				key = prop.Address
			}
			if key != "" {
				if seen[key] {
					dropped++
					continue
				}
				seen[key] = true
			}
			properties = append(properties, prop)
		}
	}
	if len(sourceIDs) == 0 {
		return nil
	}

	totals := entity.PropertyTotals{TotalLocations: len(properties)}
	for _, prop := range properties {
		if prop.BuildingValue != nil {
			totals.TotalBuildingValue += *prop.BuildingValue
		}
		if prop.ContentsValue != nil {
			totals.TotalContentsValue += *prop.ContentsValue
		}
		if prop.BusinessIncome != nil {
			totals.TotalBusinessIncome += *prop.BusinessIncome
		}
		if prop.TotalValue != nil {
			totals.TotalInsuredValue += *prop.TotalValue
		}
	}
	if totals.TotalInsuredValue == 0 {
		totals.TotalInsuredValue = totals.TotalBuildingValue + totals.TotalContentsValue + totals.TotalBusinessIncome
	}

	return &entity.MergedProperties{
		Properties:    properties,
		PropertyCount: len(properties),
		Totals:        totals,
		SourceIDs:     sourceIDs,
		Duplicates:    dropped,
	}
}

// mergeFinancial keeps the single highest-confidence successful statement.
func mergeFinancial(members []member) *entity.FinancialSection {
	var best *entity.FinancialSection
	for _, m := range members {
		if !m.result.Success {
			continue
		}
		data, ok := m.result.Data.(entity.FinancialData)
		if !ok {
			continue
		}
		if best == nil || m.result.Confidence > best.Confidence {
			best = &entity.FinancialSection{
				Data:       &data,
				Confidence: m.result.Confidence,
				SourceID:   m.doc.ID,
			}
		}
	}
	return best
}

// mergeSupplemental keeps every supplemental document as a tagged list
// entry, failures included.
func mergeSupplemental(members []member) []entity.SupplementalItem {
	var items []entity.SupplementalItem
	for _, m := range members {
		item := entity.SupplementalItem{
			SourceID: m.doc.ID,
			FileName: m.doc.FileName,
		}
		if m.result.Success {
			item.Status = "processed"
			if data, ok := m.result.Data.(entity.SupplementalData); ok {
				item.Data = &data
			}
		} else {
			item.Status = "failed"
			item.Errors = m.result.Errors
		}
		items = append(items, item)
	}
	return items
}

// mergeApplicant builds the cross-referenced applicant block. ACORD forms
// are the primary source in form order; driver-license data fills only
// fields still empty and never overwrites an ACORD value.
func mergeApplicant(organized map[constants.DocumentType][]member) *entity.Applicant {
	applicant := &entity.Applicant{}

	fill := func(src entity.Applicant, source string) {
		applicant.Set("name", src.Name, source)
		applicant.Set("mailing_address", src.MailingAddress, source)
		applicant.Set("city", src.City, source)
		applicant.Set("state", src.State, source)
		applicant.Set("zip", src.Zip, source)
		applicant.Set("phone", src.Phone, source)
		applicant.Set("fax", src.Fax, source)
		applicant.Set("email", src.Email, source)
		applicant.Set("website", src.Website, source)
	}

	for _, acordType := range constants.AcordTypes {
		for _, m := range organized[acordType] {
			if !m.result.Success {
				continue
			}
			switch data := m.result.Data.(type) {
			case entity.Acord126Data:
				fill(data.Applicant, m.doc.FileName)
			case entity.Acord125Data:
				fill(data.Applicant, m.doc.FileName)
			case entity.Acord130Data:
				fill(data.Employer, m.doc.FileName)
			}
		}
	}

	for _, m := range organized[constants.Supplemental] {
		if !m.result.Success {
			continue
		}
		data, ok := m.result.Data.(entity.SupplementalData)
		if !ok || data.SubType != entity.SupplementalDriverLicense {
			continue
		}
		applicant.Set("name", data.Fields["name"], m.doc.FileName)
		applicant.Set("date_of_birth", data.Fields["date_of_birth"], m.doc.FileName)
		applicant.Set("mailing_address", data.Fields["address"], m.doc.FileName)
	}

	if len(applicant.Sources) == 0 {
		return nil
	}
	return applicant
}

func fusionConfidence(members []member) float64 {
	sum := 0.0
	successful := 0
	types := map[constants.DocumentType]bool{}
	for _, m := range members {
		if !m.result.Success {
			continue
		}
		sum += m.result.Confidence
		successful++
		types[m.doc.DocumentType] = true
	}
	if successful == 0 {
		return 0.0
	}

	bonus := float64(len(types)) * 0.02
	if bonus > 0.1 {
		bonus = 0.1
	}
	return entity.Clamp(sum/float64(successful) + bonus)
}

func (s *Strategy) buildMetadata(group *entity.DocumentGroup, members []member) entity.FusionMetadata {
	byType := make(map[string]int)
	successful := 0
	for _, m := range members {
		byType[string(m.doc.DocumentType)]++
		if m.result.Success {
			successful++
		}
	}
	return entity.FusionMetadata{
		GroupID:         group.GroupID,
		DocumentCount:   len(members),
		SuccessfulCount: successful,
		FailedCount:     len(members) - successful,
		DocumentsByType: byType,
		FusedAt:         time.Now().UTC(),
		Parallelism:     s.parallelism,
	}
}
