package extract

import (
	"context"
	"fmt"
	"regexp"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/entity"
)

var lossRunColumns = []columnPattern{
	{"claim_number", compileAll(
		`claim.*(number|no|id|#)`,
		`(claim|file).*#`,
	)},
	{"date_of_loss", compileAll(
		`(date|dt).*(loss|accident|incident|occurrence)`,
		`loss.*date`,
		`accident.*date`,
	)},
	{"claim_amount", compileAll(
		`(claim|loss).*amount`,
		`(paid|incurred|total).*amount`,
		`amount.*(paid|incurred)`,
	)},
	{"paid", compileAll(
		`(amount.*)?paid`,
		`total.*paid`,
	)},
	{"incurred", compileAll(
		`(amount.*)?incurred`,
		`total.*incurred`,
	)},
	{"reserve", compileAll(
		`(case.*)?reserve`,
		`outstanding`,
	)},
	{"status", compileAll(
		`claim.*status`,
		`status`,
	)},
	{"claimant", compileAll(
		`claimant.*name`,
		`claimant`,
	)},
	{"description", compileAll(
		`(description|desc).*(loss|claim)`,
		`loss.*(description|desc)`,
		`accident.*description`,
	)},
	{"policy_number", compileAll(
		`policy.*(number|no|#)`,
	)},
	{"date_reported", compileAll(
		`(date|dt).*(report|notif)`,
		`report.*date`,
	)},
}

var (
	policyNumberRe = regexp.MustCompile(`(?i)policy.*(?:number|no|#)[:\s]+([A-Z0-9\-]+)`)
	insuredNameRe  = regexp.MustCompile(`(?i)(?:named\s+)?insured[:\s]+([^\n]+)`)
	policyPeriodRe = regexp.MustCompile(`(?i)policy\s+period[:\s]+([0-9/\-]+)\s+to\s+([0-9/\-]+)`)
)

// LossRunExtractor reads claim history tables. Each mapped row becomes a
// Claim; a row without an identifier (claim number or date of loss) and at
// least one amount is discarded.
type LossRunExtractor struct{}

func NewLossRunExtractor() *LossRunExtractor { return &LossRunExtractor{} }

func (e *LossRunExtractor) Name() string { return "loss_run" }

func (e *LossRunExtractor) SupportedTypes() []constants.DocumentType {
	return []constants.DocumentType{constants.LossRun}
}

func (e *LossRunExtractor) CanExtract(doc *entity.Document) bool {
	return doc != nil &&
		doc.DocumentType == constants.LossRun &&
		(len(doc.Tables) > 0 || doc.RawText != "")
}

func (e *LossRunExtractor) Extract(_ context.Context, doc *entity.Document) entity.ExtractionResult {
	if doc == nil || doc.DocumentType != constants.LossRun {
		return entity.Failed(fmt.Sprintf("expected %s document", constants.LossRun))
	}
	if len(doc.Tables) == 0 {
		return entity.Failed("no claim tables found")
	}

	var (
		claims   []entity.Claim
		warnings []string
	)
	for tableIdx, table := range doc.Tables {
		columnMap := mapColumns(table.Headers, lossRunColumns)
		if len(columnMap) == 0 {
			warnings = append(warnings, fmt.Sprintf("table %d: no claim columns recognized", tableIdx))
			continue
		}
		for rowIdx, row := range table.Rows {
			claim, ok := claimFromRow(row, columnMap)
			if !ok {
				continue
			}
			claim.Source = &entity.RowRef{TableIndex: tableIdx, RowIndex: rowIdx}
			claims = append(claims, claim)
		}
	}

	if len(claims) == 0 {
		return entity.Failed("no valid claims found in tables")
	}

	data := entity.LossRunData{
		PolicyInformation: extractPolicyInfo(doc.RawText),
		Claims:            claims,
		ClaimCount:        len(claims),
		Totals:            claimTotals(claims),
	}
	return entity.ExtractionResult{
		Success:    true,
		Data:       data,
		Confidence: lossRunConfidence(claims, warnings),
		Warnings:   warnings,
	}
}

// claimFromRow maps one table row to a Claim. Valid rows carry an
// identifier and at least one amount.
func claimFromRow(row []string, columnMap map[string]int) (entity.Claim, bool) {
	claim := entity.Claim{
		ClaimNumber:  pick(row, columnMap, "claim_number"),
		DateOfLoss:   parseDate(pick(row, columnMap, "date_of_loss")),
		DateReported: parseDate(pick(row, columnMap, "date_reported")),
		Claimant:     pick(row, columnMap, "claimant"),
		Status:       pick(row, columnMap, "status"),
		Description:  pick(row, columnMap, "description"),
		PolicyNumber: pick(row, columnMap, "policy_number"),
		ClaimAmount:  parseAmount(pick(row, columnMap, "claim_amount")),
		Paid:         parseAmount(pick(row, columnMap, "paid")),
		Incurred:     parseAmount(pick(row, columnMap, "incurred")),
		Reserve:      parseAmount(pick(row, columnMap, "reserve")),
	}

	hasIdentifier := claim.ClaimNumber != "" || claim.DateOfLoss != ""
	hasAmount := claim.ClaimAmount != nil || claim.Paid != nil ||
		claim.Incurred != nil || claim.Reserve != nil
	return claim, hasIdentifier && hasAmount
}

func claimTotals(claims []entity.Claim) entity.ClaimTotals {
	totals := entity.ClaimTotals{TotalClaims: len(claims)}
	for _, c := range claims {
		if c.Paid != nil {
			totals.TotalPaid += *c.Paid
		}
		if c.Incurred != nil {
			totals.TotalIncurred += *c.Incurred
		}
		if c.Reserve != nil {
			totals.TotalReserve += *c.Reserve
		}
	}
	return totals
}

// extractPolicyInfo scans the document prose for policy-level context.
func extractPolicyInfo(text string) entity.PolicyInfo {
	info := entity.PolicyInfo{
		PolicyNumber: firstGroup(policyNumberRe, text),
		InsuredName:  firstGroup(insuredNameRe, text),
	}
	if m := policyPeriodRe.FindStringSubmatch(text); len(m) == 3 {
		info.PeriodStart = parseDate(m[1])
		info.PeriodEnd = parseDate(m[2])
	}
	return info
}

// Confidence starts at 0.7, rewards volume and per-claim completeness, and
// pays for every warning.
func lossRunConfidence(claims []entity.Claim, warnings []string) float64 {
	if len(claims) == 0 {
		return 0.0
	}
	confidence := 0.7
	if len(claims) >= 3 {
		confidence += 0.1
	}
	complete := 0
	for _, c := range claims {
		if c.ClaimNumber != "" && c.DateOfLoss != "" && c.Paid != nil {
			complete++
		}
	}
	confidence += float64(complete) / float64(len(claims)) * 0.15
	confidence -= float64(len(warnings)) * 0.05
	return entity.Clamp(confidence)
}
