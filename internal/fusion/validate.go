package fusion

import (
	"fmt"
	"strings"

	"github.com/intakehq/docintel/internal/common"
	"github.com/intakehq/docintel/internal/entity"
)

// crossValidate checks the member extractions against each other. It never
// rejects the fusion; contradictions between documents that all claim to
// describe the same submission come back as warnings.
func crossValidate(members []member, fused entity.FusedSubmission) []string {
	var warnings []string

	names := newValueSet()
	policies := newValueSet()

	for _, m := range members {
		if !m.result.Success {
			continue
		}
		switch data := m.result.Data.(type) {
		case entity.Acord126Data:
			names.add(data.Applicant.Name)
			policies.add(data.Policy.PolicyNumber)
			if !common.DateOrdered(data.Policy.PeriodStart, data.Policy.PeriodEnd) {
				warnings = append(warnings, "acord_126: effective date is after expiration date")
			}
		case entity.Acord125Data:
			names.add(data.Applicant.Name)
			if !common.DateOrdered(data.Policy.EffectiveDate, data.Policy.ExpirationDate) {
				warnings = append(warnings, "acord_125: effective date is after expiration date")
			}
		case entity.Acord130Data:
			names.add(data.Employer.Name)
			if !common.DateOrdered(data.Coverage.EffectiveDate, data.Coverage.ExpirationDate) {
				warnings = append(warnings, "acord_130: effective date is after expiration date")
			}
		case entity.Acord140Data:
			names.add(data.InsuredName)
			if !common.DateOrdered(data.Coverage.EffectiveDate, data.Coverage.ExpirationDate) {
				warnings = append(warnings, "acord_140: effective date is after expiration date")
			}
		case entity.LossRunData:
			names.add(data.PolicyInformation.InsuredName)
			policies.add(data.PolicyInformation.PolicyNumber)
		case entity.SOVData:
			names.add(data.ScheduleInformation.InsuredName)
			policies.add(data.ScheduleInformation.PolicyNumber)
		}
	}

	if names.distinct() > 1 {
		warnings = append(warnings, fmt.Sprintf("inconsistent applicant names across documents: %s",
			strings.Join(names.values, "; ")))
	}
	if policies.distinct() > 1 {
		warnings = append(warnings, fmt.Sprintf("inconsistent policy numbers across documents: %s",
			strings.Join(policies.values, "; ")))
	}
	if fused.ClaimsHistory != nil && fused.ClaimsHistory.Duplicates > 0 {
		warnings = append(warnings, fmt.Sprintf("%d duplicate claim(s) removed during merge",
			fused.ClaimsHistory.Duplicates))
	}
	if fused.PropertySchedule != nil && fused.PropertySchedule.Duplicates > 0 {
		warnings = append(warnings, fmt.Sprintf("%d duplicate location(s) removed during merge",
			fused.PropertySchedule.Duplicates))
	}
	return warnings
}

// valueSet tracks distinct values under a normalized key while keeping the
// original spelling in first-seen order for reporting.
type valueSet struct {
	seen   map[string]bool
	values []string
}

func newValueSet() *valueSet {
	return &valueSet{seen: map[string]bool{}}
}

func (v *valueSet) add(value string) {
	key := strings.ToLower(strings.Join(strings.Fields(value), " "))
	if key == "" || v.seen[key] {
		return
	}
	v.seen[key] = true
	v.values = append(v.values, value)
}

func (v *valueSet) distinct() int {
	return len(v.values)
}
