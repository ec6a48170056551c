package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/intakehq/docintel/constants"
	"github.com/intakehq/docintel/internal/entity"
)

// photoTextThreshold is the text length below which an image-bearing
// document is treated as a photo rather than a scanned text document.
const photoTextThreshold = 100

type supplementalType struct {
	name     string
	patterns []*regexp.Regexp
}

// Two independent pattern hits are required before a sub-type is claimed;
// a single stray "receipt" in prose is not enough.
var supplementalTypes = []supplementalType{
	{entity.SupplementalDriverLicense, compileAll(
		`(?i)driver(?:'s)?\s+license`,
		`(?i)operator(?:'s)?\s+license`,
		`(?i)license\s+(?:number|no)`,
		`(?i)dl\s+(?:#|number)`,
		`(?i)date\s+of\s+birth`,
		`(?i)expir(?:ation|es)`,
	)},
	{entity.SupplementalCertificate, compileAll(
		`(?i)certificate\s+of\s+insurance`,
		`(?i)certificate\s+holder`,
		`(?i)this\s+certificate\s+is\s+issued`,
		`(?i)acord\s+(?:25|27|28)`,
	)},
	{entity.SupplementalReceipt, compileAll(
		`(?i)receipt`,
		`(?i)invoice`,
		`(?i)total\s+amount`,
		`(?i)payment`,
	)},
}

var (
	licenseNumberRe = regexp.MustCompile(`(?i)(?:license|dl).*(?:number|no|#)[:\s]*([A-Z0-9\-]+)`)
	dobRe           = regexp.MustCompile(`(?i)(?:dob|date\s+of\s+birth|birth\s+date)[:\s]*([0-9/\-]+)`)
	expirationRe    = regexp.MustCompile(`(?i)(?:exp|expir)\w*[:\s]*([0-9/\-]+)`)
	addressLineRe   = regexp.MustCompile(`(?i)(?:address|addr)[:\s]*([^\n]+)`)
	holderNameRe    = regexp.MustCompile(`(?i)(?:name|ln)[:\s]*([A-Z\s]+)`)

	certNumberRe = regexp.MustCompile(`(?i)certificate.*(?:number|no|#)[:\s]*([A-Z0-9\-]+)`)
	certHolderRe = regexp.MustCompile(`(?i)certificate\s+holder[:\s]*([^\n]+)`)
	effectiveRe  = regexp.MustCompile(`(?i)effective[:\s]*([0-9/\-]+)`)

	receiptNumberRe = regexp.MustCompile(`(?i)(?:receipt|invoice).*(?:number|no|#)[:\s]*([A-Z0-9\-]+)`)
	receiptDateRe   = regexp.MustCompile(`(?i)date[:\s]*([0-9/\-]+)`)
	receiptTotalRe  = regexp.MustCompile(`(?i)total[:\s]*\$?([0-9,\.]+)`)
	vendorLineRe    = regexp.MustCompile(`(?m)^([A-Z][^\n]+)$`)

	anyDateRe = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)
)

// SupplementalExtractor handles supporting documents: licenses,
// certificates, photos, receipts, and whatever else rode along with the
// submission. It detects a sub-type from text patterns, then extracts the
// fields that sub-type carries.
type SupplementalExtractor struct{}

func NewSupplementalExtractor() *SupplementalExtractor { return &SupplementalExtractor{} }

func (e *SupplementalExtractor) Name() string { return "supplemental" }

func (e *SupplementalExtractor) SupportedTypes() []constants.DocumentType {
	return []constants.DocumentType{constants.Supplemental}
}

func (e *SupplementalExtractor) CanExtract(doc *entity.Document) bool {
	return doc != nil && doc.DocumentType == constants.Supplemental
}

func (e *SupplementalExtractor) Extract(_ context.Context, doc *entity.Document) entity.ExtractionResult {
	if doc == nil || doc.DocumentType != constants.Supplemental {
		return entity.Failed(fmt.Sprintf("expected %s document", constants.Supplemental))
	}

	subType := detectSupplementalType(doc)

	var fields map[string]string
	switch subType {
	case entity.SupplementalDriverLicense:
		fields = extractDriverLicense(doc.RawText)
	case entity.SupplementalCertificate:
		fields = extractCertificate(doc.RawText)
	case entity.SupplementalPhoto:
		fields = extractPhoto(doc)
	case entity.SupplementalReceipt:
		fields = extractReceipt(doc.RawText)
	default:
		fields = extractGenericSupplemental(doc)
	}

	data := entity.SupplementalData{
		SubType:    subType,
		Fields:     fields,
		TextLength: len(doc.RawText),
		ImageCount: len(doc.Images),
	}

	var warnings []string
	if len(fields) == 0 {
		warnings = append(warnings, fmt.Sprintf("limited data extracted from %s", subType))
	}

	result := entity.ExtractionResult{
		Success:    true,
		Data:       data,
		Confidence: supplementalConfidence(fields, subType),
		Warnings:   warnings,
	}
	result.SetMeta("supplemental_type", subType)
	return result
}

func detectSupplementalType(doc *entity.Document) string {
	for _, st := range supplementalTypes {
		matches := 0
		for _, re := range st.patterns {
			if re.MatchString(doc.RawText) {
				matches++
			}
		}
		if matches >= 2 {
			return st.name
		}
	}
	if len(doc.Images) > 0 && len(doc.RawText) < photoTextThreshold {
		return entity.SupplementalPhoto
	}
	return entity.SupplementalGeneric
}

func extractDriverLicense(text string) map[string]string {
	return nonEmpty(map[string]string{
		"license_number":  firstGroup(licenseNumberRe, text),
		"name":            firstGroup(holderNameRe, text),
		"date_of_birth":   firstGroup(dobRe, text),
		"expiration_date": firstGroup(expirationRe, text),
		"address":         firstGroup(addressLineRe, text),
	})
}

func extractCertificate(text string) map[string]string {
	return nonEmpty(map[string]string{
		"certificate_number": firstGroup(certNumberRe, text),
		"insured_name":       firstGroup(insuredNameRe, text),
		"certificate_holder": firstGroup(certHolderRe, text),
		"effective_date":     firstGroup(effectiveRe, text),
		"expiration_date":    firstGroup(expirationRe, text),
	})
}

func extractPhoto(doc *entity.Document) map[string]string {
	fields := map[string]string{}
	if desc := strings.TrimSpace(doc.RawText); desc != "" {
		fields["description"] = desc
	}
	if len(doc.Images) > 0 {
		img := doc.Images[0]
		if img.Format != "" {
			fields["format"] = img.Format
		}
		if img.Width > 0 && img.Height > 0 {
			fields["dimensions"] = fmt.Sprintf("%dx%d", img.Width, img.Height)
		}
	}
	return fields
}

func extractReceipt(text string) map[string]string {
	return nonEmpty(map[string]string{
		"receipt_number": firstGroup(receiptNumberRe, text),
		"date":           firstGroup(receiptDateRe, text),
		"total_amount":   firstGroup(receiptTotalRe, text),
		"vendor":         firstGroup(vendorLineRe, text),
	})
}

func extractGenericSupplemental(doc *entity.Document) map[string]string {
	fields := map[string]string{}
	if dates := anyDateRe.FindAllString(doc.RawText, -1); len(dates) > 0 {
		fields["dates_found"] = strings.Join(dates, ", ")
	}
	return fields
}

func nonEmpty(fields map[string]string) map[string]string {
	for k, v := range fields {
		if v == "" {
			delete(fields, k)
		}
	}
	return fields
}

// Confidence rewards a recognized sub-type and each extracted field, up to
// a cap.
func supplementalConfidence(fields map[string]string, subType string) float64 {
	confidence := 0.6
	if subType != entity.SupplementalGeneric {
		confidence += 0.1
	}
	fieldBonus := float64(len(fields)) * 0.05
	if fieldBonus > 0.2 {
		fieldBonus = 0.2
	}
	return entity.Clamp(confidence + fieldBonus)
}
