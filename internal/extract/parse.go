package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	amountJunkRe = regexp.MustCompile(`[$,\s]`)
	digitsRe     = regexp.MustCompile(`\d+`)
)

// parseAmount converts a currency cell to a number. Dollar signs, commas,
// and whitespace are stripped; a parenthesized value is negative. Returns
// nil when nothing numeric remains.
func parseAmount(s string) *float64 {
	if s == "" {
		return nil
	}
	cleaned := amountJunkRe.ReplaceAllString(s, "")
	if strings.Contains(cleaned, "(") && strings.Contains(cleaned, ")") {
		cleaned = "-" + strings.NewReplacer("(", "", ")", "").Replace(cleaned)
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Layouts tried in order; month-first before day-first, matching how US
// carriers format loss runs.
var dateLayouts = []string{
	"1/2/2006",
	"1-2-2006",
	"2006-01-02",
	"1/2/06",
	"2/1/2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// parseDate normalizes a date cell to ISO 8601. Unparseable values are
// returned unchanged so downstream consumers still see the raw cell.
func parseDate(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return trimmed
}

// parseYear accepts only plausible construction years.
func parseYear(s string) *int {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || y < 1800 || y > 2100 {
		return nil
	}
	return &y
}

// parseInt extracts the first run of digits, for cells like "3 stories".
func parseInt(s string) *int {
	match := digitsRe.FindString(s)
	if match == "" {
		return nil
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &n
}

// PDF checkboxes come back as name objects in a handful of spellings.
var checkedValues = map[string]struct{}{
	"/yes": {}, "yes": {}, "/1": {}, "1": {}, "true": {}, "on": {}, "/on": {},
}

// normalizeCheckbox maps a raw checkbox value to a bool.
func normalizeCheckbox(v string) bool {
	_, ok := checkedValues[strings.ToLower(strings.TrimSpace(v))]
	return ok
}

// cleanFieldValue trims a form field value and drops the PDF name-object
// prefix.
func cleanFieldValue(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "/")
	return strings.TrimSpace(v)
}

// cell safely indexes a row, returning the trimmed value or "".
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// firstGroup runs a regexp against text and returns the trimmed first
// capture group, or "" when there is no match.
func firstGroup(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}
