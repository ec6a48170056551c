package extract

import (
	"regexp"
	"strings"
)

// columnPattern pairs a canonical field name with the header spellings that
// identify it, most specific first.
type columnPattern struct {
	field    string
	patterns []*regexp.Regexp
}

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(p)
	}
	return res
}

// mapColumns resolves table headers to canonical fields. For each field the
// leftmost header matching any of its patterns wins, and a field is never
// remapped.
func mapColumns(headers []string, patterns []columnPattern) map[string]int {
	lower := make([]string, len(headers))
	for i, h := range headers {
		lower[i] = strings.ToLower(h)
	}

	columnMap := make(map[string]int)
	for _, cp := range patterns {
	headers:
		for idx, header := range lower {
			for _, re := range cp.patterns {
				if re.MatchString(header) {
					columnMap[cp.field] = idx
					break headers
				}
			}
		}
	}
	return columnMap
}

// pick reads the mapped cell for a field, "" when the field is unmapped or
// the row is too short.
func pick(row []string, columnMap map[string]int, field string) string {
	idx, ok := columnMap[field]
	if !ok {
		return ""
	}
	return cell(row, idx)
}
