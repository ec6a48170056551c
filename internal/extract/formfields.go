package extract

import (
	"strings"

	"github.com/intakehq/docintel/internal/entity"
)

// formFields returns the AcroForm name→value map the PDF reader stashed in
// document metadata, nil when the document carried no fillable fields.
func formFields(doc *entity.Document) map[string]string {
	raw, ok := doc.Metadata["form_fields"]
	if !ok {
		return nil
	}
	fields, ok := raw.(map[string]string)
	if !ok {
		return nil
	}
	return fields
}

// fieldAliases lists the form field spellings for one canonical field, in
// preference order.
type fieldAliases struct {
	field string
	names []string
}

// mapFormFields resolves raw form fields against alias lists. Exact name
// match first, then case-insensitive; the first alias that resolves wins.
func mapFormFields(raw map[string]string, aliases []fieldAliases) map[string]string {
	mapped := make(map[string]string)
	for _, fa := range aliases {
		for _, name := range fa.names {
			if v, ok := raw[name]; ok {
				mapped[fa.field] = cleanFieldValue(v)
				break
			}
			if v, ok := lookupFold(raw, name); ok {
				mapped[fa.field] = cleanFieldValue(v)
				break
			}
		}
	}
	return mapped
}

func lookupFold(raw map[string]string, name string) (string, bool) {
	for k, v := range raw {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}
