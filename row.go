package csv2docx

import "strings"

// Recognized row fields. Any other column in the input is ignored.
const (
	FieldHeading1 = "heading_1"
	FieldHeading2 = "heading_2"
	FieldHeading3 = "heading_3"
	FieldTitle    = "title"
	FieldContent  = "content"
	FieldSource   = "source"
	FieldDate     = "date"
)

// RecognizedFields lists every field the renderer reads, in render order.
var RecognizedFields = []string{
	FieldHeading1,
	FieldHeading2,
	FieldHeading3,
	FieldTitle,
	FieldContent,
	FieldSource,
	FieldDate,
}

// Row is one input record. Keys are canonical field names; loaders are
// responsible for mapping localized headers onto them.
type Row map[string]string

// Get returns the trimmed value of a field, or "" when absent.
func (r Row) Get(field string) string {
	return strings.TrimSpace(r[field])
}

// Has reports whether a field carries a non-blank value.
func (r Row) Has(field string) bool {
	return r.Get(field) != ""
}

// renderableFields are the fields that give a row something to render.
// Source and date only annotate such a row; on their own they do not
// make one.
var renderableFields = []string{
	FieldHeading1,
	FieldHeading2,
	FieldHeading3,
	FieldTitle,
	FieldContent,
}

// Empty reports whether the row has nothing to render. A row carrying
// only source or date counts as empty and is skipped.
func (r Row) Empty() bool {
	for _, f := range renderableFields {
		if r.Has(f) {
			return false
		}
	}
	return true
}
