package csv2docx

// RowStatus classifies the outcome of one input row.
type RowStatus string

// Row outcomes.
const (
	RowRendered RowStatus = "rendered"
	RowSkipped  RowStatus = "skipped"
	RowFailed   RowStatus = "failed"
)

// RowResult is the per-row outcome of a generation run.
type RowResult struct {
	Index    int    // zero-based position in the input
	Title    string // resolved row title, "" when the row had none
	Status   RowStatus
	Reason   string   // why the row was skipped or failed
	Warnings []string // non-fatal issues, e.g. skipped images
}

// Result reports a completed generation run.
type Result struct {
	Path     string // output file path, "" for validation runs
	Template string // template ID used
	Rows     []RowResult
	Warnings []string // document-level warnings, e.g. a failed merge
}

// Rendered counts rows that produced content.
func (r *Result) Rendered() int { return r.count(RowRendered) }

// Skipped counts rows with no usable fields.
func (r *Result) Skipped() int { return r.count(RowSkipped) }

// Failed counts rows that errored during rendering.
func (r *Result) Failed() int { return r.count(RowFailed) }

func (r *Result) count(status RowStatus) int {
	n := 0
	for _, row := range r.Rows {
		if row.Status == status {
			n++
		}
	}
	return n
}
