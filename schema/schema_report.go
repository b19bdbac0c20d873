package schema

import (
	"slices"
	"time"
)

// RowOutcome is the result of processing one raster row.
type RowOutcome struct {
	Row      int       // 0-based row index
	Status   RowStatus //
	Resolved int       // pixels resolved from segments (blend) or refined (refine)
	Fallback int       // pixels filled from the land-cover majority
	Changed  int       // pixels whose vector changed during refinement
	Gaps     int       // annual slots left unresolved inside resolved pixels
	Err      error     // cause for failed rows
}

// RunReport aggregates the row outcomes of one run.
type RunReport struct {
	Kind     RunKind
	Lines    int
	Outcomes []RowOutcome
	Started  time.Time
	Finished time.Time
}

// Add records a row outcome.
func (r *RunReport) Add(o RowOutcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Sort orders outcomes by row index.
func (r *RunReport) Sort() {
	slices.SortFunc(r.Outcomes, func(a, b RowOutcome) int { return a.Row - b.Row })
}

// Count returns the number of rows with the given status.
func (r *RunReport) Count(status RowStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Succeeded returns the number of rows that count towards a valid output.
func (r *RunReport) Succeeded() int {
	return r.Count(RowSucceeded)
}

// Failed returns the failed outcomes in row order.
func (r *RunReport) Failed() []RowOutcome {
	var out []RowOutcome
	for _, o := range r.Outcomes {
		if o.Status == RowFailed {
			out = append(out, o)
		}
	}
	slices.SortFunc(out, func(a, b RowOutcome) int { return a.Row - b.Row })
	return out
}

// Outcome returns the outcome recorded for row, if any.
func (r *RunReport) Outcome(row int) (RowOutcome, bool) {
	for _, o := range r.Outcomes {
		if o.Row == row {
			return o, true
		}
	}
	return RowOutcome{}, false
}

// Totals sums the pixel counters over all rows.
func (r *RunReport) Totals() (resolved, fallback, changed, gaps int) {
	for _, o := range r.Outcomes {
		resolved += o.Resolved
		fallback += o.Fallback
		changed += o.Changed
		gaps += o.Gaps
	}
	return
}

// Duration returns the wall time of the run.
func (r *RunReport) Duration() time.Duration {
	if r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}
