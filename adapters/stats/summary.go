package stats

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"

	"sensorfuse/domain/core"
	"sensorfuse/domain/table"
)

// ColumnSummary is one column's diagnostic line.
type ColumnSummary struct {
	Channel         core.Channel
	MissingFraction float64
	Mean            core.Value
	Std             core.Value
}

// Report captures per-column diagnostics for a table. It is read-only
// output: producing it never touches the pipeline's data artifacts.
type Report struct {
	Rows           int
	Columns        []ColumnSummary
	IncludeMoments bool
}

// Summarize reports the missing-value fraction per column and, when
// withMoments is set, each column's mean and sample standard deviation.
// Callers pass withMoments=false for tables that are already aggregates,
// since averaging an aggregate is not a meaningful default.
//
// Degenerate input (no rows, or a column with nothing present) degrades to
// missing entries in the report rather than an error.
func Summarize(t *table.Table, withMoments bool) *Report {
	r := &Report{Rows: t.NumRows(), IncludeMoments: withMoments}
	for col, ch := range t.Columns {
		cs := ColumnSummary{Channel: ch, Mean: core.None(), Std: core.None()}

		var present []float64
		for _, row := range t.Rows {
			if f, ok := row[col].Float(); ok {
				present = append(present, f)
			}
		}
		if t.NumRows() > 0 {
			cs.MissingFraction = float64(t.NumRows()-len(present)) / float64(t.NumRows())
		}

		if withMoments && len(present) > 0 {
			mean, std := stat.MeanStdDev(present, nil)
			cs.Mean = core.Num(mean)
			if len(present) > 1 {
				cs.Std = core.Num(std)
			}
		}
		r.Columns = append(r.Columns, cs)
	}
	return r
}

// Format renders the report for log or terminal output.
func (r *Report) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "rows: %d\n", r.Rows)
	for _, c := range r.Columns {
		fmt.Fprintf(&b, "  %-28s missing %5.1f%%", c.Channel, c.MissingFraction*100)
		if r.IncludeMoments {
			fmt.Fprintf(&b, "  mean %-12s std %-12s", orNA(c.Mean), orNA(c.Std))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func orNA(v core.Value) string {
	if v.Missing() {
		return "n/a"
	}
	return v.String()
}
