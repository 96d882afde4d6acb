package table

import (
	"fmt"
	"time"

	"sensorfuse/domain/core"
)

// Normalize replaces the raw tick key column with calendar time, applying
// the epoch conversion element-wise, and drops the tick column from the
// result. Ticks are monotonic and the conversion is order-preserving, so
// normalizing after the trim keeps the row order intact.
//
// A tick the converter rejects means the input file carried a nonsense
// stamp; that aborts the run rather than producing a fabricated date.
func Normalize(t *Table) (*Table, error) {
	if t.Normalized() {
		return t, nil
	}
	times := make([]time.Time, len(t.Ticks))
	for i, tick := range t.Ticks {
		ts, err := core.TickToTime(tick)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		times[i] = ts
	}
	return &Table{
		Columns: t.Columns,
		Times:   times,
		Rows:    t.Rows,
	}, nil
}
