// Package table implements the unified timeline: a single wide table with
// one key column (raw ticks before normalization, calendar time after) and
// one value column per sensor channel. The three operations that give the
// pipeline its shape live here: the N-way outer-join merge, the valid-range
// trim, and the tick-to-calendar normalization.
package table

import (
	"time"

	"sensorfuse/domain/core"
)

// Table is the merged timeline. Exactly one of Ticks/Times is non-nil:
// Ticks before normalization, Times after. Rows is row-major with
// len(Rows[i]) == len(Columns) for every i.
type Table struct {
	Columns []core.Channel
	Ticks   []int64
	Times   []time.Time
	Rows    [][]core.Value
}

// NumRows returns the number of timeline rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// NumCols returns the number of channel columns (the key column excluded).
func (t *Table) NumCols() int {
	return len(t.Columns)
}

// Normalized reports whether the key column carries calendar time.
func (t *Table) Normalized() bool {
	return t.Times != nil
}

// ColumnIndex returns the position of a channel column.
func (t *Table) ColumnIndex(ch core.Channel) (int, bool) {
	for i, c := range t.Columns {
		if c == ch {
			return i, true
		}
	}
	return -1, false
}

// Column returns one channel's cells in row order.
func (t *Table) Column(ch core.Channel) ([]core.Value, error) {
	idx, ok := t.ColumnIndex(ch)
	if !ok {
		return nil, core.ErrColumnNotFound
	}
	out := make([]core.Value, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// CheckWidth verifies the table carries exactly the expected number of
// channel columns. The full table is channels+1 wide counting the key;
// a divergence means a malformed merge upstream and is assertion-class.
func (t *Table) CheckWidth(channels int) error {
	if len(t.Columns) != channels {
		return core.NewSchemaError(channels+1, len(t.Columns)+1)
	}
	return nil
}

// slice returns the half-open row range [from, to) as a new table sharing
// the underlying cell slices. Row indices are renumbered implicitly.
func (t *Table) slice(from, to int) *Table {
	out := &Table{Columns: t.Columns, Rows: t.Rows[from:to]}
	if t.Ticks != nil {
		out.Ticks = t.Ticks[from:to]
	}
	if t.Times != nil {
		out.Times = t.Times[from:to]
	}
	return out
}
