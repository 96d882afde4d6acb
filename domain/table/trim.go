package table

import (
	"sensorfuse/domain/core"
)

// TrimToValid cuts the table down to the target channel's valid envelope:
// rows from the target's first non-missing value through its last, both
// inclusive. Interior gaps in the target are kept; only the two ends are
// discarded. Trimming an already-trimmed table is a no-op.
//
// expectChannels is the number of input channels and guards against a
// malformed merge: a width mismatch fails loudly rather than slicing a
// corrupted table.
//
// When the target has no valid data at all there is nothing to anchor a
// trim on. That case returns the table unchanged with rangeEmpty set, so
// the caller can surface a warning instead of crashing on absent indices.
func TrimToValid(t *Table, target core.Channel, expectChannels int) (trimmed *Table, rangeEmpty bool, err error) {
	if err := t.CheckWidth(expectChannels); err != nil {
		return nil, false, err
	}
	idx, ok := t.ColumnIndex(target)
	if !ok {
		return nil, false, core.ErrColumnNotFound
	}

	first, last := -1, -1
	for i, row := range t.Rows {
		if row[idx].Present() {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return t, true, nil
	}
	return t.slice(first, last+1), false, nil
}
