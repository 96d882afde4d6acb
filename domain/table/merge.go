package table

import (
	"sort"

	"sensorfuse/domain/core"
	"sensorfuse/domain/series"
)

// Merge outer-joins N channel series on the tick key into one wide table.
//
// The join is done in a single pass over all series with a map keyed on the
// tick stamp, which is equivalent to the pairwise left-to-right outer join
// (the tick is the sole join key, so the join is associative) but linear in
// the total sample count instead of quadratic in the channel count.
//
// No row is ever dropped or invented here: the result's row set is exactly
// the union of the input tick sets, and a channel without a sample at a
// given tick holds a missing cell. A single input series merges to itself,
// sorted.
func Merge(all []*series.Series) (*Table, error) {
	if len(all) == 0 {
		return nil, core.ErrNoSeries
	}

	columns := make([]core.Channel, len(all))
	seen := make(map[core.Channel]struct{}, len(all))
	for i, s := range all {
		if _, dup := seen[s.Channel]; dup {
			return nil, core.NewCollisionError(s.Channel.String())
		}
		seen[s.Channel] = struct{}{}
		columns[i] = s.Channel
	}

	// Accumulate cells per distinct tick. A later sample for the same
	// channel at the same tick overwrites the earlier one, mirroring the
	// last-write-wins behavior of re-keyed sensor dumps.
	rows := make(map[int64][]core.Value)
	for col, s := range all {
		for _, p := range s.Points {
			row, ok := rows[p.Tick]
			if !ok {
				row = make([]core.Value, len(all))
				rows[p.Tick] = row
			}
			row[col] = p.Value
		}
	}

	ticks := make([]int64, 0, len(rows))
	for tick := range rows {
		ticks = append(ticks, tick)
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i] < ticks[j] })

	out := &Table{
		Columns: columns,
		Ticks:   ticks,
		Rows:    make([][]core.Value, len(ticks)),
	}
	for i, tick := range ticks {
		out.Rows[i] = rows[tick]
	}
	return out, nil
}
