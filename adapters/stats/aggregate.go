// Package stats computes the fixed-interval aggregates and the diagnostic
// column summaries. Both read the normalized table and never mutate it, so
// aggregations for different interval widths can run concurrently.
package stats

import (
	"time"

	"github.com/montanaflynn/stats"

	"sensorfuse/domain/core"
	"sensorfuse/domain/table"
)

// Resample partitions the normalized table into consecutive left-closed
// buckets of the given width and emits one row per bucket with a mean and
// sample standard deviation column per channel. The bucket grid starts at
// the first timestamp truncated to a width boundary and covers the full
// time range with no gaps or overlaps, so every input row lands in exactly
// one bucket.
//
// A bucket a channel contributed nothing to yields missing mean and std:
// "no readings" must stay distinguishable from "readings averaging zero".
// A single contribution yields the value as mean and a missing std, per the
// N-1 sample convention.
func Resample(t *table.Table, width time.Duration) (*table.Table, error) {
	if width <= 0 {
		return nil, core.ErrBadInterval
	}
	if !t.Normalized() {
		return nil, core.ErrSchemaMismatch
	}

	out := &table.Table{
		Columns: aggregateColumns(t.Columns),
		Times:   []time.Time{},
		Rows:    [][]core.Value{},
	}
	if t.NumRows() == 0 {
		return out, nil
	}

	bucketStart := t.Times[0].Truncate(width)
	last := t.Times[t.NumRows()-1]

	row := 0
	for !bucketStart.After(last) {
		bucketEnd := bucketStart.Add(width)

		// Rows are time-ordered, so each bucket consumes a contiguous
		// run of the input.
		from := row
		for row < t.NumRows() && t.Times[row].Before(bucketEnd) {
			row++
		}

		cells := make([]core.Value, 0, len(out.Columns))
		for col := range t.Columns {
			mean, std := bucketMoments(t.Rows[from:row], col)
			cells = append(cells, mean, std)
		}
		out.Times = append(out.Times, bucketStart)
		out.Rows = append(out.Rows, cells)

		bucketStart = bucketEnd
	}
	return out, nil
}

// bucketMoments computes the mean and sample standard deviation of one
// channel's present values within a bucket.
func bucketMoments(rows [][]core.Value, col int) (mean, std core.Value) {
	var vals []float64
	for _, r := range rows {
		if f, ok := r[col].Float(); ok {
			vals = append(vals, f)
		}
	}
	switch len(vals) {
	case 0:
		return core.None(), core.None()
	case 1:
		return core.Num(vals[0]), core.None()
	}

	m, err := stats.Mean(vals)
	if err != nil {
		return core.None(), core.None()
	}
	sd, err := stats.StandardDeviationSample(vals)
	if err != nil {
		return core.Num(m), core.None()
	}
	return core.Num(m), core.Num(sd)
}

// aggregateColumns doubles each channel into its mean/std column pair.
func aggregateColumns(channels []core.Channel) []core.Channel {
	out := make([]core.Channel, 0, 2*len(channels))
	for _, ch := range channels {
		out = append(out, ch+"_mean", ch+"_std")
	}
	return out
}
