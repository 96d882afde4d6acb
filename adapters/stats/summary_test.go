package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensorfuse/domain/core"
	"sensorfuse/domain/table"
)

func TestSummarize_MissingFractions(t *testing.T) {
	in := &table.Table{
		Columns: []core.Channel{"a", "b"},
		Times:   []time.Time{t0, t0.Add(time.Second), t0.Add(2 * time.Second), t0.Add(3 * time.Second)},
		Rows: [][]core.Value{
			{core.Num(1), core.None()},
			{core.None(), core.None()},
			{core.Num(3), core.None()},
			{core.Num(4), core.Num(8)},
		},
	}

	r := Summarize(in, false)
	require.Len(t, r.Columns, 2)
	assert.Equal(t, 4, r.Rows)
	assert.InDelta(t, 0.25, r.Columns[0].MissingFraction, 1e-12)
	assert.InDelta(t, 0.75, r.Columns[1].MissingFraction, 1e-12)

	// Moments were not requested.
	assert.True(t, r.Columns[0].Mean.Missing())
	assert.True(t, r.Columns[0].Std.Missing())
}

func TestSummarize_WithMoments(t *testing.T) {
	in := normTable("a", map[int]core.Value{0: core.Num(2), 1: core.Num(4), 2: core.Num(6)})

	r := Summarize(in, true)
	require.Len(t, r.Columns, 1)

	mean, ok := r.Columns[0].Mean.Float()
	require.True(t, ok)
	assert.InDelta(t, 4.0, mean, 1e-12)

	std, ok := r.Columns[0].Std.Float()
	require.True(t, ok)
	assert.InDelta(t, 2.0, std, 1e-12)
}

func TestSummarize_DegenerateInputsDegrade(t *testing.T) {
	// No rows at all: empty report, no panic, no error.
	empty := &table.Table{Columns: []core.Channel{"a"}, Times: []time.Time{}, Rows: [][]core.Value{}}
	r := Summarize(empty, true)
	assert.Zero(t, r.Rows)
	require.Len(t, r.Columns, 1)
	assert.Zero(t, r.Columns[0].MissingFraction)
	assert.True(t, r.Columns[0].Mean.Missing())

	// All-missing column: fraction 1, moments stay missing.
	allMissing := normTable("a", map[int]core.Value{0: core.None(), 1: core.None()})
	r = Summarize(allMissing, true)
	assert.InDelta(t, 1.0, r.Columns[0].MissingFraction, 1e-12)
	assert.True(t, r.Columns[0].Mean.Missing())
	assert.True(t, r.Columns[0].Std.Missing())

	// Single present value: defined mean, missing sample std.
	single := normTable("a", map[int]core.Value{0: core.Num(5)})
	r = Summarize(single, true)
	mean, ok := r.Columns[0].Mean.Float()
	require.True(t, ok)
	assert.Equal(t, 5.0, mean)
	assert.True(t, r.Columns[0].Std.Missing())
}

func TestReportFormat(t *testing.T) {
	in := normTable("fuelVolumeFlowRate", map[int]core.Value{0: core.Num(1), 1: core.None()})
	out := Summarize(in, true).Format()
	assert.Contains(t, out, "fuelVolumeFlowRate")
	assert.Contains(t, out, "50.0%")
}
