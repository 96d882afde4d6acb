package app

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensorfuse/adapters/csvfile"
	"sensorfuse/domain/core"
	"sensorfuse/domain/series"
	"sensorfuse/internal"
	"sensorfuse/internal/testkit"
)

func line(sec int64, val string) string {
	return fmt.Sprintf("%d,%s\n", core.UnixEpochTicks+sec*core.TicksPerSecond, val)
}

func writeChannel(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func runPipeline(t *testing.T, inDir, outDir string, cfg Config) (*Result, error) {
	t.Helper()
	source := csvfile.NewSource(inDir, nil)
	sink := csvfile.NewSink(outDir, false)
	svc := NewService(source, internal.NewLogger(internal.LogLevelError), sink)
	return svc.Run(context.Background(), cfg)
}

// Scenario A: two channels with interleaved timestamps, target fully valid.
func TestRun_TwoChannelAlignment(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()
	writeChannel(t, inDir, "A.csv", line(0, "1")+line(10, "2")+line(20, "3"))
	writeChannel(t, inDir, "B.csv", line(5, "10")+line(15, "20"))

	res, err := runPipeline(t, inDir, outDir, Config{
		Target:    "A",
		Intervals: []time.Duration{10 * time.Second},
	})
	require.NoError(t, err)

	// Outer join of {0,10,20} and {5,15}: five rows, none trimmed since
	// A spans the whole range.
	assert.Equal(t, 5, res.Aligned.NumRows())
	assert.Empty(t, res.Warnings)

	require.Len(t, res.Aggregates, 1)
	agg := res.Aggregates[0].Table
	// Buckets [0,10) [10,20) [20,30): three rows.
	require.Equal(t, 3, agg.NumRows())

	// Bucket 1 holds A=1 alone: mean is the value, std missing.
	aMeanIdx, ok := agg.ColumnIndex("A_mean")
	require.True(t, ok)
	aStdIdx, ok := agg.ColumnIndex("A_std")
	require.True(t, ok)
	mean, present := agg.Rows[0][aMeanIdx].Float()
	require.True(t, present)
	assert.Equal(t, 1.0, mean)
	assert.True(t, agg.Rows[0][aStdIdx].Missing())

	// B contributed only to buckets 1 and 2; bucket 3 is missing.
	bMeanIdx, ok := agg.ColumnIndex("B_mean")
	require.True(t, ok)
	assert.True(t, agg.Rows[2][bMeanIdx].Missing())

	// Output files landed.
	for _, name := range []string{"aligned.csv", "aggr_10s.csv"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}
}

// Scenario B: the target channel has no valid data anywhere.
func TestRun_EmptyTargetRangeWarnsInsteadOfFailing(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()
	writeChannel(t, inDir, "target.csv", line(0, "")+line(10, ""))
	writeChannel(t, inDir, "other.csv", line(0, "1")+line(20, "2"))

	res, err := runPipeline(t, inDir, outDir, Config{
		Target:    "target",
		Intervals: []time.Duration{time.Minute},
	})
	require.NoError(t, err)

	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "target")
	// Untrimmed: the union of {0,10} and {0,20} is three rows.
	assert.Equal(t, 3, res.Aligned.NumRows())
}

// Scenario C: two input files deriving the same channel name.
func TestRun_ChannelNameCollisionAborts(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()
	writeChannel(t, inDir, "speed.csv", line(0, "1"))

	// speed.csv.gz collapses to the same channel name.
	f, err := os.Create(filepath.Join(inDir, "speed.csv.gz"))
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(line(5, "2")))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	_, err = runPipeline(t, inDir, outDir, Config{
		Target:    "speed",
		Intervals: []time.Duration{time.Minute},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrChannelCollision)

	// Fail fast: nothing was written.
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_AlignedOutputContents(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()
	writeChannel(t, inDir, "flow.csv", line(0, "1.5")+line(60, "2.5"))

	_, err := runPipeline(t, inDir, outDir, Config{
		Target:    "flow",
		Intervals: []time.Duration{time.Minute},
	})
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(outDir, "aligned.csv"))
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, recs, 3)
	assert.Equal(t, []string{"datetime", "flow"}, recs[0])
	assert.Equal(t, []string{"1970-01-01 00:00:00", "1.5"}, recs[1])
	assert.Equal(t, []string{"1970-01-01 00:01:00", "2.5"}, recs[2])
}

func TestRun_MultipleIntervalsAreIndependent(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()
	writeChannel(t, inDir, "a.csv", line(0, "1")+line(200, "2")+line(700, "3"))

	res, err := runPipeline(t, inDir, outDir, Config{
		Target:    "a",
		Intervals: []time.Duration{3 * time.Minute, 10 * time.Minute},
		ShowStats: true,
	})
	require.NoError(t, err)
	require.Len(t, res.Aggregates, 2)

	assert.Equal(t, 3*time.Minute, res.Aggregates[0].Interval)
	assert.Equal(t, 10*time.Minute, res.Aggregates[1].Interval)
	assert.Equal(t, 4, res.Aggregates[0].Table.NumRows()) // 700s spans four 3min buckets
	assert.Equal(t, 2, res.Aggregates[1].Table.NumRows())

	require.NotNil(t, res.Summary)
	require.NotNil(t, res.Aggregates[0].Summary)

	for _, name := range []string{"aggr_3min.csv", "aggr_10min.csv"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}
}

func TestRun_SyntheticRecordings(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()

	gen := testkit.NewRecordingGenerator(testkit.DefaultGeneratorConfig())
	written, err := gen.WriteCSVDir(inDir)
	require.NoError(t, err)
	require.NotEmpty(t, written)

	res, err := runPipeline(t, inDir, outDir, Config{
		Target:    written[0].Channel,
		Intervals: []time.Duration{time.Minute},
	})
	require.NoError(t, err)

	// The aligned table within the target's valid envelope can never hold
	// more rows than the distinct timestamps across all recordings.
	distinct := make(map[int64]struct{})
	for _, s := range written {
		for _, tk := range s.Ticks() {
			distinct[tk] = struct{}{}
		}
	}
	assert.LessOrEqual(t, res.Aligned.NumRows(), len(distinct))
	assert.NotZero(t, res.Aligned.NumRows())

	// Aggregate rows are monotonically non-decreasing in time.
	agg := res.Aggregates[0].Table
	for i := 1; i < agg.NumRows(); i++ {
		assert.True(t, agg.Times[i].After(agg.Times[i-1]))
	}
}

func TestFingerprint_DeterministicAndDataSensitive(t *testing.T) {
	mk := func(v float64) []*series.Series {
		return []*series.Series{series.New("a", []series.Point{
			{Tick: core.UnixEpochTicks, Value: core.Num(v)},
			{Tick: core.UnixEpochTicks + core.TicksPerSecond, Value: core.None()},
		})}
	}

	assert.Equal(t, Fingerprint(mk(1)), Fingerprint(mk(1)))
	assert.NotEqual(t, Fingerprint(mk(1)), Fingerprint(mk(2)))
}

func TestManifest_RoundTrip(t *testing.T) {
	inDir, outDir := t.TempDir(), t.TempDir()
	writeChannel(t, inDir, "a.csv", line(0, "1")+line(10, "2"))

	res, err := runPipeline(t, inDir, outDir, Config{
		Target:    "a",
		Intervals: []time.Duration{time.Minute},
	})
	require.NoError(t, err)

	path := filepath.Join(outDir, "run_manifest.json")
	require.NoError(t, NewManifest(res, "a").Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var m Manifest
	require.NoError(t, json.Unmarshal(data, &m))

	assert.Equal(t, res.RunID, m.RunID)
	assert.Equal(t, res.Fingerprint, m.Fingerprint)
	assert.Equal(t, []core.Channel{"a"}, m.Channels)
	assert.Equal(t, 2, m.AlignedRows)
	assert.Equal(t, map[string]int{"1min": 1}, m.Aggregates)
}
