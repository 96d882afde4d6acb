// Package testkit generates synthetic sensor recordings for tests. The
// generator is seeded, so fixtures are reproducible across runs.
package testkit

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"sensorfuse/domain/core"
	"sensorfuse/domain/series"
)

// GeneratorConfig configures the synthetic recording generator.
type GeneratorConfig struct {
	ChannelCount      int
	SamplesPerChannel int
	SampleInterval    time.Duration
	JitterFraction    float64 // per-sample timestamp jitter, as a fraction of the interval
	DropoutRate       float64 // probability that a sample's value is missing
	StartTime         time.Time
	Seed              int64
}

// DefaultGeneratorConfig returns defaults that produce a few minutes of
// irregular multi-channel data.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		ChannelCount:      3,
		SamplesPerChannel: 120,
		SampleInterval:    2 * time.Second,
		JitterFraction:    0.4,
		DropoutRate:       0.05,
		StartTime:         time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Seed:              42,
	}
}

// RecordingGenerator produces random-walk channel recordings.
type RecordingGenerator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

// NewRecordingGenerator creates a generator with the given configuration.
func NewRecordingGenerator(config GeneratorConfig) *RecordingGenerator {
	return &RecordingGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// GenerateSeries builds one random-walk series per channel. Each channel
// gets its own phase offset so timestamps rarely coincide across channels,
// the way independent recorders behave.
func (g *RecordingGenerator) GenerateSeries() []*series.Series {
	all := make([]*series.Series, 0, g.config.ChannelCount)
	for c := 0; c < g.config.ChannelCount; c++ {
		name := core.Channel(fmt.Sprintf("channel_%02d", c+1))
		phase := time.Duration(g.rng.Int63n(int64(g.config.SampleInterval)))

		points := make([]series.Point, 0, g.config.SamplesPerChannel)
		level := 100 * g.rng.Float64()
		for i := 0; i < g.config.SamplesPerChannel; i++ {
			at := g.config.StartTime.Add(phase + time.Duration(i)*g.config.SampleInterval)
			jitter := (g.rng.Float64()*2 - 1) * g.config.JitterFraction
			at = at.Add(time.Duration(jitter * float64(g.config.SampleInterval)))

			level += g.rng.NormFloat64()
			value := core.Num(level)
			if g.rng.Float64() < g.config.DropoutRate {
				value = core.None()
			}
			points = append(points, series.Point{Tick: core.TimeToTick(at), Value: value})
		}
		all = append(all, series.New(name, points))
	}
	return all
}

// WriteCSVDir renders the generated series as one CSV recording per channel,
// in the on-disk layout the loader expects.
func (g *RecordingGenerator) WriteCSVDir(dir string) ([]*series.Series, error) {
	all := g.GenerateSeries()
	for _, s := range all {
		path := filepath.Join(dir, string(s.Channel)+".csv")
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		for _, p := range s.Points {
			line := strconv.FormatInt(p.Tick, 10) + "," + p.Value.String() + "\n"
			if _, err := f.WriteString(line); err != nil {
				f.Close()
				return nil, err
			}
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
	}
	return all, nil
}
