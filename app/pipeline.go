// Package app wires the pipeline stages into one explicit entry point.
// Nothing runs at import time: a caller builds a Service from adapters,
// passes a Config, and gets a Result back or an error that aborted the run
// before any output was written.
package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"sensorfuse/adapters/stats"
	"sensorfuse/domain/core"
	"sensorfuse/domain/table"
	"sensorfuse/internal"
	"sensorfuse/ports"
)

// Config carries one run's parameters.
type Config struct {
	// Target anchors the valid-range trim.
	Target core.Channel

	// Intervals are the aggregation widths; one output table each.
	Intervals []time.Duration

	// ShowStats attaches per-column diagnostics to the result and logs
	// them.
	ShowStats bool
}

// Aggregate is one interval's output.
type Aggregate struct {
	Interval time.Duration
	Table    *table.Table
	Summary  *stats.Report
}

// Result is everything a run produced.
type Result struct {
	RunID       core.RunID
	Fingerprint string
	Channels    []core.Channel
	Aligned     *table.Table
	Aggregates  []Aggregate
	Summary     *stats.Report
	Warnings    []string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Service runs the alignment pipeline: load, merge, trim, normalize,
// aggregate, write.
type Service struct {
	source ports.SeriesSource
	sinks  []ports.TableSink
	log    *internal.Logger
}

// NewService builds a pipeline service. Every emitted table goes to each
// sink in order; the first sink is the primary output, extras (e.g. an
// XLSX workbook) ride along.
func NewService(source ports.SeriesSource, log *internal.Logger, sinks ...ports.TableSink) *Service {
	return &Service{source: source, sinks: sinks, log: log}
}

// Run executes one pipeline pass. Stages run strictly in order and each
// consumes its predecessor's table; only the per-interval aggregation fans
// out, since every interval reads the same immutable normalized table.
// Output files are written only after every stage has succeeded.
func (s *Service) Run(ctx context.Context, cfg Config) (*Result, error) {
	if len(cfg.Intervals) == 0 {
		return nil, core.ErrBadInterval
	}

	res := &Result{RunID: core.NewRunID(), StartedAt: time.Now().UTC()}
	s.log.Info("run %s: loading channels", res.RunID)

	all, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading channels: %w", err)
	}
	for _, ser := range all {
		res.Channels = append(res.Channels, ser.Channel)
	}
	res.Fingerprint = Fingerprint(all)
	s.log.Info("run %s: %d channels, fingerprint %s", res.RunID, len(all), res.Fingerprint)

	merged, err := table.Merge(all)
	if err != nil {
		return nil, fmt.Errorf("merging timelines: %w", err)
	}
	s.log.Debug("merged table: %d rows x %d channels", merged.NumRows(), merged.NumCols())

	trimmed, rangeEmpty, err := table.TrimToValid(merged, cfg.Target, len(all))
	if err != nil {
		return nil, fmt.Errorf("trimming to %q: %w", cfg.Target, err)
	}
	if rangeEmpty {
		warning := fmt.Sprintf("target channel %q has no valid data; table left untrimmed", cfg.Target)
		s.log.Warn("%s", warning)
		res.Warnings = append(res.Warnings, warning)
	}

	aligned, err := table.Normalize(trimmed)
	if err != nil {
		return nil, fmt.Errorf("normalizing timestamps: %w", err)
	}
	res.Aligned = aligned

	if cfg.ShowStats {
		res.Summary = stats.Summarize(aligned, true)
		s.log.Info("aligned table summary:\n%s", res.Summary.Format())
	}

	res.Aggregates = make([]Aggregate, len(cfg.Intervals))
	g, _ := errgroup.WithContext(ctx)
	for i, width := range cfg.Intervals {
		i, width := i, width
		g.Go(func() error {
			agg, err := stats.Resample(aligned, width)
			if err != nil {
				return fmt.Errorf("aggregating %s: %w", width, err)
			}
			res.Aggregates[i] = Aggregate{Interval: width, Table: agg}
			if cfg.ShowStats {
				res.Aggregates[i].Summary = stats.Summarize(agg, false)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if cfg.ShowStats {
		for _, agg := range res.Aggregates {
			s.log.Info("%s aggregate summary:\n%s", intervalLabel(agg.Interval), agg.Summary.Format())
		}
	}

	if err := s.write(res); err != nil {
		return nil, err
	}

	res.FinishedAt = time.Now().UTC()
	s.log.Info("run %s: done in %s", res.RunID, res.FinishedAt.Sub(res.StartedAt))
	return res, nil
}

func (s *Service) write(res *Result) error {
	for _, sink := range s.sinks {
		if err := sink.WriteTable("aligned", res.Aligned); err != nil {
			return fmt.Errorf("writing aligned table: %w", err)
		}
		for _, agg := range res.Aggregates {
			name := "aggr_" + intervalLabel(agg.Interval)
			if err := sink.WriteTable(name, agg.Table); err != nil {
				return fmt.Errorf("writing %s: %w", name, err)
			}
		}
	}
	return nil
}

// intervalLabel renders a width for file and sheet names: whole minutes as
// "3min" to match the historical output naming, anything else verbatim.
func intervalLabel(d time.Duration) string {
	if d%time.Minute == 0 {
		return fmt.Sprintf("%dmin", int(d/time.Minute))
	}
	return d.String()
}
