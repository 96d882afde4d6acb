package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"sensorfuse/adapters/csvfile"
	"sensorfuse/adapters/excel"
	"sensorfuse/app"
	"sensorfuse/domain/core"
	"sensorfuse/domain/features"
	"sensorfuse/internal"
	"sensorfuse/internal/config"
	apperrors "sensorfuse/internal/errors"
	"sensorfuse/ports"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sensorfuse",
		Short: "Align, trim and resample per-channel sensor recordings",
	}

	rootCmd.AddCommand(newRunCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var (
		inputDir   string
		outputDir  string
		target     string
		intervals  []time.Duration
		coordinate []string
		writeExcel bool
		gzipOut    bool
		writeDense bool
		showStats  bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the alignment pipeline over a directory of channel files",
		Long: `Run the full pipeline: load one CSV per channel, outer-join all
channels on their tick timestamps, trim to the target channel's valid range,
convert ticks to calendar time, and emit the aligned table plus one
mean/std aggregate table per interval.

Example: sensorfuse run --input raw_data --output data --target fuelVolumeFlowRate --interval 3m --interval 10m`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional; environment and flags take precedence.
			_ = godotenv.Load()

			cfg, err := loadConfig(cmd, inputDir, outputDir, target, intervals, coordinate, writeExcel, gzipOut, writeDense, showStats)
			if err != nil {
				return err
			}

			log := internal.NewDefaultLogger()

			coords := make([]core.Channel, len(cfg.Pipeline.CoordinateChannels))
			for i, c := range cfg.Pipeline.CoordinateChannels {
				coords[i] = core.Channel(c)
			}

			source := csvfile.NewSource(cfg.Paths.InputDir, coords)
			csvSink := csvfile.NewSink(cfg.Paths.OutputDir, cfg.Pipeline.GzipOutput)
			sinks := []ports.TableSink{csvSink}

			var workbook *excel.WorkbookSink
			if cfg.Pipeline.WriteExcel {
				if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
					return err
				}
				workbook = excel.NewWorkbookSink(filepath.Join(cfg.Paths.OutputDir, "tables.xlsx"))
				defer workbook.Close()
				sinks = append(sinks, workbook)
			}

			svc := app.NewService(source, log, sinks...)
			res, err := svc.Run(cmd.Context(), app.Config{
				Target:    core.Channel(cfg.Pipeline.TargetChannel),
				Intervals: cfg.Pipeline.Intervals,
				ShowStats: cfg.Pipeline.ShowStats,
			})
			if err != nil {
				if core.IsInputError(err) {
					return apperrors.InputInvalid("pipeline rejected the input data", err)
				}
				return err
			}

			if cfg.Pipeline.WriteDense {
				matrix, err := features.FromTable(res.Aligned, features.DropRows)
				if err != nil {
					return fmt.Errorf("building dense matrix: %w", err)
				}
				if err := csvSink.WriteMatrix("aligned_dense", matrix); err != nil {
					return fmt.Errorf("writing dense matrix: %w", err)
				}
			}

			manifest := app.NewManifest(res, core.Channel(cfg.Pipeline.TargetChannel))
			if err := manifest.Write(filepath.Join(cfg.Paths.OutputDir, "run_manifest.json")); err != nil {
				return apperrors.IOFailure("writing run manifest", err)
			}

			fmt.Printf("run %s: %d channels, %d aligned rows, %d aggregate table(s) -> %s\n",
				res.RunID, len(res.Channels), res.Aligned.NumRows(), len(res.Aggregates), cfg.Paths.OutputDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputDir, "input", "", "directory of per-channel CSV files")
	cmd.Flags().StringVar(&outputDir, "output", "", "directory for emitted tables")
	cmd.Flags().StringVar(&target, "target", "", "target channel anchoring the valid-range trim")
	cmd.Flags().DurationSliceVar(&intervals, "interval", nil, "aggregation interval (repeatable)")
	cmd.Flags().StringSliceVar(&coordinate, "coordinate", nil, "channel holding degrees-minutes coordinate strings (repeatable)")
	cmd.Flags().BoolVar(&writeExcel, "excel", false, "also export tables to one XLSX workbook")
	cmd.Flags().BoolVar(&gzipOut, "gzip", false, "gzip-compress emitted CSV files")
	cmd.Flags().BoolVar(&writeDense, "dense", false, "also export the aligned table as a dense matrix, dropping incomplete rows")
	cmd.Flags().BoolVar(&showStats, "stats", false, "log per-column diagnostics")

	return cmd
}

// loadConfig merges the env-derived configuration with explicit flags;
// flags win wherever set.
func loadConfig(cmd *cobra.Command, inputDir, outputDir, target string, intervals []time.Duration, coordinate []string, writeExcel, gzipOut, writeDense, showStats bool) (*config.Config, error) {
	if inputDir != "" {
		os.Setenv("INPUT_DIR", inputDir)
	}
	if outputDir != "" {
		os.Setenv("OUTPUT_DIR", outputDir)
	}
	if target != "" {
		os.Setenv("TARGET_CHANNEL", target)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if len(intervals) > 0 {
		cfg.Pipeline.Intervals = intervals
	}
	if cmd.Flags().Changed("coordinate") {
		cfg.Pipeline.CoordinateChannels = coordinate
	}
	if cmd.Flags().Changed("excel") {
		cfg.Pipeline.WriteExcel = writeExcel
	}
	if cmd.Flags().Changed("gzip") {
		cfg.Pipeline.GzipOutput = gzipOut
	}
	if cmd.Flags().Changed("dense") {
		cfg.Pipeline.WriteDense = writeDense
	}
	if cmd.Flags().Changed("stats") {
		cfg.Pipeline.ShowStats = showStats
	}
	return cfg, nil
}
