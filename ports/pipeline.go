// Package ports defines the narrow interfaces between the pipeline service
// and its I/O adapters, so the staged core never touches files directly.
package ports

import (
	"context"

	"sensorfuse/domain/series"
	"sensorfuse/domain/table"
)

// SeriesSource loads every channel series for a run. Loading is a whole-file
// batch operation: a source either yields the complete set or an error.
type SeriesSource interface {
	Load(ctx context.Context) ([]*series.Series, error)
}

// TableSink persists one emitted table under a logical name ("aligned",
// "aggr_3min", ...). Sinks decide their own on-disk representation.
type TableSink interface {
	WriteTable(name string, t *table.Table) error
}
