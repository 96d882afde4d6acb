// Package features is the hand-off boundary to downstream models. A model
// consumes numeric columns as a fixed-width feature vector per row and
// tolerates no missing values, so the conversion from a sparse table to a
// dense matrix must apply an explicit missing-value policy here rather than
// leaving the contract implicit.
package features

import (
	"fmt"
	"time"

	"sensorfuse/domain/core"
	"sensorfuse/domain/table"
)

// MissingPolicy decides what happens to rows with absent cells.
type MissingPolicy string

const (
	// DropRows omits every row containing at least one missing cell.
	DropRows MissingPolicy = "drop_rows"
	// Fail rejects the table on the first missing cell.
	Fail MissingPolicy = "fail"
)

// Matrix is dense numeric data ready for model consumption:
// rows = sequence steps, cols = channels (or channel aggregates).
type Matrix struct {
	Columns []core.Channel
	Times   []time.Time
	Data    [][]float64
}

// RowCount returns the number of sequence steps.
func (m *Matrix) RowCount() int {
	return len(m.Data)
}

// ColumnCount returns the feature-vector width.
func (m *Matrix) ColumnCount() int {
	return len(m.Columns)
}

// FromTable densifies a normalized table under the given policy.
func FromTable(t *table.Table, policy MissingPolicy) (*Matrix, error) {
	if !t.Normalized() {
		return nil, fmt.Errorf("feature matrix requires a normalized table")
	}

	m := &Matrix{Columns: t.Columns}
	for i, row := range t.Rows {
		vec := make([]float64, len(row))
		complete := true
		for j, cell := range row {
			f, ok := cell.Float()
			if !ok {
				if policy == Fail {
					return nil, fmt.Errorf("%w: row %d, column %q", core.ErrMissingCell, i, t.Columns[j])
				}
				complete = false
				break
			}
			vec[j] = f
		}
		if !complete {
			continue
		}
		m.Times = append(m.Times, t.Times[i])
		m.Data = append(m.Data, vec)
	}
	return m, nil
}
