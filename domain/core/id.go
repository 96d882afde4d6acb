package core

import (
	"github.com/google/uuid"
)

// RunID identifies one execution of the pipeline. It ties the emitted
// tables, the run manifest, and the log lines together.
type RunID string

// NewRunID creates a time-ordered identifier using UUID v7, falling back
// to v4 when v7 generation is unavailable.
func NewRunID() RunID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return RunID(id.String())
}

// String returns the string representation.
func (id RunID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty.
func (id RunID) IsEmpty() bool {
	return id == ""
}

// Channel names a single sensor channel. Derived from the input file's
// stem, it doubles as the column key in the merged table.
type Channel string

// String returns the string representation.
func (c Channel) String() string {
	return string(c)
}
