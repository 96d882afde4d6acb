package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input validation errors. All of these indicate corrupted or
	// malformed input and abort the run before any output is written.
	ErrNoSeries         = errors.New("no channel series provided")
	ErrChannelCollision = errors.New("duplicate channel name")
	ErrTickOutOfRange   = errors.New("tick count out of range")
	ErrBadRecord        = errors.New("malformed input record")

	// Structural errors. A schema mismatch after merging signals upstream
	// corruption and is assertion-class: fail loudly, never proceed.
	ErrSchemaMismatch = errors.New("merged table schema mismatch")
	ErrColumnNotFound = errors.New("column not found")
	ErrEmptyTable     = errors.New("table has no rows")

	// Aggregation errors
	ErrBadInterval = errors.New("aggregation interval must be positive")

	// Model hand-off errors
	ErrMissingCell = errors.New("missing value in feature matrix")
)

// NewCollisionError names the colliding channel.
func NewCollisionError(channel string) error {
	return fmt.Errorf("%w: %q", ErrChannelCollision, channel)
}

// NewSchemaError reports an expected/actual column count divergence.
func NewSchemaError(expected, actual int) error {
	return fmt.Errorf("%w: expected %d columns, got %d", ErrSchemaMismatch, expected, actual)
}

// IsInputError reports whether err stems from bad input data rather than a
// bug in the pipeline itself.
func IsInputError(err error) bool {
	return errors.Is(err, ErrNoSeries) ||
		errors.Is(err, ErrChannelCollision) ||
		errors.Is(err, ErrTickOutOfRange) ||
		errors.Is(err, ErrBadRecord)
}
