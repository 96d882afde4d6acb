package core

import (
	"fmt"
	"time"
)

// The recorder stamps every sample with a CLR DateTime tick count:
// 100-nanosecond units counted from 0001-01-01T00:00:00Z. Converting to
// calendar time subtracts the fixed offset between that epoch and the Unix
// epoch, then divides down to whole seconds.
const (
	// UnixEpochTicks is the CLR tick count at 1970-01-01T00:00:00Z.
	UnixEpochTicks int64 = 621355968000000000

	// TicksPerSecond is the CLR tick rate (1 tick = 100ns).
	TicksPerSecond int64 = 10_000_000
)

// TickToTime converts a CLR tick count to a UTC calendar instant.
//
// Sub-second precision is discarded by integer division. This truncation
// (not rounding) matches the historical conversion the downstream datasets
// were built with and must not be "fixed".
//
// Ticks before the Unix epoch (including negatives) have no meaning for
// these recordings and are rejected rather than mapped to a nonsense date.
func TickToTime(ticks int64) (time.Time, error) {
	if ticks < UnixEpochTicks {
		return time.Time{}, fmt.Errorf("%w: %d precedes the unix epoch (%d)", ErrTickOutOfRange, ticks, UnixEpochTicks)
	}
	secs := (ticks - UnixEpochTicks) / TicksPerSecond
	return time.Unix(secs, 0).UTC(), nil
}

// TimeToTick converts a calendar instant back to a whole-second CLR tick
// count. Used by tests and the run manifest; lossy inputs are truncated the
// same way TickToTime truncates.
func TimeToTick(t time.Time) int64 {
	return t.Unix()*TicksPerSecond + UnixEpochTicks
}
