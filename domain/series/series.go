// Package series holds the per-channel input representation: one ordered
// sequence of (tick, value) samples per recording file. A Series is built
// once by a loader adapter and is immutable afterwards; the merge step
// folds all series into a single wide table and discards them.
package series

import (
	"sort"

	"sensorfuse/domain/core"
)

// Point is a single raw sample: a CLR tick stamp and an optional reading.
type Point struct {
	Tick  int64
	Value core.Value
}

// Series is one named channel of raw samples.
type Series struct {
	Channel core.Channel
	Points  []Point
}

// New builds a series and sorts its points ascending by tick. Input files
// are usually already ordered; sorting here makes that a guarantee instead
// of an assumption.
func New(channel core.Channel, points []Point) *Series {
	s := &Series{Channel: channel, Points: points}
	sort.SliceStable(s.Points, func(i, j int) bool {
		return s.Points[i].Tick < s.Points[j].Tick
	})
	return s
}

// Len returns the number of samples.
func (s *Series) Len() int {
	return len(s.Points)
}

// Ticks returns the tick stamps in order.
func (s *Series) Ticks() []int64 {
	out := make([]int64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Tick
	}
	return out
}
