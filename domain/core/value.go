package core

import (
	"math"
	"strconv"
)

// Value is an optional numeric cell. Absence is structural, never NaN:
// a merged timeline is mostly holes, and downstream statistics must be able
// to tell "no reading" apart from "reading happened to be NaN".
type Value struct {
	f  float64
	ok bool
}

// Num returns a present Value.
func Num(f float64) Value {
	return Value{f: f, ok: true}
}

// None returns the missing Value.
func None() Value {
	return Value{}
}

// Present reports whether the value carries a number.
func (v Value) Present() bool {
	return v.ok
}

// Missing reports whether the value is absent.
func (v Value) Missing() bool {
	return !v.ok
}

// Float returns the carried number and whether it is present.
func (v Value) Float() (float64, bool) {
	return v.f, v.ok
}

// MustFloat returns the carried number; callers guard with Present first.
// A missing value yields NaN so accidental use is visible, not silent.
func (v Value) MustFloat() float64 {
	if !v.ok {
		return math.NaN()
	}
	return v.f
}

// String renders the value for file output. Missing renders as the empty
// string, matching the headerless-CSV convention of the input files.
func (v Value) String() string {
	if !v.ok {
		return ""
	}
	return strconv.FormatFloat(v.f, 'g', -1, 64)
}
