// Package geo converts the recorder's degrees-minutes coordinate strings
// ("4916.45N") into decimal degrees so latitude/longitude channels can ride
// through the numeric pipeline like any other sensor.
package geo

import (
	"fmt"
	"strconv"
	"strings"

	"sensorfuse/domain/core"
)

// ParseDM parses a degrees-minutes string of the form DDMM.mmH, where H is
// one of N/S/E/W. South and west yield negative degrees. An empty string is
// a missing reading and propagates as such.
func ParseDM(s string) (core.Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return core.None(), nil
	}
	if len(s) < 4 {
		return core.None(), fmt.Errorf("%w: coordinate %q too short", core.ErrBadRecord, s)
	}

	degrees, err := strconv.ParseFloat(s[:2], 64)
	if err != nil {
		return core.None(), fmt.Errorf("%w: coordinate %q: bad degrees", core.ErrBadRecord, s)
	}
	minutes, err := strconv.ParseFloat(s[2:len(s)-1], 64)
	if err != nil {
		return core.None(), fmt.Errorf("%w: coordinate %q: bad minutes", core.ErrBadRecord, s)
	}

	decimal := degrees + minutes/60.0
	switch s[len(s)-1] {
	case 'N', 'E':
	case 'S', 'W':
		decimal = -decimal
	default:
		return core.None(), fmt.Errorf("%w: coordinate %q: unknown hemisphere %q", core.ErrBadRecord, s, s[len(s)-1])
	}
	return core.Num(decimal), nil
}
