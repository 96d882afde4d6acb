// Package csvfile reads and writes the pipeline's file boundary: one
// headerless two-column CSV per input channel, and CSV renderings of the
// emitted tables. Files ending in .gz are compressed transparently in both
// directions.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"sensorfuse/domain/core"
	"sensorfuse/domain/geo"
	"sensorfuse/domain/series"
)

// Source loads every *.csv / *.csv.gz in a directory as one channel each.
// The channel name is the file stem, which makes name uniqueness a property
// of the directory listing.
type Source struct {
	dir        string
	coordinate map[core.Channel]struct{}
}

// NewSource creates a directory-backed series source. Channels listed in
// coordinateChannels hold degrees-minutes coordinate strings and are
// converted to decimal degrees while loading.
func NewSource(dir string, coordinateChannels []core.Channel) *Source {
	coord := make(map[core.Channel]struct{}, len(coordinateChannels))
	for _, ch := range coordinateChannels {
		coord[ch] = struct{}{}
	}
	return &Source{dir: dir, coordinate: coord}
}

// Load reads all channel files. The listing is sorted so a run over the
// same directory always produces the same column order.
func (s *Source) Load(ctx context.Context) ([]*series.Series, error) {
	plain, err := filepath.Glob(filepath.Join(s.dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.dir, err)
	}
	packed, err := filepath.Glob(filepath.Join(s.dir, "*.csv.gz"))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.dir, err)
	}
	paths := append(plain, packed...)
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no channel files in %s", core.ErrNoSeries, s.dir)
	}

	out := make([]*series.Series, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ch := channelName(path)
		ser, err := s.readChannel(path, ch)
		if err != nil {
			return nil, fmt.Errorf("channel %q (%s): %w", ch, path, err)
		}
		out = append(out, ser)
	}
	return out, nil
}

func (s *Source) readChannel(path string, ch core.Channel) (*series.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	_, isCoord := s.coordinate[ch]

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2

	var points []series.Point
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", core.ErrBadRecord, line+1, err)
		}
		line++

		tick, err := strconv.ParseInt(strings.TrimSpace(rec[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad timestamp %q", core.ErrBadRecord, line, rec[0])
		}
		if tick < 0 {
			return nil, fmt.Errorf("%w: line %d: negative tick %d", core.ErrTickOutOfRange, line, tick)
		}

		val, err := parseValue(rec[1], isCoord)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		points = append(points, series.Point{Tick: tick, Value: val})
	}

	return series.New(ch, points), nil
}

// parseValue reads one value field. Blank fields are missing readings,
// never zeros.
func parseValue(raw string, isCoord bool) (core.Value, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return core.None(), nil
	}
	if isCoord {
		return geo.ParseDM(raw)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return core.None(), fmt.Errorf("%w: bad value %q", core.ErrBadRecord, raw)
	}
	return core.Num(f), nil
}

// channelName derives the channel from the file identity: the base name
// with .gz and .csv stripped.
func channelName(path string) core.Channel {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gz")
	base = strings.TrimSuffix(base, ".csv")
	return core.Channel(base)
}
