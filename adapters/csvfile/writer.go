package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/klauspost/compress/gzip"

	"sensorfuse/domain/features"
	"sensorfuse/domain/table"
)

// timeLayout matches the calendar format the downstream tooling consumes.
const timeLayout = "2006-01-02 15:04:05"

// Sink writes tables as <name>.csv (or <name>.csv.gz) under one directory.
type Sink struct {
	dir      string
	compress bool
}

// NewSink creates a CSV table sink. With compress set, outputs are
// gzip-compressed and suffixed .gz.
func NewSink(dir string, compress bool) *Sink {
	return &Sink{dir: dir, compress: compress}
}

// WriteTable renders one table. The key column header is "timestamp" for a
// raw table and "datetime" once normalized; missing cells render empty.
func (s *Sink) WriteTable(name string, t *table.Table) error {
	return s.render(name, func(cw *csv.Writer) error {
		if err := cw.Write(header(t)); err != nil {
			return err
		}
		rec := make([]string, t.NumCols()+1)
		for i, row := range t.Rows {
			if t.Normalized() {
				rec[0] = t.Times[i].UTC().Format(timeLayout)
			} else {
				rec[0] = fmt.Sprintf("%d", t.Ticks[i])
			}
			for j, cell := range row {
				rec[j+1] = cell.String()
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteMatrix renders a dense feature matrix the same way WriteTable renders
// a normalized table. Every cell is present by construction, so no empty
// fields appear.
func (s *Sink) WriteMatrix(name string, m *features.Matrix) error {
	return s.render(name, func(cw *csv.Writer) error {
		h := make([]string, 0, m.ColumnCount()+1)
		h = append(h, "datetime")
		for _, c := range m.Columns {
			h = append(h, c.String())
		}
		if err := cw.Write(h); err != nil {
			return err
		}
		rec := make([]string, m.ColumnCount()+1)
		for i, vec := range m.Data {
			rec[0] = m.Times[i].UTC().Format(timeLayout)
			for j, v := range vec {
				rec[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// render opens <name>.csv (optionally gzipped) and hands a csv.Writer to the
// row producer, flushing and closing the compressor afterwards.
func (s *Sink) render(name string, produce func(cw *csv.Writer) error) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	path := filepath.Join(s.dir, name+".csv")
	if s.compress {
		path += ".gz"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if s.compress {
		gz = gzip.NewWriter(f)
		w = gz
	}

	cw := csv.NewWriter(w)
	if err := produce(cw); err != nil {
		return err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	if gz != nil {
		return gz.Close()
	}
	return nil
}

func header(t *table.Table) []string {
	h := make([]string, 0, t.NumCols()+1)
	if t.Normalized() {
		h = append(h, "datetime")
	} else {
		h = append(h, "timestamp")
	}
	for _, c := range t.Columns {
		h = append(h, c.String())
	}
	return h
}
