// Package excel exports emitted tables into a single XLSX workbook, one
// sheet per table, for consumers who inspect runs in a spreadsheet instead
// of feeding the CSVs onward.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"sensorfuse/domain/table"
)

// WorkbookSink appends each written table as a sheet of one workbook and
// saves the workbook after every write.
type WorkbookSink struct {
	path   string
	file   *excelize.File
	sheets int
}

// NewWorkbookSink creates a sink writing to the given .xlsx path.
func NewWorkbookSink(path string) *WorkbookSink {
	return &WorkbookSink{path: path, file: excelize.NewFile()}
}

// WriteTable adds the table as a sheet named after the logical table name.
func (s *WorkbookSink) WriteTable(name string, t *table.Table) error {
	// Excel caps sheet names at 31 characters.
	if len(name) > 31 {
		name = name[:31]
	}

	if s.sheets == 0 {
		if err := s.file.SetSheetName("Sheet1", name); err != nil {
			return err
		}
	} else if _, err := s.file.NewSheet(name); err != nil {
		return err
	}
	s.sheets++

	if err := s.setRow(name, 1, headerCells(t)); err != nil {
		return err
	}
	for i, row := range t.Rows {
		cells := make([]interface{}, 0, t.NumCols()+1)
		if t.Normalized() {
			cells = append(cells, t.Times[i].UTC().Format("2006-01-02 15:04:05"))
		} else {
			cells = append(cells, t.Ticks[i])
		}
		for _, cell := range row {
			if f, ok := cell.Float(); ok {
				cells = append(cells, f)
			} else {
				cells = append(cells, nil)
			}
		}
		if err := s.setRow(name, i+2, cells); err != nil {
			return err
		}
	}

	return s.file.SaveAs(s.path)
}

func (s *WorkbookSink) setRow(sheet string, row int, cells []interface{}) error {
	ref, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return s.file.SetSheetRow(sheet, ref, &cells)
}

func headerCells(t *table.Table) []interface{} {
	h := make([]interface{}, 0, t.NumCols()+1)
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

// Close releases the workbook handle.
func (s *WorkbookSink) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	if err != nil {
		return fmt.Errorf("closing workbook: %w", err)
	}
	return nil
}
