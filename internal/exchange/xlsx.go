package exchange

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

func writeXLSX(w io.Writer, records [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+1, err)
		}
		row := rec
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

type sliceSource struct {
	rows [][]string
}

// readXLSX loads the first sheet and drops its header row. Blank rows come
// back empty so row numbers keep matching the sheet; short rows are padded
// to width, since workbooks do not store trailing empty cells.
func readXLSX(r io.Reader, width int) (recordSource, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &sliceSource{}, nil
	}
	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows of sheet %s: %w", sheets[0], err)
	}

	var rows [][]string
	for i, row := range all {
		if i == 0 {
			continue
		}
		for len(row) > 0 && len(row) < width {
			row = append(row, "")
		}
		rows = append(rows, row)
	}
	return &sliceSource{rows: rows}, nil
}

func (s *sliceSource) next() ([]string, error) {
	if len(s.rows) == 0 {
		return nil, io.EOF
	}
	row := s.rows[0]
	s.rows = s.rows[1:]
	return row, nil
}
