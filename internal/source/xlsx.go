package source

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// readXLSX reads the first worksheet; its first row is the header.
func readXLSX(path string) (*table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty sheet %q: no header row found", sheets[0])
	}

	t := newTable(rows[0])
	for i, row := range rows[1:] {
		// GetRows drops trailing empty cells, so short rows are normal here.
		if blankRow(row) {
			continue
		}
		if len(row) < len(t.header) {
			padded := make([]string, len(t.header))
			copy(padded, row)
			row = padded
		}
		t.add(i+2, row)
	}
	return t, nil
}
