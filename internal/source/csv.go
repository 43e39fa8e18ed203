package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// readCSV decodes a CSV file with a header row. A UTF-8 or UTF-16 byte
// order mark selects the encoding; without one the file is read as UTF-8.
func readCSV(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoded := transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	r := csv.NewReader(decoded)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file: no header row found")
		}
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	t := newTable(header)
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				t.warnings = append(t.warnings, ParseWarning{Row: perr.StartLine, Message: fmt.Sprintf("parse error: %v", perr.Err)})
				continue
			}
			return nil, err
		}
		if blankRow(row) {
			continue
		}
		line, _ := r.FieldPos(0)
		t.add(line, row)
	}
	return t, nil
}
