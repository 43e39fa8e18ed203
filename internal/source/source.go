// Package source reads import artifacts (CSV, XLSX or exported JSON) into
// typed records in file order.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BartekS5/soundope-import/pkg/logger"
	"github.com/BartekS5/soundope-import/pkg/models"
)

// ErrSourceNotFound is returned when the input path does not exist.
var ErrSourceNotFound = errors.New("source not found")

type Kind string

const (
	KindTracks  Kind = "tracks"
	KindBundles Kind = "bundles"
)

// Source is a fully materialized input file.
type Source struct {
	Path     string
	kind     Kind
	tracks   []models.TrackRecord
	bundles  []models.UserBundle
	Warnings []ParseWarning
}

// ParseWarning is a non-fatal issue found while reading a tabular file.
type ParseWarning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (s *Source) Kind() Kind { return s.kind }
func (s *Source) Tracks() []models.TrackRecord { return s.tracks }
func (s *Source) Bundles() []models.UserBundle { return s.bundles }

// Len is the number of top-level records.
func (s *Source) Len() int {
	if s.kind == KindBundles {
		return len(s.bundles)
	}
	return len(s.tracks)
}

// Open reads path, choosing the decoder from the file extension.
func Open(path string, mapping *models.ColumnMapping) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	src := &Source{Path: path}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		table, err := readCSV(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		src.kind = KindTracks
		src.tracks = table.trackRecords(mapping)
		src.Warnings = table.warnings
	case ".xlsx":
		table, err := readXLSX(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		src.kind = KindTracks
		src.tracks = table.trackRecords(mapping)
		src.Warnings = table.warnings
	case ".json":
		bundles, err := readBundles(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		src.kind = KindBundles
		src.bundles = bundles
	default:
		return nil, fmt.Errorf("unsupported source format %q (expected .csv, .xlsx or .json)", ext)
	}

	for _, w := range src.Warnings {
		logger.Warnw("Repaired source row", "path", path, "row", w.Row, "reason", w.Message)
	}
	logger.Infof("Read %d %s records from %s", src.Len(), src.kind, path)
	return src, nil
}

// table is a header-keyed tabular file. lines[i] is the 1-based file row of rows[i].
type table struct {
	header   []string
	rows     []map[string]string
	lines    []int
	warnings []ParseWarning
}

// newTable trims the header names. A repeated name keeps its last column.
func newTable(header []string) *table {
	t := &table{header: header}
	seen := make(map[string]bool, len(header))
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
		if header[i] != "" && seen[header[i]] {
			t.warnings = append(t.warnings, ParseWarning{
				Row:     1,
				Message: fmt.Sprintf("duplicate column %q in header; using the last one", header[i]),
			})
		}
		seen[header[i]] = true
	}
	return t
}

// add pads short rows and truncates long ones to the header width.
func (t *table) add(line int, row []string) {
	n := len(t.header)
	if len(row) < n {
		t.warnings = append(t.warnings, ParseWarning{
			Row:     line,
			Message: fmt.Sprintf("row has %d columns, expected %d; padding with empty values", len(row), n),
		})
		padded := make([]string, n)
		copy(padded, row)
		row = padded
	} else if len(row) > n {
		t.warnings = append(t.warnings, ParseWarning{
			Row:     line,
			Message: fmt.Sprintf("row has %d columns, expected %d; truncating extra columns", len(row), n),
		})
		row = row[:n]
	}

	record := make(map[string]string, n)
	for i, h := range t.header {
		record[h] = row[i]
	}
	t.rows = append(t.rows, record)
	t.lines = append(t.lines, line)
}

func (t *table) trackRecords(m *models.ColumnMapping) []models.TrackRecord {
	out := make([]models.TrackRecord, 0, len(t.rows))
	for i, row := range t.rows {
		out = append(out, models.TrackRecordFromRow(t.lines[i], row, m))
	}
	return out
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
