package etl

import (
	"encoding/json"
	"fmt"
	"os"
)

type ErrorKind string

const (
	KindRecord         ErrorKind = "record"
	KindParentCreation ErrorKind = "parent-creation"
)

// ImportError describes one failed record or child record.
type ImportError struct {
	Kind    ErrorKind `json:"type"`
	Entity  string    `json:"entity"`
	ID      string    `json:"id"`
	Title   string    `json:"title,omitempty"`
	Email   string    `json:"email,omitempty"`
	Message string    `json:"error"`
}

func (e ImportError) String() string {
	label := e.ID
	if e.Title != "" {
		label = fmt.Sprintf("%s (%s)", e.ID, e.Title)
	} else if e.Email != "" {
		label = fmt.Sprintf("%s (%s)", e.ID, e.Email)
	}
	return fmt.Sprintf("[%s] %s %s: %s", e.Kind, e.Entity, label, e.Message)
}

// Ledger collects import errors of one run in the order they happened.
type Ledger struct {
	entries []ImportError
}

func NewLedger() *Ledger {
	return &Ledger{}
}

func (l *Ledger) Append(e ImportError) {
	l.entries = append(l.entries, e)
}

func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the recorded errors.
func (l *Ledger) Entries() []ImportError {
	out := make([]ImportError, len(l.entries))
	copy(out, l.entries)
	return out
}

// Kinds returns the distinct error kinds in order of first appearance.
func (l *Ledger) Kinds() []ErrorKind {
	seen := make(map[ErrorKind]bool)
	var kinds []ErrorKind
	for _, e := range l.entries {
		if !seen[e.Kind] {
			seen[e.Kind] = true
			kinds = append(kinds, e.Kind)
		}
	}
	return kinds
}

// Preview returns the first n entries and how many were left out.
func (l *Ledger) Preview(n int) ([]ImportError, int) {
	if n < 0 {
		n = 0
	}
	if n >= len(l.entries) {
		return l.Entries(), 0
	}
	out := make([]ImportError, n)
	copy(out, l.entries[:n])
	return out, len(l.entries) - n
}

// Persist writes all entries to path as an indented JSON array.
func (l *Ledger) Persist(path string) error {
	entries := l.entries
	if entries == nil {
		entries = []ImportError{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding error report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing error report %s: %w", path, err)
	}
	return nil
}
