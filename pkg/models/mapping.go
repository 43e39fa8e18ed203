package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ColumnMapping maps a record field name (e.g. "user_id") to the header
// used for it in a tabular export (e.g. "artist_id").
type ColumnMapping struct {
	Entity  string            `json:"entity" yaml:"entity"`
	Columns map[string]string `json:"columns" yaml:"columns"`
}

// Header returns the source header for field, falling back to the field
// name itself when the mapping does not mention it.
func (m *ColumnMapping) Header(field string) string {
	if m == nil {
		return field
	}
	if h, ok := m.Columns[field]; ok && strings.TrimSpace(h) != "" {
		return strings.TrimSpace(h)
	}
	return field
}

// LoadMapping parses a JSON column mapping.
func LoadMapping(data []byte) (*ColumnMapping, error) {
	var m ColumnMapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m.check()
}

// LoadMappingYAML parses the same document written as YAML.
func LoadMappingYAML(data []byte) (*ColumnMapping, error) {
	var m ColumnMapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m.check()
}

func (m *ColumnMapping) check() (*ColumnMapping, error) {
	if m.Entity != "" && m.Entity != "track" {
		return nil, fmt.Errorf("column mapping for entity %q is not supported, only \"track\"", m.Entity)
	}
	return m, nil
}
