package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BartekS5/soundope-import/pkg/models"
)

// LoadMapping reads and parses a column mapping file, JSON or YAML by
// extension. An empty path yields the identity mapping.
func LoadMapping(filePath string) (*models.ColumnMapping, error) {
	if filePath == "" {
		return &models.ColumnMapping{Entity: "track"}, nil
	}

	bytes, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file '%s': %w", filePath, err)
	}

	parse := models.LoadMapping
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		parse = models.LoadMappingYAML
	}

	mapping, err := parse(bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping file '%s': %w", filePath, err)
	}
	return mapping, nil
}
