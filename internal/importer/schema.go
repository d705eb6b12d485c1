package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level structure of a task import file. JSON and
// YAML share the same field names.
type ImportSchema struct {
	Tasks []TaskImport `json:"tasks" yaml:"tasks"`
}

// TaskImport is one row of a task import file. Dates accept YYYY-MM-DD or
// DD/MM/YYYY.
type TaskImport struct {
	Name              string `json:"name" yaml:"name"`
	StartDate         string `json:"start_date" yaml:"start_date"`
	EndDate           string `json:"end_date" yaml:"end_date"`
	ResponsiblePerson string `json:"responsible_person" yaml:"responsible_person"`
	Description       string `json:"description,omitempty" yaml:"description,omitempty"`
	Progress          *int   `json:"progress,omitempty" yaml:"progress,omitempty"`
	Status            string `json:"status,omitempty" yaml:"status,omitempty"`
}

// LoadImportSchema reads a task import file. Files ending in .yaml or .yml
// are parsed as YAML, everything else as JSON.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data, filepath.Ext(path))
}

// ParseImportSchema decodes raw file contents. ext selects the format.
func ParseImportSchema(data []byte, ext string) (*ImportSchema, error) {
	var schema ImportSchema
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	}
	return &schema, nil
}
