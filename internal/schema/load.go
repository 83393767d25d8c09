package schema

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// definitionFile is the on-disk form of a Definition
type definitionFile struct {
	Table  string      `yaml:"table"`
	Fields []FieldSpec `yaml:"fields"`
}

// LoadDefinition reads an expected schema from a YAML file.
// Unknown keys are rejected so that typos surface as errors.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file: %w", err)
	}
	return ParseDefinition(data)
}

// ParseDefinition decodes an expected schema from YAML
func ParseDefinition(data []byte) (*Definition, error) {
	var file definitionFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if file.Table == "" {
		return nil, fmt.Errorf("invalid definition: table is required")
	}
	if len(file.Fields) == 0 {
		return nil, fmt.Errorf("invalid definition: fields list is required and must be non-empty")
	}

	d, err := NewDefinition(file.Table, file.Fields...)
	if err != nil {
		return nil, fmt.Errorf("invalid definition: %w", err)
	}
	return d, nil
}
