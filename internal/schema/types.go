package schema

import (
	"context"
	"fmt"
)

// FieldSpec is one column the target table must provide
type FieldSpec struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
}

// Definition is the ordered, immutable list of fields a table must satisfy
type Definition struct {
	table  string
	fields []FieldSpec
}

// NewDefinition builds a definition for table, rejecting empty or duplicate field names
func NewDefinition(table string, fields ...FieldSpec) (*Definition, error) {
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("fields[%d]: name is required", i)
		}
		if f.Type == "" {
			return nil, fmt.Errorf("fields[%d] (%s): type is required", i, f.Name)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("fields[%d]: duplicate field name %q", i, f.Name)
		}
		seen[f.Name] = true
	}

	copied := make([]FieldSpec, len(fields))
	copy(copied, fields)
	return &Definition{table: table, fields: copied}, nil
}

// MustDefinition is like NewDefinition but panics on an invalid field list.
// Intended for package-level fixtures.
func MustDefinition(table string, fields ...FieldSpec) *Definition {
	d, err := NewDefinition(table, fields...)
	if err != nil {
		panic(err)
	}
	return d
}

// Table returns the table the definition describes
func (d *Definition) Table() string {
	if d == nil {
		return ""
	}
	return d.table
}

// Fields returns a copy of the fields in declaration order
func (d *Definition) Fields() []FieldSpec {
	if d == nil {
		return nil
	}
	out := make([]FieldSpec, len(d.fields))
	copy(out, d.fields)
	return out
}

// Len returns the number of declared fields
func (d *Definition) Len() int {
	if d == nil {
		return 0
	}
	return len(d.fields)
}

// Snapshot maps column name to the type reported by the database catalog
type Snapshot map[string]string

// Introspector reads column metadata for a single table.
// A table that does not exist yields an empty snapshot, not an error.
type Introspector interface {
	Introspect(ctx context.Context, table string) (Snapshot, error)
}

// DiscrepancyKind tags a Discrepancy
type DiscrepancyKind string

const (
	MissingField DiscrepancyKind = "missing_field"
	TypeMismatch DiscrepancyKind = "type_mismatch"
)

// Discrepancy is one way a snapshot fails to match its definition
type Discrepancy struct {
	Kind     DiscrepancyKind `json:"kind"`
	Field    string          `json:"field"`
	Expected string          `json:"expected,omitempty"`
	Actual   string          `json:"actual,omitempty"`
}

func (d Discrepancy) String() string {
	switch d.Kind {
	case MissingField:
		return fmt.Sprintf("field %s is missing", d.Field)
	case TypeMismatch:
		return fmt.Sprintf("field %s has type %q, expected %q", d.Field, d.Actual, d.Expected)
	default:
		return fmt.Sprintf("field %s: %s", d.Field, d.Kind)
	}
}
