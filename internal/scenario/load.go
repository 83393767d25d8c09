package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Suite is a set of scenarios for one table
type Suite struct {
	Table     string
	Scenarios []Scenario
}

type suiteFile struct {
	Table     string         `yaml:"table,omitempty"`
	Scenarios []scenarioFile `yaml:"scenarios"`
}

type scenarioFile struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Columns     []columnFile `yaml:"columns"`
	Expect      expectFile   `yaml:"expect"`
}

type columnFile struct {
	Name  string  `yaml:"name"`
	Value *string `yaml:"value,omitempty"`
	// Raw emits value unquoted (booleans, numbers, SQL expressions).
	Raw  bool `yaml:"raw,omitempty"`
	Null bool `yaml:"is_null,omitempty"`
}

type expectFile struct {
	Outcome  OutcomeKind    `yaml:"outcome"`
	Category Category       `yaml:"category,omitempty"`
	Matcher  string         `yaml:"matcher,omitempty"`
	Rows     int64          `yaml:"rows,omitempty"`
	Row      []rowCheckFile `yaml:"row,omitempty"`
}

type rowCheckFile struct {
	Column   string  `yaml:"column"`
	Equals   *string `yaml:"equals,omitempty"`
	Null     bool    `yaml:"is_null,omitempty"`
	SameYear bool    `yaml:"same_year,omitempty"`
}

// LoadSuite reads and validates a scenario suite from a YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or fails validation.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseSuite(data)
}

// ParseSuite decodes and validates a scenario suite from YAML
func ParseSuite(data []byte) (*Suite, error) {
	var file suiteFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(file.Scenarios) == 0 {
		return nil, fmt.Errorf("invalid suite: scenarios list is required and must be non-empty")
	}

	suite := &Suite{Table: file.Table}
	seen := make(map[string]bool)
	for i, sf := range file.Scenarios {
		sc, err := sf.toScenario()
		if err != nil {
			return nil, fmt.Errorf("invalid suite: scenarios[%d]: %w", i, err)
		}
		if seen[sc.Name] {
			return nil, fmt.Errorf("invalid suite: scenarios[%d]: duplicate name %q", i, sc.Name)
		}
		seen[sc.Name] = true
		suite.Scenarios = append(suite.Scenarios, sc)
	}
	return suite, nil
}

func (sf scenarioFile) toScenario() (Scenario, error) {
	if sf.Name == "" {
		return Scenario{}, fmt.Errorf("name is required")
	}

	columns, err := toColumns(sf.Columns)
	if err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", sf.Name, err)
	}

	expect, err := sf.Expect.toExpectation()
	if err != nil {
		return Scenario{}, fmt.Errorf("%s.expect: %w", sf.Name, err)
	}

	return Scenario{
		Name:        sf.Name,
		Description: sf.Description,
		Columns:     columns,
		Expect:      expect,
	}, nil
}

func toColumns(files []columnFile) ([]Column, error) {
	seen := make(map[string]bool, len(files))
	columns := make([]Column, 0, len(files))
	for i, cf := range files {
		if cf.Name == "" {
			return nil, fmt.Errorf("columns[%d]: name is required", i)
		}
		if seen[cf.Name] {
			return nil, fmt.Errorf("columns[%d]: duplicate column %q", i, cf.Name)
		}
		seen[cf.Name] = true

		switch {
		case cf.Null && cf.Value != nil:
			return nil, fmt.Errorf("columns[%d] (%s): value and is_null are mutually exclusive", i, cf.Name)
		case cf.Null:
			columns = append(columns, Col(cf.Name, Null()))
		case cf.Value == nil:
			return nil, fmt.Errorf("columns[%d] (%s): value or is_null is required", i, cf.Name)
		case cf.Raw:
			columns = append(columns, Col(cf.Name, Raw(*cf.Value)))
		default:
			columns = append(columns, Col(cf.Name, Lit(*cf.Value)))
		}
	}
	return columns, nil
}

func (ef expectFile) toExpectation() (Expectation, error) {
	switch ef.Outcome {
	case Success:
		if ef.Category != "" || ef.Matcher != "" {
			return Expectation{}, fmt.Errorf("category and matcher only apply to rejected outcomes")
		}
		checks, err := toRowChecks(ef.Row)
		if err != nil {
			return Expectation{}, err
		}
		return ExpectSuccess(ef.Rows, checks...), nil
	case Rejected:
		if len(ef.Row) > 0 || ef.Rows != 0 {
			return Expectation{}, fmt.Errorf("rows and row only apply to success outcomes")
		}
		category := ef.Category.orUnclassified()
		if !category.Valid() {
			return Expectation{}, fmt.Errorf("unknown category %q", ef.Category)
		}
		return ExpectRejected(category, ef.Matcher), nil
	case "":
		return Expectation{}, fmt.Errorf("outcome is required")
	default:
		return Expectation{}, fmt.Errorf("unknown outcome %q (must be success or rejected)", ef.Outcome)
	}
}

func toRowChecks(files []rowCheckFile) ([]RowCheck, error) {
	var checks []RowCheck
	for i, rf := range files {
		if rf.Column == "" {
			return nil, fmt.Errorf("row[%d]: column is required", i)
		}
		set := 0
		if rf.Equals != nil {
			set++
		}
		if rf.Null {
			set++
		}
		if rf.SameYear {
			set++
		}
		if set != 1 {
			return nil, fmt.Errorf("row[%d] (%s): exactly one of equals, is_null or same_year is required", i, rf.Column)
		}

		switch {
		case rf.Equals != nil:
			checks = append(checks, Equals(rf.Column, *rf.Equals))
		case rf.Null:
			checks = append(checks, IsNull(rf.Column))
		default:
			checks = append(checks, SameYear(rf.Column))
		}
	}
	return checks, nil
}
