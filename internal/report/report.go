// Package report aggregates the outcome of one dbcheck run.
package report

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora/internal/scenario"
	"github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora/internal/schema"
)

// Report is everything a run found about one table
type Report struct {
	RunID  uuid.UUID
	Table  string
	Engine string

	// SchemaChecked is false when the comparison was skipped
	SchemaChecked bool
	Discrepancies []schema.Discrepancy

	// InsertsChecked is false when the scenarios were skipped
	InsertsChecked bool
	Scenarios      []scenario.Result

	// Aborted holds the fatal error that stopped the scenario suite, if any
	Aborted string
}

// New creates an empty report for table with a fresh run ID
func New(table, engine string) *Report {
	return &Report{
		RunID:  uuid.New(),
		Table:  table,
		Engine: engine,
	}
}

// Summary counts what a report contains
type Summary struct {
	Discrepancies int `json:"discrepancies"`
	Scenarios     int `json:"scenarios"`
	Passed        int `json:"passed"`
	Failed        int `json:"failed"`
}

func (s Summary) String() string {
	return fmt.Sprintf("%d discrepancies, %d/%d scenarios passed", s.Discrepancies, s.Passed, s.Scenarios)
}

// Summary tallies discrepancies and scenario results
func (r *Report) Summary() Summary {
	s := Summary{
		Discrepancies: len(r.Discrepancies),
		Scenarios:     len(r.Scenarios),
	}
	for _, res := range r.Scenarios {
		if res.Passed() {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}

// Passed reports whether the table conforms and every scenario passed
func (r *Report) Passed() bool {
	if r.Aborted != "" || len(r.Discrepancies) > 0 {
		return false
	}
	for _, res := range r.Scenarios {
		if !res.Passed() {
			return false
		}
	}
	return true
}
