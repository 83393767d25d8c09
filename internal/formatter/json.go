package formatter

import (
	"encoding/json"
	"io"

	"github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora/internal/report"
	"github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora/internal/scenario"
	"github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora/internal/schema"
)

// JSONFormatter formats a report as indented JSON for machine consumers
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

type jsonReport struct {
	RunID          string               `json:"run_id"`
	Table          string               `json:"table"`
	Engine         string               `json:"engine,omitempty"`
	Passed         bool                 `json:"passed"`
	Summary        report.Summary       `json:"summary"`
	SchemaChecked  bool                 `json:"schema_checked"`
	Discrepancies  []schema.Discrepancy `json:"discrepancies"`
	InsertsChecked bool                 `json:"inserts_checked"`
	Scenarios      []scenario.Result    `json:"scenarios"`
	Aborted        string               `json:"aborted,omitempty"`
}

// Format writes the report as a single JSON document
func (f *JSONFormatter) Format(r *report.Report) error {
	out := jsonReport{
		RunID:          r.RunID.String(),
		Table:          r.Table,
		Engine:         r.Engine,
		Passed:         r.Passed(),
		Summary:        r.Summary(),
		SchemaChecked:  r.SchemaChecked,
		Discrepancies:  r.Discrepancies,
		InsertsChecked: r.InsertsChecked,
		Scenarios:      r.Scenarios,
		Aborted:        r.Aborted,
	}
	if out.Discrepancies == nil {
		out.Discrepancies = []schema.Discrepancy{}
	}
	if out.Scenarios == nil {
		out.Scenarios = []scenario.Result{}
	}

	enc := json.NewEncoder(f.writer)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
