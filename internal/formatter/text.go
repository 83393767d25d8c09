package formatter

import (
	"fmt"
	"io"

	"github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora/internal/report"
)

// TextFormatter formats a report as compact text
type TextFormatter struct {
	writer io.Writer
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{writer: w}
}

// Format writes the report in compact text format
func (f *TextFormatter) Format(r *report.Report) error {
	engine := ""
	if r.Engine != "" {
		engine = " on " + r.Engine
	}
	_, _ = fmt.Fprintf(f.writer, "CHECK %s%s (run %s)\n", r.Table, engine, r.RunID)

	_, _ = fmt.Fprintln(f.writer)
	f.formatSchema(r)

	_, _ = fmt.Fprintln(f.writer)
	f.formatScenarios(r)

	if r.Aborted != "" {
		_, _ = fmt.Fprintln(f.writer)
		_, _ = fmt.Fprintf(f.writer, "ABORTED: %s\n", r.Aborted)
	}

	_, _ = fmt.Fprintln(f.writer)
	_, _ = fmt.Fprintf(f.writer, "RESULT %s: %s\n", verdict(r), r.Summary())
	return nil
}

func (f *TextFormatter) formatSchema(r *report.Report) {
	if !r.SchemaChecked {
		_, _ = fmt.Fprintln(f.writer, "SCHEMA: skipped")
		return
	}
	if len(r.Discrepancies) == 0 {
		_, _ = fmt.Fprintln(f.writer, "SCHEMA: ok")
		return
	}

	_, _ = fmt.Fprintln(f.writer, "SCHEMA:")
	for _, d := range r.Discrepancies {
		_, _ = fmt.Fprintf(f.writer, "  %s\n", d)
	}
}

func (f *TextFormatter) formatScenarios(r *report.Report) {
	if !r.InsertsChecked {
		_, _ = fmt.Fprintln(f.writer, "SCENARIOS: skipped")
		return
	}

	_, _ = fmt.Fprintln(f.writer, "SCENARIOS:")
	for _, res := range r.Scenarios {
		if res.Passed() {
			_, _ = fmt.Fprintf(f.writer, "  PASS %s: %s\n", res.Scenario, res.Actual)
			continue
		}
		_, _ = fmt.Fprintf(f.writer, "  FAIL %s: %s\n", res.Scenario, res.Reason)
		_, _ = fmt.Fprintf(f.writer, "    %s\n", res.Statement)
	}
}

func verdict(r *report.Report) string {
	if r.Passed() {
		return "PASS"
	}
	return "FAIL"
}
