package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora/internal/report"
	"github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora/internal/schema"
)

// MarkdownFormatter formats a report as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the report in markdown format
func (f *MarkdownFormatter) Format(r *report.Report) error {
	_, _ = fmt.Fprintf(f.writer, "# Schema Check: %s\n", r.Table)
	_, _ = fmt.Fprintln(f.writer)

	_, _ = fmt.Fprintf(f.writer, "- **Run:** %s\n", r.RunID)
	if r.Engine != "" {
		_, _ = fmt.Fprintf(f.writer, "- **Engine:** %s\n", r.Engine)
	}
	_, _ = fmt.Fprintf(f.writer, "- **Result:** %s\n", verdict(r))
	_, _ = fmt.Fprintf(f.writer, "- **Summary:** %s\n", r.Summary())
	if r.Aborted != "" {
		_, _ = fmt.Fprintf(f.writer, "- **Aborted:** %s\n", r.Aborted)
	}
	_, _ = fmt.Fprintln(f.writer)

	f.formatSchema(r)
	f.formatScenarios(r)
	return nil
}

func (f *MarkdownFormatter) formatSchema(r *report.Report) {
	_, _ = fmt.Fprintln(f.writer, "## Schema")
	_, _ = fmt.Fprintln(f.writer)

	switch {
	case !r.SchemaChecked:
		_, _ = fmt.Fprintln(f.writer, "Skipped.")
	case len(r.Discrepancies) == 0:
		_, _ = fmt.Fprintln(f.writer, "All expected fields present with matching types.")
	default:
		for _, d := range r.Discrepancies {
			_, _ = fmt.Fprintf(f.writer, "- %s\n", f.formatDiscrepancy(d))
		}
	}
	_, _ = fmt.Fprintln(f.writer)
}

func (f *MarkdownFormatter) formatDiscrepancy(d schema.Discrepancy) string {
	switch d.Kind {
	case schema.MissingField:
		return fmt.Sprintf("**%s:** missing", d.Field)
	case schema.TypeMismatch:
		return fmt.Sprintf("**%s:** `%s`, expected `%s`", d.Field, d.Actual, d.Expected)
	default:
		return d.String()
	}
}

func (f *MarkdownFormatter) formatScenarios(r *report.Report) {
	_, _ = fmt.Fprintln(f.writer, "## Scenarios")
	_, _ = fmt.Fprintln(f.writer)

	if !r.InsertsChecked {
		_, _ = fmt.Fprintln(f.writer, "Skipped.")
		return
	}

	_, _ = fmt.Fprintln(f.writer, "| Scenario | Status | Expected | Actual | Reason |")
	_, _ = fmt.Fprintln(f.writer, "|---|---|---|---|---|")
	for _, res := range r.Scenarios {
		_, _ = fmt.Fprintf(f.writer, "| %s | %s | %s | %s | %s |\n",
			escapeCell(res.Scenario),
			res.Status,
			escapeCell(res.Expected),
			escapeCell(res.Actual),
			escapeCell(res.Reason))
	}
}

// escapeCell keeps driver messages from breaking the table layout
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
