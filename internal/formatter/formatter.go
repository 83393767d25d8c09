package formatter

import (
	"fmt"
	"io"

	"github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora/internal/report"
)

// Formatter renders a report
type Formatter interface {
	Format(r *report.Report) error
}

// Formats lists the accepted format names
var Formats = []string{"text", "markdown", "json"}

// New returns the formatter for format writing to w
func New(format string, w io.Writer) (Formatter, error) {
	switch format {
	case "text":
		return NewTextFormatter(w), nil
	case "markdown":
		return NewMarkdownFormatter(w), nil
	case "json":
		return NewJSONFormatter(w), nil
	default:
		return nil, fmt.Errorf("invalid format: %s (must be 'text', 'markdown' or 'json')", format)
	}
}
