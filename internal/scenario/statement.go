package scenario

import (
	"strings"
)

// Quoter quotes identifiers and spells an all-defaults insert for one SQL dialect
type Quoter interface {
	QuoteIdent(name string) string
	// DefaultValues is the clause following the table name when no column is given.
	DefaultValues() string
}

// BuildInsert renders a single-row INSERT for the given columns.
// Columns not listed are left to their database defaults.
func BuildInsert(q Quoter, table string, columns []Column) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(q.QuoteIdent(table))

	if len(columns) == 0 {
		b.WriteString(" ")
		b.WriteString(q.DefaultValues())
		return b.String()
	}

	names := make([]string, len(columns))
	values := make([]string, len(columns))
	for i, col := range columns {
		names[i] = q.QuoteIdent(col.Name)
		values[i] = col.Value.SQL()
	}

	b.WriteString(" (")
	b.WriteString(strings.Join(names, ", "))
	b.WriteString(") VALUES (")
	b.WriteString(strings.Join(values, ", "))
	b.WriteString(")")
	return b.String()
}
