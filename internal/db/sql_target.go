package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora/internal/scenario"
	"github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora/internal/schema"
)

// sqlDialect is a scenario.Dialect that also knows how to empty a table
type sqlDialect interface {
	scenario.Dialect
	truncate(table string) string
}

// SQLTarget runs insertion scenarios over a database/sql connection
type SQLTarget struct {
	db      *sql.DB
	dialect sqlDialect
}

// Exec runs stmt and returns the affected row count
func (t *SQLTarget) Exec(ctx context.Context, stmt string) (int64, error) {
	res, err := t.db.ExecContext(ctx, stmt)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Rows returns every row of table
func (t *SQLTarget) Rows(ctx context.Context, table string) ([]map[string]any, error) {
	rows, err := t.db.QueryContext(ctx, "SELECT * FROM "+t.QuoteIdent(table))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(columns))
		for i, name := range columns {
			row[name] = values[i]
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// Reset removes every row of table
func (t *SQLTarget) Reset(ctx context.Context, table string) error {
	if _, err := t.db.ExecContext(ctx, t.dialect.truncate(table)); err != nil {
		return fmt.Errorf("failed to truncate %s: %w", table, err)
	}
	return nil
}

// QuoteIdent quotes name for the target's dialect
func (t *SQLTarget) QuoteIdent(name string) string { return t.dialect.QuoteIdent(name) }

// DefaultValues returns the all-defaults insert clause for the target's dialect
func (t *SQLTarget) DefaultValues() string { return t.dialect.DefaultValues() }

// Classify maps a driver error to a scenario failure
func (t *SQLTarget) Classify(err error) (*scenario.Failure, bool) { return t.dialect.Classify(err) }

// scanSnapshot collects (name, type) rows into a snapshot
func scanSnapshot(rows *sql.Rows, tableName string) (schema.Snapshot, error) {
	snapshot := make(schema.Snapshot)
	for rows.Next() {
		var name, dataType string
		if err := rows.Scan(&name, &dataType); err != nil {
			return nil, fmt.Errorf("failed to scan column of %s: %w", tableName, err)
		}
		snapshot[name] = dataType
	}
	return snapshot, rows.Err()
}
