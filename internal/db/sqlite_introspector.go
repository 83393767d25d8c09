package db

import (
	"context"
	"fmt"

	"github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora/internal/schema"
)

// SQLiteIntrospector reads declared column types with PRAGMA table_info
type SQLiteIntrospector struct {
	client *SQLiteClient
}

// NewSQLiteIntrospector creates a new SQLite introspector
func NewSQLiteIntrospector(client *SQLiteClient) *SQLiteIntrospector {
	return &SQLiteIntrospector{client: client}
}

// Introspect returns column name → declared type for tableName
func (i *SQLiteIntrospector) Introspect(ctx context.Context, tableName string) (schema.Snapshot, error) {
	rows, err := i.client.GetDB().QueryContext(ctx, "SELECT name, type FROM pragma_table_info(?)", tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s: %w", tableName, err)
	}
	defer rows.Close()

	return scanSnapshot(rows, tableName)
}
