package db

import (
	"context"
	"fmt"

	"github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora/internal/schema"
)

// MySQLIntrospector reads column types from information_schema
type MySQLIntrospector struct {
	client *MySQLClient
	schema string
}

// NewMySQLIntrospector creates an introspector; an empty schemaName means the
// connection's current database
func NewMySQLIntrospector(client *MySQLClient, schemaName string) *MySQLIntrospector {
	return &MySQLIntrospector{
		client: client,
		schema: schemaName,
	}
}

// Introspect returns column name → data_type for tableName
func (i *MySQLIntrospector) Introspect(ctx context.Context, tableName string) (schema.Snapshot, error) {
	query := `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE()) AND table_name = ?
		ORDER BY ordinal_position
	`

	rows, err := i.client.GetDB().QueryContext(ctx, query, i.schema, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s: %w", tableName, err)
	}
	defer rows.Close()

	return scanSnapshot(rows, tableName)
}
