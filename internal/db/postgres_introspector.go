package db

import (
	"context"
	"fmt"

	"github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora/internal/schema"
)

// PostgresIntrospector reads column types from information_schema
type PostgresIntrospector struct {
	client *PostgresClient
	schema string
}

// NewPostgresIntrospector creates an introspector for tables in schemaName
func NewPostgresIntrospector(client *PostgresClient, schemaName string) *PostgresIntrospector {
	if schemaName == "" {
		schemaName = "public"
	}
	return &PostgresIntrospector{
		client: client,
		schema: schemaName,
	}
}

// Introspect returns column name → data_type for tableName.
// data_type is reported as the catalog spells it, e.g. "character varying".
func (i *PostgresIntrospector) Introspect(ctx context.Context, tableName string) (schema.Snapshot, error) {
	query := `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_name = $1::text AND table_schema = $2
		ORDER BY ordinal_position
	`

	rows, err := i.client.GetConnection().Query(ctx, query, tableName, i.schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns of %s: %w", tableName, err)
	}
	defer rows.Close()

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
