package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora/internal/scenario"
)

// PostgresTarget runs insertion scenarios over a PostgresClient
type PostgresTarget struct {
	client *PostgresClient
}

// NewPostgresTarget creates a scenario target backed by client
func NewPostgresTarget(client *PostgresClient) *PostgresTarget {
	return &PostgresTarget{client: client}
}

// Exec runs stmt and returns the affected row count
func (t *PostgresTarget) Exec(ctx context.Context, stmt string) (int64, error) {
	tag, err := t.client.GetConnection().Exec(ctx, stmt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Rows returns every row of table
func (t *PostgresTarget) Rows(ctx context.Context, table string) ([]map[string]any, error) {
	rows, err := t.client.GetConnection().Query(ctx, "SELECT * FROM "+t.QuoteIdent(table))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", table, err)
	}
	return pgx.CollectRows(rows, pgx.RowToMap)
}

// Reset truncates table
func (t *PostgresTarget) Reset(ctx context.Context, table string) error {
	if _, err := t.client.GetConnection().Exec(ctx, "TRUNCATE "+t.QuoteIdent(table)); err != nil {
		return fmt.Errorf("failed to truncate %s: %w", table, err)
	}
	return nil
}

// QuoteIdent quotes name as a PostgreSQL identifier
func (t *PostgresTarget) QuoteIdent(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

// DefaultValues returns the all-defaults insert clause
func (t *PostgresTarget) DefaultValues() string {
	return "DEFAULT VALUES"
}

// Classify maps a server-reported error to a scenario failure using its SQLSTATE
func (t *PostgresTarget) Classify(err error) (*scenario.Failure, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil, false
	}
	return &scenario.Failure{
		Message:  err.Error(),
		Code:     pgErr.Code,
		Category: postgresCategory(pgErr.Code),
	}, true
}
