package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// applicationName tags dbcheck sessions in pg_stat_activity
const applicationName = "dbcheck"

// PostgresClient holds the one session every scenario of a run shares.
// A pool would let a reset and the next insert land on different backends.
type PostgresClient struct {
	conn *pgx.Conn
}

// NewPostgresClient opens a PostgreSQL session from a URL or keyword/value string
func NewPostgresClient(ctx context.Context, connString string) (*PostgresClient, error) {
	cfg, err := pgx.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if _, ok := cfg.RuntimeParams["application_name"]; !ok {
		cfg.RuntimeParams["application_name"] = applicationName
	}

	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresClient{conn: conn}, nil
}

// Close ends the session
func (c *PostgresClient) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}

// GetConnection returns the shared session
func (c *PostgresClient) GetConnection() *pgx.Conn {
	return c.conn
}
