package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteClient holds the database a check runs against
type SQLiteClient struct {
	db *sql.DB
}

// NewSQLiteClient opens path with CHECK constraints enforced. The pool is
// capped at one connection: every connection to ":memory:" is a separate
// empty database, so the runner's reset, insert and read-back must share one.
func NewSQLiteClient(ctx context.Context, path string) (*SQLiteClient, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// A session left with ignore_check_constraints on would accept every insert
	if _, err := db.ExecContext(ctx, "PRAGMA ignore_check_constraints = OFF"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable check constraints: %w", err)
	}

	return &SQLiteClient{db: db}, nil
}

// Close closes the database connection
func (c *SQLiteClient) Close() error {
	return c.db.Close()
}

// GetDB returns the single-connection handle
func (c *SQLiteClient) GetDB() *sql.DB {
	return c.db
}
