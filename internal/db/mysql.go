package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// MySQLClient manages the connection to MySQL
type MySQLClient struct {
	db *sql.DB
}

// NewMySQLClient creates a new MySQL client from a go-sql-driver DSN
func NewMySQLClient(ctx context.Context, connString string) (*MySQLClient, error) {
	cfg, err := mysql.ParseDSN(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	// DATE and DATETIME columns scan into time.Time
	cfg.ParseTime = true

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &MySQLClient{db: db}, nil
}

// ParseDatabaseName returns the database selected by a go-sql-driver DSN
func ParseDatabaseName(connString string) (string, error) {
	cfg, err := mysql.ParseDSN(connString)
	if err != nil {
		return "", fmt.Errorf("failed to parse DSN: %w", err)
	}
	if cfg.DBName == "" {
		return "", fmt.Errorf("no database selected in DSN")
	}
	return cfg.DBName, nil
}

// Close closes the database connection
func (c *MySQLClient) Close() error {
	return c.db.Close()
}

// GetDB returns the underlying database connection
func (c *MySQLClient) GetDB() *sql.DB {
	return c.db
}
