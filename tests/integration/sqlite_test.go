//go:build integration
// +build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora/internal/db"
	"github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora/internal/scenario"
	"github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora/internal/schema"
)

func sqliteClient(t *testing.T, ctx context.Context) *db.SQLiteClient {
	t.Helper()

	// Use environment variable if set, otherwise use a scratch database
	dbPath := os.Getenv("SQLITE_TEST_PATH")
	if dbPath == "" {
		dbPath = filepath.Join(t.TempDir(), "test.db")
	}

	client, err := db.NewSQLiteClient(ctx, dbPath)
	if err != nil {
		t.Fatalf("Failed to connect to SQLite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	applyDDL(t, ctx, "users_sqlite.sql", func(ctx context.Context, stmt string) error {
		_, err := client.GetDB().ExecContext(ctx, stmt)
		return err
	})
	return client
}

func TestSQLiteSchema(t *testing.T) {
	ctx := context.Background()
	client := sqliteClient(t, ctx)

	snapshot, err := db.NewSQLiteIntrospector(client).Introspect(ctx, schema.UsersTable)
	if err != nil {
		t.Fatalf("Failed to introspect: %v", err)
	}

	if got := snapshot["email"]; got != "VARCHAR(255)" {
		t.Errorf("Expected email declared as VARCHAR(255), got %q", got)
	}

	// The Postgres contract names catalog types SQLite never reports
	discrepancies := schema.Compare(schema.Users(), snapshot)
	if len(discrepancies) != schema.Users().Len() {
		t.Errorf("Expected every field to mismatch, got %d discrepancies", len(discrepancies))
	}
	for _, d := range discrepancies {
		if d.Kind != schema.TypeMismatch {
			t.Errorf("Expected type mismatch, got %s", d)
		}
	}
}

func TestSQLiteScenarios(t *testing.T) {
	ctx := context.Background()
	client := sqliteClient(t, ctx)
	target := db.NewSQLiteTarget(client)

	// SQLite enforces neither length nor date syntax, so only the NOT NULL
	// and CHECK scenarios of the users suite apply unchanged
	keep := map[string]bool{
		"invalid_email":    true,
		"empty_first_name": true,
		"long_password":    true,
		"enabled_false":    true,
		"null_updated_at":  true,
	}
	var suite []scenario.Scenario
	for _, sc := range scenario.Users(nil) {
		if keep[sc.Name] {
			suite = append(suite, sc)
		}
	}

	results, err := scenario.NewRunner(target, schema.UsersTable).RunAll(ctx, suite)
	if err != nil {
		t.Fatalf("Suite aborted: %v", err)
	}

	verifyAllPassed(t, results, len(keep))
	verifyEmpty(t, ctx, target, schema.UsersTable)
}
