//go:build integration
// +build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora/internal/scenario"
	"github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora/internal/schema"
)

// execFunc runs one DDL statement
type execFunc func(ctx context.Context, stmt string) error

// applyDDL runs every statement of testdata/name, one at a time, since not
// every driver accepts multi-statement strings
func applyDDL(t *testing.T, ctx context.Context, name string, exec execFunc) {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("Failed to read %s: %v", name, err)
	}

	for _, stmt := range strings.Split(string(data), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if err := exec(ctx, stmt); err != nil {
			t.Fatalf("Failed to apply %s: %v\n%s", name, err, stmt)
		}
	}
}

// verifyConformant fails the test for every discrepancy
func verifyConformant(t *testing.T, expected *schema.Definition, snapshot schema.Snapshot) {
	t.Helper()

	for _, d := range schema.Compare(expected, snapshot) {
		t.Errorf("Unexpected discrepancy: %s", d)
	}
}

// verifyAllPassed fails the test for every scenario that did not pass
func verifyAllPassed(t *testing.T, results []scenario.Result, want int) {
	t.Helper()

	if len(results) != want {
		t.Errorf("Expected %d results, got %d", want, len(results))
	}
	for _, res := range results {
		if !res.Passed() {
			t.Errorf("Scenario %s failed: %s\n  statement: %s\n  actual: %s", res.Scenario, res.Reason, res.Statement, res.Actual)
		}
	}
}

// verifyEmpty checks that the table holds no rows after a run
func verifyEmpty(t *testing.T, ctx context.Context, target scenario.Executor, table string) {
	t.Helper()

	rows, err := target.Rows(ctx, table)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", table, err)
	}
	if len(rows) != 0 {
		t.Errorf("Expected %s to be empty after the run, found %d rows", table, len(rows))
	}
}
