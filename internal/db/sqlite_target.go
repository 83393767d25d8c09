package db

import (
	"errors"
	"strconv"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora/internal/scenario"
)

// sqliteDialect spells SQLite statements and reads extended result codes
type sqliteDialect struct{}

func (sqliteDialect) QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (sqliteDialect) DefaultValues() string { return "DEFAULT VALUES" }

// SQLite has no TRUNCATE; an unqualified DELETE uses the truncate optimization
func (d sqliteDialect) truncate(table string) string { return "DELETE FROM " + d.QuoteIdent(table) }

func (sqliteDialect) Classify(err error) (*scenario.Failure, bool) {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return nil, false
	}
	// Busy, locked and I/O errors are environmental, not constraint rejections
	if sqliteErr.Code != sqlite3.ErrConstraint && sqliteErr.Code != sqlite3.ErrMismatch {
		return nil, false
	}
	return &scenario.Failure{
		Message:  err.Error(),
		Code:     strconv.Itoa(int(sqliteErr.ExtendedCode)),
		Category: sqliteCategory(sqliteErr.ExtendedCode),
	}, true
}

// NewSQLiteTarget creates a scenario target backed by client
func NewSQLiteTarget(client *SQLiteClient) *SQLTarget {
	return &SQLTarget{db: client.GetDB(), dialect: sqliteDialect{}}
}
