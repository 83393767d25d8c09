package db

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora/internal/scenario"
)

// mysqlDialect spells MySQL statements and reads server error numbers
type mysqlDialect struct{}

func (mysqlDialect) QuoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (mysqlDialect) DefaultValues() string { return "() VALUES ()" }

func (d mysqlDialect) truncate(table string) string { return "TRUNCATE TABLE " + d.QuoteIdent(table) }

func (mysqlDialect) Classify(err error) (*scenario.Failure, bool) {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return nil, false
	}
	return &scenario.Failure{
		Message:  err.Error(),
		Code:     strconv.Itoa(int(myErr.Number)),
		Category: mysqlCategory(myErr.Number),
	}, true
}

// NewMySQLTarget creates a scenario target backed by client
func NewMySQLTarget(client *MySQLClient) *SQLTarget {
	return &SQLTarget{db: client.GetDB(), dialect: mysqlDialect{}}
}
