package db

import (
	"github.com/mattn/go-sqlite3"

	"github.com/juvalmar2915/organizacion-del-desarrollo-actividad-integradora/internal/scenario"
)

// PostgreSQL SQLSTATE codes, see Appendix A of the PostgreSQL manual
const (
	sqlstateCheckViolation        = "23514"
	sqlstateNotNullViolation      = "23502"
	sqlstateStringTruncation      = "22001"
	sqlstateInvalidDatetimeFormat = "22007"
	sqlstateDatetimeFieldOverflow = "22008"
	sqlstateInvalidTextRepr       = "22P02"
	sqlstateNumericOutOfRange     = "22003"
)

func postgresCategory(code string) scenario.Category {
	switch code {
	case sqlstateCheckViolation:
		return scenario.CheckConstraint
	case sqlstateNotNullViolation:
		return scenario.NotNullConstraint
	case sqlstateStringTruncation:
		return scenario.LengthOverflow
	case sqlstateInvalidDatetimeFormat, sqlstateDatetimeFieldOverflow, sqlstateInvalidTextRepr, sqlstateNumericOutOfRange:
		return scenario.TypeCoercionError
	default:
		return scenario.Unclassified
	}
}

// MySQL server error numbers
const (
	mysqlErrBadNull            = 1048 // ER_BAD_NULL_ERROR
	mysqlErrNoDefaultForField  = 1364 // ER_NO_DEFAULT_FOR_FIELD
	mysqlErrDataTooLong        = 1406 // ER_DATA_TOO_LONG
	mysqlErrTruncatedWrongVal  = 1292 // ER_TRUNCATED_WRONG_VALUE
	mysqlErrWrongValueForField = 1366 // ER_TRUNCATED_WRONG_VALUE_FOR_FIELD
	mysqlErrOutOfRange         = 1264 // ER_WARN_DATA_OUT_OF_RANGE
	mysqlErrCheckViolated      = 3819 // ER_CHECK_CONSTRAINT_VIOLATED
)

func mysqlCategory(number uint16) scenario.Category {
	switch number {
	case mysqlErrCheckViolated:
		return scenario.CheckConstraint
	case mysqlErrBadNull, mysqlErrNoDefaultForField:
		return scenario.NotNullConstraint
	case mysqlErrDataTooLong:
		return scenario.LengthOverflow
	case mysqlErrTruncatedWrongVal, mysqlErrWrongValueForField, mysqlErrOutOfRange:
		return scenario.TypeCoercionError
	default:
		return scenario.Unclassified
	}
}

// SQLite enforces no declared lengths on ordinary tables. The one type it
// does enforce is the integer rowid alias, which reports SQLITE_MISMATCH.
func sqliteCategory(code sqlite3.ErrNoExtended) scenario.Category {
	switch code {
	case sqlite3.ErrConstraintCheck:
		return scenario.CheckConstraint
	case sqlite3.ErrConstraintNotNull:
		return scenario.NotNullConstraint
	case sqlite3.ErrNoExtended(sqlite3.ErrMismatch):
		return scenario.TypeCoercionError
	default:
		return scenario.Unclassified
	}
}
