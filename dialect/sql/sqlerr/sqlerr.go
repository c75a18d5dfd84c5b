// Package sqlerr classifies errors returned by the database/sql drivers
// supported by sqlforge. Errors wrapped with %w are unwrapped.
package sqlerr

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	msqlite "github.com/mattn/go-sqlite3"
	"modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

// Kind is the class of a driver error.
type Kind string

// Error kinds.
const (
	KindUnknown     Kind = ""
	KindUnique      Kind = "unique_violation"
	KindForeignKey  Kind = "foreign_key_violation"
	KindNotNull     Kind = "not_null_violation"
	KindCheck       Kind = "check_violation"
	KindDataTooLong Kind = "data_too_long"
)

// PostgreSQL SQLSTATE codes (class 22 and 23).
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgStringTruncation    = "22001"
)

// MySQL server error numbers.
const (
	mysqlDuplicateEntry    = 1062
	mysqlBadNull           = 1048
	mysqlNoDefaultForField = 1364
	mysqlRowIsReferenced   = 1451
	mysqlNoReferencedRow   = 1452
	mysqlDataTooLong       = 1406
	mysqlCheckViolated     = 3819
)

// Classify returns the kind of err, or KindUnknown.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var (
		pgErr  *pgconn.PgError
		pqErr  *pq.Error
		myErr  *mysql.MySQLError
		mcErr  *sqlite.Error
		cgoErr msqlite.Error
	)
	switch {
	case errors.As(err, &pgErr):
		return sqlState(pgErr.Code)
	case errors.As(err, &pqErr):
		return sqlState(string(pqErr.Code))
	case errors.As(err, &myErr):
		return mysqlNumber(myErr.Number)
	case errors.As(err, &mcErr):
		if k := sqliteCode(mcErr.Code()); k != KindUnknown {
			return k
		}
	case errors.As(err, &cgoErr):
		if k := sqliteCode(int(cgoErr.ExtendedCode)); k != KindUnknown {
			return k
		}
	}
	return fromMessage(err.Error())
}

func sqlState(code string) Kind {
	switch code {
	case pgUniqueViolation:
		return KindUnique
	case pgForeignKeyViolation:
		return KindForeignKey
	case pgNotNullViolation:
		return KindNotNull
	case pgCheckViolation:
		return KindCheck
	case pgStringTruncation:
		return KindDataTooLong
	default:
		return KindUnknown
	}
}

func mysqlNumber(n uint16) Kind {
	switch n {
	case mysqlDuplicateEntry:
		return KindUnique
	case mysqlRowIsReferenced, mysqlNoReferencedRow:
		return KindForeignKey
	case mysqlBadNull, mysqlNoDefaultForField:
		return KindNotNull
	case mysqlCheckViolated:
		return KindCheck
	case mysqlDataTooLong:
		return KindDataTooLong
	default:
		return KindUnknown
	}
}

// sqliteCode maps an extended result code. Both SQLite drivers use the
// codes of the C library.
func sqliteCode(code int) Kind {
	switch code {
	case sqlitelib.SQLITE_CONSTRAINT_UNIQUE, sqlitelib.SQLITE_CONSTRAINT_PRIMARYKEY:
		return KindUnique
	case sqlitelib.SQLITE_CONSTRAINT_FOREIGNKEY:
		return KindForeignKey
	case sqlitelib.SQLITE_CONSTRAINT_NOTNULL:
		return KindNotNull
	case sqlitelib.SQLITE_CONSTRAINT_CHECK:
		return KindCheck
	case sqlitelib.SQLITE_TOOBIG:
		return KindDataTooLong
	default:
		return KindUnknown
	}
}

// fromMessage is the fallback for drivers that report a primary result
// code only, or errors flattened to strings by a wrapper.
func fromMessage(msg string) Kind {
	switch {
	case containsAny(msg, "Error 1062", "violates unique constraint", "UNIQUE constraint failed"):
		return KindUnique
	case containsAny(msg, "Error 1451", "Error 1452", "violates foreign key constraint", "FOREIGN KEY constraint failed"):
		return KindForeignKey
	case containsAny(msg, "Error 1048", "violates not-null constraint", "NOT NULL constraint failed"):
		return KindNotNull
	case containsAny(msg, "Error 3819", "violates check constraint", "CHECK constraint failed"):
		return KindCheck
	default:
		return KindUnknown
	}
}

// IsConstraintError reports if the error resulted from a database constraint violation.
func IsConstraintError(err error) bool {
	switch Classify(err) {
	case KindUnique, KindForeignKey, KindNotNull, KindCheck:
		return true
	default:
		return false
	}
}

// IsUniqueConstraintError reports if the error resulted from a DB uniqueness constraint violation.
// e.g. duplicate value in unique index.
func IsUniqueConstraintError(err error) bool { return Classify(err) == KindUnique }

// IsForeignKeyConstraintError reports if the error resulted from a database foreign-key constraint violation.
// e.g. parent row does not exist.
func IsForeignKeyConstraintError(err error) bool { return Classify(err) == KindForeignKey }

// IsNotNullConstraintError reports if the error resulted from a NULL written to a NOT NULL column.
func IsNotNullConstraintError(err error) bool { return Classify(err) == KindNotNull }

// IsCheckConstraintError reports if the error resulted from a database check constraint violation.
func IsCheckConstraintError(err error) bool { return Classify(err) == KindCheck }

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
