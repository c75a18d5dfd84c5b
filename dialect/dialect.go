package dialect

import (
	"context"
	"database/sql/driver"

	"github.com/syssam/sqlforge/schema/field"
)

// Dialect names.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// Names returns the names of all supported dialects.
func Names() []string {
	return []string{MySQL, SQLite, Postgres}
}

// Dialect is the rendering strategy of one database backend.
type Dialect interface {
	// Name returns the dialect name, e.g. "mysql".
	Name() string
	// TypeName returns the column type for the logical type. A length > 0
	// is applied where the backend supports one; a length <= 0 means none.
	TypeName(t field.Type, length int) (string, error)
	// AutoIncrement returns the keyword that marks an auto-increment column.
	AutoIncrement() string
}

// Quoter is implemented by dialects that do not quote identifiers with
// backticks. Quote receives a single, unqualified identifier.
type Quoter interface {
	Quote(ident string) string
}

// LiteralQuoter is implemented by dialects that render inline string
// literals differently from the default double-quote wrapping.
type LiteralQuoter interface {
	QuoteLiteral(s string) string
}

// Limiter is implemented by dialects that do not support the
// "LIMIT start, count" form.
type Limiter interface {
	Limit(start, count int) string
}

// ExecQuerier wraps the 2 database operations.
type ExecQuerier interface {
	// Exec executes a query that does not return records. For example, in SQL, INSERT or UPDATE.
	// It scans the result into the pointer v. For SQL drivers, it is dialect/sql.Result.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a query that returns rows, typically a SELECT in SQL.
	// It scans the result into the pointer v. For SQL drivers, it is *dialect/sql.Rows.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface that wraps all necessary operations for executing
// compiled statements.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	// The provided context is used until the transaction is committed or rolled back.
	Tx(context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx wraps the Exec and Query operations in transaction.
type Tx interface {
	ExecQuerier
	driver.Tx
}
