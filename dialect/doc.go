// Package dialect defines the per-backend rendering strategy used by the
// statement compiler and the driver interfaces used to execute its output.
//
// # Backends
//
// Three backends ship with the module:
//
//   - MySQL: MySQL/MariaDB database (dialect/mysql)
//   - SQLite: SQLite database (dialect/sqlite)
//   - Postgres: PostgreSQL database (dialect/postgres)
//
// # Names
//
// Dialects are identified by name, which is also what Driver.Dialect
// returns:
//
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//	dialect.Postgres = "postgres"
//
// # Dialect Interface
//
// A Dialect maps logical column types to type names and supplies the
// auto-increment keyword. Implementations are stateless values and can be
// shared between goroutines:
//
//	type Dialect interface {
//	    Name() string
//	    TypeName(t field.Type, length int) (string, error)
//	    AutoIncrement() string
//	}
//
// Backends that differ from the backtick defaults implement the optional
// Quoter, LiteralQuoter and Limiter interfaces.
//
// # Driver Interface
//
// The Driver interface is implemented by dialect/sql and its decorators:
//
//	type Driver interface {
//	    ExecQuerier
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
package dialect
