package sql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/syssam/sqlforge/dialect"
	"github.com/syssam/sqlforge/dialect/mysql"
	"github.com/syssam/sqlforge/dialect/postgres"
	"github.com/syssam/sqlforge/dialect/sqlite"
)

type (
	// Result is an alias to sql.Result.
	Result = sql.Result
	// TxOptions is an alias to sql.TxOptions.
	TxOptions = sql.TxOptions
)

// Driver is a dialect.Driver over a database/sql connection pool. It runs
// statements that are already bound; use an Executor to run queries.
type Driver struct {
	Conn
	db   *sql.DB
	name string
}

// Open opens a connection pool with a registered database/sql driver:
// "mysql", "sqlite", "sqlite3", "postgres" or "pgx".
func Open(driverName, source string) (*Driver, error) {
	db, err := sql.Open(driverName, source)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: open %s: %w", driverName, err)
	}
	return OpenDB(driverName, db), nil
}

// OpenDB returns a Driver for a pool opened with driverName.
func OpenDB(driverName string, db *sql.DB) *Driver {
	return &Driver{Conn: Conn{db}, db: db, name: driverName}
}

// DB returns the underlying connection pool.
func (d *Driver) DB() *sql.DB { return d.db }

// Dialect implements dialect.Driver. The driver name is normalized to the
// dialect it speaks, e.g. "sqlite3" to "sqlite" and "pgx" to "postgres".
func (d *Driver) Dialect() string { return dialectOf(d.name) }

// Tx implements dialect.Driver.
func (d *Driver) Tx(ctx context.Context) (dialect.Tx, error) {
	return d.BeginTx(ctx, nil)
}

// BeginTx starts a transaction with the given options.
func (d *Driver) BeginTx(ctx context.Context, opts *TxOptions) (dialect.Tx, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: begin: %w", err)
	}
	return &Tx{Conn: Conn{tx}, Tx: tx}, nil
}

// Close closes the connection pool.
func (d *Driver) Close() error { return d.db.Close() }

// Tx is a transaction started by a Driver.
type Tx struct {
	Conn
	driver.Tx
}

// ExecQuerier is implemented by *sql.DB, *sql.Tx and *sql.Conn.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Conn adapts an ExecQuerier to dialect.ExecQuerier. Arguments must be a
// []any; Exec stores into a *Result (or nil) and Query into a *Rows.
type Conn struct {
	ExecQuerier
}

// Exec implements dialect.ExecQuerier.
func (c Conn) Exec(ctx context.Context, query string, args, v any) error {
	argv, err := argsOf(args)
	if err != nil {
		return err
	}
	res, ok := v.(*Result)
	if v != nil && !ok {
		return fmt.Errorf("dialect/sql: invalid type %T. expect *sql.Result", v)
	}
	r, err := c.ExecContext(ctx, query, argv...)
	if err != nil {
		return fmt.Errorf("dialect/sql: exec: %w", err)
	}
	if res != nil {
		*res = r
	}
	return nil
}

// Query implements dialect.ExecQuerier.
func (c Conn) Query(ctx context.Context, query string, args, v any) error {
	rows, ok := v.(*Rows)
	if !ok {
		return fmt.Errorf("dialect/sql: invalid type %T. expect *sql.Rows", v)
	}
	argv, err := argsOf(args)
	if err != nil {
		return err
	}
	r, err := c.QueryContext(ctx, query, argv...)
	if err != nil {
		return fmt.Errorf("dialect/sql: query: %w", err)
	}
	rows.ColumnScanner = r
	return nil
}

func argsOf(args any) ([]any, error) {
	argv, ok := args.([]any)
	if !ok {
		return nil, fmt.Errorf("dialect/sql: invalid type %T. expect []any for args", args)
	}
	return argv, nil
}

func dialectOf(driverName string) string {
	if driverName == "pgx" {
		return dialect.Postgres
	}
	// Driver names may carry a suffix, e.g. "sqlite3".
	for _, name := range dialect.Names() {
		if strings.HasPrefix(driverName, name) {
			return name
		}
	}
	return driverName
}

// Lookup returns the dialect for a dialect or database/sql driver name.
func Lookup(name string) (dialect.Dialect, error) {
	switch dialectOf(name) {
	case dialect.MySQL:
		return mysql.New(), nil
	case dialect.SQLite:
		return sqlite.New(), nil
	case dialect.Postgres:
		return postgres.New(), nil
	default:
		return nil, fmt.Errorf("dialect/sql: unknown dialect %q", name)
	}
}

var _ dialect.Driver = (*Driver)(nil)
