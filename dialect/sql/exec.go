package sql

import (
	"context"
	"errors"
	"fmt"

	"github.com/syssam/sqlforge/dialect"
)

var errNestedTx = errors.New("dialect/sql: nested transactions are not supported")

// Executor compiles queries with parameters and runs them on a driver or
// transaction. It works with any dialect.Driver, including the StatsDriver
// and DebugDriver decorators.
type Executor struct {
	ex      dialect.ExecQuerier
	dialect dialect.Dialect
}

// NewExecutor returns an Executor that compiles for the dialect of drv.
func NewExecutor(drv dialect.Driver) (*Executor, error) {
	d, err := Lookup(drv.Dialect())
	if err != nil {
		return nil, err
	}
	return &Executor{ex: drv, dialect: d}, nil
}

// Dialect returns the dialect queries are compiled for.
func (e *Executor) Dialect() dialect.Dialect { return e.dialect }

// Exec compiles and executes q and returns the number of affected rows.
func (e *Executor) Exec(ctx context.Context, q *Query) (int64, error) {
	query, args, err := e.bind(q)
	if err != nil {
		return 0, err
	}
	var res Result
	if err := e.ex.Exec(ctx, query, args, &res); err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("dialect/sql: rows affected: %w", err)
	}
	return n, nil
}

// Query compiles and executes q and returns a forward-only row reader.
// The caller must close the returned rows.
func (e *Executor) Query(ctx context.Context, q *Query) (*Rows, error) {
	query, args, err := e.bind(q)
	if err != nil {
		return nil, err
	}
	rows := &Rows{}
	if err := e.ex.Query(ctx, query, args, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Tx starts a transaction and returns an executor bound to it. It fails if
// the executor already runs inside a transaction.
func (e *Executor) Tx(ctx context.Context) (*TxExecutor, error) {
	drv, ok := e.ex.(dialect.Driver)
	if !ok {
		return nil, errNestedTx
	}
	tx, err := drv.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return &TxExecutor{Executor: &Executor{ex: tx, dialect: e.dialect}, tx: tx}, nil
}

func (e *Executor) bind(q *Query) (string, []any, error) {
	stmt, err := Compile(q, e.dialect, true)
	if err != nil {
		return "", nil, err
	}
	query, args := Bind(e.dialect.Name(), stmt)
	if args == nil {
		args = []any{}
	}
	return query, args, nil
}

// TxExecutor is an Executor running inside a transaction.
type TxExecutor struct {
	*Executor
	tx dialect.Tx
}

// Commit commits the transaction.
func (t *TxExecutor) Commit() error { return t.tx.Commit() }

// Rollback rolls back the transaction.
func (t *TxExecutor) Rollback() error { return t.tx.Rollback() }
