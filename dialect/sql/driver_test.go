package sql

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlforge"
	"github.com/syssam/sqlforge/dialect"
)

func newMock(t *testing.T, driverName string) (*Driver, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return OpenDB(driverName, db), mock
}

// TestOpenDB tests the OpenDB function with different driver names.
func TestOpenDB(t *testing.T) {
	tests := []struct {
		driver  string
		dialect string
	}{
		{"postgres", dialect.Postgres},
		{"pgx", dialect.Postgres},
		{"mysql", dialect.MySQL},
		{"sqlite", dialect.SQLite},
		{"sqlite3", dialect.SQLite},
		{"oracle", "oracle"},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			drv, _ := newMock(t, tt.driver)
			assert.NotNil(t, drv.DB())
			assert.Equal(t, tt.dialect, drv.Dialect())
		})
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"mysql", "sqlite", "sqlite3", "postgres", "pgx"} {
		d, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, dialectOf(name), d.Name())
	}
	_, err := Lookup("oracle")
	assert.EqualError(t, err, `dialect/sql: unknown dialect "oracle"`)
}

// TestDriverQuery tests query operations.
func TestDriverQuery(t *testing.T) {
	drv, mock := newMock(t, dialect.Postgres)

	t.Run("query_with_args", func(t *testing.T) {
		mock.ExpectQuery("SELECT name FROM users WHERE id = $1").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Alice"))

		rows := &Rows{}
		err := drv.Query(context.Background(), "SELECT name FROM users WHERE id = $1", []any{1}, rows)
		require.NoError(t, err)
		require.NoError(t, rows.Close())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query_error", func(t *testing.T) {
		expectedErr := errors.New("database error")
		mock.ExpectQuery("SELECT").WillReturnError(expectedErr)

		err := drv.Query(context.Background(), "SELECT", []any{}, &Rows{})
		require.ErrorIs(t, err, expectedErr)
		assert.Contains(t, err.Error(), "dialect/sql: query:")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid_types", func(t *testing.T) {
		err := drv.Query(context.Background(), "SELECT 1", []any{}, nil)
		assert.EqualError(t, err, "dialect/sql: invalid type <nil>. expect *sql.Rows")
		err = drv.Query(context.Background(), "SELECT 1", 1, &Rows{})
		assert.EqualError(t, err, "dialect/sql: invalid type int. expect []any for args")
	})
}

// TestDriverExec tests execute operations.
func TestDriverExec(t *testing.T) {
	drv, mock := newMock(t, dialect.Postgres)

	t.Run("exec_with_result", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET name = $1 WHERE id = $2").
			WithArgs("Alice", 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		var res Result
		err := drv.Exec(context.Background(), "UPDATE users SET name = $1 WHERE id = $2", []any{"Alice", 1}, &res)
		require.NoError(t, err)
		n, err := res.RowsAffected()
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec_error", func(t *testing.T) {
		expectedErr := errors.New("constraint violation")
		mock.ExpectExec("DELETE FROM users").WillReturnError(expectedErr)

		err := drv.Exec(context.Background(), "DELETE FROM users", []any{}, nil)
		require.ErrorIs(t, err, expectedErr)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid_result", func(t *testing.T) {
		err := drv.Exec(context.Background(), "DELETE FROM users", []any{}, 1)
		assert.EqualError(t, err, "dialect/sql: invalid type int. expect *sql.Result")
	})
}

// TestDriverTransaction tests transaction operations.
func TestDriverTransaction(t *testing.T) {
	drv, mock := newMock(t, dialect.MySQL)

	t.Run("successful_commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO users (name) VALUES ('test')").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		tx, err := drv.Tx(context.Background())
		require.NoError(t, err)
		err = tx.Exec(context.Background(), "INSERT INTO users (name) VALUES ('test')", []any{}, nil)
		require.NoError(t, err)
		require.NoError(t, tx.Commit())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO users (name) VALUES ('test')").WillReturnError(errors.New("error"))
		mock.ExpectRollback()

		tx, err := drv.Tx(context.Background())
		require.NoError(t, err)
		err = tx.Exec(context.Background(), "INSERT INTO users (name) VALUES ('test')", []any{}, nil)
		require.Error(t, err)
		require.NoError(t, tx.Rollback())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin_error", func(t *testing.T) {
		mock.ExpectBegin().WillReturnError(errors.New("no connection"))
		_, err := drv.Tx(context.Background())
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestExecutor(t *testing.T) {
	t.Run("mysql", func(t *testing.T) {
		drv, mock := newMock(t, dialect.MySQL)
		ex, err := NewExecutor(drv)
		require.NoError(t, err)
		assert.Equal(t, dialect.MySQL, ex.Dialect().Name())

		mock.ExpectExec("UPDATE `accounts` SET `name` = ? WHERE `accountId` = ? ;").
			WithArgs("Jane", 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		n, err := ex.Exec(context.Background(), Update("accounts").Set("name", "Jane").Where("accountId", OpEQ, 1))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("postgres", func(t *testing.T) {
		drv, mock := newMock(t, "pgx")
		ex, err := NewExecutor(drv)
		require.NoError(t, err)

		mock.ExpectQuery(`SELECT "id", "name" FROM "accounts" WHERE "name" LIKE $1 AND "id" > $2 ;`).
			WithArgs("J%", 10).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(11, "Jane").AddRow(12, "John"))
		rows, err := ex.Query(context.Background(), Select("id", "name").From("accounts").Where("name", OpLike, "J%").Where("id", OpGT, 10))
		require.NoError(t, err)
		defer rows.Close()

		var names []any
		for rows.Next() {
			row := make(map[string]any)
			require.NoError(t, rows.ScanNamed(row))
			names = append(names, row["name"])
		}
		require.NoError(t, rows.Err())
		assert.Equal(t, []any{"Jane", "John"}, names)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("compile_error", func(t *testing.T) {
		drv, mock := newMock(t, dialect.MySQL)
		ex, err := NewExecutor(drv)
		require.NoError(t, err)
		_, err = ex.Exec(context.Background(), Update("accounts"))
		assert.True(t, sqlforge.IsInvalidOperation(err))
		_, err = ex.Query(context.Background(), Select("*"))
		assert.True(t, sqlforge.IsInvalidOperation(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("transaction", func(t *testing.T) {
		drv, mock := newMock(t, dialect.MySQL)
		ex, err := NewExecutor(drv)
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM `accounts` WHERE `accountId` = ? ;").
			WithArgs(7).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := ex.Tx(context.Background())
		require.NoError(t, err)
		n, err := tx.Exec(context.Background(), Delete().From("accounts").Where("accountId", OpEQ, 7))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		_, err = tx.Tx(context.Background())
		assert.EqualError(t, err, "dialect/sql: nested transactions are not supported")
		require.NoError(t, tx.Commit())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown_dialect", func(t *testing.T) {
		drv, _ := newMock(t, "oracle")
		_, err := NewExecutor(drv)
		assert.Error(t, err)
	})
}

// TestContextCancellation tests that context cancellation is respected.
func TestContextCancellation(t *testing.T) {
	drv, mock := newMock(t, dialect.Postgres)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock.ExpectQuery("SELECT 1").WillReturnError(context.Canceled)
	err := drv.Query(ctx, "SELECT 1", []any{}, &Rows{})
	assert.Error(t, err)
}

// TestScanNamedNulls tests scanning NULL values by column name.
func TestScanNamedNulls(t *testing.T) {
	drv, mock := newMock(t, dialect.MySQL)
	mock.ExpectQuery("SELECT name, email FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"name", "email"}).
			AddRow([]byte("Alice"), nil))

	rows := &Rows{}
	err := drv.Query(context.Background(), "SELECT name, email FROM users", []any{}, rows)
	require.NoError(t, err)
	require.True(t, rows.Next())
	row := map[string]any{}
	require.NoError(t, rows.ScanNamed(row))
	assert.Equal(t, map[string]any{"name": "Alice", "email": nil}, row)
	require.False(t, rows.Next())
	require.NoError(t, rows.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

// BenchmarkDriver benchmarks driver operations.
func BenchmarkDriver(b *testing.B) {
	db, mock, err := sqlmock.New()
	if err != nil {
		b.Fatal(err)
	}
	defer db.Close()

	drv := OpenDB(dialect.MySQL, db)
	ex, err := NewExecutor(drv)
	if err != nil {
		b.Fatal(err)
	}

	b.Run("Exec_Compiled", func(b *testing.B) {
		q := InsertInto("t").Value("a", 1).Value("b", "x")
		for i := 0; i < b.N; i++ {
			mock.ExpectExec("INSERT").WillReturnResult(sqlmock.NewResult(1, 1))
			_, _ = ex.Exec(context.Background(), q)
		}
	})

	b.Run("Transaction_Lifecycle", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			mock.ExpectBegin()
			mock.ExpectCommit()
			tx, _ := drv.Tx(context.Background())
			_ = tx.Commit()
		}
	})
}
