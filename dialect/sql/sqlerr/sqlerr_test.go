package sqlerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	msqlite "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindUnknown},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, KindUnique},
		{"mysql fk parent", &mysql.MySQLError{Number: 1451}, KindForeignKey},
		{"mysql fk child", &mysql.MySQLError{Number: 1452}, KindForeignKey},
		{"mysql null", &mysql.MySQLError{Number: 1048}, KindNotNull},
		{"mysql no default", &mysql.MySQLError{Number: 1364}, KindNotNull},
		{"mysql check", &mysql.MySQLError{Number: 3819}, KindCheck},
		{"mysql too long", &mysql.MySQLError{Number: 1406}, KindDataTooLong},
		{"mysql other", &mysql.MySQLError{Number: 1146, Message: "Table doesn't exist"}, KindUnknown},
		{"pgx unique", &pgconn.PgError{Code: "23505"}, KindUnique},
		{"pgx not null", &pgconn.PgError{Code: "23502"}, KindNotNull},
		{"pgx truncation", &pgconn.PgError{Code: "22001"}, KindDataTooLong},
		{"pq fk", &pq.Error{Code: "23503"}, KindForeignKey},
		{"pq check", &pq.Error{Code: "23514"}, KindCheck},
		{"sqlite3 unique", msqlite.Error{Code: msqlite.ErrConstraint, ExtendedCode: msqlite.ErrConstraintUnique}, KindUnique},
		{"sqlite3 primary key", msqlite.Error{Code: msqlite.ErrConstraint, ExtendedCode: msqlite.ErrConstraintPrimaryKey}, KindUnique},
		{"sqlite3 not null", msqlite.Error{Code: msqlite.ErrConstraint, ExtendedCode: msqlite.ErrConstraintNotNull}, KindNotNull},
		{"sqlite3 fk", msqlite.Error{Code: msqlite.ErrConstraint, ExtendedCode: msqlite.ErrConstraintForeignKey}, KindForeignKey},
		{"message unique", errors.New("UNIQUE constraint failed: users.email"), KindUnique},
		{"message fk", errors.New(`pq: insert violates foreign key constraint "fk"`), KindForeignKey},
		{"message not null", errors.New("NOT NULL constraint failed: users.name"), KindNotNull},
		{"message check", errors.New("Error 3819: Check constraint 'c' is violated."), KindCheck},
		{"other", errors.New("connection refused"), KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
			if tt.err != nil {
				wrapped := fmt.Errorf("dialect/sql: exec: %w", tt.err)
				assert.Equal(t, tt.want, Classify(wrapped))
			}
		})
	}
}

func TestIsConstraintError(t *testing.T) {
	unique := fmt.Errorf("wrap: %w", &mysql.MySQLError{Number: 1062})
	assert.True(t, IsUniqueConstraintError(unique))
	assert.True(t, IsConstraintError(unique))
	assert.False(t, IsForeignKeyConstraintError(unique))

	fk := &pq.Error{Code: "23503"}
	assert.True(t, IsForeignKeyConstraintError(fk))
	assert.True(t, IsConstraintError(fk))

	nn := &pgconn.PgError{Code: "23502"}
	assert.True(t, IsNotNullConstraintError(nn))
	assert.True(t, IsConstraintError(nn))

	check := errors.New("CHECK constraint failed: positive")
	assert.True(t, IsCheckConstraintError(check))
	assert.True(t, IsConstraintError(check))

	tooLong := &mysql.MySQLError{Number: 1406}
	assert.False(t, IsConstraintError(tooLong))
	assert.False(t, IsConstraintError(nil))
	assert.False(t, IsUniqueConstraintError(nil))
}
