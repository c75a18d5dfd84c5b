package sqlforge_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/sqlforge"
)

func TestInvalidOperationError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := sqlforge.NewInvalidOperationError("select", "missing FROM")
		assert.Equal(t, "sqlforge: invalid select: missing FROM", err.Error())

		err = sqlforge.NewInvalidOperationError("", "unknown statement")
		assert.Equal(t, "sqlforge: invalid operation: unknown statement", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := sqlforge.NewInvalidOperationError("insert", "missing values")
		assert.True(t, errors.Is(err, sqlforge.ErrInvalidOperation))
		assert.False(t, errors.Is(err, sqlforge.ErrInvalidModel))
	})

	t.Run("IsInvalidOperation", func(t *testing.T) {
		err := sqlforge.NewInvalidOperationError("delete", "missing FROM")
		assert.True(t, sqlforge.IsInvalidOperation(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, sqlforge.IsInvalidOperation(wrapped))

		// Sentinel error
		assert.True(t, sqlforge.IsInvalidOperation(sqlforge.ErrInvalidOperation))

		// Non-matching error
		assert.False(t, sqlforge.IsInvalidOperation(errors.New("other error")))
		assert.False(t, sqlforge.IsInvalidOperation(nil))
	})
}

func TestUnsupportedTypeError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := sqlforge.NewUnsupportedTypeError("mysql", "invalid")
		assert.Equal(t, `sqlforge: unsupported type "invalid" for dialect mysql`, err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := sqlforge.NewUnsupportedTypeError("sqlite", "invalid")
		assert.True(t, errors.Is(err, sqlforge.ErrUnsupportedType))
		// Type mapping failures are invalid operations as well.
		assert.True(t, errors.Is(err, sqlforge.ErrInvalidOperation))
		assert.True(t, sqlforge.IsInvalidOperation(err))
	})

	t.Run("IsUnsupportedType", func(t *testing.T) {
		err := sqlforge.NewUnsupportedTypeError("postgres", "invalid")
		assert.True(t, sqlforge.IsUnsupportedType(fmt.Errorf("compile: %w", err)))
		assert.False(t, sqlforge.IsUnsupportedType(sqlforge.ErrInvalidOperation))
		assert.False(t, sqlforge.IsUnsupportedType(nil))
	})
}

func TestModelError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := sqlforge.NewModelError("id", "AutoIncrement requires PrimaryKey")
		assert.Equal(t, `sqlforge: field "id": AutoIncrement requires PrimaryKey`, err.Error())

		err = sqlforge.NewModelError("", "bad value")
		assert.Equal(t, "sqlforge: bad value", err.Error())
	})

	t.Run("IsModelError", func(t *testing.T) {
		err := sqlforge.NewModelError("id", "duplicate AutoIncrement")
		assert.True(t, errors.Is(err, sqlforge.ErrInvalidModel))
		assert.True(t, sqlforge.IsModelError(fmt.Errorf("wrapper: %w", err)))
		assert.True(t, sqlforge.IsModelError(errors.Join(errors.New("other"), err)))
		assert.False(t, sqlforge.IsModelError(sqlforge.NewInvalidOperationError("", "x")))
		assert.False(t, sqlforge.IsModelError(nil))
	})
}
