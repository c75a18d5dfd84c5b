package sqlforge

import (
	"errors"
	"fmt"
)

// Sentinel errors for the three error classes reported while building or
// compiling a statement. None of them is retryable: the caller has to fix the
// query and compile again.
var (
	// ErrInvalidOperation is returned when a query cannot be compiled, e.g.
	// because no statement kind is set or a required clause is missing.
	ErrInvalidOperation = errors.New("sqlforge: invalid operation")

	// ErrUnsupportedType is returned when a dialect has no column type for a
	// logical field type.
	ErrUnsupportedType = errors.New("sqlforge: unsupported type")

	// ErrInvalidModel is returned when a clause added to a query violates a
	// model invariant (e.g. AutoIncrement without PrimaryKey).
	ErrInvalidModel = errors.New("sqlforge: invalid model")
)

// InvalidOperationError reports a structural problem found by the compiler.
type InvalidOperationError struct {
	Op     string // Statement kind being compiled (e.g. "select"), empty if unknown.
	Reason string // Human readable reason, e.g. "missing FROM".
}

// Error returns the error string.
func (e *InvalidOperationError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("sqlforge: invalid %s: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("sqlforge: invalid operation: %s", e.Reason)
}

// Is reports whether the target error matches InvalidOperationError.
// This allows errors.Is(err, ErrInvalidOperation) to return true.
func (e *InvalidOperationError) Is(err error) bool {
	return err == ErrInvalidOperation
}

// NewInvalidOperationError returns a new InvalidOperationError.
func NewInvalidOperationError(op, reason string) *InvalidOperationError {
	return &InvalidOperationError{Op: op, Reason: reason}
}

// IsInvalidOperation returns true if the error is an invalid operation. Type
// mapping failures are invalid operations too.
func IsInvalidOperation(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidOperationError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidOperation) || IsUnsupportedType(err)
}

// UnsupportedTypeError is returned by a dialect that cannot map a logical type.
type UnsupportedTypeError struct {
	Dialect string // Dialect name.
	Type    string // Logical type name.
}

// Error returns the error string.
func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("sqlforge: unsupported type %q for dialect %s", e.Type, e.Dialect)
}

// Is reports whether the target error matches UnsupportedTypeError.
func (e *UnsupportedTypeError) Is(err error) bool {
	return err == ErrUnsupportedType || err == ErrInvalidOperation
}

// NewUnsupportedTypeError returns a new UnsupportedTypeError.
func NewUnsupportedTypeError(dialect, typ string) *UnsupportedTypeError {
	return &UnsupportedTypeError{Dialect: dialect, Type: typ}
}

// IsUnsupportedType returns true if the error is an UnsupportedTypeError.
func IsUnsupportedType(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedTypeError
	return errors.As(err, &e) || errors.Is(err, ErrUnsupportedType)
}

// ModelError reports an invariant violation detected while a clause was
// appended to a query.
type ModelError struct {
	Field  string // Field or column name the clause referred to.
	Reason string
}

// Error returns the error string.
func (e *ModelError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("sqlforge: field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("sqlforge: %s", e.Reason)
}

// Is reports whether the target error matches ModelError.
func (e *ModelError) Is(err error) bool {
	return err == ErrInvalidModel
}

// NewModelError returns a new ModelError.
func NewModelError(field, reason string) *ModelError {
	return &ModelError{Field: field, Reason: reason}
}

// IsModelError returns true if the error is a ModelError.
func IsModelError(err error) bool {
	if err == nil {
		return false
	}
	var e *ModelError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidModel)
}
