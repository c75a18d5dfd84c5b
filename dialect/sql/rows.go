package sql

import (
	"database/sql"
	"fmt"
)

// Rows is the forward-only reader returned by Executor.Query. It must be
// closed once the caller is done with it.
type Rows struct{ ColumnScanner }

// ColumnScanner is the subset of *sql.Rows a Rows reads from.
type ColumnScanner interface {
	Close() error
	ColumnTypes() ([]*sql.ColumnType, error)
	Columns() ([]string, error)
	Err() error
	Next() bool
	NextResultSet() bool
	Scan(dest ...any) error
}

// ScanNamed scans the current row into dest, keyed by column name.
// Values are stored as returned by the driver; use Scan for typed
// destinations.
func (r *Rows) ScanNamed(dest map[string]any) error {
	columns, err := r.Columns()
	if err != nil {
		return fmt.Errorf("dialect/sql: columns: %w", err)
	}
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := r.Scan(ptrs...); err != nil {
		return fmt.Errorf("dialect/sql: scan: %w", err)
	}
	for i, c := range columns {
		if b, ok := values[i].([]byte); ok {
			// Drivers may reuse the buffer on the next call to Next.
			values[i] = string(b)
		}
		dest[c] = values[i]
	}
	return nil
}
