// Package sqlite implements the SQLite dialect. SQLite uses type affinity,
// so every integer width maps to "integer" and lengths are ignored.
package sqlite

import (
	"github.com/syssam/sqlforge"
	"github.com/syssam/sqlforge/dialect"
	"github.com/syssam/sqlforge/schema/field"
)

// Dialect renders statements for SQLite.
type Dialect struct{}

// New returns the SQLite dialect.
func New() Dialect { return Dialect{} }

// Name implements dialect.Dialect.
func (Dialect) Name() string { return dialect.SQLite }

// AutoIncrement implements dialect.Dialect.
func (Dialect) AutoIncrement() string { return "AUTOINCREMENT" }

// TypeName implements dialect.Dialect.
func (Dialect) TypeName(t field.Type, _ int) (string, error) {
	switch {
	case t == field.TypeBool, t.Integer():
		return "integer", nil
	case t.Float():
		return "real", nil
	case t == field.TypeString, t == field.TypeTime:
		return "text", nil
	default:
		return "", sqlforge.NewUnsupportedTypeError(dialect.SQLite, t.String())
	}
}

var _ dialect.Dialect = Dialect{}
