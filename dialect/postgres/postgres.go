// Package postgres implements the PostgreSQL dialect.
//
// Unlike the backtick dialects, identifiers are quoted with double quotes,
// inline strings use standard single-quoted literals and the limit clause is
// rendered as "LIMIT count OFFSET start".
package postgres

import (
	"strconv"
	"strings"

	"github.com/syssam/sqlforge"
	"github.com/syssam/sqlforge/dialect"
	"github.com/syssam/sqlforge/schema/field"
)

// Dialect renders statements for PostgreSQL.
type Dialect struct{}

// New returns the PostgreSQL dialect.
func New() Dialect { return Dialect{} }

// Name implements dialect.Dialect.
func (Dialect) Name() string { return dialect.Postgres }

// AutoIncrement implements dialect.Dialect.
func (Dialect) AutoIncrement() string { return "GENERATED BY DEFAULT AS IDENTITY" }

// Postgres has no unsigned integers. Each unsigned type maps to the next
// wider signed type, and uint64 to numeric(20).
var types = map[field.Type]string{
	field.TypeBool:    "boolean",
	field.TypeInt8:    "smallint",
	field.TypeUint8:   "smallint",
	field.TypeInt16:   "smallint",
	field.TypeUint16:  "integer",
	field.TypeInt32:   "integer",
	field.TypeUint32:  "bigint",
	field.TypeInt64:   "bigint",
	field.TypeUint64:  "numeric(20)",
	field.TypeFloat32: "real",
	field.TypeFloat64: "double precision",
	field.TypeTime:    "timestamp",
}

// TypeName implements dialect.Dialect. The length only applies to strings.
func (Dialect) TypeName(t field.Type, length int) (string, error) {
	if t == field.TypeString {
		if length > 0 {
			return "varchar(" + strconv.Itoa(length) + ")", nil
		}
		return "text", nil
	}
	name, ok := types[t]
	if !ok {
		return "", sqlforge.NewUnsupportedTypeError(dialect.Postgres, t.String())
	}
	return name, nil
}

// Quote implements dialect.Quoter.
func (Dialect) Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// QuoteLiteral implements dialect.LiteralQuoter.
func (Dialect) QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Limit implements dialect.Limiter.
func (Dialect) Limit(start, count int) string {
	return "LIMIT " + strconv.Itoa(count) + " OFFSET " + strconv.Itoa(start)
}

var (
	_ dialect.Dialect       = Dialect{}
	_ dialect.Quoter        = Dialect{}
	_ dialect.LiteralQuoter = Dialect{}
	_ dialect.Limiter       = Dialect{}
)
