// Package mysql implements the MySQL dialect.
package mysql

import (
	"strconv"

	"github.com/syssam/sqlforge"
	"github.com/syssam/sqlforge/dialect"
	"github.com/syssam/sqlforge/schema/field"
)

// Dialect renders statements for MySQL and MariaDB.
type Dialect struct{}

// New returns the MySQL dialect.
func New() Dialect { return Dialect{} }

// Name implements dialect.Dialect.
func (Dialect) Name() string { return dialect.MySQL }

// AutoIncrement implements dialect.Dialect.
func (Dialect) AutoIncrement() string { return "AUTO_INCREMENT" }

// numeric type names, indexed by logical type.
var numerics = map[field.Type]string{
	field.TypeInt8:    "tinyint",
	field.TypeUint8:   "tinyint",
	field.TypeInt16:   "smallint",
	field.TypeUint16:  "smallint",
	field.TypeInt32:   "int",
	field.TypeUint32:  "int",
	field.TypeInt64:   "bigint",
	field.TypeUint64:  "bigint",
	field.TypeFloat32: "float",
	field.TypeFloat64: "double",
}

// TypeName implements dialect.Dialect. Numeric types receive the display
// width "(n)" when length > 0, before the unsigned attribute.
func (Dialect) TypeName(t field.Type, length int) (string, error) {
	switch t {
	case field.TypeBool:
		return "tinyint(1)", nil
	case field.TypeString:
		if length > 0 {
			return "varchar(" + strconv.Itoa(length) + ")", nil
		}
		return "text", nil
	case field.TypeTime:
		return "datetime", nil
	}
	name, ok := numerics[t]
	if !ok {
		return "", sqlforge.NewUnsupportedTypeError(dialect.MySQL, t.String())
	}
	if length > 0 {
		name += "(" + strconv.Itoa(length) + ")"
	}
	if t.Unsigned() {
		name += " unsigned"
	}
	return name, nil
}

var _ dialect.Dialect = Dialect{}
