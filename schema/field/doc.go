// Package field defines the logical column types used when declaring the
// fields of a CREATE TABLE statement.
//
// A logical type names what a column holds, not how a particular database
// spells it:
//
//	field.TypeInt32   // int on MySQL, integer on SQLite and Postgres
//	field.TypeString  // varchar(n) or text, depending on the declared length
//	field.TypeTime    // datetime, text or timestamp
//
// Dialects translate a Type to a column type keyword, see the dialect package.
// TypeOf returns the logical type of a Go sample value:
//
//	field.TypeOf(int64(0))   // field.TypeInt64
//	field.TypeOf(time.Now()) // field.TypeTime
package field
