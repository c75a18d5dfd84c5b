// Package sqlforge holds the error types shared by the statement compiler
// and the dialects.
//
// Statements are described with the fluent API of package dialect/sql and
// rendered for one of the dialects in dialect/mysql, dialect/sqlite and
// dialect/postgres:
//
//	q := sql.Select("name").From("accounts").Where("balance", sql.OpGT, 10)
//	stmt, err := sql.Compile(q, mysql.New(), true)
//	if sqlforge.IsInvalidOperation(err) {
//		// the query misses a required clause
//	}
package sqlforge
