// Package sql compiles statement descriptions into dialect-specific SQL and
// runs them on database/sql drivers.
//
// # Building Queries
//
// A Query is created by one of the statement constructors and extended with
// clauses:
//
//	q := sql.Select("t.id", "t.name").
//	    From("users", "t").
//	    Where("t.age", sql.OpGTE, 18).
//	    OrderBy("t.name", sql.Asc).
//	    LimitCount(10)
//
// # Compiling
//
// Compile renders a Query for one dialect. With parameterize set, scalars
// become "@p0", "@p1", ... placeholders and are returned in order:
//
//	stmt, err := sql.Compile(q, mysql.New(), true)
//	// stmt.Text:   SELECT `t`.`id`, `t`.`name` FROM `users` AS `t` WHERE `t`.`age` >= @p0 ORDER BY `t`.`name` ASC LIMIT 0, 10 ;
//	// stmt.Params: [{@p0 18}]
//
// Inline mode wraps strings in double quotes without escaping them. Compile
// untrusted input with parameterize set. Identifiers are always escaped by
// doubling the dialect's quote character. Floats are inlined in plain
// decimal notation, and NaN or infinite floats are rejected when added.
//
// # Executing
//
// Driver wraps a *sql.DB. An Executor compiles with parameters, rewrites the
// placeholders for the driver (Bind) and executes:
//
//	drv, err := sql.Open("sqlite", "file:app.db")
//	ex, err := sql.NewExecutor(drv)
//	n, err := ex.Exec(ctx, sql.Update("users").Set("name", "a8m").Where("id", sql.OpEQ, 1))
//
// StatsDriver and DebugDriver decorate any dialect.Driver with statistics and
// logging, and may be stacked.
package sql
