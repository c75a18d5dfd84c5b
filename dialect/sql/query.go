package sql

import (
	"errors"

	"github.com/syssam/sqlforge"
	"github.com/syssam/sqlforge/schema/field"
)

// StmtKind is the top-level operation of a Query.
type StmtKind uint8

// Statement kinds.
const (
	StmtInvalid StmtKind = iota
	StmtSelect
	StmtInsert
	StmtUpdate
	StmtDelete
	StmtCreateTable
	StmtDropTable
)

var stmtNames = [...]string{
	StmtInvalid:     "",
	StmtSelect:      "select",
	StmtInsert:      "insert",
	StmtUpdate:      "update",
	StmtDelete:      "delete",
	StmtCreateTable: "create table",
	StmtDropTable:   "drop table",
}

// String returns the lower-case name of the statement kind.
func (k StmtKind) String() string {
	if int(k) < len(stmtNames) {
		return stmtNames[k]
	}
	return ""
}

// Op is a WHERE comparison operator.
type Op uint8

// Comparison operators.
const (
	OpLT      Op = iota + 1 // <
	OpLTE                   // <=
	OpGT                    // >
	OpGTE                   // >=
	OpEQ                    // =
	OpNEQ                   // !=
	OpLike                  // LIKE
	OpNotLike               // NOT LIKE
	OpIs                    // IS
	OpIsNot                 // IS NOT
)

var opTokens = [...]string{
	OpLT:      "<",
	OpLTE:     "<=",
	OpGT:      ">",
	OpGTE:     ">=",
	OpEQ:      "=",
	OpNEQ:     "!=",
	OpLike:    "LIKE",
	OpNotLike: "NOT LIKE",
	OpIs:      "IS",
	OpIsNot:   "IS NOT",
}

// String returns the SQL token of the operator.
func (o Op) String() string {
	if o.Valid() {
		return opTokens[o]
	}
	return ""
}

// Valid reports if the operator is known.
func (o Op) Valid() bool { return o >= OpLT && o <= OpIsNot }

// ParseOp returns the operator for the given SQL token.
func ParseOp(token string) (Op, bool) {
	for o := OpLT; o <= OpIsNot; o++ {
		if opTokens[o] == token {
			return o, true
		}
	}
	return 0, false
}

// Direction is the sort direction of an ORDER BY entry.
type Direction uint8

// Sort directions.
const (
	Asc Direction = iota
	Desc
)

// String returns "ASC" or "DESC".
func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// FieldOption is a bit-set of column options used by CREATE TABLE.
type FieldOption uint8

// Column options.
const (
	NotNull FieldOption = 1 << iota
	AutoIncrement
	PrimaryKey
)

// Has reports if all options in o2 are set in o.
func (o FieldOption) Has(o2 FieldOption) bool { return o&o2 == o2 }

// FieldDef describes a column of a CREATE TABLE statement.
type FieldDef struct {
	Name    string
	Type    field.Type
	Length  int // <= 0 means no length
	Options FieldOption
	// Default is rendered inline as "DEFAULT <literal>" when non-nil.
	// Use Null() for an explicit DEFAULT NULL.
	Default any
}

type (
	fromClause struct {
		table, alias string
	}
	whereClause struct {
		field string
		op    Op
		value Value
	}
	orderClause struct {
		field string
		dir   Direction
	}
	joinClause struct {
		table, left, right string
	}
	limitClause struct {
		start, count int
	}
	valueClause struct {
		field string
		value Value
	}
	column struct {
		FieldDef
		dflt    Value
		hasDflt bool
	}
)

// Query describes one SQL statement and its clauses. A Query is created by
// one of the statement constructors (Select, InsertInto, Update, Delete,
// CreateTable, DropTable) and extended with the clause methods, each of
// which appends to the query and returns it for chaining.
//
// Errors found while clauses are added are recorded on the query and
// reported by Err and Compile.
//
// A Query must not be mutated concurrently. Compile only reads it.
type Query struct {
	kind        StmtKind
	table       string
	ifNotExists bool
	fields      []string
	from        []fromClause
	where       []whereClause
	order       []orderClause
	joins       []joinClause
	limit       *limitClause
	values      []valueClause
	columns     []column
	errs        []error
}

// Select returns a SELECT query for the given fields. No fields means "*".
func Select(fields ...string) *Query {
	return &Query{kind: StmtSelect, fields: fields}
}

// InsertInto returns an INSERT query for the given table.
func InsertInto(table string) *Query {
	return &Query{kind: StmtInsert, table: table}
}

// Update returns an UPDATE query for the given table.
func Update(table string) *Query {
	return &Query{kind: StmtUpdate, table: table}
}

// Delete returns a DELETE query. The tables are added with From.
func Delete() *Query {
	return &Query{kind: StmtDelete}
}

// CreateTable returns a CREATE TABLE query. If ifNotExists is set, the
// statement is rendered as CREATE TABLE IF NOT EXISTS.
func CreateTable(table string, ifNotExists bool) *Query {
	return &Query{kind: StmtCreateTable, table: table, ifNotExists: ifNotExists}
}

// DropTable returns a DROP TABLE query.
func DropTable(table string) *Query {
	return &Query{kind: StmtDropTable, table: table}
}

// Kind returns the statement kind of the query.
func (q *Query) Kind() StmtKind { return q.kind }

// Table returns the table of an INSERT, UPDATE, CREATE TABLE or DROP TABLE query.
func (q *Query) Table() string { return q.table }

// From appends a table to the FROM list, with an optional alias.
func (q *Query) From(table string, alias ...string) *Query {
	c := fromClause{table: table}
	if len(alias) > 0 {
		c.alias = alias[0]
	}
	q.from = append(q.from, c)
	return q
}

// Where appends a comparison. Comparisons are AND-joined in the order they
// were added.
func (q *Query) Where(field string, op Op, v any) *Query {
	if !op.Valid() {
		return q.addErr(sqlforge.NewModelError(field, "unknown operator"))
	}
	val, err := ValueOf(v)
	if err != nil {
		return q.addErr(sqlforge.NewModelError(field, err.Error()))
	}
	q.where = append(q.where, whereClause{field: field, op: op, value: val})
	return q
}

// OrderBy appends an ORDER BY entry.
func (q *Query) OrderBy(field string, dir Direction) *Query {
	q.order = append(q.order, orderClause{field: field, dir: dir})
	return q
}

// InnerJoin appends an "INNER JOIN table ON left = right" clause.
func (q *Query) InnerJoin(table, left, right string) *Query {
	q.joins = append(q.joins, joinClause{table: table, left: left, right: right})
	return q
}

// Limit sets the LIMIT clause. A second call replaces the first. Values are
// rendered as given, negative ones included.
func (q *Query) Limit(start, count int) *Query {
	q.limit = &limitClause{start: start, count: count}
	return q
}

// LimitCount is shorthand for Limit(0, count).
func (q *Query) LimitCount(count int) *Query {
	return q.Limit(0, count)
}

// Value appends a column/value pair. It is the column list of an INSERT and
// the SET list of an UPDATE.
func (q *Query) Value(field string, v any) *Query {
	val, err := ValueOf(v)
	if err != nil {
		return q.addErr(sqlforge.NewModelError(field, err.Error()))
	}
	q.values = append(q.values, valueClause{field: field, value: val})
	return q
}

// Set is an alias of Value that reads better on UPDATE queries.
func (q *Query) Set(field string, v any) *Query {
	return q.Value(field, v)
}

// Field appends a column definition without length or default.
func (q *Query) Field(name string, t field.Type, opts FieldOption) *Query {
	return q.AddField(FieldDef{Name: name, Type: t, Options: opts})
}

// FieldSize appends a column definition with a length.
func (q *Query) FieldSize(name string, t field.Type, length int, opts FieldOption) *Query {
	return q.AddField(FieldDef{Name: name, Type: t, Length: length, Options: opts})
}

// AddField appends a column definition. It records a model error, and
// leaves the column out, if the definition breaks the key rules: an
// AutoIncrement column must be the PrimaryKey, there is at most one
// AutoIncrement column, and an AutoIncrement column cannot be part of a
// composite primary key.
func (q *Query) AddField(def FieldDef) *Query {
	if err := q.checkField(def); err != nil {
		return q.addErr(err)
	}
	c := column{FieldDef: def}
	if def.Default != nil {
		val, err := ValueOf(def.Default)
		if err != nil {
			return q.addErr(sqlforge.NewModelError(def.Name, "default: "+err.Error()))
		}
		c.dflt, c.hasDflt = val, true
	}
	q.columns = append(q.columns, c)
	return q
}

func (q *Query) checkField(def FieldDef) error {
	autoInc, pk := def.Options.Has(AutoIncrement), def.Options.Has(PrimaryKey)
	if autoInc && !pk {
		return sqlforge.NewModelError(def.Name, "AutoIncrement requires PrimaryKey")
	}
	for _, c := range q.columns {
		switch {
		case autoInc && c.Options.Has(AutoIncrement):
			return sqlforge.NewModelError(def.Name, "AutoIncrement already set on "+c.Name)
		case autoInc && c.Options.Has(PrimaryKey):
			return sqlforge.NewModelError(def.Name, "AutoIncrement cannot be part of a composite PrimaryKey with "+c.Name)
		case pk && c.Options.Has(AutoIncrement):
			return sqlforge.NewModelError(def.Name, "PrimaryKey cannot be combined with AutoIncrement column "+c.Name)
		}
	}
	return nil
}

func (q *Query) addErr(err error) *Query {
	q.errs = append(q.errs, err)
	return q
}

// Err returns the errors recorded while the query was built, joined.
func (q *Query) Err() error {
	return errors.Join(q.errs...)
}
