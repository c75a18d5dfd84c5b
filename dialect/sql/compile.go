package sql

import (
	"database/sql"
	"strings"

	"github.com/syssam/sqlforge"
	"github.com/syssam/sqlforge/dialect"
)

// Param is a placeholder and the value bound to it.
type Param struct {
	Name  string // "@p0", "@p1", ...
	Value Value
}

// Params holds the parameters of a statement in placeholder order.
type Params []Param

// Map returns the parameters keyed by placeholder name, holding the Go
// values they were created from.
func (p Params) Map() map[string]any {
	m := make(map[string]any, len(p))
	for _, pr := range p {
		m[pr.Name] = pr.Value.Interface()
	}
	return m
}

// Args returns the parameter values in placeholder order.
func (p Params) Args() []any {
	args := make([]any, len(p))
	for i, pr := range p {
		args[i] = pr.Value.Interface()
	}
	return args
}

// NamedArgs returns the parameters as sql.NamedArg values. The names are
// stripped of their "@" prefix.
func (p Params) NamedArgs() []any {
	args := make([]any, len(p))
	for i, pr := range p {
		args[i] = sql.Named(strings.TrimPrefix(pr.Name, "@"), pr.Value.Interface())
	}
	return args
}

// Statement is the output of Compile.
type Statement struct {
	Text   string
	Params Params // empty unless compiled with parameterize
}

// String returns the statement text.
func (s *Statement) String() string { return s.Text }

// Compile renders q for the dialect d. When parameterize is set, every
// scalar is replaced by an "@pN" placeholder and returned in Params;
// otherwise scalars are inlined.
//
// Compile does not modify q, and keeps no state between calls.
func Compile(q *Query, d dialect.Dialect, parameterize bool) (*Statement, error) {
	if q == nil || q.kind == StmtInvalid {
		return nil, sqlforge.NewInvalidOperationError("", "unknown statement")
	}
	if err := q.Err(); err != nil {
		return nil, err
	}
	if d == nil {
		return nil, sqlforge.NewInvalidOperationError(q.kind.String(), "missing dialect")
	}
	c := &compiler{q: q, f: newFormatter(d, parameterize)}
	var err error
	switch q.kind {
	case StmtSelect:
		err = c.selectStmt()
	case StmtInsert:
		err = c.insertStmt()
	case StmtUpdate:
		err = c.updateStmt()
	case StmtDelete:
		err = c.deleteStmt()
	case StmtCreateTable:
		err = c.createTableStmt()
	case StmtDropTable:
		c.dropTableStmt()
	default:
		err = sqlforge.NewInvalidOperationError("", "unknown statement")
	}
	if err != nil {
		return nil, err
	}
	c.b.WriteString(" ;")
	return &Statement{Text: c.b.String(), Params: c.f.params}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(q *Query, d dialect.Dialect, parameterize bool) *Statement {
	stmt, err := Compile(q, d, parameterize)
	if err != nil {
		panic(err)
	}
	return stmt
}

// compiler renders one statement. Clauses are separated by single spaces;
// Compile appends the " ;" terminator.
type compiler struct {
	q *Query
	f *formatter
	b strings.Builder
}

func (c *compiler) invalid(reason string) error {
	return sqlforge.NewInvalidOperationError(c.q.kind.String(), reason)
}

func (c *compiler) selectStmt() error {
	if len(c.q.from) == 0 {
		return c.invalid("missing FROM")
	}
	c.b.WriteString("SELECT ")
	if len(c.q.fields) == 0 {
		c.b.WriteString("*")
	}
	for i, name := range c.q.fields {
		if i > 0 {
			c.b.WriteString(", ")
		}
		c.b.WriteString(c.f.column(name))
	}
	c.froms()
	for _, j := range c.q.joins {
		c.b.WriteString(" INNER JOIN ")
		c.b.WriteString(c.f.ident(j.table))
		c.b.WriteString(" ON ")
		c.b.WriteString(c.f.column(j.left))
		c.b.WriteString(" = ")
		c.b.WriteString(c.f.column(j.right))
	}
	c.wheres()
	if len(c.q.order) > 0 {
		c.b.WriteString(" ORDER BY ")
		for i, o := range c.q.order {
			if i > 0 {
				c.b.WriteString(", ")
			}
			c.b.WriteString(c.f.column(o.field))
			c.b.WriteString(" ")
			c.b.WriteString(o.dir.String())
		}
	}
	if l := c.q.limit; l != nil {
		c.b.WriteString(" ")
		c.b.WriteString(c.f.limit(l.start, l.count))
	}
	return nil
}

func (c *compiler) insertStmt() error {
	if len(c.q.values) == 0 {
		return c.invalid("missing values")
	}
	c.b.WriteString("INSERT INTO ")
	c.b.WriteString(c.f.ident(c.q.table))
	c.b.WriteString(" (")
	for i, v := range c.q.values {
		if i > 0 {
			c.b.WriteString(", ")
		}
		c.b.WriteString(c.f.column(v.field))
	}
	c.b.WriteString(") VALUES (")
	for i, v := range c.q.values {
		if i > 0 {
			c.b.WriteString(", ")
		}
		c.b.WriteString(c.f.value(v.value))
	}
	c.b.WriteString(")")
	return nil
}

func (c *compiler) updateStmt() error {
	if len(c.q.values) == 0 {
		return c.invalid("missing SET values")
	}
	c.b.WriteString("UPDATE ")
	c.b.WriteString(c.f.ident(c.q.table))
	c.b.WriteString(" SET ")
	for i, v := range c.q.values {
		if i > 0 {
			c.b.WriteString(", ")
		}
		c.b.WriteString(c.f.column(v.field))
		c.b.WriteString(" = ")
		c.b.WriteString(c.f.value(v.value))
	}
	c.wheres()
	return nil
}

func (c *compiler) deleteStmt() error {
	if len(c.q.from) == 0 {
		return c.invalid("missing FROM")
	}
	c.b.WriteString("DELETE")
	c.froms()
	c.wheres()
	return nil
}

func (c *compiler) dropTableStmt() {
	c.b.WriteString("DROP TABLE ")
	c.b.WriteString(c.f.ident(c.q.table))
}

func (c *compiler) createTableStmt() error {
	if len(c.q.columns) == 0 {
		return c.invalid("missing fields")
	}
	c.b.WriteString("CREATE TABLE ")
	if c.q.ifNotExists {
		c.b.WriteString("IF NOT EXISTS ")
	}
	c.b.WriteString(c.f.ident(c.q.table))
	c.b.WriteString(" (")
	var pks []string
	for _, col := range c.q.columns {
		if col.Options.Has(PrimaryKey) {
			pks = append(pks, col.Name)
		}
	}
	for i, col := range c.q.columns {
		if i > 0 {
			c.b.WriteString(", ")
		}
		typ, err := c.f.dialect.TypeName(col.Type, col.Length)
		if err != nil {
			return err
		}
		c.b.WriteString(c.f.ident(col.Name))
		c.b.WriteString(" ")
		c.b.WriteString(typ)
		if col.Options.Has(NotNull) {
			c.b.WriteString(" NOT NULL")
		}
		if col.Options.Has(PrimaryKey) && len(pks) == 1 {
			c.b.WriteString(" PRIMARY KEY")
		}
		if col.Options.Has(AutoIncrement) {
			c.b.WriteString(" ")
			c.b.WriteString(c.f.dialect.AutoIncrement())
		}
		if col.hasDflt {
			c.b.WriteString(" DEFAULT ")
			c.b.WriteString(c.f.literal(col.dflt))
		}
	}
	if len(pks) > 1 {
		c.b.WriteString(", PRIMARY KEY (")
		for i, name := range pks {
			if i > 0 {
				c.b.WriteString(", ")
			}
			c.b.WriteString(c.f.ident(name))
		}
		c.b.WriteString(")")
	}
	c.b.WriteString(")")
	return nil
}

// froms writes " FROM t [AS a], ...".
func (c *compiler) froms() {
	c.b.WriteString(" FROM ")
	for i, fr := range c.q.from {
		if i > 0 {
			c.b.WriteString(", ")
		}
		c.b.WriteString(c.f.ident(fr.table))
		if fr.alias != "" {
			c.b.WriteString(" AS ")
			c.b.WriteString(c.f.ident(fr.alias))
		}
	}
}

// wheres writes " WHERE a op v AND ..." if the query has comparisons.
func (c *compiler) wheres() {
	for i, w := range c.q.where {
		if i == 0 {
			c.b.WriteString(" WHERE ")
		} else {
			c.b.WriteString(" AND ")
		}
		c.b.WriteString(c.f.column(w.field))
		c.b.WriteString(" ")
		c.b.WriteString(w.op.String())
		c.b.WriteString(" ")
		c.b.WriteString(c.f.value(w.value))
	}
}
