// Package querydoc decodes YAML query descriptions into sql.Query values.
//
// A description names the statement kind and its clauses:
//
//	kind: select
//	fields: [a.name, a.balance]
//	from:
//	  - {table: accounts, alias: a}
//	join:
//	  - {table: orders, left: a.accountId, right: orders.accountId}
//	where:
//	  - [a.name, LIKE, "J%"]
//	  - {field: a.balance, op: ">", value: 10}
//	order: [a.name desc]
//	limit: {start: 0, count: 10}
//
// Scalar values keep their YAML type. Values tagged !!timestamp become
// time.Time and values tagged !decimal become decimal.Decimal.
package querydoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/syssam/sqlforge/dialect/sql"
	"github.com/syssam/sqlforge/schema/field"
)

// DecimalTag marks a scalar as a decimal number.
const DecimalTag = "!decimal"

type document struct {
	Kind        string      `yaml:"kind"`
	Table       string      `yaml:"table"`
	IfNotExists bool        `yaml:"if_not_exists"`
	Fields      []string    `yaml:"fields"`
	From        []fromItem  `yaml:"from"`
	Join        []joinItem  `yaml:"join"`
	Where       []whereItem `yaml:"where"`
	Order       []orderItem `yaml:"order"`
	Limit       *limitItem  `yaml:"limit"`
	Values      yaml.Node   `yaml:"values"`
	Columns     []column    `yaml:"columns"`
}

type fromItem struct {
	Table string `yaml:"table"`
	Alias string `yaml:"alias"`
}

// UnmarshalYAML accepts a bare table name or a {table, alias} mapping.
func (f *fromItem) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		f.Table = n.Value
		return nil
	}
	type plain fromItem
	return n.Decode((*plain)(f))
}

type joinItem struct {
	Table string `yaml:"table"`
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}

type whereItem struct {
	Field string    `yaml:"field"`
	Op    string    `yaml:"op"`
	Value yaml.Node `yaml:"value"`
}

// UnmarshalYAML accepts a [field, op, value] sequence or a mapping.
func (w *whereItem) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.SequenceNode {
		if len(n.Content) != 3 {
			return fmt.Errorf("line %d: where needs [field, op, value]", n.Line)
		}
		w.Field, w.Op, w.Value = n.Content[0].Value, n.Content[1].Value, *n.Content[2]
		return nil
	}
	type plain whereItem
	return n.Decode((*plain)(w))
}

type orderItem struct {
	Field string `yaml:"field"`
	Dir   string `yaml:"dir"`
}

// UnmarshalYAML accepts "field [asc|desc]" or a {field, dir} mapping.
func (o *orderItem) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		parts := strings.Fields(n.Value)
		switch len(parts) {
		case 2:
			o.Dir = parts[1]
			fallthrough
		case 1:
			o.Field = parts[0]
			return nil
		default:
			return fmt.Errorf("line %d: invalid order %q", n.Line, n.Value)
		}
	}
	type plain orderItem
	return n.Decode((*plain)(o))
}

type limitItem struct {
	Start int `yaml:"start"`
	Count int `yaml:"count"`
}

// UnmarshalYAML accepts a bare count or a {start, count} mapping.
func (l *limitItem) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		return n.Decode(&l.Count)
	}
	type plain limitItem
	return n.Decode((*plain)(l))
}

type column struct {
	Name          string    `yaml:"name"`
	Type          string    `yaml:"type"`
	Length        int       `yaml:"length"`
	NotNull       bool      `yaml:"not_null"`
	PrimaryKey    bool      `yaml:"primary_key"`
	AutoIncrement bool      `yaml:"auto_increment"`
	Default       yaml.Node `yaml:"default"`
}

// Parse decodes a single query description. Unknown keys are rejected.
func Parse(data []byte) (*sql.Query, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("querydoc: empty document")
		}
		return nil, fmt.Errorf("querydoc: %w", err)
	}
	q, err := doc.query()
	if err != nil {
		return nil, fmt.Errorf("querydoc: %w", err)
	}
	return q, nil
}

func (d *document) query() (*sql.Query, error) {
	var q *sql.Query
	switch strings.ToLower(strings.TrimSpace(d.Kind)) {
	case sql.StmtSelect.String():
		q = sql.Select(d.Fields...)
	case sql.StmtInsert.String():
		q = sql.InsertInto(d.Table)
	case sql.StmtUpdate.String():
		q = sql.Update(d.Table)
	case sql.StmtDelete.String():
		q = sql.Delete()
	case sql.StmtCreateTable.String():
		q = sql.CreateTable(d.Table, d.IfNotExists)
	case sql.StmtDropTable.String():
		q = sql.DropTable(d.Table)
	default:
		return nil, fmt.Errorf("unknown kind %q", d.Kind)
	}
	for _, f := range d.From {
		if f.Alias != "" {
			q.From(f.Table, f.Alias)
		} else {
			q.From(f.Table)
		}
	}
	for _, j := range d.Join {
		q.InnerJoin(j.Table, j.Left, j.Right)
	}
	for _, w := range d.Where {
		op, ok := sql.ParseOp(strings.ToUpper(strings.Join(strings.Fields(w.Op), " ")))
		if !ok {
			return nil, fmt.Errorf("line %d: unknown operator %q", w.Value.Line, w.Op)
		}
		v, err := scalar(&w.Value)
		if err != nil {
			return nil, err
		}
		q.Where(w.Field, op, v)
	}
	for _, o := range d.Order {
		switch strings.ToLower(o.Dir) {
		case "", "asc":
			q.OrderBy(o.Field, sql.Asc)
		case "desc":
			q.OrderBy(o.Field, sql.Desc)
		default:
			return nil, fmt.Errorf("unknown order direction %q", o.Dir)
		}
	}
	if d.Limit != nil {
		q.Limit(d.Limit.Start, d.Limit.Count)
	}
	if err := d.values(q); err != nil {
		return nil, err
	}
	for _, c := range d.Columns {
		def, err := c.def()
		if err != nil {
			return nil, err
		}
		q.AddField(def)
	}
	return q, nil
}

// values applies the values mapping in document order: column values for
// INSERT and SET assignments for UPDATE.
func (d *document) values(q *sql.Query) error {
	n := &d.Values
	if n.Kind == 0 {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: values must be a mapping", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		v, err := scalar(n.Content[i+1])
		if err != nil {
			return err
		}
		name := n.Content[i].Value
		if q.Kind() == sql.StmtUpdate {
			q.Set(name, v)
		} else {
			q.Value(name, v)
		}
	}
	return nil
}

func (c column) def() (sql.FieldDef, error) {
	t, ok := field.ParseType(c.Type)
	if !ok {
		return sql.FieldDef{}, fmt.Errorf("column %q: unknown type %q", c.Name, c.Type)
	}
	def := sql.FieldDef{Name: c.Name, Type: t, Length: c.Length}
	if c.NotNull {
		def.Options |= sql.NotNull
	}
	if c.PrimaryKey {
		def.Options |= sql.PrimaryKey
	}
	if c.AutoIncrement {
		def.Options |= sql.AutoIncrement
	}
	if c.Default.Kind != 0 {
		v, err := scalar(&c.Default)
		if err != nil {
			return sql.FieldDef{}, err
		}
		// A literal null default means DEFAULT NULL.
		if v == nil {
			v = sql.Null()
		}
		def.Default = v
	}
	return def, nil
}

// scalar decodes a scalar node keeping its YAML type.
func scalar(n *yaml.Node) (any, error) {
	if n.Kind == 0 {
		return nil, nil
	}
	if n.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("line %d: expected a scalar value", n.Line)
	}
	switch n.Tag {
	case DecimalTag:
		d, err := decimal.NewFromString(n.Value)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return d, nil
	case "!!timestamp":
		return timestamp(n)
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func timestamp(n *yaml.Node) (time.Time, error) {
	if t, err := time.Parse(sql.TimeFormat, n.Value); err == nil {
		return t, nil
	}
	var t time.Time
	if err := n.Decode(&t); err != nil {
		return time.Time{}, fmt.Errorf("line %d: %w", n.Line, err)
	}
	return t, nil
}
