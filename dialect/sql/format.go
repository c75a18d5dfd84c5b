package sql

import (
	"strconv"
	"strings"

	"github.com/syssam/sqlforge/dialect"
)

// TimeFormat is the layout of inline datetime literals.
const TimeFormat = "2006-01-02 15:04:05"

// formatter renders scalars and identifiers for one Compile call. It owns
// the parameter list and placeholder counter of that call.
type formatter struct {
	dialect      dialect.Dialect
	parameterize bool
	params       Params
}

func newFormatter(d dialect.Dialect, parameterize bool) *formatter {
	return &formatter{dialect: d, parameterize: parameterize}
}

// value renders v as a placeholder when parameterizing, or as an inline literal.
func (f *formatter) value(v Value) string {
	if f.parameterize {
		name := "@p" + strconv.Itoa(len(f.params))
		f.params = append(f.params, Param{Name: name, Value: v})
		return name
	}
	return f.literal(v)
}

// literal renders v inline.
//
// Strings and datetimes are wrapped in double quotes without escaping unless
// the dialect implements dialect.LiteralQuoter. An embedded quote character
// ends the literal early, so untrusted input must be compiled with
// parameterize set.
func (f *formatter) literal(v Value) string {
	switch v.kind {
	case KindBool:
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindUint:
		return strconv.FormatUint(v.u, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, v.bits)
	case KindDecimal:
		return v.d.String()
	case KindString:
		return f.quoteLiteral(v.s)
	case KindTime:
		return f.quoteLiteral(v.t.Format(TimeFormat))
	default:
		return "NULL"
	}
}

func (f *formatter) quoteLiteral(s string) string {
	if q, ok := f.dialect.(dialect.LiteralQuoter); ok {
		return q.QuoteLiteral(s)
	}
	return `"` + s + `"`
}

// ident quotes a single identifier. Embedded backticks are doubled.
func (f *formatter) ident(name string) string {
	if q, ok := f.dialect.(dialect.Quoter); ok {
		return q.Quote(name)
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// column quotes a possibly qualified column name segment by segment.
// The wildcard "*" is never quoted, neither alone nor as "t.*".
func (f *formatter) column(name string) string {
	if name == "*" {
		return name
	}
	if !strings.Contains(name, ".") {
		return f.ident(name)
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		if p != "*" {
			parts[i] = f.ident(p)
		}
	}
	return strings.Join(parts, ".")
}

// limit renders the LIMIT clause.
func (f *formatter) limit(start, count int) string {
	if l, ok := f.dialect.(dialect.Limiter); ok {
		return l.Limit(start, count)
	}
	return "LIMIT " + strconv.Itoa(start) + ", " + strconv.Itoa(count)
}
