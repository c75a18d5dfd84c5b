package sql

import (
	"strconv"
	"strings"

	"github.com/syssam/sqlforge/dialect"
)

// Bind returns the query text and arguments to pass to a database/sql driver
// of the given dialect.
//
// The compiler always emits "@pN" placeholders. SQLite drivers accept them
// as named parameters. For MySQL they are rewritten to "?" and for Postgres
// to "$N", in both cases keeping argument order. Placeholders inside quoted
// identifiers and string literals are left untouched.
func Bind(dialectName string, stmt *Statement) (string, []any) {
	if len(stmt.Params) == 0 {
		return stmt.Text, nil
	}
	switch dialectName {
	case dialect.MySQL:
		return rewrite(stmt, func(int) string { return "?" }), stmt.Params.Args()
	case dialect.Postgres:
		return rewrite(stmt, func(i int) string { return "$" + strconv.Itoa(i+1) }), stmt.Params.Args()
	default:
		return stmt.Text, stmt.Params.NamedArgs()
	}
}

// rewrite replaces every "@pN" token outside quotes with the placeholder
// returned for its index.
func rewrite(stmt *Statement, placeholder func(int) string) string {
	var (
		b     strings.Builder
		text  = stmt.Text
		quote byte
	)
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		ch := text[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '`' || ch == '"' || ch == '\'':
			quote = ch
		case ch == '@' && i+2 < len(text) && text[i+1] == 'p' && isDigit(text[i+2]):
			j := i + 2
			for j < len(text) && isDigit(text[j]) {
				j++
			}
			n, err := strconv.Atoi(text[i+2 : j])
			if err == nil && n < len(stmt.Params) {
				b.WriteString(placeholder(n))
				i = j - 1
				continue
			}
		}
		b.WriteByte(ch)
	}
	return b.String()
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
