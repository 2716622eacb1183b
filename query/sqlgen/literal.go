package sqlgen

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/satishbabariya/clauseql/query/ast"
)

// timeLayout is the ISO-8601 form used for inline time values.
const timeLayout = "2006-01-02T15:04:05.000Z"

// literal renders v as an inline SQL literal.
func (g *generator) literal(v any) string {
	switch v := v.(type) {
	case nil:
		return g.kw("NULL")
	case string:
		return quoteString(v)
	case []byte:
		return quoteString(string(v))
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(v).Int(), 10)
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(v).Uint(), 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		return quoteString(v.UTC().Format(timeLayout))
	case *time.Time:
		if v == nil {
			return g.kw("NULL")
		}
		return quoteString(v.UTC().Format(timeLayout))
	case ast.ColumnRef:
		return g.ident(string(v))
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]string, rv.Len())
		for i := range items {
			items[i] = g.literal(rv.Index(i).Interface())
		}
		return "(" + strings.Join(items, ", ") + ")"
	case reflect.Pointer:
		if rv.IsNil() {
			return g.kw("NULL")
		}
		return g.literal(rv.Elem().Interface())
	}
	return quoteString(fmt.Sprint(v))
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Inline returns the SQL with every placeholder replaced by the literal form
// of its parameter. Placeholders inside quoted text are left alone. The
// result is meant for display; execute SQL and Params instead.
func (q *CompiledQuery) Inline() string {
	if len(q.Params) == 0 {
		return q.SQL
	}

	g := newGenerator(q.profile, ast.Select)
	numbered := g.numbered()

	var (
		b     strings.Builder
		quote byte
		next  int
	)
	sql := q.SQL
	for i := 0; i < len(sql); i++ {
		ch := sql[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
			}
			b.WriteByte(ch)
			continue
		}
		switch {
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
			b.WriteByte(ch)
		case ch == '?' && !numbered && next < len(q.Params):
			b.WriteString(g.literal(q.Params[next]))
			next++
		case ch == '$' && numbered:
			j := i + 1
			for j < len(sql) && sql[j] >= '0' && sql[j] <= '9' {
				j++
			}
			n, err := strconv.Atoi(sql[i+1 : j])
			if err != nil || n < 1 || n > len(q.Params) {
				b.WriteByte(ch)
				continue
			}
			b.WriteString(g.literal(q.Params[n-1]))
			i = j - 1
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}
