package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/clauseql/query/ast"
	"github.com/satishbabariya/clauseql/query/lexer"
)

func TestParse_Select(t *testing.T) {
	q, err := ParseString("from:users sel:name,email whr:age>18 ord:name/desc,id lim:10 off:20")
	require.NoError(t, err)

	assert.Equal(t, ast.Select, q.Kind)
	assert.Equal(t, "users", q.From)
	assert.Equal(t, []ast.SelectColumn{ast.Column{Name: "name"}, ast.Column{Name: "email"}}, q.Select)
	assert.Equal(t, cmp("age", ast.OpGreaterThan, int64(18)), q.Where)
	assert.Equal(t, []ast.OrderByClause{
		{Column: "name", Direction: ast.SortDesc},
		{Column: "id", Direction: ast.SortAsc},
	}, q.OrderBy)
	require.NotNil(t, q.Limit)
	require.NotNil(t, q.Offset)
	assert.Equal(t, 10, *q.Limit)
	assert.Equal(t, 20, *q.Offset)
}

func TestParse_MinimalSelect(t *testing.T) {
	q, err := ParseString("from:users")
	require.NoError(t, err)
	assert.Empty(t, q.Select)
	assert.Nil(t, q.Where)
	assert.Nil(t, q.Limit)
}

func TestParse_Aggregates(t *testing.T) {
	q, err := ParseString("from:orders sel:region,sum:total/revenue,cnt:*,COUNT:id,foo:bar grp:region hav:cnt>5")
	require.NoError(t, err)

	assert.Equal(t, []ast.SelectColumn{
		ast.Column{Name: "region"},
		ast.Aggregate{Function: ast.AggSum, Column: "total", Alias: "revenue"},
		ast.Aggregate{Function: ast.AggCount, Column: "*"},
		ast.Aggregate{Function: ast.AggCount, Column: "id"},
		ast.Column{Name: "foo:bar"},
	}, q.Select)
	assert.Equal(t, []string{"region"}, q.GroupBy)
	assert.Equal(t, cmp("cnt", ast.OpGreaterThan, int64(5)), q.Having)
}

func TestParse_Wildcard(t *testing.T) {
	q, err := ParseString("from:users sel:*")
	require.NoError(t, err)
	assert.Equal(t, []ast.SelectColumn{ast.Wildcard{}}, q.Select)
}

func TestParse_Joins(t *testing.T) {
	q, err := ParseString("from:users join:orders/LEFT on:users.id=orders.user_id,orders.status='paid' j:teams")
	require.NoError(t, err)
	require.Len(t, q.Joins, 2)

	assert.Equal(t, ast.LeftJoin, q.Joins[0].Type)
	assert.Equal(t, "orders", q.Joins[0].Table)
	assert.Equal(t, ast.And{Children: []ast.Condition{
		cmp("users.id", ast.OpEquals, ast.ColumnRef("orders.user_id")),
		cmp("orders.status", ast.OpEquals, "paid"),
	}}, q.Joins[0].On)

	assert.Equal(t, ast.InnerJoin, q.Joins[1].Type)
	assert.Equal(t, "teams", q.Joins[1].Table)
	assert.Nil(t, q.Joins[1].On)
}

func TestParse_JoinNumericOperand(t *testing.T) {
	q, err := ParseString("from:users join:orders on:orders.qty>2")
	require.NoError(t, err)
	assert.Equal(t, cmp("orders.qty", ast.OpGreaterThan, int64(2)), q.Joins[0].On)
}

func TestParse_MultipleWhereAreConjoined(t *testing.T) {
	q, err := ParseString("from:users whr:a=1 whr:b=2,c=3 hav:x=1 hav:y=2")
	require.NoError(t, err)

	assert.Equal(t, ast.And{Children: []ast.Condition{
		cmp("a", ast.OpEquals, int64(1)),
		cmp("b", ast.OpEquals, int64(2)),
		cmp("c", ast.OpEquals, int64(3)),
	}}, q.Where)
	assert.Equal(t, ast.And{Children: []ast.Condition{
		cmp("x", ast.OpEquals, int64(1)),
		cmp("y", ast.OpEquals, int64(2)),
	}}, q.Having)
}

func TestParse_SlangMatchesCanonical(t *testing.T) {
	canonical, err := ParseString("from:users sel:name whr:age>18 ord:name lim:5")
	require.NoError(t, err)
	slang, err := ParseString("outta:users grab:name vibe:age>18 sortby:name cap:5")
	require.NoError(t, err)
	assert.Equal(t, canonical, slang)
}

func TestParse_Insert(t *testing.T) {
	q, err := ParseString("ins:users cols:name,age vals:'john doe',30 ret:id")
	require.NoError(t, err)

	assert.Equal(t, ast.Insert, q.Kind)
	assert.Equal(t, &ast.InsertClause{
		Table:   "users",
		Columns: []string{"name", "age"},
		Values:  []any{"john doe", int64(30)},
	}, q.Insert)
	assert.Equal(t, &ast.ReturningClause{Columns: []string{"id"}}, q.Returning)
	assert.Equal(t, "users", q.Table())
}

func TestParse_InsertWithoutColumns(t *testing.T) {
	q, err := ParseString("ins:users vals:1,2")
	require.NoError(t, err)
	assert.Nil(t, q.Insert.Columns)
	assert.Equal(t, []any{int64(1), int64(2)}, q.Insert.Values)
}

func TestParse_Update(t *testing.T) {
	q, err := ParseString("upd:users set:name='bob smith',age=31 whr:id=7 ret:*")
	require.NoError(t, err)

	assert.Equal(t, ast.Update, q.Kind)
	assert.Equal(t, "users", q.From)
	assert.Equal(t, []ast.Assignment{
		{Column: "name", Value: "bob smith"},
		{Column: "age", Value: int64(31)},
	}, q.Set)
	assert.Equal(t, cmp("id", ast.OpEquals, int64(7)), q.Where)
	assert.Equal(t, &ast.ReturningClause{All: true}, q.Returning)
}

func TestParse_Delete(t *testing.T) {
	q, err := ParseString("del:sessions whr:expires_at.null")
	require.NoError(t, err)

	assert.Equal(t, ast.Delete, q.Kind)
	assert.Equal(t, "sessions", q.From)
	assert.Equal(t, ast.NullTest{Column: "expires_at"}, q.Where)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantPos int
		wantMsg string
	}{
		{name: "on without join", input: "from:users on:a=b", wantPos: 11, wantMsg: "ON clause without a preceding JOIN"},
		{name: "duplicate from", input: "from:users from:orders", wantPos: 11, wantMsg: "duplicate FROM"},
		{name: "duplicate select", input: "from:users sel:a sel:b", wantPos: 17, wantMsg: "duplicate SELECT"},
		{name: "duplicate limit", input: "from:users lim:1 lim:2", wantPos: 17, wantMsg: "duplicate LIMIT"},
		{name: "negative limit", input: "from:users lim:-1", wantPos: 15, wantMsg: "non-negative integer"},
		{name: "non-numeric offset", input: "from:users off:abc", wantPos: 15, wantMsg: "non-negative integer"},
		{name: "unknown join type", input: "from:users join:orders/sideways", wantPos: 23, wantMsg: `unknown join type "sideways"`},
		{name: "unknown direction", input: "from:users ord:name/up", wantPos: 20, wantMsg: `unknown sort direction "up"`},
		{name: "missing from", input: "sel:name", wantPos: 0, wantMsg: "requires a FROM"},
		{name: "insert without values", input: "ins:users", wantPos: 0, wantMsg: "requires a VALUES"},
		{name: "column count mismatch", input: "ins:users cols:a,b vals:1", wantPos: 10, wantMsg: "2 columns but 1 values"},
		{name: "update without set", input: "upd:users whr:id=1", wantPos: 0, wantMsg: "requires a SET"},
		{name: "conflicting statements", input: "ins:users upd:users", wantPos: 10, wantMsg: "conflicts with"},
		{name: "update target plus from", input: "from:users upd:users set:a=1", wantPos: 11, wantMsg: "duplicate FROM"},
		{name: "set in select", input: "from:users set:a=1", wantPos: 11, wantMsg: "SET clause is not valid in SELECT statements"},
		{name: "returning in select", input: "from:users ret:id", wantPos: 11, wantMsg: "RETURNING clause is not valid"},
		{name: "order in delete", input: "del:users ord:id", wantPos: 10, wantMsg: "ORDER clause is not valid in DELETE statements"},
		{name: "with", input: "with:x from:users", wantPos: 0, wantMsg: "not supported"},
		{name: "bad condition", input: "from:users whr:age", wantPos: 15, wantMsg: "no comparison operator"},
		{name: "condition error offset", input: "from:users whr:age>18,status=", wantPos: 28, wantMsg: "missing a value"},
		{name: "aggregate without column", input: "from:users sel:sum:", wantPos: 19, wantMsg: "missing a column"},
		{name: "aggregate empty alias", input: "from:users sel:sum:total/", wantPos: 24, wantMsg: "empty alias"},
		{name: "set without equals", input: "upd:users set:name", wantPos: 14, wantMsg: "column=value"},
		{name: "empty value item", input: "ins:users vals:1,,2", wantPos: 17, wantMsg: "empty value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			require.Error(t, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "got %T: %v", err, err)
			assert.Equal(t, tt.wantPos, parseErr.Position)
			assert.Contains(t, parseErr.Message, tt.wantMsg)
		})
	}
}

func TestParseString_PropagatesLexError(t *testing.T) {
	_, err := ParseString("from:")
	require.Error(t, err)

	var lexErr *lexer.LexError
	assert.True(t, errors.As(err, &lexErr))
}

func TestParse_EmptyTokens(t *testing.T) {
	_, err := Parse(nil)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Contains(t, parseErr.Message, "requires a FROM")
}
