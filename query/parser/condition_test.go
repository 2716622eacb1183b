package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/clauseql/query/ast"
)

func cmp(left string, op ast.ComparisonOperator, right any) ast.Comparison {
	return ast.Comparison{Left: left, Operator: op, Right: right}
}

func TestParseCondition(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ast.Condition
	}{
		{
			name:  "comma is AND",
			input: "age>18,status=active",
			want: ast.And{Children: []ast.Condition{
				cmp("age", ast.OpGreaterThan, int64(18)),
				cmp("status", ast.OpEquals, "active"),
			}},
		},
		{
			name:  "pipe is OR",
			input: "age>65|status=vip",
			want: ast.Or{Children: []ast.Condition{
				cmp("age", ast.OpGreaterThan, int64(65)),
				cmp("status", ast.OpEquals, "vip"),
			}},
		},
		{
			name:  "commas bind looser than pipes",
			input: "a=1,b=2|c=3",
			want: ast.And{Children: []ast.Condition{
				cmp("a", ast.OpEquals, int64(1)),
				ast.Or{Children: []ast.Condition{
					cmp("b", ast.OpEquals, int64(2)),
					cmp("c", ast.OpEquals, int64(3)),
				}},
			}},
		},
		{
			name:  "quoted string keeps spaces",
			input: "name='john doe'",
			want:  cmp("name", ast.OpEquals, "john doe"),
		},
		{
			name:  "double quoted string",
			input: `name="a|b,c"`,
			want:  cmp("name", ast.OpEquals, "a|b,c"),
		},
		{
			name:  "float literal",
			input: "price>=9.5",
			want:  cmp("price", ast.OpGreaterOrEqual, 9.5),
		},
		{
			name:  "not equals",
			input: "x!=1",
			want:  cmp("x", ast.OpNotEquals, int64(1)),
		},
		{
			name:  "less or equal",
			input: "x<=-2",
			want:  cmp("x", ast.OpLessOrEqual, int64(-2)),
		},
		{
			name:  "like",
			input: "name~'%jo%'",
			want:  cmp("name", ast.OpLike, "%jo%"),
		},
		{
			name:  "booleans stay strings",
			input: "active=true",
			want:  cmp("active", ast.OpEquals, "true"),
		},
		{
			name:  "in list",
			input: "role.in(admin,'super user',3)",
			want:  ast.SetMembership{Column: "role", Values: []any{"admin", "super user", int64(3)}},
		},
		{
			name:  "not in list",
			input: "id.nin(1,2)",
			want:  ast.SetMembership{Column: "id", Values: []any{int64(1), int64(2)}, Negated: true},
		},
		{
			name:  "is null",
			input: "deleted_at.null",
			want:  ast.NullTest{Column: "deleted_at"},
		},
		{
			name:  "is not null",
			input: "email.!null",
			want:  ast.NullTest{Column: "email", Negated: true},
		},
		{
			name:  "negation",
			input: "!(age<18|banned=yes)",
			want: ast.Not{Child: ast.Or{Children: []ast.Condition{
				cmp("age", ast.OpLessThan, int64(18)),
				cmp("banned", ast.OpEquals, "yes"),
			}}},
		},
		{
			name:  "parenthesised group",
			input: "(a=1,b=2)|c=3",
			want: ast.Or{Children: []ast.Condition{
				ast.And{Children: []ast.Condition{
					cmp("a", ast.OpEquals, int64(1)),
					cmp("b", ast.OpEquals, int64(2)),
				}},
				cmp("c", ast.OpEquals, int64(3)),
			}},
		},
		{
			name:  "group does not start a comma list",
			input: "(a=1),b=2",
			want:  cmp("(a=1),b", ast.OpEquals, int64(2)),
		},
		{
			name:  "non-ascii column starts a comma list",
			input: "é=1,b=2",
			want: ast.And{Children: []ast.Condition{
				cmp("é", ast.OpEquals, int64(1)),
				cmp("b", ast.OpEquals, int64(2)),
			}},
		},
		{
			name:  "null suffix ignores case",
			input: "deleted_at.NULL,email.!Null",
			want: ast.And{Children: []ast.Condition{
				ast.NullTest{Column: "deleted_at"},
				ast.NullTest{Column: "email", Negated: true},
			}},
		},
		{
			name:  "in ignores case",
			input: "id.IN(1,2)",
			want:  ast.SetMembership{Column: "id", Values: []any{int64(1), int64(2)}},
		},
		{
			name:  "quoted number is still a number",
			input: "zip='02139'",
			want:  cmp("zip", ast.OpEquals, int64(2139)),
		},
		{
			name:  "comma before a non-condition stays in the value",
			input: "tags=a,1",
			want:  cmp("tags", ast.OpEquals, "a,1"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCondition(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCondition_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{name: "empty", input: "", wantMsg: "empty condition"},
		{name: "no operator", input: "age", wantMsg: "no comparison operator"},
		{name: "missing column", input: ">5", wantMsg: "missing a column"},
		{name: "missing value", input: "age>", wantMsg: "missing a value"},
		{name: "empty in list", input: "id.in()", wantMsg: "requires at least one value"},
		{name: "empty in item", input: "id.in(1,,2)", wantMsg: "empty value"},
		{name: "empty or branch", input: "a=1|", wantMsg: "empty condition"},
		{name: "null test without column", input: ".null", wantMsg: "missing a column"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCondition(tt.input)
			require.Error(t, err)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Contains(t, parseErr.Message, tt.wantMsg)
		})
	}
}

func TestCoerceLiteral(t *testing.T) {
	tests := []struct {
		raw  string
		want any
	}{
		{"18", int64(18)},
		{"-7", int64(-7)},
		{"3.25", 3.25},
		{"1e3", 1000.0},
		{"'123'", int64(123)},
		{`"1.5"`, 1.5},
		{`"john doe"`, "john doe"},
		{"'unterminated", "'unterminated"},
		{"abc", "abc"},
		{"NaN", "NaN"},
		{"99999999999999999999", 1e20},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceLiteral(tt.raw))
		})
	}
}

func TestSplitTopLevel(t *testing.T) {
	segs := splitTopLevel("a,(b,c),'d,e',f", ',', 10)
	require.Len(t, segs, 4)
	assert.Equal(t, segment{text: "a", offset: 10}, segs[0])
	assert.Equal(t, segment{text: "(b,c)", offset: 12}, segs[1])
	assert.Equal(t, segment{text: "'d,e'", offset: 18}, segs[2])
	assert.Equal(t, segment{text: "f", offset: 24}, segs[3])
}
