package client

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/clauseql/query/ast"
	"github.com/satishbabariya/clauseql/query/parser"
	"github.com/satishbabariya/clauseql/query/sqlgen"
)

func newMock(t *testing.T, dialect sqlgen.Dialect) (*Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db, sqlgen.ProfileFor(dialect)), mock
}

func TestOpen(t *testing.T) {
	_, err := Open(sqlgen.Generic, "")
	assert.EqualError(t, err, "unsupported dialect: generic")

	_, err = Open(sqlgen.MySQL, "not a dsn")
	assert.ErrorContains(t, err, "invalid mysql DSN")

	c, err := Open(sqlgen.Postgres, "postgres://localhost/app?sslmode=disable")
	require.NoError(t, err)
	assert.Equal(t, sqlgen.Postgres, c.Compiler().Profile().Dialect)
	require.NoError(t, c.Close())
}

func TestDriverFor(t *testing.T) {
	assert.Equal(t, "postgres", driverFor(sqlgen.Postgres))
	assert.Equal(t, "mysql", driverFor(sqlgen.MySQL))
	assert.Equal(t, "sqlite3", driverFor(sqlgen.SQLite))
	assert.Equal(t, "", driverFor(sqlgen.Generic))
}

func TestQuery(t *testing.T) {
	c, mock := newMock(t, sqlgen.Postgres)

	mock.ExpectQuery("SELECT id, name FROM users WHERE age > $1 LIMIT 2").
		WithArgs(int64(18)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(int64(1), []byte("alice")).
			AddRow(int64(2), nil))

	rows, err := c.Query(context.Background(), "from:users sel:id,name whr:age>18 lim:2")
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{
		{"id": int64(1), "name": "alice"},
		{"id": int64(2), "name": nil},
	}, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_NoRows(t *testing.T) {
	c, mock := newMock(t, sqlgen.MySQL)
	mock.ExpectQuery("SELECT * FROM users WHERE id = ?").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rows, err := c.Query(context.Background(), "from:users whr:id=9")
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NotNil(t, rows)
}

func TestQuery_InlineProfileIsParameterized(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	c := New(db, sqlgen.Profile{Dialect: sqlgen.SQLite, Inline: true, Pretty: true})
	mock.ExpectQuery("SELECT * FROM users WHERE name = ?").
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(4)))

	_, err = c.Query(context.Background(), "from:users whr:name=bob")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryAST(t *testing.T) {
	c, mock := newMock(t, sqlgen.Postgres)
	q, err := parser.ParseString("from:orders sel:sum:total/revenue grp:region")
	require.NoError(t, err)

	mock.ExpectQuery("SELECT SUM(total) AS revenue FROM orders GROUP BY region").
		WillReturnRows(sqlmock.NewRows([]string{"revenue"}).AddRow(float64(12.5)))

	rows, err := c.QueryAST(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"revenue": 12.5}}, rows)
}

func TestExec(t *testing.T) {
	c, mock := newMock(t, sqlgen.Postgres)
	mock.ExpectExec("UPDATE users SET name = $1 WHERE id = $2").
		WithArgs("bob", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	res, err := c.Exec(context.Background(), "upd:users set:name=bob whr:id=1")
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	mock.ExpectExec("DELETE FROM sessions WHERE id = $1").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	_, err = c.ExecAST(context.Background(), &ast.Query{
		Kind:  ast.Delete,
		From:  "sessions",
		Where: ast.Comparison{Left: "id", Operator: ast.OpEquals, Right: int64(3)},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestErrors(t *testing.T) {
	c, mock := newMock(t, sqlgen.Postgres)

	_, err := c.Query(context.Background(), "from:users on:a=b")
	var parseErr *parser.ParseError
	assert.ErrorAs(t, err, &parseErr)

	dbErr := errors.New("connection reset")
	mock.ExpectQuery("SELECT * FROM users").WillReturnError(dbErr)
	_, err = c.Query(context.Background(), "from:users")
	assert.ErrorIs(t, err, dbErr)
	assert.ErrorContains(t, err, "failed to execute query")

	mock.ExpectExec("DELETE FROM users").WillReturnError(dbErr)
	_, err = c.Exec(context.Background(), "del:users")
	assert.ErrorIs(t, err, dbErr)
}

func TestMiddleware(t *testing.T) {
	c, mock := newMock(t, sqlgen.Postgres)

	var order []string
	var logged []string
	var timed time.Duration = -1
	var failed error

	c.Use(func(ctx context.Context, event *QueryEvent, next func() error) error {
		order = append(order, "outer:"+event.Input)
		err := next()
		order = append(order, "outer done")
		return err
	})
	c.Use(LoggingMiddleware(func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	}))
	c.Use(TimingMiddleware(func(sql string, d time.Duration) { timed = d }))
	c.Use(ErrorMiddleware(func(sql string, err error) { failed = err }))

	mock.ExpectQuery("SELECT * FROM users").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err := c.Query(context.Background(), "from:users")
	require.NoError(t, err)

	assert.Equal(t, []string{"outer:from:users", "outer done"}, order)
	require.Len(t, logged, 2)
	assert.Equal(t, "Executing query: SELECT * FROM users with params: []", logged[0])
	assert.Contains(t, logged[1], "Query completed in")
	assert.GreaterOrEqual(t, timed, time.Duration(0))
	assert.NoError(t, failed)

	mock.ExpectQuery("SELECT * FROM users").WillReturnError(errors.New("boom"))
	_, err = c.Query(context.Background(), "from:users")
	require.Error(t, err)
	assert.ErrorContains(t, failed, "boom")
	assert.Contains(t, logged[len(logged)-1], "Query failed")
}

func TestMiddleware_ShortCircuit(t *testing.T) {
	c, mock := newMock(t, sqlgen.Postgres)
	denied := errors.New("denied")
	c.Use(func(ctx context.Context, event *QueryEvent, next func() error) error {
		return denied
	})

	_, err := c.Exec(context.Background(), "del:users")
	assert.ErrorIs(t, err, denied)
	require.NoError(t, mock.ExpectationsWereMet())
}
