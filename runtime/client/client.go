// Package client executes compiled queries against a database.
package client

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/satishbabariya/clauseql/internal/debug"
	"github.com/satishbabariya/clauseql/query/ast"
	"github.com/satishbabariya/clauseql/query/compiler"
	"github.com/satishbabariya/clauseql/query/sqlgen"
)

// Client compiles queries for its dialect and runs them on a database.
type Client struct {
	db          *sql.DB
	compiler    *compiler.Compiler
	middlewares []Middleware
}

// querier is the part of *sql.DB and *sql.Tx the client runs statements on.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Open connects to a database of the given dialect.
func Open(dialect sqlgen.Dialect, dsn string, opts ...compiler.Option) (*Client, error) {
	driverName := driverFor(dialect)
	if driverName == "" {
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}
	if dialect == sqlgen.MySQL {
		if _, err := mysql.ParseDSN(dsn); err != nil {
			return nil, fmt.Errorf("invalid mysql DSN: %w", err)
		}
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}
	return New(db, sqlgen.ProfileFor(dialect), opts...), nil
}

// New wraps an open database. Parameterized output is forced since the
// driver binds the values.
func New(db *sql.DB, profile sqlgen.Profile, opts ...compiler.Option) *Client {
	profile.Inline = false
	profile.Pretty = false
	opts = append([]compiler.Option{compiler.WithProfile(profile)}, opts...)
	return &Client{
		db:       db,
		compiler: compiler.New(opts...),
	}
}

// driverFor maps a dialect to its database/sql driver name.
func driverFor(d sqlgen.Dialect) string {
	switch d {
	case sqlgen.Postgres:
		return "postgres"
	case sqlgen.MySQL:
		return "mysql"
	case sqlgen.SQLite:
		return "sqlite3"
	default:
		return ""
	}
}

// Ping checks the connection.
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close closes the database.
func (c *Client) Close() error {
	return c.db.Close()
}

// DB returns the underlying database connection
func (c *Client) DB() *sql.DB {
	return c.db
}

// Compiler returns the compiler the client uses.
func (c *Client) Compiler() *compiler.Compiler {
	return c.compiler
}

// Use adds a middleware to the chain. Middlewares run in the order added.
func (c *Client) Use(m Middleware) {
	c.middlewares = append(c.middlewares, m)
}

// Query compiles input and returns the result rows keyed by column name.
func (c *Client) Query(ctx context.Context, input string) ([]map[string]any, error) {
	out, err := c.compiler.Compile(input)
	if err != nil {
		return nil, err
	}
	return c.query(ctx, c.db, input, out)
}

// QueryAST is Query for an already built query.
func (c *Client) QueryAST(ctx context.Context, q *ast.Query) ([]map[string]any, error) {
	out, err := c.compiler.CompileAST(q)
	if err != nil {
		return nil, err
	}
	return c.query(ctx, c.db, q.String(), out)
}

// Exec compiles input and runs it without returning rows.
func (c *Client) Exec(ctx context.Context, input string) (sql.Result, error) {
	out, err := c.compiler.Compile(input)
	if err != nil {
		return nil, err
	}
	return c.exec(ctx, c.db, input, out)
}

// ExecAST is Exec for an already built query.
func (c *Client) ExecAST(ctx context.Context, q *ast.Query) (sql.Result, error) {
	out, err := c.compiler.CompileAST(q)
	if err != nil {
		return nil, err
	}
	return c.exec(ctx, c.db, q.String(), out)
}

func (c *Client) query(ctx context.Context, db querier, input string, out *sqlgen.CompiledQuery) ([]map[string]any, error) {
	var rows []map[string]any
	err := c.run(ctx, input, out, func() error {
		r, err := db.QueryContext(ctx, out.SQL, out.Params...)
		if err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		defer r.Close()

		rows, err = scanMaps(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) exec(ctx context.Context, db querier, input string, out *sqlgen.CompiledQuery) (sql.Result, error) {
	var res sql.Result
	err := c.run(ctx, input, out, func() error {
		var err error
		res, err = db.ExecContext(ctx, out.SQL, out.Params...)
		if err != nil {
			return fmt.Errorf("failed to execute statement: %w", err)
		}
		return nil
	})
	return res, err
}

// run executes fn through the middleware chain.
func (c *Client) run(ctx context.Context, input string, out *sqlgen.CompiledQuery, fn func() error) error {
	event := &QueryEvent{
		Input:  input,
		SQL:    out.SQL,
		Params: out.Params,
		Start:  time.Now(),
	}
	err := chain(ctx, c.middlewares, event, fn)
	debug.Debug("Executed query", "sql", out.SQL, "params", len(out.Params), "duration", event.Duration, "error", err)
	return err
}
