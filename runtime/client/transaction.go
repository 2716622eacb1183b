package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/satishbabariya/clauseql/query/ast"
)

// Tx runs compiled queries inside a database transaction.
type Tx struct {
	tx     *sql.Tx
	client *Client
	depth  int
}

// TransactionFunc is a function that runs within a transaction
type TransactionFunc func(tx *Tx) error

// Transaction runs fn in a transaction. It commits when fn returns nil and
// rolls back otherwise, including on panic.
func (c *Client) Transaction(ctx context.Context, fn TransactionFunc) error {
	return c.TransactionWithOptions(ctx, nil, fn)
}

// TransactionWithOptions is Transaction with explicit isolation and
// read-only settings.
func (c *Client) TransactionWithOptions(ctx context.Context, opts *sql.TxOptions, fn TransactionFunc) error {
	sqlTx, err := c.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	tx := &Tx{tx: sqlTx, client: c}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Query is Client.Query inside the transaction.
func (tx *Tx) Query(ctx context.Context, input string) ([]map[string]any, error) {
	out, err := tx.client.compiler.Compile(input)
	if err != nil {
		return nil, err
	}
	return tx.client.query(ctx, tx.tx, input, out)
}

// QueryAST is Client.QueryAST inside the transaction.
func (tx *Tx) QueryAST(ctx context.Context, q *ast.Query) ([]map[string]any, error) {
	out, err := tx.client.compiler.CompileAST(q)
	if err != nil {
		return nil, err
	}
	return tx.client.query(ctx, tx.tx, q.String(), out)
}

// Exec is Client.Exec inside the transaction.
func (tx *Tx) Exec(ctx context.Context, input string) (sql.Result, error) {
	out, err := tx.client.compiler.Compile(input)
	if err != nil {
		return nil, err
	}
	return tx.client.exec(ctx, tx.tx, input, out)
}

// Nested runs fn behind a savepoint. An error from fn rolls back to the
// savepoint and leaves the outer transaction usable.
func (tx *Tx) Nested(ctx context.Context, fn TransactionFunc) error {
	tx.depth++
	defer func() { tx.depth-- }()
	savepoint := fmt.Sprintf("sp_%d", tx.depth)

	if _, err := tx.tx.ExecContext(ctx, "SAVEPOINT "+savepoint); err != nil {
		return fmt.Errorf("failed to create savepoint: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_, _ = tx.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepoint)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if _, rbErr := tx.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepoint); rbErr != nil {
			return fmt.Errorf("nested transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if _, err := tx.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepoint); err != nil {
		return fmt.Errorf("failed to release savepoint: %w", err)
	}
	return nil
}
