package client

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/clauseql/query/sqlgen"
)

func TestTransaction_Commit(t *testing.T) {
	c, mock := newMock(t, sqlgen.Postgres)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users (name) VALUES ($1)").
		WithArgs("ann").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT * FROM users WHERE name = $1").
		WithArgs("ann").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(int64(1), "ann"))
	mock.ExpectCommit()

	err := c.Transaction(ctx, func(tx *Tx) error {
		if _, err := tx.Exec(ctx, "ins:users cols:name vals:ann"); err != nil {
			return err
		}
		rows, err := tx.Query(ctx, "from:users whr:name=ann")
		if err != nil {
			return err
		}
		assert.Len(t, rows, 1)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransaction_Rollback(t *testing.T) {
	c, mock := newMock(t, sqlgen.Postgres)
	ctx := context.Background()
	failure := errors.New("failure")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := c.Transaction(ctx, func(tx *Tx) error { return failure })
	assert.ErrorIs(t, err, failure)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransaction_RollbackOnPanic(t *testing.T) {
	c, mock := newMock(t, sqlgen.Postgres)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "boom", func() {
		_ = c.Transaction(context.Background(), func(tx *Tx) error { panic("boom") })
	})
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransaction_Nested(t *testing.T) {
	c, mock := newMock(t, sqlgen.Postgres)
	ctx := context.Background()
	inner := errors.New("inner")

	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT sp_1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("RELEASE SAVEPOINT sp_1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("SAVEPOINT sp_1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("ROLLBACK TO SAVEPOINT sp_1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := c.Transaction(ctx, func(tx *Tx) error {
		require.NoError(t, tx.Nested(ctx, func(*Tx) error { return nil }))
		assert.ErrorIs(t, tx.Nested(ctx, func(*Tx) error { return inner }), inner)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransaction_BeginError(t *testing.T) {
	c, mock := newMock(t, sqlgen.Postgres)
	mock.ExpectBegin().WillReturnError(errors.New("no connection"))

	err := c.Transaction(context.Background(), func(*Tx) error { return nil })
	assert.ErrorContains(t, err, "failed to begin transaction")
}
