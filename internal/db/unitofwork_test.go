package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/jiratrack/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUoW(t *testing.T) (*db.SQLiteUnitOfWork, func(key string) int) {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	count := func(key string) int {
		var n int
		require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM issue_totals WHERE issue_key = ?`, key).Scan(&n))
		return n
	}
	return db.NewSQLiteUnitOfWork(database), count
}

func insertTotal(ctx context.Context, tx db.DBTX, key string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO issue_totals (issue_key, logged_seconds, entries) VALUES (?, 60, 1)`, key)
	return err
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow, count := newUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertTotal(ctx, tx, "IMG-1")
	})

	require.NoError(t, err)
	assert.Equal(t, 1, count("IMG-1"))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow, count := newUoW(t)
	boom := errors.New("boom")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertTotal(ctx, tx, "IMG-2"); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, count("IMG-2"))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow, count := newUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertTotal(ctx, tx, "IMG-3")
			panic("boom")
		})
	})
	assert.Equal(t, 0, count("IMG-3"))
}
