package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/jiratrack/internal/db"
	"github.com/alexanderramin/jiratrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueTotalRepo_AddAccumulates(t *testing.T) {
	repo := NewSQLiteIssueTotalRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	t1 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(2 * time.Hour)

	require.NoError(t, repo.Add(ctx, "IMG-1", 600, t2))
	require.NoError(t, repo.Add(ctx, "IMG-1", 300, t1))

	got, err := repo.Get(ctx, "IMG-1")
	require.NoError(t, err)
	assert.Equal(t, 900, got.LoggedSeconds)
	assert.Equal(t, 2, got.Entries)
	assert.True(t, t2.Equal(got.LastLoggedAt), "last_logged_at never moves backwards")
}

func TestIssueTotalRepo_RejectsNegative(t *testing.T) {
	repo := NewSQLiteIssueTotalRepo(testutil.NewTestDB(t))

	assert.Error(t, repo.Add(context.Background(), "IMG-1", -1, time.Now()))
}

func TestIssueTotalRepo_GetNotFound(t *testing.T) {
	repo := NewSQLiteIssueTotalRepo(testutil.NewTestDB(t))

	_, err := repo.Get(context.Background(), "IMG-404")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIssueTotalRepo_ListOrder(t *testing.T) {
	repo := NewSQLiteIssueTotalRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Add(ctx, "IMG-1", 60, now))
	require.NoError(t, repo.Add(ctx, "IMG-2", 3600, now))
	require.NoError(t, repo.Add(ctx, "IMG-3", 60, now))

	got, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "IMG-2", got[0].IssueKey)
	assert.Equal(t, "IMG-1", got[1].IssueKey)
	assert.Equal(t, "IMG-3", got[2].IssueKey)
}

func TestRepos_RollbackTogether(t *testing.T) {
	database := testutil.NewTestDB(t)
	boom := errors.New("disk full")
	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: boom}
	ctx := context.Background()
	entry := testutil.NewTestWorklog("IMG-1", time.Hour)

	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := NewSQLiteWorklogRepo(tx).Create(ctx, entry); err != nil {
			return err
		}
		return NewSQLiteIssueTotalRepo(tx).Add(ctx, entry.IssueKey, entry.Seconds, entry.EndedAt)
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 2, uow.Execs)
	_, err = NewSQLiteWorklogRepo(database).GetByID(ctx, entry.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
