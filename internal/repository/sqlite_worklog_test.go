package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/jiratrack/internal/db"
	"github.com/alexanderramin/jiratrack/internal/domain"
	"github.com/alexanderramin/jiratrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorklogRepo_CreateAndGetByID(t *testing.T) {
	repo := NewSQLiteWorklogRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	e := testutil.NewTestWorklog("IMG-1", 90*time.Minute)
	e.IssueTitle = "Fix login bug"
	require.NoError(t, repo.Create(ctx, e))

	got, err := repo.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "IMG-1", got.IssueKey)
	assert.Equal(t, "Fix login bug", got.IssueTitle)
	assert.Equal(t, 5400, got.Seconds)
	assert.Equal(t, domain.WorklogSubmitted, got.Status)
	assert.True(t, e.StartedAt.Equal(got.StartedAt))
	assert.True(t, e.EndedAt.Equal(got.EndedAt))
	assert.Equal(t, 90*time.Minute, got.Duration())
}

func TestWorklogRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteWorklogRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorklogRepo_ListFilters(t *testing.T) {
	repo := NewSQLiteWorklogRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC()

	old := testutil.NewTestWorklog("IMG-1", time.Hour, testutil.WithStartedAt(now.AddDate(0, 0, -10)))
	recent := testutil.NewTestWorklog("IMG-1", time.Hour, testutil.WithStartedAt(now.Add(-2*time.Hour)))
	other := testutil.NewTestWorklog("IMG-2", time.Hour, testutil.WithStartedAt(now.Add(-3*time.Hour)))
	for _, e := range []*domain.WorklogEntry{old, recent, other} {
		require.NoError(t, repo.Create(ctx, e))
	}

	all, err := repo.List(ctx, WorklogFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, recent.ID, all[0].ID, "newest first")
	assert.Equal(t, old.ID, all[2].ID)

	byIssue, err := repo.List(ctx, WorklogFilter{IssueKey: "IMG-1"})
	require.NoError(t, err)
	assert.Len(t, byIssue, 2)

	sinceWeek, err := repo.List(ctx, WorklogFilter{Since: now.AddDate(0, 0, -7)})
	require.NoError(t, err)
	assert.Len(t, sinceWeek, 2)

	limited, err := repo.List(ctx, WorklogFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, recent.ID, limited[0].ID)
}

func TestWorklogRepo_SubSecondOrdering(t *testing.T) {
	repo := NewSQLiteWorklogRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	first := testutil.NewTestWorklog("IMG-1", time.Minute, testutil.WithStartedAt(base))
	second := testutil.NewTestWorklog("IMG-1", time.Minute, testutil.WithStartedAt(base.Add(500*time.Millisecond)))
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, first))

	got, err := repo.List(ctx, WorklogFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
}

func TestWorklogRepo_CountFailed(t *testing.T) {
	repo := NewSQLiteWorklogRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestWorklog("IMG-1", time.Hour)))
	require.NoError(t, repo.Create(ctx, testutil.NewTestWorklog("IMG-1", time.Hour,
		testutil.WithStatus(domain.WorklogFailed, "network unreachable"))))

	n, err := repo.CountFailed(ctx, time.Now().AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestWorklogRepo_SurvivesReopen(t *testing.T) {
	database, path := testutil.NewTestFileDB(t)
	ctx := context.Background()
	e := testutil.NewTestWorklog("IMG-1", time.Hour)
	require.NoError(t, NewSQLiteWorklogRepo(database).Create(ctx, e))
	require.NoError(t, database.Close())

	reopened, err := db.OpenDB(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := NewSQLiteWorklogRepo(reopened).GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.IssueKey, got.IssueKey)
	assert.True(t, e.StartedAt.Equal(got.StartedAt))
}
