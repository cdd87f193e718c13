package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/jiratrack/internal/domain"
)

// WorklogFilter narrows journal listings. Zero values mean no restriction.
type WorklogFilter struct {
	IssueKey string
	Since    time.Time
	Limit    int
}

type WorklogRepo interface {
	Create(ctx context.Context, e *domain.WorklogEntry) error
	GetByID(ctx context.Context, id string) (*domain.WorklogEntry, error)
	List(ctx context.Context, f WorklogFilter) ([]*domain.WorklogEntry, error)
	CountFailed(ctx context.Context, since time.Time) (int, error)
}

type IssueTotalRepo interface {
	Add(ctx context.Context, issueKey string, seconds int, at time.Time) error
	Get(ctx context.Context, issueKey string) (*domain.IssueTotal, error)
	List(ctx context.Context) ([]*domain.IssueTotal, error)
}
