package service

import (
	"context"
	"time"

	"github.com/alexanderramin/jiratrack/internal/domain"
)

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// WorklogAttempt is one worklog submission, successful or not.
type WorklogAttempt struct {
	IssueKey   string
	IssueTitle string
	StartedAt  time.Time
	EndedAt    time.Time
	Err        error
}

type JournalService interface {
	Record(ctx context.Context, a WorklogAttempt) (*domain.WorklogEntry, error)
	ListRecent(ctx context.Context, days int, issueKey string) ([]*domain.WorklogEntry, error)
	Summary(ctx context.Context) ([]*domain.IssueTotal, error)
	FailedSince(ctx context.Context, since time.Time) (int, error)
}
