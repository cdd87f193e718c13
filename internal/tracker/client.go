// Package tracker talks to the remote issue tracker (Jira Cloud REST v3).
package tracker

import (
	"context"
	"time"

	"github.com/alexanderramin/jiratrack/internal/domain"
)

// Client is the issue tracker capability used by the session controller.
type Client interface {
	// SearchOpenSprintIssues returns the open, non-archived issues of the
	// project's active sprints.
	SearchOpenSprintIssues(ctx context.Context, project string) ([]domain.Issue, error)

	// LogTime submits a worklog for the interval. Intervals shorter than a
	// minute succeed without contacting the tracker.
	LogTime(ctx context.Context, issueKey string, startedAt, endedAt time.Time) error

	// AssignToCurrentUser assigns the issue to the authenticated user.
	AssignToCurrentUser(ctx context.Context, issueKey string) error

	// GetIssue fetches a single issue by key.
	GetIssue(ctx context.Context, issueKey string) (*domain.Issue, error)
}
