package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/jiratrack/internal/domain"
	"github.com/google/uuid"
)

var issueCounter atomic.Int64

type IssueOption func(*domain.Issue)

func WithKey(key string) IssueOption {
	return func(i *domain.Issue) {
		i.Key = key
	}
}

func WithTimeSpent(s string) IssueOption {
	return func(i *domain.Issue) {
		i.TimeSpent = s
	}
}

func WithAssignee(name string) IssueOption {
	return func(i *domain.Issue) {
		i.Assignee = name
	}
}

// NewTestIssue builds an issue with a unique IMG-n key.
func NewTestIssue(title string, opts ...IssueOption) domain.Issue {
	n := issueCounter.Add(1)
	i := domain.Issue{
		ID:        fmt.Sprintf("%d", 10000+n),
		Key:       fmt.Sprintf("IMG-%d", n),
		Title:     title,
		TimeSpent: "0h",
	}
	for _, opt := range opts {
		opt(&i)
	}
	return i
}

type WorklogOption func(*domain.WorklogEntry)

func WithStatus(s domain.WorklogStatus, errMsg string) WorklogOption {
	return func(e *domain.WorklogEntry) {
		e.Status = s
		e.Error = errMsg
	}
}

func WithStartedAt(t time.Time) WorklogOption {
	return func(e *domain.WorklogEntry) {
		d := e.EndedAt.Sub(e.StartedAt)
		e.StartedAt = t
		e.EndedAt = t.Add(d)
	}
}

// NewTestWorklog builds a submitted entry of the given length that ended now.
func NewTestWorklog(issueKey string, d time.Duration, opts ...WorklogOption) *domain.WorklogEntry {
	now := time.Now().UTC().Truncate(time.Second)
	e := &domain.WorklogEntry{
		ID:        uuid.New().String(),
		IssueKey:  issueKey,
		StartedAt: now.Add(-d),
		EndedAt:   now,
		Seconds:   int(d / time.Second),
		Status:    domain.WorklogSubmitted,
		CreatedAt: now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
