package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/jiratrack/internal/domain"
	"github.com/alexanderramin/jiratrack/internal/statestore"
	"github.com/alexanderramin/jiratrack/internal/tracker"
)

// FakeClock is a manually advanced clock. Pass clock.Now as a session.Clock.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// LogTimeCall records one LogTime invocation.
type LogTimeCall struct {
	Key       string
	StartedAt time.Time
	EndedAt   time.Time
}

// FakeTracker is an in-memory tracker.Client that records calls.
type FakeTracker struct {
	Issues    []domain.Issue
	Extra     map[string]domain.Issue // reachable through GetIssue only
	SearchErr error
	LogErr    error
	AssignErr error
	GetErr    error

	Searches []string
	Logged   []LogTimeCall
	Assigned []string
	Fetched  []string
}

func (f *FakeTracker) SearchOpenSprintIssues(_ context.Context, project string) ([]domain.Issue, error) {
	f.Searches = append(f.Searches, project)
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	return append([]domain.Issue(nil), f.Issues...), nil
}

func (f *FakeTracker) LogTime(_ context.Context, key string, startedAt, endedAt time.Time) error {
	f.Logged = append(f.Logged, LogTimeCall{Key: key, StartedAt: startedAt, EndedAt: endedAt})
	return f.LogErr
}

func (f *FakeTracker) AssignToCurrentUser(_ context.Context, key string) error {
	f.Assigned = append(f.Assigned, key)
	return f.AssignErr
}

func (f *FakeTracker) GetIssue(_ context.Context, key string) (*domain.Issue, error) {
	f.Fetched = append(f.Fetched, key)
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	if i := domain.FindIssue(f.Issues, key); i != nil {
		return i, nil
	}
	if i, ok := f.Extra[key]; ok {
		return &i, nil
	}
	return nil, fmt.Errorf("issue %s: %w", key, tracker.ErrNotFound)
}

// MemoryStore is a statestore.Store kept in memory.
type MemoryStore struct {
	Record  *statestore.Record
	LoadErr error
	SaveErr error
	Saves   int
}

func (m *MemoryStore) Load() (*statestore.Record, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Record == nil {
		return nil, nil
	}
	r := *m.Record
	return &r, nil
}

func (m *MemoryStore) Save(r statestore.Record) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saves++
	m.Record = &r
	return nil
}

// FakeClipboard captures written text.
type FakeClipboard struct {
	Text string
	Err  error
}

func (c *FakeClipboard) WriteText(text string) error {
	if c.Err != nil {
		return c.Err
	}
	c.Text = text
	return nil
}
