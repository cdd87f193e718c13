// Package session holds the activation state machine for the issue timer.
//
// A State is either idle or timing exactly one issue. Transitions never
// perform I/O: deactivating returns a WorklogRequest describing the worklog
// that should be submitted, and the caller decides how to submit it.
package session

import "time"

// MinWorklogDuration is the shortest interval worth submitting as a worklog.
const MinWorklogDuration = 60 * time.Second

// Clock returns the current wall-clock time.
type Clock func() time.Time

// WorklogRequest describes a worklog that should be submitted for an issue.
type WorklogRequest struct {
	IssueKey  string
	StartedAt time.Time
	EndedAt   time.Time
}

// Duration returns the length of the requested interval.
func (r WorklogRequest) Duration() time.Duration {
	return r.EndedAt.Sub(r.StartedAt)
}

// State tracks which issue, if any, is being timed and since when.
// It is not safe for concurrent use.
type State struct {
	clock  Clock
	key    string
	since  time.Time
	active bool
}

// New returns an idle State. A nil clock uses time.Now.
func New(clock Clock) *State {
	if clock == nil {
		clock = time.Now
	}
	return &State{clock: clock}
}

// Activate starts timing key. If another issue (or the same one) is already
// active it is deactivated first, and the resulting request is returned.
func (s *State) Activate(key string) *WorklogRequest {
	now := s.clock()
	flushed := s.deactivateAt(now)
	s.key = key
	s.since = now
	s.active = true
	return flushed
}

// Deactivate stops the timer. It returns a request when the elapsed time is
// at least MinWorklogDuration and nil otherwise. The state is idle afterwards.
func (s *State) Deactivate() *WorklogRequest {
	return s.deactivateAt(s.clock())
}

func (s *State) deactivateAt(now time.Time) *WorklogRequest {
	if !s.active {
		return nil
	}
	req := &WorklogRequest{IssueKey: s.key, StartedAt: s.since, EndedAt: now}
	s.clear()
	if req.Duration() < MinWorklogDuration {
		return nil
	}
	return req
}

// Discard stops the timer without producing a request.
func (s *State) Discard() {
	s.clear()
}

func (s *State) clear() {
	s.key = ""
	s.since = time.Time{}
	s.active = false
}

// Elapsed reports how long the active issue has been timed.
func (s *State) Elapsed() (time.Duration, bool) {
	if !s.active {
		return 0, false
	}
	return s.clock().Sub(s.since), true
}

// Active returns the active issue key and activation time.
func (s *State) Active() (key string, since time.Time, ok bool) {
	return s.key, s.since, s.active
}

// IsActive reports whether an issue is being timed.
func (s *State) IsActive() bool {
	return s.active
}

// Restore overwrites the state with a previously persisted activation.
// An empty key restores the idle state.
func (s *State) Restore(key string, since time.Time) {
	if key == "" {
		s.clear()
		return
	}
	s.key = key
	s.since = since
	s.active = true
}
