package domain

import "time"

// WorklogStatus is the outcome of a worklog submission attempt.
type WorklogStatus string

const (
	WorklogSubmitted WorklogStatus = "submitted"
	WorklogFailed    WorklogStatus = "failed"
)

// WorklogEntry is the local journal record of one worklog submission attempt.
type WorklogEntry struct {
	ID         string
	IssueKey   string
	IssueTitle string
	StartedAt  time.Time
	EndedAt    time.Time
	Seconds    int
	Status     WorklogStatus
	Error      string
	CreatedAt  time.Time
}

// Duration returns the logged interval as a time.Duration.
func (w *WorklogEntry) Duration() time.Duration {
	return time.Duration(w.Seconds) * time.Second
}

// IssueTotal aggregates successfully submitted worklogs per issue.
type IssueTotal struct {
	IssueKey      string
	LoggedSeconds int
	Entries       int
	LastLoggedAt  time.Time
}

// WholeSeconds floors the interval between start and end to whole seconds.
// Negative intervals count as zero.
func WholeSeconds(start, end time.Time) int {
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}
