package domain

import "fmt"

// Issue is a snapshot of a tracker issue as returned by a sprint query.
// Issues are replaced wholesale on refresh and never mutated in place.
type Issue struct {
	ID        string
	Key       string
	Title     string
	TimeSpent string
	Assignee  string
}

// Summary returns the "[KEY] Title" form used for merge request titles.
func (i Issue) Summary() string {
	return fmt.Sprintf("[%s] %s", i.Key, i.Title)
}

// FindIssue returns the issue with the given key, or nil.
func FindIssue(issues []Issue, key string) *Issue {
	for idx := range issues {
		if issues[idx].Key == key {
			issue := issues[idx]
			return &issue
		}
	}
	return nil
}
