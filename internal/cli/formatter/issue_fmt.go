package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/jiratrack/internal/domain"
)

var issueHeaders = []string{"Key", "Time Spent", "Assignee", "Title"}

// Column caps matching the interactive layout. Titles are capped by the
// caller from the terminal width.
const (
	keyColWidth      = 12
	timeColWidth     = 12
	assigneeColWidth = 20
)

// FormatIssueTable renders issues as a Key / Time Spent / Assignee / Title
// table. highlight selects a row (negative for none); the row matching
// activeKey has its key shown in green.
func FormatIssueTable(issues []domain.Issue, highlight int, activeKey string, titleWidth int) string {
	if len(issues) == 0 {
		return Dim("No matching issues.") + "\n"
	}
	rows := make([][]string, 0, len(issues))
	for _, issue := range issues {
		key := issue.Key
		if key == activeKey {
			key = StyleGreen.Render(key)
		}
		assignee := issue.Assignee
		if assignee == "" {
			assignee = Dim("Unassigned")
		}
		rows = append(rows, []string{key, issue.TimeSpent, assignee, issue.Title})
	}
	return RenderTableWith(issueHeaders, rows, TableOptions{
		Highlight: highlight,
		MaxWidths: []int{keyColWidth, timeColWidth, assigneeColWidth, titleWidth},
	})
}

// FormatActivePanel renders the current-issue panel body.
func FormatActivePanel(key, title string, elapsed time.Duration, active bool) string {
	if !active {
		return Dim(" No issue active")
	}
	text := " " + StyleGreen.Render(key)
	if title != "" {
		text += " " + title
	}
	return text + " " + StyleYellow.Render("("+FormatElapsed(elapsed)+")")
}

// FormatSearchBox renders the query line.
func FormatSearchBox(query string) string {
	return StyleHeader.Render("> ") + query
}

// FormatIssueDetail renders a single issue for `jiratrack show`.
func FormatIssueDetail(issue *domain.Issue) string {
	var b strings.Builder
	assignee := issue.Assignee
	if assignee == "" {
		assignee = Dim("Unassigned")
	}
	fmt.Fprintf(&b, "%s\n\n", Bold(issue.Title))
	fmt.Fprintf(&b, "%s %s\n", Dim("Time spent:"), issue.TimeSpent)
	fmt.Fprintf(&b, "%s %s\n", Dim("Assignee:  "), assignee)
	fmt.Fprintf(&b, "%s %s", Dim("Summary:   "), issue.Summary())
	return RenderBox(issue.Key, b.String()) + "\n"
}

// FormatTimerStatus renders the persisted timer for `jiratrack status`.
func FormatTimerStatus(key string, since time.Time, elapsed time.Duration, active bool) string {
	if !active {
		return Dim("No issue active.") + "\n"
	}
	return fmt.Sprintf("%s %s since %s %s\n",
		StyleGreen.Render("●"),
		Bold(key),
		since.Local().Format("Mon 15:04"),
		StyleYellow.Render("("+FormatElapsed(elapsed)+")"),
	)
}
