package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/jiratrack/internal/domain"
)

// FormatWorklogList renders journal entries newest first.
func FormatWorklogList(entries []*domain.WorklogEntry, now time.Time) string {
	if len(entries) == 0 {
		return Dim("No worklogs recorded.") + "\n"
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		detail := e.IssueTitle
		if e.Status == domain.WorklogFailed {
			detail = StyleRed.Render(e.Error)
		}
		rows = append(rows, []string{
			HumanTimestampFrom(e.StartedAt, now),
			e.IssueKey,
			FormatElapsed(e.Duration()),
			WorklogStatusPill(e.Status),
			detail,
		})
	}
	return RenderTableWith(
		[]string{"Started", "Issue", "Duration", "Status", "Detail"},
		rows,
		TableOptions{Highlight: -1, MaxWidths: []int{0, keyColWidth, 0, 0, 60}},
	)
}

// FormatIssueTotals renders per-issue totals followed by a grand total.
func FormatIssueTotals(totals []*domain.IssueTotal) string {
	if len(totals) == 0 {
		return Dim("No worklogs recorded.") + "\n"
	}
	var sum, count int
	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		sum += t.LoggedSeconds
		count += t.Entries
		last := Dim("--")
		if !t.LastLoggedAt.IsZero() {
			last = HumanTimestamp(t.LastLoggedAt)
		}
		rows = append(rows, []string{t.IssueKey, FormatSeconds(t.LoggedSeconds), fmt.Sprintf("%d", t.Entries), last})
	}

	var b strings.Builder
	b.WriteString(Header("Logged time") + "\n\n")
	b.WriteString(RenderTable([]string{"Issue", "Logged", "Entries", "Last Logged"}, rows))
	fmt.Fprintf(&b, "\n%s %s across %d worklog(s)\n", Dim("Total:"), Bold(FormatSeconds(sum)), count)
	return b.String()
}
