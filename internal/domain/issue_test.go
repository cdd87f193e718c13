package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssue_Summary(t *testing.T) {
	issue := Issue{Key: "IMG-12", Title: "Fix login bug"}
	assert.Equal(t, "[IMG-12] Fix login bug", issue.Summary())
}

func TestFindIssue(t *testing.T) {
	issues := []Issue{{Key: "A", Title: "first"}, {Key: "B", Title: "second"}}

	found := FindIssue(issues, "B")
	require.NotNil(t, found)
	assert.Equal(t, "second", found.Title)

	found.Title = "mutated"
	assert.Equal(t, "second", issues[1].Title, "returned issue must be a copy")

	assert.Nil(t, FindIssue(issues, "C"))
	assert.Nil(t, FindIssue(nil, "A"))
}

func TestWholeSeconds(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, 90, WholeSeconds(start, start.Add(90*time.Second+900*time.Millisecond)))
	assert.Equal(t, 0, WholeSeconds(start, start))
	assert.Equal(t, 0, WholeSeconds(start, start.Add(-time.Minute)))
}

func TestCoalesceStr(t *testing.T) {
	assert.Equal(t, "0h", CoalesceStr("", "0h"))
	assert.Equal(t, "2h", CoalesceStr("2h", "0h"))
	assert.Equal(t, "", CoalesceStr())
}
