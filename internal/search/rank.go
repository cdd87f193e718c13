// Package search ranks issues against a fuzzy query typed in the search box.
package search

import (
	"cmp"
	"slices"
	"strings"

	"github.com/alexanderramin/jiratrack/internal/domain"
	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

func init() {
	algo.Init("default")
}

type scored struct {
	issue domain.Issue
	score int
}

// Rank returns the issues whose titles fuzzy-match query, best match first.
// Issues with equal scores keep their input order. An empty query returns
// a copy of issues in their original order.
func Rank(issues []domain.Issue, query string) []domain.Issue {
	if query == "" {
		return slices.Clone(issues)
	}

	pattern := []rune(strings.ToLower(query))
	matches := make([]scored, 0, len(issues))
	for _, issue := range issues {
		score, ok := Score(issue.Title, pattern)
		if !ok {
			continue
		}
		matches = append(matches, scored{issue: issue, score: score})
	}

	slices.SortStableFunc(matches, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	ranked := make([]domain.Issue, len(matches))
	for i, m := range matches {
		ranked[i] = m.issue
	}
	return ranked
}

// Score returns the fzf v2 score of a lowercased pattern against text.
// ok is false when the pattern is not a subsequence of text.
func Score(text string, pattern []rune) (score int, ok bool) {
	chars := util.ToChars([]byte(text))
	result, _ := algo.FuzzyMatchV2(false, false, true, &chars, pattern, false, nil)
	if result.Start < 0 {
		return 0, false
	}
	return result.Score, true
}
