package newsletter

import (
	"hash/fnv"

	"theforum/internal/model"
)

// IssueNumberFunc maps a month key to its display issue number.
type IssueNumberFunc func(monthKey string) int

// SequentialIssues numbers issues by months elapsed since firstIssue, starting at 1.
// Keys that do not parse, or predate firstIssue, fall back to HashedIssue.
func SequentialIssues(firstIssue string) IssueNumberFunc {
	first, err := model.ParseMonthKey(firstIssue)
	if err != nil {
		return HashedIssue
	}
	return func(monthKey string) int {
		t, err := model.ParseMonthKey(monthKey)
		if err != nil {
			return HashedIssue(monthKey)
		}
		n := (t.Year()-first.Year())*12 + int(t.Month()) - int(first.Month())
		if n < 0 {
			return HashedIssue(monthKey)
		}
		return n + 1
	}
}

// HashedIssue derives a number in 1..100 from the key.
func HashedIssue(monthKey string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(monthKey))
	return int(h.Sum32()%100) + 1
}
