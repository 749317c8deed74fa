package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateRangeContains(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jan31 := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		r        DateRange
		at       time.Time
		expected bool
	}{
		{"unbounded", DateRange{}, jan1.AddDate(-10, 0, 0), true},
		{"start boundary is inclusive", DateRange{Start: jan1}, jan1, true},
		{"before start", DateRange{Start: jan1}, jan1.Add(-time.Second), false},
		{"end boundary is inclusive", DateRange{End: jan31}, jan31, true},
		{"after end", DateRange{End: jan31}, jan31.Add(time.Second), false},
		{"inside both", DateRange{Start: jan1, End: jan31}, jan1.AddDate(0, 0, 10), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.r.Contains(tt.at))
		})
	}
}

func TestDateRangeIsBounded(t *testing.T) {
	assert.False(t, DateRange{}.IsBounded())
	assert.True(t, DateRange{Start: time.Now()}.IsBounded())
	assert.True(t, DateRange{End: time.Now()}.IsBounded())
}

func TestTopContributors(t *testing.T) {
	now := time.Now().UTC()
	stats := NewRepositoryStats("/repo")
	stats.Contributors["carol"] = &ContributorRollup{Commits: 2, FirstCommit: now, LastCommit: now}
	stats.Contributors["alice"] = &ContributorRollup{Commits: 5, FirstCommit: now, LastCommit: now}
	stats.Contributors["bob"] = &ContributorRollup{Commits: 2, FirstCommit: now, LastCommit: now}

	top := stats.TopContributors(2)
	assert.Len(t, top, 2)
	assert.Equal(t, "alice", top[0].Name)
	assert.Equal(t, "bob", top[1].Name, "ties are broken by name")

	all := stats.TopContributors(0)
	assert.Len(t, all, 3)
	assert.Equal(t, "carol", all[2].Name)
}

func TestFirstEmails(t *testing.T) {
	stats := NewRepositoryStats("/repo")
	stats.Commits = []CommitRecord{
		{Author: "alice", Email: "alice@new.example"},
		{Author: "bob", Email: "bob@example.com"},
		{Author: "alice", Email: "alice@old.example"},
	}

	emails := stats.FirstEmails()
	assert.Equal(t, map[string]string{
		"alice": "alice@new.example",
		"bob":   "bob@example.com",
	}, emails)
	assert.Empty(t, emails["nobody"])
	assert.Empty(t, NewRepositoryStats("/empty").FirstEmails())
}

func TestCommitRecordChurn(t *testing.T) {
	assert.Equal(t, 12, CommitRecord{LinesAdded: 10, LinesRemoved: 2}.Churn())
}
