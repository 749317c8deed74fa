package schema

import (
	"sort"
	"time"
)

// DateRange is an inclusive window on commit timestamps.
// A zero Start or End leaves that side unbounded.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the range, boundaries included.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// IsBounded reports whether either side of the range is set.
func (r DateRange) IsBounded() bool {
	return !r.Start.IsZero() || !r.End.IsZero()
}

// TopContributors returns up to n contributors ordered by commit count (descending),
// breaking ties by name so the output is stable. n <= 0 returns all of them.
func (s *RepositoryStats) TopContributors(n int) []NamedContributor {
	out := make([]NamedContributor, 0, len(s.Contributors))
	for name, c := range s.Contributors {
		out = append(out, NamedContributor{Name: name, ContributorRollup: *c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Commits != out[j].Commits {
			return out[i].Commits > out[j].Commits
		}
		return out[i].Name < out[j].Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// FirstEmails maps each author name to the email of its first commit in the commit list.
func (s *RepositoryStats) FirstEmails() map[string]string {
	emails := make(map[string]string, len(s.Contributors))
	for _, c := range s.Commits {
		if _, ok := emails[c.Author]; !ok {
			emails[c.Author] = c.Email
		}
	}
	return emails
}
