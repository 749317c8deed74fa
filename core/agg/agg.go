// Package agg has the fold that turns commit records into repository statistics.
package agg

import (
	"time"

	"github.com/huangsam/repostat/internal/contract"
	"github.com/huangsam/repostat/schema"
)

// Aggregator owns a RepositoryStats and folds commit records into it.
// It is not safe for concurrent use; a single goroutine must call AddCommit.
type Aggregator struct {
	stats *schema.RepositoryStats
}

var _ contract.CommitSink = &Aggregator{} // Compile-time check

// NewAggregator returns an Aggregator with empty statistics for repoPath.
func NewAggregator(repoPath string) *Aggregator {
	return &Aggregator{stats: schema.NewRepositoryStats(repoPath)}
}

// AddCommit folds one record into the running totals.
//
// First and last dates are true min and max over the records seen, so the order in
// which records arrive does not change any total or boundary.
func (a *Aggregator) AddCommit(record schema.CommitRecord) {
	s := a.stats
	s.TotalCommits++
	s.TotalLinesAdded += record.LinesAdded
	s.TotalLinesRemoved += record.LinesRemoved

	s.FirstCommitDate = earliest(s.FirstCommitDate, record.Date)
	s.LastCommitDate = latest(s.LastCommitDate, record.Date)

	c, ok := s.Contributors[record.Author]
	if !ok {
		c = &schema.ContributorRollup{FirstCommit: record.Date, LastCommit: record.Date}
		s.Contributors[record.Author] = c
	}
	c.Commits++
	c.LinesAdded += record.LinesAdded
	c.LinesRemoved += record.LinesRemoved
	if record.Date.Before(c.FirstCommit) {
		c.FirstCommit = record.Date
	}
	if record.Date.After(c.LastCommit) {
		c.LastCommit = record.Date
	}

	s.Commits = append(s.Commits, record)
}

// Stats returns the accumulated statistics. The Aggregator keeps ownership; callers
// should stop folding before handing the result to other components.
func (a *Aggregator) Stats() *schema.RepositoryStats {
	return a.stats
}

func earliest(cur *time.Time, t time.Time) *time.Time {
	if cur == nil || t.Before(*cur) {
		return &t
	}
	return cur
}

func latest(cur *time.Time, t time.Time) *time.Time {
	if cur == nil || t.After(*cur) {
		return &t
	}
	return cur
}
