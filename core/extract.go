package core

import (
	"context"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/huangsam/repostat/internal/contract"
	"github.com/huangsam/repostat/schema"
)

// Extractor turns commit hashes into commit records.
type Extractor struct {
	repo    *git.Repository
	shallow map[plumbing.Hash]struct{}
	now     func() time.Time
}

// NewExtractor returns an Extractor reading objects from repo.
func NewExtractor(repo *git.Repository) *Extractor {
	return &Extractor{repo: repo, shallow: shallowCommits(repo), now: time.Now}
}

// Extract resolves one commit and diffs it against its first parent.
// Merge commits are only compared with parent 0. Shallow boundary commits are
// diffed against the empty tree.
func (e *Extractor) Extract(ctx context.Context, hash plumbing.Hash) (schema.CommitRecord, error) {
	c, err := e.repo.CommitObject(hash)
	if err != nil {
		return schema.CommitRecord{}, &contract.CommitResolutionError{Hash: hash.String(), Err: err}
	}

	var parent *object.Commit
	if _, cut := e.shallow[hash]; !cut && c.NumParents() > 0 {
		if parent, err = c.Parent(0); err != nil {
			return schema.CommitRecord{}, &contract.DiffComputationError{Hash: hash.String(), Err: err}
		}
	}

	stats, err := ComputeDiffStats(ctx, c, parent)
	if err != nil {
		return schema.CommitRecord{}, err
	}

	return schema.CommitRecord{
		Hash:         c.Hash.String(),
		Author:       orUnknown(c.Author.Name),
		Email:        orUnknown(c.Author.Email),
		Date:         commitTime(c.Author.When, e.now),
		Message:      c.Message,
		LinesAdded:   stats.LinesAdded,
		LinesRemoved: stats.LinesRemoved,
		FilesChanged: stats.FilesChanged,
	}, nil
}

// commitTime truncates when to whole seconds in UTC. Timestamps that are unset or
// outside years 1..9999 fall back to now.
func commitTime(when time.Time, now func() time.Time) time.Time {
	if when.IsZero() {
		return now().UTC().Truncate(time.Second)
	}
	t := time.Unix(when.Unix(), 0).UTC()
	if y := t.Year(); y < 1 || y > 9999 {
		return now().UTC().Truncate(time.Second)
	}
	return t
}

func orUnknown(s string) string {
	if s == "" {
		return schema.UnknownIdentity
	}
	return s
}
