// Package testutil builds throwaway git repositories for tests.
package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// Author identifies who makes a fixture commit.
type Author struct {
	Name  string
	Email string
}

// Repo is a non-bare repository in a temporary directory.
type Repo struct {
	t    testing.TB
	Dir  string
	Repo *git.Repository
	wt   *git.Worktree
}

// NewRepo initializes an empty repository under t.TempDir().
func NewRepo(t testing.TB) *Repo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	return &Repo{t: t, Dir: dir, Repo: repo, wt: wt}
}

// Lines returns n newline-terminated lines of the form "<prefix> <i>".
func Lines(prefix string, n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		b.WriteString(prefix)
		b.WriteString(" ")
		b.WriteString(strconv.Itoa(i))
		b.WriteString("\n")
	}
	return b.String()
}

// Write creates or replaces a file and stages it.
func (r *Repo) Write(path, content string) {
	r.t.Helper()
	full := filepath.Join(r.Dir, path)
	require.NoError(r.t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(r.t, os.WriteFile(full, []byte(content), 0o644))
	_, err := r.wt.Add(path)
	require.NoError(r.t, err)
}

// Remove deletes a file from the work tree and the index.
func (r *Repo) Remove(path string) {
	r.t.Helper()
	_, err := r.wt.Remove(path)
	require.NoError(r.t, err)
}

// Commit records the staged changes with the same author and committer signature.
func (r *Repo) Commit(msg string, who Author, when time.Time, parents ...plumbing.Hash) plumbing.Hash {
	r.t.Helper()
	sig := &object.Signature{Name: who.Name, Email: who.Email, When: when}
	h, err := r.wt.Commit(msg, &git.CommitOptions{
		Author:            sig,
		Committer:         sig,
		Parents:           parents,
		AllowEmptyCommits: true,
	})
	require.NoError(r.t, err)
	return h
}

// Day returns midnight UTC plus the given hour for a calendar date.
func Day(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}
