package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/huangsam/repostat/internal/contract"
	"github.com/huangsam/repostat/internal/gitclient"
	"github.com/huangsam/repostat/internal/testutil"
	"github.com/huangsam/repostat/schema"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// buildScenarioRepo makes three commits by Alice (+10 -2) and one by Bob (+5 -0).
func buildScenarioRepo(t *testing.T) *testutil.Repo {
	t.Helper()
	r := testutil.NewRepo(t)

	r.Write("a.txt", testutil.Lines("a", 6))
	r.Commit("add a", alice, testutil.Day(2024, 1, 1, 10)) // +6

	r.Write("a.txt", testutil.Lines("a", 4)+"n 1\nn 2\n")
	r.Commit("rework a", alice, testutil.Day(2024, 1, 2, 10)) // +2 -2

	r.Write("c.txt", testutil.Lines("c", 2))
	r.Commit("add c", alice, testutil.Day(2024, 1, 3, 10)) // +2

	r.Write("b.txt", testutil.Lines("b", 5))
	r.Commit("add b", bob, testutil.Day(2024, 1, 4, 10)) // +5
	return r
}

func TestAnalyzeRepositoryScenario(t *testing.T) {
	r := buildScenarioRepo(t)
	ctx := WithSuppressHeader(context.Background())

	stats, err := AnalyzeRepository(ctx, gitclient.NewGoGitClient(), r.Dir, schema.DateRange{})
	require.NoError(t, err)

	assert.Equal(t, r.Dir, stats.RepoPath)
	assert.Equal(t, 4, stats.TotalCommits)
	assert.Equal(t, 15, stats.TotalLinesAdded)
	assert.Equal(t, 2, stats.TotalLinesRemoved)
	require.Len(t, stats.Contributors, 2)

	a := stats.Contributors["Alice"]
	assert.Equal(t, 3, a.Commits)
	assert.Equal(t, 10, a.LinesAdded)
	assert.Equal(t, 2, a.LinesRemoved)

	b := stats.Contributors["Bob"]
	assert.Equal(t, 1, b.Commits)
	assert.Equal(t, 5, b.LinesAdded)
	assert.Equal(t, 0, b.LinesRemoved)

	// Walk order is newest first.
	require.Len(t, stats.Commits, 4)
	assert.Equal(t, "add b", stats.Commits[0].Message)
	assert.Equal(t, "add a", stats.Commits[3].Message)
	assert.Equal(t, testutil.Day(2024, 1, 1, 10), *stats.FirstCommitDate)
	assert.Equal(t, testutil.Day(2024, 1, 4, 10), *stats.LastCommitDate)
}

func TestAnalyzeRepositoryEmpty(t *testing.T) {
	r := testutil.NewRepo(t)
	stats, err := AnalyzeRepository(WithSuppressHeader(context.Background()), gitclient.NewGoGitClient(), r.Dir, schema.DateRange{})
	require.NoError(t, err)

	assert.Zero(t, stats.TotalCommits)
	assert.Empty(t, stats.Contributors)
	assert.Empty(t, stats.Commits)
	assert.Nil(t, stats.FirstCommitDate)
	assert.Nil(t, stats.LastCommitDate)
}

func TestAnalyzeRepositoryWindowIsSubset(t *testing.T) {
	r := buildScenarioRepo(t)
	ctx := WithSuppressHeader(context.Background())
	client := gitclient.NewGoGitClient()

	all, err := AnalyzeRepository(ctx, client, r.Dir, schema.DateRange{})
	require.NoError(t, err)

	window := schema.DateRange{Start: testutil.Day(2024, 1, 2, 0), End: testutil.Day(2024, 1, 3, 0)}
	filtered, err := AnalyzeRepositoryWithDates(ctx, client, r.Dir, "2024-01-02", "2024-01-03")
	require.NoError(t, err)

	var want []string
	for _, c := range all.Commits {
		if window.Contains(c.Date) {
			want = append(want, c.Hash)
		}
	}
	var got []string
	sumAdded := 0
	for _, c := range filtered.Commits {
		got = append(got, c.Hash)
		sumAdded += c.LinesAdded
	}
	// Only the Jan 2 commit: Jan 3 10:00 is after the end-of-window midnight.
	assert.Equal(t, want, got)
	assert.Len(t, got, 1)
	assert.Equal(t, len(filtered.Commits), filtered.TotalCommits)
	assert.Equal(t, sumAdded, filtered.TotalLinesAdded)
}

func TestAnalyzeRepositoryWithDatesMalformed(t *testing.T) {
	client := &contract.MockGitClient{}
	stats, err := AnalyzeRepositoryWithDates(context.Background(), client, "/nowhere", "2024/01/01", "")

	var dateErr *contract.DateParseError
	require.ErrorAs(t, err, &dateErr)
	assert.Nil(t, stats)
	client.AssertNotCalled(t, "OpenRepository", mock.Anything, mock.Anything)
}

func TestAnalyzeRepositoryOpenError(t *testing.T) {
	dir := t.TempDir()
	_, err := AnalyzeRepository(context.Background(), gitclient.NewGoGitClient(), dir, schema.DateRange{})

	var openErr *contract.RepositoryOpenError
	require.ErrorAs(t, err, &openErr)
	assert.Equal(t, contract.StageOpen, errorStage(err))
}

func TestStreamCommitsSkipsUnreadableCommit(t *testing.T) {
	r := testutil.NewRepo(t)
	r.Write("a.txt", "a\n")
	r.Commit("one", alice, testutil.Day(2024, 1, 1, 9))
	broken := "broken\ncontent\n"
	r.Write("b.txt", broken)
	bad := r.Commit("two", alice, testutil.Day(2024, 1, 2, 9))
	r.Write("c.txt", "c\n")
	r.Commit("three", bob, testutil.Day(2024, 1, 3, 9))

	blob := plumbing.ComputeHash(plumbing.BlobObject, []byte(broken)).String()
	require.NoError(t, os.Remove(filepath.Join(r.Dir, ".git", "objects", blob[:2], blob[2:])))

	hook := test.NewLocal(contract.Logger)
	defer hook.Reset()

	var sink recordingSink
	summary, err := StreamCommits(WithSuppressHeader(context.Background()), gitclient.NewGoGitClient(), r.Dir, schema.DateRange{}, &sink)
	require.NoError(t, err)

	assert.Equal(t, WalkSummary{Folded: 2, Skipped: 1}, summary)
	assert.Equal(t, []string{"three", "one"}, sink.messages())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, bad.String(), entry.Data["commit"])
	assert.Equal(t, contract.StageDiff, entry.Data["stage"])
}

func TestStreamCommitsCanceled(t *testing.T) {
	r := buildScenarioRepo(t)
	ctx, cancel := context.WithCancel(WithSuppressHeader(context.Background()))
	cancel()

	var sink recordingSink
	_, err := StreamCommits(ctx, gitclient.NewGoGitClient(), r.Dir, schema.DateRange{}, &sink)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, sink.records)
}

func TestErrorStage(t *testing.T) {
	cause := errors.New("x")
	assert.Equal(t, contract.StageTraversal, errorStage(&contract.TraversalError{Err: cause}))
	assert.Equal(t, contract.StageDateParse, errorStage(&contract.DateParseError{Err: cause}))
	assert.Equal(t, "unknown", errorStage(cause))
}

type recordingSink struct {
	records []schema.CommitRecord
}

func (s *recordingSink) AddCommit(r schema.CommitRecord) {
	s.records = append(s.records, r)
}

func (s *recordingSink) messages() []string {
	out := make([]string, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.Message)
	}
	return out
}

// makeShallow turns tip into a shallow boundary and drops its parent commit object,
// the way a depth 1 clone looks on disk.
func makeShallow(t *testing.T, r *testutil.Repo, tip, parent plumbing.Hash) {
	t.Helper()
	gitDir := filepath.Join(r.Dir, ".git")
	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "shallow"), []byte(tip.String()+"\n"), 0o644))
	hex := parent.String()
	require.NoError(t, os.Remove(filepath.Join(gitDir, "objects", hex[:2], hex[2:])))
}

func TestAnalyzeRepositoryShallowClone(t *testing.T) {
	r := testutil.NewRepo(t)
	r.Write("a.txt", testutil.Lines("a", 3))
	root := r.Commit("root", alice, testutil.Day(2024, 1, 1, 10))
	r.Write("a.txt", testutil.Lines("a", 5))
	tip := r.Commit("grow a", bob, testutil.Day(2024, 1, 2, 10))
	makeShallow(t, r, tip, root)

	client := gitclient.NewGoGitClient()
	stats, err := AnalyzeRepository(context.Background(), client, r.Dir, schema.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalCommits)
	assert.Equal(t, 5, stats.TotalLinesAdded)
	assert.Equal(t, 0, stats.TotalLinesRemoved)
	require.Contains(t, stats.Contributors, "Bob")
	assert.Equal(t, 5, stats.Contributors["Bob"].LinesAdded)

	repo, err := client.OpenRepository(context.Background(), r.Dir)
	require.NoError(t, err)
	rec, err := NewExtractor(repo).Extract(context.Background(), tip)
	require.NoError(t, err)
	assert.Equal(t, 5, rec.LinesAdded)
	assert.Equal(t, 1, rec.FilesChanged)
}
