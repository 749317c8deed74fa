// Package gitclient has the git client.
package gitclient

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/huangsam/repostat/internal/contract"
)

// GitClient defines the repository operations needed for commit analysis.
type GitClient = contract.GitClient

// GoGitClient opens repositories in-process with go-git. No git executable is required.
type GoGitClient struct{}

var _ GitClient = &GoGitClient{} // Compile-time check

// NewGoGitClient returns a GitClient backed by go-git.
func NewGoGitClient() *GoGitClient {
	return &GoGitClient{}
}

// OpenRepository opens the repository containing repoPath. Parent directories are
// searched for a .git entry, so any path inside a working tree is accepted.
func (c *GoGitClient) OpenRepository(ctx context.Context, repoPath string) (*git.Repository, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, &contract.RepositoryOpenError{Path: repoPath, Err: err}
	}
	return repo, nil
}

// GetRepoRoot returns the top-level directory of the repository containing contextPath.
// Bare repositories have no worktree, so the opened path itself is returned for them.
func (c *GoGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	repo, err := c.OpenRepository(ctx, contextPath)
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if errors.Is(err, git.ErrIsBareRepository) {
		return filepath.Abs(contextPath)
	}
	if err != nil {
		return "", &contract.RepositoryOpenError{Path: contextPath, Err: err}
	}
	return wt.Filesystem.Root(), nil
}
