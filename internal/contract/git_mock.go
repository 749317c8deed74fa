package contract

import (
	"context"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/mock"
)

// MockGitClient is a mock implementation of GitClient for testing.
type MockGitClient struct {
	mock.Mock
}

var _ GitClient = &MockGitClient{} // Compile-time check

// OpenRepository implements the GitClient interface.
func (m *MockGitClient) OpenRepository(ctx context.Context, repoPath string) (*git.Repository, error) {
	ret := m.Called(ctx, repoPath)
	repo, _ := ret.Get(0).(*git.Repository)
	return repo, ret.Error(1)
}

// GetRepoRoot implements the GitClient interface.
func (m *MockGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	ret := m.Called(ctx, contextPath)
	return ret.String(0), ret.Error(1)
}
