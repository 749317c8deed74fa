package iocache

import (
	"github.com/huangsam/repostat/internal/contract"
	"github.com/huangsam/repostat/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetStatsStore implements the StoreManager interface.
func (m *MockStoreManager) GetStatsStore() contract.StatsStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.StatsStore)
	return store
}

// MockStatsStore is a mock implementation of StatsStore for testing.
type MockStatsStore struct {
	mock.Mock
}

var _ contract.StatsStore = &MockStatsStore{} // Compile-time check

// SaveStats implements the StatsStore interface.
func (m *MockStatsStore) SaveStats(stats *schema.RepositoryStats) (int64, error) {
	args := m.Called(stats)
	return args.Get(0).(int64), args.Error(1)
}

// GetRepositoryStats implements the StatsStore interface.
func (m *MockStatsStore) GetRepositoryStats(repoID int64) (*schema.RepositoryStats, error) {
	args := m.Called(repoID)
	stats, _ := args.Get(0).(*schema.RepositoryStats)
	return stats, args.Error(1)
}

// ListRepositories implements the StatsStore interface.
func (m *MockStatsStore) ListRepositories() ([]schema.RepositoryRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.RepositoryRecord)
	return records, args.Error(1)
}

// GetAllContributors implements the StatsStore interface.
func (m *MockStatsStore) GetAllContributors() ([]schema.ContributorRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.ContributorRecord)
	return records, args.Error(1)
}

// GetAllCommits implements the StatsStore interface.
func (m *MockStatsStore) GetAllCommits() ([]schema.StoredCommit, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.StoredCommit)
	return records, args.Error(1)
}

// GetStatus implements the StatsStore interface.
func (m *MockStatsStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the StatsStore interface.
func (m *MockStatsStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
