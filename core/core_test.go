package core

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/repostat/internal/contract"
	"github.com/huangsam/repostat/internal/iocache"
	"github.com/huangsam/repostat/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func quietConfig(repoPath string) *contract.Config {
	return &contract.Config{
		RepoPath:     repoPath,
		ResultLimit:  contract.DefaultResultLimit,
		Output:       schema.JSONOut,
		Quiet:        true,
		StoreBackend: schema.SQLiteBackend,
	}
}

func TestGetAnalyzeResultsSaves(t *testing.T) {
	r := buildScenarioRepo(t)
	cfg := quietConfig(r.Dir)

	store := &iocache.MockStatsStore{}
	store.On("SaveStats", mock.MatchedBy(func(s *schema.RepositoryStats) bool {
		return s.TotalCommits == 4 && s.RepoPath == r.Dir
	})).Return(int64(7), nil)
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetStatsStore").Return(store)

	stats, id, err := GetAnalyzeResults(context.Background(), cfg, mgr)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, 15, stats.TotalLinesAdded)
	store.AssertExpectations(t)
}

func TestGetAnalyzeResultsNoSave(t *testing.T) {
	r := buildScenarioRepo(t)
	cfg := quietConfig(r.Dir)
	cfg.NoSave = true

	mgr := &iocache.MockStoreManager{}
	_, id, err := GetAnalyzeResults(context.Background(), cfg, mgr)
	require.NoError(t, err)
	assert.Zero(t, id)
	mgr.AssertNotCalled(t, "GetStatsStore")
}

func TestGetAnalyzeResultsSaveFailureIsNotFatal(t *testing.T) {
	r := buildScenarioRepo(t)
	store := &iocache.MockStatsStore{}
	store.On("SaveStats", mock.Anything).Return(int64(0), errors.New("disk full"))
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetStatsStore").Return(store)

	stats, id, err := GetAnalyzeResults(context.Background(), quietConfig(r.Dir), mgr)
	require.NoError(t, err)
	assert.Zero(t, id)
	assert.Equal(t, 4, stats.TotalCommits)
}

func TestExecuteAnalyzeWritesFile(t *testing.T) {
	r := buildScenarioRepo(t)
	cfg := quietConfig(r.Dir)
	cfg.NoSave = true
	cfg.OutputFile = filepath.Join(t.TempDir(), "summary.json")

	require.NoError(t, ExecuteAnalyze(context.Background(), cfg, nil))
	assert.FileExists(t, cfg.OutputFile)
}

func TestExecuteStoreShow(t *testing.T) {
	when := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	saved := schema.NewRepositoryStats("/repo")
	saved.TotalCommits = 1
	saved.FirstCommitDate = &when
	saved.LastCommitDate = &when

	store := &iocache.MockStatsStore{}
	store.On("GetRepositoryStats", int64(3)).Return(saved, nil)
	store.On("GetRepositoryStats", int64(4)).Return(nil, errors.New("not found"))
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetStatsStore").Return(store)

	cfg := quietConfig("/repo")
	cfg.OutputFile = filepath.Join(t.TempDir(), "show.json")
	require.NoError(t, ExecuteStoreShow(context.Background(), cfg, mgr, 3))
	assert.Error(t, ExecuteStoreShow(context.Background(), cfg, mgr, 4))
}

func TestExecuteStoreList(t *testing.T) {
	store := &iocache.MockStatsStore{}
	store.On("ListRepositories").Return([]schema.RepositoryRecord{{ID: 1, Path: "/repo", TotalCommits: 2}}, nil)
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetStatsStore").Return(store)

	cfg := quietConfig("/repo")
	cfg.OutputFile = filepath.Join(t.TempDir(), "list.json")
	require.NoError(t, ExecuteStoreList(context.Background(), cfg, mgr))
	assert.FileExists(t, cfg.OutputFile)
}

func TestStoreCommandsWithoutStore(t *testing.T) {
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetStatsStore").Return(nil)

	cfg := quietConfig("/repo")
	assert.Error(t, ExecuteStoreList(context.Background(), cfg, mgr))
	assert.Error(t, ExecuteStoreShow(context.Background(), cfg, nil, 1))
}
