// Package iocache persists analysis results in SQL stores.
package iocache

import (
	"sync"

	"github.com/huangsam/repostat/internal/contract"
)

// StatsStoreManager holds the process-wide statistics store.
type StatsStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	stats        contract.StatsStore
}

var _ contract.StoreManager = &StatsStoreManager{} // Compile-time check

// GetStatsStore returns the statistics store, or nil before InitStores.
func (mgr *StatsStoreManager) GetStatsStore() contract.StatsStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.stats
}
