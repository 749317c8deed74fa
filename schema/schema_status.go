package schema

import "time"

// StoreStatus represents the status of the statistics store.
type StoreStatus struct {
	Backend           string           `json:"backend"`
	Connected         bool             `json:"connected"`
	TotalRepositories int              `json:"total_repositories"`
	LastRepositoryID  int64            `json:"last_repository_id"`
	LastCreatedAt     time.Time        `json:"last_created_at"`
	TableSizes        map[string]int64 `json:"table_sizes"`
}
