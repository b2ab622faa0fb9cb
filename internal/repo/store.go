// Package repo implements the storage interfaces over SQLite.
package repo

import (
	"database/sql"
	"vidarr/internal/contracts"
)

// Stores bundles the individual store repos behind contracts.Store.
type Stores struct {
	ts *TaskStore
	vs *VideoStore
	ds *DownloadStore
}

// InitStores returns the store bundle with injected database.
func InitStores(db *sql.DB) *Stores {
	return &Stores{
		ts: GetTaskStore(db),
		vs: GetVideoStore(db),
		ds: GetDownloadStore(db),
	}
}

// TaskStore returns the continuous download task store.
func (s *Stores) TaskStore() contracts.TaskStore { return s.ts }

// VideoStore returns the video store.
func (s *Stores) VideoStore() contracts.VideoStore { return s.vs }

// DownloadStore returns the download history/registry store.
func (s *Stores) DownloadStore() contracts.DownloadStore { return s.ds }
