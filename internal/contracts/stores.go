// Package contracts defines interfaces that decouple the task processing
// layer from storage and subprocess implementations.
package contracts

import (
	"context"
	"database/sql"
	"vidarr/internal/models"
)

// Store allows access to the main store repo methods.
type Store interface {
	TaskStore() TaskStore
	VideoStore() VideoStore
	DownloadStore() DownloadStore
}

// TaskStore allows access to continuous download task repo methods.
type TaskStore interface {
	GetDB() *sql.DB

	// Add operations.
	CreateTask(t *models.Task) error

	// 'Get' operations.
	GetTaskByID(id string) (t *models.Task, hasRows bool, err error)
	GetTasksByStatus(status models.TaskStatus) ([]*models.Task, error)

	// Update operations.
	UpdateTotalVideos(id string, n int) error
	UpdateProgress(id string, p models.TaskProgress) error
	CompleteTask(id string) error
	CancelTask(id string) error
	FailTask(id string) error
}

// VideoStore allows access to video repo methods.
type VideoStore interface {
	GetDB() *sql.DB

	GetVideoBySourceURL(url string) (v *models.Video, hasRows bool, err error)
	AddVideo(v *models.Video) (videoID int64, err error)
}

// DownloadStore allows access to download history and the active
// download registry.
type DownloadStore interface {
	GetDB() *sql.DB

	// History operations.
	AddHistoryItem(e *models.HistoryEntry) error
	ListHistory(limit int) ([]*models.HistoryEntry, error)

	// Active download registry operations.
	AddActiveDownload(d *models.ActiveDownload) (int64, error)
	RemoveActiveDownload(id int64) error
	GetDownloadStatus() ([]*models.ActiveDownload, error)
}

// CollectionFetcher enumerates member video URLs of a remote collection.
type CollectionFetcher interface {
	// Count is best-effort; 0 means unknown, never "empty".
	Count(ctx context.Context, collectionURL string, platform models.Platform) int

	// FetchAll pages through the whole collection. A fetch error mid-way
	// returns the accumulated partial result; only structural failures
	// (unsupported collection grouping) return an error.
	FetchAll(ctx context.Context, collectionURL string, platform models.Platform) ([]string, error)

	// FetchSlice fetches one bounded window. Degrades to a full fetch on
	// sources without windowed queries; empty on fetch error.
	FetchSlice(ctx context.Context, collectionURL string, platform models.Platform, offset, limit int) []string

	// VideoURLsIncremental returns the members at [startIndex,
	// startIndex+count); empty on any fetch error.
	VideoURLsIncremental(ctx context.Context, collectionURL string, platform models.Platform, startIndex, count int) []string

	// Windowed reports whether the collection URL supports real windowed
	// (playlist-style) queries.
	Windowed(collectionURL string, platform models.Platform) bool
}

// VideoDownloader downloads a single video for one platform.
type VideoDownloader interface {
	Download(ctx context.Context, url string) (*models.DownloadResult, error)
}

// VideoInfoProvider looks up lightweight metadata for a video URL.
type VideoInfoProvider interface {
	GetInfo(ctx context.Context, url string) (*models.VideoInfo, error)
}

// ArtifactCleaner removes partial download artifacts matching a base
// filename from a directory.
type ArtifactCleaner interface {
	Cleanup(baseName, dir string) (removed []string, err error)
}

// DownloadCanceller cancels an in-flight download by its active download
// registry ID.
type DownloadCanceller interface {
	CancelDownload(id int64) bool
}

// ArchiveSyncer uploads a finished task's output directory to remote
// storage.
type ArchiveSyncer interface {
	SyncDirectory(ctx context.Context, localDir, keyPrefix string) error
}
