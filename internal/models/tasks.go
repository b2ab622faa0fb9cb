// Package models holds the data models shared across the program.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Platform tags the source site of a collection or video.
type Platform string

const (
	PlatformYouTube  Platform = "youtube"
	PlatformBilibili Platform = "bilibili"
)

// TaskStatus drives the continuous download task state machine.
type TaskStatus string

const (
	TaskStatusActive    TaskStatus = "active"
	TaskStatusCancelled TaskStatus = "cancelled"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// Task is one continuous (subscription-style) bulk download job.
//
// CurrentVideoIndex is the single forward cursor into the collection's
// member URL sequence and is the unit of resumability: it is persisted
// together with the outcome counts after every processed item.
type Task struct {
	ID                string     `json:"id" db:"id"`
	Author            string     `json:"author" db:"author"`
	AuthorURL         string     `json:"author_url" db:"author_url"`
	Platform          Platform   `json:"platform" db:"platform"`
	Status            TaskStatus `json:"status" db:"status"`
	CreatedAt         int64      `json:"created_at" db:"created_at"` // epoch ms
	CurrentVideoIndex int        `json:"current_video_index" db:"current_video_index"`
	TotalVideos       int        `json:"total_videos" db:"total_videos"`
	DownloadedCount   int        `json:"downloaded_count" db:"downloaded_count"`
	SkippedCount      int        `json:"skipped_count" db:"skipped_count"`
	FailedCount       int        `json:"failed_count" db:"failed_count"`
}

// NewTask returns an active task pointed at a collection URL.
func NewTask(author, authorURL string, platform Platform) *Task {
	return &Task{
		ID:        uuid.NewString(),
		Author:    author,
		AuthorURL: authorURL,
		Platform:  platform,
		Status:    TaskStatusActive,
		CreatedAt: time.Now().UnixMilli(),
	}
}

// Progress snapshots the resumability checkpoint fields of a task.
func (t *Task) Progress() TaskProgress {
	return TaskProgress{
		CurrentVideoIndex: t.CurrentVideoIndex,
		DownloadedCount:   t.DownloadedCount,
		SkippedCount:      t.SkippedCount,
		FailedCount:       t.FailedCount,
	}
}

// TaskProgress carries the fields persisted atomically after every
// processed item.
type TaskProgress struct {
	CurrentVideoIndex int
	DownloadedCount   int
	SkippedCount      int
	FailedCount       int
}

// HistoryStatus marks a download history entry outcome.
type HistoryStatus string

const (
	HistoryStatusSuccess HistoryStatus = "success"
	HistoryStatusFailed  HistoryStatus = "failed"
)

// HistoryEntry is one row of download history.
type HistoryEntry struct {
	ID            int64         `json:"id" db:"id"`
	Title         string        `json:"title" db:"title"`
	Author        string        `json:"author" db:"author"`
	SourceURL     string        `json:"source_url" db:"source_url"`
	Status        HistoryStatus `json:"status" db:"status"`
	Error         string        `json:"error_message" db:"error_message"`
	VideoPath     string        `json:"video_path" db:"video_path"`
	ThumbnailPath string        `json:"thumbnail_path" db:"thumbnail_path"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// ActiveDownload is one in-flight download registered in the database so
// out-of-band operations (cancel, cleanup) can find it by source URL.
type ActiveDownload struct {
	ID        int64     `json:"id" db:"id"`
	SourceURL string    `json:"source_url" db:"source_url"`
	Filename  string    `json:"filename" db:"filename"`
	StartedAt time.Time `json:"started_at" db:"started_at"`
}
