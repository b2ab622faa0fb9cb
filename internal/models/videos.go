package models

import "time"

// Video is a downloaded (archived) video.
//
// Matches the order of the DB table, do not alter.
type Video struct {
	ID            int64     `json:"id" db:"id"`
	SourceURL     string    `json:"source_url" db:"source_url"`
	Title         string    `json:"title" db:"title"`
	Author        string    `json:"author" db:"author"`
	Platform      Platform  `json:"platform" db:"platform"`
	VideoPath     string    `json:"video_path" db:"video_path"`
	ThumbnailPath string    `json:"thumbnail_path" db:"thumbnail_path"`
	UploadDate    time.Time `json:"upload_date" db:"upload_date"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// VideoInfo is the lightweight metadata shape returned by the video-info
// capability (used by cleanup to derive expected filenames).
type VideoInfo struct {
	Title      string
	Author     string
	UploadDate time.Time
}

// DownloadResult is the structured outcome of a single-video download.
// Ordinary failures are reported here rather than as errors, so callers
// record history without special-casing the common case.
type DownloadResult struct {
	Success bool
	Video   *Video
	Error   string
}
