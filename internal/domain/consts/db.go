package consts

// Tables
const (
	DBTasks           = "tasks"
	DBVideos          = "videos"
	DBHistory         = "download_history"
	DBActiveDownloads = "active_downloads"
)

// Tasks
const (
	QTaskID              = "id"
	QTaskAuthor          = "author"
	QTaskAuthorURL       = "author_url"
	QTaskPlatform        = "platform"
	QTaskStatus          = "status"
	QTaskCreatedAt       = "created_at"
	QTaskCurrentVidIndex = "current_video_index"
	QTaskTotalVideos     = "total_videos"
	QTaskDownloaded      = "downloaded_count"
	QTaskSkipped         = "skipped_count"
	QTaskFailed          = "failed_count"
)

// Videos
const (
	QVidID            = "id"
	QVidSourceURL     = "source_url"
	QVidTitle         = "title"
	QVidAuthor        = "author"
	QVidPlatform      = "platform"
	QVidVideoPath     = "video_path"
	QVidThumbnailPath = "thumbnail_path"
	QVidUploadDate    = "upload_date"
	QVidCreatedAt     = "created_at"
)

// Download history
const (
	QHistID        = "id"
	QHistTitle     = "title"
	QHistAuthor    = "author"
	QHistSourceURL = "source_url"
	QHistStatus    = "status"
	QHistError     = "error_message"
	QHistVideoPath = "video_path"
	QHistThumbPath = "thumbnail_path"
	QHistCreatedAt = "created_at"
)

// Active downloads
const (
	QActiveID        = "id"
	QActiveSourceURL = "source_url"
	QActiveFilename  = "filename"
	QActiveStartedAt = "started_at"
)
