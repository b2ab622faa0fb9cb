// Package consts holds program-wide constants.
package consts

import "time"

// Collection fetching
const (
	// FetchPageSize is the window used when paging a remote collection.
	// A page shorter than this is the last page.
	FetchPageSize = 100

	// BiliSpacePageSize is the page size for the Bilibili space web API
	// fallback pager.
	BiliSpacePageSize = 50
)

// Task processing
const (
	// TaskBatchSize is how many member URLs the incremental path pulls
	// per batch.
	TaskBatchSize = 50

	// InterBatchPause spaces out incremental batch fetches so the
	// upstream source isn't hammered.
	InterBatchPause = 1 * time.Second
)

// Channel pseudo-entry heuristic: flat playlist dumps sometimes surface
// the channel itself as an entry with a 24-character "UC"-prefixed ID.
const (
	ChannelIDLength = 24
	ChannelIDPrefix = "UC"
)

// Canonical watch URL templates.
const (
	YouTubeWatchURL  = "https://www.youtube.com/watch?v=%s"
	BilibiliWatchURL = "https://www.bilibili.com/video/%s"
)

// Bilibili web API paths, relative to the API base.
const (
	BiliSpaceArcPath = "/x/space/arc/search"
	BiliViewPath     = "/x/web-interface/view"
	BiliSeriesPath   = "/x/series/archives"
)

// Video file extensions considered final download artifacts.
var AllVidExtensions = []string{".mp4", ".mkv", ".webm", ".avi", ".mov", ".flv"}

// Partial download artifact suffixes left behind by yt-dlp and its
// external downloaders.
var PartialArtifactSuffixes = []string{".part", ".ytdl", ".temp", ".download", ".aria2"}
