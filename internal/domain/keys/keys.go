// Package keys holds the config/flag key strings understood by viper.
package keys

// Terminal keys
const (
	VideoDir     = "video-dir"
	DBPath       = "db-path"
	CookieSource = "cookie-source"
	CookiePath   = "cookie-file"
	Proxy        = "proxy"
	RateLimit    = "rate-limit"
	DebugLevel   = "debug"
	LogFile      = "log-file"
)

// Task command keys
const (
	TaskURL      = "url"
	TaskPlatform = "platform"
	TaskAuthor   = "author"
	TaskID       = "id"
)

// Cloud sync keys
const (
	SyncEnabled  = "sync"
	SyncBucket   = "sync-bucket"
	SyncPrefix   = "sync-prefix"
	SyncEndpoint = "sync-endpoint"
	SyncRegion   = "sync-region"
)
