// Package command holds yt-dlp invocation constants.
package command

// General
const (
	YTDLP              = "yt-dlp"
	Output             = "-o"
	Print              = "--print"
	RestrictFilenames  = "--restrict-filenames"
	CookiePath         = "--cookies"
	CookiesFromBrowser = "--cookies-from-browser"
	ProxyFlag          = "--proxy"
	LimitRate          = "--limit-rate"
	WriteThumbnail     = "--write-thumbnail"
	FilenameSyntax     = "%(title)s.%(ext)s"

	// AfterMoveResult prints title, uploader and the final filepath on one
	// pipe-delimited line once the file has landed.
	AfterMoveResult = "after_move:%(title)s|%(uploader)s|%(filepath)s"
)

// Collection enumeration
const (
	FlatPlaylist  = "--flat-playlist"
	OutputJSON    = "-J"
	PlaylistItems = "--playlist-items"
)

// Metadata only
const (
	SkipDownload = "--skip-download"
)
