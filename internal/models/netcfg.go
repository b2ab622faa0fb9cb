package models

// NetworkConfig is threaded explicitly into every fetch and download call
// rather than read from process-wide state, so tests can inject
// deterministic configurations.
type NetworkConfig struct {
	// Proxy is passed to yt-dlp and web API calls when non-empty.
	Proxy string

	// RateLimit is a yt-dlp rate limit string, e.g. "2M".
	RateLimit string

	// CookiePath points at a Netscape-format cookie file.
	CookiePath string

	// CookieSource names a browser to pull cookies from when no cookie
	// file is set.
	CookieSource string
}
