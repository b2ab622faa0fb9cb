package fetch

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"vidarr/internal/domain/consts"
	"vidarr/internal/models"

	"golang.org/x/net/publicsuffix"
)

var (
	spaceMIDRegex = regexp.MustCompile(`space\.bilibili\.com/(\d+)`)
	bvidRegex     = regexp.MustCompile(`/video/(BV[0-9A-Za-z]+)`)
)

// IsPlaylistURL reports whether a collection URL carries an explicit
// playlist-style query parameter, making windowed upstream queries
// possible.
func IsPlaylistURL(collectionURL string) bool {
	parsed, err := url.Parse(collectionURL)
	if err != nil {
		return false
	}
	q := parsed.Query()
	return q.Get("list") != "" || q.Get("fid") != ""
}

// spaceMID extracts the numeric author/space ID from a Bilibili space
// URL, or "" when the URL is not a space page.
func spaceMID(collectionURL string) string {
	m := spaceMIDRegex.FindStringSubmatch(collectionURL)
	if len(m) != 2 {
		return ""
	}
	return m[1]
}

// isVideoURL reports whether the URL points at a single Bilibili video,
// which may itself be the entry point to a collection/series grouping.
func isVideoURL(collectionURL string) bool {
	return strings.Contains(collectionURL, "/video/")
}

// isChannelEntryID detects the channel pseudo-entry some flat playlist
// dumps surface: a 24-character ID with a fixed "UC" prefix.
func isChannelEntryID(id string) bool {
	return len(id) == consts.ChannelIDLength && strings.HasPrefix(id, consts.ChannelIDPrefix)
}

// watchURL reconstructs the canonical watch URL for a bare video ID.
func watchURL(platform models.Platform, id string) string {
	switch platform {
	case models.PlatformBilibili:
		return fmt.Sprintf(consts.BilibiliWatchURL, id)
	default:
		return fmt.Sprintf(consts.YouTubeWatchURL, id)
	}
}

// Hostname returns the normalized eTLD+1 for a URL, used to tag the
// platform of a pasted collection URL.
func Hostname(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	hostname := parsed.Hostname()
	if domain, err := publicsuffix.EffectiveTLDPlusOne(hostname); err == nil { // If err IS nil
		hostname = domain
	}
	return strings.ToLower(hostname)
}

// DetectPlatform tags a collection URL by its hostname.
func DetectPlatform(rawURL string) (models.Platform, bool) {
	switch Hostname(rawURL) {
	case "youtube.com", "youtu.be":
		return models.PlatformYouTube, true
	case "bilibili.com", "b23.tv":
		return models.PlatformBilibili, true
	}
	return "", false
}
