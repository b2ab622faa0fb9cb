package fetch

import (
	"context"
	"vidarr/internal/models"
)

// youtubeStrategy enumerates YouTube playlists and channels through
// yt-dlp flat playlist dumps.
type youtubeStrategy struct {
	pager ytdlpPager
}

func newYouTubeStrategy(runner Runner) *youtubeStrategy {
	return &youtubeStrategy{
		pager: ytdlpPager{runner: runner, platform: models.PlatformYouTube},
	}
}

// windowed: only explicit playlists support real windowed queries; a
// channel's video tab is pseudo-paginated (full fetch, sliced in memory).
func (s *youtubeStrategy) windowed(collectionURL string) bool {
	return IsPlaylistURL(collectionURL)
}

// count reads the declared playlist total. Channels cannot be counted
// cheaply and report 0 (unknown).
func (s *youtubeStrategy) count(ctx context.Context, collectionURL string) (int, error) {
	if !s.windowed(collectionURL) {
		return 0, nil
	}
	return s.pager.count(ctx, collectionURL)
}

// fetchSlice fetches upstream positions offset+1 through offset+limit
// (yt-dlp playlist items are 1-indexed). Non-windowed URLs degrade to a
// full fetch.
func (s *youtubeStrategy) fetchSlice(ctx context.Context, collectionURL string, offset, limit int) ([]string, error) {
	if !s.windowed(collectionURL) {
		return s.fetchAll(ctx, collectionURL)
	}

	urls, _, err := s.pager.window(ctx, collectionURL, offset+1, offset+limit)
	return urls, err
}

func (s *youtubeStrategy) fetchAll(ctx context.Context, collectionURL string) ([]string, error) {
	return s.pager.all(ctx, collectionURL), nil
}
