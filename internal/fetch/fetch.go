// Package fetch enumerates member video URLs of remote collections
// (channels, playlists, spaces) across platforms.
//
// Error taxonomy is deliberate and asymmetric: per-page/per-call fetch
// failures are normalized to empty or partial results so one flaky page
// never kills a whole task, while an unsupported collection grouping is a
// hard error so genuine platform gaps stay visible.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"vidarr/internal/models"
	"vidarr/internal/utils/logging"
)

// ErrUnsupportedGrouping reports a collection/series grouping type this
// program does not know how to enumerate yet.
var ErrUnsupportedGrouping = errors.New("unsupported collection grouping type")

// strategy is the per-platform enumeration mechanics behind the Fetcher.
type strategy interface {
	windowed(collectionURL string) bool
	count(ctx context.Context, collectionURL string) (int, error)
	fetchSlice(ctx context.Context, collectionURL string, offset, limit int) ([]string, error)
	fetchAll(ctx context.Context, collectionURL string) ([]string, error)
}

// Fetcher dispatches collection enumeration to platform strategies.
type Fetcher struct {
	strategies map[models.Platform]strategy
}

// New returns a Fetcher using the given runner for yt-dlp calls.
// biliAPIBase overrides the Bilibili web API host; pass "" for the
// default.
func New(runner Runner, biliAPIBase string) *Fetcher {
	return &Fetcher{
		strategies: map[models.Platform]strategy{
			models.PlatformYouTube:  newYouTubeStrategy(runner),
			models.PlatformBilibili: newBilibiliStrategy(runner, biliAPIBase),
		},
	}
}

// Windowed reports whether the collection URL supports real windowed
// (playlist-style) upstream queries on its platform.
func (f *Fetcher) Windowed(collectionURL string, platform models.Platform) bool {
	s, ok := f.strategies[platform]
	if !ok {
		return false
	}
	return s.windowed(collectionURL)
}

// Count returns the best-effort member count of a collection. 0 means
// "unknown, use a full fetch", never "empty"; Count never fails.
func (f *Fetcher) Count(ctx context.Context, collectionURL string, platform models.Platform) int {
	s, ok := f.strategies[platform]
	if !ok {
		logging.E("No fetch strategy for platform %q", platform)
		return 0
	}

	n, err := s.count(ctx, collectionURL)
	if err != nil {
		logging.D(1, "Count failed for %q, treating as unknown: %v", collectionURL, err)
		return 0
	}
	return n
}

// FetchAll enumerates every member of a collection, paging until a short
// page. A mid-fetch upstream failure returns the accumulated partial
// result; only structural failures (ErrUnsupportedGrouping) are errors.
func (f *Fetcher) FetchAll(ctx context.Context, collectionURL string, platform models.Platform) ([]string, error) {
	s, ok := f.strategies[platform]
	if !ok {
		logging.E("No fetch strategy for platform %q", platform)
		return nil, nil
	}
	return s.fetchAll(ctx, collectionURL)
}

// FetchSlice fetches one bounded window of members. Offset is 0-indexed
// here and mapped to 1-indexed upstream positions. On sources without
// windowed queries this degrades to a full fetch — callers must not
// assume the result is bounded to limit. Empty on fetch failure.
func (f *Fetcher) FetchSlice(ctx context.Context, collectionURL string, platform models.Platform, offset, limit int) []string {
	s, ok := f.strategies[platform]
	if !ok {
		logging.E("No fetch strategy for platform %q", platform)
		return nil
	}

	urls, err := s.fetchSlice(ctx, collectionURL, offset, limit)
	if err != nil {
		logging.D(1, "Slice fetch failed for %q (offset %d, limit %d): %v", collectionURL, offset, limit, err)
		return nil
	}
	return urls
}

// VideoURLsIncremental returns the member URLs at positions [startIndex,
// startIndex+count). Windowed collections map directly to a slice fetch;
// everything else fetches the whole collection and slices in memory. Any
// fetch error yields an empty result so an incremental caller treats it
// as "nothing new this round" instead of crashing the task.
func (f *Fetcher) VideoURLsIncremental(ctx context.Context, collectionURL string, platform models.Platform, startIndex, count int) []string {
	s, ok := f.strategies[platform]
	if !ok {
		logging.E("No fetch strategy for platform %q", platform)
		return nil
	}

	if s.windowed(collectionURL) {
		urls, err := s.fetchSlice(ctx, collectionURL, startIndex, count)
		if err != nil {
			logging.D(1, "Incremental fetch failed for %q: %v", collectionURL, err)
			return nil
		}
		return urls
	}

	all, err := s.fetchAll(ctx, collectionURL)
	if err != nil {
		logging.E("Incremental full fetch failed for %q: %v", collectionURL, err)
		return nil
	}

	if startIndex >= len(all) {
		return nil
	}
	end := startIndex + count
	if end > len(all) {
		end = len(all)
	}
	return all[startIndex:end]
}

// flatDump is the shape of a yt-dlp '--flat-playlist -J' dump, reduced to
// the fields this program reads.
type flatDump struct {
	PlaylistCount int         `json:"playlist_count"`
	Entries       []flatEntry `json:"entries"`
}

type flatEntry struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// parseFlatDump unmarshals a flat playlist dump and resolves entries into
// canonical member URLs. Channel pseudo-entries are filtered out; entries
// lacking a direct URL are reconstructed from their bare ID.
func parseFlatDump(raw []byte, platform models.Platform) (urls []string, nEntries int, err error) {
	var dump flatDump
	if err := json.Unmarshal(raw, &dump); err != nil {
		return nil, 0, err
	}

	urls = make([]string, 0, len(dump.Entries))
	for _, e := range dump.Entries {
		if isChannelEntryID(e.ID) {
			logging.D(2, "Filtered channel pseudo-entry %q from dump", e.ID)
			continue
		}
		if e.URL != "" {
			urls = append(urls, e.URL)
			continue
		}
		if e.ID != "" {
			urls = append(urls, watchURL(platform, e.ID))
		}
	}
	return urls, len(dump.Entries), nil
}
