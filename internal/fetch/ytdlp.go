package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"vidarr/internal/domain/command"
	"vidarr/internal/domain/consts"
	"vidarr/internal/models"
	"vidarr/internal/utils/logging"
)

// ytdlpPager pages a collection through yt-dlp flat playlist dumps. Both
// platform strategies share it; only their fallback and classification
// logic differ.
type ytdlpPager struct {
	runner   Runner
	platform models.Platform
}

// count reads the declared playlist total with a 1-item window.
func (p *ytdlpPager) count(ctx context.Context, collectionURL string) (int, error) {
	out, err := p.runner.Run(ctx,
		command.FlatPlaylist,
		command.OutputJSON,
		command.PlaylistItems, "1:1",
		collectionURL)
	if err != nil {
		return 0, err
	}

	var dump flatDump
	if err := json.Unmarshal(out, &dump); err != nil {
		return 0, err
	}
	return dump.PlaylistCount, nil
}

// window fetches one 1-indexed inclusive window of a collection and
// returns the member URLs plus the raw entry count (pre-filtering), which
// callers use for short-page detection.
func (p *ytdlpPager) window(ctx context.Context, collectionURL string, first, last int) ([]string, int, error) {
	out, err := p.runner.Run(ctx,
		command.FlatPlaylist,
		command.OutputJSON,
		command.PlaylistItems, fmt.Sprintf("%d:%d", first, last),
		collectionURL)
	if err != nil {
		return nil, 0, err
	}

	urls, nEntries, err := parseFlatDump(out, p.platform)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to parse flat playlist dump: %w", err)
	}
	return urls, nEntries, nil
}

// all pages through the whole collection in fixed windows. A full page
// means "maybe more", a short page means "last page". An upstream error
// mid-way returns the accumulated partial result, not an error.
func (p *ytdlpPager) all(ctx context.Context, collectionURL string) []string {
	var accumulated []string

	for start := 1; ; start += consts.FetchPageSize {
		urls, nEntries, err := p.window(ctx, collectionURL, start, start+consts.FetchPageSize-1)
		if err != nil {
			logging.W("Page fetch failed for %q at position %d, returning %d accumulated URLs: %v",
				collectionURL, start, len(accumulated), err)
			return accumulated
		}

		accumulated = append(accumulated, urls...)

		if nEntries < consts.FetchPageSize {
			break
		}
	}

	return accumulated
}
