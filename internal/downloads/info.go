package downloads

import (
	"context"
	"encoding/json"
	"fmt"

	"vidarr/internal/domain/command"
	"vidarr/internal/fetch"
	"vidarr/internal/models"
	"vidarr/internal/parsing"
)

// InfoProvider looks up lightweight video metadata through yt-dlp without
// downloading anything.
type InfoProvider struct {
	Runner fetch.Runner
}

func NewInfoProvider(runner fetch.Runner) *InfoProvider {
	return &InfoProvider{Runner: runner}
}

type infoDump struct {
	Title      string `json:"title"`
	Uploader   string `json:"uploader"`
	UploadDate string `json:"upload_date"`
}

// GetInfo fetches title, uploader and upload date for a video URL.
func (p *InfoProvider) GetInfo(ctx context.Context, url string) (*models.VideoInfo, error) {
	out, err := p.Runner.Run(ctx, command.OutputJSON, command.SkipDownload, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata for %q: %w", url, err)
	}

	var dump infoDump
	if err := json.Unmarshal(out, &dump); err != nil {
		return nil, fmt.Errorf("failed to parse metadata for %q: %w", url, err)
	}

	info := &models.VideoInfo{
		Title:  dump.Title,
		Author: dump.Uploader,
	}
	if dump.UploadDate != "" {
		if d, err := parsing.ParseUploadDate(dump.UploadDate); err == nil {
			info.UploadDate = d
		}
	}
	return info, nil
}
