// Package downloads shells out to yt-dlp for single-video downloads and
// tracks in-flight downloads so they can be cancelled.
package downloads

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"vidarr/internal/contracts"
	"vidarr/internal/domain/command"
	"vidarr/internal/domain/consts"
	"vidarr/internal/models"
	"vidarr/internal/utils/logging"
)

// VideoDownload downloads videos for one author into a fixed directory.
type VideoDownload struct {
	Author   string
	Platform models.Platform
	VideoDir string
	Net      models.NetworkConfig

	VStore  contracts.VideoStore
	DLStore contracts.DownloadStore
	Tracker *Tracker
}

// NewVideoDownload returns a downloader writing into videoDir.
func NewVideoDownload(author string, platform models.Platform, videoDir string, net models.NetworkConfig, vs contracts.VideoStore, ds contracts.DownloadStore, tracker *Tracker) *VideoDownload {
	return &VideoDownload{
		Author:   author,
		Platform: platform,
		VideoDir: videoDir,
		Net:      net,
		VStore:   vs,
		DLStore:  ds,
		Tracker:  tracker,
	}
}

// Download fetches one video. Ordinary yt-dlp failures come back inside
// the result; only registry or filesystem faults surface as errors.
func (d *VideoDownload) Download(ctx context.Context, url string) (*models.DownloadResult, error) {
	if err := os.MkdirAll(d.VideoDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create video directory %q: %w", d.VideoDir, err)
	}

	regID, err := d.DLStore.AddActiveDownload(&models.ActiveDownload{
		SourceURL: url,
		StartedAt: time.Now(),
	})
	if err != nil {
		logging.W("Failed to register active download for %q: %v", url, err)
	}

	dctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if regID != 0 {
		d.Tracker.register(regID, cancel)
		defer func() {
			d.Tracker.unregister(regID)
			if err := d.DLStore.RemoveActiveDownload(regID); err != nil {
				logging.W("Failed to deregister download %d: %v", regID, err)
			}
		}()
	}

	cmd := exec.CommandContext(dctx, command.YTDLP, d.buildArgs(url)...)
	logging.D(1, "Executing: %s", cmd.String())

	out, err := cmd.Output()
	if err != nil {
		if dctx.Err() != nil && ctx.Err() == nil {
			return &models.DownloadResult{Success: false, Error: "download cancelled"}, nil
		}

		msg := err.Error()
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			msg = lastLine(string(exitErr.Stderr))
		}
		logging.E("Download failed for %q: %s", url, msg)
		return &models.DownloadResult{Success: false, Error: msg}, nil
	}

	title, uploader, videoPath, ok := parseAfterMove(string(out))
	if !ok {
		logging.W("yt-dlp gave no after_move line for %q, recording URL without file path", url)
	}
	if uploader == "" {
		uploader = d.Author
	}

	video := &models.Video{
		SourceURL:     url,
		Title:         title,
		Author:        uploader,
		Platform:      d.Platform,
		VideoPath:     videoPath,
		ThumbnailPath: findThumbnail(videoPath),
		CreatedAt:     time.Now(),
	}
	if _, err := d.VStore.AddVideo(video); err != nil {
		logging.E("Downloaded %q but failed to record it: %v", url, err)
	}

	return &models.DownloadResult{Success: true, Video: video}, nil
}

// buildArgs assembles the yt-dlp invocation for a single video.
func (d *VideoDownload) buildArgs(url string) []string {
	args := make([]string, 0, 16)
	args = append(args, command.RestrictFilenames)
	args = append(args, command.Output, filepath.Join(d.VideoDir, command.FilenameSyntax))
	args = append(args, command.WriteThumbnail)
	args = append(args, command.Print, command.AfterMoveResult)

	if d.Net.Proxy != "" {
		args = append(args, command.ProxyFlag, d.Net.Proxy)
	}
	if d.Net.RateLimit != "" {
		args = append(args, command.LimitRate, d.Net.RateLimit)
	}
	if d.Net.CookiePath != "" {
		args = append(args, command.CookiePath, d.Net.CookiePath)
	} else if d.Net.CookieSource != "" {
		args = append(args, command.CookiesFromBrowser, d.Net.CookieSource)
	}

	return append(args, url)
}

// parseAfterMove extracts title, uploader and final filepath from the
// printed after_move line. Later lines win if yt-dlp printed several.
func parseAfterMove(stdout string) (title, uploader, videoPath string, ok bool) {
	for _, line := range strings.Split(stdout, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "after_move:") {
			continue
		}
		fields := strings.SplitN(strings.TrimPrefix(line, "after_move:"), "|", 3)
		if len(fields) != 3 {
			continue
		}
		title, uploader, videoPath, ok = fields[0], fields[1], fields[2], true
	}
	return title, uploader, videoPath, ok
}

// findThumbnail locates the thumbnail yt-dlp wrote alongside the video.
func findThumbnail(videoPath string) string {
	if videoPath == "" {
		return ""
	}
	base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	for _, ext := range []string{".jpg", ".webp", ".png", ".jpeg"} {
		if _, err := os.Stat(base + ext); err == nil {
			return base + ext
		}
	}
	return ""
}

// lastLine returns the last non-empty line of s, trimmed.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

// IsVideoFile reports whether the path carries a known video extension.
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, v := range consts.AllVidExtensions {
		if ext == v {
			return true
		}
	}
	return false
}
