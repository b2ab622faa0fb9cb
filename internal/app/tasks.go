// Package app wires stores, fetcher, downloaders and the processor
// together for the command layer.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"vidarr/internal/contracts"
	"vidarr/internal/domain/keys"
	"vidarr/internal/downloads"
	"vidarr/internal/fetch"
	"vidarr/internal/models"
	"vidarr/internal/net"
	"vidarr/internal/process"
	"vidarr/internal/storage"
	"vidarr/internal/utils/fs"
	"vidarr/internal/utils/logging"

	"github.com/spf13/viper"
)

// StartTask creates a task for a collection URL and runs it to the first
// stopping point.
func StartTask(ctx context.Context, s contracts.Store, rawURL, author string) (string, error) {
	platform, ok := fetch.DetectPlatform(rawURL)
	if !ok {
		return "", fmt.Errorf("unsupported collection URL %q", rawURL)
	}

	t := models.NewTask(author, rawURL, platform)
	if err := s.TaskStore().CreateTask(t); err != nil {
		return "", err
	}

	return t.ID, RunTask(ctx, s, t.ID)
}

// RunTask runs one existing task until completion, cancellation, or a
// propagated fetch failure.
func RunTask(ctx context.Context, s contracts.Store, taskID string) error {
	t, hasRows, err := s.TaskStore().GetTaskByID(taskID)
	if err != nil {
		return err
	}
	if !hasRows {
		return fmt.Errorf("no task with ID %q", taskID)
	}

	netCfg := resolveNetworkConfig(ctx, t.AuthorURL)
	videoDir := filepath.Join(viper.GetString(keys.VideoDir), t.Author)
	tracker := downloads.NewTracker()

	p := process.NewProcessor(s, newFetcher(netCfg), downloadersFor(s, t, videoDir, netCfg, tracker), videoDir)

	if viper.GetBool(keys.SyncEnabled) {
		syncer, err := storage.NewS3Syncer(ctx, storage.SyncConfig{
			Bucket:   viper.GetString(keys.SyncBucket),
			Prefix:   viper.GetString(keys.SyncPrefix),
			Region:   viper.GetString(keys.SyncRegion),
			Endpoint: viper.GetString(keys.SyncEndpoint),
		})
		if err != nil {
			logging.W("Cloud sync disabled: %v", err)
		} else {
			p.Syncer = syncer
		}
	}

	return p.ProcessTask(ctx, taskID)
}

// CancelTask flips a task to cancelled and cleans up the partial
// artifacts of its current item.
func CancelTask(ctx context.Context, s contracts.Store, taskID string) error {
	t, hasRows, err := s.TaskStore().GetTaskByID(taskID)
	if err != nil {
		return err
	}
	if !hasRows {
		return fmt.Errorf("no task with ID %q", taskID)
	}

	if err := s.TaskStore().CancelTask(taskID); err != nil {
		return err
	}
	logging.I("Cancelled task %s", taskID)

	netCfg := resolveNetworkConfig(ctx, t.AuthorURL)
	runner := &fetch.YtdlpRunner{Net: netCfg}

	c := &process.Cleanup{
		Fetcher:   newFetcher(netCfg),
		Info:      downloads.NewInfoProvider(runner),
		Cleaner:   fs.NewCleaner(),
		DLStore:   s.DownloadStore(),
		Canceller: downloads.NewTracker(),
		VideoDir:  filepath.Join(viper.GetString(keys.VideoDir), t.Author),
	}
	c.Run(ctx, t)
	return nil
}

func newFetcher(netCfg models.NetworkConfig) *fetch.Fetcher {
	return fetch.New(&fetch.YtdlpRunner{Net: netCfg}, "")
}

func downloadersFor(s contracts.Store, t *models.Task, videoDir string, netCfg models.NetworkConfig, tracker *downloads.Tracker) map[models.Platform]contracts.VideoDownloader {
	dls := make(map[models.Platform]contracts.VideoDownloader, 2)
	for _, platform := range []models.Platform{models.PlatformYouTube, models.PlatformBilibili} {
		dls[platform] = downloads.NewVideoDownload(
			t.Author, platform, videoDir, netCfg,
			s.VideoStore(), s.DownloadStore(), tracker)
	}
	return dls
}

// resolveNetworkConfig reads the network flags and, when no cookie
// configuration was given, tries to harvest browser cookies for the
// collection's domain into a yt-dlp cookie file.
func resolveNetworkConfig(ctx context.Context, collectionURL string) models.NetworkConfig {
	netCfg := models.NetworkConfig{
		Proxy:        viper.GetString(keys.Proxy),
		RateLimit:    viper.GetString(keys.RateLimit),
		CookiePath:   viper.GetString(keys.CookiePath),
		CookieSource: viper.GetString(keys.CookieSource),
	}

	if netCfg.CookiePath == "" && netCfg.CookieSource == "" {
		cookieFile := filepath.Join(os.TempDir(), "vidarr_cookies.txt")
		path, err := net.NewCookieManager().ResolveCookieFile(ctx, collectionURL, cookieFile)
		if err != nil {
			logging.D(1, "No browser cookies resolved for %q: %v", collectionURL, err)
		} else if path != "" {
			netCfg.CookiePath = path
		}
	}

	return netCfg
}
