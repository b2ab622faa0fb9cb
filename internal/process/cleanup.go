package process

import (
	"context"

	"vidarr/internal/contracts"
	"vidarr/internal/models"
	"vidarr/internal/utils/logging"
)

// Cleanup removes partial artifacts for the item a task was working on
// when it stopped. Advisory only: every failure inside is logged and
// swallowed, Run never raises.
type Cleanup struct {
	Fetcher   contracts.CollectionFetcher
	Info      contracts.VideoInfoProvider
	Cleaner   contracts.ArtifactCleaner
	DLStore   contracts.DownloadStore
	Canceller contracts.DownloadCanceller
	VideoDir  string
}

// Run cleans up after the task's current (possibly half-finished) item.
// No-op when nothing has started or the member list came back too short
// to resolve the cursor.
func (c *Cleanup) Run(ctx context.Context, t *models.Task) {
	if t.CurrentVideoIndex == 0 {
		return
	}

	urls, err := c.Fetcher.FetchAll(ctx, t.AuthorURL, t.Platform)
	if err != nil {
		logging.E("Cleanup fetch failed for task %s: %v", t.ID, err)
		return
	}
	if len(urls) < t.CurrentVideoIndex {
		logging.D(1, "Member list too short (%d) to resolve index %d, skipping cleanup",
			len(urls), t.CurrentVideoIndex)
		return
	}
	target := urls[t.CurrentVideoIndex-1]

	c.cleanByTitle(ctx, target)
	c.cancelActive(target)
}

// cleanByTitle derives the expected output base name from the video's
// metadata and removes matching partial artifacts.
func (c *Cleanup) cleanByTitle(ctx context.Context, url string) {
	info, err := c.Info.GetInfo(ctx, url)
	if err != nil {
		logging.W("Cleanup could not resolve metadata for %q: %v", url, err)
		return
	}
	if info.Title == "" {
		return
	}

	removed, err := c.Cleaner.Cleanup(info.Title, c.VideoDir)
	if err != nil {
		logging.W("Artifact cleanup failed for %q: %v", info.Title, err)
		return
	}
	for _, p := range removed {
		logging.I("Removed partial artifact %q", p)
	}
}

// cancelActive cancels any registered in-flight download of the target
// URL and cleans artifacts under the filename that download reported,
// which may differ from the title-derived name.
func (c *Cleanup) cancelActive(target string) {
	active, err := c.DLStore.GetDownloadStatus()
	if err != nil {
		logging.W("Cleanup could not read active downloads: %v", err)
		return
	}

	for _, d := range active {
		if d.SourceURL != target {
			continue
		}

		if c.Canceller != nil && !c.Canceller.CancelDownload(d.ID) {
			logging.D(1, "Active download %d not in flight in this process", d.ID)
		}
		if err := c.DLStore.RemoveActiveDownload(d.ID); err != nil {
			logging.W("Failed to deregister download %d: %v", d.ID, err)
		}

		if d.Filename == "" {
			continue
		}
		removed, err := c.Cleaner.Cleanup(d.Filename, c.VideoDir)
		if err != nil {
			logging.W("Artifact cleanup failed for %q: %v", d.Filename, err)
			continue
		}
		for _, p := range removed {
			logging.I("Removed partial artifact %q", p)
		}
	}
}
