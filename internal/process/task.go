// Package process runs continuous download tasks: the per-task state
// machine, member iteration with persisted checkpoints, and artifact
// cleanup for interrupted items.
package process

import (
	"context"
	"fmt"
	"time"

	"vidarr/internal/contracts"
	"vidarr/internal/domain/consts"
	"vidarr/internal/models"
	"vidarr/internal/utils/logging"
)

// Processor drives one or more continuous download tasks. Task status in
// the database is the single source of truth: the Processor re-reads it
// before every unit of work, so external cancellation is observed at the
// next checkpoint rather than by interrupt.
type Processor struct {
	TStore  contracts.TaskStore
	VStore  contracts.VideoStore
	DLStore contracts.DownloadStore
	Fetcher contracts.CollectionFetcher

	Downloaders map[models.Platform]contracts.VideoDownloader

	// Syncer, when set, pushes the output directory to remote storage
	// after a task completes. Best-effort.
	Syncer   contracts.ArchiveSyncer
	VideoDir string

	// BatchPause spaces out incremental batch fetches.
	BatchPause time.Duration
}

// NewProcessor wires a Processor over the given stores and capabilities.
func NewProcessor(s contracts.Store, fetcher contracts.CollectionFetcher, downloaders map[models.Platform]contracts.VideoDownloader, videoDir string) *Processor {
	return &Processor{
		TStore:      s.TaskStore(),
		VStore:      s.VideoStore(),
		DLStore:     s.DownloadStore(),
		Fetcher:     fetcher,
		Downloaders: downloaders,
		VideoDir:    videoDir,
		BatchPause:  consts.InterBatchPause,
	}
}

// ProcessTask runs one task until its member list is exhausted, the task
// stops being active, or a structural fetch error propagates. Individual
// item failures are counted and recorded, never fatal.
func (p *Processor) ProcessTask(ctx context.Context, taskID string) error {
	t, err := p.liveTask(taskID)
	if err != nil {
		return err
	}
	if t == nil {
		logging.D(1, "Task %s missing or not active, nothing to do", taskID)
		return nil
	}

	logging.I("Processing task %s (%s, %q) from index %d", t.ID, t.Platform, t.AuthorURL, t.CurrentVideoIndex)

	if p.Fetcher.Windowed(t.AuthorURL, t.Platform) {
		return p.runIncremental(ctx, t)
	}
	return p.runBulk(ctx, t)
}

// liveTask reloads a task and returns nil when it is missing or no
// longer active. Every await boundary goes through this.
func (p *Processor) liveTask(id string) (*models.Task, error) {
	t, hasRows, err := p.TStore.GetTaskByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task %s: %w", id, err)
	}
	if !hasRows || t.Status != models.TaskStatusActive {
		return nil, nil
	}
	return t, nil
}

// runBulk fetches the whole member list once and iterates it from the
// persisted cursor. Position is re-read from the database every
// iteration so external progress changes are respected.
func (p *Processor) runBulk(ctx context.Context, t *models.Task) error {
	urls, err := p.Fetcher.FetchAll(ctx, t.AuthorURL, t.Platform)
	if err != nil {
		return fmt.Errorf("fetch failed for task %s: %w", t.ID, err)
	}

	if len(urls) > 0 && t.TotalVideos != len(urls) {
		if err := p.TStore.UpdateTotalVideos(t.ID, len(urls)); err != nil {
			return err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		t, err = p.liveTask(t.ID)
		if err != nil {
			return err
		}
		if t == nil {
			logging.I("Task no longer active, stopping")
			return nil
		}
		if t.CurrentVideoIndex >= len(urls) {
			break
		}

		if err := p.processItem(ctx, t, urls[t.CurrentVideoIndex]); err != nil {
			return err
		}
	}

	return p.finish(ctx, t.ID)
}

// runIncremental pulls fixed-size batches through windowed fetches,
// re-deriving each batch's offset from the persisted cursor. An empty
// batch before the declared total is reached leaves the task active for
// a later retry instead of marking it complete.
func (p *Processor) runIncremental(ctx context.Context, t *models.Task) error {
	total := p.Fetcher.Count(ctx, t.AuthorURL, t.Platform)
	if total == 0 {
		logging.D(1, "Member count unknown for %q, falling back to bulk fetch", t.AuthorURL)
		return p.runBulk(ctx, t)
	}

	if t.TotalVideos != total {
		if err := p.TStore.UpdateTotalVideos(t.ID, total); err != nil {
			return err
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		t, err = p.liveTask(t.ID)
		if err != nil {
			return err
		}
		if t == nil {
			logging.I("Task no longer active, stopping")
			return nil
		}

		remaining := total - t.CurrentVideoIndex
		if remaining <= 0 {
			break
		}

		batch := consts.TaskBatchSize
		if remaining < batch {
			batch = remaining
		}

		urls := p.Fetcher.VideoURLsIncremental(ctx, t.AuthorURL, t.Platform, t.CurrentVideoIndex, batch)
		if len(urls) == 0 {
			logging.W("Empty batch at index %d of %d for task %s, leaving task active for retry",
				t.CurrentVideoIndex, total, t.ID)
			return nil
		}

		for _, u := range urls {
			t, err = p.liveTask(t.ID)
			if err != nil {
				return err
			}
			if t == nil {
				logging.I("Task no longer active, stopping")
				return nil
			}
			if err := p.processItem(ctx, t, u); err != nil {
				return err
			}
		}

		if total-(t.CurrentVideoIndex+1) > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.BatchPause):
			}
		}
	}

	return p.finish(ctx, t.ID)
}

// processItem handles one member URL: skip when already archived,
// otherwise download and record history, then persist the advanced
// cursor and counts as one atomic checkpoint.
func (p *Processor) processItem(ctx context.Context, t *models.Task, url string) error {
	_, hasRows, err := p.VStore.GetVideoBySourceURL(url)
	if err != nil {
		return fmt.Errorf("failed to check for existing video %q: %w", url, err)
	}

	switch {
	case hasRows:
		logging.D(1, "Already archived, skipping %q", url)
		t.SkippedCount++

	default:
		dl, ok := p.Downloaders[t.Platform]
		if !ok {
			return fmt.Errorf("no downloader for platform %q", t.Platform)
		}

		result, err := dl.Download(ctx, url)
		if err != nil {
			// A thrown error counts the same as a structured failure.
			result = &models.DownloadResult{Success: false, Error: err.Error()}
		}

		if result.Success {
			t.DownloadedCount++
			p.recordHistory(successEntry(t, url, result.Video))
		} else {
			t.FailedCount++
			logging.W("Download failed for %q in task %s: %s", url, t.ID, result.Error)
			p.recordHistory(&models.HistoryEntry{
				Author:    t.Author,
				SourceURL: url,
				Status:    models.HistoryStatusFailed,
				Error:     result.Error,
			})
		}
	}

	t.CurrentVideoIndex++
	if err := p.TStore.UpdateProgress(t.ID, t.Progress()); err != nil {
		return fmt.Errorf("failed to checkpoint task %s: %w", t.ID, err)
	}
	return nil
}

func successEntry(t *models.Task, url string, v *models.Video) *models.HistoryEntry {
	e := &models.HistoryEntry{
		Author:    t.Author,
		SourceURL: url,
		Status:    models.HistoryStatusSuccess,
	}
	if v != nil {
		e.Title = v.Title
		e.Author = v.Author
		e.VideoPath = v.VideoPath
		e.ThumbnailPath = v.ThumbnailPath
	}
	return e
}

func (p *Processor) recordHistory(e *models.HistoryEntry) {
	if err := p.DLStore.AddHistoryItem(e); err != nil {
		logging.E("Failed to record history for %q: %v", e.SourceURL, err)
	}
}

// finish reloads the task one last time and marks it completed only when
// it is still active. A task cancelled mid-run stays cancelled.
func (p *Processor) finish(ctx context.Context, taskID string) error {
	t, err := p.liveTask(taskID)
	if err != nil {
		return err
	}
	if t == nil {
		logging.I("Task %s not active at finish, leaving status untouched", taskID)
		return nil
	}

	if err := p.TStore.CompleteTask(t.ID); err != nil {
		return fmt.Errorf("failed to complete task %s: %w", t.ID, err)
	}
	logging.S("Task %s completed: %d downloaded, %d skipped, %d failed",
		t.ID, t.DownloadedCount, t.SkippedCount, t.FailedCount)

	if p.Syncer != nil {
		if err := p.Syncer.SyncDirectory(ctx, p.VideoDir, t.Author); err != nil {
			logging.E("Post-completion sync failed for task %s: %v", t.ID, err)
		}
	}
	return nil
}
