package process

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"vidarr/internal/contracts"
	"vidarr/internal/models"
)

var errTest = errors.New("test error")

func newURL(i int) string {
	return fmt.Sprintf("url-%03d", i)
}

func newTestProcessor(ts *fakeTaskStore, vs *fakeVideoStore, ds *fakeDownloadStore, f *fakeFetcher, dl *fakeDownloader) *Processor {
	return &Processor{
		TStore:  ts,
		VStore:  vs,
		DLStore: ds,
		Fetcher: f,
		Downloaders: map[models.Platform]contracts.VideoDownloader{
			models.PlatformYouTube: dl,
		},
		VideoDir:   "/videos",
		BatchPause: time.Millisecond,
	}
}

func activeTask() *models.Task {
	return &models.Task{
		ID:        "task-1",
		Author:    "someone",
		AuthorURL: "https://www.youtube.com/@someone",
		Platform:  models.PlatformYouTube,
		Status:    models.TaskStatusActive,
	}
}

func TestProcessTaskSkipsExistingAndDownloadsNew(t *testing.T) {
	task := activeTask()
	ts := newFakeTaskStore(task)
	vs := &fakeVideoStore{existing: map[string]bool{"url-a": true}}
	ds := &fakeDownloadStore{}
	f := &fakeFetcher{urls: []string{"url-a", "url-b"}}
	dl := &fakeDownloader{}

	p := newTestProcessor(ts, vs, ds, f, dl)
	if err := p.ProcessTask(context.Background(), task.ID); err != nil {
		t.Fatalf("ProcessTask failed: %v", err)
	}

	got, _, _ := ts.GetTaskByID(task.ID)
	if got.SkippedCount != 1 || got.DownloadedCount != 1 || got.FailedCount != 0 {
		t.Errorf("got counts (d=%d, s=%d, f=%d), want (1, 1, 0)",
			got.DownloadedCount, got.SkippedCount, got.FailedCount)
	}
	if got.CurrentVideoIndex != 2 {
		t.Errorf("got index %d, want 2", got.CurrentVideoIndex)
	}
	if got.Status != models.TaskStatusCompleted {
		t.Errorf("got status %q, want completed", got.Status)
	}
	if len(dl.attempted) != 1 || dl.attempted[0] != "url-b" {
		t.Errorf("got download attempts %v, want only url-b", dl.attempted)
	}
	if got.TotalVideos != 2 {
		t.Errorf("got total %d, want 2", got.TotalVideos)
	}
}

func TestProcessTaskStopsWhenCancelled(t *testing.T) {
	task := activeTask()
	task.Status = models.TaskStatusCancelled
	ts := newFakeTaskStore(task)
	f := &fakeFetcher{urls: []string{"url-a"}}
	dl := &fakeDownloader{}

	p := newTestProcessor(ts, &fakeVideoStore{}, &fakeDownloadStore{}, f, dl)
	if err := p.ProcessTask(context.Background(), task.ID); err != nil {
		t.Fatalf("ProcessTask raised on a cancelled task: %v", err)
	}

	if len(ts.completed) != 0 {
		t.Error("CompleteTask was called for a cancelled task")
	}
	if len(dl.attempted) != 0 {
		t.Errorf("attempted %v downloads on a cancelled task", dl.attempted)
	}
	if f.fetchCalls != 0 {
		t.Errorf("made %d fetch calls on a cancelled task", f.fetchCalls)
	}
}

func TestProcessTaskMissingIsNoop(t *testing.T) {
	ts := newFakeTaskStore()
	p := newTestProcessor(ts, &fakeVideoStore{}, &fakeDownloadStore{}, &fakeFetcher{}, &fakeDownloader{})

	if err := p.ProcessTask(context.Background(), "no-such-task"); err != nil {
		t.Fatalf("ProcessTask raised on a missing task: %v", err)
	}
	if len(ts.completed) != 0 {
		t.Error("CompleteTask was called for a missing task")
	}
}

func TestProcessTaskRecordsFailureAndContinues(t *testing.T) {
	task := activeTask()
	ts := newFakeTaskStore(task)
	ds := &fakeDownloadStore{}
	f := &fakeFetcher{urls: []string{"url-a", "url-b", "url-c"}}
	dl := &fakeDownloader{failures: map[string]string{"url-b": "HTTP Error 403"}}

	p := newTestProcessor(ts, &fakeVideoStore{}, ds, f, dl)
	if err := p.ProcessTask(context.Background(), task.ID); err != nil {
		t.Fatalf("ProcessTask failed: %v", err)
	}

	got, _, _ := ts.GetTaskByID(task.ID)
	if got.DownloadedCount != 2 || got.FailedCount != 1 {
		t.Errorf("got (d=%d, f=%d), want (2, 1)", got.DownloadedCount, got.FailedCount)
	}
	if got.Status != models.TaskStatusCompleted {
		t.Errorf("got status %q, want completed despite one failure", got.Status)
	}

	var failed *models.HistoryEntry
	for _, e := range ds.history {
		if e.Status == models.HistoryStatusFailed {
			failed = e
		}
	}
	if failed == nil {
		t.Fatal("no failed history entry recorded")
	}
	if failed.SourceURL != "url-b" || failed.Error != "HTTP Error 403" {
		t.Errorf("got failed entry (%q, %q)", failed.SourceURL, failed.Error)
	}
}

func TestProcessTaskHandlesThrownDownloadError(t *testing.T) {
	task := activeTask()
	ts := newFakeTaskStore(task)
	ds := &fakeDownloadStore{}
	f := &fakeFetcher{urls: []string{"url-a"}}
	dl := &fakeDownloader{throws: map[string]error{"url-a": errTest}}

	p := newTestProcessor(ts, &fakeVideoStore{}, ds, f, dl)
	if err := p.ProcessTask(context.Background(), task.ID); err != nil {
		t.Fatalf("a thrown per-item error escaped the loop: %v", err)
	}

	got, _, _ := ts.GetTaskByID(task.ID)
	if got.FailedCount != 1 {
		t.Errorf("got failedCount %d, want 1", got.FailedCount)
	}
	if got.Status != models.TaskStatusCompleted {
		t.Errorf("got status %q, want completed", got.Status)
	}
}

func TestProcessTaskProgressIsMonotonicAndConsistent(t *testing.T) {
	task := activeTask()
	ts := newFakeTaskStore(task)
	f := &fakeFetcher{urls: []string{"url-a", "url-b", "url-c", "url-d"}}
	dl := &fakeDownloader{failures: map[string]string{"url-c": "boom"}}
	vs := &fakeVideoStore{existing: map[string]bool{"url-a": true}}

	p := newTestProcessor(ts, vs, &fakeDownloadStore{}, f, dl)
	if err := p.ProcessTask(context.Background(), task.ID); err != nil {
		t.Fatalf("ProcessTask failed: %v", err)
	}

	prev := -1
	for _, pr := range ts.progress {
		if pr.CurrentVideoIndex <= prev {
			t.Errorf("cursor went backwards: %d after %d", pr.CurrentVideoIndex, prev)
		}
		prev = pr.CurrentVideoIndex
	}

	got, _, _ := ts.GetTaskByID(task.ID)
	if sum := got.DownloadedCount + got.SkippedCount + got.FailedCount; got.CurrentVideoIndex != sum {
		t.Errorf("cursor %d != downloaded+skipped+failed (%d)", got.CurrentVideoIndex, sum)
	}
}

func TestProcessTaskResumesFromPersistedCursor(t *testing.T) {
	task := activeTask()
	task.CurrentVideoIndex = 2
	task.DownloadedCount = 2
	ts := newFakeTaskStore(task)
	f := &fakeFetcher{urls: []string{"url-a", "url-b", "url-c"}}
	dl := &fakeDownloader{}

	p := newTestProcessor(ts, &fakeVideoStore{}, &fakeDownloadStore{}, f, dl)
	if err := p.ProcessTask(context.Background(), task.ID); err != nil {
		t.Fatalf("ProcessTask failed: %v", err)
	}

	if len(dl.attempted) != 1 || dl.attempted[0] != "url-c" {
		t.Errorf("got attempts %v, want only url-c (resume from index 2)", dl.attempted)
	}
}

func TestProcessTaskIncrementalBatchesFromPersistedCursor(t *testing.T) {
	task := activeTask()
	task.AuthorURL = "https://www.youtube.com/playlist?list=PLtest"
	ts := newFakeTaskStore(task)

	urls := make([]string, 120)
	for i := range urls {
		urls[i] = newURL(i)
	}
	f := &fakeFetcher{urls: urls, total: 120, isWindowed: true}
	dl := &fakeDownloader{}

	p := newTestProcessor(ts, &fakeVideoStore{}, &fakeDownloadStore{}, f, dl)
	if err := p.ProcessTask(context.Background(), task.ID); err != nil {
		t.Fatalf("ProcessTask failed: %v", err)
	}

	// 120 members: one 50-batch, another 50-batch, then the 20 remainder
	// fetched in a single smaller call.
	want := [][2]int{{0, 50}, {50, 50}, {100, 20}}
	if len(f.incrCalls) != len(want) {
		t.Fatalf("got %d incremental calls %v, want %v", len(f.incrCalls), f.incrCalls, want)
	}
	for i, call := range f.incrCalls {
		if call != want[i] {
			t.Errorf("call %d = %v, want %v", i, call, want[i])
		}
	}

	got, _, _ := ts.GetTaskByID(task.ID)
	if got.Status != models.TaskStatusCompleted || got.CurrentVideoIndex != 120 {
		t.Errorf("got (status=%q, index=%d), want (completed, 120)", got.Status, got.CurrentVideoIndex)
	}
}

func TestProcessTaskEmptyIncrementalBatchLeavesTaskActive(t *testing.T) {
	task := activeTask()
	task.AuthorURL = "https://www.youtube.com/playlist?list=PLtest"
	ts := newFakeTaskStore(task)
	f := &fakeFetcher{total: 10, isWindowed: true, emptyBatches: true}

	p := newTestProcessor(ts, &fakeVideoStore{}, &fakeDownloadStore{}, f, &fakeDownloader{})
	if err := p.ProcessTask(context.Background(), task.ID); err != nil {
		t.Fatalf("ProcessTask raised on an empty batch: %v", err)
	}

	got, _, _ := ts.GetTaskByID(task.ID)
	if got.Status != models.TaskStatusActive {
		t.Errorf("got status %q, want active (retryable)", got.Status)
	}
	if len(ts.completed) != 0 {
		t.Error("CompleteTask was called despite an empty batch")
	}
}

func TestProcessTaskUnknownCountFallsBackToBulk(t *testing.T) {
	task := activeTask()
	task.AuthorURL = "https://www.youtube.com/playlist?list=PLtest"
	ts := newFakeTaskStore(task)
	f := &fakeFetcher{urls: []string{"url-a", "url-b"}, total: 0, isWindowed: true}

	p := newTestProcessor(ts, &fakeVideoStore{}, &fakeDownloadStore{}, f, &fakeDownloader{})
	if err := p.ProcessTask(context.Background(), task.ID); err != nil {
		t.Fatalf("ProcessTask failed: %v", err)
	}

	if f.fetchCalls != 1 {
		t.Errorf("got %d FetchAll calls, want 1 (bulk fallback)", f.fetchCalls)
	}
	got, _, _ := ts.GetTaskByID(task.ID)
	if got.Status != models.TaskStatusCompleted {
		t.Errorf("got status %q, want completed", got.Status)
	}
}

func TestProcessTaskFetchErrorPropagates(t *testing.T) {
	task := activeTask()
	ts := newFakeTaskStore(task)
	f := &fakeFetcher{fetchAllErr: errTest}

	p := newTestProcessor(ts, &fakeVideoStore{}, &fakeDownloadStore{}, f, &fakeDownloader{})
	if err := p.ProcessTask(context.Background(), task.ID); err == nil {
		t.Fatal("a task-level fetch error did not propagate")
	}

	got, _, _ := ts.GetTaskByID(task.ID)
	if got.Status != models.TaskStatusActive {
		t.Errorf("got status %q, want still active after a fetch error", got.Status)
	}
}
