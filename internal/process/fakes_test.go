package process

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"vidarr/internal/models"
)

// fakeTaskStore keeps tasks in a map and records status transitions.
type fakeTaskStore struct {
	mu        sync.Mutex
	tasks     map[string]*models.Task
	completed []string
	progress  []models.TaskProgress
}

func newFakeTaskStore(tasks ...*models.Task) *fakeTaskStore {
	s := &fakeTaskStore{tasks: make(map[string]*models.Task)}
	for _, t := range tasks {
		s.tasks[t.ID] = t
	}
	return s
}

func (s *fakeTaskStore) GetDB() *sql.DB { return nil }

func (s *fakeTaskStore) CreateTask(t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID] = t
	return nil
}

func (s *fakeTaskStore) GetTaskByID(id string) (*models.Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, false, nil
	}
	cp := *t
	return &cp, true, nil
}

func (s *fakeTaskStore) GetTasksByStatus(status models.TaskStatus) ([]*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Task
	for _, t := range s.tasks {
		if t.Status == status {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeTaskStore) UpdateTotalVideos(id string, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tasks[id]; ok {
		t.TotalVideos = n
	}
	return nil
}

func (s *fakeTaskStore) UpdateProgress(id string, p models.TaskProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = append(s.progress, p)
	if t, ok := s.tasks[id]; ok {
		t.CurrentVideoIndex = p.CurrentVideoIndex
		t.DownloadedCount = p.DownloadedCount
		t.SkippedCount = p.SkippedCount
		t.FailedCount = p.FailedCount
	}
	return nil
}

func (s *fakeTaskStore) setStatus(id string, status models.TaskStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return errors.New("no such task")
	}
	t.Status = status
	return nil
}

func (s *fakeTaskStore) CompleteTask(id string) error {
	s.mu.Lock()
	s.completed = append(s.completed, id)
	s.mu.Unlock()
	return s.setStatus(id, models.TaskStatusCompleted)
}

func (s *fakeTaskStore) CancelTask(id string) error { return s.setStatus(id, models.TaskStatusCancelled) }
func (s *fakeTaskStore) FailTask(id string) error   { return s.setStatus(id, models.TaskStatusFailed) }

// fakeVideoStore knows a fixed set of already-archived source URLs.
type fakeVideoStore struct {
	existing map[string]bool
	added    []*models.Video
}

func (s *fakeVideoStore) GetDB() *sql.DB { return nil }

func (s *fakeVideoStore) GetVideoBySourceURL(url string) (*models.Video, bool, error) {
	if s.existing[url] {
		return &models.Video{SourceURL: url}, true, nil
	}
	return nil, false, nil
}

func (s *fakeVideoStore) AddVideo(v *models.Video) (int64, error) {
	s.added = append(s.added, v)
	return int64(len(s.added)), nil
}

// fakeDownloadStore records history and serves a canned active-download
// registry.
type fakeDownloadStore struct {
	history []*models.HistoryEntry
	active  []*models.ActiveDownload
	removed []int64
}

func (s *fakeDownloadStore) GetDB() *sql.DB { return nil }

func (s *fakeDownloadStore) AddHistoryItem(e *models.HistoryEntry) error {
	s.history = append(s.history, e)
	return nil
}

func (s *fakeDownloadStore) ListHistory(limit int) ([]*models.HistoryEntry, error) {
	return s.history, nil
}

func (s *fakeDownloadStore) AddActiveDownload(d *models.ActiveDownload) (int64, error) {
	s.active = append(s.active, d)
	return int64(len(s.active)), nil
}

func (s *fakeDownloadStore) RemoveActiveDownload(id int64) error {
	s.removed = append(s.removed, id)
	return nil
}

func (s *fakeDownloadStore) GetDownloadStatus() ([]*models.ActiveDownload, error) {
	return s.active, nil
}

// fakeFetcher serves a fixed member list with configurable windowing.
type fakeFetcher struct {
	urls         []string
	total        int
	isWindowed   bool
	fetchAllErr  error
	fetchCalls   int
	incrCalls    [][2]int // recorded (startIndex, count) pairs
	emptyBatches bool
}

func (f *fakeFetcher) Count(_ context.Context, _ string, _ models.Platform) int {
	return f.total
}

func (f *fakeFetcher) FetchAll(_ context.Context, _ string, _ models.Platform) ([]string, error) {
	f.fetchCalls++
	if f.fetchAllErr != nil {
		return nil, f.fetchAllErr
	}
	return f.urls, nil
}

func (f *fakeFetcher) FetchSlice(_ context.Context, _ string, _ models.Platform, offset, limit int) []string {
	return f.slice(offset, limit)
}

func (f *fakeFetcher) VideoURLsIncremental(_ context.Context, _ string, _ models.Platform, startIndex, count int) []string {
	f.incrCalls = append(f.incrCalls, [2]int{startIndex, count})
	if f.emptyBatches {
		return nil
	}
	return f.slice(startIndex, count)
}

func (f *fakeFetcher) Windowed(_ string, _ models.Platform) bool { return f.isWindowed }

func (f *fakeFetcher) slice(offset, limit int) []string {
	if offset >= len(f.urls) {
		return nil
	}
	end := offset + limit
	if end > len(f.urls) {
		end = len(f.urls)
	}
	return f.urls[offset:end]
}

// fakeDownloader succeeds unless the URL is listed in failures.
type fakeDownloader struct {
	failures  map[string]string
	throws    map[string]error
	attempted []string
}

func (d *fakeDownloader) Download(_ context.Context, url string) (*models.DownloadResult, error) {
	d.attempted = append(d.attempted, url)
	if err, ok := d.throws[url]; ok {
		return nil, err
	}
	if msg, ok := d.failures[url]; ok {
		return &models.DownloadResult{Success: false, Error: msg}, nil
	}
	return &models.DownloadResult{
		Success: true,
		Video:   &models.Video{SourceURL: url, Title: "title of " + url, VideoPath: "/videos/" + url + ".mp4"},
	}, nil
}

// fakeInfo returns a fixed title per URL.
type fakeInfo struct {
	titles map[string]string
	calls  int
}

func (i *fakeInfo) GetInfo(_ context.Context, url string) (*models.VideoInfo, error) {
	i.calls++
	title, ok := i.titles[url]
	if !ok {
		return nil, errors.New("no metadata")
	}
	return &models.VideoInfo{Title: title}, nil
}

// fakeCleaner records cleanup invocations.
type fakeCleaner struct {
	calls   []string // baseName values
	removed []string
}

func (c *fakeCleaner) Cleanup(baseName, dir string) ([]string, error) {
	c.calls = append(c.calls, baseName)
	return c.removed, nil
}

// fakeCanceller records cancelled registry IDs.
type fakeCanceller struct {
	cancelled []int64
}

func (c *fakeCanceller) CancelDownload(id int64) bool {
	c.cancelled = append(c.cancelled, id)
	return true
}
