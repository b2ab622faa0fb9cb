package downloads

import (
	"context"
	"sync"

	"vidarr/internal/utils/logging"
)

// Tracker maps active download registry IDs to in-process cancel
// functions, letting the control surface abort an in-flight yt-dlp run.
type Tracker struct {
	cancels sync.Map
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) register(id int64, cancel context.CancelFunc) {
	t.cancels.Store(id, cancel)
}

func (t *Tracker) unregister(id int64) {
	t.cancels.Delete(id)
}

// CancelDownload aborts the download registered under id. Returns false
// when no such download is in flight in this process.
func (t *Tracker) CancelDownload(id int64) bool {
	v, ok := t.cancels.LoadAndDelete(id)
	if !ok {
		logging.D(1, "No in-flight download with ID %d to cancel", id)
		return false
	}
	v.(context.CancelFunc)()
	logging.I("Cancelled in-flight download %d", id)
	return true
}
