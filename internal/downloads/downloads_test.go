package downloads

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseAfterMove(t *testing.T) {
	stdout := "some noise\nafter_move:My Video|Some Uploader|/data/videos/My_Video.mp4\n"

	title, uploader, path, ok := parseAfterMove(stdout)
	if !ok {
		t.Fatal("expected an after_move line to parse")
	}
	if title != "My Video" || uploader != "Some Uploader" || path != "/data/videos/My_Video.mp4" {
		t.Errorf("got (%q, %q, %q)", title, uploader, path)
	}
}

func TestParseAfterMoveKeepsPipesInPath(t *testing.T) {
	// SplitN(3) keeps any later pipes inside the filepath field.
	_, _, path, ok := parseAfterMove("after_move:T|U|/data/we|rd.mp4")
	if !ok || path != "/data/we|rd.mp4" {
		t.Errorf("got (%q, %v)", path, ok)
	}
}

func TestParseAfterMoveMissing(t *testing.T) {
	if _, _, _, ok := parseAfterMove("WARNING: something\n"); ok {
		t.Error("parsed an after_move line from output without one")
	}
}

func TestFindThumbnail(t *testing.T) {
	dir := t.TempDir()
	videoPath := filepath.Join(dir, "clip.mp4")
	thumbPath := filepath.Join(dir, "clip.webp")
	if err := os.WriteFile(thumbPath, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to write thumbnail: %v", err)
	}

	if got := findThumbnail(videoPath); got != thumbPath {
		t.Errorf("got %q, want %q", got, thumbPath)
	}
	if got := findThumbnail(filepath.Join(dir, "other.mp4")); got != "" {
		t.Errorf("got %q for video without thumbnail, want empty", got)
	}
	if got := findThumbnail(""); got != "" {
		t.Errorf("got %q for empty path, want empty", got)
	}
}

func TestTrackerCancel(t *testing.T) {
	tr := NewTracker()

	ctx, cancel := context.WithCancel(context.Background())
	tr.register(7, cancel)

	if !tr.CancelDownload(7) {
		t.Fatal("CancelDownload returned false for a registered download")
	}
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("cancel func was not invoked")
	}

	// A second cancel and unknown IDs are no-ops.
	if tr.CancelDownload(7) {
		t.Error("CancelDownload returned true after the entry was consumed")
	}
	if tr.CancelDownload(999) {
		t.Error("CancelDownload returned true for an unknown ID")
	}
}

func TestIsVideoFile(t *testing.T) {
	if !IsVideoFile("/data/clip.MP4") {
		t.Error("MP4 not recognized as a video file")
	}
	if IsVideoFile("/data/clip.jpg") {
		t.Error("jpg recognized as a video file")
	}
}
