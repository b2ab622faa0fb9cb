// Package fs removes partial download artifacts from the video output
// directory.
package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"vidarr/internal/domain/consts"
)

// Cleaner removes partial artifacts by base filename.
type Cleaner struct{}

func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Cleanup removes files in dir whose name starts with baseName and ends
// in a partial-artifact suffix. Missing files and a missing directory
// are no-ops, not errors; removal failures are aggregated and returned
// alongside whatever was removed.
func (c *Cleaner) Cleanup(baseName, dir string) ([]string, error) {
	if baseName == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %q: %w", dir, err)
	}

	base := strings.TrimSuffix(baseName, filepath.Ext(baseName))

	var (
		removed []string
		errs    []error
	)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, base) || !isPartialArtifact(name) {
			continue
		}

		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			errs = append(errs, fmt.Errorf("failed to remove artifact %q: %w", path, err))
			continue
		}
		removed = append(removed, path)
	}

	return removed, errors.Join(errs...)
}

// isPartialArtifact reports whether the filename ends in a known partial
// download suffix, including yt-dlp's numbered fragment parts
// (".part-Frag12").
func isPartialArtifact(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range consts.PartialArtifactSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
		if strings.Contains(lower, suffix+"-frag") {
			return true
		}
	}
	return false
}
