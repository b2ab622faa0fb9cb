// Package parsing converts loosely formatted upstream values.
package parsing

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// ParseUploadDate parses an upload date as emitted by yt-dlp metadata
// (typically yyyymmdd, but sites vary).
func ParseUploadDate(dateString string) (time.Time, error) {
	if dateString == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	// yt-dlp's native compact form first
	if len(dateString) == 8 {
		if t, err := time.Parse("20060102", dateString); err == nil {
			return t, nil
		}
	}

	t, err := dateparse.ParseAny(dateString)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date: %s", dateString)
	}
	return t, nil
}
