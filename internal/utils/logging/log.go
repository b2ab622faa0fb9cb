// Package logging provides the leveled printf-style logging helpers used
// across the program, backed by zerolog.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
	"vidarr/internal/domain/consts"

	"github.com/rs/zerolog"
)

// Level gates debug output; D(n, ...) prints only when n < Level.
var Level int

var (
	mu      sync.Mutex
	logger  = newLogger(os.Stderr)
	logFile *os.File
)

func newLogger(w io.Writer) zerolog.Logger {
	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.TimeOnly,
	}
	return zerolog.New(console).With().Timestamp().Logger()
}

// SetupLogging additionally writes log output to the given file path.
func SetupLogging(path string) error {
	mu.Lock()
	defer mu.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %q: %w", path, err)
	}

	logFile = f
	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.TimeOnly,
	}
	fileOut := zerolog.ConsoleWriter{
		Out:        f,
		TimeFormat: time.DateTime,
		NoColor:    true,
	}
	logger = zerolog.New(zerolog.MultiLevelWriter(console, fileOut)).With().Timestamp().Logger()
	return nil
}

// CloseLogFile closes the log file if one was opened.
func CloseLogFile() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// E logs an error message with the caller's location.
func E(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	logger.Error().Str("at", caller()).Msgf(format, args...)
}

// W logs a warning message.
func W(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	logger.Warn().Msgf(format, args...)
}

// I logs an info message.
func I(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	logger.Info().Msgf(format, args...)
}

// S logs a success message.
func S(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	logger.Info().Msgf(consts.ColorGreen+format+consts.ColorReset, args...)
}

// D logs a debug message when the program debug level exceeds l.
func D(l int, format string, args ...any) {
	if l >= Level {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	logger.Debug().Str("at", caller()).Msgf(format, args...)
}

// P prints a plain message with no level tag.
func P(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	logger.Log().Msgf(format, args...)
}

// caller returns "file.go:line" for the logging call site.
func caller() string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}
