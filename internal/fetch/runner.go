package fetch

import (
	"context"
	"fmt"
	"os/exec"
	"vidarr/internal/domain/command"
	"vidarr/internal/models"
	"vidarr/internal/utils/logging"
)

// Runner executes a yt-dlp invocation and returns its stdout. Injected so
// tests never spawn subprocesses.
type Runner interface {
	Run(ctx context.Context, args ...string) ([]byte, error)
}

// YtdlpRunner shells out to yt-dlp, applying the network configuration to
// every call.
type YtdlpRunner struct {
	Net models.NetworkConfig
}

// Run executes yt-dlp with network flags prepended to args.
func (r *YtdlpRunner) Run(ctx context.Context, args ...string) ([]byte, error) {
	full := make([]string, 0, len(args)+8)
	full = append(full, NetworkArgs(r.Net)...)
	full = append(full, args...)

	cmd := exec.CommandContext(ctx, command.YTDLP, full...)
	logging.D(2, "Executing: %s", cmd.String())

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("yt-dlp command failed: %w", err)
	}
	return out, nil
}

// NetworkArgs converts a NetworkConfig into yt-dlp flags.
func NetworkArgs(n models.NetworkConfig) []string {
	args := make([]string, 0, 8)
	if n.Proxy != "" {
		args = append(args, command.ProxyFlag, n.Proxy)
	}
	if n.RateLimit != "" {
		args = append(args, command.LimitRate, n.RateLimit)
	}
	if n.CookiePath != "" {
		args = append(args, command.CookiePath, n.CookiePath)
	} else if n.CookieSource != "" {
		args = append(args, command.CookiesFromBrowser, n.CookieSource)
	}
	return args
}
