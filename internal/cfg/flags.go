package cfg

import (
	"fmt"

	"vidarr/internal/domain/keys"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initProgramFlags sets the persistent program-wide flags and binds them
// into viper.
func initProgramFlags(rootCmd *cobra.Command) error {
	rootCmd.PersistentFlags().StringP(keys.VideoDir, "o", ".", "Directory for downloaded videos")
	rootCmd.PersistentFlags().String(keys.DBPath, "vidarr.db", "Path to the program database")
	rootCmd.PersistentFlags().IntP(keys.DebugLevel, "d", 0, "Debugging level (0 - 5)")
	rootCmd.PersistentFlags().String(keys.LogFile, "", "Also write logs to this file")

	rootCmd.PersistentFlags().String(keys.CookieSource, "", "Browser to grab cookies from for sites requiring authentication (e.g. firefox)")
	rootCmd.PersistentFlags().String(keys.CookiePath, "", "Path to a Netscape cookie file for yt-dlp")
	rootCmd.PersistentFlags().String(keys.Proxy, "", "Proxy URL for yt-dlp traffic")
	rootCmd.PersistentFlags().String(keys.RateLimit, "", "Download rate limit (e.g. 4M)")

	rootCmd.PersistentFlags().Bool(keys.SyncEnabled, false, "Sync finished archives to S3-compatible storage")
	rootCmd.PersistentFlags().String(keys.SyncBucket, "", "Sync target bucket")
	rootCmd.PersistentFlags().String(keys.SyncPrefix, "", "Key prefix inside the sync bucket")
	rootCmd.PersistentFlags().String(keys.SyncRegion, "", "Sync bucket region")
	rootCmd.PersistentFlags().String(keys.SyncEndpoint, "", "Custom S3-compatible endpoint")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("failed to bind persistent flags: %w", err)
	}
	return nil
}
