// Package cfg provides configuration and command-line interface setup.
package cfg

import (
	"context"
	"strings"

	"vidarr/internal/contracts"
	"vidarr/internal/domain/keys"
	"vidarr/internal/utils/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "vidarr",
	Short: "Vidarr archives videos from remote collections with yt-dlp.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Level = viper.GetInt(keys.DebugLevel)
		if f := viper.GetString(keys.LogFile); f != "" {
			if err := logging.SetupLogging(f); err != nil {
				logging.W("Failed to set up log file: %v", err)
			}
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// InitCommands initializes all commands and their flags.
func InitCommands(ctx context.Context, s contracts.Store) error {
	viper.AutomaticEnv()
	viper.SetEnvPrefix("vidarr")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if err := initProgramFlags(rootCmd); err != nil {
		return err
	}

	rootCmd.AddCommand(
		startTaskCmd(ctx, s),
		resumeTaskCmd(ctx, s),
		cancelTaskCmd(ctx, s),
		listTasksCmd(s),
		historyCmd(s),
	)
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
