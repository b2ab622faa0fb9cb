package cfg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vidarr/internal/app"
	"vidarr/internal/contracts"
	"vidarr/internal/domain/keys"
	"vidarr/internal/models"

	"github.com/spf13/cobra"
)

// startTaskCmd creates and runs a new continuous download task.
func startTaskCmd(ctx context.Context, s contracts.Store) *cobra.Command {
	var url, author string

	cmd := &cobra.Command{
		Use:   "start-task",
		Short: "Start a continuous download task for a collection URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			if url == "" {
				return errors.New("a collection URL is required")
			}
			id, err := app.StartTask(ctx, s, url, author)
			if id != "" {
				fmt.Printf("Task ID: %s\n", id)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&url, keys.TaskURL, "u", "", "Collection URL (channel, playlist, or space)")
	cmd.Flags().StringVarP(&author, keys.TaskAuthor, "a", "", "Author/collection name used for the output directory")
	return cmd
}

// resumeTaskCmd re-runs an interrupted task from its persisted cursor.
func resumeTaskCmd(ctx context.Context, s contracts.Store) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "resume-task",
		Short: "Resume an active task from its last checkpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == "" {
				return errors.New("a task ID is required")
			}
			return app.RunTask(ctx, s, id)
		},
	}

	cmd.Flags().StringVarP(&id, keys.TaskID, "i", "", "Task ID")
	return cmd
}

// cancelTaskCmd cancels a task and cleans up its current item's partial
// artifacts.
func cancelTaskCmd(ctx context.Context, s contracts.Store) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "cancel-task",
		Short: "Cancel a task and clean up partial files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if id == "" {
				return errors.New("a task ID is required")
			}
			return app.CancelTask(ctx, s, id)
		},
	}

	cmd.Flags().StringVarP(&id, keys.TaskID, "i", "", "Task ID")
	return cmd
}

// listTasksCmd prints tasks by status.
func listTasksCmd(s contracts.Store) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list-tasks",
		Short: "List continuous download tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := s.TaskStore().GetTasksByStatus(models.TaskStatus(status))
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Printf("No %s tasks.\n", status)
				return nil
			}

			for _, t := range tasks {
				fmt.Printf("%s  %-9s %s (%s)\n    index %d/%d, %d downloaded, %d skipped, %d failed\n",
					t.ID, t.Platform, t.AuthorURL, t.Status,
					t.CurrentVideoIndex, t.TotalVideos,
					t.DownloadedCount, t.SkippedCount, t.FailedCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", string(models.TaskStatusActive), "Task status to list (active, cancelled, completed, failed)")
	return cmd
}

// historyCmd prints recent download history.
func historyCmd(s contracts.Store) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent download history",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := s.DownloadStore().ListHistory(limit)
			if err != nil {
				return err
			}

			for _, e := range entries {
				line := fmt.Sprintf("%s  %-7s %s", e.CreatedAt.Format(time.DateTime), e.Status, e.SourceURL)
				if e.Status == models.HistoryStatusFailed && e.Error != "" {
					line += "  (" + e.Error + ")"
				} else if e.Title != "" {
					line += "  " + e.Title
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum entries to show")
	return cmd
}
