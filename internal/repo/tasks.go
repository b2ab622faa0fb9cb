package repo

import (
	"database/sql"
	"errors"
	"fmt"
	"vidarr/internal/domain/consts"
	"vidarr/internal/models"
	"vidarr/internal/utils/logging"

	"github.com/Masterminds/squirrel"
)

// TaskStore holds a pointer to the sql.DB.
type TaskStore struct {
	DB *sql.DB
}

// GetTaskStore returns a task store instance with injected database.
func GetTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{
		DB: db,
	}
}

// GetDB returns the database.
func (ts *TaskStore) GetDB() *sql.DB {
	return ts.DB
}

// CreateTask inserts a new continuous download task.
func (ts *TaskStore) CreateTask(t *models.Task) error {
	if t.AuthorURL == "" {
		return errors.New("must enter a collection URL for task")
	}
	if t.Status == "" {
		t.Status = models.TaskStatusActive
	}

	query := squirrel.
		Insert(consts.DBTasks).
		Columns(
			consts.QTaskID,
			consts.QTaskAuthor,
			consts.QTaskAuthorURL,
			consts.QTaskPlatform,
			consts.QTaskStatus,
			consts.QTaskCreatedAt,
			consts.QTaskCurrentVidIndex,
			consts.QTaskTotalVideos,
			consts.QTaskDownloaded,
			consts.QTaskSkipped,
			consts.QTaskFailed,
		).
		Values(
			t.ID,
			t.Author,
			t.AuthorURL,
			t.Platform,
			t.Status,
			t.CreatedAt,
			t.CurrentVideoIndex,
			t.TotalVideos,
			t.DownloadedCount,
			t.SkippedCount,
			t.FailedCount,
		).
		RunWith(ts.DB)

	if _, err := query.Exec(); err != nil {
		return fmt.Errorf("failed to insert task for %q: %w", t.AuthorURL, err)
	}

	logging.S("Created task %q for collection %q (%s)", t.ID, t.AuthorURL, t.Platform)
	return nil
}

// GetTaskByID returns the task with the given ID, or hasRows=false when no
// such task exists.
func (ts *TaskStore) GetTaskByID(id string) (t *models.Task, hasRows bool, err error) {
	query := squirrel.
		Select(
			consts.QTaskID,
			consts.QTaskAuthor,
			consts.QTaskAuthorURL,
			consts.QTaskPlatform,
			consts.QTaskStatus,
			consts.QTaskCreatedAt,
			consts.QTaskCurrentVidIndex,
			consts.QTaskTotalVideos,
			consts.QTaskDownloaded,
			consts.QTaskSkipped,
			consts.QTaskFailed,
		).
		From(consts.DBTasks).
		Where(squirrel.Eq{consts.QTaskID: id}).
		RunWith(ts.DB)

	t = new(models.Task)
	err = query.QueryRow().Scan(
		&t.ID,
		&t.Author,
		&t.AuthorURL,
		&t.Platform,
		&t.Status,
		&t.CreatedAt,
		&t.CurrentVideoIndex,
		&t.TotalVideos,
		&t.DownloadedCount,
		&t.SkippedCount,
		&t.FailedCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("failed to scan task %q: %w", id, err)
	}

	return t, true, nil
}

// GetTasksByStatus returns all tasks with the given status.
func (ts *TaskStore) GetTasksByStatus(status models.TaskStatus) ([]*models.Task, error) {
	query := squirrel.
		Select(
			consts.QTaskID,
			consts.QTaskAuthor,
			consts.QTaskAuthorURL,
			consts.QTaskPlatform,
			consts.QTaskStatus,
			consts.QTaskCreatedAt,
			consts.QTaskCurrentVidIndex,
			consts.QTaskTotalVideos,
			consts.QTaskDownloaded,
			consts.QTaskSkipped,
			consts.QTaskFailed,
		).
		From(consts.DBTasks).
		Where(squirrel.Eq{consts.QTaskStatus: status}).
		OrderBy(consts.QTaskCreatedAt + " ASC").
		RunWith(ts.DB)

	rows, err := query.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks with status %q: %w", status, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			logging.E("Failed to close task rows: %v", closeErr)
		}
	}()

	var tasks []*models.Task
	for rows.Next() {
		t := new(models.Task)
		if err := rows.Scan(
			&t.ID,
			&t.Author,
			&t.AuthorURL,
			&t.Platform,
			&t.Status,
			&t.CreatedAt,
			&t.CurrentVideoIndex,
			&t.TotalVideos,
			&t.DownloadedCount,
			&t.SkippedCount,
			&t.FailedCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, t)
	}

	return tasks, rows.Err()
}

// UpdateTotalVideos persists a revised best-effort member count.
func (ts *TaskStore) UpdateTotalVideos(id string, n int) error {
	query := squirrel.
		Update(consts.DBTasks).
		Set(consts.QTaskTotalVideos, n).
		Where(squirrel.Eq{consts.QTaskID: id}).
		RunWith(ts.DB)

	if _, err := query.Exec(); err != nil {
		return fmt.Errorf("failed to update total videos for task %q: %w", id, err)
	}
	return nil
}

// UpdateProgress persists the advanced cursor and outcome counts as one
// atomic update. This is the resumability checkpoint: a task is only safe
// to resume past an item once this has landed.
func (ts *TaskStore) UpdateProgress(id string, p models.TaskProgress) error {
	query := squirrel.
		Update(consts.DBTasks).
		Set(consts.QTaskCurrentVidIndex, p.CurrentVideoIndex).
		Set(consts.QTaskDownloaded, p.DownloadedCount).
		Set(consts.QTaskSkipped, p.SkippedCount).
		Set(consts.QTaskFailed, p.FailedCount).
		Where(squirrel.Eq{consts.QTaskID: id}).
		RunWith(ts.DB)

	if _, err := query.Exec(); err != nil {
		return fmt.Errorf("failed to update progress for task %q: %w", id, err)
	}
	return nil
}

// CompleteTask marks an active task completed. Tasks externally cancelled
// mid-run stay cancelled.
func (ts *TaskStore) CompleteTask(id string) error {
	return ts.setStatus(id, models.TaskStatusCompleted, models.TaskStatusActive)
}

// CancelTask marks a task cancelled. The running processor observes this
// at its next liveness check.
func (ts *TaskStore) CancelTask(id string) error {
	return ts.setStatus(id, models.TaskStatusCancelled, models.TaskStatusActive)
}

// FailTask marks a task failed. Only external actors call this; the
// processor never transitions to failed on its own.
func (ts *TaskStore) FailTask(id string) error {
	return ts.setStatus(id, models.TaskStatusFailed, models.TaskStatusActive)
}

// setStatus transitions a task from one status to another.
func (ts *TaskStore) setStatus(id string, to, from models.TaskStatus) error {
	query := squirrel.
		Update(consts.DBTasks).
		Set(consts.QTaskStatus, to).
		Where(squirrel.Eq{
			consts.QTaskID:     id,
			consts.QTaskStatus: from,
		}).
		RunWith(ts.DB)

	result, err := query.Exec()
	if err != nil {
		return fmt.Errorf("failed to set task %q status to %q: %w", id, to, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		logging.D(1, "Task %q not transitioned to %q (not %q anymore)", id, to, from)
	}
	return nil
}
