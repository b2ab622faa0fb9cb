package repo

import (
	"database/sql"
	"fmt"
	"time"
	"vidarr/internal/domain/consts"
	"vidarr/internal/models"
	"vidarr/internal/utils/logging"

	"github.com/Masterminds/squirrel"
)

// DownloadStore holds a pointer to the sql.DB.
type DownloadStore struct {
	DB *sql.DB
}

// GetDownloadStore returns a download store instance with injected database.
func GetDownloadStore(db *sql.DB) *DownloadStore {
	return &DownloadStore{
		DB: db,
	}
}

// GetDB returns the database.
func (ds *DownloadStore) GetDB() *sql.DB {
	return ds.DB
}

// AddHistoryItem records one download outcome.
func (ds *DownloadStore) AddHistoryItem(e *models.HistoryEntry) error {
	query := squirrel.
		Insert(consts.DBHistory).
		Columns(
			consts.QHistTitle,
			consts.QHistAuthor,
			consts.QHistSourceURL,
			consts.QHistStatus,
			consts.QHistError,
			consts.QHistVideoPath,
			consts.QHistThumbPath,
			consts.QHistCreatedAt,
		).
		Values(
			e.Title,
			e.Author,
			e.SourceURL,
			e.Status,
			e.Error,
			e.VideoPath,
			e.ThumbnailPath,
			time.Now(),
		).
		RunWith(ds.DB)

	if _, err := query.Exec(); err != nil {
		return fmt.Errorf("failed to insert history entry for %q: %w", e.SourceURL, err)
	}
	return nil
}

// ListHistory returns the most recent history entries, newest first.
func (ds *DownloadStore) ListHistory(limit int) ([]*models.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := squirrel.
		Select(
			consts.QHistID,
			consts.QHistTitle,
			consts.QHistAuthor,
			consts.QHistSourceURL,
			consts.QHistStatus,
			consts.QHistError,
			consts.QHistVideoPath,
			consts.QHistThumbPath,
			consts.QHistCreatedAt,
		).
		From(consts.DBHistory).
		OrderBy(consts.QHistID + " DESC").
		Limit(uint64(limit)).
		RunWith(ds.DB)

	rows, err := query.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query download history: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			logging.E("Failed to close history rows: %v", closeErr)
		}
	}()

	var entries []*models.HistoryEntry
	for rows.Next() {
		e := new(models.HistoryEntry)
		var createdAt sql.NullTime
		if err := rows.Scan(
			&e.ID,
			&e.Title,
			&e.Author,
			&e.SourceURL,
			&e.Status,
			&e.Error,
			&e.VideoPath,
			&e.ThumbnailPath,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.CreatedAt = createdAt.Time
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// AddActiveDownload registers an in-flight download so cancel/cleanup can
// find it by source URL.
func (ds *DownloadStore) AddActiveDownload(d *models.ActiveDownload) (int64, error) {
	query := squirrel.
		Insert(consts.DBActiveDownloads).
		Columns(
			consts.QActiveSourceURL,
			consts.QActiveFilename,
			consts.QActiveStartedAt,
		).
		Values(
			d.SourceURL,
			d.Filename,
			time.Now(),
		).
		RunWith(ds.DB)

	result, err := query.Exec()
	if err != nil {
		return 0, fmt.Errorf("failed to register active download for %q: %w", d.SourceURL, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get active download ID for %q: %w", d.SourceURL, err)
	}

	d.ID = id
	return id, nil
}

// RemoveActiveDownload deletes an active download registry entry. Removing
// an entry that is already gone is not an error.
func (ds *DownloadStore) RemoveActiveDownload(id int64) error {
	query := squirrel.
		Delete(consts.DBActiveDownloads).
		Where(squirrel.Eq{consts.QActiveID: id}).
		RunWith(ds.DB)

	if _, err := query.Exec(); err != nil {
		return fmt.Errorf("failed to remove active download %d: %w", id, err)
	}
	return nil
}

// GetDownloadStatus returns all currently registered active downloads.
func (ds *DownloadStore) GetDownloadStatus() ([]*models.ActiveDownload, error) {
	query := squirrel.
		Select(
			consts.QActiveID,
			consts.QActiveSourceURL,
			consts.QActiveFilename,
			consts.QActiveStartedAt,
		).
		From(consts.DBActiveDownloads).
		OrderBy(consts.QActiveID + " ASC").
		RunWith(ds.DB)

	rows, err := query.Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query active downloads: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			logging.E("Failed to close active download rows: %v", closeErr)
		}
	}()

	var active []*models.ActiveDownload
	for rows.Next() {
		d := new(models.ActiveDownload)
		var startedAt sql.NullTime
		if err := rows.Scan(&d.ID, &d.SourceURL, &d.Filename, &startedAt); err != nil {
			return nil, fmt.Errorf("failed to scan active download row: %w", err)
		}
		d.StartedAt = startedAt.Time
		active = append(active, d)
	}

	return active, rows.Err()
}
