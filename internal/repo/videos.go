package repo

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
	"vidarr/internal/domain/consts"
	"vidarr/internal/models"
	"vidarr/internal/utils/logging"

	"github.com/Masterminds/squirrel"
)

// VideoStore holds a pointer to the sql.DB.
type VideoStore struct {
	DB *sql.DB
}

// GetVideoStore returns a video store instance with injected database.
func GetVideoStore(db *sql.DB) *VideoStore {
	return &VideoStore{
		DB: db,
	}
}

// GetDB returns the database.
func (vs *VideoStore) GetDB() *sql.DB {
	return vs.DB
}

// GetVideoBySourceURL returns the archived video keyed by its exact source
// URL, or hasRows=false when none exists.
func (vs *VideoStore) GetVideoBySourceURL(url string) (v *models.Video, hasRows bool, err error) {
	query := squirrel.
		Select(
			consts.QVidID,
			consts.QVidSourceURL,
			consts.QVidTitle,
			consts.QVidAuthor,
			consts.QVidPlatform,
			consts.QVidVideoPath,
			consts.QVidThumbnailPath,
			consts.QVidUploadDate,
			consts.QVidCreatedAt,
		).
		From(consts.DBVideos).
		Where(squirrel.Eq{consts.QVidSourceURL: url}).
		RunWith(vs.DB)

	v = new(models.Video)
	var uploadDate, createdAt sql.NullTime
	err = query.QueryRow().Scan(
		&v.ID,
		&v.SourceURL,
		&v.Title,
		&v.Author,
		&v.Platform,
		&v.VideoPath,
		&v.ThumbnailPath,
		&uploadDate,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("failed to scan video for URL %q: %w", url, err)
	}

	v.UploadDate = uploadDate.Time
	v.CreatedAt = createdAt.Time
	return v, true, nil
}

// AddVideo adds a new archived video, or returns the existing row's ID if
// the source URL was already recorded.
func (vs *VideoStore) AddVideo(v *models.Video) (videoID int64, err error) {
	if v.SourceURL == "" {
		return 0, errors.New("must enter a source URL for video")
	}

	if existing, hasRows, err := vs.GetVideoBySourceURL(v.SourceURL); err != nil {
		return 0, err
	} else if hasRows {
		logging.D(1, "Video %q already exists in the database with ID %d", v.SourceURL, existing.ID)
		return existing.ID, nil
	}

	query := squirrel.
		Insert(consts.DBVideos).
		Columns(
			consts.QVidSourceURL,
			consts.QVidTitle,
			consts.QVidAuthor,
			consts.QVidPlatform,
			consts.QVidVideoPath,
			consts.QVidThumbnailPath,
			consts.QVidUploadDate,
			consts.QVidCreatedAt,
		).
		Values(
			v.SourceURL,
			v.Title,
			v.Author,
			v.Platform,
			v.VideoPath,
			v.ThumbnailPath,
			v.UploadDate,
			time.Now(),
		).
		RunWith(vs.DB)

	result, err := query.Exec()
	if err != nil {
		return 0, fmt.Errorf("failed to insert video %q: %w", v.SourceURL, err)
	}

	videoID, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted ID for video %q: %w", v.SourceURL, err)
	}

	v.ID = videoID
	logging.D(1, "Inserted video %q with ID %d", v.SourceURL, videoID)
	return videoID, nil
}
