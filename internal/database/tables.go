package database

import (
	"database/sql"
	"fmt"
)

// initTasksTable initializes the continuous download tasks table.
func initTasksTable(tx *sql.Tx) error {
	query := `
    CREATE TABLE IF NOT EXISTS tasks (
        id TEXT PRIMARY KEY,
        author TEXT,
        author_url TEXT NOT NULL,
        platform TEXT NOT NULL,
        status TEXT NOT NULL CHECK(status IN ('active', 'cancelled', 'completed', 'failed')),
        created_at INTEGER NOT NULL,
        current_video_index INTEGER NOT NULL DEFAULT 0,
        total_videos INTEGER NOT NULL DEFAULT 0,
        downloaded_count INTEGER NOT NULL DEFAULT 0,
        skipped_count INTEGER NOT NULL DEFAULT 0,
        failed_count INTEGER NOT NULL DEFAULT 0
    );
    CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
    CREATE INDEX IF NOT EXISTS idx_tasks_author_url ON tasks(author_url);
    `
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create tasks table: %w", err)
	}
	return nil
}

// initVideosTable initializes the videos table.
func initVideosTable(tx *sql.Tx) error {
	query := `
    CREATE TABLE IF NOT EXISTS videos (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        source_url TEXT NOT NULL UNIQUE,
        title TEXT,
        author TEXT,
        platform TEXT,
        video_path TEXT,
        thumbnail_path TEXT,
        upload_date TIMESTAMP,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );
    CREATE INDEX IF NOT EXISTS idx_videos_source_url ON videos(source_url);
    `
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create videos table: %w", err)
	}
	return nil
}

// initHistoryTable initializes the download history table.
func initHistoryTable(tx *sql.Tx) error {
	query := `
    CREATE TABLE IF NOT EXISTS download_history (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        title TEXT,
        author TEXT,
        source_url TEXT NOT NULL,
        status TEXT NOT NULL CHECK(status IN ('success', 'failed')),
        error_message TEXT,
        video_path TEXT,
        thumbnail_path TEXT,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );
    CREATE INDEX IF NOT EXISTS idx_history_source_url ON download_history(source_url);
    `
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create download history table: %w", err)
	}
	return nil
}

// initActiveDownloadsTable initializes the active download registry table.
func initActiveDownloadsTable(tx *sql.Tx) error {
	query := `
    CREATE TABLE IF NOT EXISTS active_downloads (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        source_url TEXT NOT NULL,
        filename TEXT,
        started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );
    CREATE INDEX IF NOT EXISTS idx_active_downloads_source_url ON active_downloads(source_url);
    `
	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create active downloads table: %w", err)
	}
	return nil
}
