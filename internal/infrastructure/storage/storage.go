package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Storage provides SQLite-backed persistence for settings and import runs.
// It implements the Store interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Store
var _ Store = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	// Run all pending migrations
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// GetSetting retrieves a setting by key. The bool reports key presence, so
// an empty stored string is distinguishable from a missing key.
func (s *Storage) GetSetting(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetSetting stores a setting, replacing any existing value for the key.
func (s *Storage) SetSetting(key, value string) error {
	query := `
	INSERT INTO settings (key, value, updated_at)
	VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	_, err := s.db.Exec(query, key, value)
	return err
}

// StartImportRun records the start of an import run and returns the run ID.
func (s *Storage) StartImportRun(jobID, sourceName, sourceType string, sourceSize int64) (int64, error) {
	query := `
	INSERT INTO import_runs (job_id, source_name, source_type, source_size, status)
	VALUES (?, ?, ?, ?, ?)
	`
	result, err := s.db.Exec(query, jobID, sourceName, sourceType, sourceSize, RunStatusRunning)
	if err != nil {
		return 0, fmt.Errorf("failed to start import run: %w", err)
	}
	return result.LastInsertId()
}

// CompleteImportRun records the completion of an import run.
func (s *Storage) CompleteImportRun(runID int64, itemsFound int, status, errorMessage string) error {
	query := `
	UPDATE import_runs
	SET completed_at = CURRENT_TIMESTAMP,
	    items_found = ?,
	    status = ?,
	    error_message = ?
	WHERE id = ?
	`
	_, err := s.db.Exec(query, itemsFound, status, errorMessage, runID)
	return err
}

// ListImportRuns returns recent import runs, newest first.
func (s *Storage) ListImportRuns(limit int) ([]ImportRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
	SELECT id, job_id, source_name, source_type, source_size,
	       started_at, completed_at, items_found, status, error_message
	FROM import_runs
	ORDER BY started_at DESC, id DESC
	LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []ImportRun
	for rows.Next() {
		run, err := scanImportRun(rows.Scan)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// GetImportRun retrieves an import run by ID. Returns nil when no run with
// that ID exists.
func (s *Storage) GetImportRun(runID int64) (*ImportRun, error) {
	query := `
	SELECT id, job_id, source_name, source_type, source_size,
	       started_at, completed_at, items_found, status, error_message
	FROM import_runs
	WHERE id = ?
	`

	run, err := scanImportRun(s.db.QueryRow(query, runID).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// scanImportRun reads one import_runs row using the given scan function.
func scanImportRun(scan func(...any) error) (*ImportRun, error) {
	run := &ImportRun{}
	var completedAt sql.NullString
	var errorMessage sql.NullString

	err := scan(
		&run.ID,
		&run.JobID,
		&run.SourceName,
		&run.SourceType,
		&run.SourceSize,
		&run.StartedAt,
		&completedAt,
		&run.ItemsFound,
		&run.Status,
		&errorMessage,
	)
	if err != nil {
		return nil, err
	}

	if completedAt.Valid {
		run.CompletedAt = completedAt.String
	}
	if errorMessage.Valid {
		run.ErrorMessage = errorMessage.String
	}

	return run, nil
}
