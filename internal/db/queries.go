package db

import (
	"database/sql"
	"errors"

	"github.com/thinktide/seasons/internal/model"
)

// ErrNotOpen is returned by queries made before [Init] or [Open].
var ErrNotOpen = errors.New("database is not open")

// Run operations

// RecordRun inserts a [model.Run] into the run history.
//
// If run.ID is empty a new ULID is assigned to it before the insert, so the caller can refer to the stored row
// afterwards.
//
// Returns an error if the database is not open or the insert fails.
func RecordRun(run *model.Run) error {
	if DB == nil {
		return ErrNotOpen
	}
	if run.ID == "" {
		run.ID = model.NewULID()
	}

	var errText sql.NullString
	if run.Error != "" {
		errText = sql.NullString{String: run.Error, Valid: true}
	}

	_, err := DB.Exec(
		"INSERT INTO runs (id, path, entries, moved, status, error, started_at, finished_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		run.ID, run.Path, run.Entries, run.Moved, run.Status, errText, run.StartedAt, run.FinishedAt)
	return err
}

// ListRunsOptions narrows the rows returned by [ListRuns].
type ListRunsOptions struct {
	Path  string
	Limit int
}

// ListRuns returns recorded runs, newest first.
//
// When opts.Path is set only runs against that path are returned. A positive opts.Limit caps the number of rows.
//
// Returns:
//   - A slice of [model.Run], empty when nothing has been recorded.
//   - An error if the database is not open or the query fails.
func ListRuns(opts ListRunsOptions) ([]model.Run, error) {
	if DB == nil {
		return nil, ErrNotOpen
	}

	query := `
		SELECT id, path, entries, moved, status, COALESCE(error, ''), started_at, finished_at
		FROM runs
		WHERE 1=1`
	args := []interface{}{}

	if opts.Path != "" {
		query += " AND path = ?"
		args = append(args, opts.Path)
	}

	query += " ORDER BY started_at DESC, id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		if err := rows.Scan(&r.ID, &r.Path, &r.Entries, &r.Moved, &r.Status, &r.Error, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetLastRun returns the most recent run against path, or nil if there is none.
func GetLastRun(path string) (*model.Run, error) {
	runs, err := ListRuns(ListRunsOptions{Path: path, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// Config operations

// GetConfig retrieves the configuration value associated with the given key from the database.
//
// An unset key yields an empty string and a nil error.
func GetConfig(key string) (string, error) {
	if DB == nil {
		return "", ErrNotOpen
	}
	var value string
	err := DB.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetConfig saves a persistent key-value pair in the configuration storage.
//
// If the key already exists, its value will be replaced.
func SetConfig(key, value string) error {
	if DB == nil {
		return ErrNotOpen
	}
	_, err := DB.Exec("INSERT OR REPLACE INTO config (key, value) VALUES (?, ?)", key, value)
	return err
}

// ListConfig retrieves all stored configuration data as a map.
func ListConfig() (map[string]string, error) {
	if DB == nil {
		return nil, ErrNotOpen
	}
	rows, err := DB.Query("SELECT key, value FROM config")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		result[k] = v
	}
	return result, rows.Err()
}
