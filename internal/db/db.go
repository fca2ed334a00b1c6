package db

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

var DB *sql.DB

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    path TEXT NOT NULL,
    entries INTEGER NOT NULL DEFAULT 0,
    moved INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL,
    error TEXT,
    started_at DATETIME NOT NULL,
    finished_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS runs_path ON runs (path, started_at);

CREATE TABLE IF NOT EXISTS config (
    key TEXT PRIMARY KEY,
    value TEXT
);
`

// GetDataDir returns the directory holding the sekki database. SEKKI_HOME
// overrides the default of ~/.sekki.
func GetDataDir() (string, error) {
	if dir := os.Getenv("SEKKI_HOME"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".sekki"), nil
}

func Init() error {
	dataDir, err := GetDataDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}

	return Open(filepath.Join(dataDir, "sekki.db"))
}

// Open connects DB to the database file at dbPath and applies the schema.
// Times are stored in SQLite's own text format so they sort lexically.
func Open(dbPath string) error {
	conn, err := sql.Open("sqlite", dbPath+"?_time_format=sqlite")
	if err != nil {
		return err
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return err
	}

	DB = conn
	return nil
}

func Close() error {
	if DB != nil {
		err := DB.Close()
		DB = nil
		return err
	}
	return nil
}
