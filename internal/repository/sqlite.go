package repository

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteDB creates and initializes a SQLite database
func NewSQLiteDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	schema := `
	-- Photo records. The backend persists metadata only; image bytes live on
	-- the external host.
	CREATE TABLE IF NOT EXISTS photos (
		id TEXT PRIMARY KEY,
		src TEXT NOT NULL,
		thumb TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL,
		caption TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT 'ceremony',
		date TEXT NOT NULL DEFAULT '',
		upload_date DATETIME NOT NULL,
		size INTEGER NOT NULL DEFAULT 0,
		delete_url TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_photos_upload_date ON photos(upload_date);
	CREATE INDEX IF NOT EXISTS idx_photos_category ON photos(category);
	`

	_, err := db.Exec(schema)
	return err
}
