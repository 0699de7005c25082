package repository

import (
	"database/sql"

	_ "github.com/lib/pq"
)

// NewPostgresDB creates and initializes a PostgreSQL database connection
func NewPostgresDB(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err := createPostgresTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func createPostgresTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS photos (
		id TEXT PRIMARY KEY,
		src TEXT NOT NULL,
		thumb TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL,
		caption TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT 'ceremony',
		date TEXT NOT NULL DEFAULT '',
		upload_date TIMESTAMP NOT NULL,
		size BIGINT NOT NULL DEFAULT 0,
		delete_url TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_photos_upload_date ON photos(upload_date);
	CREATE INDEX IF NOT EXISTS idx_photos_category ON photos(category);
	`

	_, err := db.Exec(schema)
	return err
}
