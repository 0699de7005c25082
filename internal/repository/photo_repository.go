package repository

import (
	"context"
	"database/sql"

	"github.com/gradgallery/server/internal/models"
)

// PhotoRepository handles photo record persistence on SQLite.
type PhotoRepository struct {
	db *sql.DB
}

// NewPhotoRepository creates a new PhotoRepository
func NewPhotoRepository(db *sql.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

const photoColumns = "id, src, thumb, title, caption, category, date, upload_date, size, delete_url"

func scanPhoto(row interface{ Scan(...interface{}) error }, photo *models.PhotoRecord) error {
	return row.Scan(
		&photo.ID,
		&photo.Src,
		&photo.Thumb,
		&photo.Title,
		&photo.Caption,
		&photo.Category,
		&photo.Date,
		&photo.UploadDate,
		&photo.Size,
		&photo.DeleteURL,
	)
}

// GetAll retrieves all photo records in insertion order.
func (r *PhotoRepository) GetAll(ctx context.Context) ([]models.PhotoRecord, error) {
	query := `SELECT ` + photoColumns + ` FROM photos ORDER BY upload_date ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	photos := []models.PhotoRecord{}
	for rows.Next() {
		var photo models.PhotoRecord
		if err := scanPhoto(rows, &photo); err != nil {
			return nil, err
		}
		photos = append(photos, photo)
	}

	return photos, rows.Err()
}

// GetByID retrieves a photo by its ID. Returns nil without error when absent.
func (r *PhotoRepository) GetByID(ctx context.Context, id string) (*models.PhotoRecord, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE id = ?`

	var photo models.PhotoRecord
	err := scanPhoto(r.db.QueryRowContext(ctx, query, id), &photo)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &photo, nil
}

// GetCount returns the total number of photo records.
func (r *PhotoRepository) GetCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM photos").Scan(&count)
	return count, err
}

// Add inserts a new photo record.
func (r *PhotoRepository) Add(ctx context.Context, photo *models.PhotoRecord) error {
	query := `
		INSERT INTO photos (` + photoColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		photo.ID,
		photo.Src,
		photo.Thumb,
		photo.Title,
		photo.Caption,
		photo.Category,
		photo.Date,
		photo.UploadDate,
		photo.Size,
		photo.DeleteURL,
	)

	return err
}

// Delete removes a photo record by ID.
func (r *PhotoRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM photos WHERE id = ?", id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// ReplaceAll overwrites the whole collection in one transaction. This is the
// pipeline's only write-back primitive for edits.
func (r *PhotoRepository) ReplaceAll(ctx context.Context, photos []models.PhotoRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM photos"); err != nil {
		return err
	}

	query := `
		INSERT INTO photos (` + photoColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, photo := range photos {
		if _, err := tx.ExecContext(ctx, query,
			photo.ID,
			photo.Src,
			photo.Thumb,
			photo.Title,
			photo.Caption,
			photo.Category,
			photo.Date,
			photo.UploadDate,
			photo.Size,
			photo.DeleteURL,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}
