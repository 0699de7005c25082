package repository

import (
	"context"
	"database/sql"

	"github.com/gradgallery/server/internal/models"
)

// PhotoRepositoryPostgres handles photo record persistence on PostgreSQL.
// Same semantics as the SQLite repository, with Postgres placeholders.
type PhotoRepositoryPostgres struct {
	db *sql.DB
}

// NewPhotoRepositoryPostgres creates a new PhotoRepositoryPostgres
func NewPhotoRepositoryPostgres(db *sql.DB) *PhotoRepositoryPostgres {
	return &PhotoRepositoryPostgres{db: db}
}

// GetAll retrieves all photo records in insertion order.
func (r *PhotoRepositoryPostgres) GetAll(ctx context.Context) ([]models.PhotoRecord, error) {
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
func (r *PhotoRepositoryPostgres) GetByID(ctx context.Context, id string) (*models.PhotoRecord, error) {
	query := `SELECT ` + photoColumns + ` FROM photos WHERE id = $1`

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
func (r *PhotoRepositoryPostgres) GetCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM photos").Scan(&count)
	return count, err
}

const pgInsertPhoto = `
	INSERT INTO photos (id, src, thumb, title, caption, category, date, upload_date, size, delete_url)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

// Add inserts a new photo record.
func (r *PhotoRepositoryPostgres) Add(ctx context.Context, photo *models.PhotoRecord) error {
	_, err := r.db.ExecContext(ctx, pgInsertPhoto,
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
func (r *PhotoRepositoryPostgres) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM photos WHERE id = $1", id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// ReplaceAll overwrites the whole collection in one transaction.
func (r *PhotoRepositoryPostgres) ReplaceAll(ctx context.Context, photos []models.PhotoRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM photos"); err != nil {
		return err
	}

	for _, photo := range photos {
		if _, err := tx.ExecContext(ctx, pgInsertPhoto,
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
