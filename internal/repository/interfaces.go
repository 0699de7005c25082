package repository

import (
	"context"

	"github.com/gradgallery/server/internal/models"
)

// PhotoRepo defines the interface for photo record persistence. ReplaceAll is
// the full-collection overwrite the mutation pipeline writes through; there is
// no partial-update primitive by design.
type PhotoRepo interface {
	GetAll(ctx context.Context) ([]models.PhotoRecord, error)
	GetByID(ctx context.Context, id string) (*models.PhotoRecord, error)
	GetCount(ctx context.Context) (int, error)
	Add(ctx context.Context, photo *models.PhotoRecord) error
	Delete(ctx context.Context, id string) (bool, error)
	ReplaceAll(ctx context.Context, photos []models.PhotoRecord) error
}
