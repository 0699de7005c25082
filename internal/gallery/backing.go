package gallery

import (
	"context"

	"github.com/gradgallery/server/internal/localstore"
	"github.com/gradgallery/server/internal/models"
	"github.com/gradgallery/server/internal/repository"
)

// LocalBacking writes mutations through the local JSON store (hosting mode).
// Edits in hosting mode are authoritative here and never reach a remote
// service.
type LocalBacking struct {
	store *localstore.Store
}

func NewLocalBacking(store *localstore.Store) *LocalBacking {
	return &LocalBacking{store: store}
}

func (b *LocalBacking) List(ctx context.Context) ([]models.PhotoRecord, error) {
	return b.store.Photos(), nil
}

func (b *LocalBacking) Replace(ctx context.Context, photos []models.PhotoRecord) error {
	return b.store.PutPhotos(photos)
}

func (b *LocalBacking) Clear(ctx context.Context) error {
	return b.store.ClearPhotos()
}

// RepoBacking writes mutations through the document store repository (backend
// mode).
type RepoBacking struct {
	repo repository.PhotoRepo
}

func NewRepoBacking(repo repository.PhotoRepo) *RepoBacking {
	return &RepoBacking{repo: repo}
}

func (b *RepoBacking) List(ctx context.Context) ([]models.PhotoRecord, error) {
	return b.repo.GetAll(ctx)
}

func (b *RepoBacking) Replace(ctx context.Context, photos []models.PhotoRecord) error {
	return b.repo.ReplaceAll(ctx, photos)
}

func (b *RepoBacking) Clear(ctx context.Context) error {
	return b.repo.ReplaceAll(ctx, []models.PhotoRecord{})
}
