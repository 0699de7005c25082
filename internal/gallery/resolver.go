// Package gallery implements the photo source resolution chain, the per-page
// photo cache and the admin mutation pipeline. Every page load resolves its
// photos through the same strict-priority chain: remote service, then the
// local store, then the compiled-in default album.
package gallery

import (
	"context"

	"github.com/gradgallery/server/internal/models"
	"github.com/gradgallery/server/internal/observability"
)

// Source tags which tier of the chain answered a resolve.
type Source string

const (
	SourceRemote  Source = "remote"
	SourceLocal   Source = "local"
	SourceDefault Source = "default"
)

// Provider is one tier of the fallback chain. Fetch returns the tier's current
// records; an error or an empty result both mean "no data from this source".
type Provider interface {
	Source() Source
	Fetch(ctx context.Context) ([]models.PhotoRecord, error)
}

// Resolver walks an ordered provider list and returns the first non-empty
// answer. Provider faults never propagate: they only advance the chain.
type Resolver struct {
	providers []Provider
}

// NewResolver creates a resolver over the given providers, tried in order.
func NewResolver(providers ...Provider) *Resolver {
	return &Resolver{providers: providers}
}

// Resolve returns the records of the first provider that answers with at
// least one record, tagged with that provider's source. Records are normalized
// before being returned. If every tier comes up empty the default album is
// returned, so callers always get something renderable.
func (r *Resolver) Resolve(ctx context.Context) ([]models.PhotoRecord, Source) {
	log := observability.GetLogger().WithContext(ctx)

	for _, p := range r.providers {
		photos, err := p.Fetch(ctx)
		if err != nil {
			log.Warnf("photo source %s unavailable: %v", p.Source(), err)
			continue
		}
		if len(photos) == 0 {
			continue
		}
		models.NormalizeAll(photos)
		log.Debugf("resolved %d photos from %s", len(photos), p.Source())
		return photos, p.Source()
	}

	return models.DefaultPhotos(), SourceDefault
}
