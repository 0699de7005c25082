package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gradgallery/server/internal/gallery"
	"github.com/gradgallery/server/internal/localstore"
	"github.com/gradgallery/server/internal/models"
	"github.com/gradgallery/server/internal/observability"
)

// GalleryHandler serves the public gallery pages. Each request resolves a
// fresh snapshot: the resolver chain decides which tier answers, exactly as a
// page load would.
type GalleryHandler struct {
	resolver *gallery.Resolver
	store    *localstore.Store
	metrics  *observability.GalleryMetrics
}

// NewGalleryHandler creates a new GalleryHandler
func NewGalleryHandler(resolver *gallery.Resolver, store *localstore.Store, metrics *observability.GalleryMetrics) *GalleryHandler {
	return &GalleryHandler{
		resolver: resolver,
		store:    store,
		metrics:  metrics,
	}
}

// GetPhotos resolves and returns the gallery, optionally filtered by category.
// A view=shared query marks the response as opened from a share link.
func (h *GalleryHandler) GetPhotos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	session := gallery.NewPageSession(h.resolver)
	if err := session.Init(ctx); err != nil {
		observability.WithContext(ctx).Errorf("initializing gallery session: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load gallery.")
		return
	}

	if err := h.store.IncrementViews(); err != nil {
		observability.WithContext(ctx).Warnf("bumping view counter: %v", err)
	}
	if h.metrics != nil {
		h.metrics.RecordView(ctx)
		h.metrics.RecordResolve(ctx, string(session.Source()))
	}

	category := r.URL.Query().Get("category")
	photos := session.Filter(category)
	shared := r.URL.Query().Get("view") == "shared"

	respondJSON(w, http.StatusOK, models.GalleryResponse{
		Success: true,
		Source:  string(session.Source()),
		Shared:  shared,
		Photos:  photos,
		Total:   len(photos),
	})
}

// GetPhoto returns a single resolved photo by id
func (h *GalleryHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	session := gallery.NewPageSession(h.resolver)
	if err := session.Init(ctx); err != nil {
		observability.WithContext(ctx).Errorf("initializing gallery session: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to load gallery.")
		return
	}

	photo, ok := session.Find(id)
	if !ok {
		respondError(w, http.StatusNotFound, "Photo not found.")
		return
	}

	respondJSON(w, http.StatusOK, photo)
}
