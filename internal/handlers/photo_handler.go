package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gradgallery/server/internal/imagehost"
	"github.com/gradgallery/server/internal/models"
	"github.com/gradgallery/server/internal/observability"
	"github.com/gradgallery/server/internal/repository"
)

// PhotoHandler serves the photo service API consumed by gallery deployments.
type PhotoHandler struct {
	repo          repository.PhotoRepo
	host          *imagehost.Client
	publicBaseURL string
	maxFileSize   int64
}

// NewPhotoHandler creates a new PhotoHandler
func NewPhotoHandler(repo repository.PhotoRepo, host *imagehost.Client, publicBaseURL string, maxFileSize int64) *PhotoHandler {
	return &PhotoHandler{
		repo:          repo,
		host:          host,
		publicBaseURL: publicBaseURL,
		maxFileSize:   maxFileSize,
	}
}

// List returns the full photo collection
func (h *PhotoHandler) List(w http.ResponseWriter, r *http.Request) {
	photos, err := h.repo.GetAll(r.Context())
	if err != nil {
		observability.WithContext(r.Context()).Errorf("listing photos: %v", err)
		respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	respondJSON(w, http.StatusOK, models.PhotoListResponse{
		Success: true,
		Photos:  photos,
		Total:   len(photos),
	})
}

// GetURL returns the hosted URL for a single photo
func (h *PhotoHandler) GetURL(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	photo, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		observability.WithContext(r.Context()).Errorf("fetching photo %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if photo == nil {
		respondError(w, http.StatusNotFound, "Photo not found.")
		return
	}

	respondJSON(w, http.StatusOK, models.PhotoURLResponse{URL: photo.Src})
}

// Upload relays a single photo to the image host and records it
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		respondError(w, http.StatusBadRequest, "Request must be multipart/form-data.")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No file provided or file is empty.")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to read file.")
		return
	}

	if int64(len(content)) > h.maxFileSize {
		respondError(w, http.StatusBadRequest, models.ErrFileTooLarge.Error())
		return
	}
	if !isImageFilename(header.Filename) {
		respondError(w, http.StatusBadRequest, models.ErrNotAnImage.Error())
		return
	}

	hosted, err := h.host.Upload(r.Context(), header.Filename, content)
	if err != nil {
		observability.WithContext(r.Context()).Errorf("hosting photo: %v", err)
		respondError(w, http.StatusBadGateway, "Image host rejected the upload.")
		return
	}

	count, err := h.repo.GetCount(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	photo, err := models.NewPhotoRecord(hosted.URL, header.Filename, "", int64(len(content)), count+1)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	photo.Thumb = hosted.Thumb
	photo.DeleteURL = hosted.DeleteURL

	if err := h.repo.Add(r.Context(), photo); err != nil {
		observability.WithContext(r.Context()).Errorf("recording photo: %v", err)
		respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}

	respondJSON(w, http.StatusOK, models.UploadResponse{
		ID:        photo.ID,
		URL:       photo.Src,
		ShareLink: h.publicBaseURL + "/api/photo/" + photo.ID,
	})
}

// Delete removes a photo from the collection
func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		observability.WithContext(r.Context()).Errorf("deleting photo %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "Database error.")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Photo not found.")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func isImageFilename(name string) bool {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return false
	}
	switch strings.ToLower(name[idx:]) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp":
		return true
	}
	return false
}
