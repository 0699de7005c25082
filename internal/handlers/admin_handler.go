package handlers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gradgallery/server/internal/gallery"
	"github.com/gradgallery/server/internal/localstore"
	"github.com/gradgallery/server/internal/middleware"
	"github.com/gradgallery/server/internal/models"
	"github.com/gradgallery/server/internal/observability"
	"github.com/gradgallery/server/internal/services"
)

// AdminHandler serves the admin panel API: authentication, the mutation
// pipeline operations, statistics and the audit surfaces.
type AdminHandler struct {
	pipeline    *gallery.Pipeline
	session     *gallery.PageSession
	store       *localstore.Store
	sessions    *middleware.SessionStore
	password    *middleware.PasswordChecker
	hub         *services.WebSocketHub
	metrics     *observability.GalleryMetrics
	maxFileSize int64
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	pipeline *gallery.Pipeline,
	session *gallery.PageSession,
	store *localstore.Store,
	sessions *middleware.SessionStore,
	password *middleware.PasswordChecker,
	hub *services.WebSocketHub,
	metrics *observability.GalleryMetrics,
	maxFileSize int64,
) *AdminHandler {
	return &AdminHandler{
		pipeline:    pipeline,
		session:     session,
		store:       store,
		sessions:    sessions,
		password:    password,
		hub:         hub,
		metrics:     metrics,
		maxFileSize: maxFileSize,
	}
}

// Login verifies the admin password and issues a session cookie
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if !h.password.Check(req.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid password.")
		return
	}

	token := h.sessions.Create()
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logout revokes the current session
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		h.sessions.Revoke(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// UploadPhotos pushes a batch of files through the mutation pipeline. Files
// are processed in submission order; one failure never aborts the batch.
func (h *AdminHandler) UploadPhotos(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxFileSize * 4); err != nil {
		respondError(w, http.StatusBadRequest, "Request must be multipart/form-data.")
		return
	}

	files := r.MultipartForm.File["photos"]
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, "No files provided.")
		return
	}

	caption := r.FormValue("caption")
	category := r.FormValue("category")

	var items []gallery.UploadInput
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Cannot read %s.", header.Filename))
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Cannot read %s.", header.Filename))
			return
		}

		items = append(items, gallery.UploadInput{
			Filename: header.Filename,
			Data:     data,
			Caption:  caption,
			Category: category,
		})
	}

	result := h.pipeline.UploadBatch(r.Context(), items)

	if h.metrics != nil {
		for range result.Photos {
			h.metrics.RecordUpload(r.Context(), category)
		}
		for i := 0; i < result.FailCount; i++ {
			h.metrics.RecordUploadFailure(r.Context())
		}
	}
	if h.hub != nil && result.SuccessCount > 0 {
		h.hub.Broadcast(services.WSMessage{Type: services.WSTypePhotoUploaded, Payload: result.Photos})
	}

	respondJSON(w, http.StatusOK, models.BatchUploadResponse{
		Success:      result.FailCount == 0,
		SuccessCount: result.SuccessCount,
		FailCount:    result.FailCount,
		Photos:       result.Photos,
		Errors:       result.Errors,
	})
}

// EditTitle renames a photo
func (h *AdminHandler) EditTitle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.EditTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := h.pipeline.EditTitle(r.Context(), id, req.Title); err != nil {
		h.respondPipelineError(w, r, "editing title", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// DeletePhoto removes a photo through the pipeline
func (h *AdminHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.pipeline.Delete(r.Context(), id); err != nil {
		h.respondPipelineError(w, r, "deleting photo", err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordDelete(r.Context())
	}
	if h.hub != nil {
		h.hub.Broadcast(services.WSMessage{Type: services.WSTypePhotoDeleted, Payload: map[string]string{"id": id}})
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ClearAll wipes the photo collection
func (h *AdminHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.pipeline.ClearAll(r.Context()); err != nil {
		h.respondPipelineError(w, r, "clearing gallery", err)
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(services.WSMessage{Type: services.WSTypeGalleryCleared})
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Stats returns collection statistics for the dashboard
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	photos := h.session.Photos()
	stats := h.store.Stats()

	respondJSON(w, http.StatusOK, models.StatsResponse{
		TotalPhotos: len(photos),
		TotalViews:  stats.Views,
		// Hosted images are not sized individually; 0.5MB per photo is the
		// working estimate the dashboard has always shown.
		EstimatedSizeMB: float64(len(photos)) * 0.5,
		Categories:      h.session.CategoryCounts(),
		LastUpdate:      stats.LastUpdate,
	})
}

// Activities returns the recent activity feed, most recent first
func (h *AdminHandler) Activities(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Activities())
}

// AccessLogs returns the admin access audit trail
func (h *AdminHandler) AccessLogs(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.AccessLogs())
}

// Export downloads the photo collection as JSON or CSV
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	photos := h.session.Photos()
	stamp := time.Now().UTC().Format("2006-01-02")

	switch r.URL.Query().Get("format") {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=gallery-%s.csv", stamp))

		cw := csv.NewWriter(w)
		cw.Write([]string{"id", "title", "caption", "category", "date", "src"})
		for _, p := range photos {
			cw.Write([]string{p.ID, p.Title, p.Caption, p.Category, p.Date, p.Src})
		}
		cw.Flush()

	default:
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=gallery-%s.json", stamp))
		respondJSON(w, http.StatusOK, photos)
	}
}

func (h *AdminHandler) respondPipelineError(w http.ResponseWriter, r *http.Request, op string, err error) {
	observability.WithContext(r.Context()).Errorf("%s: %v", op, err)

	var persistErr models.PersistenceError
	switch {
	case errors.Is(err, models.ErrPhotoNotFound):
		respondError(w, http.StatusNotFound, "Photo not found.")
	case errors.Is(err, models.ErrFileTooLarge), errors.Is(err, models.ErrTooManyPhotos):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &persistErr):
		respondError(w, http.StatusInternalServerError, "Storage error.")
	default:
		respondError(w, http.StatusInternalServerError, "Operation failed.")
	}
}
