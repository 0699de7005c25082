package models

import "time"

// PhotoListResponse is returned by GET /api/photos.
type PhotoListResponse struct {
	Success bool          `json:"success"`
	Photos  []PhotoRecord `json:"photos"`
	Total   int           `json:"total"`
}

// PhotoURLResponse is returned by GET /api/photo/{id}.
type PhotoURLResponse struct {
	URL string `json:"url"`
}

// UploadResponse is returned by POST /api/upload.
type UploadResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	ShareLink string `json:"shareLink"`
}

// GalleryResponse is the resolved snapshot served to the gallery pages. Source
// names the tier that answered: remote, local or default.
type GalleryResponse struct {
	Success bool          `json:"success"`
	Source  string        `json:"source"`
	Shared  bool          `json:"shared,omitempty"`
	Photos  []PhotoRecord `json:"photos"`
	Total   int           `json:"total"`
}

// BatchUploadResponse tallies a multi-file upload. Failed uploads never abort
// the batch; Errors holds one message per failed file in submission order.
type BatchUploadResponse struct {
	Success      bool          `json:"success"`
	SuccessCount int           `json:"successCount"`
	FailCount    int           `json:"failCount"`
	Photos       []PhotoRecord `json:"photos"`
	Errors       []string      `json:"errors,omitempty"`
}

// CategoryStats holds per-category photo counts.
type CategoryStats struct {
	Ceremony int `json:"ceremony"`
	Friends  int `json:"friends"`
	Family   int `json:"family"`
}

// StatsResponse is the admin statistics view.
type StatsResponse struct {
	TotalPhotos     int           `json:"totalPhotos"`
	TotalViews      int           `json:"totalViews"`
	EstimatedSizeMB float64       `json:"estimatedSizeMb"`
	Categories      CategoryStats `json:"categories"`
	LastUpdate      time.Time     `json:"lastUpdate"`
}

// ActivityEntry is one line of the admin activity feed.
type ActivityEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// AccessLogEntry is one line of the admin access log.
type AccessLogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	IP        string    `json:"ip,omitempty"`
}

// LoginRequest is the admin login body.
type LoginRequest struct {
	Password string `json:"password"`
}

// EditTitleRequest is the admin title-edit body.
type EditTitleRequest struct {
	Title string `json:"title"`
}

// HealthResponse is returned by health check.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorResponse is returned on errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
