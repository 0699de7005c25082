package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Photo categories. Anything else is folded into ceremony.
const (
	CategoryCeremony = "ceremony"
	CategoryFriends  = "friends"
	CategoryFamily   = "family"
)

// PhotoRecord is the single entity of the gallery: metadata for one hosted
// image. Src is an absolute URL when the record came through the upload path
// and a relative path into the bundled asset set for default photos. Thumb and
// DeleteURL are opaque pass-through values from the image host.
type PhotoRecord struct {
	ID         string    `json:"id"`
	Src        string    `json:"src"`
	Thumb      string    `json:"thumb,omitempty"`
	Title      string    `json:"title"`
	Caption    string    `json:"caption,omitempty"`
	Category   string    `json:"category"`
	Date       string    `json:"date,omitempty"`
	UploadDate time.Time `json:"uploadDate"`
	Size       int64     `json:"size,omitempty"`
	DeleteURL  string    `json:"deleteUrl,omitempty"`
}

// NewPhotoRecord creates a record for a freshly hosted image. ordinal is the
// 1-based position the record will take in the collection and is only used to
// synthesize a title when the caption is empty.
func NewPhotoRecord(src, caption, category string, size int64, ordinal int) (*PhotoRecord, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrEmptySrc
	}
	if size <= 0 {
		return nil, ErrInvalidFileSize
	}

	title := strings.TrimSpace(caption)
	if title == "" {
		title = fmt.Sprintf("Graduation photo %d", ordinal)
	}

	return &PhotoRecord{
		ID:         uuid.New().String(),
		Src:        src,
		Title:      title,
		Caption:    caption,
		Category:   NormalizeCategory(category),
		UploadDate: time.Now().UTC(),
		Size:       size,
	}, nil
}

// NormalizeCategory maps unknown or missing categories to ceremony.
func NormalizeCategory(category string) string {
	switch category {
	case CategoryCeremony, CategoryFriends, CategoryFamily:
		return category
	default:
		return CategoryCeremony
	}
}

// Normalize repairs a record read from any source so internal code never
// branches on field presence: the category is forced into the known set and
// the title falls back to the caption or an auto-numbered label. ordinal is
// the record's 1-based position in its collection.
func (p *PhotoRecord) Normalize(ordinal int) {
	p.Category = NormalizeCategory(p.Category)
	if strings.TrimSpace(p.Title) == "" {
		if strings.TrimSpace(p.Caption) != "" {
			p.Title = p.Caption
		} else {
			p.Title = fmt.Sprintf("Graduation photo %d", ordinal)
		}
	}
	if p.ID == "" {
		p.ID = fmt.Sprintf("%d", ordinal)
	}
}

// NormalizeAll applies Normalize to every record in order.
func NormalizeAll(photos []PhotoRecord) {
	for i := range photos {
		photos[i].Normalize(i + 1)
	}
}

// Errors

// PhotoError is a typed value error for photo operations.
type PhotoError struct {
	Message string
}

func (e PhotoError) Error() string {
	return e.Message
}

var (
	ErrEmptySrc        = PhotoError{"photo source URL cannot be empty"}
	ErrInvalidFileSize = PhotoError{"file size must be positive"}
	ErrPhotoNotFound   = PhotoError{"photo not found"}
	ErrFileTooLarge    = PhotoError{"file size exceeds maximum allowed"}
	ErrTooManyPhotos   = PhotoError{"photo count limit reached"}
	ErrNotAnImage      = PhotoError{"file is not a decodable image"}
)

// UploadError carries the image host's failure message for one file.
type UploadError struct {
	Message string
}

func (e UploadError) Error() string {
	return "upload failed: " + e.Message
}

// PersistenceError wraps a backing-store read or write failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e PersistenceError) Error() string {
	return "store " + e.Op + " failed: " + e.Err.Error()
}

func (e PersistenceError) Unwrap() error {
	return e.Err
}
