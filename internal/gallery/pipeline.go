package gallery

import (
	"context"
	"fmt"
	"strings"

	"github.com/gradgallery/server/internal/imagehost"
	"github.com/gradgallery/server/internal/models"
	"github.com/gradgallery/server/internal/observability"
)

// BackingStore is the collection the mutation pipeline writes through. There
// is deliberately no append or partial-update primitive: every mutation
// read-modify-writes the whole collection, matching the storage layer's
// actual capabilities.
type BackingStore interface {
	List(ctx context.Context) ([]models.PhotoRecord, error)
	Replace(ctx context.Context, photos []models.PhotoRecord) error
	Clear(ctx context.Context) error
}

// ImageHost uploads image bytes to the external host.
type ImageHost interface {
	Upload(ctx context.Context, name string, image []byte) (*imagehost.HostedImage, error)
}

// ImagePrep inspects upload bytes. Validate gates the upload; the metadata
// derivations are best-effort and never block it.
type ImagePrep interface {
	Validate(data []byte) error
	TakenDate(data []byte) (string, bool)
	Thumbnail(data []byte) ([]byte, error)
}

// Notifier receives human-readable activity messages for the admin feed.
type Notifier interface {
	Activity(message string)
}

// UploadInput is one file submitted to the pipeline.
type UploadInput struct {
	Filename string
	Data     []byte
	Caption  string
	Category string
}

// BatchResult tallies a multi-file upload.
type BatchResult struct {
	SuccessCount int
	FailCount    int
	Photos       []models.PhotoRecord
	Errors       []string
}

// Pipeline runs the admin mutations: upload, edit-title, delete and clear-all.
// Every mutation persists to the backing store first and then refreshes the
// session's snapshot by re-running the resolver; skipping that reload would
// leave the cache diverged from persisted state.
type Pipeline struct {
	store       BackingStore
	host        ImageHost
	session     *PageSession
	prep        ImagePrep
	notify      Notifier
	maxImages   int
	maxFileSize int64
}

// NewPipeline wires the mutation pipeline. prep and notify may be nil.
func NewPipeline(store BackingStore, host ImageHost, session *PageSession, maxImages int, maxFileSize int64) *Pipeline {
	return &Pipeline{
		store:       store,
		host:        host,
		session:     session,
		maxImages:   maxImages,
		maxFileSize: maxFileSize,
	}
}

// WithPrep attaches best-effort image inspection (EXIF date, derived thumbs).
func (p *Pipeline) WithPrep(prep ImagePrep) *Pipeline {
	p.prep = prep
	return p
}

// WithNotifier attaches an activity sink.
func (p *Pipeline) WithNotifier(n Notifier) *Pipeline {
	p.notify = n
	return p
}

func (p *Pipeline) activity(format string, args ...interface{}) {
	if p.notify != nil {
		p.notify.Activity(fmt.Sprintf(format, args...))
	}
}

// reload is the mandatory post-mutation step: re-resolve and replace the
// cache so it matches persisted state again.
func (p *Pipeline) reload(ctx context.Context) error {
	return p.session.Refresh(ctx)
}

// Upload validates, relays the file to the image host, appends the new record
// to the backing store and refreshes the cache. Validation happens before any
// host call: an oversized file or a full album never leaves the process.
func (p *Pipeline) Upload(ctx context.Context, in UploadInput) (*models.PhotoRecord, error) {
	tracer := observability.Tracer()
	ctx, span := tracer.Start(ctx, "pipeline.Upload")
	defer span.End()

	if int64(len(in.Data)) > p.maxFileSize {
		return nil, models.ErrFileTooLarge
	}
	if p.prep != nil {
		if err := p.prep.Validate(in.Data); err != nil {
			return nil, models.ErrNotAnImage
		}
	}

	current, err := p.store.List(ctx)
	if err != nil {
		return nil, models.PersistenceError{Op: "read", Err: err}
	}
	if len(current) >= p.maxImages {
		return nil, models.ErrTooManyPhotos
	}

	hosted, err := p.host.Upload(ctx, hostName(in.Filename), in.Data)
	if err != nil {
		return nil, err
	}

	photo, err := models.NewPhotoRecord(hosted.URL, in.Caption, in.Category, int64(len(in.Data)), len(current)+1)
	if err != nil {
		return nil, err
	}
	photo.Thumb = hosted.Thumb
	photo.DeleteURL = hosted.DeleteURL

	if p.prep != nil {
		if date, ok := p.prep.TakenDate(in.Data); ok {
			photo.Date = date
		}
		// Derive a thumbnail only when the host did not provide one of its own.
		if hosted.Thumb == hosted.URL {
			if thumbBytes, err := p.prep.Thumbnail(in.Data); err == nil {
				if hostedThumb, err := p.host.Upload(ctx, hostName(in.Filename)+"_thumb", thumbBytes); err == nil {
					photo.Thumb = hostedThumb.URL
				}
			}
		}
	}

	updated := append(current, *photo)
	if err := p.store.Replace(ctx, updated); err != nil {
		return nil, models.PersistenceError{Op: "write", Err: err}
	}

	p.activity("📸 Uploaded: %s", in.Filename)

	if err := p.reload(ctx); err != nil {
		return photo, err
	}
	return photo, nil
}

// UploadBatch processes files strictly in submission order. One bad file never
// aborts the batch; the result tallies successes and failures separately.
func (p *Pipeline) UploadBatch(ctx context.Context, items []UploadInput) BatchResult {
	result := BatchResult{}

	for _, item := range items {
		// A nil photo means nothing was persisted; a refresh error after a
		// successful persist still counts as a success.
		photo, err := p.Upload(ctx, item)
		if photo == nil {
			result.FailCount++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", item.Filename, err))
			continue
		}
		result.SuccessCount++
		result.Photos = append(result.Photos, *photo)
	}

	if result.SuccessCount > 0 {
		p.activity("✅ Upload batch finished: %d ok, %d failed", result.SuccessCount, result.FailCount)
	}
	return result
}

// EditTitle changes a record's title in the current cache and writes the
// ENTIRE collection back to the backing store. The store has no targeted
// update, so a full-collection write-back is the contract, not an
// optimization shortcut. Empty or unchanged titles, and unknown ids, are
// silent no-ops.
func (p *Pipeline) EditTitle(ctx context.Context, id, newTitle string) error {
	newTitle = strings.TrimSpace(newTitle)
	if newTitle == "" {
		return nil
	}

	photos := p.session.Photos()
	idx := -1
	for i := range photos {
		if photos[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	if photos[idx].Title == newTitle {
		return nil
	}

	photos[idx].Title = newTitle
	if err := p.store.Replace(ctx, photos); err != nil {
		return models.PersistenceError{Op: "write", Err: err}
	}

	p.activity("✏️ Renamed photo: %s", newTitle)
	return p.reload(ctx)
}

// Delete removes a record from the backing store. A missing id is a reported
// failure, not a fault.
func (p *Pipeline) Delete(ctx context.Context, id string) error {
	current, err := p.store.List(ctx)
	if err != nil {
		return models.PersistenceError{Op: "read", Err: err}
	}

	remaining := make([]models.PhotoRecord, 0, len(current))
	for _, photo := range current {
		if photo.ID != id {
			remaining = append(remaining, photo)
		}
	}
	if len(remaining) == len(current) {
		return models.ErrPhotoNotFound
	}

	if err := p.store.Replace(ctx, remaining); err != nil {
		return models.PersistenceError{Op: "write", Err: err}
	}

	p.activity("🗑️ Deleted 1 photo")
	return p.reload(ctx)
}

// ClearAll destroys the backing collection. The next resolve falls through the
// chain and lands on the default album.
func (p *Pipeline) ClearAll(ctx context.Context) error {
	if err := p.store.Clear(ctx); err != nil {
		return models.PersistenceError{Op: "clear", Err: err}
	}

	p.activity("🗑️ Cleared all photos")
	return p.reload(ctx)
}

// hostName derives the name sent to the image host: a stable prefix plus the
// uploaded filename without its extension.
func hostName(filename string) string {
	base := filename
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	if base == "" {
		base = "photo"
	}
	return "graduation_" + base
}
