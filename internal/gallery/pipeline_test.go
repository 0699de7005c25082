package gallery

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradgallery/server/internal/imagehost"
	"github.com/gradgallery/server/internal/models"
)

// memStore is an in-memory BackingStore with fault injection.
type memStore struct {
	photos  []models.PhotoRecord
	listErr error
	saveErr error
}

func (s *memStore) List(ctx context.Context) ([]models.PhotoRecord, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]models.PhotoRecord, len(s.photos))
	copy(out, s.photos)
	return out, nil
}

func (s *memStore) Replace(ctx context.Context, photos []models.PhotoRecord) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.photos = photos
	return nil
}

func (s *memStore) Clear(ctx context.Context) error {
	return s.Replace(ctx, nil)
}

// storeProvider resolves straight from the memStore, so a pipeline reload
// observes persisted state.
type storeProvider struct {
	store *memStore
}

func (p *storeProvider) Source() Source { return SourceLocal }

func (p *storeProvider) Fetch(ctx context.Context) ([]models.PhotoRecord, error) {
	return p.store.List(ctx)
}

// countingHost fakes the image host and counts calls.
type countingHost struct {
	calls int
	fail  bool
	// rejectName fails only uploads with this name
	rejectName string
}

func (h *countingHost) Upload(ctx context.Context, name string, image []byte) (*imagehost.HostedImage, error) {
	h.calls++
	if h.fail || (h.rejectName != "" && name == h.rejectName) {
		return nil, models.UploadError{Message: "rejected"}
	}
	url := fmt.Sprintf("https://host.example/%s.jpg", name)
	return &imagehost.HostedImage{URL: url, Thumb: url}, nil
}

// fakePrep stubs image inspection.
type fakePrep struct {
	invalid   bool
	takenDate string
}

func (p *fakePrep) Validate(data []byte) error {
	if p.invalid {
		return errors.New("not an image")
	}
	return nil
}

func (p *fakePrep) TakenDate(data []byte) (string, bool) {
	return p.takenDate, p.takenDate != ""
}

func (p *fakePrep) Thumbnail(data []byte) ([]byte, error) {
	return data, nil
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Activity(message string) {
	n.messages = append(n.messages, message)
}

func newTestPipeline(store *memStore, host *countingHost) (*Pipeline, *PageSession, *recordingNotifier) {
	session := NewPageSession(NewResolver(&storeProvider{store: store}))
	notifier := &recordingNotifier{}
	p := NewPipeline(store, host, session, 50, 5*1024*1024).WithNotifier(notifier)
	return p, session, notifier
}

func seedPhotos(n int) []models.PhotoRecord {
	photos := make([]models.PhotoRecord, 0, n)
	for i := 1; i <= n; i++ {
		photos = append(photos, photoFixture(fmt.Sprintf("p%d", i), fmt.Sprintf("Photo %d", i), "ceremony"))
	}
	return photos
}

func TestPipelineUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("persists then refreshes the cache", func(t *testing.T) {
		store := &memStore{}
		host := &countingHost{}
		p, session, notifier := newTestPipeline(store, host)

		photo, err := p.Upload(ctx, UploadInput{
			Filename: "grad.jpg",
			Data:     []byte("image-bytes"),
			Caption:  "Lễ tốt nghiệp",
			Category: "ceremony",
		})
		require.NoError(t, err)
		require.NotNil(t, photo)

		assert.Equal(t, "Lễ tốt nghiệp", photo.Title)
		assert.Contains(t, photo.Src, "graduation_grad")
		require.Len(t, store.photos, 1)

		cached := session.Photos()
		require.Len(t, cached, 1)
		assert.Equal(t, photo.ID, cached[0].ID)

		require.NotEmpty(t, notifier.messages)
		assert.Contains(t, notifier.messages[0], "grad.jpg")
	})

	t.Run("oversized file never reaches the host", func(t *testing.T) {
		store := &memStore{}
		host := &countingHost{}
		p, _, _ := newTestPipeline(store, host)

		big := make([]byte, 6*1024*1024)
		_, err := p.Upload(ctx, UploadInput{Filename: "big.jpg", Data: big})

		assert.ErrorIs(t, err, models.ErrFileTooLarge)
		assert.Equal(t, 0, host.calls)
	})

	t.Run("full album never reaches the host", func(t *testing.T) {
		store := &memStore{photos: seedPhotos(50)}
		host := &countingHost{}
		p, _, _ := newTestPipeline(store, host)

		_, err := p.Upload(ctx, UploadInput{Filename: "one-more.jpg", Data: []byte("x")})

		assert.ErrorIs(t, err, models.ErrTooManyPhotos)
		assert.Equal(t, 0, host.calls)
		assert.Len(t, store.photos, 50, "collection stays unchanged at capacity")
	})

	t.Run("undecodable bytes never reach the host", func(t *testing.T) {
		store := &memStore{}
		host := &countingHost{}
		p, _, _ := newTestPipeline(store, host)
		p.WithPrep(&fakePrep{invalid: true})

		_, err := p.Upload(ctx, UploadInput{Filename: "junk.jpg", Data: []byte("x")})

		assert.ErrorIs(t, err, models.ErrNotAnImage)
		assert.Equal(t, 0, host.calls)
	})

	t.Run("EXIF taken date lands on the record", func(t *testing.T) {
		store := &memStore{}
		p, _, _ := newTestPipeline(store, &countingHost{})
		p.WithPrep(&fakePrep{takenDate: "2024-06-15"})

		photo, err := p.Upload(ctx, UploadInput{Filename: "dated.jpg", Data: []byte("x")})
		require.NoError(t, err)
		assert.Equal(t, "2024-06-15", photo.Date)
	})

	t.Run("host rejection leaves the store untouched", func(t *testing.T) {
		store := &memStore{}
		host := &countingHost{fail: true}
		p, _, _ := newTestPipeline(store, host)

		_, err := p.Upload(ctx, UploadInput{Filename: "nope.jpg", Data: []byte("x")})

		var uploadErr models.UploadError
		require.ErrorAs(t, err, &uploadErr)
		assert.Empty(t, store.photos)
	})

	t.Run("read failure is a persistence error", func(t *testing.T) {
		store := &memStore{listErr: errors.New("disk gone")}
		p, _, _ := newTestPipeline(store, &countingHost{})

		_, err := p.Upload(ctx, UploadInput{Filename: "a.jpg", Data: []byte("x")})

		var persistErr models.PersistenceError
		require.ErrorAs(t, err, &persistErr)
		assert.Equal(t, "read", persistErr.Op)
	})
}

func TestPipelineUploadBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("one failure does not abort the batch", func(t *testing.T) {
		store := &memStore{}
		host := &countingHost{rejectName: "graduation_bad"}
		p, session, _ := newTestPipeline(store, host)

		result := p.UploadBatch(ctx, []UploadInput{
			{Filename: "one.jpg", Data: []byte("1")},
			{Filename: "bad.jpg", Data: []byte("2")},
			{Filename: "three.jpg", Data: []byte("3")},
		})

		assert.Equal(t, 2, result.SuccessCount)
		assert.Equal(t, 1, result.FailCount)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "bad.jpg")

		// Successes persisted in submission order.
		require.Len(t, store.photos, 2)
		assert.Contains(t, store.photos[0].Src, "graduation_one")
		assert.Contains(t, store.photos[1].Src, "graduation_three")
		assert.Len(t, session.Photos(), 2)
	})

	t.Run("empty batch reports nothing", func(t *testing.T) {
		p, _, notifier := newTestPipeline(&memStore{}, &countingHost{})

		result := p.UploadBatch(ctx, nil)

		assert.Zero(t, result.SuccessCount)
		assert.Zero(t, result.FailCount)
		assert.Empty(t, notifier.messages)
	})
}

func TestPipelineEditTitle(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*Pipeline, *PageSession, *memStore) {
		store := &memStore{photos: seedPhotos(3)}
		p, session, _ := newTestPipeline(store, &countingHost{})
		require.NoError(t, session.Init(ctx))
		return p, session, store
	}

	t.Run("writes the whole collection back", func(t *testing.T) {
		p, session, store := setup(t)

		require.NoError(t, p.EditTitle(ctx, "p2", "Renamed"))

		require.Len(t, store.photos, 3)
		assert.Equal(t, "Renamed", store.photos[1].Title)
		assert.Equal(t, "Photo 1", store.photos[0].Title)

		photo, ok := session.Find("p2")
		require.True(t, ok)
		assert.Equal(t, "Renamed", photo.Title)
	})

	t.Run("empty title is a silent no-op", func(t *testing.T) {
		p, _, store := setup(t)

		require.NoError(t, p.EditTitle(ctx, "p1", "   "))
		assert.Equal(t, "Photo 1", store.photos[0].Title)
	})

	t.Run("unchanged title is a silent no-op", func(t *testing.T) {
		p, _, store := setup(t)
		saved := store.photos[0].Title

		require.NoError(t, p.EditTitle(ctx, "p1", saved))
		assert.Equal(t, saved, store.photos[0].Title)
	})

	t.Run("unknown id is a silent no-op", func(t *testing.T) {
		p, _, store := setup(t)

		require.NoError(t, p.EditTitle(ctx, "ghost", "New title"))
		for i, photo := range store.photos {
			assert.Equal(t, fmt.Sprintf("Photo %d", i+1), photo.Title)
		}
	})
}

func TestPipelineDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the record and refreshes", func(t *testing.T) {
		store := &memStore{photos: seedPhotos(3)}
		p, session, _ := newTestPipeline(store, &countingHost{})
		require.NoError(t, session.Init(ctx))

		require.NoError(t, p.Delete(ctx, "p2"))

		require.Len(t, store.photos, 2)
		assert.Equal(t, "p1", store.photos[0].ID)
		assert.Equal(t, "p3", store.photos[1].ID)

		_, ok := session.Find("p2")
		assert.False(t, ok)
	})

	t.Run("missing id is reported", func(t *testing.T) {
		store := &memStore{photos: seedPhotos(2)}
		p, _, _ := newTestPipeline(store, &countingHost{})

		err := p.Delete(ctx, "ghost")

		assert.ErrorIs(t, err, models.ErrPhotoNotFound)
		assert.Len(t, store.photos, 2)
	})
}

func TestPipelineClearAll(t *testing.T) {
	ctx := context.Background()

	store := &memStore{photos: seedPhotos(5)}
	p, session, notifier := newTestPipeline(store, &countingHost{})
	require.NoError(t, session.Init(ctx))

	require.NoError(t, p.ClearAll(ctx))

	assert.Empty(t, store.photos)

	// With the local tier empty the next resolve falls through to the
	// compiled-in album.
	assert.Equal(t, SourceDefault, session.Source())
	assert.Len(t, session.Photos(), 13)

	require.NotEmpty(t, notifier.messages)
	assert.Contains(t, notifier.messages[len(notifier.messages)-1], "Cleared")
}
