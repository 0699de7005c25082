package gallery

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradgallery/server/internal/models"
)

// blockingProvider blocks Fetch until released, for exercising the in-flight
// guard.
type blockingProvider struct {
	source  Source
	entered chan struct{}
	release chan struct{}
	photos  []models.PhotoRecord
	once    sync.Once
}

func (p *blockingProvider) Source() Source { return p.source }

func (p *blockingProvider) Fetch(ctx context.Context) ([]models.PhotoRecord, error) {
	p.once.Do(func() { close(p.entered) })
	<-p.release
	return p.photos, nil
}

func TestPageSessionInit(t *testing.T) {
	t.Run("first init resolves and flips the guard", func(t *testing.T) {
		provider := &fakeProvider{source: SourceLocal, photos: []models.PhotoRecord{
			photoFixture("1", "One", "ceremony"),
		}}
		session := NewPageSession(NewResolver(provider))

		assert.False(t, session.Initialized())
		require.NoError(t, session.Init(context.Background()))

		assert.True(t, session.Initialized())
		assert.Equal(t, SourceLocal, session.Source())
		assert.Equal(t, 1, provider.calls)
	})

	t.Run("second init is a no-op", func(t *testing.T) {
		provider := &fakeProvider{source: SourceLocal, photos: []models.PhotoRecord{
			photoFixture("1", "One", "ceremony"),
		}}
		session := NewPageSession(NewResolver(provider))

		require.NoError(t, session.Init(context.Background()))
		require.NoError(t, session.Init(context.Background()))

		assert.Equal(t, 1, provider.calls)
	})
}

func TestPageSessionRefresh(t *testing.T) {
	t.Run("refresh replaces the snapshot wholesale", func(t *testing.T) {
		provider := &fakeProvider{source: SourceLocal, photos: []models.PhotoRecord{
			photoFixture("1", "One", "ceremony"),
			photoFixture("2", "Two", "friends"),
		}}
		session := NewPageSession(NewResolver(provider))
		require.NoError(t, session.Init(context.Background()))

		provider.photos = []models.PhotoRecord{photoFixture("3", "Three", "family")}
		require.NoError(t, session.Refresh(context.Background()))

		photos := session.Photos()
		require.Len(t, photos, 1)
		assert.Equal(t, "3", photos[0].ID)
	})

	t.Run("overlapping refresh is rejected", func(t *testing.T) {
		provider := &blockingProvider{
			source:  SourceLocal,
			entered: make(chan struct{}),
			release: make(chan struct{}),
			photos:  []models.PhotoRecord{photoFixture("1", "One", "ceremony")},
		}
		session := NewPageSession(NewResolver(provider))

		done := make(chan error, 1)
		go func() {
			done <- session.Refresh(context.Background())
		}()

		<-provider.entered
		assert.ErrorIs(t, session.Refresh(context.Background()), ErrResolveInFlight)

		close(provider.release)
		require.NoError(t, <-done)
	})

	t.Run("photos returns an independent copy", func(t *testing.T) {
		provider := &fakeProvider{source: SourceLocal, photos: []models.PhotoRecord{
			photoFixture("1", "One", "ceremony"),
		}}
		session := NewPageSession(NewResolver(provider))
		require.NoError(t, session.Init(context.Background()))

		first := session.Photos()
		first[0].Title = "mutated"

		assert.Equal(t, "One", session.Photos()[0].Title)
	})
}

func TestPageSessionFilter(t *testing.T) {
	provider := &fakeProvider{source: SourceLocal, photos: []models.PhotoRecord{
		photoFixture("1", "One", "ceremony"),
		photoFixture("2", "Two", "friends"),
		photoFixture("3", "Three", "friends"),
		photoFixture("4", "Four", "family"),
	}}
	session := NewPageSession(NewResolver(provider))
	require.NoError(t, session.Init(context.Background()))

	t.Run("empty category returns everything", func(t *testing.T) {
		assert.Len(t, session.Filter(""), 4)
	})

	t.Run("all returns everything", func(t *testing.T) {
		assert.Len(t, session.Filter("all"), 4)
	})

	t.Run("named category restricts", func(t *testing.T) {
		friends := session.Filter("friends")
		require.Len(t, friends, 2)
		assert.Equal(t, "2", friends[0].ID)
		assert.Equal(t, "3", friends[1].ID)
	})

	t.Run("unknown category is empty", func(t *testing.T) {
		assert.Empty(t, session.Filter("vacation"))
	})
}

func TestPageSessionFind(t *testing.T) {
	provider := &fakeProvider{source: SourceLocal, photos: []models.PhotoRecord{
		photoFixture("1", "One", "ceremony"),
	}}
	session := NewPageSession(NewResolver(provider))
	require.NoError(t, session.Init(context.Background()))

	photo, ok := session.Find("1")
	require.True(t, ok)
	assert.Equal(t, "One", photo.Title)

	_, ok = session.Find("nope")
	assert.False(t, ok)
}

func TestPageSessionCategoryCounts(t *testing.T) {
	provider := &fakeProvider{source: SourceLocal, photos: []models.PhotoRecord{
		photoFixture("1", "One", "ceremony"),
		photoFixture("2", "Two", "friends"),
		photoFixture("3", "Three", "family"),
		photoFixture("4", "Four", "family"),
	}}
	session := NewPageSession(NewResolver(provider))
	require.NoError(t, session.Init(context.Background()))

	stats := session.CategoryCounts()
	assert.Equal(t, models.CategoryStats{Ceremony: 1, Friends: 1, Family: 2}, stats)
}
