package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhotoRecord(t *testing.T) {
	t.Run("creates record with valid parameters", func(t *testing.T) {
		photo, err := NewPhotoRecord("https://i.ibb.co/abc/graduation.jpg", "Ngày vui", CategoryFriends, 412000, 3)

		require.NoError(t, err)
		assert.NotEmpty(t, photo.ID)
		assert.Equal(t, "https://i.ibb.co/abc/graduation.jpg", photo.Src)
		assert.Equal(t, "Ngày vui", photo.Title)
		assert.Equal(t, "Ngày vui", photo.Caption)
		assert.Equal(t, CategoryFriends, photo.Category)
		assert.Equal(t, int64(412000), photo.Size)
		assert.WithinDuration(t, time.Now().UTC(), photo.UploadDate, time.Second*5)
	})

	t.Run("rejects empty src", func(t *testing.T) {
		_, err := NewPhotoRecord("  ", "caption", CategoryCeremony, 100, 1)
		assert.ErrorIs(t, err, ErrEmptySrc)
	})

	t.Run("rejects non-positive size", func(t *testing.T) {
		_, err := NewPhotoRecord("https://host/img.jpg", "caption", CategoryCeremony, 0, 1)
		assert.ErrorIs(t, err, ErrInvalidFileSize)

		_, err = NewPhotoRecord("https://host/img.jpg", "caption", CategoryCeremony, -5, 1)
		assert.ErrorIs(t, err, ErrInvalidFileSize)
	})

	t.Run("synthesizes title from ordinal when caption empty", func(t *testing.T) {
		photo, err := NewPhotoRecord("https://host/img.jpg", "", CategoryCeremony, 100, 7)

		require.NoError(t, err)
		assert.Equal(t, "Graduation photo 7", photo.Title)
		assert.Empty(t, photo.Caption)
	})

	t.Run("normalizes unknown category to ceremony", func(t *testing.T) {
		photo, err := NewPhotoRecord("https://host/img.jpg", "c", "selfies", 100, 1)

		require.NoError(t, err)
		assert.Equal(t, CategoryCeremony, photo.Category)
	})

	t.Run("generates unique IDs", func(t *testing.T) {
		a, err := NewPhotoRecord("https://host/a.jpg", "a", CategoryCeremony, 1, 1)
		require.NoError(t, err)
		b, err := NewPhotoRecord("https://host/b.jpg", "b", CategoryCeremony, 1, 2)
		require.NoError(t, err)

		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, CategoryCeremony, NormalizeCategory("ceremony"))
	assert.Equal(t, CategoryFriends, NormalizeCategory("friends"))
	assert.Equal(t, CategoryFamily, NormalizeCategory("family"))
	assert.Equal(t, CategoryCeremony, NormalizeCategory(""))
	assert.Equal(t, CategoryCeremony, NormalizeCategory("unknown-value"))
	assert.Equal(t, CategoryCeremony, NormalizeCategory("Friends"))
}

func TestNormalize(t *testing.T) {
	t.Run("fills title from caption", func(t *testing.T) {
		p := PhotoRecord{ID: "x", Src: "images/img-1.jpg", Caption: "lễ tốt nghiệp"}
		p.Normalize(1)
		assert.Equal(t, "lễ tốt nghiệp", p.Title)
	})

	t.Run("fills missing id and title from ordinal", func(t *testing.T) {
		p := PhotoRecord{Src: "images/img-2.jpg"}
		p.Normalize(4)
		assert.Equal(t, "4", p.ID)
		assert.Equal(t, "Graduation photo 4", p.Title)
		assert.Equal(t, CategoryCeremony, p.Category)
	})
}

func TestDefaultPhotos(t *testing.T) {
	t.Run("contains the full bundled album", func(t *testing.T) {
		photos := DefaultPhotos()

		require.Len(t, photos, 13)
		assert.Equal(t, "1", photos[0].ID)
		assert.Equal(t, "images/img-1.jpg", photos[0].Src)
		for i, p := range photos {
			assert.NotEmpty(t, p.Title, "photo %d should have a title", i+1)
			assert.Contains(t, []string{CategoryCeremony, CategoryFriends, CategoryFamily}, p.Category)
		}
	})

	t.Run("returns an independent copy", func(t *testing.T) {
		first := DefaultPhotos()
		first[0].Title = "mutated"

		second := DefaultPhotos()
		assert.NotEqual(t, "mutated", second[0].Title)
	})
}
