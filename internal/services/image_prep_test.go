package services

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jpegFixture(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestImagePrepTakenDate(t *testing.T) {
	prep := NewImagePrepService(300)

	t.Run("no EXIF data", func(t *testing.T) {
		_, ok := prep.TakenDate(jpegFixture(t, 10, 10))
		assert.False(t, ok)
	})

	t.Run("not an image", func(t *testing.T) {
		_, ok := prep.TakenDate([]byte("plain text"))
		assert.False(t, ok)
	})
}

func TestImagePrepThumbnail(t *testing.T) {
	prep := NewImagePrepService(300)

	t.Run("scales down to the bound", func(t *testing.T) {
		thumb, err := prep.Thumbnail(jpegFixture(t, 600, 400))
		require.NoError(t, err)

		cfg, _, err := image.DecodeConfig(bytes.NewReader(thumb))
		require.NoError(t, err)
		assert.Equal(t, 300, cfg.Width)
		assert.Equal(t, 200, cfg.Height)
	})

	t.Run("small images keep their size", func(t *testing.T) {
		thumb, err := prep.Thumbnail(jpegFixture(t, 100, 80))
		require.NoError(t, err)

		cfg, _, err := image.DecodeConfig(bytes.NewReader(thumb))
		require.NoError(t, err)
		assert.Equal(t, 100, cfg.Width)
		assert.Equal(t, 80, cfg.Height)
	})

	t.Run("undecodable input is an error", func(t *testing.T) {
		_, err := prep.Thumbnail([]byte("not an image"))
		assert.Error(t, err)
	})
}

func TestImagePrepDimensions(t *testing.T) {
	prep := NewImagePrepService(300)

	w, h, err := prep.Dimensions(jpegFixture(t, 42, 24))
	require.NoError(t, err)
	assert.Equal(t, 42, w)
	assert.Equal(t, 24, h)
}
