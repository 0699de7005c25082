package imagehost

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradgallery/server/internal/models"
)

func TestClient_Upload(t *testing.T) {
	t.Run("posts key, image and name as multipart fields", func(t *testing.T) {
		var gotKey, gotName, gotFile string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(10<<20))
			gotKey = r.FormValue("key")
			gotName = r.FormValue("name")

			file, header, err := r.FormFile("image")
			require.NoError(t, err)
			defer file.Close()
			gotFile = header.Filename

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"success": true, "data": {"url": "https://i.host/full.jpg", "thumb": {"url": "https://i.host/thumb.jpg"}, "delete_url": "https://host/del/1"}}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "secret-key", 1, time.Millisecond)
		hosted, err := c.Upload(context.Background(), "graduation_1", []byte("image-bytes"))

		require.NoError(t, err)
		assert.Equal(t, "secret-key", gotKey)
		assert.Equal(t, "graduation_1", gotName)
		assert.Equal(t, "graduation_1", gotFile)
		assert.Equal(t, "https://i.host/full.jpg", hosted.URL)
		assert.Equal(t, "https://i.host/thumb.jpg", hosted.Thumb)
		assert.Equal(t, "https://host/del/1", hosted.DeleteURL)
	})

	t.Run("falls back to full URL when host has no thumb", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"success": true, "data": {"url": "https://i.host/full.jpg"}}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "k", 1, time.Millisecond)
		hosted, err := c.Upload(context.Background(), "n", []byte("x"))

		require.NoError(t, err)
		assert.Equal(t, "https://i.host/full.jpg", hosted.Thumb)
	})

	t.Run("host rejection carries message and is not retried", func(t *testing.T) {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success": false, "error": {"message": "Invalid API key"}}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "k", 3, time.Millisecond)
		_, err := c.Upload(context.Background(), "n", []byte("x"))

		require.Error(t, err)
		var uploadErr models.UploadError
		require.ErrorAs(t, err, &uploadErr)
		assert.Equal(t, "Invalid API key", uploadErr.Message)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries server errors until success", func(t *testing.T) {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Write([]byte(`{"success": true, "data": {"url": "https://i.host/full.jpg"}}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "k", 5, time.Millisecond)
		hosted, err := c.Upload(context.Background(), "n", []byte("x"))

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, "https://i.host/full.jpg", hosted.URL)
	})

	t.Run("gives up after configured attempts", func(t *testing.T) {
		calls := 0
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, "k", 2, time.Millisecond)
		_, err := c.Upload(context.Background(), "n", []byte("x"))

		require.Error(t, err)
		assert.Equal(t, 2, calls)
	})
}
