// Package imagehost talks to the external image-hosting API. The server never
// keeps image bytes itself: uploads are relayed here and only the returned
// URLs are persisted.
package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/avast/retry-go"

	"github.com/gradgallery/server/internal/models"
)

// HostedImage is the subset of the host response the gallery cares about.
// DeleteURL is opaque pass-through.
type HostedImage struct {
	URL       string
	Thumb     string
	DeleteURL string
}

// hostResponse mirrors the host's upload reply.
type hostResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL   string `json:"url"`
		Thumb struct {
			URL string `json:"url"`
		} `json:"thumb"`
		DeleteURL string `json:"delete_url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client uploads images to the host with retries on transient failures.
type Client struct {
	uploadURL string
	apiKey    string
	attempts  uint
	delay     time.Duration
	http      *http.Client
}

// NewClient creates an image host client. attempts < 1 falls back to a single
// try.
func NewClient(uploadURL, apiKey string, attempts uint, delay time.Duration) *Client {
	if attempts < 1 {
		attempts = 1
	}
	return &Client{
		uploadURL: uploadURL,
		apiKey:    apiKey,
		attempts:  attempts,
		delay:     delay,
		http:      &http.Client{},
	}
}

// Upload posts one image and returns its hosted URLs. Host rejections carry
// the host's own error message and are not retried; transport failures and
// 5xx responses are.
func (c *Client) Upload(ctx context.Context, name string, image []byte) (*HostedImage, error) {
	var hosted *HostedImage

	err := retry.Do(
		func() error {
			result, err := c.uploadOnce(ctx, name, image)
			if err != nil {
				return err
			}
			hosted = result
			return nil
		},
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return hosted, nil
}

func (c *Client) uploadOnce(ctx context.Context, name string, image []byte) (*HostedImage, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("key", c.apiKey); err != nil {
		return nil, err
	}
	part, err := writer.CreateFormFile("image", name)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := writer.WriteField("name", name); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("image host returned status %d", resp.StatusCode)
	}

	var decoded hostResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, retry.Unrecoverable(models.UploadError{Message: "unreadable host response"})
	}

	if resp.StatusCode >= 400 || !decoded.Success {
		msg := decoded.Error.Message
		if msg == "" {
			msg = fmt.Sprintf("host rejected upload with status %d", resp.StatusCode)
		}
		// The host said no; repeating the same bytes will not change its mind.
		return nil, retry.Unrecoverable(models.UploadError{Message: msg})
	}

	thumb := decoded.Data.Thumb.URL
	if thumb == "" {
		thumb = decoded.Data.URL
	}

	return &HostedImage{
		URL:       decoded.Data.URL,
		Thumb:     thumb,
		DeleteURL: decoded.Data.DeleteURL,
	}, nil
}
