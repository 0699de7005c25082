package services

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// ImagePrepService derives metadata and thumbnails from uploaded image bytes.
// Everything here is best effort: an image without EXIF or in a format the
// decoder does not know is not an error for the caller.
type ImagePrepService struct {
	maxThumbDim  int
	thumbQuality int
}

// NewImagePrepService creates an ImagePrepService with the given thumbnail
// bound. A non-positive maxThumbDim falls back to 300.
func NewImagePrepService(maxThumbDim int) *ImagePrepService {
	if maxThumbDim <= 0 {
		maxThumbDim = 300
	}
	return &ImagePrepService{maxThumbDim: maxThumbDim, thumbQuality: 80}
}

// Validate confirms the bytes decode as a known image format.
func (s *ImagePrepService) Validate(data []byte) error {
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("decoding image config: %w", err)
	}
	return nil
}

// TakenDate extracts the EXIF capture date as YYYY-MM-DD. The second return
// is false when the image carries no usable EXIF date.
func (s *ImagePrepService) TakenDate(data []byte) (string, bool) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return "", false
	}
	tm, err := x.DateTime()
	if err != nil {
		return "", false
	}
	return tm.Format("2006-01-02"), true
}

// Thumbnail decodes the image, scales it to fit the configured bound and
// re-encodes it as JPEG.
func (s *ImagePrepService) Thumbnail(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	resized := resizeToFit(img, s.maxThumbDim)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: s.thumbQuality}); err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// Dimensions returns the pixel width and height of the image.
func (s *ImagePrepService) Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("decoding image config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// resizeToFit scales the image so its longer side equals maxDim, keeping the
// aspect ratio. Images already within the bound are returned untouched.
func resizeToFit(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width <= maxDim && height <= maxDim {
		return img
	}

	var newWidth, newHeight int
	if width > height {
		newWidth = maxDim
		newHeight = height * maxDim / width
	} else {
		newHeight = maxDim
		newWidth = width * maxDim / height
	}

	return imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
}
