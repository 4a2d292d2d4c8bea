// Package ingest validates uploaded photos and produces downscaled previews.
// It never makes network calls.
package ingest

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"

	"colormybook-backend/internal/models"
)

const (
	// MaxFileSize is the upload cap (10 MiB).
	MaxFileSize = 10 << 20
	// MaxDimension caps the longest edge of the stored preview.
	MaxDimension = 1200
	// JPEGQuality matches the original pipeline's 0.8 encode factor.
	JPEGQuality = 80
	// WebPQuality is used when previews are encoded as WebP.
	WebPQuality = 80
)

// Ingest validates a single uploaded file and produces a downscaled copy.
// The returned image is in Pending transform state; the caller appends it
// to the session's image list.
func Ingest(filename string, data []byte, previewFormat string) (*models.UploadedImage, error) {
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: %q is %d bytes (max %d)", models.ErrFileTooLarge, filename, len(data), MaxFileSize)
	}

	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%w: %q has content type %s", models.ErrNotAnImage, filename, mimeType)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode %q: %v", models.ErrNotAnImage, filename, err)
	}

	preview, err := EncodePreview(Downscale(img, MaxDimension), previewFormat)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preview for %q: %w", filename, err)
	}

	outMime := "image/jpeg"
	if previewFormat == "webp" {
		outMime = "image/webp"
	}

	return &models.UploadedImage{
		ID:           uuid.New().String(),
		Filename:     filename,
		OriginalData: preview,
		MimeType:     outMime,
		State:        models.TransformPending,
	}, nil
}

// Downscale resizes img so its longest edge is at most maxDim, preserving
// aspect ratio. Images already within bounds are returned unchanged.
func Downscale(img image.Image, maxDim int) image.Image {
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
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	for y := 0; y < newHeight; y++ {
		srcY := bounds.Min.Y + y*height/newHeight
		for x := 0; x < newWidth; x++ {
			srcX := bounds.Min.X + x*width/newWidth
			dst.Set(x, y, img.At(srcX, srcY))
		}
	}
	return dst
}

// EncodePreview encodes img in the configured preview format.
func EncodePreview(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "webp":
		options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, WebPQuality)
		if err != nil {
			return nil, fmt.Errorf("failed to create webp encoder options: %w", err)
		}
		if err := webp.Encode(&buf, img, options); err != nil {
			return nil, fmt.Errorf("failed to encode webp: %w", err)
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode jpeg: %w", err)
		}
	}
	return buf.Bytes(), nil
}
