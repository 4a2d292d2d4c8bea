package ingest_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colormybook-backend/internal/ingest"
	"colormybook-backend/internal/models"
)

// jpegBytes encodes a solid-color JPEG of the given dimensions.
func jpegBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{200, 150, 100, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func TestIngest_RejectsOversizedFile(t *testing.T) {
	data := make([]byte, ingest.MaxFileSize+1)

	_, err := ingest.Ingest("huge.jpg", data, "jpeg")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrFileTooLarge)
	assert.Contains(t, err.Error(), "huge.jpg", "rejection must name the file")
}

func TestIngest_RejectsNonImage(t *testing.T) {
	_, err := ingest.Ingest("readme.txt", []byte("plain text, definitely not pixels"), "jpeg")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotAnImage)
	assert.Contains(t, err.Error(), "readme.txt")
}

func TestIngest_AcceptsJPEG(t *testing.T) {
	img, err := ingest.Ingest("photo.jpg", jpegBytes(t, 100, 80), "jpeg")
	require.NoError(t, err)

	assert.NotEmpty(t, img.ID)
	assert.Equal(t, "photo.jpg", img.Filename)
	assert.Equal(t, "image/jpeg", img.MimeType)
	assert.Equal(t, models.TransformPending, img.State)
	assert.NotEmpty(t, img.OriginalData)
}

func TestDownscale_CapsLongestEdge(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2400, 1200))
	out := ingest.Downscale(img, 1200)

	assert.Equal(t, 1200, out.Bounds().Dx())
	assert.Equal(t, 600, out.Bounds().Dy())
}

func TestDownscale_PortraitAspectPreserved(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 600, 2400))
	out := ingest.Downscale(img, 1200)

	assert.Equal(t, 300, out.Bounds().Dx())
	assert.Equal(t, 1200, out.Bounds().Dy())
}

func TestDownscale_SmallImageUnchanged(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	out := ingest.Downscale(img, 1200)

	assert.Equal(t, img, out)
}

func TestIngest_DownscalesLargePhoto(t *testing.T) {
	large := jpegBytes(t, 2000, 1000)

	img, err := ingest.Ingest("wide.jpg", large, "jpeg")
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(img.OriginalData))
	require.NoError(t, err)
	assert.Equal(t, 1200, decoded.Bounds().Dx())
	assert.Equal(t, 600, decoded.Bounds().Dy())
}
