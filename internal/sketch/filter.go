package sketch

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"

	"colormybook-backend/internal/models"
)

// DefaultThreshold is the luminance-delta cutoff of the original filter.
const DefaultThreshold = 30

// LocalFilter approximates a sketch effect with a single pass over the flat
// RGBA pixel buffer. Each pixel's channel average is compared against the
// value already written for the immediately preceding pixel in scan order --
// not the true 2D neighbor, and not that pixel's original luminance. At row
// boundaries the "previous pixel" is the end of the prior row, so output is
// sensitive to image width. Intentionally preserved as-is.
type LocalFilter struct {
	Threshold uint8
	Quality   int
}

func NewLocalFilter() *LocalFilter {
	return &LocalFilter{Threshold: DefaultThreshold, Quality: 80}
}

func (f *LocalFilter) Name() string { return "local" }

func (f *LocalFilter) Transform(_ context.Context, imageData []byte) (*Result, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image: %v", models.ErrNotAnImage, err)
	}

	rgba := toRGBA(img)
	ApplySketch(rgba.Pix, f.Threshold)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, rgba, &jpeg.Options{Quality: f.Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode sketch: %w", err)
	}

	return &Result{Data: buf.Bytes(), MimeType: "image/jpeg"}, nil
}

// ApplySketch runs the edge pass in place over an RGBA byte buffer.
// The first pixel keeps its grayscale average; every subsequent pixel is
// forced to black when |avg - previous output value| exceeds the threshold,
// white otherwise. Alpha is untouched. Deterministic for a given buffer.
func ApplySketch(pix []byte, threshold uint8) {
	for i := 0; i+3 < len(pix); i += 4 {
		avg := uint8((int(pix[i]) + int(pix[i+1]) + int(pix[i+2])) / 3)
		pix[i] = avg
		pix[i+1] = avg
		pix[i+2] = avg

		if i == 0 {
			continue
		}

		// pix[i-4] is the previous pixel's final value (0 or 255 after its
		// own pass), so the comparison chains outputs, not source luminance.
		prev := pix[i-4]
		if absDiff(avg, prev) > threshold {
			pix[i] = 0
			pix[i+1] = 0
			pix[i+2] = 0
		} else {
			pix[i] = 255
			pix[i+1] = 255
			pix[i+2] = 255
		}
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}
