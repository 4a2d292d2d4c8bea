// Package sketch converts photographs into high-contrast line-art pages.
// Two strategy families satisfy the same contract: a local per-pixel edge
// filter and remote generative image-edit APIs.
package sketch

import "context"

// Prompt is the fixed instruction sent to remote strategies.
const Prompt = "Convert this image to a black and white line drawing suitable for a coloring book. Make the lines bold and clear, remove all colors and shading."

// Result is the outcome of a transform. Local strategies return Data;
// remote strategies may return a hosted URL instead.
type Result struct {
	Data     []byte
	URL      string
	MimeType string
}

// Transformer converts raster image bytes into line-art output.
type Transformer interface {
	// Transform is a blocking call; an abandoned request simply has its
	// result discarded. There is no cancellation beyond ctx.
	Transform(ctx context.Context, imageData []byte) (*Result, error)
	Name() string
}
