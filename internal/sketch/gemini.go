package sketch

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"colormybook-backend/internal/models"
)

// GeminiTransformer delegates the sketch conversion to a Gemini image model.
// The underlying client is constructed once and shared across requests.
type GeminiTransformer struct {
	client *genai.Client
	model  string
}

func NewGeminiTransformer(ctx context.Context, apiKey, model string) (*GeminiTransformer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiTransformer{client: client, model: model}, nil
}

func (g *GeminiTransformer) Name() string { return "gemini" }

func (g *GeminiTransformer) Close() error {
	return g.client.Close()
}

func (g *GeminiTransformer) Transform(ctx context.Context, imageData []byte) (*Result, error) {
	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx,
		genai.ImageData("jpeg", imageData),
		genai.Text(Prompt),
	)
	if err != nil {
		return nil, classifyGeminiError(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("%w: no candidates returned from gemini", models.ErrUpstream)
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if blob, ok := part.(genai.Blob); ok && strings.HasPrefix(blob.MIMEType, "image/") {
			return &Result{Data: blob.Data, MimeType: blob.MIMEType}, nil
		}
	}

	return nil, fmt.Errorf("%w: gemini response contained no image part", models.ErrUpstream)
}

// classifyGeminiError sorts Gemini failures into the shared taxonomy by
// message inspection; the SDK does not expose typed status errors.
func classifyGeminiError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "resource_exhausted"):
		return fmt.Errorf("%w: %v", models.ErrRateLimited, err)
	case strings.Contains(msg, "quota") || strings.Contains(msg, "billing"):
		return fmt.Errorf("%w: %v", models.ErrBillingFailure, err)
	}
	return fmt.Errorf("%w: %v", models.ErrUpstream, err)
}
