package sketch

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"colormybook-backend/internal/models"
)

// OpenAIClient calls the OpenAI image-edit endpoint with the fixed
// coloring-book instruction, requesting a single 1024x1024 output.
type OpenAIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type imageEditResponse struct {
	Data []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func NewOpenAIClient(baseURL, apiKey string) *OpenAIClient {
	return &OpenAIClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *OpenAIClient) Name() string { return "openai" }

// Transform submits the image for editing. Rate limits (429) and billing
// failures (402) surface as distinct errors; generic upstream failures are
// retried once before being returned.
func (c *OpenAIClient) Transform(ctx context.Context, imageData []byte) (*Result, error) {
	result, err := c.edit(ctx, imageData)
	if err == nil {
		return result, nil
	}
	// Rate-limit and billing failures are not worth an immediate retry;
	// anything else gets exactly one more attempt.
	if errorsIsAny(err, models.ErrRateLimited, models.ErrBillingFailure) {
		return nil, err
	}
	return c.edit(ctx, imageData)
}

func (c *OpenAIClient) edit(ctx context.Context, imageData []byte) (*Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image", "image.png")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}
	_ = writer.WriteField("prompt", Prompt)
	_ = writer.WriteField("n", "1")
	_ = writer.WriteField("size", "1024x1024")
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	url := c.baseURL + "/images/edits"
	req, err := http.NewRequestWithContext(ctx, "POST", url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", models.ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", models.ErrUpstream, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: status 429, body: %s", models.ErrRateLimited, string(respBody))
	case http.StatusPaymentRequired:
		return nil, fmt.Errorf("%w: status 402, body: %s", models.ErrBillingFailure, string(respBody))
	default:
		return nil, fmt.Errorf("%w: image edit failed: status %d, body: %s", models.ErrUpstream, resp.StatusCode, string(respBody))
	}

	var editResp imageEditResponse
	if err := json.Unmarshal(respBody, &editResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v, body: %s", models.ErrUpstream, err, string(respBody))
	}

	if len(editResp.Data) == 0 {
		return nil, fmt.Errorf("%w: no image in response", models.ErrUpstream)
	}

	if editResp.Data[0].URL != "" {
		return &Result{URL: editResp.Data[0].URL}, nil
	}
	if editResp.Data[0].B64JSON != "" {
		data, err := base64.StdEncoding.DecodeString(editResp.Data[0].B64JSON)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to decode image data: %v", models.ErrUpstream, err)
		}
		return &Result{Data: data, MimeType: "image/png"}, nil
	}
	return nil, fmt.Errorf("%w: response contained neither url nor image data", models.ErrUpstream)
}

func errorsIsAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
