// Package stripe wraps the external card-payment processor. The service
// never owns payment state: it holds only intent references (id, client
// secret) and treats the processor's webhooks as the source of truth.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"colormybook-backend/internal/models"
)

type Client struct {
	baseURL       string
	secretKey     string
	webhookSecret string
	httpClient    *http.Client
}

// PaymentIntent mirrors the processor-owned entity; only the reference
// fields the storefront needs are decoded.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewClient(baseURL, secretKey, webhookSecret string) *Client {
	return &Client{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreatePaymentIntent creates an intent for the given amount in minor units.
// Currency defaults to eur when empty, matching the storefront default.
func (c *Client) CreatePaymentIntent(ctx context.Context, amount int64, currency, orderID string) (*PaymentIntent, error) {
	if currency == "" {
		currency = "eur"
	}

	form := url.Values{}
	form.Set("amount", fmt.Sprintf("%d", amount))
	form.Set("currency", currency)
	if orderID != "" {
		form.Set("metadata[orderId]", orderID)
	}

	return c.postForm(ctx, "/payment_intents", form)
}

// ConfirmPaymentIntent confirms an intent with a payment method reference.
func (c *Client) ConfirmPaymentIntent(ctx context.Context, intentID, paymentMethod string) (*PaymentIntent, error) {
	form := url.Values{}
	if paymentMethod != "" {
		form.Set("payment_method", paymentMethod)
	}

	return c.postForm(ctx, "/payment_intents/"+intentID+"/confirm", form)
}

// GetPaymentIntent fetches the current processor-side state of an intent.
func (c *Client) GetPaymentIntent(ctx context.Context, intentID string) (*PaymentIntent, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/payment_intents/"+intentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	return c.do(req)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) (*PaymentIntent, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*PaymentIntent, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", models.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", models.ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("%w: %s: %s", models.ErrUpstream, apiErr.Error.Type, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("%w: status %d, body: %s", models.ErrUpstream, resp.StatusCode, string(body))
	}

	var intent PaymentIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", models.ErrUpstream, err)
	}

	return &intent, nil
}
