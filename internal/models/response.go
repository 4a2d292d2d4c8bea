package models

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type TransformResponse struct {
	TransformedImage string `json:"transformedImage"`
}

// ResultResponse is the structured success/error shape used for
// persisted-state transitions. Errors never cross this boundary as panics.
type ResultResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type QuoteResponse struct {
	PageCount      int    `json:"page_count"`
	AvailableSlots int    `json:"available_slots"`
	TotalPrice     string `json:"total_price"`
	Warning        string `json:"warning,omitempty"`
}

type BookResponse struct {
	BookID string          `json:"book_id"`
	Status string          `json:"status"`
	Images []UploadedImage `json:"images"`
	Quote  QuoteResponse   `json:"quote"`
	Errors []string        `json:"errors,omitempty"`
}

type OrderResponse struct {
	ID                string                 `json:"order_id"`
	UserID            string                 `json:"user_id"`
	Images            []string               `json:"images"`
	Customization     map[string]interface{} `json:"customization,omitempty"`
	Status            string                 `json:"status"`
	TotalPrice        string                 `json:"total_price"`
	PaymentReference  string                 `json:"payment_reference,omitempty"`
	OrderNumber       string                 `json:"order_number,omitempty"`
	EstimatedDelivery string                 `json:"estimated_delivery,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type WebhookResponse struct {
	Received bool `json:"received"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
