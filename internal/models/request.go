package models

// TransformImageRequest is the body of POST /images.
// ImageURL must be a base64 data:image URI.
type TransformImageRequest struct {
	ImageURL string `json:"imageUrl"`
}

// CustomizeBookRequest is the body of PUT /books/{book_id}/customization.
type CustomizeBookRequest struct {
	Format   BookFormat `json:"format"`
	Binding  Binding    `json:"binding"`
	Cover    string     `json:"cover,omitempty"`
	Quantity int        `json:"quantity"`
}

// CreateOrderRequest is the body of POST /orders (single-step order creation).
type CreateOrderRequest struct {
	UserID          string                 `json:"userId"`
	Images          []string               `json:"images"`
	Customization   map[string]interface{} `json:"customization"`
	StripePaymentID string                 `json:"stripePaymentId,omitempty"`
}

// CreatePaymentIntentRequest is the body of POST /stripe.
type CreatePaymentIntentRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency,omitempty"`
	OrderID  string `json:"orderId,omitempty"`
}

// ConfirmPaymentRequest is the body of PUT /stripe.
type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId"`
	PaymentMethodID string `json:"paymentMethodId,omitempty"`
	OrderID         string `json:"orderId,omitempty"`
}
