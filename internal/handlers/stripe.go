package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"colormybook-backend/internal/models"
	"colormybook-backend/internal/orders"
	"colormybook-backend/internal/services"
	"colormybook-backend/internal/stripe"
)

type StripeHandler struct {
	stripeClient *stripe.Client
	orderService *orders.Service
	bookService  *services.BookService
}

func NewStripeHandler(stripeClient *stripe.Client, orderService *orders.Service, bookService *services.BookService) *StripeHandler {
	return &StripeHandler{
		stripeClient: stripeClient,
		orderService: orderService,
		bookService:  bookService,
	}
}

// CreatePaymentIntent godoc
// @Summary     Create a payment intent
// @Description Creates a processor-side payment intent and returns its client secret
// @Tags        stripe
// @Accept      json
// @Produce     json
// @Param       request body models.CreatePaymentIntentRequest true "Amount in minor units"
// @Success     200 {object} models.PaymentIntentResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /stripe [post]
func (h *StripeHandler) CreatePaymentIntent(c *gin.Context) {
	if h.stripeClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "payment processor not available"})
		return
	}

	var req models.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "amount must be positive"})
		return
	}

	intent, err := h.stripeClient.CreatePaymentIntent(c.Request.Context(), req.Amount, req.Currency, req.OrderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to create payment intent",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.PaymentIntentResponse{ClientSecret: intent.ClientSecret})
}

// ConfirmPayment godoc
// @Summary     Confirm a payment
// @Description Confirms a payment intent with the processor; with an orderId the order is marked paid on success
// @Tags        stripe
// @Accept      json
// @Produce     json
// @Param       request body models.ConfirmPaymentRequest true "Intent and payment method"
// @Success     200 {object} models.ResultResponse
// @Failure     400 {object} models.ResultResponse
// @Failure     500 {object} models.ResultResponse
// @Router      /stripe [put]
func (h *StripeHandler) ConfirmPayment(c *gin.Context) {
	if h.stripeClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "payment processor not available"})
		return
	}

	var req models.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ResultResponse{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	if req.PaymentIntentID == "" {
		c.JSON(http.StatusBadRequest, models.ResultResponse{Success: false, Error: "paymentIntentId is required"})
		return
	}

	if req.OrderID != "" && req.PaymentMethodID != "" {
		orderID, err := uuid.Parse(req.OrderID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ResultResponse{Success: false, Error: "invalid order id"})
			return
		}
		if _, err := h.orderService.ConfirmAndPay(c.Request.Context(), orderID, req.PaymentIntentID, req.PaymentMethodID); err != nil {
			c.JSON(http.StatusBadRequest, models.ResultResponse{Success: false, Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, models.ResultResponse{Success: true})
		return
	}

	// Without a payment method the client has already confirmed through
	// the processor's own SDK; the backend just verifies the intent state.
	var intent *stripe.PaymentIntent
	var err error
	if req.PaymentMethodID != "" {
		intent, err = h.stripeClient.ConfirmPaymentIntent(c.Request.Context(), req.PaymentIntentID, req.PaymentMethodID)
	} else {
		intent, err = h.stripeClient.GetPaymentIntent(c.Request.Context(), req.PaymentIntentID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ResultResponse{Success: false, Error: err.Error()})
		return
	}
	if intent.Status != "succeeded" {
		c.JSON(http.StatusBadRequest, models.ResultResponse{Success: false, Error: "payment intent status is " + intent.Status})
		return
	}

	if req.OrderID != "" {
		orderID, err := uuid.Parse(req.OrderID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ResultResponse{Success: false, Error: "invalid order id"})
			return
		}
		if _, err := h.orderService.MarkPaid(orderID, intent.ID); err != nil {
			c.JSON(http.StatusBadRequest, models.ResultResponse{Success: false, Error: err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, models.ResultResponse{Success: true})
}

// Webhook godoc
// @Summary     Stripe webhook receiver
// @Description Verifies the stripe-signature header, then applies payment_intent events to orders. Unrecognized event types are acknowledged without action.
// @Tags        stripe
// @Accept      json
// @Produce     json
// @Success     200 {object} models.WebhookResponse
// @Failure     400 {object} models.ErrorResponse
// @Router      /stripe/webhook [post]
func (h *StripeHandler) Webhook(c *gin.Context) {
	if h.stripeClient == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "payment processor not available"})
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to read request body"})
		return
	}

	sigHeader := c.GetHeader("Stripe-Signature")
	if sigHeader == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Missing stripe-signature header"})
		return
	}

	event, err := h.stripeClient.ConstructEvent(payload, sigHeader)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "webhook signature verification failed",
			Message: err.Error(),
		})
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		h.applyPaymentEvent(event, true)
	case "payment_intent.payment_failed":
		h.applyPaymentEvent(event, false)
	default:
		// Unrecognized event types are accepted so the processor does not
		// retry them.
		log.Printf("ignoring webhook event type %s", event.Type)
	}

	c.JSON(http.StatusOK, models.WebhookResponse{Received: true})
}

func (h *StripeHandler) applyPaymentEvent(event *stripe.Event, succeeded bool) {
	var intent stripe.EventPaymentIntent
	if err := json.Unmarshal(event.Data.Object, &intent); err != nil {
		log.Printf("failed to decode payment intent from event %s: %v", event.ID, err)
		return
	}

	if intent.Metadata.OrderID == "" {
		log.Printf("event %s carries no order reference, skipping", event.ID)
		return
	}

	orderID, err := uuid.Parse(intent.Metadata.OrderID)
	if err != nil {
		log.Printf("event %s carries invalid order id %q: %v", event.ID, intent.Metadata.OrderID, err)
		return
	}

	if h.bookService == nil {
		return
	}

	if succeeded {
		h.bookService.HandlePaymentSucceeded(orderID, intent.ID)
	} else {
		h.bookService.HandlePaymentFailed(orderID, "payment failed for intent "+intent.ID)
	}
}
