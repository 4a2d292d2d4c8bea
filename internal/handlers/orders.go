package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"colormybook-backend/internal/book"
	"colormybook-backend/internal/middleware"
	"colormybook-backend/internal/models"
	"colormybook-backend/internal/orders"
)

// deliveryLeadTime is the estimate quoted to customers at order time.
const deliveryLeadTime = 7 * 24 * time.Hour

type OrderHandler struct {
	orderService *orders.Service
}

func NewOrderHandler(orderService *orders.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrder godoc
// @Summary     Create an order in one step
// @Description Creates an order from transformed images and customization; with a payment reference the order is marked paid immediately
// @Tags        orders
// @Accept      json
// @Produce     json
// @Param       request body models.CreateOrderRequest true "Order details"
// @Success     201 {object} models.OrderResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	if h.orderService == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "order service not available"})
		return
	}

	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	userID := middleware.UserID(c, req.UserID)
	if userID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "userId is required"})
		return
	}
	if len(req.Images) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "images are required"})
		return
	}

	// The one-step flow drives the same staged lifecycle a session does:
	// create, customize, then pay. Customization is validated up front so
	// a rejected request never leaves an orphaned order behind.
	custReq, err := customizationFromMap(req.Customization)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid customization",
			Message: err.Error(),
		})
		return
	}
	if verr := validateCustomization(custReq); verr != "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid customization", Message: verr})
		return
	}

	order, err := h.orderService.Create(userID, req.Images)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to create order",
			Message: err.Error(),
		})
		return
	}

	order, err = h.orderService.Customize(order.ID, custReq)
	if err != nil {
		// Inputs were validated already, so this is an infrastructure
		// failure; the order is parked in failed rather than abandoned.
		if ferr := h.orderService.MarkFailed(order.ID, "customization failed: "+err.Error()); ferr != nil {
			log.Printf("failed to mark order %s failed: %v", order.ID, ferr)
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to customize order",
			Message: err.Error(),
		})
		return
	}

	if req.StripePaymentID != "" {
		order, err = h.orderService.MarkPaid(order.ID, req.StripePaymentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "failed to record payment",
				Message: err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusCreated, orderToResponse(order))
}

// ListOrders godoc
// @Summary     List a user's orders
// @Description Returns all orders for the given userId, newest first
// @Tags        orders
// @Produce     json
// @Param       userId query string true "User identifier"
// @Success     200 {object} models.OrderListResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	if h.orderService == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "order service not available"})
		return
	}

	userID := middleware.UserID(c, c.Query("userId"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "userId query parameter is required"})
		return
	}

	list, err := h.orderService.ListByUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list orders",
			Message: err.Error(),
		})
		return
	}

	response := models.OrderListResponse{Orders: make([]models.OrderResponse, 0, len(list))}
	for i := range list {
		response.Orders = append(response.Orders, *orderToResponse(&list[i]))
	}

	c.JSON(http.StatusOK, response)
}

// validateCustomization checks the closed enumerations and quantity.
// Returns an empty string when the request is valid.
func validateCustomization(req models.CustomizeBookRequest) string {
	if !models.ValidFormat(req.Format) {
		return fmt.Sprintf("invalid format %q", req.Format)
	}
	if !models.ValidBinding(req.Binding) {
		return fmt.Sprintf("invalid binding %q", req.Binding)
	}
	if req.Quantity <= 0 {
		return fmt.Sprintf("quantity must be positive (got %d)", req.Quantity)
	}
	return ""
}

func customizationFromMap(m map[string]interface{}) (models.CustomizeBookRequest, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return models.CustomizeBookRequest{}, fmt.Errorf("failed to encode customization: %w", err)
	}
	var req models.CustomizeBookRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return models.CustomizeBookRequest{}, fmt.Errorf("failed to decode customization: %w", err)
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	return req, nil
}

func orderToResponse(order *models.Order) *models.OrderResponse {
	resp := &models.OrderResponse{
		ID:          order.ID.String(),
		UserID:      order.UserID,
		Status:      order.Status,
		TotalPrice:  book.FormatPrice(order.TotalPriceCents),
		OrderNumber: orderNumber(order),
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}

	if len(order.Images) > 0 {
		_ = json.Unmarshal(order.Images, &resp.Images)
	}
	if len(order.Customization) > 0 {
		_ = json.Unmarshal(order.Customization, &resp.Customization)
	}
	if order.PaymentReference.Valid {
		resp.PaymentReference = order.PaymentReference.String
	}
	if order.Status == models.OrderPaid {
		resp.EstimatedDelivery = order.UpdatedAt.Add(deliveryLeadTime).Format("2006-01-02")
	}

	return resp
}

// orderNumber derives the customer-facing reference from the order UUID.
func orderNumber(order *models.Order) string {
	return "CMB-" + strings.ToUpper(strings.ReplaceAll(order.ID.String(), "-", "")[:8])
}
