package orders

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"colormybook-backend/internal/book"
	"colormybook-backend/internal/database"
	"colormybook-backend/internal/models"
	"colormybook-backend/internal/stripe"
)

// Service drives order transitions against the database and the payment
// processor. All failures come back as errors for the handler to fold into
// a structured {success, error} result; nothing panics across this boundary.
type Service struct {
	db           *database.Client
	stripeClient *stripe.Client
}

func NewService(db *database.Client, stripeClient *stripe.Client) *Service {
	return &Service{db: db, stripeClient: stripeClient}
}

// ready reports whether the service can reach persistent storage. The
// server starts without a database in degraded mode, so every entry point
// checks instead of assuming.
func (s *Service) ready() error {
	if s.db == nil {
		return fmt.Errorf("database not available")
	}
	return nil
}

// Create opens a new order in pending_customization holding the session's
// image URLs. Called on the first successful image batch upload.
func (s *Service) Create(userID string, images []string) (*models.Order, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.db.CreateOrder(uuid.New(), userID, images)
}

func (s *Service) Get(orderID uuid.UUID) (*models.Order, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.db.GetOrder(orderID)
}

func (s *Service) ListByUser(userID string) ([]models.Order, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.db.ListOrders(userID)
}

// Delete removes an order outright. Callers enforce lifecycle rules
// (paid orders stay) before calling.
func (s *Service) Delete(orderID uuid.UUID, userID string) error {
	if err := s.ready(); err != nil {
		return err
	}
	return s.db.DeleteOrder(orderID, userID)
}

// Customize validates the customization against the closed enumerations,
// computes the price from the order's image count, and persists both.
// Valid from pending_customization (and re-runnable from customized while
// the user keeps editing).
func (s *Service) Customize(orderID uuid.UUID, req models.CustomizeBookRequest) (*models.Order, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	order, err := s.db.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != models.OrderPendingCustomization && order.Status != models.OrderCustomized {
		return nil, fmt.Errorf("%w: cannot customize order in status %s", models.ErrInvalidState, order.Status)
	}

	if !models.ValidFormat(req.Format) {
		return nil, fmt.Errorf("invalid format %q", req.Format)
	}
	if !models.ValidBinding(req.Binding) {
		return nil, fmt.Errorf("invalid binding %q", req.Binding)
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive (got %d)", req.Quantity)
	}

	var images []string
	if len(order.Images) > 0 {
		if err := json.Unmarshal(order.Images, &images); err != nil {
			return nil, fmt.Errorf("failed to decode order images: %w", err)
		}
	}

	cfg := models.BookConfiguration{
		Images:   images,
		Size:     models.SizeForFormat(req.Format),
		Format:   req.Format,
		Binding:  req.Binding,
		Cover:    req.Cover,
		Quantity: req.Quantity,
	}

	pages := book.PageCount(len(images))
	totalCents := book.TotalPriceCents(cfg.Size, cfg.Binding, cfg.Quantity, pages)

	customization, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode customization: %w", err)
	}

	if err := s.db.UpdateCustomization(orderID, customization, totalCents); err != nil {
		return nil, fmt.Errorf("failed to save customization: %w", err)
	}

	return s.db.GetOrder(orderID)
}

// MarkPaid records a confirmed payment. The order must have completed
// customization first; a skipped customization step is an invalid-state
// error, not a silent upgrade.
func (s *Service) MarkPaid(orderID uuid.UUID, paymentReference string) (*models.Order, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	order, err := s.db.GetOrder(orderID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(order.Status, models.OrderPaid) {
		return nil, fmt.Errorf("%w: cannot mark order %s paid from status %s", models.ErrInvalidState, orderID, order.Status)
	}

	if err := s.db.MarkOrderPaid(orderID, paymentReference); err != nil {
		return nil, fmt.Errorf("failed to mark order paid: %w", err)
	}

	return s.db.GetOrder(orderID)
}

// MarkFailed moves any non-terminal order to failed.
func (s *Service) MarkFailed(orderID uuid.UUID, reason string) error {
	if err := s.ready(); err != nil {
		return err
	}
	order, err := s.db.GetOrder(orderID)
	if err != nil {
		return err
	}

	if Terminal(order.Status) {
		return fmt.Errorf("%w: order %s is already %s", models.ErrInvalidState, orderID, order.Status)
	}

	return s.db.MarkOrderFailed(orderID, reason)
}

// ConfirmAndPay confirms the payment with the processor and, on success,
// records the reference on the order.
func (s *Service) ConfirmAndPay(ctx context.Context, orderID uuid.UUID, intentID, paymentMethod string) (*models.Order, error) {
	intent, err := s.stripeClient.ConfirmPaymentIntent(ctx, intentID, paymentMethod)
	if err != nil {
		return nil, err
	}
	if intent.Status != "succeeded" {
		return nil, fmt.Errorf("%w: payment intent %s has status %s", models.ErrUpstream, intentID, intent.Status)
	}

	return s.MarkPaid(orderID, intent.ID)
}
