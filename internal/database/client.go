package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"colormybook-backend/internal/models"
)

type Client struct {
	db *sql.DB
}

func NewClient(connectionString string) (*Client, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{db: db}, nil
}

func (c *Client) CreateOrder(orderID uuid.UUID, userID string, images []string) (*models.Order, error) {
	imagesJSON, _ := json.Marshal(images)

	var order models.Order
	err := c.db.QueryRow(`
		INSERT INTO orders (id, user_id, images, customization, status, total_price_cents)
		VALUES ($1, $2, $3, '{}', $4, 0)
		RETURNING id, user_id, images, customization, status, total_price_cents, payment_reference, error_message, created_at, updated_at
	`, orderID, userID, imagesJSON, models.OrderPendingCustomization).Scan(
		&order.ID, &order.UserID, &order.Images, &order.Customization, &order.Status,
		&order.TotalPriceCents, &order.PaymentReference, &order.ErrorMessage, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return &order, nil
}

func (c *Client) GetOrder(orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := c.db.QueryRow(`
		SELECT id, user_id, images, customization, status, total_price_cents, payment_reference, error_message, created_at, updated_at
		FROM orders
		WHERE id = $1
	`, orderID).Scan(
		&order.ID, &order.UserID, &order.Images, &order.Customization, &order.Status,
		&order.TotalPriceCents, &order.PaymentReference, &order.ErrorMessage, &order.CreatedAt, &order.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: order %s", models.ErrNotFound, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}

func (c *Client) ListOrders(userID string) ([]models.Order, error) {
	rows, err := c.db.Query(`
		SELECT id, user_id, images, customization, status, total_price_cents, payment_reference, error_message, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		err := rows.Scan(
			&order.ID, &order.UserID, &order.Images, &order.Customization, &order.Status,
			&order.TotalPriceCents, &order.PaymentReference, &order.ErrorMessage, &order.CreatedAt, &order.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	return orders, nil
}

// UpdateCustomization replaces the customization and price wholesale
// (last-write-wins, no optimistic-concurrency check) and advances the
// order to customized.
func (c *Client) UpdateCustomization(orderID uuid.UUID, customization json.RawMessage, totalPriceCents int64) error {
	_, err := c.db.Exec(`
		UPDATE orders
		SET customization = $1, total_price_cents = $2, status = $3, updated_at = NOW()
		WHERE id = $4
	`, customization, totalPriceCents, models.OrderCustomized, orderID)
	return err
}

func (c *Client) MarkOrderPaid(orderID uuid.UUID, paymentReference string) error {
	_, err := c.db.Exec(`
		UPDATE orders
		SET status = $1, payment_reference = $2, updated_at = NOW()
		WHERE id = $3
	`, models.OrderPaid, paymentReference, orderID)
	return err
}

func (c *Client) MarkOrderFailed(orderID uuid.UUID, errorMsg string) error {
	_, err := c.db.Exec(`
		UPDATE orders
		SET status = $1, error_message = $2, updated_at = NOW()
		WHERE id = $3
	`, models.OrderFailed, errorMsg, orderID)
	return err
}

func (c *Client) DeleteOrder(orderID uuid.UUID, userID string) error {
	_, err := c.db.Exec(`
		DELETE FROM orders
		WHERE id = $1 AND user_id = $2
	`, orderID, userID)
	return err
}

func (c *Client) Close() error {
	return c.db.Close()
}
