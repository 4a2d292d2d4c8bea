package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Order statuses. The lifecycle is
// pending_customization -> customized -> paid, with failed reachable from
// any non-terminal state. A paid order is immutable except for audit fields.
const (
	OrderPendingCustomization = "pending_customization"
	OrderCustomized           = "customized"
	OrderPaid                 = "paid"
	OrderFailed               = "failed"
)

type Order struct {
	ID               uuid.UUID
	UserID           string
	Images           json.RawMessage
	Customization    json.RawMessage
	Status           string
	TotalPriceCents  int64
	PaymentReference sql.NullString
	ErrorMessage     sql.NullString
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
