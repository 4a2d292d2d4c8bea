package supabase

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"
)

// RealtimeClient publishes book-session progress so the storefront can show
// optimistic "Transforming" state while a remote transform is in flight.
type RealtimeClient struct {
	client *supabase.Client
}

func NewRealtimeClient(client *supabase.Client) *RealtimeClient {
	return &RealtimeClient{
		client: client,
	}
}

func (r *RealtimeClient) PublishEvent(channel string, event string, payload map[string]interface{}) error {
	// The Go client has no direct Realtime publish; database updates on the
	// orders table trigger Realtime automatically. Kept as the single place
	// to add explicit event publishing via the REST API later.
	return nil
}

func (r *RealtimeClient) PublishBookEvent(bookID uuid.UUID, event string, payload map[string]interface{}) error {
	channel := fmt.Sprintf("book:%s", bookID.String())
	return r.PublishEvent(channel, event, payload)
}

// Event payloads
func TransformStartedPayload(bookID uuid.UUID, imageCount int) map[string]interface{} {
	return map[string]interface{}{
		"book_id":     bookID.String(),
		"status":      "transforming",
		"image_count": imageCount,
	}
}

func TransformCompletedPayload(bookID uuid.UUID, doneCount, failedCount int) map[string]interface{} {
	return map[string]interface{}{
		"book_id":      bookID.String(),
		"status":       "transformed",
		"done_count":   doneCount,
		"failed_count": failedCount,
	}
}

func TransformFailedPayload(bookID uuid.UUID, errorMsg string) map[string]interface{} {
	return map[string]interface{}{
		"book_id": bookID.String(),
		"status":  "failed",
		"error":   errorMsg,
	}
}

func PaymentCompletedPayload(bookID uuid.UUID, paymentReference string) map[string]interface{} {
	return map[string]interface{}{
		"book_id":           bookID.String(),
		"status":            "paid",
		"payment_reference": paymentReference,
	}
}
