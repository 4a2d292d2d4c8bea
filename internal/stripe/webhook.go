package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Signature verification failures. Verification is a precondition for
// handling a webhook, not a best-effort check: the event body must not be
// parsed until the signature has been accepted.
var (
	ErrMissingSignature = errors.New("missing stripe-signature header")
	ErrInvalidSignature = errors.New("webhook signature verification failed")
)

// DefaultTolerance bounds how old a signed webhook timestamp may be.
const DefaultTolerance = 5 * time.Minute

// Event is a webhook event with its payload left raw; callers decode
// Data.Object only for the event types they recognize.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// EventPaymentIntent is the subset of a payment_intent object the order
// lifecycle needs from payment_intent.* events.
type EventPaymentIntent struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Metadata struct {
		OrderID string `json:"orderId"`
	} `json:"metadata"`
}

// ConstructEvent verifies the stripe-signature header against the raw
// payload and, only then, parses the event. The header carries a unix
// timestamp and one or more v1 signatures: HMAC-SHA256 of "<t>.<payload>"
// keyed with the webhook secret.
func (c *Client) ConstructEvent(payload []byte, sigHeader string) (*Event, error) {
	return constructEvent(payload, sigHeader, c.webhookSecret, time.Now(), DefaultTolerance)
}

func constructEvent(payload []byte, sigHeader, secret string, now time.Time, tolerance time.Duration) (*Event, error) {
	if sigHeader == "" {
		return nil, ErrMissingSignature
	}

	var timestamp int64
	var signatures [][]byte
	for _, pair := range strings.Split(sigHeader, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			continue
		}
		switch parts[0] {
		case "t":
			t, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: malformed timestamp", ErrInvalidSignature)
			}
			timestamp = t
		case "v1":
			sig, err := hex.DecodeString(parts[1])
			if err == nil {
				signatures = append(signatures, sig)
			}
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return nil, fmt.Errorf("%w: header missing t or v1 entries", ErrInvalidSignature)
	}

	if now.Sub(time.Unix(timestamp, 0)) > tolerance {
		return nil, fmt.Errorf("%w: timestamp outside tolerance", ErrInvalidSignature)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := mac.Sum(nil)

	valid := false
	for _, sig := range signatures {
		if hmac.Equal(expected, sig) {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrInvalidSignature
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to parse event: %w", err)
	}

	return &event, nil
}

// SignPayload produces a stripe-signature header value for a payload.
// Used by tests and local webhook replays.
func SignPayload(payload []byte, secret string, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}
