package stripe_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colormybook-backend/internal/stripe"
)

const testSecret = "whsec_test_secret"

func signedClient() *stripe.Client {
	return stripe.NewClient("https://api.stripe.com/v1/", "sk_test_key", testSecret)
}

func TestConstructEvent_ValidSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_123","type":"payment_intent.succeeded","data":{"object":{"id":"pi_123","status":"succeeded","metadata":{"orderId":"abc"}}}}`)
	header := stripe.SignPayload(payload, testSecret, time.Now())

	event, err := signedClient().ConstructEvent(payload, header)
	require.NoError(t, err)
	assert.Equal(t, "evt_123", event.ID)
	assert.Equal(t, "payment_intent.succeeded", event.Type)

	var intent stripe.EventPaymentIntent
	require.NoError(t, json.Unmarshal(event.Data.Object, &intent))
	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "abc", intent.Metadata.OrderID)
}

func TestConstructEvent_MissingHeader(t *testing.T) {
	_, err := signedClient().ConstructEvent([]byte(`{}`), "")
	assert.ErrorIs(t, err, stripe.ErrMissingSignature)
}

func TestConstructEvent_TamperedPayload(t *testing.T) {
	payload := []byte(`{"id":"evt_123","type":"payment_intent.succeeded"}`)
	header := stripe.SignPayload(payload, testSecret, time.Now())

	tampered := []byte(`{"id":"evt_999","type":"payment_intent.succeeded"}`)
	_, err := signedClient().ConstructEvent(tampered, header)
	assert.ErrorIs(t, err, stripe.ErrInvalidSignature)
}

func TestConstructEvent_WrongSecret(t *testing.T) {
	payload := []byte(`{"id":"evt_123","type":"checkout.session.completed"}`)
	header := stripe.SignPayload(payload, "whsec_other_secret", time.Now())

	_, err := signedClient().ConstructEvent(payload, header)
	assert.ErrorIs(t, err, stripe.ErrInvalidSignature)
}

func TestConstructEvent_StaleTimestamp(t *testing.T) {
	payload := []byte(`{"id":"evt_123","type":"payment_intent.succeeded"}`)
	header := stripe.SignPayload(payload, testSecret, time.Now().Add(-10*time.Minute))

	_, err := signedClient().ConstructEvent(payload, header)
	assert.ErrorIs(t, err, stripe.ErrInvalidSignature)
}

func TestConstructEvent_MalformedHeader(t *testing.T) {
	payload := []byte(`{"id":"evt_123"}`)

	_, err := signedClient().ConstructEvent(payload, "garbage")
	assert.ErrorIs(t, err, stripe.ErrInvalidSignature)
}

func TestConstructEvent_UnrecognizedEventType(t *testing.T) {
	// Unknown event types still verify and parse; ignoring them is the
	// handler's decision, not the verifier's.
	payload := []byte(`{"id":"evt_456","type":"customer.subscription.updated","data":{"object":{}}}`)
	header := stripe.SignPayload(payload, testSecret, time.Now())

	event, err := signedClient().ConstructEvent(payload, header)
	require.NoError(t, err)
	assert.Equal(t, "customer.subscription.updated", event.Type)
}
