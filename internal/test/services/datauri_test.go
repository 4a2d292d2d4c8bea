package services_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colormybook-backend/internal/models"
	"colormybook-backend/internal/services"
)

func TestDecodeDataURI(t *testing.T) {
	payload := []byte{0xff, 0xd8, 0xff, 0xe0, 0x01, 0x02}
	uri := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(payload)

	decoded, err := services.DecodeDataURI(uri)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestDecodeDataURI_NotAnImageScheme(t *testing.T) {
	_, err := services.DecodeDataURI("https://example.com/photo.jpg")
	assert.ErrorIs(t, err, models.ErrNotAnImage)

	_, err = services.DecodeDataURI("data:text/plain;base64,aGVsbG8=")
	assert.ErrorIs(t, err, models.ErrNotAnImage)
}

func TestDecodeDataURI_MissingComma(t *testing.T) {
	_, err := services.DecodeDataURI("data:image/jpeg;base64")
	assert.ErrorIs(t, err, models.ErrNotAnImage)
}

func TestDecodeDataURI_BadBase64(t *testing.T) {
	_, err := services.DecodeDataURI("data:image/png;base64,!!!not-base64!!!")
	assert.ErrorIs(t, err, models.ErrNotAnImage)
}
