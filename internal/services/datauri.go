package services

import (
	"encoding/base64"
	"fmt"
	"strings"

	"colormybook-backend/internal/models"
)

// DecodeDataURI extracts the raw bytes from a base64 data:image URI.
func DecodeDataURI(uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, "data:image") {
		return nil, fmt.Errorf("%w: not a data:image URI", models.ErrNotAnImage)
	}

	idx := strings.Index(uri, ",")
	if idx < 0 {
		return nil, fmt.Errorf("%w: malformed data URI", models.ErrNotAnImage)
	}

	data, err := base64.StdEncoding.DecodeString(uri[idx+1:])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 payload: %v", models.ErrNotAnImage, err)
	}

	return data, nil
}
