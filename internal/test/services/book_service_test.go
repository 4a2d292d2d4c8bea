package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colormybook-backend/internal/services"
	"colormybook-backend/internal/sketch"
)

func TestProcessBatch_AllInvalidFiles(t *testing.T) {
	svc := services.NewBookService(sketch.NewLocalFilter(), nil, nil, nil, "jpeg")

	result, err := svc.ProcessBatch(context.Background(), "user-1", []services.UploadedFile{
		{Filename: "notes.txt", Data: []byte("plain text")},
		{Filename: "huge.jpg", Data: make([]byte, 11<<20)},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrNoValidImages)
	assert.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "notes.txt")
	assert.Contains(t, result.Errors[1], "huge.jpg")
	assert.Nil(t, result.Order)
}
