package handlers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"colormybook-backend/internal/handlers"
	"colormybook-backend/internal/orders"
	"colormybook-backend/internal/services"
	"colormybook-backend/internal/sketch"
)

func booksRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	orderService := orders.NewService(nil, nil)
	bookService := services.NewBookService(sketch.NewLocalFilter(), orderService, nil, nil, "jpeg")
	handler := handlers.NewBookHandler(bookService, orderService)

	router := gin.New()
	router.POST("/api/v1/books", handler.CreateBook)
	router.DELETE("/api/v1/books/:book_id", handler.DeleteBook)
	return router
}

func postMultipart(t *testing.T, router *gin.Engine, files map[string][]byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, data := range files {
		part, err := writer.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req, _ := http.NewRequest("POST", "/api/v1/books", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateBook_NoFiles(t *testing.T) {
	router := booksRouter()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	require.NoError(t, writer.WriteField("userId", "user-1"))
	require.NoError(t, writer.Close())

	req, _ := http.NewRequest("POST", "/api/v1/books", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no images provided")
}

func TestCreateBook_AllFilesInvalidIsClientError(t *testing.T) {
	router := booksRouter()

	// A batch where nothing validates is the client's fault, not a server
	// failure.
	w := postMultipart(t, router, map[string][]byte{
		"notes.txt": []byte("plain text, definitely not pixels"),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no valid images")
}

func TestDeleteBook_InvalidID(t *testing.T) {
	router := booksRouter()

	req, _ := http.NewRequest("DELETE", "/api/v1/books/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid book id")
}

func TestDeleteBook_DatabaseUnavailable(t *testing.T) {
	router := booksRouter()

	req, _ := http.NewRequest("DELETE", "/api/v1/books/0d4de4f5-93b0-430f-9bf8-03b923804dcd", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "database not available")
}
