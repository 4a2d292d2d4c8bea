package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"colormybook-backend/internal/book"
	"colormybook-backend/internal/middleware"
	"colormybook-backend/internal/models"
	"colormybook-backend/internal/orders"
	"colormybook-backend/internal/services"
)

type BookHandler struct {
	bookService  *services.BookService
	orderService *orders.Service
}

func NewBookHandler(bookService *services.BookService, orderService *orders.Service) *BookHandler {
	return &BookHandler{
		bookService:  bookService,
		orderService: orderService,
	}
}

// CreateBook godoc
// @Summary     Upload a photo batch and start a book
// @Description Accepts multipart image files, transforms each into a sketch, stores both renditions, and opens an order awaiting customization
// @Tags        books
// @Accept      multipart/form-data
// @Produce     json
// @Param       images formData file true "Photos to include (repeatable)"
// @Param       userId formData string false "User identifier; falls back to the authenticated subject"
// @Success     201 {object} models.BookResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	if h.bookService == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "book service not available"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid multipart form",
			Message: err.Error(),
		})
		return
	}

	fileHeaders := form.File["images"]
	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "no images provided"})
		return
	}

	userID := middleware.UserID(c, c.PostForm("userId"))
	if userID == "" {
		userID = "anonymous"
	}

	files := make([]services.UploadedFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "failed to read uploaded file",
				Message: err.Error(),
			})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "failed to read uploaded file",
				Message: err.Error(),
			})
			return
		}
		files = append(files, services.UploadedFile{Filename: fh.Filename, Data: data})
	}

	result, err := h.bookService.ProcessBatch(c.Request.Context(), userID, files)
	if err != nil {
		// A batch where every file failed validation is the client's
		// fault; storage or order-creation failures are ours.
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrNoValidImages) {
			status = http.StatusBadRequest
		}
		c.JSON(status, models.ErrorResponse{
			Error:   "failed to process batch",
			Message: err.Error(),
		})
		return
	}

	response := models.BookResponse{
		Status: models.OrderPendingCustomization,
		Images: result.Images,
		Errors: result.Errors,
	}
	if result.Order != nil {
		response.BookID = result.Order.ID.String()
		response.Status = result.Order.Status
		response.Quote = book.QuoteOrder(result.Order)
	}

	c.JSON(http.StatusCreated, response)
}

// GetBook godoc
// @Summary     Get a book by ID
// @Description Returns the order backing a book session, with its current quote
// @Tags        books
// @Produce     json
// @Param       book_id path string true "Book ID (UUID)"
// @Success     200 {object} models.BookResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /books/{book_id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	if h.orderService == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "order service not available"})
		return
	}

	bookID, err := uuid.Parse(c.Param("book_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid book id"})
		return
	}

	order, err := h.orderService.Get(bookID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to load book",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.BookResponse{
		BookID: order.ID.String(),
		Status: order.Status,
		Quote:  book.QuoteOrder(order),
	})
}

// DeleteBook godoc
// @Summary     Delete a book
// @Description Removes the book's stored renditions and the order behind it. Paid orders cannot be deleted.
// @Tags        books
// @Produce     json
// @Param       book_id path string true "Book ID (UUID)"
// @Success     200 {object} models.ResultResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /books/{book_id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	if h.bookService == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "book service not available"})
		return
	}

	bookID, err := uuid.Parse(c.Param("book_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid book id"})
		return
	}

	if err := h.bookService.DeleteBook(bookID); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "book not found"})
		case errors.Is(err, models.ErrInvalidState):
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "book cannot be deleted",
				Message: err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "failed to delete book",
				Message: err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, models.ResultResponse{Success: true})
}

// Customize godoc
// @Summary     Customize a book
// @Description Sets format, binding, cover and quantity, recomputes the price, and moves the order to customized
// @Tags        books
// @Accept      json
// @Produce     json
// @Param       book_id path string true "Book ID (UUID)"
// @Param       request body models.CustomizeBookRequest true "Customization"
// @Success     200 {object} models.ResultResponse
// @Failure     400 {object} models.ResultResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /books/{book_id}/customization [put]
func (h *BookHandler) Customize(c *gin.Context) {
	if h.orderService == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "order service not available"})
		return
	}

	bookID, err := uuid.Parse(c.Param("book_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ResultResponse{Success: false, Error: "invalid book id"})
		return
	}

	var req models.CustomizeBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ResultResponse{Success: false, Error: "invalid request body: " + err.Error()})
		return
	}

	if _, err := h.orderService.Customize(bookID, req); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "book not found"})
			return
		}
		// Validation and invalid-state failures come back as a structured
		// result rather than a bare error body.
		c.JSON(http.StatusBadRequest, models.ResultResponse{Success: false, Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.ResultResponse{Success: true})
}

