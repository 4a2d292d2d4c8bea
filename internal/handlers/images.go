package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"colormybook-backend/internal/models"
	"colormybook-backend/internal/services"
)

type ImageHandler struct {
	bookService *services.BookService
}

func NewImageHandler(bookService *services.BookService) *ImageHandler {
	return &ImageHandler{bookService: bookService}
}

// Transform godoc
// @Summary     Transform an image into a coloring-book sketch
// @Description Accepts a base64 data:image URI and returns the sketch rendition as a URL or data URI
// @Tags        images
// @Accept      json
// @Produce     json
// @Param       request body models.TransformImageRequest true "Image to transform"
// @Success     200 {object} models.TransformResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     402 {object} models.ErrorResponse
// @Failure     429 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /images [post]
func (h *ImageHandler) Transform(c *gin.Context) {
	if h.bookService == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "transform service not available"})
		return
	}

	var req models.TransformImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	if req.ImageURL == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "imageUrl is required"})
		return
	}

	transformed, err := h.bookService.TransformDataURI(c.Request.Context(), req.ImageURL)
	if err != nil {
		status, label := transformErrorStatus(err)
		c.JSON(status, models.ErrorResponse{
			Error:   label,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.TransformResponse{TransformedImage: transformed})
}

// transformErrorStatus maps transform failures to HTTP statuses. Rate
// limits and billing failures are surfaced distinctly so the frontend can
// show actionable messages instead of a generic failure.
func transformErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrNotAnImage):
		return http.StatusBadRequest, "not an image"
	case errors.Is(err, models.ErrFileTooLarge):
		return http.StatusBadRequest, "file too large"
	case errors.Is(err, models.ErrRateLimited):
		return http.StatusTooManyRequests, "rate limited"
	case errors.Is(err, models.ErrBillingFailure):
		return http.StatusPaymentRequired, "billing failure"
	default:
		return http.StatusInternalServerError, "transform failed"
	}
}
