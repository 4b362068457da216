package contact

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hackfest/server/internal/module/auth"
)

// Handler handles HTTP requests for the public contact form.
type Handler struct {
	service *Service
}

// NewHandler creates a new contact handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the public routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/contact", h.Submit)
}

// Submit accepts a contact-form message.
//
//	@Summary		Submit contact message
//	@Tags			Contact
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SubmitMessageRequest	true	"Contact message"
//	@Success		201		{object}	AckResponse
//	@Failure		400		{object}	map[string]string
//	@Failure		429		{object}	map[string]string
//	@Router			/contact [post]
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": err.Error()})
		return
	}

	if _, err := h.service.Submit(c.Request.Context(), c.ClientIP(), &req); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AckResponse{Message: "Thanks for reaching out. We'll get back to you soon."})
}

// handleError maps service errors to HTTP responses.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate_limited", "message": "Too many messages. Please try again later."})
	case errors.Is(err, ErrMessageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "message_not_found", "message": "Contact message not found"})
	case errors.Is(err, ErrAlreadyReplied):
		c.JSON(http.StatusConflict, gin.H{"error": "already_replied", "message": "Message has already been marked replied"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "An internal error occurred"})
	}
}
