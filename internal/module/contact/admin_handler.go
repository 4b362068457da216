package contact

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hackfest/server/internal/module/auth"
)

// AdminHandler handles admin HTTP requests for contact messages.
type AdminHandler struct {
	service *Service
}

// NewAdminHandler creates a new contact admin handler.
func NewAdminHandler(service *Service) *AdminHandler {
	return &AdminHandler{service: service}
}

// RegisterRoutes registers the admin routes. The caller mounts the
// group behind the admin middleware.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	messages := r.Group("/contact-messages")
	{
		messages.GET("", h.ListMessages)
		messages.GET("/:id", h.GetMessage)
		messages.POST("/:id/reply", h.MarkReplied)
	}
}

// ListMessages lists contact messages.
//
//	@Summary		List contact messages
//	@Tags			Admin
//	@Produce		json
//	@Param			replied		query		bool	false	"Filter by reply state"
//	@Param			page		query		int		false	"Page number"
//	@Param			page_size	query		int		false	"Page size"
//	@Success		200			{object}	MessageListResponse
//	@Security		BearerAuth
//	@Router			/admin/contact-messages [get]
func (h *AdminHandler) ListMessages(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	var replied *bool
	if raw := c.Query("replied"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": "Invalid replied filter"})
			return
		}
		replied = &value
	}

	list, err := h.service.ListMessages(c.Request.Context(), replied, page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetMessage returns a single contact message.
//
//	@Summary		Get contact message
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path		string	true	"Message ID"
//	@Success		200	{object}	MessageResponse
//	@Failure		404	{object}	map[string]string
//	@Security		BearerAuth
//	@Router			/admin/contact-messages/{id} [get]
func (h *AdminHandler) GetMessage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": "Invalid message ID"})
		return
	}

	message, err := h.service.GetMessage(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, message.ToResponse())
}

// MarkReplied marks a contact message as answered.
//
//	@Summary		Mark contact message replied
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path		string	true	"Message ID"
//	@Success		200	{object}	MessageResponse
//	@Failure		404	{object}	map[string]string
//	@Failure		409	{object}	map[string]string
//	@Security		BearerAuth
//	@Router			/admin/contact-messages/{id}/reply [post]
func (h *AdminHandler) MarkReplied(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "message": "Invalid message ID"})
		return
	}

	adminID := auth.UserIDFromContext(c)

	message, err := h.service.MarkReplied(c.Request.Context(), id, adminID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, message.ToResponse())
}
