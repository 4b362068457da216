package submission

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hackfest/server/internal/module/auth"
)

// AdminHandler handles admin HTTP requests for review and results.
// All routes are registered behind the admin middleware.
type AdminHandler struct {
	service *Service
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(service *Service) *AdminHandler {
	return &AdminHandler{service: service}
}

// RegisterRoutes registers the admin submission routes.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/submissions")
	{
		admin.GET("", h.ListSubmissions)
		admin.GET("/:id", h.GetSubmission)
		admin.POST("/:id/score", h.Score)
		admin.GET("/:id/reviews", h.ListReviews)
		admin.POST("/:id/reopen", h.Reopen)
		admin.POST("/:id/result", h.DeclareResult)
		admin.DELETE("/:id/result", h.RemoveResult)
	}
}

// ListSubmissions lists submissions with review aggregates.
//
//	@Summary		List submissions
//	@Tags			Admin
//	@Produce		json
//	@Param			status	query	string	false	"Filter by status"
//	@Success		200		{object}	map[string]interface{}
//	@Security		BearerAuth
//	@Router			/admin/submissions [get]
func (h *AdminHandler) ListSubmissions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	var status *Status
	if s := c.Query("status"); s != "" {
		st := Status(s)
		status = &st
	}

	views, total, err := h.service.ListSubmissions(c.Request.Context(), status, page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": views,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
	})
}

// GetSubmission returns a submission by ID.
//
//	@Summary		Get submission
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path		string	true	"Submission ID"
//	@Success		200	{object}	SubmissionResponse
//	@Security		BearerAuth
//	@Router			/admin/submissions/{id} [get]
func (h *AdminHandler) GetSubmission(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission ID"})
		return
	}

	submission, err := h.service.GetSubmission(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission.ToResponse())
}

// Score records the caller's score for a submission.
//
//	@Summary		Score submission
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Submission ID"
//	@Param			request	body		ScoreRequest	true	"Score"
//	@Success		200		{object}	ReviewResponse
//	@Security		BearerAuth
//	@Router			/admin/submissions/{id}/score [post]
func (h *AdminHandler) Score(c *gin.Context) {
	adminID := auth.UserIDFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission ID"})
		return
	}

	var req ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.service.Score(c.Request.Context(), id, adminID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, review.ToResponse())
}

// ListReviews lists reviews for a submission.
//
//	@Summary		List reviews
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path	string	true	"Submission ID"
//	@Success		200	{array}	ReviewResponse
//	@Security		BearerAuth
//	@Router			/admin/submissions/{id}/reviews [get]
func (h *AdminHandler) ListReviews(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission ID"})
		return
	}

	reviews, err := h.service.ListReviews(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	resp := make([]*ReviewResponse, len(reviews))
	for i, r := range reviews {
		resp[i] = r.ToResponse()
	}
	c.JSON(http.StatusOK, resp)
}

// Reopen reverts a final submission to draft.
//
//	@Summary		Reopen submission
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path		string	true	"Submission ID"
//	@Success		200	{object}	SubmissionResponse
//	@Security		BearerAuth
//	@Router			/admin/submissions/{id}/reopen [post]
func (h *AdminHandler) Reopen(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission ID"})
		return
	}

	submission, err := h.service.Reopen(c.Request.Context(), id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission.ToResponse())
}

// DeclareResult declares a placement for a submission.
//
//	@Summary		Declare result
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Submission ID"
//	@Param			request	body		DeclareResultRequest	true	"Result"
//	@Success		201		{object}	Result
//	@Failure		409		{object}	map[string]string
//	@Security		BearerAuth
//	@Router			/admin/submissions/{id}/result [post]
func (h *AdminHandler) DeclareResult(c *gin.Context) {
	adminID := auth.UserIDFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission ID"})
		return
	}

	var req DeclareResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.DeclareResult(c.Request.Context(), id, adminID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// RemoveResult withdraws a declared result.
//
//	@Summary		Remove result
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path		string	true	"Submission ID"
//	@Success		200	{object}	MessageResponse
//	@Security		BearerAuth
//	@Router			/admin/submissions/{id}/result [delete]
func (h *AdminHandler) RemoveResult(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission ID"})
		return
	}

	if err := h.service.RemoveResult(c.Request.Context(), id); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Result removed"})
}
