package submission

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hackfest/server/internal/module/auth"
)

// Handler handles HTTP requests for team submissions.
type Handler struct {
	service *Service
}

// NewHandler creates a new submission handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the public routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/results", h.PublishedResults)
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	submissions := r.Group("/submissions")
	{
		submissions.GET("/me", h.GetMySubmission)
		submissions.PUT("/me", h.SaveDraft)
		submissions.POST("/me/finalize", h.Finalize)
	}
}

// PublishedResults returns the declared results.
//
//	@Summary		Published results
//	@Tags			Submission
//	@Produce		json
//	@Success		200	{array}	PublicResult
//	@Router			/results [get]
func (h *Handler) PublishedResults(c *gin.Context) {
	results, err := h.service.PublishedResults(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetMySubmission returns the caller's team submission.
//
//	@Summary		Get my submission
//	@Tags			Submission
//	@Produce		json
//	@Success		200	{object}	SubmissionResponse
//	@Failure		404	{object}	map[string]string
//	@Security		BearerAuth
//	@Router			/submissions/me [get]
func (h *Handler) GetMySubmission(c *gin.Context) {
	userID := auth.UserIDFromContext(c)

	submission, err := h.service.GetMySubmission(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission.ToResponse())
}

// SaveDraft creates or updates the team draft.
//
//	@Summary		Save submission draft
//	@Tags			Submission
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SaveDraftRequest	true	"Draft"
//	@Success		200		{object}	SubmissionResponse
//	@Failure		409		{object}	map[string]string
//	@Security		BearerAuth
//	@Router			/submissions/me [put]
func (h *Handler) SaveDraft(c *gin.Context) {
	userID := auth.UserIDFromContext(c)

	var req SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	submission, err := h.service.SaveDraft(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission.ToResponse())
}

// Finalize locks the submission.
//
//	@Summary		Finalize submission
//	@Tags			Submission
//	@Produce		json
//	@Success		200	{object}	SubmissionResponse
//	@Failure		409	{object}	map[string]string
//	@Security		BearerAuth
//	@Router			/submissions/me/finalize [post]
func (h *Handler) Finalize(c *gin.Context) {
	userID := auth.UserIDFromContext(c)

	submission, err := h.service.Finalize(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission.ToResponse())
}

// handleError maps service errors to HTTP responses.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSubmissionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "submission_not_found", "message": "Submission not found"})
	case errors.Is(err, ErrSubmissionFinal):
		c.JSON(http.StatusConflict, gin.H{"error": "submission_final", "message": "Submission has been finalized and can no longer be edited"})
	case errors.Is(err, ErrAlreadyFinal):
		c.JSON(http.StatusConflict, gin.H{"error": "already_final", "message": "Submission is already final"})
	case errors.Is(err, ErrNotFinal):
		c.JSON(http.StatusConflict, gin.H{"error": "not_final", "message": "Submission has not been finalized"})
	case errors.Is(err, ErrMissingLinks):
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_links", "message": "Add at least one project link before finalizing"})
	case errors.Is(err, ErrSubmissionsClosed):
		c.JSON(http.StatusForbidden, gin.H{"error": "submissions_closed", "message": "The submission window has closed"})
	case errors.Is(err, ErrTeamIncomplete):
		c.JSON(http.StatusConflict, gin.H{"error": "team_incomplete", "message": "Team is below the minimum size"})
	case errors.Is(err, ErrNotInTeam):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_in_team", "message": "You do not belong to a team"})
	case errors.Is(err, ErrNotTeamLeader):
		c.JSON(http.StatusForbidden, gin.H{"error": "not_team_leader", "message": "Only the team leader can do this"})
	case errors.Is(err, ErrInvalidScore):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_score", "message": "Score must be between 0 and 100"})
	case errors.Is(err, ErrResultNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "result_not_found", "message": "Result not found"})
	case errors.Is(err, ErrResultExists):
		c.JSON(http.StatusConflict, gin.H{"error": "result_exists", "message": "A result has already been declared for this submission"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "An internal error occurred"})
	}
}
