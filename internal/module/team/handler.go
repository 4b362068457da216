package team

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hackfest/server/internal/module/auth"
)

// Handler handles HTTP requests for team formation.
type Handler struct {
	service *Service
	baseURL string
}

// NewHandler creates a new team handler. baseURL is used to build
// invite links in responses.
func NewHandler(service *Service, baseURL string) *Handler {
	return &Handler{service: service, baseURL: baseURL}
}

// RegisterRoutes registers the public team routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/teams", h.ListOpenTeams)
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	teams := r.Group("/teams")
	{
		teams.POST("", h.CreateTeam)
		teams.GET("/:id", h.GetTeam)
		teams.PUT("/:id", h.UpdateTeam)
		teams.DELETE("/:id", h.DisbandTeam)

		teams.POST("/:id/invites", h.CreateInvite)
		teams.GET("/:id/invites", h.ListTeamInvites)
		teams.DELETE("/:id/invites/:inviteID", h.RevokeInvite)

		teams.POST("/:id/requests", h.RequestToJoin)
		teams.GET("/:id/requests", h.ListTeamRequests)
		teams.POST("/:id/requests/:requestID/approve", h.ApproveRequest)
		teams.POST("/:id/requests/:requestID/reject", h.RejectRequest)

		teams.DELETE("/:id/members/:userID", h.RemoveMember)
		teams.POST("/:id/transfer-leadership", h.TransferLeadership)
	}

	invites := r.Group("/invites")
	{
		invites.POST("/accept", h.AcceptInvite)
		invites.POST("/decline", h.DeclineInvite)
	}

	me := r.Group("/me")
	{
		me.GET("/team", h.GetMyTeam)
		me.POST("/team/leave", h.LeaveTeam)
		me.GET("/invites", h.ListMyInvites)
		me.GET("/requests", h.ListMyRequests)
		me.DELETE("/requests/:requestID", h.CancelRequest)
	}
}

// RegisterAdminRoutes registers the admin team routes.
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	r.GET("/teams", h.ListAllTeams)
}

// ListOpenTeams lists teams that are recruiting.
//
//	@Summary		List open teams
//	@Tags			Team
//	@Produce		json
//	@Param			page		query		int	false	"Page"
//	@Param			page_size	query		int	false	"Page size"
//	@Success		200			{object}	TeamListResponse
//	@Router			/teams [get]
func (h *Handler) ListOpenTeams(c *gin.Context) {
	page, pageSize := pageParams(c)

	list, err := h.service.ListOpenTeams(c.Request.Context(), page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// ListAllTeams lists every team, including closed ones.
//
//	@Summary		List all teams
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	TeamListResponse
//	@Security		BearerAuth
//	@Router			/admin/teams [get]
func (h *Handler) ListAllTeams(c *gin.Context) {
	page, pageSize := pageParams(c)

	list, err := h.service.ListAllTeams(c.Request.Context(), page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// CreateTeam creates a team with the caller as leader.
//
//	@Summary		Create team
//	@Tags			Team
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateTeamRequest	true	"Team details"
//	@Success		201		{object}	TeamResponse
//	@Failure		409		{object}	map[string]string
//	@Security		BearerAuth
//	@Router			/teams [post]
func (h *Handler) CreateTeam(c *gin.Context) {
	userID := auth.UserIDFromContext(c)

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := h.service.CreateTeam(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	// The leader is already a member; return the roster, not an empty team.
	_, members, err := h.service.GetTeam(c.Request.Context(), team.ID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, team.ToResponse(members))
}

// GetTeam returns a team with its member roster.
//
//	@Summary		Get team
//	@Tags			Team
//	@Produce		json
//	@Param			id	path		string	true	"Team ID"
//	@Success		200	{object}	TeamResponse
//	@Security		BearerAuth
//	@Router			/teams/{id} [get]
func (h *Handler) GetTeam(c *gin.Context) {
	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team ID"})
		return
	}

	team, members, err := h.service.GetTeam(c.Request.Context(), teamID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, team.ToResponse(members))
}

// GetMyTeam returns the caller's team.
//
//	@Summary		Get my team
//	@Tags			Team
//	@Produce		json
//	@Success		200	{object}	TeamResponse
//	@Failure		404	{object}	map[string]string
//	@Security		BearerAuth
//	@Router			/me/team [get]
func (h *Handler) GetMyTeam(c *gin.Context) {
	userID := auth.UserIDFromContext(c)

	team, members, err := h.service.GetMyTeam(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, team.ToResponse(members))
}

// UpdateTeam updates team details.
//
//	@Summary		Update team
//	@Tags			Team
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Team ID"
//	@Param			request	body		UpdateTeamRequest	true	"Update"
//	@Success		200		{object}	TeamResponse
//	@Security		BearerAuth
//	@Router			/teams/{id} [put]
func (h *Handler) UpdateTeam(c *gin.Context) {
	userID := auth.UserIDFromContext(c)

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team ID"})
		return
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := h.service.UpdateTeam(c.Request.Context(), teamID, userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, team.ToResponse(nil))
}

// DisbandTeam dissolves the team.
//
//	@Summary		Disband team
//	@Tags			Team
//	@Produce		json
//	@Param			id	path		string	true	"Team ID"
//	@Success		200	{object}	MessageResponse
//	@Security		BearerAuth
//	@Router			/teams/{id} [delete]
func (h *Handler) DisbandTeam(c *gin.Context) {
	userID := auth.UserIDFromContext(c)

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team ID"})
		return
	}

	if err := h.service.DisbandTeam(c.Request.Context(), teamID, userID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Team disbanded"})
}

// CreateInvite issues a single-use invite.
//
//	@Summary		Create invite
//	@Tags			Team
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string				true	"Team ID"
//	@Param			request	body		CreateInviteRequest	true	"Invite"
//	@Success		201		{object}	InviteResponse
//	@Security		BearerAuth
//	@Router			/teams/{id}/invites [post]
func (h *Handler) CreateInvite(c *gin.Context) {
	userID := auth.UserIDFromContext(c)

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team ID"})
		return
	}

	var req CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invite, err := h.service.GenerateInvite(c.Request.Context(), teamID, userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	// The raw token is only returned here, at creation time
	c.JSON(http.StatusCreated, &InviteResponse{
		ID:           invite.ID,
		TeamID:       invite.TeamID,
		InviteeEmail: invite.InviteeEmail,
		Token:        invite.Token,
		InviteURL:    h.baseURL + "/teams/join?token=" + invite.Token,
		Status:       invite.Status,
		ExpiresAt:    invite.ExpiresAt,
		CreatedAt:    invite.CreatedAt,
	})
}

// ListTeamInvites lists a team's invites.
//
//	@Summary		List team invites
//	@Tags			Team
//	@Produce		json
//	@Param			id	path		string	true	"Team ID"
//	@Success		200	{array}		InviteResponse
//	@Security		BearerAuth
//	@Router			/teams/{id}/invites [get]
func (h *Handler) ListTeamInvites(c *gin.Context) {
	userID := auth.UserIDFromContext(c)

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team ID"})
		return
	}

	invites, err := h.service.ListTeamInvites(c.Request.Context(), teamID, userID)
	if err != nil {
		handleError(c, err)
		return
	}

	resp := make([]*InviteResponse, len(invites))
	for i, inv := range invites {
		resp[i] = &InviteResponse{
			ID:           inv.ID,
			TeamID:       inv.TeamID,
			InviteeEmail: inv.InviteeEmail,
			Status:       inv.Status,
			ExpiresAt:    inv.ExpiresAt,
			CreatedAt:    inv.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// RevokeInvite revokes a pending invite.
//
//	@Summary		Revoke invite
//	@Tags			Team
//	@Produce		json
//	@Param			id			path		string	true	"Team ID"
//	@Param			inviteID	path		string	true	"Invite ID"
//	@Success		200			{object}	MessageResponse
//	@Security		BearerAuth
//	@Router			/teams/{id}/invites/{inviteID} [delete]
func (h *Handler) RevokeInvite(c *gin.Context) {
	userID := auth.UserIDFromContext(c)

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team ID"})
		return
	}
	inviteID, err := uuid.Parse(c.Param("inviteID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invite ID"})
		return
	}

	if err := h.service.RevokeInvite(c.Request.Context(), teamID, userID, inviteID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Invite revoked"})
}

// AcceptInvite joins the caller to the inviting team.
//
//	@Summary		Accept invite
//	@Tags			Team
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AcceptInviteRequest	true	"Invite token"
//	@Success		200		{object}	TeamResponse
//	@Failure		409		{object}	map[string]string
//	@Security		BearerAuth
//	@Router			/invites/accept [post]
func (h *Handler) AcceptInvite(c *gin.Context) {
	userID := auth.UserIDFromContext(c)
	email := auth.EmailFromContext(c)

	var req AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := h.service.AcceptInvite(c.Request.Context(), userID, email, req.Token)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, team.ToResponse(nil))
}

// DeclineInvite declines a pending invite.
//
//	@Summary		Decline invite
//	@Tags			Team
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AcceptInviteRequest	true	"Invite token"
//	@Success		200		{object}	MessageResponse
//	@Security		BearerAuth
//	@Router			/invites/decline [post]
func (h *Handler) DeclineInvite(c *gin.Context) {
	email := auth.EmailFromContext(c)

	var req AcceptInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.DeclineInvite(c.Request.Context(), email, req.Token); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Invite declined"})
}

// ListMyInvites lists pending invites addressed to the caller.
//
//	@Summary		List my invites
//	@Tags			Team
//	@Produce		json
//	@Success		200	{array}	InviteResponse
//	@Security		BearerAuth
//	@Router			/me/invites [get]
func (h *Handler) ListMyInvites(c *gin.Context) {
	email := auth.EmailFromContext(c)

	invites, err := h.service.ListMyInvites(c.Request.Context(), email)
	if err != nil {
		handleError(c, err)
		return
	}

	resp := make([]*InviteResponse, len(invites))
	for i, inv := range invites {
		resp[i] = &InviteResponse{
			ID:           inv.ID,
			TeamID:       inv.TeamID,
			InviteeEmail: inv.InviteeEmail,
			Token:        inv.Token, // Addressed to the caller, safe to return
			Status:       inv.Status,
			ExpiresAt:    inv.ExpiresAt,
			CreatedAt:    inv.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// RequestToJoin files a join request for an open team.
//
//	@Summary		Request to join
//	@Tags			Team
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Team ID"
//	@Param			request	body		JoinRequestBody	true	"Request"
//	@Success		201		{object}	JoinRequestResponse
//	@Failure		409		{object}	map[string]string
//	@Security		BearerAuth
//	@Router			/teams/{id}/requests [post]
func (h *Handler) RequestToJoin(c *gin.Context) {
	userID := auth.UserIDFromContext(c)

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team ID"})
		return
	}

	var req JoinRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	request, err := h.service.RequestToJoin(c.Request.Context(), userID, teamID, req.Message)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request.ToResponse())
}

// ListTeamRequests lists a team's join requests.
//
//	@Summary		List team join requests
//	@Tags			Team
//	@Produce		json
//	@Param			id		path	string	true	"Team ID"
//	@Param			status	query	string	false	"Filter by status"
//	@Success		200		{array}	JoinRequestResponse
//	@Security		BearerAuth
//	@Router			/teams/{id}/requests [get]
func (h *Handler) ListTeamRequests(c *gin.Context) {
	userID := auth.UserIDFromContext(c)

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team ID"})
		return
	}

	var status *JoinRequestStatus
	if s := c.Query("status"); s != "" {
		st := JoinRequestStatus(s)
		status = &st
	}

	requests, err := h.service.ListTeamRequests(c.Request.Context(), teamID, userID, status)
	if err != nil {
		handleError(c, err)
		return
	}

	resp := make([]*JoinRequestResponse, len(requests))
	for i, r := range requests {
		resp[i] = r.ToResponse()
	}
	c.JSON(http.StatusOK, resp)
}

// ApproveRequest admits the applicant.
//
//	@Summary		Approve join request
//	@Tags			Team
//	@Produce		json
//	@Param			id			path		string	true	"Team ID"
//	@Param			requestID	path		string	true	"Request ID"
//	@Success		200			{object}	JoinRequestResponse
//	@Failure		409			{object}	map[string]string
//	@Security		BearerAuth
//	@Router			/teams/{id}/requests/{requestID}/approve [post]
func (h *Handler) ApproveRequest(c *gin.Context) {
	userID := auth.UserIDFromContext(c)

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team ID"})
		return
	}
	requestID, err := uuid.Parse(c.Param("requestID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request ID"})
		return
	}

	request, err := h.service.ApproveRequest(c.Request.Context(), teamID, userID, requestID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, request.ToResponse())
}

// RejectRequest declines a pending request.
//
//	@Summary		Reject join request
//	@Tags			Team
//	@Produce		json
//	@Param			id			path		string	true	"Team ID"
//	@Param			requestID	path		string	true	"Request ID"
//	@Success		200			{object}	MessageResponse
//	@Security		BearerAuth
//	@Router			/teams/{id}/requests/{requestID}/reject [post]
func (h *Handler) RejectRequest(c *gin.Context) {
	userID := auth.UserIDFromContext(c)

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team ID"})
		return
	}
	requestID, err := uuid.Parse(c.Param("requestID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request ID"})
		return
	}

	if err := h.service.RejectRequest(c.Request.Context(), teamID, userID, requestID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Request rejected"})
}

// ListMyRequests lists the caller's join requests.
//
//	@Summary		List my join requests
//	@Tags			Team
//	@Produce		json
//	@Success		200	{array}	JoinRequestResponse
//	@Security		BearerAuth
//	@Router			/me/requests [get]
func (h *Handler) ListMyRequests(c *gin.Context) {
	userID := auth.UserIDFromContext(c)

	requests, err := h.service.ListMyRequests(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	resp := make([]*JoinRequestResponse, len(requests))
	for i, r := range requests {
		resp[i] = r.ToResponse()
	}
	c.JSON(http.StatusOK, resp)
}

// CancelRequest withdraws the caller's pending request.
//
//	@Summary		Cancel join request
//	@Tags			Team
//	@Produce		json
//	@Param			requestID	path		string	true	"Request ID"
//	@Success		200			{object}	MessageResponse
//	@Security		BearerAuth
//	@Router			/me/requests/{requestID} [delete]
func (h *Handler) CancelRequest(c *gin.Context) {
	userID := auth.UserIDFromContext(c)

	requestID, err := uuid.Parse(c.Param("requestID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request ID"})
		return
	}

	if err := h.service.CancelRequest(c.Request.Context(), userID, requestID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Request cancelled"})
}

// LeaveTeam removes the caller from their team.
//
//	@Summary		Leave team
//	@Tags			Team
//	@Produce		json
//	@Success		200	{object}	MessageResponse
//	@Failure		409	{object}	map[string]string
//	@Security		BearerAuth
//	@Router			/me/team/leave [post]
func (h *Handler) LeaveTeam(c *gin.Context) {
	userID := auth.UserIDFromContext(c)

	if err := h.service.LeaveTeam(c.Request.Context(), userID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Left team"})
}

// RemoveMember removes a member from the team.
//
//	@Summary		Remove member
//	@Tags			Team
//	@Produce		json
//	@Param			id		path		string	true	"Team ID"
//	@Param			userID	path		string	true	"User ID"
//	@Success		200		{object}	MessageResponse
//	@Security		BearerAuth
//	@Router			/teams/{id}/members/{userID} [delete]
func (h *Handler) RemoveMember(c *gin.Context) {
	leaderID := auth.UserIDFromContext(c)

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team ID"})
		return
	}
	targetID, err := uuid.Parse(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), teamID, leaderID, targetID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Member removed"})
}

// TransferLeadership hands leadership to another member.
//
//	@Summary		Transfer leadership
//	@Tags			Team
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Team ID"
//	@Param			request	body		map[string]string	true	"New leader"
//	@Success		200		{object}	TeamResponse
//	@Security		BearerAuth
//	@Router			/teams/{id}/transfer-leadership [post]
func (h *Handler) TransferLeadership(c *gin.Context) {
	leaderID := auth.UserIDFromContext(c)

	teamID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team ID"})
		return
	}

	var req struct {
		NewLeaderID uuid.UUID `json:"new_leader_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := h.service.TransferLeadership(c.Request.Context(), teamID, leaderID, req.NewLeaderID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, team.ToResponse(nil))
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return page, pageSize
}

// handleError maps service errors to HTTP responses.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrTeamNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "team_not_found", "message": "Team not found"})
	case errors.Is(err, ErrTeamNameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "team_name_taken", "message": "Team name is already taken"})
	case errors.Is(err, ErrTeamFull):
		c.JSON(http.StatusConflict, gin.H{"error": "team_full", "message": "Team is already at maximum size"})
	case errors.Is(err, ErrTeamDisbanded):
		c.JSON(http.StatusConflict, gin.H{"error": "team_disbanded", "message": "Team has been disbanded"})
	case errors.Is(err, ErrInvalidTeamSize):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_team_size", "message": "Team size is outside the allowed range"})
	case errors.Is(err, ErrTeamNotRecruiting):
		c.JSON(http.StatusConflict, gin.H{"error": "team_not_recruiting", "message": "Team is not recruiting"})
	case errors.Is(err, ErrAlreadyInTeam):
		c.JSON(http.StatusConflict, gin.H{"error": "already_in_team", "message": "User already belongs to a team"})
	case errors.Is(err, ErrNotInTeam):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_in_team", "message": "You do not belong to a team"})
	case errors.Is(err, ErrNotTeamMember):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_team_member", "message": "User is not a member of this team"})
	case errors.Is(err, ErrNotTeamLeader):
		c.JSON(http.StatusForbidden, gin.H{"error": "not_team_leader", "message": "Only the team leader can do this"})
	case errors.Is(err, ErrLeaderCannotLeave):
		c.JSON(http.StatusConflict, gin.H{"error": "leader_cannot_leave", "message": "Transfer leadership or disband the team first"})
	case errors.Is(err, ErrCannotRemoveLeader):
		c.JSON(http.StatusConflict, gin.H{"error": "cannot_remove_leader", "message": "The leader cannot be removed"})
	case errors.Is(err, ErrRegistrationIncomplete):
		c.JSON(http.StatusForbidden, gin.H{"error": "registration_incomplete", "message": "Complete your participant profile first"})
	case errors.Is(err, ErrInviteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "invite_not_found", "message": "Invite not found"})
	case errors.Is(err, ErrInviteExpired):
		c.JSON(http.StatusConflict, gin.H{"error": "invite_expired", "message": "Invite has expired"})
	case errors.Is(err, ErrInviteConsumed):
		c.JSON(http.StatusConflict, gin.H{"error": "invite_consumed", "message": "Invite has already been used"})
	case errors.Is(err, ErrInviteNotForYou):
		c.JSON(http.StatusForbidden, gin.H{"error": "invite_not_for_you", "message": "Invite was issued for a different email"})
	case errors.Is(err, ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "request_not_found", "message": "Join request not found"})
	case errors.Is(err, ErrRequestAlreadyDecided):
		c.JSON(http.StatusConflict, gin.H{"error": "request_already_decided", "message": "Join request has already been decided"})
	case errors.Is(err, ErrTeamFinalized):
		c.JSON(http.StatusConflict, gin.H{"error": "team_finalized", "message": "Membership is locked after the submission is finalized"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "An internal error occurred"})
	}
}
