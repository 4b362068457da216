package team

import (
	"time"

	"github.com/google/uuid"
)

// CreateTeamRequest represents a team creation request.
type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=80"`
	Description string `json:"description,omitempty" binding:"max=2000"`
	IdeaSummary string `json:"idea_summary,omitempty" binding:"max=2000"`
	MaxMembers  int    `json:"max_members" binding:"required,min=2,max=10"`
}

// UpdateTeamRequest represents a team update request.
type UpdateTeamRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=2,max=80"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=2000"`
	IdeaSummary *string `json:"idea_summary,omitempty" binding:"omitempty,max=2000"`
	Open        *bool   `json:"open,omitempty"`
}

// CreateInviteRequest represents an invite creation request.
type CreateInviteRequest struct {
	Email string `json:"email,omitempty" binding:"omitempty,email"` // Optional, restricts who can accept
}

// AcceptInviteRequest carries the invite token.
type AcceptInviteRequest struct {
	Token string `json:"token" binding:"required"`
}

// JoinRequestBody represents a request to join an open team.
type JoinRequestBody struct {
	Message string `json:"message,omitempty" binding:"max=500"`
}

// MemberResponse represents a team member in API responses.
type MemberResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Institution string     `json:"institution,omitempty"`
	Role        MemberRole `json:"role"`
	JoinedAt    *time.Time `json:"joined_at,omitempty"`
}

// ToResponse converts a Member to MemberResponse.
func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		ID:          m.ID,
		Name:        m.Name,
		Email:       m.Email,
		Institution: m.Institution,
		Role:        m.TeamRole,
		JoinedAt:    m.JoinedTeamAt,
	}
}

// TeamResponse represents a team in API responses.
type TeamResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	IdeaSummary string            `json:"idea_summary,omitempty"`
	LeaderID    uuid.UUID         `json:"leader_id"`
	MaxMembers  int               `json:"max_members"`
	Status      TeamStatus        `json:"status"`
	Open        bool              `json:"open"`
	MemberCount int               `json:"member_count"`
	Members     []*MemberResponse `json:"members,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// ToResponse converts a Team to TeamResponse.
func (t *Team) ToResponse(members []*Member) *TeamResponse {
	resp := &TeamResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		IdeaSummary: t.IdeaSummary,
		LeaderID:    t.LeaderID,
		MaxMembers:  t.MaxMembers,
		Status:      t.Status,
		Open:        t.Open,
		MemberCount: len(members),
		CreatedAt:   t.CreatedAt,
	}
	for _, m := range members {
		resp.Members = append(resp.Members, m.ToResponse())
	}
	return resp
}

// TeamSummary is the public listing view of a team.
type TeamSummary struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	IdeaSummary string     `json:"idea_summary,omitempty"`
	MaxMembers  int        `json:"max_members"`
	Status      TeamStatus `json:"status"`
	Open        bool       `json:"open"`
	MemberCount int        `json:"member_count"`
}

// InviteResponse represents an invite in API responses. The token is
// only included when the invite is first created.
type InviteResponse struct {
	ID           uuid.UUID    `json:"id"`
	TeamID       uuid.UUID    `json:"team_id"`
	TeamName     string       `json:"team_name,omitempty"`
	InviteeEmail string       `json:"invitee_email,omitempty"`
	Token        string       `json:"token,omitempty"`
	InviteURL    string       `json:"invite_url,omitempty"`
	Status       InviteStatus `json:"status"`
	ExpiresAt    time.Time    `json:"expires_at"`
	CreatedAt    time.Time    `json:"created_at"`
}

// JoinRequestResponse represents a join request in API responses.
type JoinRequestResponse struct {
	ID        uuid.UUID         `json:"id"`
	TeamID    uuid.UUID         `json:"team_id"`
	TeamName  string            `json:"team_name,omitempty"`
	UserID    uuid.UUID         `json:"user_id"`
	UserName  string            `json:"user_name,omitempty"`
	Message   string            `json:"message,omitempty"`
	Status    JoinRequestStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	DecidedAt *time.Time        `json:"decided_at,omitempty"`
}

// ToResponse converts a JoinRequest to JoinRequestResponse.
func (r *JoinRequest) ToResponse() *JoinRequestResponse {
	return &JoinRequestResponse{
		ID:        r.ID,
		TeamID:    r.TeamID,
		UserID:    r.UserID,
		Message:   r.Message,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
		DecidedAt: r.DecidedAt,
	}
}

// TeamListResponse represents a paginated team listing.
type TeamListResponse struct {
	Teams    []*TeamSummary `json:"teams"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message"`
}
