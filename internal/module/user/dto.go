package user

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

// LoginRequest represents an email/password login request.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CompleteRegistrationRequest carries the participant profile fields.
type CompleteRegistrationRequest struct {
	Phone       string `json:"phone" binding:"required"`
	Institution string `json:"institution" binding:"required"`
}

// UpdateProfileRequest represents a profile update request.
type UpdateProfileRequest struct {
	Name        *string `json:"name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Institution *string `json:"institution,omitempty"`
}

// ChangePasswordRequest represents a password change request.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// SuspendUserRequest represents an admin request to suspend a user.
type SuspendUserRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// SetAdminStatusRequest represents a request to change admin status.
type SetAdminStatusRequest struct {
	IsAdmin bool `json:"is_admin"`
}

// UserFilter represents filters for listing users.
type UserFilter struct {
	Status      *UserStatus `form:"status"`
	Email       *string     `form:"email"`
	Institution *string     `form:"institution"`
	HasTeam     *bool       `form:"has_team"`
}

// Pagination represents pagination parameters.
type Pagination struct {
	Page     int `form:"page" binding:"min=1"`
	PageSize int `form:"page_size" binding:"min=1,max=100"`
}

// NewPagination creates pagination with defaults.
func NewPagination() *Pagination {
	return &Pagination{
		Page:     1,
		PageSize: 20,
	}
}

// Offset returns the offset for database queries.
func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID                   uuid.UUID  `json:"id"`
	Email                string     `json:"email"`
	Name                 string     `json:"name"`
	Phone                string     `json:"phone,omitempty"`
	Institution          string     `json:"institution,omitempty"`
	RegistrationComplete bool       `json:"registration_complete"`
	Status               UserStatus `json:"status"`
	IsAdmin              bool       `json:"is_admin"`
	TeamID               *uuid.UUID `json:"team_id,omitempty"`
	TeamRole             TeamRole   `json:"team_role,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

// ToResponse converts a User to UserResponse.
func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:                   u.ID,
		Email:                u.Email,
		Name:                 u.Name,
		Phone:                u.Phone,
		Institution:          u.Institution,
		RegistrationComplete: u.RegistrationComplete,
		Status:               u.Status,
		IsAdmin:              u.IsAdmin,
		TeamID:               u.TeamID,
		TeamRole:             u.TeamRole,
		CreatedAt:            u.CreatedAt,
	}
}

// UserListResponse represents a paginated list of users.
type UserListResponse struct {
	Users      []*UserResponse `json:"users"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message"`
}
