package user

import (
	"time"

	"github.com/google/uuid"
)

// UserStatus represents the lifecycle status of a user.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended" // Admin suspended
	UserStatusDeleted   UserStatus = "deleted"   // Soft deleted
)

// IsValid checks if the status is a valid user status.
func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusActive, UserStatusSuspended, UserStatusDeleted:
		return true
	default:
		return false
	}
}

// TeamRole represents a user's role within their team.
type TeamRole string

const (
	TeamRoleLeader TeamRole = "leader"
	TeamRoleMember TeamRole = "member"
)

// User represents a registered participant or admin.
type User struct {
	ID    uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email string    `json:"email" gorm:"uniqueIndex;not null"`
	Name  string    `json:"name" gorm:"not null"`

	// Authentication
	PasswordHash string `json:"-" gorm:"column:password_hash;not null"`

	// Participant profile, completed after first login
	Phone                string `json:"phone,omitempty"`
	Institution          string `json:"institution,omitempty"`
	RegistrationComplete bool   `json:"registration_complete" gorm:"column:registration_complete;default:false"`

	// Status
	Status  UserStatus `json:"status" gorm:"default:active"`
	IsAdmin bool       `json:"is_admin" gorm:"column:is_admin;default:false"`

	// Team membership, stamped by the team module
	TeamID       *uuid.UUID `json:"team_id,omitempty" gorm:"type:uuid;index"`
	TeamRole     TeamRole   `json:"team_role,omitempty" gorm:"column:team_role"`
	JoinedTeamAt *time.Time `json:"joined_team_at,omitempty" gorm:"column:joined_team_at"`

	// Suspension
	SuspendedAt   *time.Time `json:"suspended_at,omitempty"`
	SuspendReason *string    `json:"suspend_reason,omitempty"`

	// Timestamps
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"-" gorm:"index"` // Soft delete
}

// TableName returns the database table name.
func (User) TableName() string {
	return "users"
}

// HasTeam returns true if the user belongs to a team.
func (u *User) HasTeam() bool {
	return u.TeamID != nil
}

// IsTeamLeader returns true if the user leads their team.
func (u *User) IsTeamLeader() bool {
	return u.HasTeam() && u.TeamRole == TeamRoleLeader
}

// CanLogin checks if the user is allowed to login.
func (u *User) CanLogin() bool {
	return u.Status == UserStatusActive
}
