package team

import (
	"time"

	"github.com/google/uuid"
)

// TeamStatus represents the lifecycle status of a team.
type TeamStatus string

const (
	TeamStatusForming   TeamStatus = "forming"   // Below minimum size
	TeamStatusComplete  TeamStatus = "complete"  // Within the valid size range
	TeamStatusDisbanded TeamStatus = "disbanded"
)

// MemberRole represents a member's role within a team.
type MemberRole string

const (
	RoleLeader MemberRole = "leader"
	RoleMember MemberRole = "member"
)

// InviteStatus represents the status of an invite.
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusDeclined InviteStatus = "declined"
	InviteStatusRevoked  InviteStatus = "revoked"
	InviteStatusExpired  InviteStatus = "expired"
)

// JoinRequestStatus represents the status of a join request.
type JoinRequestStatus string

const (
	JoinRequestStatusPending   JoinRequestStatus = "pending"
	JoinRequestStatusApproved  JoinRequestStatus = "approved"
	JoinRequestStatusRejected  JoinRequestStatus = "rejected"
	JoinRequestStatusCancelled JoinRequestStatus = "cancelled"
)

// Team represents a hackathon team.
type Team struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string     `json:"name" gorm:"uniqueIndex;not null"`
	Description string     `json:"description,omitempty"`
	IdeaSummary string     `json:"idea_summary,omitempty" gorm:"column:idea_summary"`
	LeaderID    uuid.UUID  `json:"leader_id" gorm:"type:uuid;not null"`
	MaxMembers  int        `json:"max_members" gorm:"not null"`
	Status      TeamStatus `json:"status" gorm:"not null;default:forming"`
	Open        bool       `json:"open" gorm:"not null;default:true"` // Recruiting
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName returns the database table name.
func (Team) TableName() string {
	return "teams"
}

// IsDisbanded returns true if the team has been disbanded.
func (t *Team) IsDisbanded() bool {
	return t.Status == TeamStatusDisbanded
}

// Member is a read view over the users table carrying the membership
// stamp. The user module owns the row; this module updates only the
// team columns.
type Member struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Institution  string     `json:"institution,omitempty"`
	TeamID       *uuid.UUID `json:"team_id,omitempty" gorm:"type:uuid"`
	TeamRole     MemberRole `json:"team_role,omitempty" gorm:"column:team_role"`
	JoinedTeamAt *time.Time `json:"joined_team_at,omitempty" gorm:"column:joined_team_at"`

	RegistrationComplete bool `json:"registration_complete" gorm:"column:registration_complete"`
}

// TableName returns the database table name.
func (Member) TableName() string {
	return "users"
}

// HasTeam returns true if the member belongs to a team.
func (m *Member) HasTeam() bool {
	return m.TeamID != nil
}

// Invite represents a single-use invite issued by a team leader.
type Invite struct {
	ID           uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TeamID       uuid.UUID    `json:"team_id" gorm:"type:uuid;not null;index"`
	InviterID    uuid.UUID    `json:"inviter_id" gorm:"type:uuid;not null"`
	InviteeEmail string       `json:"invitee_email,omitempty"` // Optional, blank means anyone with the link
	Token        string       `json:"-" gorm:"uniqueIndex;not null"`
	Status       InviteStatus `json:"status" gorm:"not null;default:pending"`
	ExpiresAt    time.Time    `json:"expires_at" gorm:"not null"`
	CreatedAt    time.Time    `json:"created_at"`
	AcceptedAt   *time.Time   `json:"accepted_at,omitempty"`
	AcceptedBy   *uuid.UUID   `json:"accepted_by,omitempty" gorm:"type:uuid"`
}

// TableName returns the database table name.
func (Invite) TableName() string {
	return "team_invites"
}

// IsExpired returns true if the invite has expired.
func (i *Invite) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// IsPending returns true if the invite can still be accepted.
func (i *Invite) IsPending() bool {
	return i.Status == InviteStatusPending
}

// JoinRequest represents a user's request to join an open team.
type JoinRequest struct {
	ID        uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TeamID    uuid.UUID         `json:"team_id" gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID         `json:"user_id" gorm:"type:uuid;not null;index"`
	Message   string            `json:"message,omitempty"`
	Status    JoinRequestStatus `json:"status" gorm:"not null;default:pending"`
	CreatedAt time.Time         `json:"created_at"`
	DecidedAt *time.Time        `json:"decided_at,omitempty"`
	DecidedBy *uuid.UUID        `json:"decided_by,omitempty" gorm:"type:uuid"`
}

// TableName returns the database table name.
func (JoinRequest) TableName() string {
	return "team_join_requests"
}

// IsPending returns true if the request has not been decided.
func (r *JoinRequest) IsPending() bool {
	return r.Status == JoinRequestStatusPending
}
