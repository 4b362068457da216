package team

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the interface for team data access.
type Repository interface {
	// Team operations
	CreateTeam(ctx context.Context, team *Team) error
	GetTeamByID(ctx context.Context, id uuid.UUID) (*Team, error)
	GetTeamByIDForUpdate(ctx context.Context, id uuid.UUID) (*Team, error)
	GetTeamByName(ctx context.Context, name string) (*Team, error)
	UpdateTeam(ctx context.Context, team *Team) error
	ListTeams(ctx context.Context, openOnly bool, offset, limit int) ([]*TeamSummary, int64, error)

	// Membership operations over the users table
	GetMember(ctx context.Context, userID uuid.UUID) (*Member, error)
	ListMembers(ctx context.Context, teamID uuid.UUID) ([]*Member, error)
	CountMembers(ctx context.Context, teamID uuid.UUID) (int, error)
	StampMembership(ctx context.Context, userID, teamID uuid.UUID, role MemberRole) error
	ClearMembership(ctx context.Context, userID uuid.UUID) error
	ClearTeamMemberships(ctx context.Context, teamID uuid.UUID) error
	SetMemberRole(ctx context.Context, userID uuid.UUID, role MemberRole) error

	// Invite operations
	CreateInvite(ctx context.Context, invite *Invite) error
	GetInviteByToken(ctx context.Context, token string) (*Invite, error)
	GetInviteByID(ctx context.Context, id uuid.UUID) (*Invite, error)
	ListInvitesByTeam(ctx context.Context, teamID uuid.UUID) ([]*Invite, error)
	ListPendingInvitesByEmail(ctx context.Context, email string) ([]*Invite, error)
	ConsumeInvite(ctx context.Context, id, userID uuid.UUID) error
	UpdateInviteStatus(ctx context.Context, id uuid.UUID, status InviteStatus) error
	RevokePendingInvites(ctx context.Context, teamID uuid.UUID) error

	// Join request operations
	CreateRequest(ctx context.Context, request *JoinRequest) error
	GetRequestByID(ctx context.Context, id uuid.UUID) (*JoinRequest, error)
	GetPendingRequest(ctx context.Context, teamID, userID uuid.UUID) (*JoinRequest, error)
	ListRequestsByTeam(ctx context.Context, teamID uuid.UUID, status *JoinRequestStatus) ([]*JoinRequest, error)
	ListRequestsByUser(ctx context.Context, userID uuid.UUID) ([]*JoinRequest, error)
	DecideRequest(ctx context.Context, id uuid.UUID, status JoinRequestStatus, decidedBy uuid.UUID) error
	CancelPendingRequestsForUser(ctx context.Context, userID uuid.UUID, except *uuid.UUID) error
	CancelPendingRequestsForTeam(ctx context.Context, teamID uuid.UUID) error

	// Transaction support
	WithTx(tx *gorm.DB) Repository
	BeginTx(ctx context.Context) (*gorm.DB, error)
}

// repository implements Repository using GORM.
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new team repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx returns a new repository bound to the given transaction.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

// BeginTx starts a new transaction.
func (r *repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// ========== Team operations ==========

func (r *repository) CreateTeam(ctx context.Context, team *Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

func (r *repository) GetTeamByID(ctx context.Context, id uuid.UUID) (*Team, error) {
	var team Team
	err := r.db.WithContext(ctx).
		Where("id = ? AND status <> ?", id, TeamStatusDisbanded).
		First(&team).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

// GetTeamByIDForUpdate locks the team row for the duration of the
// enclosing transaction. Membership changes serialize on this lock so
// the capacity check cannot race.
func (r *repository) GetTeamByIDForUpdate(ctx context.Context, id uuid.UUID) (*Team, error) {
	var team Team
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND status <> ?", id, TeamStatusDisbanded).
		First(&team).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

func (r *repository) GetTeamByName(ctx context.Context, name string) (*Team, error) {
	var team Team
	err := r.db.WithContext(ctx).
		Where("name = ? AND status <> ?", name, TeamStatusDisbanded).
		First(&team).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

func (r *repository) UpdateTeam(ctx context.Context, team *Team) error {
	return r.db.WithContext(ctx).Save(team).Error
}

func (r *repository) ListTeams(ctx context.Context, openOnly bool, offset, limit int) ([]*TeamSummary, int64, error) {
	if limit <= 0 {
		limit = 20
	}

	query := r.db.WithContext(ctx).
		Model(&Team{}).
		Where("teams.status <> ?", TeamStatusDisbanded)
	if openOnly {
		query = query.Where("teams.open = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var summaries []*TeamSummary
	err := query.
		Select("teams.id, teams.name, teams.description, teams.idea_summary, teams.status, teams.open, teams.max_members, " +
			"(SELECT COUNT(*) FROM users WHERE users.team_id = teams.id AND users.deleted_at IS NULL) AS member_count").
		Order("teams.created_at DESC").
		Offset(offset).
		Limit(limit).
		Scan(&summaries).Error
	if err != nil {
		return nil, 0, err
	}

	return summaries, total, nil
}

// ========== Membership operations ==========

func (r *repository) GetMember(ctx context.Context, userID uuid.UUID) (*Member, error) {
	var member Member
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotTeamMember
		}
		return nil, err
	}
	return &member, nil
}

func (r *repository) ListMembers(ctx context.Context, teamID uuid.UUID) ([]*Member, error) {
	var members []*Member
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND deleted_at IS NULL", teamID).
		Order("joined_team_at ASC").
		Find(&members).Error
	return members, err
}

func (r *repository) CountMembers(ctx context.Context, teamID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Member{}).
		Where("team_id = ? AND deleted_at IS NULL", teamID).
		Count(&count).Error
	return int(count), err
}

func (r *repository) StampMembership(ctx context.Context, userID, teamID uuid.UUID, role MemberRole) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&Member{}).
		Where("id = ? AND team_id IS NULL", userID).
		Updates(map[string]interface{}{
			"team_id":        teamID,
			"team_role":      role,
			"joined_team_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	// Zero rows means the user picked up a team concurrently
	if result.RowsAffected == 0 {
		return ErrAlreadyInTeam
	}
	return nil
}

func (r *repository) ClearMembership(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&Member{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"team_id":        nil,
			"team_role":      "",
			"joined_team_at": nil,
		}).Error
}

func (r *repository) ClearTeamMemberships(ctx context.Context, teamID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&Member{}).
		Where("team_id = ?", teamID).
		Updates(map[string]interface{}{
			"team_id":        nil,
			"team_role":      "",
			"joined_team_at": nil,
		}).Error
}

func (r *repository) SetMemberRole(ctx context.Context, userID uuid.UUID, role MemberRole) error {
	return r.db.WithContext(ctx).
		Model(&Member{}).
		Where("id = ?", userID).
		Update("team_role", role).Error
}

// ========== Invite operations ==========

func (r *repository) CreateInvite(ctx context.Context, invite *Invite) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

func (r *repository) GetInviteByToken(ctx context.Context, token string) (*Invite, error) {
	var invite Invite
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		First(&invite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}
	return &invite, nil
}

func (r *repository) GetInviteByID(ctx context.Context, id uuid.UUID) (*Invite, error) {
	var invite Invite
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&invite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}
	return &invite, nil
}

func (r *repository) ListInvitesByTeam(ctx context.Context, teamID uuid.UUID) ([]*Invite, error) {
	var invites []*Invite
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("created_at DESC").
		Find(&invites).Error
	return invites, err
}

func (r *repository) ListPendingInvitesByEmail(ctx context.Context, email string) ([]*Invite, error) {
	var invites []*Invite
	err := r.db.WithContext(ctx).
		Where("invitee_email = ? AND status = ? AND expires_at > ?", email, InviteStatusPending, time.Now()).
		Order("created_at DESC").
		Find(&invites).Error
	return invites, err
}

// ConsumeInvite marks a pending invite accepted. The status guard in
// the WHERE clause makes consumption single-use even under concurrent
// accepts: exactly one update wins.
func (r *repository) ConsumeInvite(ctx context.Context, id, userID uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&Invite{}).
		Where("id = ? AND status = ?", id, InviteStatusPending).
		Updates(map[string]interface{}{
			"status":      InviteStatusAccepted,
			"accepted_at": now,
			"accepted_by": userID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInviteConsumed
	}
	return nil
}

func (r *repository) UpdateInviteStatus(ctx context.Context, id uuid.UUID, status InviteStatus) error {
	result := r.db.WithContext(ctx).
		Model(&Invite{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInviteNotFound
	}
	return nil
}

func (r *repository) RevokePendingInvites(ctx context.Context, teamID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&Invite{}).
		Where("team_id = ? AND status = ?", teamID, InviteStatusPending).
		Update("status", InviteStatusRevoked).Error
}

// ========== Join request operations ==========

func (r *repository) CreateRequest(ctx context.Context, request *JoinRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repository) GetRequestByID(ctx context.Context, id uuid.UUID) (*JoinRequest, error) {
	var request JoinRequest
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *repository) GetPendingRequest(ctx context.Context, teamID, userID uuid.UUID) (*JoinRequest, error) {
	var request JoinRequest
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ? AND status = ?", teamID, userID, JoinRequestStatusPending).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *repository) ListRequestsByTeam(ctx context.Context, teamID uuid.UUID, status *JoinRequestStatus) ([]*JoinRequest, error) {
	query := r.db.WithContext(ctx).Where("team_id = ?", teamID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var requests []*JoinRequest
	err := query.Order("created_at ASC").Find(&requests).Error
	return requests, err
}

func (r *repository) ListRequestsByUser(ctx context.Context, userID uuid.UUID) ([]*JoinRequest, error) {
	var requests []*JoinRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// DecideRequest transitions a pending request to a decided status. The
// status guard keeps decisions idempotent under concurrent approvals.
func (r *repository) DecideRequest(ctx context.Context, id uuid.UUID, status JoinRequestStatus, decidedBy uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&JoinRequest{}).
		Where("id = ? AND status = ?", id, JoinRequestStatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"decided_at": now,
			"decided_by": decidedBy,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRequestAlreadyDecided
	}
	return nil
}

func (r *repository) CancelPendingRequestsForUser(ctx context.Context, userID uuid.UUID, except *uuid.UUID) error {
	query := r.db.WithContext(ctx).
		Model(&JoinRequest{}).
		Where("user_id = ? AND status = ?", userID, JoinRequestStatusPending)
	if except != nil {
		query = query.Where("id <> ?", *except)
	}
	return query.Update("status", JoinRequestStatusCancelled).Error
}

func (r *repository) CancelPendingRequestsForTeam(ctx context.Context, teamID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&JoinRequest{}).
		Where("team_id = ? AND status = ?", teamID, JoinRequestStatusPending).
		Update("status", JoinRequestStatusCancelled).Error
}
