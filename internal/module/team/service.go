package team

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hackfest/server/internal/shared/config"
	"github.com/hackfest/server/internal/shared/metrics"
)

// SubmissionGuard reports whether a team's project submission has been
// finalized. Membership cannot change once it has.
type SubmissionGuard interface {
	HasFinalSubmission(ctx context.Context, teamID uuid.UUID) (bool, error)
}

// Service provides team formation business logic.
type Service struct {
	repo    Repository
	guard   SubmissionGuard
	emailer InviteEmailSender
	event   *config.EventConfig
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewService creates a new team service.
func NewService(repo Repository, guard SubmissionGuard, emailer InviteEmailSender, event *config.EventConfig, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		guard:   guard,
		emailer: emailer,
		event:   event,
		metrics: m,
		logger:  logger,
	}
}

// recordEvent and recordJoinConflict tolerate a nil metrics registry
// so tests can build the service without one.
func (s *Service) recordEvent(event string) {
	if s.metrics != nil {
		s.metrics.RecordTeamEvent(event)
	}
}

func (s *Service) recordJoinConflict() {
	if s.metrics != nil {
		s.metrics.TeamJoinConflicts.Inc()
	}
}

const inviteTTL = 24 * time.Hour

// ========== Team operations ==========

// CreateTeam creates a team with the caller as leader.
func (s *Service) CreateTeam(ctx context.Context, leaderID uuid.UUID, req *CreateTeamRequest) (*Team, error) {
	member, err := s.repo.GetMember(ctx, leaderID)
	if err != nil {
		return nil, err
	}
	if !member.RegistrationComplete {
		return nil, ErrRegistrationIncomplete
	}
	if member.HasTeam() {
		return nil, ErrAlreadyInTeam
	}

	if req.MaxMembers < s.minTeamSize() || req.MaxMembers > s.maxTeamSize() {
		return nil, ErrInvalidTeamSize
	}

	name := strings.TrimSpace(req.Name)
	if _, err := s.repo.GetTeamByName(ctx, name); err == nil {
		return nil, ErrTeamNameTaken
	} else if err != ErrTeamNotFound {
		return nil, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	txRepo := s.repo.WithTx(tx)

	team := &Team{
		ID:          uuid.New(),
		Name:        name,
		Description: req.Description,
		IdeaSummary: req.IdeaSummary,
		LeaderID:    leaderID,
		MaxMembers:  req.MaxMembers,
		Status:      TeamStatusForming,
		Open:        true,
	}

	if err := txRepo.CreateTeam(ctx, team); err != nil {
		return nil, err
	}

	if err := txRepo.StampMembership(ctx, leaderID, team.ID, RoleLeader); err != nil {
		return nil, err
	}

	// Creating a team withdraws the leader's own pending requests
	if err := txRepo.CancelPendingRequestsForUser(ctx, leaderID, nil); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	s.recordEvent("created")
	s.logger.Info("team created",
		zap.String("team_id", team.ID.String()),
		zap.String("leader_id", leaderID.String()),
		zap.String("name", team.Name),
	)

	return team, nil
}

// GetTeam returns a team with its member roster.
func (s *Service) GetTeam(ctx context.Context, teamID uuid.UUID) (*Team, []*Member, error) {
	team, err := s.repo.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.repo.ListMembers(ctx, teamID)
	if err != nil {
		return nil, nil, err
	}

	return team, members, nil
}

// GetMyTeam returns the caller's team, if any.
func (s *Service) GetMyTeam(ctx context.Context, userID uuid.UUID) (*Team, []*Member, error) {
	member, err := s.repo.GetMember(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if !member.HasTeam() {
		return nil, nil, ErrNotInTeam
	}

	return s.GetTeam(ctx, *member.TeamID)
}

// UpdateTeam updates team details. Leader only.
func (s *Service) UpdateTeam(ctx context.Context, teamID, userID uuid.UUID, req *UpdateTeamRequest) (*Team, error) {
	team, err := s.repo.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.LeaderID != userID {
		return nil, ErrNotTeamLeader
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != team.Name {
			if _, err := s.repo.GetTeamByName(ctx, name); err == nil {
				return nil, ErrTeamNameTaken
			} else if err != ErrTeamNotFound {
				return nil, err
			}
			team.Name = name
		}
	}
	if req.Description != nil {
		team.Description = *req.Description
	}
	if req.IdeaSummary != nil {
		team.IdeaSummary = *req.IdeaSummary
	}
	if req.Open != nil {
		team.Open = *req.Open
	}

	if err := s.repo.UpdateTeam(ctx, team); err != nil {
		return nil, err
	}

	return team, nil
}

// ListOpenTeams lists teams that are recruiting.
func (s *Service) ListOpenTeams(ctx context.Context, page, pageSize int) (*TeamListResponse, error) {
	return s.listTeams(ctx, true, page, pageSize)
}

// ListAllTeams lists every non-disbanded team (admin).
func (s *Service) ListAllTeams(ctx context.Context, page, pageSize int) (*TeamListResponse, error) {
	return s.listTeams(ctx, false, page, pageSize)
}

func (s *Service) listTeams(ctx context.Context, openOnly bool, page, pageSize int) (*TeamListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	teams, total, err := s.repo.ListTeams(ctx, openOnly, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	return &TeamListResponse{
		Teams:    teams,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// ========== Invite operations ==========

// GenerateInvite issues a single-use invite. Leader only. Capacity is
// not checked here; acceptance enforces it, so an invite to a full team
// simply fails later if nobody leaves first.
func (s *Service) GenerateInvite(ctx context.Context, teamID, inviterID uuid.UUID, req *CreateInviteRequest) (*Invite, error) {
	team, err := s.repo.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.LeaderID != inviterID {
		return nil, ErrNotTeamLeader
	}

	token, err := generateInviteToken(32)
	if err != nil {
		return nil, err
	}

	invite := &Invite{
		ID:           uuid.New(),
		TeamID:       teamID,
		InviterID:    inviterID,
		InviteeEmail: strings.ToLower(strings.TrimSpace(req.Email)),
		Token:        token,
		Status:       InviteStatusPending,
		ExpiresAt:    time.Now().Add(inviteTTL),
	}

	if err := s.repo.CreateInvite(ctx, invite); err != nil {
		return nil, err
	}

	if invite.InviteeEmail != "" && s.emailer != nil {
		inviter, err := s.repo.GetMember(ctx, inviterID)
		inviterName := ""
		if err == nil {
			inviterName = inviter.Name
		}
		if err := s.emailer.SendInvite(ctx, invite.InviteeEmail, team.Name, inviterName, token); err != nil {
			s.logger.Warn("invite email failed",
				zap.String("invite_id", invite.ID.String()),
				zap.Error(err),
			)
		}
	}

	s.recordEvent("invite_generated")
	s.logger.Info("invite created",
		zap.String("invite_id", invite.ID.String()),
		zap.String("team_id", teamID.String()),
	)

	return invite, nil
}

// RevokeInvite revokes a pending invite. Leader only.
func (s *Service) RevokeInvite(ctx context.Context, teamID, leaderID, inviteID uuid.UUID) error {
	team, err := s.repo.GetTeamByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team.LeaderID != leaderID {
		return ErrNotTeamLeader
	}

	invite, err := s.repo.GetInviteByID(ctx, inviteID)
	if err != nil {
		return err
	}
	if invite.TeamID != teamID {
		return ErrInviteNotFound
	}
	if !invite.IsPending() {
		return ErrInviteConsumed
	}

	return s.repo.UpdateInviteStatus(ctx, inviteID, InviteStatusRevoked)
}

// AcceptInvite joins the caller to the inviting team. The capacity
// check, invite consumption and membership stamp all happen inside one
// transaction holding the team row lock, so a full team can never be
// oversubscribed and an invite is spent exactly once.
func (s *Service) AcceptInvite(ctx context.Context, userID uuid.UUID, userEmail, token string) (*Team, error) {
	invite, err := s.repo.GetInviteByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if invite.InviteeEmail != "" && !strings.EqualFold(invite.InviteeEmail, userEmail) {
		return nil, ErrInviteNotForYou
	}
	if !invite.IsPending() {
		return nil, ErrInviteConsumed
	}
	if invite.IsExpired() {
		_ = s.repo.UpdateInviteStatus(ctx, invite.ID, InviteStatusExpired)
		return nil, ErrInviteExpired
	}

	member, err := s.repo.GetMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !member.RegistrationComplete {
		return nil, ErrRegistrationIncomplete
	}
	if member.HasTeam() {
		return nil, ErrAlreadyInTeam
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	txRepo := s.repo.WithTx(tx)

	team, err := txRepo.GetTeamByIDForUpdate(ctx, invite.TeamID)
	if err != nil {
		return nil, err
	}

	count, err := txRepo.CountMembers(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	if count >= s.capacity(team) {
		s.recordJoinConflict()
		return nil, ErrTeamFull
	}

	if err := txRepo.ConsumeInvite(ctx, invite.ID, userID); err != nil {
		return nil, err
	}

	if err := txRepo.StampMembership(ctx, userID, team.ID, RoleMember); err != nil {
		return nil, err
	}

	if err := s.settleTeamAfterJoin(ctx, txRepo, team, count+1); err != nil {
		return nil, err
	}

	// Joining a team withdraws the user's pending requests elsewhere
	if err := txRepo.CancelPendingRequestsForUser(ctx, userID, nil); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	s.recordEvent("invite_accepted")
	s.logger.Info("invite accepted",
		zap.String("invite_id", invite.ID.String()),
		zap.String("team_id", team.ID.String()),
		zap.String("user_id", userID.String()),
	)

	return team, nil
}

// DeclineInvite declines a pending invite addressed to the caller.
func (s *Service) DeclineInvite(ctx context.Context, userEmail, token string) error {
	invite, err := s.repo.GetInviteByToken(ctx, token)
	if err != nil {
		return err
	}
	if invite.InviteeEmail != "" && !strings.EqualFold(invite.InviteeEmail, userEmail) {
		return ErrInviteNotForYou
	}
	if !invite.IsPending() {
		return ErrInviteConsumed
	}

	return s.repo.UpdateInviteStatus(ctx, invite.ID, InviteStatusDeclined)
}

// ListTeamInvites lists a team's invites. Leader only.
func (s *Service) ListTeamInvites(ctx context.Context, teamID, leaderID uuid.UUID) ([]*Invite, error) {
	team, err := s.repo.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.LeaderID != leaderID {
		return nil, ErrNotTeamLeader
	}

	return s.repo.ListInvitesByTeam(ctx, teamID)
}

// ListMyInvites lists pending invites addressed to the caller's email.
func (s *Service) ListMyInvites(ctx context.Context, email string) ([]*Invite, error) {
	return s.repo.ListPendingInvitesByEmail(ctx, strings.ToLower(email))
}

// ========== Join request operations ==========

// RequestToJoin files a request to join an open team. A duplicate
// pending request is returned as-is rather than duplicated.
func (s *Service) RequestToJoin(ctx context.Context, userID, teamID uuid.UUID, message string) (*JoinRequest, error) {
	member, err := s.repo.GetMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !member.RegistrationComplete {
		return nil, ErrRegistrationIncomplete
	}
	if member.HasTeam() {
		return nil, ErrAlreadyInTeam
	}

	team, err := s.repo.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !team.Open {
		return nil, ErrTeamNotRecruiting
	}

	count, err := s.repo.CountMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if count >= s.capacity(team) {
		return nil, ErrTeamFull
	}

	// Idempotent: an existing pending request is the result
	if existing, err := s.repo.GetPendingRequest(ctx, teamID, userID); err == nil {
		return existing, nil
	} else if err != ErrRequestNotFound {
		return nil, err
	}

	request := &JoinRequest{
		ID:      uuid.New(),
		TeamID:  teamID,
		UserID:  userID,
		Message: message,
		Status:  JoinRequestStatusPending,
	}

	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info("join request created",
		zap.String("request_id", request.ID.String()),
		zap.String("team_id", teamID.String()),
		zap.String("user_id", userID.String()),
	)

	return request, nil
}

// CancelRequest withdraws the caller's own pending request.
func (s *Service) CancelRequest(ctx context.Context, userID, requestID uuid.UUID) error {
	request, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.UserID != userID {
		return ErrRequestNotFound
	}

	return s.repo.DecideRequest(ctx, requestID, JoinRequestStatusCancelled, userID)
}

// ApproveRequest admits the applicant. Like AcceptInvite, the capacity
// check and membership stamp run inside one transaction on the team
// row lock.
func (s *Service) ApproveRequest(ctx context.Context, teamID, leaderID, requestID uuid.UUID) (*JoinRequest, error) {
	team, err := s.repo.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.LeaderID != leaderID {
		return nil, ErrNotTeamLeader
	}

	request, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.TeamID != teamID {
		return nil, ErrRequestNotFound
	}
	if !request.IsPending() {
		return nil, ErrRequestAlreadyDecided
	}

	applicant, err := s.repo.GetMember(ctx, request.UserID)
	if err != nil {
		return nil, err
	}
	if applicant.HasTeam() {
		// Applicant joined another team in the meantime
		_ = s.repo.DecideRequest(ctx, requestID, JoinRequestStatusCancelled, leaderID)
		s.recordJoinConflict()
		return nil, ErrAlreadyInTeam
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	txRepo := s.repo.WithTx(tx)

	locked, err := txRepo.GetTeamByIDForUpdate(ctx, teamID)
	if err != nil {
		return nil, err
	}

	count, err := txRepo.CountMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if count >= s.capacity(locked) {
		s.recordJoinConflict()
		return nil, ErrTeamFull
	}

	if err := txRepo.DecideRequest(ctx, requestID, JoinRequestStatusApproved, leaderID); err != nil {
		return nil, err
	}

	if err := txRepo.StampMembership(ctx, request.UserID, teamID, RoleMember); err != nil {
		return nil, err
	}

	if err := s.settleTeamAfterJoin(ctx, txRepo, locked, count+1); err != nil {
		return nil, err
	}

	if err := txRepo.CancelPendingRequestsForUser(ctx, request.UserID, &requestID); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	s.recordEvent("request_approved")
	s.logger.Info("join request approved",
		zap.String("request_id", requestID.String()),
		zap.String("team_id", teamID.String()),
		zap.String("user_id", request.UserID.String()),
	)

	return s.repo.GetRequestByID(ctx, requestID)
}

// RejectRequest declines a pending request. Leader only. A request
// that was already decided is gone from the leader's queue, so a
// repeat reject reports not-found rather than a conflict.
func (s *Service) RejectRequest(ctx context.Context, teamID, leaderID, requestID uuid.UUID) error {
	team, err := s.repo.GetTeamByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team.LeaderID != leaderID {
		return ErrNotTeamLeader
	}

	request, err := s.repo.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.TeamID != teamID || !request.IsPending() {
		return ErrRequestNotFound
	}

	if err := s.repo.DecideRequest(ctx, requestID, JoinRequestStatusRejected, leaderID); err != nil {
		if errors.Is(err, ErrRequestAlreadyDecided) {
			return ErrRequestNotFound
		}
		return err
	}

	s.recordEvent("request_rejected")
	return nil
}

// ListTeamRequests lists a team's join requests. Leader only.
func (s *Service) ListTeamRequests(ctx context.Context, teamID, leaderID uuid.UUID, status *JoinRequestStatus) ([]*JoinRequest, error) {
	team, err := s.repo.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.LeaderID != leaderID {
		return nil, ErrNotTeamLeader
	}

	return s.repo.ListRequestsByTeam(ctx, teamID, status)
}

// ListMyRequests lists the caller's join requests.
func (s *Service) ListMyRequests(ctx context.Context, userID uuid.UUID) ([]*JoinRequest, error) {
	return s.repo.ListRequestsByUser(ctx, userID)
}

// ========== Membership operations ==========

// LeaveTeam removes the caller from their team. The leader cannot
// leave; they transfer leadership or disband instead.
func (s *Service) LeaveTeam(ctx context.Context, userID uuid.UUID) error {
	member, err := s.repo.GetMember(ctx, userID)
	if err != nil {
		return err
	}
	if !member.HasTeam() {
		return ErrNotInTeam
	}
	if member.TeamRole == RoleLeader {
		return ErrLeaderCannotLeave
	}

	teamID := *member.TeamID
	if err := s.checkNotFinalized(ctx, teamID); err != nil {
		return err
	}

	if err := s.removeFromTeam(ctx, teamID, userID); err != nil {
		return err
	}

	s.recordEvent("member_left")
	return nil
}

// RemoveMember removes a member from the team. Leader only.
func (s *Service) RemoveMember(ctx context.Context, teamID, leaderID, targetID uuid.UUID) error {
	team, err := s.repo.GetTeamByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team.LeaderID != leaderID {
		return ErrNotTeamLeader
	}
	if targetID == leaderID {
		return ErrCannotRemoveLeader
	}

	target, err := s.repo.GetMember(ctx, targetID)
	if err != nil {
		return err
	}
	if target.TeamID == nil || *target.TeamID != teamID {
		return ErrNotTeamMember
	}

	if err := s.checkNotFinalized(ctx, teamID); err != nil {
		return err
	}

	return s.removeFromTeam(ctx, teamID, targetID)
}

// TransferLeadership hands team leadership to another member.
func (s *Service) TransferLeadership(ctx context.Context, teamID, leaderID, newLeaderID uuid.UUID) (*Team, error) {
	team, err := s.repo.GetTeamByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.LeaderID != leaderID {
		return nil, ErrNotTeamLeader
	}

	newLeader, err := s.repo.GetMember(ctx, newLeaderID)
	if err != nil {
		return nil, err
	}
	if newLeader.TeamID == nil || *newLeader.TeamID != teamID {
		return nil, ErrNotTeamMember
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	txRepo := s.repo.WithTx(tx)

	team.LeaderID = newLeaderID
	if err := txRepo.UpdateTeam(ctx, team); err != nil {
		return nil, err
	}
	if err := txRepo.SetMemberRole(ctx, leaderID, RoleMember); err != nil {
		return nil, err
	}
	if err := txRepo.SetMemberRole(ctx, newLeaderID, RoleLeader); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	s.logger.Info("leadership transferred",
		zap.String("team_id", teamID.String()),
		zap.String("from", leaderID.String()),
		zap.String("to", newLeaderID.String()),
	)

	return team, nil
}

// DisbandTeam dissolves the team and releases all members. Leader only.
func (s *Service) DisbandTeam(ctx context.Context, teamID, leaderID uuid.UUID) error {
	team, err := s.repo.GetTeamByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team.LeaderID != leaderID {
		return ErrNotTeamLeader
	}

	if err := s.checkNotFinalized(ctx, teamID); err != nil {
		return err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	txRepo := s.repo.WithTx(tx)

	locked, err := txRepo.GetTeamByIDForUpdate(ctx, teamID)
	if err != nil {
		return err
	}

	locked.Status = TeamStatusDisbanded
	locked.Open = false
	if err := txRepo.UpdateTeam(ctx, locked); err != nil {
		return err
	}
	if err := txRepo.ClearTeamMemberships(ctx, teamID); err != nil {
		return err
	}
	if err := txRepo.RevokePendingInvites(ctx, teamID); err != nil {
		return err
	}
	if err := txRepo.CancelPendingRequestsForTeam(ctx, teamID); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	s.logger.Info("team disbanded",
		zap.String("team_id", teamID.String()),
		zap.String("leader_id", leaderID.String()),
	)

	return nil
}

// ========== Helpers ==========

func (s *Service) removeFromTeam(ctx context.Context, teamID, userID uuid.UUID) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	txRepo := s.repo.WithTx(tx)

	team, err := txRepo.GetTeamByIDForUpdate(ctx, teamID)
	if err != nil {
		return err
	}

	if err := txRepo.ClearMembership(ctx, userID); err != nil {
		return err
	}

	count, err := txRepo.CountMembers(ctx, teamID)
	if err != nil {
		return err
	}

	// Dropping below minimum reverts the team to forming
	if count < s.minTeamSize() && team.Status == TeamStatusComplete {
		team.Status = TeamStatusForming
		if err := txRepo.UpdateTeam(ctx, team); err != nil {
			return err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	s.logger.Info("member left team",
		zap.String("team_id", teamID.String()),
		zap.String("user_id", userID.String()),
	)

	return nil
}

// settleTeamAfterJoin updates the team status after membership grows
// to newCount. Reaching the valid size range marks the team complete;
// reaching capacity closes recruiting.
func (s *Service) settleTeamAfterJoin(ctx context.Context, repo Repository, team *Team, newCount int) error {
	changed := false
	if newCount >= s.minTeamSize() && team.Status == TeamStatusForming {
		team.Status = TeamStatusComplete
		changed = true
	}
	if newCount >= s.capacity(team) && team.Open {
		team.Open = false
		changed = true
	}
	if !changed {
		return nil
	}
	return repo.UpdateTeam(ctx, team)
}

func (s *Service) checkNotFinalized(ctx context.Context, teamID uuid.UUID) error {
	if s.guard == nil {
		return nil
	}
	final, err := s.guard.HasFinalSubmission(ctx, teamID)
	if err != nil {
		return err
	}
	if final {
		return ErrTeamFinalized
	}
	return nil
}

// capacity returns the team's declared member limit, bounded by the
// event-wide maximum for rows predating per-team limits.
func (s *Service) capacity(team *Team) int {
	if team.MaxMembers > 0 {
		return team.MaxMembers
	}
	return s.maxTeamSize()
}

func (s *Service) minTeamSize() int {
	if s.event != nil && s.event.MinTeamSize > 0 {
		return s.event.MinTeamSize
	}
	return 3
}

func (s *Service) maxTeamSize() int {
	if s.event != nil && s.event.MaxTeamSize > 0 {
		return s.event.MaxTeamSize
	}
	return 4
}

// generateInviteToken returns a URL-safe random token.
func generateInviteToken(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
