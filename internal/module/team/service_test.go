package team

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hackfest/server/internal/shared/config"
)

// --- Mock implementations ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateTeam(ctx context.Context, team *Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockRepository) GetTeamByID(ctx context.Context, id uuid.UUID) (*Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Team), args.Error(1)
}

func (m *MockRepository) GetTeamByIDForUpdate(ctx context.Context, id uuid.UUID) (*Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Team), args.Error(1)
}

func (m *MockRepository) GetTeamByName(ctx context.Context, name string) (*Team, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Team), args.Error(1)
}

func (m *MockRepository) UpdateTeam(ctx context.Context, team *Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockRepository) ListTeams(ctx context.Context, openOnly bool, offset, limit int) ([]*TeamSummary, int64, error) {
	args := m.Called(ctx, openOnly, offset, limit)
	return args.Get(0).([]*TeamSummary), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) GetMember(ctx context.Context, userID uuid.UUID) (*Member, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Member), args.Error(1)
}

func (m *MockRepository) ListMembers(ctx context.Context, teamID uuid.UUID) ([]*Member, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).([]*Member), args.Error(1)
}

func (m *MockRepository) CountMembers(ctx context.Context, teamID uuid.UUID) (int, error) {
	args := m.Called(ctx, teamID)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) StampMembership(ctx context.Context, userID, teamID uuid.UUID, role MemberRole) error {
	args := m.Called(ctx, userID, teamID, role)
	return args.Error(0)
}

func (m *MockRepository) ClearMembership(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockRepository) ClearTeamMemberships(ctx context.Context, teamID uuid.UUID) error {
	args := m.Called(ctx, teamID)
	return args.Error(0)
}

func (m *MockRepository) SetMemberRole(ctx context.Context, userID uuid.UUID, role MemberRole) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

func (m *MockRepository) CreateInvite(ctx context.Context, invite *Invite) error {
	args := m.Called(ctx, invite)
	return args.Error(0)
}

func (m *MockRepository) GetInviteByToken(ctx context.Context, token string) (*Invite, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Invite), args.Error(1)
}

func (m *MockRepository) GetInviteByID(ctx context.Context, id uuid.UUID) (*Invite, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Invite), args.Error(1)
}

func (m *MockRepository) ListInvitesByTeam(ctx context.Context, teamID uuid.UUID) ([]*Invite, error) {
	args := m.Called(ctx, teamID)
	return args.Get(0).([]*Invite), args.Error(1)
}

func (m *MockRepository) ListPendingInvitesByEmail(ctx context.Context, email string) ([]*Invite, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]*Invite), args.Error(1)
}

func (m *MockRepository) ConsumeInvite(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockRepository) UpdateInviteStatus(ctx context.Context, id uuid.UUID, status InviteStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockRepository) RevokePendingInvites(ctx context.Context, teamID uuid.UUID) error {
	args := m.Called(ctx, teamID)
	return args.Error(0)
}

func (m *MockRepository) CreateRequest(ctx context.Context, request *JoinRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockRepository) GetRequestByID(ctx context.Context, id uuid.UUID) (*JoinRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*JoinRequest), args.Error(1)
}

func (m *MockRepository) GetPendingRequest(ctx context.Context, teamID, userID uuid.UUID) (*JoinRequest, error) {
	args := m.Called(ctx, teamID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*JoinRequest), args.Error(1)
}

func (m *MockRepository) ListRequestsByTeam(ctx context.Context, teamID uuid.UUID, status *JoinRequestStatus) ([]*JoinRequest, error) {
	args := m.Called(ctx, teamID, status)
	return args.Get(0).([]*JoinRequest), args.Error(1)
}

func (m *MockRepository) ListRequestsByUser(ctx context.Context, userID uuid.UUID) ([]*JoinRequest, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*JoinRequest), args.Error(1)
}

func (m *MockRepository) DecideRequest(ctx context.Context, id uuid.UUID, status JoinRequestStatus, decidedBy uuid.UUID) error {
	args := m.Called(ctx, id, status, decidedBy)
	return args.Error(0)
}

func (m *MockRepository) CancelPendingRequestsForUser(ctx context.Context, userID uuid.UUID, except *uuid.UUID) error {
	args := m.Called(ctx, userID, except)
	return args.Error(0)
}

func (m *MockRepository) CancelPendingRequestsForTeam(ctx context.Context, teamID uuid.UUID) error {
	args := m.Called(ctx, teamID)
	return args.Error(0)
}

func (m *MockRepository) WithTx(tx *gorm.DB) Repository {
	return m
}

func (m *MockRepository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gorm.DB), args.Error(1)
}

type MockSubmissionGuard struct {
	mock.Mock
}

func (m *MockSubmissionGuard) HasFinalSubmission(ctx context.Context, teamID uuid.UUID) (bool, error) {
	args := m.Called(ctx, teamID)
	return args.Bool(0), args.Error(1)
}

// --- Helpers ---

func testEvent() *config.EventConfig {
	return &config.EventConfig{MinTeamSize: 3, MaxTeamSize: 4}
}

func newTestService(repo Repository, guard SubmissionGuard) *Service {
	return NewService(repo, guard, nil, testEvent(), nil, zap.NewNop())
}

func freeMember(id uuid.UUID) *Member {
	return &Member{ID: id, Email: "member@example.com", Name: "Member", RegistrationComplete: true}
}

func teamMember(id, teamID uuid.UUID, role MemberRole) *Member {
	return &Member{ID: id, TeamID: &teamID, TeamRole: role, RegistrationComplete: true}
}

// txConn satisfies gorm's ConnPool and TxCommitter interfaces so a
// test can walk a service's whole transactional path, commit included,
// without a database.
type txConn struct{}

func (*txConn) PrepareContext(context.Context, string) (*sql.Stmt, error) { return nil, nil }
func (*txConn) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, nil
}
func (*txConn) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}
func (*txConn) QueryRowContext(context.Context, string, ...interface{}) *sql.Row { return nil }
func (*txConn) Commit() error                                                    { return nil }
func (*txConn) Rollback() error                                                  { return nil }

func stubTx() *gorm.DB {
	return &gorm.DB{Config: &gorm.Config{}, Statement: &gorm.Statement{ConnPool: &txConn{}}}
}

// --- Tests ---

func TestService_CreateTeam_Guards(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("requires complete registration", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		repo.On("GetMember", ctx, userID).Return(&Member{ID: userID}, nil)

		_, err := svc.CreateTeam(ctx, userID, &CreateTeamRequest{Name: "Rocket", MaxMembers: 4})
		assert.ErrorIs(t, err, ErrRegistrationIncomplete)
	})

	t.Run("rejects user already in a team", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		teamID := uuid.New()
		repo.On("GetMember", ctx, userID).Return(teamMember(userID, teamID, RoleMember), nil)

		_, err := svc.CreateTeam(ctx, userID, &CreateTeamRequest{Name: "Rocket", MaxMembers: 4})
		assert.ErrorIs(t, err, ErrAlreadyInTeam)
	})

	t.Run("rejects size outside event bounds", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		repo.On("GetMember", ctx, userID).Return(freeMember(userID), nil)

		_, err := svc.CreateTeam(ctx, userID, &CreateTeamRequest{Name: "Rocket", MaxMembers: 2})
		assert.ErrorIs(t, err, ErrInvalidTeamSize)
	})

	t.Run("rejects taken name", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		repo.On("GetMember", ctx, userID).Return(freeMember(userID), nil)
		repo.On("GetTeamByName", ctx, "Rocket").Return(&Team{ID: uuid.New(), Name: "Rocket"}, nil)

		_, err := svc.CreateTeam(ctx, userID, &CreateTeamRequest{Name: "Rocket", MaxMembers: 4})
		assert.ErrorIs(t, err, ErrTeamNameTaken)
	})
}

func TestService_GenerateInvite(t *testing.T) {
	ctx := context.Background()
	teamID := uuid.New()
	leaderID := uuid.New()

	t.Run("leader only", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		repo.On("GetTeamByID", ctx, teamID).Return(&Team{ID: teamID, LeaderID: leaderID}, nil)

		_, err := svc.GenerateInvite(ctx, teamID, uuid.New(), &CreateInviteRequest{})
		assert.ErrorIs(t, err, ErrNotTeamLeader)
	})

	t.Run("does not consult member count", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		repo.On("GetTeamByID", ctx, teamID).Return(&Team{ID: teamID, LeaderID: leaderID, MaxMembers: 4}, nil)
		repo.On("CreateInvite", ctx, mock.AnythingOfType("*team.Invite")).Return(nil)

		invite, err := svc.GenerateInvite(ctx, teamID, leaderID, &CreateInviteRequest{})
		require.NoError(t, err)
		assert.NotEmpty(t, invite.Token)
		repo.AssertNotCalled(t, "CountMembers")
	})

	t.Run("creates pending single-use invite", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		repo.On("GetTeamByID", ctx, teamID).Return(&Team{ID: teamID, LeaderID: leaderID, Name: "Rocket"}, nil)
		repo.On("CreateInvite", ctx, mock.AnythingOfType("*team.Invite")).Return(nil)

		invite, err := svc.GenerateInvite(ctx, teamID, leaderID, &CreateInviteRequest{Email: "New@Example.com"})
		require.NoError(t, err)

		assert.Equal(t, InviteStatusPending, invite.Status)
		assert.Equal(t, "new@example.com", invite.InviteeEmail)
		assert.NotEmpty(t, invite.Token)
		assert.True(t, invite.ExpiresAt.After(time.Now()))
	})
}

func TestService_AcceptInvite_Guards(t *testing.T) {
	ctx := context.Background()
	teamID := uuid.New()
	userID := uuid.New()

	pendingInvite := func() *Invite {
		return &Invite{
			ID:        uuid.New(),
			TeamID:    teamID,
			Token:     "tok",
			Status:    InviteStatusPending,
			ExpiresAt: time.Now().Add(time.Hour),
		}
	}

	t.Run("rejects invite for another email", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		inv := pendingInvite()
		inv.InviteeEmail = "someone-else@example.com"
		repo.On("GetInviteByToken", ctx, "tok").Return(inv, nil)

		_, err := svc.AcceptInvite(ctx, userID, "me@example.com", "tok")
		assert.ErrorIs(t, err, ErrInviteNotForYou)
	})

	t.Run("rejects consumed invite", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		inv := pendingInvite()
		inv.Status = InviteStatusAccepted
		repo.On("GetInviteByToken", ctx, "tok").Return(inv, nil)

		_, err := svc.AcceptInvite(ctx, userID, "me@example.com", "tok")
		assert.ErrorIs(t, err, ErrInviteConsumed)
	})

	t.Run("expires stale invite", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		inv := pendingInvite()
		inv.ExpiresAt = time.Now().Add(-time.Hour)
		repo.On("GetInviteByToken", ctx, "tok").Return(inv, nil)
		repo.On("UpdateInviteStatus", ctx, inv.ID, InviteStatusExpired).Return(nil)

		_, err := svc.AcceptInvite(ctx, userID, "me@example.com", "tok")
		assert.ErrorIs(t, err, ErrInviteExpired)
		repo.AssertCalled(t, "UpdateInviteStatus", ctx, inv.ID, InviteStatusExpired)
	})

	t.Run("rejects user already in a team", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		repo.On("GetInviteByToken", ctx, "tok").Return(pendingInvite(), nil)
		repo.On("GetMember", ctx, userID).Return(teamMember(userID, uuid.New(), RoleMember), nil)

		_, err := svc.AcceptInvite(ctx, userID, "me@example.com", "tok")
		assert.ErrorIs(t, err, ErrAlreadyInTeam)
	})

	t.Run("requires complete registration", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		repo.On("GetInviteByToken", ctx, "tok").Return(pendingInvite(), nil)
		repo.On("GetMember", ctx, userID).Return(&Member{ID: userID}, nil)

		_, err := svc.AcceptInvite(ctx, userID, "me@example.com", "tok")
		assert.ErrorIs(t, err, ErrRegistrationIncomplete)
	})
}

func TestService_AcceptInvite_Commit(t *testing.T) {
	ctx := context.Background()
	teamID := uuid.New()
	leaderID := uuid.New()
	userID := uuid.New()

	pendingInvite := func() *Invite {
		return &Invite{
			ID:        uuid.New(),
			TeamID:    teamID,
			Token:     "tok",
			Status:    InviteStatusPending,
			ExpiresAt: time.Now().Add(time.Hour),
		}
	}
	formingTeam := func() *Team {
		return &Team{ID: teamID, LeaderID: leaderID, MaxMembers: 4, Status: TeamStatusForming, Open: true}
	}

	t.Run("joins and consumes the invite exactly once", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		inv := pendingInvite()
		repo.On("GetInviteByToken", ctx, "tok").Return(inv, nil)
		repo.On("GetMember", ctx, userID).Return(freeMember(userID), nil)
		repo.On("BeginTx", ctx).Return(stubTx(), nil)
		repo.On("GetTeamByIDForUpdate", ctx, teamID).Return(formingTeam(), nil)
		repo.On("CountMembers", ctx, teamID).Return(2, nil)
		repo.On("ConsumeInvite", ctx, inv.ID, userID).Return(nil)
		repo.On("StampMembership", ctx, userID, teamID, RoleMember).Return(nil)
		repo.On("UpdateTeam", ctx, mock.AnythingOfType("*team.Team")).Return(nil)
		repo.On("CancelPendingRequestsForUser", ctx, userID, (*uuid.UUID)(nil)).Return(nil)

		team, err := svc.AcceptInvite(ctx, userID, "me@example.com", "tok")
		require.NoError(t, err)
		assert.Equal(t, teamID, team.ID)
		repo.AssertNumberOfCalls(t, "ConsumeInvite", 1)
		repo.AssertNumberOfCalls(t, "StampMembership", 1)
	})

	t.Run("full team is rejected inside the transaction", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		repo.On("GetInviteByToken", ctx, "tok").Return(pendingInvite(), nil)
		repo.On("GetMember", ctx, userID).Return(freeMember(userID), nil)
		repo.On("BeginTx", ctx).Return(stubTx(), nil)
		repo.On("GetTeamByIDForUpdate", ctx, teamID).Return(formingTeam(), nil)
		repo.On("CountMembers", ctx, teamID).Return(4, nil)

		_, err := svc.AcceptInvite(ctx, userID, "me@example.com", "tok")
		assert.ErrorIs(t, err, ErrTeamFull)
		repo.AssertNotCalled(t, "ConsumeInvite", mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "StampMembership", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_RequestToJoin(t *testing.T) {
	ctx := context.Background()
	teamID := uuid.New()
	userID := uuid.New()

	openTeam := func() *Team {
		return &Team{ID: teamID, LeaderID: uuid.New(), Status: TeamStatusForming, Open: true}
	}

	t.Run("creates pending request", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		repo.On("GetMember", ctx, userID).Return(freeMember(userID), nil)
		repo.On("GetTeamByID", ctx, teamID).Return(openTeam(), nil)
		repo.On("CountMembers", ctx, teamID).Return(2, nil)
		repo.On("GetPendingRequest", ctx, teamID, userID).Return(nil, ErrRequestNotFound)
		repo.On("CreateRequest", ctx, mock.AnythingOfType("*team.JoinRequest")).Return(nil)

		request, err := svc.RequestToJoin(ctx, userID, teamID, "let me in")
		require.NoError(t, err)
		assert.Equal(t, JoinRequestStatusPending, request.Status)
		assert.Equal(t, "let me in", request.Message)
	})

	t.Run("duplicate pending request is returned, not duplicated", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		existing := &JoinRequest{ID: uuid.New(), TeamID: teamID, UserID: userID, Status: JoinRequestStatusPending}
		repo.On("GetMember", ctx, userID).Return(freeMember(userID), nil)
		repo.On("GetTeamByID", ctx, teamID).Return(openTeam(), nil)
		repo.On("CountMembers", ctx, teamID).Return(2, nil)
		repo.On("GetPendingRequest", ctx, teamID, userID).Return(existing, nil)

		request, err := svc.RequestToJoin(ctx, userID, teamID, "again")
		require.NoError(t, err)
		assert.Equal(t, existing.ID, request.ID)
		repo.AssertNotCalled(t, "CreateRequest")
	})

	t.Run("rejects closed team", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		closed := openTeam()
		closed.Open = false
		repo.On("GetMember", ctx, userID).Return(freeMember(userID), nil)
		repo.On("GetTeamByID", ctx, teamID).Return(closed, nil)

		_, err := svc.RequestToJoin(ctx, userID, teamID, "")
		assert.ErrorIs(t, err, ErrTeamNotRecruiting)
	})

	t.Run("rejects full team", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		repo.On("GetMember", ctx, userID).Return(freeMember(userID), nil)
		repo.On("GetTeamByID", ctx, teamID).Return(openTeam(), nil)
		repo.On("CountMembers", ctx, teamID).Return(4, nil)

		_, err := svc.RequestToJoin(ctx, userID, teamID, "")
		assert.ErrorIs(t, err, ErrTeamFull)
	})

	t.Run("honors the team's own member cap", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		small := openTeam()
		small.MaxMembers = 3
		repo.On("GetMember", ctx, userID).Return(freeMember(userID), nil)
		repo.On("GetTeamByID", ctx, teamID).Return(small, nil)
		repo.On("CountMembers", ctx, teamID).Return(3, nil)

		_, err := svc.RequestToJoin(ctx, userID, teamID, "")
		assert.ErrorIs(t, err, ErrTeamFull)
	})
}

func TestService_ApproveRequest_Guards(t *testing.T) {
	ctx := context.Background()
	teamID := uuid.New()
	leaderID := uuid.New()
	applicantID := uuid.New()

	team := func() *Team {
		return &Team{ID: teamID, LeaderID: leaderID, Status: TeamStatusForming, Open: true}
	}

	t.Run("leader only", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		repo.On("GetTeamByID", ctx, teamID).Return(team(), nil)

		_, err := svc.ApproveRequest(ctx, teamID, uuid.New(), uuid.New())
		assert.ErrorIs(t, err, ErrNotTeamLeader)
	})

	t.Run("rejects decided request", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		requestID := uuid.New()
		repo.On("GetTeamByID", ctx, teamID).Return(team(), nil)
		repo.On("GetRequestByID", ctx, requestID).Return(&JoinRequest{
			ID: requestID, TeamID: teamID, UserID: applicantID, Status: JoinRequestStatusRejected,
		}, nil)

		_, err := svc.ApproveRequest(ctx, teamID, leaderID, requestID)
		assert.ErrorIs(t, err, ErrRequestAlreadyDecided)
	})

	t.Run("cancels request when applicant joined elsewhere", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		requestID := uuid.New()
		repo.On("GetTeamByID", ctx, teamID).Return(team(), nil)
		repo.On("GetRequestByID", ctx, requestID).Return(&JoinRequest{
			ID: requestID, TeamID: teamID, UserID: applicantID, Status: JoinRequestStatusPending,
		}, nil)
		repo.On("GetMember", ctx, applicantID).Return(teamMember(applicantID, uuid.New(), RoleMember), nil)
		repo.On("DecideRequest", ctx, requestID, JoinRequestStatusCancelled, leaderID).Return(nil)

		_, err := svc.ApproveRequest(ctx, teamID, leaderID, requestID)
		assert.ErrorIs(t, err, ErrAlreadyInTeam)
		repo.AssertCalled(t, "DecideRequest", ctx, requestID, JoinRequestStatusCancelled, leaderID)
	})
}

func TestService_ApproveRequest_Commit(t *testing.T) {
	ctx := context.Background()
	teamID := uuid.New()
	leaderID := uuid.New()
	applicantID := uuid.New()
	requestID := uuid.New()

	formingTeam := func() *Team {
		return &Team{ID: teamID, LeaderID: leaderID, MaxMembers: 4, Status: TeamStatusForming, Open: true}
	}
	pendingRequest := func() *JoinRequest {
		return &JoinRequest{ID: requestID, TeamID: teamID, UserID: applicantID, Status: JoinRequestStatusPending}
	}

	t.Run("approves and stamps membership once", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		repo.On("GetTeamByID", ctx, teamID).Return(formingTeam(), nil)
		repo.On("GetRequestByID", ctx, requestID).Return(pendingRequest(), nil).Once()
		repo.On("GetMember", ctx, applicantID).Return(freeMember(applicantID), nil)
		repo.On("BeginTx", ctx).Return(stubTx(), nil)
		repo.On("GetTeamByIDForUpdate", ctx, teamID).Return(formingTeam(), nil)
		repo.On("CountMembers", ctx, teamID).Return(2, nil)
		repo.On("DecideRequest", ctx, requestID, JoinRequestStatusApproved, leaderID).Return(nil)
		repo.On("StampMembership", ctx, applicantID, teamID, RoleMember).Return(nil)
		repo.On("UpdateTeam", ctx, mock.AnythingOfType("*team.Team")).Return(nil)
		repo.On("CancelPendingRequestsForUser", ctx, applicantID, &requestID).Return(nil)

		approved := pendingRequest()
		approved.Status = JoinRequestStatusApproved
		repo.On("GetRequestByID", ctx, requestID).Return(approved, nil)

		request, err := svc.ApproveRequest(ctx, teamID, leaderID, requestID)
		require.NoError(t, err)
		assert.Equal(t, JoinRequestStatusApproved, request.Status)
		repo.AssertNumberOfCalls(t, "StampMembership", 1)
		repo.AssertCalled(t, "CancelPendingRequestsForUser", ctx, applicantID, &requestID)
	})

	t.Run("full team is rejected inside the transaction", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		repo.On("GetTeamByID", ctx, teamID).Return(formingTeam(), nil)
		repo.On("GetRequestByID", ctx, requestID).Return(pendingRequest(), nil)
		repo.On("GetMember", ctx, applicantID).Return(freeMember(applicantID), nil)
		repo.On("BeginTx", ctx).Return(stubTx(), nil)
		repo.On("GetTeamByIDForUpdate", ctx, teamID).Return(formingTeam(), nil)
		repo.On("CountMembers", ctx, teamID).Return(4, nil)

		_, err := svc.ApproveRequest(ctx, teamID, leaderID, requestID)
		assert.ErrorIs(t, err, ErrTeamFull)
		repo.AssertNotCalled(t, "StampMembership", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

// A user with requests pending at two teams joins whichever approves
// first; the slower team's approval cancels the stale request.
func TestService_ApproveRequest_TwoTeams(t *testing.T) {
	ctx := context.Background()
	applicantID := uuid.New()

	alphaID, alphaLeader := uuid.New(), uuid.New()
	betaID, betaLeader := uuid.New(), uuid.New()
	alphaRequest := uuid.New()
	betaRequest := uuid.New()

	repo := new(MockRepository)
	svc := newTestService(repo, nil)

	alpha := &Team{ID: alphaID, LeaderID: alphaLeader, MaxMembers: 4, Status: TeamStatusForming, Open: true}
	repo.On("GetTeamByID", ctx, alphaID).Return(alpha, nil)
	repo.On("GetRequestByID", ctx, alphaRequest).Return(&JoinRequest{
		ID: alphaRequest, TeamID: alphaID, UserID: applicantID, Status: JoinRequestStatusPending,
	}, nil).Once()
	repo.On("GetMember", ctx, applicantID).Return(freeMember(applicantID), nil).Once()
	repo.On("BeginTx", ctx).Return(stubTx(), nil)
	repo.On("GetTeamByIDForUpdate", ctx, alphaID).Return(alpha, nil)
	repo.On("CountMembers", ctx, alphaID).Return(2, nil)
	repo.On("DecideRequest", ctx, alphaRequest, JoinRequestStatusApproved, alphaLeader).Return(nil)
	repo.On("StampMembership", ctx, applicantID, alphaID, RoleMember).Return(nil)
	repo.On("UpdateTeam", ctx, mock.AnythingOfType("*team.Team")).Return(nil)
	repo.On("CancelPendingRequestsForUser", ctx, applicantID, &alphaRequest).Return(nil)
	repo.On("GetRequestByID", ctx, alphaRequest).Return(&JoinRequest{
		ID: alphaRequest, TeamID: alphaID, UserID: applicantID, Status: JoinRequestStatusApproved,
	}, nil)

	_, err := svc.ApproveRequest(ctx, alphaID, alphaLeader, alphaRequest)
	require.NoError(t, err)

	// The applicant now belongs to alpha; beta's approval must lose.
	repo.On("GetTeamByID", ctx, betaID).Return(&Team{
		ID: betaID, LeaderID: betaLeader, MaxMembers: 4, Status: TeamStatusForming, Open: true,
	}, nil)
	repo.On("GetRequestByID", ctx, betaRequest).Return(&JoinRequest{
		ID: betaRequest, TeamID: betaID, UserID: applicantID, Status: JoinRequestStatusPending,
	}, nil)
	repo.On("GetMember", ctx, applicantID).Return(teamMember(applicantID, alphaID, RoleMember), nil)
	repo.On("DecideRequest", ctx, betaRequest, JoinRequestStatusCancelled, betaLeader).Return(nil)

	_, err = svc.ApproveRequest(ctx, betaID, betaLeader, betaRequest)
	assert.ErrorIs(t, err, ErrAlreadyInTeam)
	repo.AssertCalled(t, "DecideRequest", ctx, betaRequest, JoinRequestStatusCancelled, betaLeader)
	repo.AssertNumberOfCalls(t, "StampMembership", 1)
}

func TestService_RejectRequest(t *testing.T) {
	ctx := context.Background()
	teamID := uuid.New()
	leaderID := uuid.New()
	requestID := uuid.New()

	team := func() *Team {
		return &Team{ID: teamID, LeaderID: leaderID, Status: TeamStatusForming, Open: true}
	}

	t.Run("rejects a pending request", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		repo.On("GetTeamByID", ctx, teamID).Return(team(), nil)
		repo.On("GetRequestByID", ctx, requestID).Return(&JoinRequest{
			ID: requestID, TeamID: teamID, UserID: uuid.New(), Status: JoinRequestStatusPending,
		}, nil)
		repo.On("DecideRequest", ctx, requestID, JoinRequestStatusRejected, leaderID).Return(nil)

		require.NoError(t, svc.RejectRequest(ctx, teamID, leaderID, requestID))
	})

	t.Run("second reject reports not found", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		repo.On("GetTeamByID", ctx, teamID).Return(team(), nil)
		repo.On("GetRequestByID", ctx, requestID).Return(&JoinRequest{
			ID: requestID, TeamID: teamID, UserID: uuid.New(), Status: JoinRequestStatusRejected,
		}, nil)

		err := svc.RejectRequest(ctx, teamID, leaderID, requestID)
		assert.ErrorIs(t, err, ErrRequestNotFound)
		repo.AssertNotCalled(t, "DecideRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("losing a decide race reports not found", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		repo.On("GetTeamByID", ctx, teamID).Return(team(), nil)
		repo.On("GetRequestByID", ctx, requestID).Return(&JoinRequest{
			ID: requestID, TeamID: teamID, UserID: uuid.New(), Status: JoinRequestStatusPending,
		}, nil)
		repo.On("DecideRequest", ctx, requestID, JoinRequestStatusRejected, leaderID).Return(ErrRequestAlreadyDecided)

		err := svc.RejectRequest(ctx, teamID, leaderID, requestID)
		assert.ErrorIs(t, err, ErrRequestNotFound)
	})
}

func TestService_LeaveTeam(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	teamID := uuid.New()

	t.Run("leader cannot leave", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		repo.On("GetMember", ctx, userID).Return(teamMember(userID, teamID, RoleLeader), nil)

		err := svc.LeaveTeam(ctx, userID)
		assert.ErrorIs(t, err, ErrLeaderCannotLeave)
	})

	t.Run("user without team cannot leave", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		repo.On("GetMember", ctx, userID).Return(freeMember(userID), nil)

		err := svc.LeaveTeam(ctx, userID)
		assert.ErrorIs(t, err, ErrNotInTeam)
	})

	t.Run("blocked after submission finalized", func(t *testing.T) {
		repo := new(MockRepository)
		guard := new(MockSubmissionGuard)
		svc := newTestService(repo, guard)

		repo.On("GetMember", ctx, userID).Return(teamMember(userID, teamID, RoleMember), nil)
		guard.On("HasFinalSubmission", ctx, teamID).Return(true, nil)

		err := svc.LeaveTeam(ctx, userID)
		assert.ErrorIs(t, err, ErrTeamFinalized)
	})
}

func TestService_RemoveMember_Guards(t *testing.T) {
	ctx := context.Background()
	teamID := uuid.New()
	leaderID := uuid.New()

	t.Run("cannot remove the leader", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		repo.On("GetTeamByID", ctx, teamID).Return(&Team{ID: teamID, LeaderID: leaderID}, nil)

		err := svc.RemoveMember(ctx, teamID, leaderID, leaderID)
		assert.ErrorIs(t, err, ErrCannotRemoveLeader)
	})

	t.Run("target must belong to the team", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		targetID := uuid.New()
		repo.On("GetTeamByID", ctx, teamID).Return(&Team{ID: teamID, LeaderID: leaderID}, nil)
		repo.On("GetMember", ctx, targetID).Return(teamMember(targetID, uuid.New(), RoleMember), nil)

		err := svc.RemoveMember(ctx, teamID, leaderID, targetID)
		assert.ErrorIs(t, err, ErrNotTeamMember)
	})
}

func TestService_SettleTeamAfterJoin(t *testing.T) {
	ctx := context.Background()

	t.Run("reaching minimum marks team complete", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		team := &Team{ID: uuid.New(), Status: TeamStatusForming, Open: true}
		repo.On("UpdateTeam", ctx, team).Return(nil)

		require.NoError(t, svc.settleTeamAfterJoin(ctx, repo, team, 3))
		assert.Equal(t, TeamStatusComplete, team.Status)
		assert.True(t, team.Open)
	})

	t.Run("reaching capacity closes recruiting", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		team := &Team{ID: uuid.New(), MaxMembers: 4, Status: TeamStatusComplete, Open: true}
		repo.On("UpdateTeam", ctx, team).Return(nil)

		require.NoError(t, svc.settleTeamAfterJoin(ctx, repo, team, 4))
		assert.False(t, team.Open)
	})

	t.Run("smaller cap closes earlier", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		team := &Team{ID: uuid.New(), MaxMembers: 3, Status: TeamStatusComplete, Open: true}
		repo.On("UpdateTeam", ctx, team).Return(nil)

		require.NoError(t, svc.settleTeamAfterJoin(ctx, repo, team, 3))
		assert.False(t, team.Open)
	})

	t.Run("no change below minimum", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil)

		team := &Team{ID: uuid.New(), Status: TeamStatusForming, Open: true}

		require.NoError(t, svc.settleTeamAfterJoin(ctx, repo, team, 2))
		assert.Equal(t, TeamStatusForming, team.Status)
		repo.AssertNotCalled(t, "UpdateTeam")
	})
}

func TestGenerateInviteToken(t *testing.T) {
	a, err := generateInviteToken(32)
	require.NoError(t, err)
	b, err := generateInviteToken(32)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.GreaterOrEqual(t, len(a), 40)
}

func TestInvite_Helpers(t *testing.T) {
	t.Run("IsExpired", func(t *testing.T) {
		assert.True(t, (&Invite{ExpiresAt: time.Now().Add(-time.Minute)}).IsExpired())
		assert.False(t, (&Invite{ExpiresAt: time.Now().Add(time.Minute)}).IsExpired())
	})

	t.Run("IsPending", func(t *testing.T) {
		assert.True(t, (&Invite{Status: InviteStatusPending}).IsPending())
		assert.False(t, (&Invite{Status: InviteStatusAccepted}).IsPending())
		assert.False(t, (&Invite{Status: InviteStatusRevoked}).IsPending())
	})
}
