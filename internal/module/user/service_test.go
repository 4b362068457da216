package user

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hackfest/server/internal/module/auth"
	"github.com/hackfest/server/internal/shared/config"
	"github.com/hackfest/server/internal/shared/logger"
)

// --- Mock implementations ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) List(ctx context.Context, filter *UserFilter, pagination *Pagination) ([]*User, int64, error) {
	args := m.Called(ctx, filter, pagination)
	return args.Get(0).([]*User), args.Get(1).(int64), args.Error(2)
}

type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Create(ctx context.Context, token *auth.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepository) GetByHash(ctx context.Context, tokenHash string) (*auth.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.RefreshToken), args.Error(1)
}

func (m *MockTokenRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendWelcome(ctx context.Context, user *User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// --- Helpers ---

func testLogger() *logger.Logger {
	return logger.New(&logger.Config{Level: "error", Format: "json", Output: io.Discard})
}

func testJWT() *auth.JWTManager {
	return auth.NewJWTManager(&auth.JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
		Issuer:             "hackfest",
	})
}

func openEvent() *config.EventConfig {
	return &config.EventConfig{
		RegistrationOpens:  time.Now().Add(-24 * time.Hour),
		RegistrationCloses: time.Now().Add(24 * time.Hour),
		MinTeamSize:        3,
		MaxTeamSize:        4,
	}
}

func newTestService(repo Repository, tokens auth.RefreshTokenRepository, emailer EmailSender, event *config.EventConfig) *Service {
	return NewService(repo, tokens, testJWT(), nil, emailer, event, 10, nil, testLogger())
}

// --- Tests ---

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user with hashed password", func(t *testing.T) {
		repo := new(MockRepository)
		emailer := new(MockEmailSender)
		svc := newTestService(repo, new(MockTokenRepository), emailer, openEvent())

		repo.On("GetByEmail", ctx, "alice@example.com").Return(nil, ErrUserNotFound)
		repo.On("Create", ctx, mock.AnythingOfType("*user.User")).Return(nil)
		emailer.On("SendWelcome", ctx, mock.AnythingOfType("*user.User")).Return(nil)

		user, err := svc.Register(ctx, &RegisterRequest{
			Email:    "alice@example.com",
			Password: "password123",
			Name:     "Alice",
		})
		require.NoError(t, err)

		assert.Equal(t, "alice@example.com", user.Email)
		assert.Equal(t, UserStatusActive, user.Status)
		assert.False(t, user.RegistrationComplete)
		assert.NotEqual(t, "password123", user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))

		repo.AssertExpectations(t)
		emailer.AssertExpectations(t)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockTokenRepository), nil, openEvent())

		existing := &User{ID: uuid.New(), Email: "alice@example.com"}
		repo.On("GetByEmail", ctx, "alice@example.com").Return(existing, nil)

		_, err := svc.Register(ctx, &RegisterRequest{
			Email:    "alice@example.com",
			Password: "password123",
			Name:     "Alice",
		})
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})

	t.Run("rejects when registration window is closed", func(t *testing.T) {
		repo := new(MockRepository)
		closed := &config.EventConfig{
			RegistrationOpens:  time.Now().Add(-48 * time.Hour),
			RegistrationCloses: time.Now().Add(-24 * time.Hour),
		}
		svc := newTestService(repo, new(MockTokenRepository), nil, closed)

		_, err := svc.Register(ctx, &RegisterRequest{
			Email:    "late@example.com",
			Password: "password123",
			Name:     "Late",
		})
		assert.ErrorIs(t, err, ErrRegistrationClosed)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("email failure does not block registration", func(t *testing.T) {
		repo := new(MockRepository)
		emailer := new(MockEmailSender)
		svc := newTestService(repo, new(MockTokenRepository), emailer, openEvent())

		repo.On("GetByEmail", ctx, "bob@example.com").Return(nil, ErrUserNotFound)
		repo.On("Create", ctx, mock.AnythingOfType("*user.User")).Return(nil)
		emailer.On("SendWelcome", ctx, mock.AnythingOfType("*user.User")).Return(assert.AnError)

		_, err := svc.Register(ctx, &RegisterRequest{
			Email:    "bob@example.com",
			Password: "password123",
			Name:     "Bob",
		})
		assert.NoError(t, err)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	activeUser := func() *User {
		return &User{
			ID:           uuid.New(),
			Email:        "alice@example.com",
			Name:         "Alice",
			PasswordHash: string(hash),
			Status:       UserStatusActive,
		}
	}

	t.Run("returns token pair on success", func(t *testing.T) {
		repo := new(MockRepository)
		tokens := new(MockTokenRepository)
		svc := newTestService(repo, tokens, nil, openEvent())

		u := activeUser()
		repo.On("GetByEmail", ctx, u.Email).Return(u, nil)
		tokens.On("Create", ctx, mock.AnythingOfType("*auth.RefreshToken")).Return(nil)

		pair, loggedIn, err := svc.Login(ctx, &LoginRequest{Email: u.Email, Password: "password123"})
		require.NoError(t, err)

		assert.Equal(t, u.ID, loggedIn.ID)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.Equal(t, "Bearer", pair.TokenType)
		tokens.AssertExpectations(t)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockTokenRepository), nil, openEvent())

		u := activeUser()
		repo.On("GetByEmail", ctx, u.Email).Return(u, nil)

		_, _, err := svc.Login(ctx, &LoginRequest{Email: u.Email, Password: "wrong"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("rejects unknown email with generic error", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockTokenRepository), nil, openEvent())

		repo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, ErrUserNotFound)

		_, _, err := svc.Login(ctx, &LoginRequest{Email: "nobody@example.com", Password: "password123"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("rejects suspended account", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockTokenRepository), nil, openEvent())

		u := activeUser()
		u.Status = UserStatusSuspended
		repo.On("GetByEmail", ctx, u.Email).Return(u, nil)

		_, _, err := svc.Login(ctx, &LoginRequest{Email: u.Email, Password: "password123"})
		assert.ErrorIs(t, err, ErrAccountSuspended)
	})
}

func TestService_Refresh(t *testing.T) {
	ctx := context.Background()
	jwt := testJWT()

	t.Run("rotates refresh token", func(t *testing.T) {
		repo := new(MockRepository)
		tokens := new(MockTokenRepository)
		svc := newTestService(repo, tokens, nil, openEvent())

		raw, hash, expiry, err := jwt.GenerateRefreshToken()
		require.NoError(t, err)

		u := &User{ID: uuid.New(), Email: "alice@example.com", Status: UserStatusActive}
		stored := &auth.RefreshToken{ID: uuid.New(), UserID: u.ID, TokenHash: hash, ExpiresAt: expiry}

		tokens.On("GetByHash", ctx, hash).Return(stored, nil)
		repo.On("GetByID", ctx, u.ID).Return(u, nil)
		tokens.On("Revoke", ctx, stored.ID).Return(nil)
		tokens.On("Create", ctx, mock.AnythingOfType("*auth.RefreshToken")).Return(nil)

		pair, err := svc.Refresh(ctx, raw)
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEqual(t, raw, pair.RefreshToken)
		tokens.AssertExpectations(t)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		repo := new(MockRepository)
		tokens := new(MockTokenRepository)
		svc := newTestService(repo, tokens, nil, openEvent())

		raw, hash, _, err := jwt.GenerateRefreshToken()
		require.NoError(t, err)

		stored := &auth.RefreshToken{
			ID:        uuid.New(),
			UserID:    uuid.New(),
			TokenHash: hash,
			ExpiresAt: time.Now().Add(-time.Hour),
		}
		tokens.On("GetByHash", ctx, hash).Return(stored, nil)

		_, err = svc.Refresh(ctx, raw)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
		tokens.AssertNotCalled(t, "Revoke")
	})

	t.Run("rejects unknown token", func(t *testing.T) {
		repo := new(MockRepository)
		tokens := new(MockTokenRepository)
		svc := newTestService(repo, tokens, nil, openEvent())

		tokens.On("GetByHash", ctx, mock.AnythingOfType("string")).Return(nil, auth.ErrTokenNotFound)

		_, err := svc.Refresh(ctx, "bogus")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("oldpassword"), bcrypt.DefaultCost)

	t.Run("changes password and revokes sessions", func(t *testing.T) {
		repo := new(MockRepository)
		tokens := new(MockTokenRepository)
		svc := newTestService(repo, tokens, nil, openEvent())

		u := &User{ID: uuid.New(), PasswordHash: string(hash), Status: UserStatusActive}
		repo.On("GetByID", ctx, u.ID).Return(u, nil)
		repo.On("Update", ctx, u).Return(nil)
		tokens.On("RevokeAllForUser", ctx, u.ID).Return(nil)

		err := svc.ChangePassword(ctx, u.ID, &ChangePasswordRequest{
			CurrentPassword: "oldpassword",
			NewPassword:     "newpassword",
		})
		require.NoError(t, err)

		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("newpassword")))
		tokens.AssertExpectations(t)
	})

	t.Run("rejects wrong current password", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockTokenRepository), nil, openEvent())

		u := &User{ID: uuid.New(), PasswordHash: string(hash)}
		repo.On("GetByID", ctx, u.ID).Return(u, nil)

		err := svc.ChangePassword(ctx, u.ID, &ChangePasswordRequest{
			CurrentPassword: "wrong",
			NewPassword:     "newpassword",
		})
		assert.ErrorIs(t, err, ErrIncorrectPassword)
	})
}

func TestService_SuspendUser(t *testing.T) {
	ctx := context.Background()

	t.Run("suspends and revokes sessions", func(t *testing.T) {
		repo := new(MockRepository)
		tokens := new(MockTokenRepository)
		svc := newTestService(repo, tokens, nil, openEvent())

		u := &User{ID: uuid.New(), Status: UserStatusActive}
		repo.On("GetByID", ctx, u.ID).Return(u, nil)
		repo.On("Update", ctx, u).Return(nil)
		tokens.On("RevokeAllForUser", ctx, u.ID).Return(nil)

		suspended, err := svc.SuspendUser(ctx, u.ID, "code of conduct")
		require.NoError(t, err)

		assert.Equal(t, UserStatusSuspended, suspended.Status)
		require.NotNil(t, suspended.SuspendReason)
		assert.Equal(t, "code of conduct", *suspended.SuspendReason)
		assert.NotNil(t, suspended.SuspendedAt)
	})

	t.Run("cannot suspend admin", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockTokenRepository), nil, openEvent())

		u := &User{ID: uuid.New(), Status: UserStatusActive, IsAdmin: true}
		repo.On("GetByID", ctx, u.ID).Return(u, nil)

		_, err := svc.SuspendUser(ctx, u.ID, "reason")
		assert.ErrorIs(t, err, ErrCannotSuspendAdmin)
		repo.AssertNotCalled(t, "Update")
	})
}

func TestService_CompleteRegistration(t *testing.T) {
	ctx := context.Background()

	repo := new(MockRepository)
	svc := newTestService(repo, new(MockTokenRepository), nil, openEvent())

	u := &User{ID: uuid.New(), Status: UserStatusActive}
	repo.On("GetByID", ctx, u.ID).Return(u, nil)
	repo.On("Update", ctx, u).Return(nil)

	updated, err := svc.CompleteRegistration(ctx, u.ID, &CompleteRegistrationRequest{
		Phone:       "+1 555 0100",
		Institution: "State University",
	})
	require.NoError(t, err)

	assert.True(t, updated.RegistrationComplete)
	assert.Equal(t, "+1 555 0100", updated.Phone)
	assert.Equal(t, "State University", updated.Institution)
}

func TestUser_Helpers(t *testing.T) {
	teamID := uuid.New()

	t.Run("HasTeam", func(t *testing.T) {
		assert.False(t, (&User{}).HasTeam())
		assert.True(t, (&User{TeamID: &teamID}).HasTeam())
	})

	t.Run("IsTeamLeader", func(t *testing.T) {
		assert.False(t, (&User{TeamID: &teamID, TeamRole: TeamRoleMember}).IsTeamLeader())
		assert.True(t, (&User{TeamID: &teamID, TeamRole: TeamRoleLeader}).IsTeamLeader())
		assert.False(t, (&User{TeamRole: TeamRoleLeader}).IsTeamLeader())
	})

	t.Run("CanLogin", func(t *testing.T) {
		assert.True(t, (&User{Status: UserStatusActive}).CanLogin())
		assert.False(t, (&User{Status: UserStatusSuspended}).CanLogin())
		assert.False(t, (&User{Status: UserStatusDeleted}).CanLogin())
	})
}
