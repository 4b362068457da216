package user

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hackfest/server/internal/module/auth"
	"github.com/hackfest/server/internal/shared/config"
	"github.com/hackfest/server/internal/shared/logger"
	"github.com/hackfest/server/internal/shared/metrics"
)

// Service handles user business logic: registration, authentication,
// profile management and admin account operations.
type Service struct {
	repo        Repository
	tokens      auth.RefreshTokenRepository
	jwt         *auth.JWTManager
	rateLimiter *auth.RateLimiter
	emailer     EmailSender
	event       *config.EventConfig
	loginRPM    int
	metrics     *metrics.Metrics
	logger      *logger.Logger
}

// NewService creates a new user service.
func NewService(
	repo Repository,
	tokens auth.RefreshTokenRepository,
	jwt *auth.JWTManager,
	rateLimiter *auth.RateLimiter,
	emailer EmailSender,
	event *config.EventConfig,
	loginRPM int,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:        repo,
		tokens:      tokens,
		jwt:         jwt,
		rateLimiter: rateLimiter,
		emailer:     emailer,
		event:       event,
		loginRPM:    loginRPM,
		metrics:     m,
		logger:      log,
	}
}

func (s *Service) recordAuthEvent(event string) {
	if s.metrics != nil {
		s.metrics.RecordAuthEvent(event)
	}
}

// Register creates a new user account during the registration window.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, error) {
	if !s.registrationOpen(time.Now()) {
		return nil, ErrRegistrationClosed
	}

	// Check email uniqueness
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if err != ErrUserNotFound {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Status:       UserStatusActive,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		logger.String("user_id", user.ID.String()),
		logger.String("email", user.Email),
	)

	if s.emailer != nil {
		if err := s.emailer.SendWelcome(ctx, user); err != nil {
			// Email failures never block registration
			s.logger.WarnContext(ctx, "welcome email failed", logger.Err(err))
		}
	}

	return user, nil
}

// Login authenticates a user and issues a token pair.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*auth.TokenPair, *User, error) {
	if s.rateLimiter != nil {
		result, err := s.rateLimiter.CheckLogin(ctx, req.Email, s.loginRPM)
		if err != nil {
			// Redis unavailability must not lock everyone out
			s.logger.WarnContext(ctx, "login rate limit check failed", logger.Err(err))
		} else if !result.Allowed {
			return nil, nil, auth.ErrRateLimited
		}
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == ErrUserNotFound {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.recordAuthEvent("login_failed")
		return nil, nil, ErrInvalidCredentials
	}

	switch user.Status {
	case UserStatusSuspended:
		return nil, nil, ErrAccountSuspended
	case UserStatusDeleted:
		return nil, nil, ErrAccountDeleted
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.recordAuthEvent("login_success")
	s.logger.InfoContext(ctx, "user logged in",
		logger.String("user_id", user.ID.String()),
	)

	return pair, user, nil
}

// Refresh exchanges a valid refresh token for a new token pair. The old
// refresh token is revoked so each token can be used at most once.
func (s *Service) Refresh(ctx context.Context, rawToken string) (*auth.TokenPair, error) {
	tokenHash := s.jwt.HashRefreshToken(rawToken)

	stored, err := s.tokens.GetByHash(ctx, tokenHash)
	if err != nil {
		if err == auth.ErrTokenNotFound {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}

	if !stored.IsValid() {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.repo.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if !user.CanLogin() {
		return nil, ErrAccountSuspended
	}

	// Rotate: revoke the old token before issuing a new pair
	if err := s.tokens.Revoke(ctx, stored.ID); err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}

	s.recordAuthEvent("token_refresh")
	return s.issueTokenPair(ctx, user)
}

// Logout revokes the presented refresh token.
func (s *Service) Logout(ctx context.Context, rawToken string) error {
	tokenHash := s.jwt.HashRefreshToken(rawToken)

	stored, err := s.tokens.GetByHash(ctx, tokenHash)
	if err != nil {
		if err == auth.ErrTokenNotFound {
			// Already gone, treat as success
			return nil
		}
		return fmt.Errorf("lookup refresh token: %w", err)
	}

	if err := s.tokens.Revoke(ctx, stored.ID); err != nil {
		return err
	}

	s.recordAuthEvent("logout")
	return nil
}

// CompleteRegistration fills in the participant profile fields required
// before a user can join or create a team.
func (s *Service) CompleteRegistration(ctx context.Context, userID uuid.UUID, req *CompleteRegistrationRequest) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Phone = req.Phone
	user.Institution = req.Institution
	user.RegistrationComplete = true

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.InfoContext(ctx, "registration completed",
		logger.String("user_id", user.ID.String()),
	)

	return user, nil
}

// GetProfile returns the user's own profile.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// UpdateProfile updates the mutable profile fields.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Institution != nil {
		user.Institution = *req.Institution
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

// ChangePassword verifies the current password and sets a new one. All
// refresh tokens are revoked so other sessions must log in again.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req *ChangePasswordRequest) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrIncorrectPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if err := s.tokens.RevokeAllForUser(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "revoke sessions after password change failed", logger.Err(err))
	}

	return nil
}

// GetUser returns a user by ID (admin).
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// ListUsers returns a filtered, paginated user list (admin).
func (s *Service) ListUsers(ctx context.Context, filter *UserFilter, pagination *Pagination) (*UserListResponse, error) {
	if pagination == nil {
		pagination = NewPagination()
	}

	users, total, err := s.repo.List(ctx, filter, pagination)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	responses := make([]*UserResponse, len(users))
	for i, u := range users {
		responses[i] = u.ToResponse()
	}

	totalPages := int((total + int64(pagination.PageSize) - 1) / int64(pagination.PageSize))

	return &UserListResponse{
		Users:      responses,
		Total:      total,
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
		TotalPages: totalPages,
	}, nil
}

// SuspendUser suspends an account and revokes its sessions (admin).
func (s *Service) SuspendUser(ctx context.Context, id uuid.UUID, reason string) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin {
		return nil, ErrCannotSuspendAdmin
	}

	now := time.Now()
	user.Status = UserStatusSuspended
	user.SuspendedAt = &now
	user.SuspendReason = &reason

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if err := s.tokens.RevokeAllForUser(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "revoke sessions for suspended user failed", logger.Err(err))
	}

	s.logger.InfoContext(ctx, "user suspended",
		logger.String("user_id", id.String()),
		logger.String("reason", reason),
	)

	return user, nil
}

// ReinstateUser reactivates a suspended account (admin).
func (s *Service) ReinstateUser(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Status == UserStatusActive {
		return nil, ErrUserAlreadyActive
	}

	user.Status = UserStatusActive
	user.SuspendedAt = nil
	user.SuspendReason = nil

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	return user, nil
}

// SetAdminStatus grants or revokes the admin role (admin).
func (s *Service) SetAdminStatus(ctx context.Context, id uuid.UUID, isAdmin bool) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.IsAdmin = isAdmin
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.InfoContext(ctx, "admin status changed",
		logger.String("user_id", id.String()),
		logger.Bool("is_admin", isAdmin),
	)

	return user, nil
}

// issueTokenPair generates and persists an access/refresh token pair.
func (s *Service) issueTokenPair(ctx context.Context, user *User) (*auth.TokenPair, error) {
	identity := &auth.User{ID: user.ID, Email: user.Email, IsAdmin: user.IsAdmin}

	accessToken, expiresAt, err := s.jwt.GenerateAccessToken(identity)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	rawRefresh, refreshHash, refreshExpiry, err := s.jwt.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokens.Create(ctx, &auth.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: refreshHash,
		ExpiresAt: refreshExpiry,
	}); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &auth.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: rawRefresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(time.Until(expiresAt).Seconds()),
		ExpiresAt:    expiresAt,
	}, nil
}

// registrationOpen reports whether now falls inside the configured
// registration window. Zero bounds mean the window is unbounded on
// that side.
func (s *Service) registrationOpen(now time.Time) bool {
	if s.event == nil {
		return true
	}
	if !s.event.RegistrationOpens.IsZero() && now.Before(s.event.RegistrationOpens) {
		return false
	}
	if !s.event.RegistrationCloses.IsZero() && now.After(s.event.RegistrationCloses) {
		return false
	}
	return true
}
