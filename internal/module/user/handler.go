package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hackfest/server/internal/module/auth"
)

// Handler handles HTTP requests for registration and account management.
type Handler struct {
	service *Service
}

// NewHandler creates a new user handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the public auth routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/refresh", h.Refresh)
		authGroup.POST("/logout", h.Logout)
	}
}

// RegisterProtectedRoutes registers routes that require authentication.
func (h *Handler) RegisterProtectedRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.GET("/me", h.GetCurrentUser)
		users.PUT("/me", h.UpdateProfile)
		users.POST("/me/complete-registration", h.CompleteRegistration)
		users.PUT("/me/password", h.ChangePassword)
	}
}

// Register handles user registration.
//
//	@Summary		Register new participant
//	@Description	Create a new account with email, password and name
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterRequest	true	"Registration request"
//	@Success		201		{object}	map[string]interface{}
//	@Failure		400		{object}	map[string]string
//	@Failure		409		{object}	map[string]string
//	@Router			/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":    user.ToResponse(),
		"message": "Account created. Log in to complete your participant profile.",
	})
}

// Login handles email/password login.
//
//	@Summary		Login
//	@Description	Authenticate with email and password, returns a token pair
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Login request"
//	@Success		200		{object}	map[string]interface{}
//	@Failure		401		{object}	map[string]string
//	@Failure		429		{object}	map[string]string
//	@Router			/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, user, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tokens": tokens,
		"user":   user.ToResponse(),
	})
}

// Refresh exchanges a refresh token for a new token pair.
//
//	@Summary		Refresh tokens
//	@Description	Rotate the refresh token and get a new access token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RefreshRequest	true	"Refresh request"
//	@Success		200		{object}	map[string]interface{}
//	@Failure		401		{object}	map[string]string
//	@Router			/auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// Logout revokes the presented refresh token.
//
//	@Summary		Logout
//	@Description	Revoke a refresh token
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RefreshRequest	true	"Logout request"
//	@Success		200		{object}	MessageResponse
//	@Router			/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}

// GetCurrentUser returns the authenticated user's profile.
//
//	@Summary		Get current user
//	@Tags			User
//	@Produce		json
//	@Success		200	{object}	UserResponse
//	@Failure		401	{object}	map[string]string
//	@Security		BearerAuth
//	@Router			/users/me [get]
func (h *Handler) GetCurrentUser(c *gin.Context) {
	userID := auth.UserIDFromContext(c)

	user, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponse())
}

// CompleteRegistration fills in the participant profile fields.
//
//	@Summary		Complete registration
//	@Description	Provide phone and institution to finish participant registration
//	@Tags			User
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CompleteRegistrationRequest	true	"Profile fields"
//	@Success		200		{object}	UserResponse
//	@Security		BearerAuth
//	@Router			/users/me/complete-registration [post]
func (h *Handler) CompleteRegistration(c *gin.Context) {
	userID := auth.UserIDFromContext(c)

	var req CompleteRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.CompleteRegistration(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponse())
}

// UpdateProfile updates the mutable profile fields.
//
//	@Summary		Update profile
//	@Tags			User
//	@Accept			json
//	@Produce		json
//	@Param			request	body		UpdateProfileRequest	true	"Profile update"
//	@Success		200		{object}	UserResponse
//	@Security		BearerAuth
//	@Router			/users/me [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID := auth.UserIDFromContext(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponse())
}

// ChangePassword changes the authenticated user's password.
//
//	@Summary		Change password
//	@Tags			User
//	@Accept			json
//	@Produce		json
//	@Param			request	body		ChangePasswordRequest	true	"Password change"
//	@Success		200		{object}	MessageResponse
//	@Failure		401		{object}	map[string]string
//	@Security		BearerAuth
//	@Router			/users/me/password [put]
func (h *Handler) ChangePassword(c *gin.Context) {
	userID := auth.UserIDFromContext(c)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Password changed"})
}

// handleError maps service errors to HTTP responses.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found", "message": "User not found"})
	case errors.Is(err, ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "email_already_registered", "message": "Email already registered"})
	case errors.Is(err, ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials", "message": "Invalid email or password"})
	case errors.Is(err, ErrAccountSuspended):
		c.JSON(http.StatusForbidden, gin.H{"error": "account_suspended", "message": "Your account has been suspended"})
	case errors.Is(err, ErrAccountDeleted):
		c.JSON(http.StatusForbidden, gin.H{"error": "account_deleted", "message": "This account has been deleted"})
	case errors.Is(err, ErrIncorrectPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect_password", "message": "Current password is incorrect"})
	case errors.Is(err, ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"error": "password_too_short", "message": "Password must be at least 8 characters"})
	case errors.Is(err, ErrRegistrationClosed):
		c.JSON(http.StatusForbidden, gin.H{"error": "registration_closed", "message": "Registration is not open"})
	case errors.Is(err, ErrInvalidRefreshToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_refresh_token", "message": "Invalid or expired refresh token"})
	case errors.Is(err, ErrCannotSuspendAdmin):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot_suspend_admin", "message": "Cannot suspend admin users"})
	case errors.Is(err, ErrUserAlreadyActive):
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_already_active", "message": "User is already active"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "Access denied"})
	case errors.Is(err, auth.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate_limited", "message": "Too many attempts, try again later"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "An internal error occurred"})
	}
}
