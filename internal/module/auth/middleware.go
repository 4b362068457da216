package auth

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hackfest/server/internal/shared/response"
)

// Context keys set by the middleware.
const (
	ContextUserID  = "user_id"
	ContextEmail   = "email"
	ContextIsAdmin = "is_admin"
)

// AdminChecker confirms admin status against the primary store. Token
// claims alone go stale when an admin is demoted mid-session.
type AdminChecker interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Middleware validates bearer tokens and guards admin routes.
type Middleware struct {
	jwt    *JWTManager
	admins AdminChecker
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(jwt *JWTManager, admins AdminChecker) *Middleware {
	return &Middleware{jwt: jwt, admins: admins}
}

// RequireAuth returns a middleware that validates JWT tokens.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Abort()
			response.Unauthorized(c, "authorization header required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.Abort()
			response.Unauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := m.jwt.ValidateAccessToken(parts[1])
		if err != nil {
			c.Abort()
			response.Unauthorized(c, "invalid token")
			return
		}

		// Set user info in context
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextIsAdmin, claims.IsAdmin)
		c.Next()
	}
}

// RequireAdmin returns a middleware that rejects non-admin users. The
// token claim is a fast pre-check; the store has the final say.
// Must run after RequireAuth.
func (m *Middleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, exists := c.Get(ContextIsAdmin)
		if !exists || !isAdmin.(bool) {
			c.Abort()
			response.Forbidden(c, "admin access required")
			return
		}

		if m.admins != nil {
			confirmed, err := m.admins.IsAdmin(c.Request.Context(), UserIDFromContext(c))
			if err != nil {
				c.Abort()
				response.InternalError(c, "admin check failed")
				return
			}
			if !confirmed {
				c.Abort()
				response.Forbidden(c, "admin access required")
				return
			}
		}

		c.Next()
	}
}

// UserIDFromContext returns the authenticated user ID, or uuid.Nil.
func UserIDFromContext(c *gin.Context) uuid.UUID {
	val, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil
	}
	id, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

// EmailFromContext returns the authenticated user's email.
func EmailFromContext(c *gin.Context) string {
	return c.GetString(ContextEmail)
}
