package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avolkau/bookmart/internal/config"
	"github.com/avolkau/bookmart/internal/entities"
)

// Context keys for user data
const (
	ContextKeyUserID = "auth_user_id"
	ContextKeyEmail  = "auth_email"
	ContextKeyRole   = "auth_role"
)

// AnonymousUserID marks an unauthenticated request. Catalog browsing works
// anonymously; only account routes require a real user.
const AnonymousUserID = uint(0)

// Middleware resolves the current user for HTTP requests. Unlike an
// admin-panel style gate, the storefront stays browsable without a session;
// the middleware only attaches identity, and RequireAuth protects the few
// account-bound routes.
type Middleware struct {
	service        *Service
	sessionManager *SessionManager
	config         config.Auth
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(service *Service, sessionManager *SessionManager, cfg config.Auth) *Middleware {
	return &Middleware{
		service:        service,
		sessionManager: sessionManager,
		config:         cfg,
	}
}

// Handler returns a Gin middleware that resolves the session user, if any,
// into the request context. Never blocks the request.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.config.Mode == config.AuthModeNone || m.sessionManager == nil {
			c.Set(ContextKeyUserID, AnonymousUserID)
			c.Next()
			return
		}

		userID := m.sessionManager.GetUserID(c.Request)
		if userID == 0 {
			c.Set(ContextKeyUserID, AnonymousUserID)
			c.Next()
			return
		}

		user, err := m.service.GetUserByID(userID)
		if err != nil {
			// Stale session pointing at a deleted account
			c.Set(ContextKeyUserID, AnonymousUserID)
			c.Next()
			return
		}

		c.Set(ContextKeyUserID, user.ID)
		c.Set(ContextKeyEmail, user.Email)
		c.Set(ContextKeyRole, user.Role)
		c.Next()
	}
}

// RequireAuth returns a middleware that rejects anonymous requests: JSON 401
// for API paths, redirect to login for web paths.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.config.Mode == config.AuthModeNone {
			c.Next()
			return
		}

		if GetUserID(c) == AnonymousUserID {
			if isAPIRequest(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "authentication required",
				})
			} else {
				c.Redirect(http.StatusFound, "/login?next="+c.Request.URL.Path)
				c.Abort()
			}
			return
		}
		c.Next()
	}
}

// isAPIRequest determines if this is an API request vs web browser request.
func isAPIRequest(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}
	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/json")
}

// Helper functions to extract auth data from the Gin context

// GetUserID retrieves the authenticated user's ID from the context.
// Returns AnonymousUserID (0) if not authenticated or auth is disabled.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyUserID); exists {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return AnonymousUserID
}

// GetEmail retrieves the authenticated user's email from the context.
func GetEmail(c *gin.Context) string {
	if v, exists := c.Get(ContextKeyEmail); exists {
		if email, ok := v.(string); ok {
			return email
		}
	}
	return ""
}

// GetUserRole retrieves the authenticated user's role from the context.
func GetUserRole(c *gin.Context) entities.UserRole {
	if r, exists := c.Get(ContextKeyRole); exists {
		if role, ok := r.(entities.UserRole); ok {
			return role
		}
	}
	return ""
}
