package auth

import (
	"errors"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avolkau/bookmart/internal/config"
	"github.com/avolkau/bookmart/internal/entities"
)

// Generic user-facing messages. Sign-in failures never reveal which field was
// wrong, and reset requests never reveal whether the account exists.
const (
	MsgInvalidCredentials = "Invalid email or password. Please try again."
	MsgSignUpFailed       = "Unable to create account. Please try again."
	MsgPasswordMismatch   = "Passwords do not match"
	MsgResetIssued        = "If an account exists for that email, a password reset link has been issued."
)

// isLocalPath validates that a redirect path is local to prevent open
// redirect attacks.
func isLocalPath(path string) bool {
	if path == "" {
		return false
	}
	if !strings.HasPrefix(path, "/") {
		return false
	}
	// Reject protocol-relative URLs (//evil.com)
	if strings.HasPrefix(path, "//") {
		return false
	}
	if strings.Contains(path, "://") {
		return false
	}
	if strings.Contains(path, "\\") {
		return false
	}
	return true
}

// sanitizeRedirectPath returns a safe redirect path, defaulting to "/" if invalid.
func sanitizeRedirectPath(path string) string {
	if isLocalPath(path) {
		return path
	}
	return "/"
}

// AuthController handles the account HTTP endpoints: sign in/up, sign out,
// password reset and password update.
type AuthController struct {
	service        *Service
	sessionManager *SessionManager
	templates      *template.Template
	config         config.Auth
	rateLimiter    *RateLimiter
}

// NewAuthController creates a new authentication controller.
func NewAuthController(service *Service, sessionManager *SessionManager, templatesPath string, cfg config.Auth) *AuthController {
	// Parse auth templates; when absent the controller answers with JSON
	pattern := filepath.Join(templatesPath, "auth", "*.html")
	tmpl, err := template.ParseGlob(pattern)
	if err != nil {
		tmpl = nil
	}

	rateLimiter := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     cfg.MaxLoginAttempts,
		WindowDuration:  cfg.RateLimitWindow,
		LockoutDuration: cfg.LockoutDuration,
	})

	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
		templates:      tmpl,
		config:         cfg,
		rateLimiter:    rateLimiter,
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *AuthController) RegisterRoutes(router *gin.Engine) {
	router.GET("/login", ac.LoginPage)
	router.POST("/login", ac.Login)
	router.POST("/logout", ac.Logout)
	router.GET("/logout", ac.Logout) // Support GET for simple logout links
	router.GET("/reset-password", ac.ResetPasswordPage)
	router.POST("/reset-password", ac.ResetPassword)
	router.GET("/update-password", ac.UpdatePasswordPage)
	router.POST("/update-password", ac.UpdatePassword)
}

// Stop cleans up resources (rate limiter background goroutine).
func (ac *AuthController) Stop() {
	if ac.rateLimiter != nil {
		ac.rateLimiter.Stop()
	}
}

// LoginPage renders the combined sign-in / sign-up form.
func (ac *AuthController) LoginPage(c *gin.Context) {
	if ac.sessionManager != nil && ac.sessionManager.IsAuthenticated(c.Request) {
		c.Redirect(http.StatusFound, "/")
		return
	}

	next := sanitizeRedirectPath(c.Query("next"))

	ac.renderTemplate(c, http.StatusOK, "login.html", gin.H{
		"Title":     "Sign In",
		"Next":      next,
		"CSRFToken": GetCSRFToken(c),
		"Error":     c.Query("error"),
	})
}

// Login handles the form submission. The same form carries both buttons; an
// "action" field of "signup" creates an account, anything else signs in.
func (ac *AuthController) Login(c *gin.Context) {
	if c.PostForm("action") == "signup" {
		ac.signUp(c)
		return
	}
	ac.signIn(c)
}

func (ac *AuthController) signIn(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	next := sanitizeRedirectPath(c.PostForm("next"))
	clientIP := c.ClientIP()

	// Check rate limiting before attempting authentication
	if ac.rateLimiter != nil {
		allowed, retryAfter := ac.rateLimiter.Allow(clientIP, email)
		if !allowed {
			c.Header("Retry-After", retryAfter.String())
			ac.renderTemplate(c, http.StatusTooManyRequests, "login.html", gin.H{
				"Title":      "Sign In",
				"Next":       next,
				"Email":      email,
				"CSRFToken":  GetCSRFToken(c),
				"Error":      "Too many login attempts. Please try again later.",
				"RetryAfter": retryAfter.String(),
			})
			return
		}
	}

	user, err := ac.service.Authenticate(email, password)
	if err != nil {
		if ac.rateLimiter != nil {
			ac.rateLimiter.RecordFailure(clientIP, email)
		}

		errorMsg := MsgInvalidCredentials
		if errors.Is(err, ErrAccountLocked) {
			errorMsg = "Account is locked. Please try again later."
		}

		ac.renderTemplate(c, http.StatusUnauthorized, "login.html", gin.H{
			"Title":     "Sign In",
			"Next":      next,
			"Email":     email,
			"CSRFToken": GetCSRFToken(c),
			"Error":     errorMsg,
		})
		return
	}

	if ac.rateLimiter != nil {
		ac.rateLimiter.RecordSuccess(clientIP, email)
	}

	if ac.sessionManager != nil {
		if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
			ac.renderTemplate(c, http.StatusInternalServerError, "login.html", gin.H{
				"Title":     "Sign In",
				"Next":      next,
				"Email":     email,
				"CSRFToken": GetCSRFToken(c),
				"Error":     "Failed to create session",
			})
			return
		}
	}

	c.Redirect(http.StatusFound, next)
}

func (ac *AuthController) signUp(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	next := sanitizeRedirectPath(c.PostForm("next"))

	user, err := ac.service.CreateUser(email, password, entities.UserRoleCustomer)
	if err != nil {
		errorMsg := MsgSignUpFailed
		switch {
		case errors.Is(err, ErrPasswordTooShort):
			errorMsg = "Password must be at least 8 characters"
		case errors.Is(err, ErrPasswordTooLong):
			errorMsg = "Password exceeds maximum length of 72 characters"
		case errors.Is(err, ErrEmailRequired):
			errorMsg = "Email is required"
		case errors.Is(err, ErrEmailInvalid):
			errorMsg = "Invalid email format"
		}
		// ErrUserExists deliberately stays on the generic message: the form
		// must not disclose which addresses have accounts.

		ac.renderTemplate(c, http.StatusBadRequest, "login.html", gin.H{
			"Title":     "Sign In",
			"Next":      next,
			"Email":     email,
			"CSRFToken": GetCSRFToken(c),
			"Error":     errorMsg,
		})
		return
	}

	if ac.sessionManager != nil {
		_ = ac.sessionManager.CreateSession(c.Request, user)
	}

	c.Redirect(http.StatusFound, next)
}

// Logout destroys the session and redirects to login.
func (ac *AuthController) Logout(c *gin.Context) {
	if ac.sessionManager != nil {
		_ = ac.sessionManager.DestroySession(c.Request)
	}
	c.Redirect(http.StatusFound, "/login")
}

// ResetPasswordPage renders the reset-request form.
func (ac *AuthController) ResetPasswordPage(c *gin.Context) {
	ac.renderTemplate(c, http.StatusOK, "reset_password.html", gin.H{
		"Title":     "Reset Your Password",
		"CSRFToken": GetCSRFToken(c),
	})
}

// ResetPassword issues a reset token for the submitted email. The response is
// identical whether or not the account exists. There is no mailer; the reset
// link is written to the server log for out-of-band delivery.
func (ac *AuthController) ResetPassword(c *gin.Context) {
	email := c.PostForm("email")

	token, err := ac.service.StartPasswordReset(email)
	if err == nil {
		log.Printf("Password reset requested for %s: /update-password?token=%s", email, token)
	} else if !errors.Is(err, ErrUserNotFound) {
		log.Printf("Error starting password reset: %v", err)
	}

	ac.renderTemplate(c, http.StatusOK, "reset_password.html", gin.H{
		"Title":     "Reset Your Password",
		"CSRFToken": GetCSRFToken(c),
		"Message":   MsgResetIssued,
	})
}

// UpdatePasswordPage renders the new-password form. A token query parameter
// carries the reset token; without one the form updates the signed-in
// user's password.
func (ac *AuthController) UpdatePasswordPage(c *gin.Context) {
	ac.renderTemplate(c, http.StatusOK, "update_password.html", gin.H{
		"Title":     "Update Password",
		"Token":     c.Query("token"),
		"CSRFToken": GetCSRFToken(c),
	})
}

// UpdatePassword sets a new password. The confirmation mismatch check runs
// before any service call.
func (ac *AuthController) UpdatePassword(c *gin.Context) {
	password := c.PostForm("password")
	confirmPassword := c.PostForm("confirmPassword")
	token := c.PostForm("token")

	if password != confirmPassword {
		ac.renderTemplate(c, http.StatusBadRequest, "update_password.html", gin.H{
			"Title":     "Update Password",
			"Token":     token,
			"CSRFToken": GetCSRFToken(c),
			"Error":     MsgPasswordMismatch,
		})
		return
	}

	if token != "" {
		if _, err := ac.service.ResetPassword(token, password); err != nil {
			errorMsg := "Unable to update password. Please request a new reset link."
			if errors.Is(err, ErrPasswordTooShort) {
				errorMsg = "Password must be at least 8 characters"
			}
			ac.renderTemplate(c, http.StatusBadRequest, "update_password.html", gin.H{
				"Title":     "Update Password",
				"Token":     token,
				"CSRFToken": GetCSRFToken(c),
				"Error":     errorMsg,
			})
			return
		}

		c.Redirect(http.StatusFound, "/login")
		return
	}

	// No token: change the signed-in user's password
	userID := GetUserID(c)
	if userID == AnonymousUserID {
		c.Redirect(http.StatusFound, "/login?next=/update-password")
		return
	}

	oldPassword := c.PostForm("currentPassword")
	if err := ac.service.ChangePassword(userID, oldPassword, password); err != nil {
		errorMsg := "Unable to update password."
		switch {
		case errors.Is(err, ErrInvalidPassword):
			errorMsg = "Current password is incorrect"
		case errors.Is(err, ErrPasswordTooShort):
			errorMsg = "Password must be at least 8 characters"
		}
		ac.renderTemplate(c, http.StatusBadRequest, "update_password.html", gin.H{
			"Title":     "Update Password",
			"CSRFToken": GetCSRFToken(c),
			"Error":     errorMsg,
		})
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// renderTemplate renders an auth template or falls back to JSON.
func (ac *AuthController) renderTemplate(c *gin.Context, status int, name string, data gin.H) {
	if ac.templates == nil {
		c.JSON(status, data)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := ac.templates.ExecuteTemplate(c.Writer, name, data); err != nil {
		c.String(http.StatusInternalServerError, "Template error: %v", err)
	}
}
