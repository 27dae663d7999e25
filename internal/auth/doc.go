// Package auth provides local authentication for the storefront: email and
// password accounts, session cookies, and password reset/update flows.
//
// It supports two modes:
//   - "none": No authentication required (default); catalog browsing works
//     anonymously and the account routes are disabled
//   - "local": Local user database with session cookies
//
// # Configuration
//
// Set AUTH_MODE environment variable to select the mode:
//
//	AUTH_MODE=none   # Default, anonymous browsing only
//	AUTH_MODE=local  # Accounts, sessions and password flows
//
// For local mode, additional configuration:
//
//	AUTH_SESSION_SECRET=<hex-32-bytes>  # Auto-generated if empty
//	AUTH_SESSION_LIFETIME=24h           # Session duration
//	AUTH_RESET_TOKEN_TTL=1h             # Password-reset token validity
//	AUTH_BCRYPT_COST=12                 # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true            # HTTPS-only cookies
//
// # Usage
//
// Initialize authentication in entrypoint:
//
//	authService := auth.NewService(db, cfg.Auth)
//	authMiddleware := auth.NewMiddleware(authService, sessionManager, cfg.Auth)
//	router.Use(authMiddleware.Handler())
//
// Extract user in handlers:
//
//	userID := auth.GetUserID(c) // 0 when anonymous
package auth
