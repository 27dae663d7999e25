package http

import (
	"github.com/avolkau/bookmart/internal/auth"
	"github.com/avolkau/bookmart/internal/catalog"
	"github.com/avolkau/bookmart/internal/config"
	"github.com/avolkau/bookmart/internal/database"
	"github.com/avolkau/bookmart/internal/scheduler"
	"github.com/avolkau/bookmart/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces a long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Fetcher  *catalog.Fetcher
	Database *database.Database

	// Per-session view state (created by NewRouter when nil)
	Views *ViewStateStore

	// Authentication
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	AuthConfig     config.Auth
	CSRFSecret     []byte
	SecureCookies  bool

	// Background work
	TaskClient *tasks.Client
	Scheduler  *scheduler.ShelfRefreshScheduler

	// UI paths
	TemplatesPath string
	StaticPath    string

	// Application info
	Version string
}
