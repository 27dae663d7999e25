package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avolkau/bookmart/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// HSTS only makes sense when the deployment serves HTTPS, which is what
	// secure cookies signal
	if cfg.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware(31536000))
	}

	// Apply CSRF protection if auth is enabled
	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Apply session middleware if enabled
	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	// Apply auth middleware if enabled
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		// No auth - every request browses anonymously
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyUserID, auth.AnonymousUserID)
			c.Next()
		})
	}

	// Serve static files
	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	// Per-session view state, keyed by session token with a client IP
	// fallback when sessions are disabled
	views := cfg.Views
	if views == nil {
		views = NewViewStateStore(time.Hour)
	}
	viewKey := func(c *gin.Context) string {
		if cfg.SessionManager != nil {
			if key := cfg.SessionManager.ViewKey(c.Request); key != "" {
				return key
			}
		}
		return c.ClientIP()
	}

	// Register auth routes if auth service is available
	if cfg.AuthService != nil && cfg.AuthService.IsAuthEnabled() {
		authController := auth.NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.TemplatesPath, cfg.AuthConfig)
		authController.RegisterRoutes(router)
	}

	// Create controllers
	health := NewHealthController(cfg.Database, cfg.TaskClient, cfg.Version)
	catalogController := NewCatalogController(cfg.Fetcher, views, viewKey, cfg.TaskClient)
	panelController := NewPanelController(views, viewKey)
	cartController := NewCartController()

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Category configuration
	router.GET("/api/categories", catalogController.GetCategories)

	// Featured shelf endpoints
	router.GET("/api/shelves/:key", catalogController.GetShelf)
	router.POST("/api/shelves/:key/next", catalogController.ShelfNext)
	router.POST("/api/shelves/:key/prev", catalogController.ShelfPrev)

	// Category listing endpoints
	router.GET("/api/category/:key", catalogController.GetListing)
	router.POST("/api/category/:key/more", catalogController.LoadMore)

	// Book detail and panel endpoints
	router.GET("/api/books/:id", catalogController.GetBook)
	router.GET("/api/panel", panelController.GetPanel)
	router.POST("/api/panel/close", panelController.ClosePanel)

	// Cart stub
	router.POST("/api/cart", cartController.AddToCart)

	// Admin endpoints
	if cfg.Scheduler != nil {
		adminController := NewAdminController(cfg.Scheduler, cfg.TaskClient)
		adminRoutes := router.Group("/api/admin")
		if cfg.AuthMiddleware != nil {
			adminRoutes.Use(cfg.AuthMiddleware.RequireAuth())
		}
		adminRoutes.POST("/shelves/refresh", adminController.RefreshShelves)
		adminRoutes.GET("/shelves/status", adminController.RefreshStatus)
		adminRoutes.GET("/tasks/:id", adminController.TaskStatus)
	}

	return router
}
