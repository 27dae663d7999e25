package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avolkau/bookmart/internal/auth"
	"github.com/avolkau/bookmart/internal/catalog"
	"github.com/avolkau/bookmart/internal/config"
	"github.com/avolkau/bookmart/internal/database"
	"github.com/avolkau/bookmart/internal/database/snapshots"
	"github.com/avolkau/bookmart/internal/googlebooks"
	http_controllers "github.com/avolkau/bookmart/internal/http"
	"github.com/avolkau/bookmart/internal/scheduler"
	"github.com/avolkau/bookmart/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Bookmart v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Catalog source and fetch unit
	catalogClient := googlebooks.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, cfg.Catalog.RequestTimeout)
	snapshotRepo := snapshots.NewRepository(db.DB)
	fetcher := catalog.NewFetcher(catalogClient, snapshotRepo)

	if cfg.Catalog.APIKey == "" {
		log.Printf("WARNING: Books API key is not set. Requests run against the public quota. Set 'BOOKS_API_KEY' to raise it.")
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		// Register task queues
		taskClient.Register(
			tasks.NewWarmShelfQueue(fetcher),
			tasks.NewWarmAllShelvesQueue(fetcher),
		)

		// Start task workers in background
		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Shelf refresh scheduler rides on the task queue
	var shelfScheduler *scheduler.ShelfRefreshScheduler
	if taskClient != nil {
		shelfScheduler = scheduler.NewShelfRefreshScheduler(taskClient, cfg.ShelfSync)
		if err := shelfScheduler.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start shelf refresh scheduler: %v", err)
		}
	} else if cfg.ShelfSync.Enabled {
		log.Printf("WARNING: Shelf refresh is enabled but the task queue is disabled. Snapshots will not refresh.")
	}

	// Initialize authentication if enabled
	var authService *auth.Service
	var authMiddleware *auth.Middleware
	var sessionManager *auth.SessionManager
	var csrfSecret []byte

	if cfg.Auth.Mode == config.AuthModeLocal {
		log.Printf("Authentication mode: local")

		authService = auth.NewService(db.DB, cfg.Auth)

		// Get underlying SQL DB for session store
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}

		sessionManager, err = auth.NewSessionManager(sqlDB, cfg.Auth)
		if err != nil {
			log.Fatalf("Failed to initialize session manager: %v", err)
		}

		authMiddleware = auth.NewMiddleware(authService, sessionManager, cfg.Auth)

		// Generate or use configured CSRF secret
		if cfg.Auth.SessionSecret != "" {
			csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
			if err != nil {
				// Not hex, use as raw bytes
				csrfSecret = []byte(cfg.Auth.SessionSecret)
			}
		} else {
			secret, err := auth.GenerateSessionSecret()
			if err != nil {
				log.Fatalf("Failed to generate CSRF secret: %v", err)
			}
			csrfSecret, err = hex.DecodeString(secret)
			if err != nil {
				log.Fatalf("Failed to decode generated session secret: %v", err)
			}
			log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
		}
	} else {
		log.Printf("Authentication mode: none (anonymous browsing)")
	}

	// Per-session view state store
	views := http_controllers.NewViewStateStore(time.Hour)

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Fetcher:        fetcher,
		Database:       db,
		Views:          views,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		SessionManager: sessionManager,
		AuthConfig:     cfg.Auth,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		TaskClient:     taskClient,
		Scheduler:      shelfScheduler,
		TemplatesPath:  cfg.UI.TemplatesPath,
		StaticPath:     cfg.UI.StaticPath,
		Version:        version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if shelfScheduler != nil {
			shelfScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		views.Stop()
	}

	Serve(router, cfg, onShutdown)
}
