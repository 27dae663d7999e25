package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avolkau/bookmart/internal/database"
	"github.com/avolkau/bookmart/internal/tasks"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db         *database.Database
	taskClient *tasks.Client
	version    string
}

func NewHealthController(db *database.Database, taskClient *tasks.Client, version string) *HealthController {
	return &HealthController{
		db:         db,
		taskClient: taskClient,
		version:    version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	// Check database connectivity
	if h.db != nil {
		sqlDB, err := h.db.DB.DB()
		if err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else if err := sqlDB.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	// Check task queue database
	if h.taskClient != nil {
		if err := h.taskClient.DB().Ping(); err != nil {
			checks["tasks"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["tasks"] = "ok"
		}
	} else {
		checks["tasks"] = "not configured"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
