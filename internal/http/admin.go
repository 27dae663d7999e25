package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/avolkau/bookmart/internal/scheduler"
	"github.com/avolkau/bookmart/internal/tasks"
)

// AdminController exposes maintenance operations: triggering a shelf
// snapshot refresh, inspecting the refresh schedule and tracking warm tasks.
type AdminController struct {
	scheduler  *scheduler.ShelfRefreshScheduler
	taskClient *tasks.Client
}

// NewAdminController creates an admin controller.
func NewAdminController(sched *scheduler.ShelfRefreshScheduler, taskClient *tasks.Client) *AdminController {
	return &AdminController{scheduler: sched, taskClient: taskClient}
}

// RefreshShelves enqueues an immediate snapshot refresh for all featured
// categories and returns the enqueued task's ID.
func (ac *AdminController) RefreshShelves(c *gin.Context) {
	if ac.scheduler == nil {
		respondError(c, http.StatusServiceUnavailable, "shelf refresh is not configured")
		return
	}

	taskID, err := ac.scheduler.RunNow()
	if err != nil {
		respondInternalError(c, err, "refresh shelves")
		return
	}

	respondAccepted(c, "shelf refresh enqueued", gin.H{"task_id": taskID})
}

// RefreshStatus reports whether the scheduler is running and when the next
// refresh fires.
func (ac *AdminController) RefreshStatus(c *gin.Context) {
	if ac.scheduler == nil {
		respondError(c, http.StatusServiceUnavailable, "shelf refresh is not configured")
		return
	}

	resp := gin.H{
		"running": ac.scheduler.IsRunning(),
	}
	if next := ac.scheduler.GetNextRunTime(); next != nil {
		resp["next_run"] = next.Format("2006-01-02T15:04:05Z07:00")
	}

	c.JSON(http.StatusOK, resp)
}

// TaskStatus reports where an enqueued warm task is in its lifecycle.
func (ac *AdminController) TaskStatus(c *gin.Context) {
	if ac.taskClient == nil {
		respondError(c, http.StatusServiceUnavailable, "task queue is not configured")
		return
	}

	taskID := c.Param("id")
	if taskID == "" {
		respondBadRequest(c, "task id is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, err := ac.taskClient.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": taskStatusToString(status),
	})
}

func taskStatusToString(status backlite.TaskStatus) string {
	switch status {
	case backlite.TaskStatusPending:
		return "pending"
	case backlite.TaskStatusRunning:
		return "running"
	case backlite.TaskStatusSuccess:
		return "success"
	case backlite.TaskStatusFailure:
		return "failure"
	case backlite.TaskStatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
