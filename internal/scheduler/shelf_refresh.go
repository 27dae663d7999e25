package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/avolkau/bookmart/internal/config"
	"github.com/avolkau/bookmart/internal/tasks"
)

// ShelfRefreshScheduler periodically enqueues a bulk shelf warming task so
// that featured category snapshots stay fresh.
type ShelfRefreshScheduler struct {
	taskClient *tasks.Client
	config     config.ShelfSync

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewShelfRefreshScheduler creates a new scheduler instance.
func NewShelfRefreshScheduler(taskClient *tasks.Client, cfg config.ShelfSync) *ShelfRefreshScheduler {
	return &ShelfRefreshScheduler{
		taskClient: taskClient,
		config:     cfg,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// ValidateCronSchedule checks that a schedule string parses with the
// standard five field cron format.
func ValidateCronSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	_, err := parser.Parse(schedule)
	return err
}

// Start begins the scheduler if shelf refresh is enabled.
func (s *ShelfRefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		log.Printf("Shelf refresh scheduler: disabled")
		return nil
	}

	if err := ValidateCronSchedule(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.config.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runRefresh()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule shelf refresh job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Shelf refresh scheduler: started with schedule '%s'", s.config.Schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *ShelfRefreshScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Shelf refresh scheduler: stopped")
}

// RunNow enqueues an immediate refresh and returns the enqueued task's ID.
func (s *ShelfRefreshScheduler) RunNow() (string, error) {
	return s.enqueue()
}

// IsRunning returns whether the scheduler is active.
func (s *ShelfRefreshScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next refresh will occur.
func (s *ShelfRefreshScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entries := s.cron.Entries()
	for _, entry := range entries {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *ShelfRefreshScheduler) runRefresh() {
	if _, err := s.enqueue(); err != nil {
		log.Printf("Shelf refresh: failed to enqueue warming task: %v", err)
	}
}

func (s *ShelfRefreshScheduler) enqueue() (string, error) {
	if s.taskClient == nil {
		return "", fmt.Errorf("task client not configured")
	}
	ids, err := s.taskClient.Add(tasks.WarmAllShelvesTask{}).Save()
	if err != nil {
		return "", err
	}
	return ids[0], nil
}
