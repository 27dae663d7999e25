package tasks

import "time"

// Config tunes the warm-task queue client. Per-queue behavior (attempts,
// backoff, timeouts, retention) is fixed on each task type's QueueConfig;
// these knobs cover the shared worker pool and its housekeeping.
type Config struct {
	// Workers is how many snapshot warms may run concurrently. Default: 2
	Workers int

	// ReleaseAfter is how long a claimed task may sit without finishing
	// before it is handed back to the queue. Default: 15m
	ReleaseAfter time.Duration

	// CleanupInterval is how often finished tasks are swept. Default: 1h
	CleanupInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:         2,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: time.Hour,
	}
}
