package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/avolkau/bookmart/internal/catalog"
)

// WarmShelfTask refreshes the stored listing snapshot for a single category.
type WarmShelfTask struct {
	CategoryKey string `json:"category_key"`
}

// Config returns the queue configuration for shelf warming tasks.
func (t WarmShelfTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "warm_shelf",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// WarmShelfProcessor creates a processor function for WarmShelfTask.
func WarmShelfProcessor(fetcher *catalog.Fetcher) backlite.QueueProcessor[WarmShelfTask] {
	return func(ctx context.Context, task WarmShelfTask) error {
		if fetcher == nil {
			return fmt.Errorf("fetcher not configured")
		}

		cat := catalog.FindCategory(task.CategoryKey)
		count, err := fetcher.SnapshotListing(ctx, cat)
		if err != nil {
			return fmt.Errorf("warm shelf %s: %w", task.CategoryKey, err)
		}

		log.Printf("[TASK] Warmed shelf %s: %d books stored", task.CategoryKey, count)
		return nil
	}
}

// NewWarmShelfQueue creates a backlite queue for shelf warming tasks.
func NewWarmShelfQueue(fetcher *catalog.Fetcher) backlite.Queue {
	return backlite.NewQueue(WarmShelfProcessor(fetcher))
}
