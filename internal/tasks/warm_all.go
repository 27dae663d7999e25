package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/avolkau/bookmart/internal/catalog"
)

// WarmAllShelvesTask refreshes snapshots for every featured category.
// Categories are warmed sequentially to stay inside the upstream rate limit.
type WarmAllShelvesTask struct{}

// Config returns the queue configuration for bulk warming tasks.
func (t WarmAllShelvesTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "warm_all_shelves",
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     15 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// WarmAllShelvesProcessor creates a processor function for WarmAllShelvesTask.
func WarmAllShelvesProcessor(fetcher *catalog.Fetcher) backlite.QueueProcessor[WarmAllShelvesTask] {
	return func(ctx context.Context, task WarmAllShelvesTask) error {
		if fetcher == nil {
			return fmt.Errorf("fetcher not configured")
		}

		var warmed, failed int
		for _, cat := range catalog.FeaturedCategories {
			count, err := fetcher.SnapshotListing(ctx, cat)
			if err != nil {
				failed++
				log.Printf("[TASK ERROR] Warm shelf %s: %v", cat.Key, err)
				continue
			}
			warmed++
			log.Printf("[TASK] Warmed shelf %s: %d books stored", cat.Key, count)
		}

		log.Printf("[TASK] Shelf warming complete: %d warmed, %d failed", warmed, failed)

		if warmed == 0 && failed > 0 {
			return fmt.Errorf("all %d shelf refreshes failed", failed)
		}
		return nil
	}
}

// NewWarmAllShelvesQueue creates a backlite queue for bulk warming tasks.
func NewWarmAllShelvesQueue(fetcher *catalog.Fetcher) backlite.Queue {
	return backlite.NewQueue(WarmAllShelvesProcessor(fetcher))
}
