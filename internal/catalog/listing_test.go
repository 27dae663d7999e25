package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/avolkau/bookmart/internal/googlebooks"
)

func listingSource(books []googlebooks.Volume, err error) *fakeSource {
	return &fakeSource{
		searchFunc: func(ctx context.Context, params googlebooks.SearchParams) ([]googlebooks.Volume, error) {
			return books, err
		},
	}
}

func TestListingRevealsInIncrements(t *testing.T) {
	// 25 purchasable books survive the filter out of a 40-result query
	fetcher := NewFetcher(listingSource(makeBooks(25, true, 7.99), nil), nil)
	listing := NewListing(fetcher, Category{Key: "fiction", Label: "Fiction"})

	listing.Load(context.Background())

	if got := listing.DisplayedCount(); got != 10 {
		t.Fatalf("after load: displayed = %d, expected 10", got)
	}
	if listing.FullyRevealed() {
		t.Error("after load: should not be fully revealed")
	}

	listing.LoadMore()
	if got := listing.DisplayedCount(); got != 20 {
		t.Fatalf("after first load more: displayed = %d, expected 20", got)
	}

	listing.LoadMore()
	if got := listing.DisplayedCount(); got != 25 {
		t.Fatalf("after second load more: displayed = %d, expected 25", got)
	}
	if !listing.FullyRevealed() {
		t.Error("all books displayed: should be fully revealed")
	}

	// Further load-more actions are no-ops
	listing.LoadMore()
	if got := listing.DisplayedCount(); got != 25 {
		t.Errorf("load more at total: displayed = %d, expected 25", got)
	}
}

func TestListingSmallerThanOneIncrement(t *testing.T) {
	fetcher := NewFetcher(listingSource(makeBooks(4, true, 7.99), nil), nil)
	listing := NewListing(fetcher, Category{Key: "poetry", Label: "Poetry"})

	listing.Load(context.Background())

	if got := listing.DisplayedCount(); got != 4 {
		t.Errorf("displayed = %d, expected 4", got)
	}
	if !listing.FullyRevealed() {
		t.Error("4 of 4 displayed: should be fully revealed")
	}
}

func TestListingDisplayedNeverExceedsTotal(t *testing.T) {
	fetcher := NewFetcher(listingSource(makeBooks(12, true, 7.99), nil), nil)
	listing := NewListing(fetcher, Category{Key: "fiction", Label: "Fiction"})

	listing.Load(context.Background())
	for i := 0; i < 10; i++ {
		listing.LoadMore()
		if listing.DisplayedCount() > listing.Total() {
			t.Fatalf("displayed %d exceeds total %d", listing.DisplayedCount(), listing.Total())
		}
	}
}

func TestListingLoadFailureClearsLoading(t *testing.T) {
	fetcher := NewFetcher(listingSource(nil, errors.New("upstream down")), nil)
	listing := NewListing(fetcher, Category{Key: "fiction", Label: "Fiction"})

	listing.Load(context.Background())

	if listing.Loading() {
		t.Error("loading flag must clear after a failed load")
	}
	if listing.Total() != 0 {
		t.Errorf("total = %d, expected 0", listing.Total())
	}
	if got := listing.Displayed(); len(got) != 0 {
		t.Errorf("displayed %d books, expected 0", len(got))
	}
}

func TestListingLoadFailureKeepsPriorList(t *testing.T) {
	books := makeBooks(15, true, 7.99)
	var failNow bool
	source := &fakeSource{
		searchFunc: func(ctx context.Context, params googlebooks.SearchParams) ([]googlebooks.Volume, error) {
			if failNow {
				return nil, errors.New("upstream down")
			}
			return books, nil
		},
	}
	fetcher := NewFetcher(source, nil)
	listing := NewListing(fetcher, Category{Key: "fiction", Label: "Fiction"})

	listing.Load(context.Background())
	listing.LoadMore()
	if got := listing.DisplayedCount(); got != 15 {
		t.Fatalf("displayed = %d, expected 15", got)
	}

	failNow = true
	listing.Load(context.Background())

	if got := listing.Total(); got != 15 {
		t.Errorf("total after failed reload = %d, expected prior 15", got)
	}
	if listing.Loading() {
		t.Error("loading flag must clear after a failed reload")
	}
}

func TestListingLoadFailureFallsBackToSnapshot(t *testing.T) {
	snapshots := newFakeSnapshots()
	okSource := listingSource(makeBooks(12, true, 7.99), nil)
	warmFetcher := NewFetcher(okSource, snapshots)
	if _, err := warmFetcher.SnapshotListing(context.Background(), Category{Key: "fiction", Label: "Fiction"}); err != nil {
		t.Fatalf("warming snapshot: %v", err)
	}

	// Same snapshot store, but the live source now fails
	fetcher := NewFetcher(listingSource(nil, errors.New("upstream down")), snapshots)
	listing := NewListing(fetcher, Category{Key: "fiction", Label: "Fiction"})

	listing.Load(context.Background())

	if got := listing.Total(); got != 12 {
		t.Fatalf("total from snapshot = %d, expected 12", got)
	}
	if got := listing.DisplayedCount(); got != 10 {
		t.Errorf("displayed from snapshot = %d, expected 10", got)
	}
}

func TestListingStaleLoadIsDiscarded(t *testing.T) {
	older := makeBooks(5, true, 7.99)
	newer := makeBooks(20, true, 7.99)

	release := make(chan struct{})
	var calls int
	var mu sync.Mutex

	source := &fakeSource{
		searchFunc: func(ctx context.Context, params googlebooks.SearchParams) ([]googlebooks.Volume, error) {
			mu.Lock()
			calls++
			first := calls == 1
			mu.Unlock()

			if first {
				// First load stalls until the second one has finished
				<-release
				return older, nil
			}
			return newer, nil
		},
	}
	fetcher := NewFetcher(source, nil)
	listing := NewListing(fetcher, Category{Key: "fiction", Label: "Fiction"})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		listing.Load(context.Background())
	}()

	// Wait for the first load to be in flight before starting the second
	for {
		mu.Lock()
		started := calls >= 1
		mu.Unlock()
		if started {
			break
		}
	}

	listing.Load(context.Background())
	close(release)
	wg.Wait()

	if got := listing.Total(); got != 20 {
		t.Errorf("total = %d, expected 20; the stale first load must not overwrite the newer one", got)
	}
}
