package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/avolkau/bookmart/internal/entities"
	"github.com/avolkau/bookmart/internal/googlebooks"
)

// Book is one catalog entry as rendered by the storefront.
type Book = googlebooks.Volume

const (
	// ShelfResults bounds a featured-shelf query.
	ShelfResults = 12
	// ListingResults bounds a category-listing query.
	ListingResults = 40
)

// Source is the catalog data source consumed by the fetch unit.
type Source interface {
	Search(ctx context.Context, params googlebooks.SearchParams) ([]googlebooks.Volume, error)
	GetVolume(ctx context.Context, id string) (*googlebooks.Volume, error)
}

// SnapshotStore persists the last fetched book list per category.
type SnapshotStore interface {
	Save(categoryKey, payload string, bookCount int) error
	Get(categoryKey string) (*entities.CategorySnapshot, error)
}

// Fetcher queries and filters category book lists. Books without a thumbnail
// are dropped at fetch time; the returned lists never contain them.
type Fetcher struct {
	source    Source
	snapshots SnapshotStore // optional
}

// NewFetcher creates a fetch unit over a catalog source. The snapshot store
// may be nil, in which case listings have no offline fallback.
func NewFetcher(source Source, snapshots SnapshotStore) *Fetcher {
	return &Fetcher{source: source, snapshots: snapshots}
}

// FetchShelf issues one bounded query for a featured shelf and filters the
// result to entries with a renderable thumbnail.
func (f *Fetcher) FetchShelf(ctx context.Context, cat Category) ([]Book, error) {
	volumes, err := f.source.Search(ctx, googlebooks.SearchParams{
		Subject:    cat.Label,
		MaxResults: ShelfResults,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch shelf %q: %w", cat.Key, err)
	}
	return filterWithThumbnails(volumes), nil
}

// FetchListing issues the larger category-page query: purchasable print books
// with full projection, filtered to entries that carry both a thumbnail and a
// list price.
func (f *Fetcher) FetchListing(ctx context.Context, cat Category) ([]Book, error) {
	volumes, err := f.source.Search(ctx, googlebooks.SearchParams{
		Subject:    cat.Label,
		MaxResults: ListingResults,
		Filter:     googlebooks.FilterPaidEbooks,
		PrintType:  "books",
		Projection: "full",
	})
	if err != nil {
		return nil, fmt.Errorf("fetch listing %q: %w", cat.Key, err)
	}

	books := make([]Book, 0, len(volumes))
	for _, v := range volumes {
		if v.HasThumbnail() && v.HasListPrice() {
			books = append(books, v)
		}
	}
	return books, nil
}

// FetchDetails fetches the full volume record for one book.
func (f *Fetcher) FetchDetails(ctx context.Context, id string) (*Book, error) {
	return f.source.GetVolume(ctx, id)
}

// SnapshotListing fetches a category listing and persists it as the
// category's snapshot. Used by the warm-shelf task, the refresh scheduler
// and the refresh-shelves CLI command.
func (f *Fetcher) SnapshotListing(ctx context.Context, cat Category) (int, error) {
	if f.snapshots == nil {
		return 0, fmt.Errorf("no snapshot store configured")
	}

	books, err := f.FetchListing(ctx, cat)
	if err != nil {
		return 0, err
	}

	payload, err := json.Marshal(books)
	if err != nil {
		return 0, fmt.Errorf("encode snapshot for %q: %w", cat.Key, err)
	}

	if err := f.snapshots.Save(cat.Key, string(payload), len(books)); err != nil {
		return 0, err
	}
	return len(books), nil
}

// ListingFromSnapshot returns the last persisted listing for a category, or
// nil when no snapshot store is configured or no snapshot exists.
func (f *Fetcher) ListingFromSnapshot(cat Category) []Book {
	if f.snapshots == nil {
		return nil
	}

	snap, err := f.snapshots.Get(cat.Key)
	if err != nil {
		return nil
	}

	var books []Book
	if err := json.Unmarshal([]byte(snap.Payload), &books); err != nil {
		log.Printf("WARNING: discarding corrupt snapshot for %q: %v", cat.Key, err)
		return nil
	}
	return books
}

func filterWithThumbnails(volumes []googlebooks.Volume) []Book {
	books := make([]Book, 0, len(volumes))
	for _, v := range volumes {
		if v.HasThumbnail() {
			books = append(books, v)
		}
	}
	return books
}
