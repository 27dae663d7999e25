package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/avolkau/bookmart/internal/entities"
	"github.com/avolkau/bookmart/internal/googlebooks"
)

type fakeSource struct {
	searchFunc func(ctx context.Context, params googlebooks.SearchParams) ([]googlebooks.Volume, error)
	getFunc    func(ctx context.Context, id string) (*googlebooks.Volume, error)
}

func (f *fakeSource) Search(ctx context.Context, params googlebooks.SearchParams) ([]googlebooks.Volume, error) {
	if f.searchFunc == nil {
		return nil, errors.New("search not configured")
	}
	return f.searchFunc(ctx, params)
}

func (f *fakeSource) GetVolume(ctx context.Context, id string) (*googlebooks.Volume, error) {
	if f.getFunc == nil {
		return nil, errors.New("get not configured")
	}
	return f.getFunc(ctx, id)
}

type fakeSnapshots struct {
	saved map[string]*entities.CategorySnapshot
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{saved: make(map[string]*entities.CategorySnapshot)}
}

func (f *fakeSnapshots) Save(categoryKey, payload string, bookCount int) error {
	f.saved[categoryKey] = &entities.CategorySnapshot{
		CategoryKey: categoryKey,
		Payload:     payload,
		BookCount:   bookCount,
		FetchedAt:   time.Now(),
	}
	return nil
}

func (f *fakeSnapshots) Get(categoryKey string) (*entities.CategorySnapshot, error) {
	snap, ok := f.saved[categoryKey]
	if !ok {
		return nil, errors.New("not found")
	}
	return snap, nil
}

// makeBook builds a volume with optional thumbnail and list price.
func makeBook(id string, withThumbnail bool, price float64) googlebooks.Volume {
	v := googlebooks.Volume{
		ID:         id,
		VolumeInfo: googlebooks.VolumeInfo{Title: "Book " + id},
	}
	if withThumbnail {
		v.VolumeInfo.ImageLinks = &googlebooks.ImageLinks{
			Thumbnail: "http://example.com/" + id + ".jpg",
		}
	}
	if price > 0 {
		v.SaleInfo = &googlebooks.SaleInfo{
			Saleability: "FOR_SALE",
			ListPrice:   &googlebooks.Price{Amount: price, CurrencyCode: "USD"},
		}
	}
	return v
}

func makeBooks(n int, withThumbnail bool, price float64) []googlebooks.Volume {
	books := make([]googlebooks.Volume, 0, n)
	for i := 0; i < n; i++ {
		books = append(books, makeBook(fmt.Sprintf("b%03d", i), withThumbnail, price))
	}
	return books
}

func TestFetchShelfFiltersMissingThumbnails(t *testing.T) {
	source := &fakeSource{
		searchFunc: func(ctx context.Context, params googlebooks.SearchParams) ([]googlebooks.Volume, error) {
			if params.MaxResults != ShelfResults {
				t.Errorf("MaxResults = %d, expected %d", params.MaxResults, ShelfResults)
			}
			return []googlebooks.Volume{
				makeBook("a", true, 0),
				makeBook("b", false, 0),
				makeBook("c", true, 0),
			}, nil
		},
	}

	fetcher := NewFetcher(source, nil)
	books, err := fetcher.FetchShelf(context.Background(), Category{Key: "fiction", Label: "Fiction"})
	if err != nil {
		t.Fatalf("FetchShelf() unexpected error: %v", err)
	}

	if len(books) != 2 {
		t.Fatalf("FetchShelf() returned %d books, expected 2", len(books))
	}
	for _, b := range books {
		if !b.HasThumbnail() {
			t.Errorf("book %s has no thumbnail; filtered lists must never contain one", b.ID)
		}
	}
}

func TestFetchListingRequiresThumbnailAndPrice(t *testing.T) {
	source := &fakeSource{
		searchFunc: func(ctx context.Context, params googlebooks.SearchParams) ([]googlebooks.Volume, error) {
			if params.MaxResults != ListingResults {
				t.Errorf("MaxResults = %d, expected %d", params.MaxResults, ListingResults)
			}
			if params.Filter != googlebooks.FilterPaidEbooks {
				t.Errorf("Filter = %q, expected %q", params.Filter, googlebooks.FilterPaidEbooks)
			}
			if params.PrintType != "books" || params.Projection != "full" {
				t.Errorf("PrintType/Projection = %q/%q, expected books/full", params.PrintType, params.Projection)
			}
			return []googlebooks.Volume{
				makeBook("priced", true, 12.99),
				makeBook("free", true, 0),
				makeBook("no-thumb", false, 9.99),
			}, nil
		},
	}

	fetcher := NewFetcher(source, nil)
	books, err := fetcher.FetchListing(context.Background(), Category{Key: "fiction", Label: "Fiction"})
	if err != nil {
		t.Fatalf("FetchListing() unexpected error: %v", err)
	}

	if len(books) != 1 {
		t.Fatalf("FetchListing() returned %d books, expected 1", len(books))
	}
	if books[0].ID != "priced" {
		t.Errorf("kept book = %s, expected priced", books[0].ID)
	}
}

func TestSnapshotListingRoundTrip(t *testing.T) {
	source := &fakeSource{
		searchFunc: func(ctx context.Context, params googlebooks.SearchParams) ([]googlebooks.Volume, error) {
			return makeBooks(3, true, 5.99), nil
		},
	}
	snapshots := newFakeSnapshots()
	fetcher := NewFetcher(source, snapshots)

	cat := Category{Key: "mystery", Label: "Mystery"}
	count, err := fetcher.SnapshotListing(context.Background(), cat)
	if err != nil {
		t.Fatalf("SnapshotListing() unexpected error: %v", err)
	}
	if count != 3 {
		t.Errorf("SnapshotListing() count = %d, expected 3", count)
	}

	books := fetcher.ListingFromSnapshot(cat)
	if len(books) != 3 {
		t.Fatalf("ListingFromSnapshot() returned %d books, expected 3", len(books))
	}
	if books[0].ID != "b000" {
		t.Errorf("first book = %s, expected b000", books[0].ID)
	}
}

func TestSnapshotListingWithoutStore(t *testing.T) {
	fetcher := NewFetcher(&fakeSource{}, nil)
	if _, err := fetcher.SnapshotListing(context.Background(), Category{Key: "fiction"}); err == nil {
		t.Error("SnapshotListing() without a store should error")
	}
	if books := fetcher.ListingFromSnapshot(Category{Key: "fiction"}); books != nil {
		t.Error("ListingFromSnapshot() without a store should return nil")
	}
}

func TestListingFromSnapshotDiscardsCorruptPayload(t *testing.T) {
	snapshots := newFakeSnapshots()
	_ = snapshots.Save("fiction", "{not valid json", 1)

	fetcher := NewFetcher(&fakeSource{}, snapshots)
	if books := fetcher.ListingFromSnapshot(Category{Key: "fiction"}); books != nil {
		t.Errorf("ListingFromSnapshot() = %d books, expected nil for corrupt payload", len(books))
	}
}

func TestSnapshotPayloadIsJSONList(t *testing.T) {
	source := &fakeSource{
		searchFunc: func(ctx context.Context, params googlebooks.SearchParams) ([]googlebooks.Volume, error) {
			return makeBooks(2, true, 3.50), nil
		},
	}
	snapshots := newFakeSnapshots()
	fetcher := NewFetcher(source, snapshots)

	if _, err := fetcher.SnapshotListing(context.Background(), Category{Key: "art", Label: "Art"}); err != nil {
		t.Fatalf("SnapshotListing() unexpected error: %v", err)
	}

	var decoded []googlebooks.Volume
	if err := json.Unmarshal([]byte(snapshots.saved["art"].Payload), &decoded); err != nil {
		t.Fatalf("snapshot payload is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Errorf("decoded %d books, expected 2", len(decoded))
	}
}
