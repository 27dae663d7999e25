package catalog

import (
	"context"
	"log"
	"sync"
)

// BooksPerLoad is the fixed increment revealed by each "load more" action.
const BooksPerLoad = 10

// Listing holds the view state for one category page: the fetched book list
// in relevance order, a loading flag, and the displayed-count cursor.
//
// The cursor never exceeds the fetched total and never decreases except
// through a full reload. Loads carry a generation counter so a stale
// completion cannot overwrite state written by a newer load.
type Listing struct {
	fetcher  *Fetcher
	category Category

	mu         sync.Mutex
	books      []Book
	displayed  int
	loading    bool
	generation uint64
}

// NewListing creates an empty listing for a category.
func NewListing(fetcher *Fetcher, cat Category) *Listing {
	return &Listing{fetcher: fetcher, category: cat}
}

// Category returns the category this listing renders.
func (l *Listing) Category() Category {
	return l.category
}

// Load fetches the category's book list and reveals the first increment.
// On failure the prior list is kept (falling back to the category snapshot
// when the listing was still empty) and the loading flag is cleared either
// way, so the view never hangs.
func (l *Listing) Load(ctx context.Context) {
	l.mu.Lock()
	l.generation++
	gen := l.generation
	l.loading = true
	l.mu.Unlock()

	books, err := l.fetcher.FetchListing(ctx, l.category)

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.generation {
		// A newer load already ran; this completion is stale.
		return
	}

	if err != nil {
		log.Printf("Error fetching books for %q: %v", l.category.Key, err)
		if len(l.books) == 0 {
			if fallback := l.fetcher.ListingFromSnapshot(l.category); len(fallback) > 0 {
				l.books = fallback
				l.displayed = min(BooksPerLoad, len(fallback))
			}
		}
		l.loading = false
		return
	}

	l.books = books
	l.displayed = min(BooksPerLoad, len(books))
	l.loading = false
}

// LoadMore advances the displayed-count cursor by one increment from the
// already-fetched superset. No network call; a no-op once fully revealed.
func (l *Listing) LoadMore() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.displayed = min(l.displayed+BooksPerLoad, len(l.books))
}

// Displayed returns the currently revealed prefix of the book list.
func (l *Listing) Displayed() []Book {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.books[:l.displayed]
}

// DisplayedCount returns the displayed-count cursor.
func (l *Listing) DisplayedCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.displayed
}

// Total returns the fetched book count (post-filter).
func (l *Listing) Total() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.books)
}

// Loading reports whether a load is in flight.
func (l *Listing) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.loading
}

// FullyRevealed reports whether every fetched book is displayed. The UI swaps
// the "load more" control for "back to top" when this turns true.
func (l *Listing) FullyRevealed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.displayed == len(l.books)
}
