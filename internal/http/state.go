package http

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avolkau/bookmart/internal/catalog"
	"github.com/avolkau/bookmart/internal/panel"
)

// ViewKeyFunc resolves the key under which a request's view state is stored.
type ViewKeyFunc func(c *gin.Context) string

// ViewState holds one viewing session's storefront state: the listings and
// carousels it has opened plus its detail panel. Everything here is
// ephemeral and torn down with the process.
type ViewState struct {
	mu        sync.Mutex
	listings  map[string]*catalog.Listing
	carousels map[string]*catalog.Carousel
	panel     *panel.Panel
}

// Listing returns the session's listing for a category, creating it on
// first use.
func (vs *ViewState) Listing(fetcher *catalog.Fetcher, cat catalog.Category) *catalog.Listing {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if l, ok := vs.listings[cat.Key]; ok {
		return l
	}
	l := catalog.NewListing(fetcher, cat)
	vs.listings[cat.Key] = l
	return l
}

// Carousel returns the session's carousel for a shelf key, or nil when the
// shelf has not resolved yet.
func (vs *ViewState) Carousel(key string) *catalog.Carousel {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	return vs.carousels[key]
}

// SetCarousel stores a resolved shelf carousel.
func (vs *ViewState) SetCarousel(key string, c *catalog.Carousel) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	vs.carousels[key] = c
}

// Panel returns the session's detail panel.
func (vs *ViewState) Panel() *panel.Panel {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	return vs.panel
}

// ViewStateStore keeps per-session view state in memory, keyed by session
// token (or client IP when sessions are disabled). Idle sessions are
// evicted by a background sweep.
type ViewStateStore struct {
	mu       sync.RWMutex
	sessions map[string]*storedState

	idleTTL       time.Duration
	sweepInterval time.Duration
	stopSweep     chan struct{}
	stopOnce      sync.Once
}

type storedState struct {
	state    *ViewState
	lastSeen time.Time
}

// NewViewStateStore creates a view state store and starts its eviction sweep.
func NewViewStateStore(idleTTL time.Duration) *ViewStateStore {
	if idleTTL <= 0 {
		idleTTL = time.Hour
	}

	s := &ViewStateStore{
		sessions:      make(map[string]*storedState),
		idleTTL:       idleTTL,
		sweepInterval: idleTTL / 4,
		stopSweep:     make(chan struct{}),
	}

	go s.sweepLoop()

	return s
}

// Get returns the view state for a key, creating it on first use.
func (s *ViewStateStore) Get(key string) *ViewState {
	now := time.Now()

	s.mu.RLock()
	stored, ok := s.sessions[key]
	s.mu.RUnlock()

	if ok {
		s.mu.Lock()
		stored.lastSeen = now
		s.mu.Unlock()
		return stored.state
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-check under the write lock
	if stored, ok := s.sessions[key]; ok {
		stored.lastSeen = now
		return stored.state
	}

	vs := &ViewState{
		listings:  make(map[string]*catalog.Listing),
		carousels: make(map[string]*catalog.Carousel),
		panel:     panel.New(),
	}
	s.sessions[key] = &storedState{state: vs, lastSeen: now}
	return vs
}

// Len returns the number of live sessions.
func (s *ViewStateStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Stop stops the background eviction sweep.
func (s *ViewStateStore) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopSweep)
	})
}

func (s *ViewStateStore) sweepLoop() {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stopSweep:
			return
		}
	}
}

func (s *ViewStateStore) sweep() {
	cutoff := time.Now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, stored := range s.sessions {
		if stored.lastSeen.Before(cutoff) {
			delete(s.sessions, key)
		}
	}
}
