package catalog

import "sync"

// SkeletonSlots is how many placeholder cards a shelf renders while its
// fetch is pending.
const SkeletonSlots = 10

// CarouselWindow is how many books a shelf shows at once.
const CarouselWindow = 6

// Carousel pages through one shelf's books in fixed-size steps. With loop
// enabled the window wraps and the prev/next controls are never disabled;
// otherwise their disabled state reflects boundary reachability.
type Carousel struct {
	mu     sync.Mutex
	books  []Book
	window int
	offset int
	loop   bool
}

// NewCarousel creates a carousel over a book list.
func NewCarousel(books []Book, window int, loop bool) *Carousel {
	if window <= 0 {
		window = CarouselWindow
	}
	return &Carousel{books: books, window: window, loop: loop}
}

// SetBooks replaces the book list and rewinds to the start.
func (c *Carousel) SetBooks(books []Book) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.books = books
	c.offset = 0
}

// Window returns the currently visible slice of books. With loop enabled the
// window wraps around the end of the list.
func (c *Carousel) Window() []Book {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.books)
	if n == 0 {
		return nil
	}

	if !c.loop {
		end := min(c.offset+c.window, n)
		return c.books[c.offset:end]
	}

	visible := min(c.window, n)
	out := make([]Book, 0, visible)
	for i := 0; i < visible; i++ {
		out = append(out, c.books[(c.offset+i)%n])
	}
	return out
}

// Next advances the window one slide. At the end it wraps when looping and
// is a no-op otherwise.
func (c *Carousel) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.books)
	if n == 0 {
		return
	}
	if c.loop {
		c.offset = (c.offset + 1) % n
		return
	}
	if c.offset+c.window < n {
		c.offset++
	}
}

// Prev moves the window one slide back, wrapping when looping.
func (c *Carousel) Prev() {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.books)
	if n == 0 {
		return
	}
	if c.loop {
		c.offset = (c.offset - 1 + n) % n
		return
	}
	if c.offset > 0 {
		c.offset--
	}
}

// PrevDisabled reports whether the previous control should be disabled.
// Never disabled when looping.
func (c *Carousel) PrevDisabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loop {
		return false
	}
	return c.offset == 0
}

// NextDisabled reports whether the next control should be disabled.
// Never disabled when looping.
func (c *Carousel) NextDisabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loop {
		return false
	}
	return c.offset+c.window >= len(c.books)
}
