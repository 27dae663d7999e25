// Package panel manages the slide-over detail view state. A Panel is
// explicitly constructed and owned by the session view state rather than
// living as ambient package-level state.
package panel

import "sync"

// Kind tags the finite set of content shapes the panel can hold.
type Kind string

const (
	KindBookDetail  Kind = "book_detail"
	KindErrorNotice Kind = "error_notice"
)

// BookDetail is the formatted detail content for one book.
type BookDetail struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
	Authors       []string `json:"authors,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	PublishedDate string   `json:"published_date,omitempty"`
	PageCount     int      `json:"page_count,omitempty"`
	Description   string   `json:"description,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	AverageRating float64  `json:"average_rating,omitempty"`
	RatingsCount  int      `json:"ratings_count,omitempty"`
}

// ErrorNotice is a user-facing failure message shown in the panel.
type ErrorNotice struct {
	Message string `json:"message"`
}

// Content is the tagged variant held by the panel.
type Content struct {
	Kind   Kind         `json:"kind"`
	Book   *BookDetail  `json:"book,omitempty"`
	Notice *ErrorNotice `json:"notice,omitempty"`
}

// Panel is the detail-panel controller: an open/closed flag plus the current
// content. At most one content is active; opening replaces rather than
// stacks. Close retains content so an exit transition can still render it.
type Panel struct {
	mu      sync.Mutex
	isOpen  bool
	content *Content
}

// New creates a closed, empty panel.
func New() *Panel {
	return &Panel{}
}

// Open replaces the current content and opens the panel, unconditionally.
func (p *Panel) Open(content Content) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.content = &content
	p.isOpen = true
}

// OpenBook opens the panel with book-detail content.
func (p *Panel) OpenBook(detail BookDetail) {
	p.Open(Content{Kind: KindBookDetail, Book: &detail})
}

// OpenNotice opens the panel with an error notice.
func (p *Panel) OpenNotice(message string) {
	p.Open(Content{Kind: KindErrorNotice, Notice: &ErrorNotice{Message: message}})
}

// Close closes the panel. The content is retained, not cleared; it is only
// logically stale once a subsequent Open overwrites it. Callers needing
// presence semantics must check IsOpen before reading Content.
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.isOpen = false
}

// IsOpen reports whether the panel is open.
func (p *Panel) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.isOpen
}

// Content returns the current content, which may belong to a closed panel.
func (p *Panel) Content() *Content {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.content
}
