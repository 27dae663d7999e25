package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avolkau/bookmart/internal/catalog"
	"github.com/avolkau/bookmart/internal/googlebooks"
	"github.com/avolkau/bookmart/internal/panel"
	"github.com/avolkau/bookmart/internal/tasks"
)

// CategoryResponse is one category entry in the categories listing.
type CategoryResponse struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Featured bool   `json:"featured"`
}

// BookCard is the compact book shape rendered in shelves and listings.
type BookCard struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Authors   []string           `json:"authors,omitempty"`
	Thumbnail string             `json:"thumbnail,omitempty"`
	Price     *googlebooks.Price `json:"price,omitempty"`
}

// ShelfResponse is the carousel section payload for a featured category.
type ShelfResponse struct {
	Category     CategoryResponse `json:"category"`
	Books        []BookCard       `json:"books"`
	Skeleton     bool             `json:"skeleton"`
	Placeholders int              `json:"placeholders,omitempty"`
	PrevDisabled bool             `json:"prev_disabled"`
	NextDisabled bool             `json:"next_disabled"`
}

// ListingResponse is the category page payload.
type ListingResponse struct {
	Category       CategoryResponse `json:"category"`
	Books          []BookCard       `json:"books"`
	DisplayedCount int              `json:"displayed_count"`
	Total          int              `json:"total"`
	FullyRevealed  bool             `json:"fully_revealed"`
	Loading        bool             `json:"loading"`
}

// CatalogController serves the storefront catalog endpoints: category
// config, featured shelves, incremental category listings and book details.
type CatalogController struct {
	fetcher    *catalog.Fetcher
	views      *ViewStateStore
	viewKey    ViewKeyFunc
	taskClient *tasks.Client // optional
}

// NewCatalogController creates a catalog controller. The task client may be
// nil, in which case category visits do not warm snapshots.
func NewCatalogController(fetcher *catalog.Fetcher, views *ViewStateStore, viewKey ViewKeyFunc, taskClient *tasks.Client) *CatalogController {
	return &CatalogController{
		fetcher:    fetcher,
		views:      views,
		viewKey:    viewKey,
		taskClient: taskClient,
	}
}

func (cc *CatalogController) viewState(c *gin.Context) *ViewState {
	return cc.views.Get(cc.viewKey(c))
}

// GetCategories returns the category configuration: featured shelves first,
// then the full browsable set.
func (cc *CatalogController) GetCategories(c *gin.Context) {
	featured := make([]CategoryResponse, 0, len(catalog.FeaturedCategories))
	for _, cat := range catalog.FeaturedCategories {
		featured = append(featured, CategoryResponse{Key: cat.Key, Label: cat.Label, Featured: true})
	}

	all := make([]CategoryResponse, 0, len(catalog.Categories))
	for _, cat := range catalog.Categories {
		all = append(all, CategoryResponse{
			Key:      cat.Key,
			Label:    cat.Label,
			Featured: catalog.IsFeatured(cat.Key),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"featured":   featured,
		"categories": all,
	})
}

// GetShelf returns the carousel section for a featured category. The shelf
// is fetched once per session; until a fetch succeeds the payload carries a
// fixed-size skeleton marker. An empty resolved list is an empty section,
// not an error.
func (cc *CatalogController) GetShelf(c *gin.Context) {
	cat := catalog.FindCategory(c.Param("key"))
	vs := cc.viewState(c)

	carousel := vs.Carousel(cat.Key)
	if carousel == nil {
		books, err := cc.fetcher.FetchShelf(c.Request.Context(), cat)
		if err != nil {
			// Shelf stays in its skeleton state until a later request succeeds
			c.JSON(http.StatusOK, ShelfResponse{
				Category:     CategoryResponse{Key: cat.Key, Label: cat.Label, Featured: true},
				Books:        []BookCard{},
				Skeleton:     true,
				Placeholders: catalog.SkeletonSlots,
			})
			return
		}

		carousel = catalog.NewCarousel(books, catalog.CarouselWindow, true)
		vs.SetCarousel(cat.Key, carousel)
	}

	cc.respondShelf(c, cat, carousel)
}

// ShelfNext advances the session's carousel window for a shelf.
func (cc *CatalogController) ShelfNext(c *gin.Context) {
	cc.moveShelf(c, func(car *catalog.Carousel) { car.Next() })
}

// ShelfPrev moves the session's carousel window back for a shelf.
func (cc *CatalogController) ShelfPrev(c *gin.Context) {
	cc.moveShelf(c, func(car *catalog.Carousel) { car.Prev() })
}

func (cc *CatalogController) moveShelf(c *gin.Context, move func(*catalog.Carousel)) {
	cat := catalog.FindCategory(c.Param("key"))
	vs := cc.viewState(c)

	carousel := vs.Carousel(cat.Key)
	if carousel == nil {
		respondNotFound(c, "shelf")
		return
	}

	move(carousel)
	cc.respondShelf(c, cat, carousel)
}

func (cc *CatalogController) respondShelf(c *gin.Context, cat catalog.Category, carousel *catalog.Carousel) {
	c.JSON(http.StatusOK, ShelfResponse{
		Category:     CategoryResponse{Key: cat.Key, Label: cat.Label, Featured: true},
		Books:        toCards(carousel.Window()),
		PrevDisabled: carousel.PrevDisabled(),
		NextDisabled: carousel.NextDisabled(),
	})
}

// GetListing (re)loads the session's listing for a category and returns the
// first increment. A label query overrides the key-derived query term.
func (cc *CatalogController) GetListing(c *gin.Context) {
	cat := catalog.FindCategory(c.Param("key"))
	if label := c.Query("label"); label != "" {
		cat.Label = label
	}

	vs := cc.viewState(c)
	listing := vs.Listing(cc.fetcher, cat)
	listing.Load(c.Request.Context())

	// Visiting a category keeps its snapshot warm for offline fallback
	if cc.taskClient != nil {
		if _, err := cc.taskClient.Add(tasks.WarmShelfTask{CategoryKey: cat.Key}).Save(); err != nil {
			log.Printf("WARNING: failed to enqueue snapshot warm for %q: %v", cat.Key, err)
		}
	}

	cc.respondListing(c, listing)
}

// LoadMore reveals the next increment of the session's category listing.
// No upstream call; a no-op once fully revealed.
func (cc *CatalogController) LoadMore(c *gin.Context) {
	cat := catalog.FindCategory(c.Param("key"))
	vs := cc.viewState(c)

	listing := vs.Listing(cc.fetcher, cat)
	listing.LoadMore()

	cc.respondListing(c, listing)
}

func (cc *CatalogController) respondListing(c *gin.Context, listing *catalog.Listing) {
	cat := listing.Category()
	c.JSON(http.StatusOK, ListingResponse{
		Category:       CategoryResponse{Key: cat.Key, Label: cat.Label, Featured: catalog.IsFeatured(cat.Key)},
		Books:          toCards(listing.Displayed()),
		DisplayedCount: listing.DisplayedCount(),
		Total:          listing.Total(),
		FullyRevealed:  listing.FullyRevealed(),
		Loading:        listing.Loading(),
	})
}

// GetBook fetches one book's details, formats them for the viewport and
// opens the session's detail panel with the result. A failed lookup opens
// the panel with an error notice instead.
func (cc *CatalogController) GetBook(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondBadRequest(c, "book id is required")
		return
	}

	vp := catalog.ParseViewport(c.Query("viewport"))
	vs := cc.viewState(c)

	book, err := cc.fetcher.FetchDetails(c.Request.Context(), id)
	if err != nil {
		vs.Panel().OpenNotice("Unable to load book details. Please try again.")
		c.JSON(http.StatusBadGateway, PanelResponse{
			Open:    true,
			Content: vs.Panel().Content(),
		})
		return
	}

	info := book.VolumeInfo
	detail := panel.BookDetail{
		ID:            book.ID,
		Title:         info.Title,
		Subtitle:      info.Subtitle,
		ImageURL:      catalog.DetailImage(info.ImageLinks, vp),
		Authors:       info.Authors,
		Publisher:     info.Publisher,
		PublishedDate: info.PublishedDate,
		PageCount:     info.PageCount,
		Description:   info.Description,
		Categories:    info.Categories,
		AverageRating: info.AverageRating,
		RatingsCount:  info.RatingsCount,
	}
	vs.Panel().OpenBook(detail)

	c.JSON(http.StatusOK, PanelResponse{
		Open:    true,
		Content: vs.Panel().Content(),
	})
}

func toCards(books []catalog.Book) []BookCard {
	cards := make([]BookCard, 0, len(books))
	for _, b := range books {
		card := BookCard{
			ID:      b.ID,
			Title:   b.VolumeInfo.Title,
			Authors: b.VolumeInfo.Authors,
		}
		if b.VolumeInfo.ImageLinks != nil {
			card.Thumbnail = b.VolumeInfo.ImageLinks.Thumbnail
		}
		if b.SaleInfo != nil && b.SaleInfo.ListPrice != nil {
			card.Price = b.SaleInfo.ListPrice
		}
		cards = append(cards, card)
	}
	return cards
}
