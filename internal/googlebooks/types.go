package googlebooks

// Volume is one book record from the catalog source. Immutable once fetched.
type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
	SaleInfo   *SaleInfo  `json:"saleInfo,omitempty"`
}

// VolumeInfo carries the volume metadata the storefront renders.
type VolumeInfo struct {
	Title         string      `json:"title"`
	Subtitle      string      `json:"subtitle,omitempty"`
	Authors       []string    `json:"authors,omitempty"`
	Publisher     string      `json:"publisher,omitempty"`
	PublishedDate string      `json:"publishedDate,omitempty"`
	PageCount     int         `json:"pageCount,omitempty"`
	Description   string      `json:"description,omitempty"`
	Categories    []string    `json:"categories,omitempty"`
	AverageRating float64     `json:"averageRating,omitempty"`
	RatingsCount  int         `json:"ratingsCount,omitempty"`
	ImageLinks    *ImageLinks `json:"imageLinks,omitempty"`
}

// ImageLinks holds cover images keyed by size tier. All sparse.
type ImageLinks struct {
	SmallThumbnail string `json:"smallThumbnail,omitempty"`
	Thumbnail      string `json:"thumbnail,omitempty"`
	Small          string `json:"small,omitempty"`
	Medium         string `json:"medium,omitempty"`
	Large          string `json:"large,omitempty"`
	ExtraLarge     string `json:"extraLarge,omitempty"`
}

// SaleInfo carries the sale metadata for a volume.
type SaleInfo struct {
	Saleability string `json:"saleability,omitempty"`
	ListPrice   *Price `json:"listPrice,omitempty"`
	RetailPrice *Price `json:"retailPrice,omitempty"`
}

// Price is a monetary amount in a currency.
type Price struct {
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currencyCode,omitempty"`
}

// HasThumbnail reports whether the volume carries a renderable thumbnail.
// Listings exclude volumes without one at fetch time.
func (v *Volume) HasThumbnail() bool {
	return v.VolumeInfo.ImageLinks != nil && v.VolumeInfo.ImageLinks.Thumbnail != ""
}

// HasListPrice reports whether the volume carries a non-nil list price.
func (v *Volume) HasListPrice() bool {
	return v.SaleInfo != nil && v.SaleInfo.ListPrice != nil && v.SaleInfo.ListPrice.Amount > 0
}

// searchResult is the wire shape of a volumes search response.
type searchResult struct {
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}
