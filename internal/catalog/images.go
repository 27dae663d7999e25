package catalog

import "github.com/avolkau/bookmart/internal/googlebooks"

// Viewport is the responsive breakpoint bucket read at selection time.
type Viewport string

const (
	ViewportSmall  Viewport = "small"  // up to 640px
	ViewportMedium Viewport = "medium" // 641-1024px
	ViewportLarge  Viewport = "large"  // 1025px and up
)

// ParseViewport maps a request value to a viewport bucket, defaulting to
// large for unknown or empty values.
func ParseViewport(s string) Viewport {
	switch Viewport(s) {
	case ViewportSmall, ViewportMedium, ViewportLarge:
		return Viewport(s)
	default:
		return ViewportLarge
	}
}

// DetailImage picks the cover image to show in the detail panel: the tier
// matching the viewport bucket when present, otherwise the thumbnail.
func DetailImage(links *googlebooks.ImageLinks, vp Viewport) string {
	if links == nil {
		return ""
	}

	switch vp {
	case ViewportSmall:
		if links.Small != "" {
			return links.Small
		}
	case ViewportMedium:
		if links.Medium != "" {
			return links.Medium
		}
	case ViewportLarge:
		if links.Large != "" {
			return links.Large
		}
	}
	return links.Thumbnail
}
