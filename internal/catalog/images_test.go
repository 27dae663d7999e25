package catalog

import (
	"testing"

	"github.com/avolkau/bookmart/internal/googlebooks"
)

func TestParseViewport(t *testing.T) {
	tests := []struct {
		input    string
		expected Viewport
	}{
		{"small", ViewportSmall},
		{"medium", ViewportMedium},
		{"large", ViewportLarge},
		{"", ViewportLarge},
		{"desktop", ViewportLarge},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseViewport(tt.input); got != tt.expected {
				t.Errorf("ParseViewport(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDetailImage(t *testing.T) {
	full := &googlebooks.ImageLinks{
		Thumbnail: "thumb.jpg",
		Small:     "small.jpg",
		Medium:    "medium.jpg",
		Large:     "large.jpg",
	}
	sparse := &googlebooks.ImageLinks{
		Thumbnail: "thumb.jpg",
	}

	tests := []struct {
		name     string
		links    *googlebooks.ImageLinks
		viewport Viewport
		expected string
	}{
		{"small viewport picks small", full, ViewportSmall, "small.jpg"},
		{"medium viewport picks medium", full, ViewportMedium, "medium.jpg"},
		{"large viewport picks large", full, ViewportLarge, "large.jpg"},
		{"missing tier falls back to thumbnail", sparse, ViewportLarge, "thumb.jpg"},
		{"missing small falls back to thumbnail", sparse, ViewportSmall, "thumb.jpg"},
		{"nil links", nil, ViewportLarge, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetailImage(tt.links, tt.viewport); got != tt.expected {
				t.Errorf("DetailImage() = %q, expected %q", got, tt.expected)
			}
		})
	}
}
