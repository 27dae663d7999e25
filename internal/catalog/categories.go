// Package catalog implements the storefront's book browsing logic: category
// configuration, the per-category fetch unit, incremental listing reveal and
// the featured-shelf carousel window.
package catalog

import "strings"

// Category pairs a machine key with the human-readable query term sent to the
// catalog source. Static configuration, not user-editable.
type Category struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// FeaturedCategories are rendered as carousel shelves on the home page.
var FeaturedCategories = []Category{
	{Key: "fiction", Label: "Fiction"},
	{Key: "mystery", Label: "Mystery"},
	{Key: "science-fiction", Label: "Science Fiction"},
	{Key: "romance", Label: "Romance"},
	{Key: "history", Label: "History"},
}

// Categories is the full browse menu.
var Categories = []Category{
	{Key: "fiction", Label: "Fiction"},
	{Key: "mystery", Label: "Mystery"},
	{Key: "thriller", Label: "Thriller"},
	{Key: "romance", Label: "Romance"},
	{Key: "science-fiction", Label: "Science Fiction"},
	{Key: "fantasy", Label: "Fantasy"},
	{Key: "horror", Label: "Horror"},
	{Key: "biography", Label: "Biography"},
	{Key: "history", Label: "History"},
	{Key: "business", Label: "Business"},
	{Key: "self-help", Label: "Self-Help"},
	{Key: "health", Label: "Health"},
	{Key: "travel", Label: "Travel"},
	{Key: "cooking", Label: "Cooking"},
	{Key: "art", Label: "Art"},
	{Key: "poetry", Label: "Poetry"},
	{Key: "religion", Label: "Religion"},
	{Key: "science", Label: "Science"},
	{Key: "sports", Label: "Sports"},
	{Key: "education", Label: "Education"},
}

// IsFeatured reports whether a category key is one of the home page shelves.
func IsFeatured(key string) bool {
	for _, c := range FeaturedCategories {
		if c.Key == key {
			return true
		}
	}
	return false
}

// FindCategory looks up a category by key. When the key is unknown a category
// is synthesized from it (capitalized key as label), matching how the route
// derives a heading when no configured label exists.
func FindCategory(key string) Category {
	for _, c := range Categories {
		if c.Key == key {
			return c
		}
	}
	return Category{Key: key, Label: titleFromKey(key)}
}

func titleFromKey(key string) string {
	if key == "" {
		return ""
	}
	return strings.ToUpper(key[:1]) + key[1:]
}
