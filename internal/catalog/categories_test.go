package catalog

import "testing"

func TestFindCategory(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{"fiction", "Fiction"},
		{"science-fiction", "Science Fiction"},
		{"self-help", "Self-Help"},
		{"gardening", "Gardening"}, // unknown key synthesizes a label
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cat := FindCategory(tt.key)
			if cat.Key != tt.key {
				t.Errorf("Key = %q, expected %q", cat.Key, tt.key)
			}
			if cat.Label != tt.expected {
				t.Errorf("Label = %q, expected %q", cat.Label, tt.expected)
			}
		})
	}
}

func TestIsFeatured(t *testing.T) {
	for _, cat := range FeaturedCategories {
		if !IsFeatured(cat.Key) {
			t.Errorf("IsFeatured(%q) = false, expected true", cat.Key)
		}
	}
	if IsFeatured("cooking") {
		t.Error("IsFeatured(cooking) = true, expected false")
	}
}

func TestFeaturedCategoriesAreInFullMenu(t *testing.T) {
	for _, featured := range FeaturedCategories {
		found := false
		for _, cat := range Categories {
			if cat.Key == featured.Key {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("featured category %q missing from the full menu", featured.Key)
		}
	}
}
