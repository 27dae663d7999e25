package googlebooks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(baseURL string) *Client {
	c := NewClient(baseURL, "", 5*time.Second)
	// No need to pace requests against a local test server
	c.rateLimiter.interval = 0
	return c
}

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("q") != "subject:Fiction" {
			t.Errorf("q = %q, expected %q", q.Get("q"), "subject:Fiction")
		}
		if q.Get("orderBy") != "relevance" {
			t.Errorf("orderBy = %q, expected relevance", q.Get("orderBy"))
		}
		if q.Get("maxResults") != "40" {
			t.Errorf("maxResults = %q, expected 40", q.Get("maxResults"))
		}
		if q.Get("filter") != "paid-ebooks" {
			t.Errorf("filter = %q, expected paid-ebooks", q.Get("filter"))
		}
		if q.Get("printType") != "books" {
			t.Errorf("printType = %q, expected books", q.Get("printType"))
		}
		if q.Get("projection") != "full" {
			t.Errorf("projection = %q, expected full", q.Get("projection"))
		}

		response := searchResult{
			TotalItems: 2,
			Items: []Volume{
				{ID: "vol1", VolumeInfo: VolumeInfo{Title: "First"}},
				{ID: "vol2", VolumeInfo: VolumeInfo{Title: "Second"}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := testClient(server.URL)
	volumes, err := client.Search(context.Background(), SearchParams{
		Subject:    "Fiction",
		MaxResults: 40,
		Filter:     FilterPaidEbooks,
		PrintType:  "books",
		Projection: "full",
	})
	if err != nil {
		t.Fatalf("Search() unexpected error: %v", err)
	}
	if len(volumes) != 2 {
		t.Fatalf("Search() returned %d volumes, expected 2", len(volumes))
	}
	if volumes[0].ID != "vol1" || volumes[1].ID != "vol2" {
		t.Errorf("Search() order = [%s, %s], expected [vol1, vol2]", volumes[0].ID, volumes[1].ID)
	}
}

func TestSearchMissingItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalItems": 0}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	volumes, err := client.Search(context.Background(), SearchParams{Subject: "Obscure", MaxResults: 12})
	if err != nil {
		t.Fatalf("Search() unexpected error: %v", err)
	}
	if len(volumes) != 0 {
		t.Errorf("Search() returned %d volumes, expected 0", len(volumes))
	}
}

func TestSearchRequiresSubject(t *testing.T) {
	client := testClient("http://invalid")
	if _, err := client.Search(context.Background(), SearchParams{MaxResults: 12}); err == nil {
		t.Error("Search() with empty subject should error")
	}
}

func TestSearchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := testClient(server.URL)
	if _, err := client.Search(context.Background(), SearchParams{Subject: "Fiction", MaxResults: 12}); err == nil {
		t.Error("Search() should error on non-200 status")
	}
}

func TestGetVolume(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/vol123" {
			t.Errorf("path = %q, expected /vol123", r.URL.Path)
		}
		volume := Volume{
			ID: "vol123",
			VolumeInfo: VolumeInfo{
				Title:     "A Book",
				PageCount: 320,
				ImageLinks: &ImageLinks{
					Thumbnail: "http://example.com/thumb.jpg",
					Large:     "http://example.com/large.jpg",
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(volume)
	}))
	defer server.Close()

	client := testClient(server.URL)
	volume, err := client.GetVolume(context.Background(), "vol123")
	if err != nil {
		t.Fatalf("GetVolume() unexpected error: %v", err)
	}
	if volume.ID != "vol123" {
		t.Errorf("volume.ID = %q, expected vol123", volume.ID)
	}
	if volume.VolumeInfo.PageCount != 320 {
		t.Errorf("volume.PageCount = %d, expected 320", volume.VolumeInfo.PageCount)
	}
}

func TestGetVolumeNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := testClient(server.URL)
	if _, err := client.GetVolume(context.Background(), "missing"); err == nil {
		t.Error("GetVolume() should error on 404")
	}
}

func TestGetVolumeRequiresID(t *testing.T) {
	client := testClient("http://invalid")
	if _, err := client.GetVolume(context.Background(), ""); err == nil {
		t.Error("GetVolume() with empty id should error")
	}
}

func TestVolumeHasThumbnail(t *testing.T) {
	tests := []struct {
		name     string
		volume   Volume
		expected bool
	}{
		{"no image links", Volume{}, false},
		{"empty thumbnail", Volume{VolumeInfo: VolumeInfo{ImageLinks: &ImageLinks{}}}, false},
		{"with thumbnail", Volume{VolumeInfo: VolumeInfo{ImageLinks: &ImageLinks{Thumbnail: "http://x/t.jpg"}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.volume.HasThumbnail(); got != tt.expected {
				t.Errorf("HasThumbnail() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestVolumeHasListPrice(t *testing.T) {
	tests := []struct {
		name     string
		volume   Volume
		expected bool
	}{
		{"no sale info", Volume{}, false},
		{"no list price", Volume{SaleInfo: &SaleInfo{}}, false},
		{"zero amount", Volume{SaleInfo: &SaleInfo{ListPrice: &Price{Amount: 0}}}, false},
		{"priced", Volume{SaleInfo: &SaleInfo{ListPrice: &Price{Amount: 9.99, CurrencyCode: "USD"}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.volume.HasListPrice(); got != tt.expected {
				t.Errorf("HasListPrice() = %v, expected %v", got, tt.expected)
			}
		})
	}
}
