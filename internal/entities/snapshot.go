package entities

import "time"

// CategorySnapshot stores the most recent fetched book list for a category.
// Listings fall back to it when the live catalog fetch fails, and the shelf
// refresh scheduler keeps the featured categories' snapshots warm.
type CategorySnapshot struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CategoryKey string    `gorm:"uniqueIndex;size:100" json:"category_key"`
	Payload     string    `gorm:"type:text" json:"payload"` // JSON-encoded book list
	BookCount   int       `json:"book_count"`
	FetchedAt   time.Time `json:"fetched_at"`
}

func (CategorySnapshot) TableName() string {
	return "category_snapshots"
}
