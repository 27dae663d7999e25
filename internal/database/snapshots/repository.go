// Package snapshots provides database operations for category snapshots.
//
// # Usage
//
//	repo := snapshots.NewRepository(db)
//	snap, err := repo.Get("fiction")
package snapshots

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/avolkau/bookmart/internal/entities"
)

// ErrNotFound is returned when no snapshot exists for a category key.
var ErrNotFound = errors.New("snapshot not found")

// Repository handles all category snapshot database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new snapshots repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Save upserts the snapshot for a category key.
func (r *Repository) Save(categoryKey, payload string, bookCount int) error {
	snap := &entities.CategorySnapshot{
		CategoryKey: categoryKey,
		Payload:     payload,
		BookCount:   bookCount,
		FetchedAt:   time.Now(),
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "book_count", "fetched_at"}),
	}).Create(snap).Error
	if err != nil {
		return fmt.Errorf("failed to save snapshot for %q: %w", categoryKey, err)
	}
	return nil
}

// Get retrieves the snapshot for a category key.
func (r *Repository) Get(categoryKey string) (*entities.CategorySnapshot, error) {
	var snap entities.CategorySnapshot
	err := r.db.Where("category_key = ?", categoryKey).First(&snap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &snap, nil
}

// Delete removes the snapshot for a category key. Missing rows are not an error.
func (r *Repository) Delete(categoryKey string) error {
	return r.db.Where("category_key = ?", categoryKey).
		Delete(&entities.CategorySnapshot{}).Error
}

// Count returns the number of stored snapshots.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.CategorySnapshot{}).Count(&count).Error
	return count, err
}
