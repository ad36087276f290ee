// Package stats persists the denormalized per-user statistics document.
package stats

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/readtrack/internal/entities"
)

// Repository stores one Statistics row per user, wholly overwritten on each
// refresh. Fields are never patched individually.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Replace upserts the whole statistics row for the user.
func (r *Repository) Replace(s *entities.Statistics) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(s).Error
	if err != nil {
		return fmt.Errorf("failed to replace statistics for user %d: %w", s.UserID, err)
	}
	return nil
}

// Get loads the user's statistics row. Returns a zero-valued snapshot when
// none has been computed yet.
func (r *Repository) Get(userID uint) (*entities.Statistics, error) {
	var s entities.Statistics
	err := r.db.Where("user_id = ?", userID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &entities.Statistics{UserID: userID, FavoriteGenres: []string{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load statistics for user %d: %w", userID, err)
	}
	return &s, nil
}
