// Package events provides the append-only storage for book history entries.
package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/readtrack/internal/entities"
)

// Repository persists BookEvent rows. There is deliberately no update
// method and no single-row delete: entries are immutable once appended and
// only leave through the retention sweep.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Append inserts an event, assigning the server id and timestamp. The
// insert is a single row, so it is all-or-nothing.
func (r *Repository) Append(event *entities.BookEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	if err := r.db.Create(event).Error; err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// ByBook retrieves all events for one book, newest first.
func (r *Repository) ByBook(userID uint, bookID string) ([]entities.BookEvent, error) {
	var events []entities.BookEvent
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).
		Order("created_at DESC").Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load events for book %s: %w", bookID, err)
	}
	return events, nil
}

// Recent retrieves the user's latest events, newest first, bounded by limit.
func (r *Repository) Recent(userID uint, limit int) ([]entities.BookEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var events []entities.BookEvent
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent events: %w", err)
	}
	return events, nil
}

// ByType retrieves the user's events of one type, newest first.
func (r *Repository) ByType(userID uint, eventType entities.EventType) ([]entities.BookEvent, error) {
	var events []entities.BookEvent
	err := r.db.Where("user_id = ? AND type = ?", userID, eventType).
		Order("created_at DESC").Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load events of type %s: %w", eventType, err)
	}
	return events, nil
}

// CountOldEvents returns how many events a sweep with the given cutoff
// would remove.
func (r *Repository) CountOldEvents(olderThan time.Time) (int64, error) {
	var n int64
	err := r.db.Model(&entities.BookEvent{}).Where("created_at < ?", olderThan).Count(&n).Error
	return n, err
}

// DeleteOldEvents removes events older than the cutoff across all users.
// Returns the number of deleted rows. This is the only deletion path.
func (r *Repository) DeleteOldEvents(olderThan time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", olderThan).Delete(&entities.BookEvent{})
	return result.RowsAffected, result.Error
}
