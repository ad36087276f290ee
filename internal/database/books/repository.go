// Package books provides database operations for the book collection.
package books

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mrlokans/readtrack/internal/entities"
)

// ErrNotFound is returned when a book does not exist for the given user.
var ErrNotFound = errors.New("book not found")

// Repository handles all book database operations. Construct one per
// handle; pass a transaction handle to participate in a batch write.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new book, assigning its id and AddedAt timestamp.
func (r *Repository) Create(book *entities.Book) error {
	if book.ID == "" {
		book.ID = uuid.NewString()
	}
	now := time.Now()
	if book.AddedAt.IsZero() {
		book.AddedAt = now
	}
	book.UpdatedAt = now
	if err := r.db.Create(book).Error; err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// GetByID retrieves a single book scoped to its owner.
func (r *Repository) GetByID(userID uint, id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load book %s: %w", id, err)
	}
	return &book, nil
}

// GetAllForUser retrieves the user's full collection, newest additions first.
func (r *Repository) GetAllForUser(userID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("user_id = ?", userID).Order("added_at DESC").Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load books: %w", err)
	}
	return books, nil
}

// GetByState retrieves the user's books in a given reading state.
func (r *Repository) GetByState(userID uint, state entities.ReadingState) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("user_id = ? AND state = ?", userID, state).
		Order("updated_at DESC").Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load books by state: %w", err)
	}
	return books, nil
}

// Save writes back all fields of an already-loaded book.
func (r *Repository) Save(book *entities.Book) error {
	book.UpdatedAt = time.Now()
	if err := r.db.Save(book).Error; err != nil {
		return fmt.Errorf("failed to save book %s: %w", book.ID, err)
	}
	return nil
}

// Delete removes a book permanently. Its event history is left in place.
func (r *Repository) Delete(userID uint, id string) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&entities.Book{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete book %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UserIDs returns the distinct owners of all books.
func (r *Repository) UserIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&entities.Book{}).Distinct("user_id").Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}
	return ids, nil
}
