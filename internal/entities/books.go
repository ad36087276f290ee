package entities

import (
	"time"
)

// ReadingState describes where a book is in its reading lifecycle.
// States only ever move forward: not_started -> in_progress -> finished.
type ReadingState string

const (
	StateNotStarted ReadingState = "not_started"
	StateInProgress ReadingState = "in_progress"
	StateFinished   ReadingState = "finished"
)

// ValidState reports whether s is one of the known reading states.
func ValidState(s ReadingState) bool {
	switch s {
	case StateNotStarted, StateInProgress, StateFinished:
		return true
	}
	return false
}

type Book struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	UserID uint   `gorm:"index" json:"user_id"`

	Title  string `gorm:"index;size:512" json:"title"`
	Author string `gorm:"index;size:256" json:"author"`

	State       ReadingState `gorm:"index;size:20;default:'not_started'" json:"state"`
	CurrentPage int          `json:"current_page"`
	TotalPages  int          `json:"total_pages"`
	IsOwned     bool         `gorm:"default:false" json:"is_owned"`
	Rating      *int         `json:"rating,omitempty"`

	ISBN        string     `gorm:"size:20" json:"isbn,omitempty"`
	Genre       string     `gorm:"index;size:100" json:"genre,omitempty"`
	CoverURL    string     `gorm:"size:2048" json:"cover_url,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`

	AddedAt    time.Time  `json:"added_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`  // set once, entering in_progress
	FinishedAt *time.Time `json:"finished_at,omitempty"` // set once, entering finished
}

func (Book) TableName() string {
	return "books"
}

// ValidProgress reports whether a page position is legal for a book of the
// given length. Zero-page books are allowed (page counts are often unknown
// at add time).
func ValidProgress(currentPage, totalPages int) bool {
	if totalPages < 0 {
		return false
	}
	return currentPage >= 0 && currentPage <= totalPages
}

// ValidRating reports whether r is a legal rating value (integer 1-5).
func ValidRating(r int) bool {
	return r >= 1 && r <= 5
}
