package entities

import "time"

// Statistics is the derived dashboard snapshot for one user. It has no
// authority of its own: values are recomputed from the book collection and
// the persisted row is wholly overwritten on every refresh.
type Statistics struct {
	UserID             uint      `gorm:"primaryKey" json:"user_id"`
	TotalBooksRead     int       `json:"total_books_read"`
	CurrentlyReading   int       `json:"currently_reading"`
	BooksInLibrary     int       `json:"books_in_library"`
	TotalPagesRead     int       `json:"total_pages_read"`
	AverageRating      float64   `json:"average_rating"`
	ReadingStreak      int       `json:"reading_streak"`
	BooksReadThisMonth int       `json:"books_read_this_month"`
	BooksReadThisYear  int       `json:"books_read_this_year"`
	FavoriteGenres     []string  `gorm:"serializer:json" json:"favorite_genres"`
	RefreshedAt        time.Time `json:"refreshed_at"`
}

func (Statistics) TableName() string {
	return "statistics"
}
