package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/readtrack/internal/entities"
)

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func TestCompute_WorkedExample(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	finished := now.AddDate(0, 0, -3)

	books := []entities.Book{
		{State: entities.StateFinished, TotalPages: 200, Rating: intPtr(4), FinishedAt: timePtr(finished)},
		{State: entities.StateFinished, TotalPages: 300, Rating: intPtr(5), FinishedAt: timePtr(finished)},
		{State: entities.StateInProgress, TotalPages: 150, CurrentPage: 40},
	}

	s := Compute(books, now, 0)

	assert.Equal(t, 2, s.TotalBooksRead)
	assert.Equal(t, 1, s.CurrentlyReading)
	assert.Equal(t, 3, s.BooksInLibrary)
	assert.Equal(t, 500, s.TotalPagesRead)
	assert.Equal(t, 4.5, s.AverageRating)
}

func TestCompute_EmptySnapshot(t *testing.T) {
	s := Compute(nil, time.Now(), 0)

	assert.Zero(t, s.TotalBooksRead)
	assert.Zero(t, s.BooksInLibrary)
	assert.Zero(t, s.TotalPagesRead)
	assert.Equal(t, float64(0), s.AverageRating)
	assert.Empty(t, s.FavoriteGenres)
}

func TestCompute_AverageRatingNoRatedBooks(t *testing.T) {
	books := []entities.Book{
		{State: entities.StateFinished, TotalPages: 100},
		{State: entities.StateInProgress, Rating: intPtr(5)}, // rated but not finished
	}

	s := Compute(books, time.Now(), 0)
	assert.Equal(t, float64(0), s.AverageRating)
}

func TestCompute_AverageRatingRounding(t *testing.T) {
	fin := timePtr(time.Now())
	books := []entities.Book{
		{State: entities.StateFinished, Rating: intPtr(4), FinishedAt: fin},
		{State: entities.StateFinished, Rating: intPtr(4), FinishedAt: fin},
		{State: entities.StateFinished, Rating: intPtr(5), FinishedAt: fin},
	}

	s := Compute(books, time.Now(), 0)
	assert.Equal(t, 4.3, s.AverageRating) // 13/3 = 4.333...
}

func TestCompute_ReadingStreakWindow(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

	books := []entities.Book{
		{State: entities.StateFinished, FinishedAt: timePtr(now.AddDate(0, 0, -10))},
		{State: entities.StateFinished, FinishedAt: timePtr(now.AddDate(0, 0, -29))},
		{State: entities.StateFinished, FinishedAt: timePtr(now.AddDate(0, 0, -45))}, // outside window
	}

	s := Compute(books, now, 0)
	assert.Equal(t, 2, s.ReadingStreak)
}

func TestCompute_MonthAndYearCounts(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

	books := []entities.Book{
		{State: entities.StateFinished, FinishedAt: timePtr(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))},
		{State: entities.StateFinished, FinishedAt: timePtr(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))},
		{State: entities.StateFinished, FinishedAt: timePtr(time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC))},
	}

	s := Compute(books, now, 0)
	assert.Equal(t, 1, s.BooksReadThisMonth)
	assert.Equal(t, 2, s.BooksReadThisYear)
}

func TestCompute_TopGenresBound(t *testing.T) {
	books := []entities.Book{
		{Genre: "Fantasy"},
		{Genre: "Drama"},
		{Genre: "Essays"},
		{Genre: "Poetry"},
	}

	assert.Equal(t, []string{"Fantasy", "Drama"}, Compute(books, time.Now(), 2).FavoriteGenres)
	// Zero falls back to the default bound.
	assert.Len(t, Compute(books, time.Now(), 0).FavoriteGenres, DefaultTopGenres)
}

func TestFavoriteGenres(t *testing.T) {
	books := []entities.Book{
		{Genre: "Fantasy"},
		{Genre: "fantasy"}, // case-insensitive dedupe, first spelling wins
		{Genre: "Sci-Fi"},
		{Genre: "History"},
		{Genre: "Sci-Fi"},
		{Genre: ""},
	}

	got := FavoriteGenres(books, 3)
	assert.Equal(t, []string{"Fantasy", "Sci-Fi", "History"}, got)
}

func TestFavoriteGenres_TieKeepsFirstEncounteredOrder(t *testing.T) {
	books := []entities.Book{
		{Genre: "Poetry"},
		{Genre: "Drama"},
		{Genre: "Essays"},
	}

	got := FavoriteGenres(books, 2)
	assert.Equal(t, []string{"Poetry", "Drama"}, got)
}

func TestFavoriteGenres_FewerGenresThanK(t *testing.T) {
	books := []entities.Book{{Genre: "Fantasy"}}

	got := FavoriteGenres(books, 5)
	assert.Equal(t, []string{"Fantasy"}, got)

	assert.Empty(t, FavoriteGenres(books, 0))
}
