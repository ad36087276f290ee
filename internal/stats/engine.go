// Package stats derives dashboard metrics from a book collection snapshot.
//
// Every call recomputes from the full snapshot; no incremental counters are
// kept anywhere, so the persisted statistics row can only drift by being
// recomputed incorrectly.
package stats

import (
	"math"
	"strings"
	"time"

	"github.com/mrlokans/readtrack/internal/entities"
)

// DefaultTopGenres is how many favourite genres the dashboard shows.
const DefaultTopGenres = 3

// streakWindow approximates a reading streak as "books finished in the last
// 30 days". This is not a consecutive-day streak.
const streakWindow = 30 * 24 * time.Hour

// Compute aggregates a user's full book snapshot into Statistics. The clock
// is passed in so month/year/streak windows are deterministic under test;
// topGenres bounds the favourite-genre list, zero or negative meaning
// DefaultTopGenres. UserID and RefreshedAt are left for the caller to fill.
func Compute(books []entities.Book, now time.Time, topGenres int) entities.Statistics {
	if topGenres <= 0 {
		topGenres = DefaultTopGenres
	}
	s := entities.Statistics{
		BooksInLibrary: len(books),
		FavoriteGenres: FavoriteGenres(books, topGenres),
	}

	ratingSum := 0
	ratedCount := 0

	for _, b := range books {
		switch b.State {
		case entities.StateInProgress:
			s.CurrentlyReading++
		case entities.StateFinished:
			s.TotalBooksRead++
			s.TotalPagesRead += b.TotalPages
			if b.Rating != nil {
				ratingSum += *b.Rating
				ratedCount++
			}
			if b.FinishedAt != nil {
				fin := *b.FinishedAt
				if now.Sub(fin) <= streakWindow && !fin.After(now) {
					s.ReadingStreak++
				}
				if fin.Year() == now.Year() {
					s.BooksReadThisYear++
					if fin.Month() == now.Month() {
						s.BooksReadThisMonth++
					}
				}
			}
		}
	}

	if ratedCount > 0 {
		avg := float64(ratingSum) / float64(ratedCount)
		s.AverageRating = math.Round(avg*10) / 10
	}

	return s
}

// FavoriteGenres returns the k most frequent non-empty genres across the
// snapshot. Genres are deduplicated case-insensitively, the first spelling
// encountered wins, and frequency ties keep first-encountered order.
func FavoriteGenres(books []entities.Book, k int) []string {
	if k <= 0 {
		return []string{}
	}

	type genreCount struct {
		name  string
		count int
		order int
	}

	counts := make(map[string]*genreCount)
	ordered := make([]*genreCount, 0)

	for _, b := range books {
		genre := strings.TrimSpace(b.Genre)
		if genre == "" {
			continue
		}
		key := strings.ToLower(genre)
		gc, ok := counts[key]
		if !ok {
			gc = &genreCount{name: genre, order: len(ordered)}
			counts[key] = gc
			ordered = append(ordered, gc)
		}
		gc.count++
	}

	// Stable selection sort keeps first-encountered order on ties; the
	// genre list is small enough that quadratic cost does not matter.
	result := make([]string, 0, k)
	used := make([]bool, len(ordered))
	for len(result) < k {
		best := -1
		for i, gc := range ordered {
			if used[i] {
				continue
			}
			if best == -1 || gc.count > ordered[best].count {
				best = i
			}
		}
		if best == -1 {
			break
		}
		used[best] = true
		result = append(result, ordered[best].name)
	}
	return result
}
