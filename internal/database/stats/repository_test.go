package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/readtrack/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Statistics{})
	require.NoError(t, err)

	return db
}

func TestRepository_Get_NoRowYet(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	s, err := repo.Get(1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), s.UserID)
	assert.Zero(t, s.BooksInLibrary)
	assert.Empty(t, s.FavoriteGenres)
}

func TestRepository_Replace_OverwritesWholeRow(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	first := &entities.Statistics{
		UserID:         1,
		TotalBooksRead: 2,
		TotalPagesRead: 500,
		AverageRating:  4.5,
		FavoriteGenres: []string{"Fantasy", "History"},
		RefreshedAt:    time.Now(),
	}
	require.NoError(t, repo.Replace(first))

	// A later refresh with fewer books must fully replace the old values,
	// not merge into them.
	second := &entities.Statistics{
		UserID:         1,
		TotalBooksRead: 1,
		FavoriteGenres: []string{"History"},
		RefreshedAt:    time.Now(),
	}
	require.NoError(t, repo.Replace(second))

	got, err := repo.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalBooksRead)
	assert.Zero(t, got.TotalPagesRead)
	assert.Zero(t, got.AverageRating)
	assert.Equal(t, []string{"History"}, got.FavoriteGenres)
}

func TestRepository_Replace_PerUserRows(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	require.NoError(t, repo.Replace(&entities.Statistics{UserID: 1, TotalBooksRead: 3}))
	require.NoError(t, repo.Replace(&entities.Statistics{UserID: 2, TotalBooksRead: 7}))

	a, err := repo.Get(1)
	require.NoError(t, err)
	b, err := repo.Get(2)
	require.NoError(t, err)

	assert.Equal(t, 3, a.TotalBooksRead)
	assert.Equal(t, 7, b.TotalBooksRead)
}
