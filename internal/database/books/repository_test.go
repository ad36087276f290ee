package books

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/readtrack/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Book{})
	require.NoError(t, err)

	return db
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	book := &entities.Book{
		UserID:     1,
		Title:      "Dune",
		Author:     "Frank Herbert",
		State:      entities.StateNotStarted,
		TotalPages: 412,
	}
	require.NoError(t, repo.Create(book))
	assert.NotEmpty(t, book.ID)
	assert.False(t, book.AddedAt.IsZero())

	got, err := repo.GetByID(1, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, entities.StateNotStarted, got.State)
}

func TestRepository_GetByID_WrongUser(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	book := &entities.Book{UserID: 1, Title: "Dune"}
	require.NoError(t, repo.Create(book))

	_, err := repo.GetByID(2, book.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_GetByState(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	require.NoError(t, repo.Create(&entities.Book{UserID: 1, Title: "A", State: entities.StateFinished}))
	require.NoError(t, repo.Create(&entities.Book{UserID: 1, Title: "B", State: entities.StateInProgress}))
	require.NoError(t, repo.Create(&entities.Book{UserID: 1, Title: "C", State: entities.StateInProgress}))

	reading, err := repo.GetByState(1, entities.StateInProgress)
	require.NoError(t, err)
	assert.Len(t, reading, 2)
}

func TestRepository_Save(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	book := &entities.Book{UserID: 1, Title: "Dune", State: entities.StateNotStarted}
	require.NoError(t, repo.Create(book))
	firstUpdate := book.UpdatedAt

	book.State = entities.StateInProgress
	book.CurrentPage = 50
	require.NoError(t, repo.Save(book))

	got, err := repo.GetByID(1, book.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.StateInProgress, got.State)
	assert.Equal(t, 50, got.CurrentPage)
	assert.False(t, got.UpdatedAt.Before(firstUpdate))
}

func TestRepository_Delete(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	book := &entities.Book{UserID: 1, Title: "Dune"}
	require.NoError(t, repo.Create(book))

	assert.ErrorIs(t, repo.Delete(2, book.ID), ErrNotFound)
	require.NoError(t, repo.Delete(1, book.ID))

	_, err := repo.GetByID(1, book.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(1, book.ID), ErrNotFound)
}

func TestRepository_UserIDs(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	require.NoError(t, repo.Create(&entities.Book{UserID: 1, Title: "A"}))
	require.NoError(t, repo.Create(&entities.Book{UserID: 1, Title: "B"}))
	require.NoError(t, repo.Create(&entities.Book{UserID: 3, Title: "C"}))

	ids, err := repo.UserIDs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{1, 3}, ids)
}
