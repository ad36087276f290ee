package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	eventsdb "github.com/mrlokans/readtrack/internal/database/events"
	"github.com/mrlokans/readtrack/internal/entities"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.BookEvent{}))

	return NewService(eventsdb.NewRepository(db), zap.NewNop())
}

func TestService_AppendAssignsIDAndTimestamp(t *testing.T) {
	svc := setupService(t)

	id, err := svc.Append(1, "book-1", entities.RatingAddedPayload{Rating: 4})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	events, err := svc.ByBook(1, "book-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, id, events[0].ID)
	assert.WithinDuration(t, time.Now(), events[0].CreatedAt, time.Minute)
}

func TestService_AppendN_ByBookReturnsAllNewestFirst(t *testing.T) {
	svc := setupService(t)

	const n = 7
	for i := 0; i < n; i++ {
		_, err := svc.Append(1, "book-1", entities.ProgressUpdatePayload{
			PreviousPage: i,
			NewPage:      i + 1,
		})
		require.NoError(t, err)
	}

	events, err := svc.ByBook(1, "book-1")
	require.NoError(t, err)
	require.Len(t, events, n)
	for i := 1; i < n; i++ {
		assert.False(t, events[i].CreatedAt.After(events[i-1].CreatedAt))
	}
}

func TestService_RecentAndByType(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Append(1, "a", entities.RatingAddedPayload{Rating: 5})
	require.NoError(t, err)
	_, err = svc.Append(1, "b", entities.NotePayload{Kind: entities.EventComment, Text: "great so far"})
	require.NoError(t, err)

	recent, err := svc.Recent(1, 1)
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	comments, err := svc.ByType(1, entities.EventComment)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	payload, err := comments[0].DecodePayload()
	require.NoError(t, err)
	note := payload.(entities.NotePayload)
	assert.Equal(t, "great so far", note.Text)
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Append(1, "a", entities.RatingAddedPayload{Rating: 3})
	require.NoError(t, err)

	deleted, err := svc.DeleteOldEvents(30 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Zero(t, deleted, "fresh events survive the sweep")
}
