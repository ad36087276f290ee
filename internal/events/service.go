// Package events is the append-only history log for book mutations.
//
// The log records what it is given and never validates business rules;
// legality of the underlying mutation is the library service's concern.
package events

import (
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/readtrack/internal/database/events"
	"github.com/mrlokans/readtrack/internal/entities"
)

// Service provides append and query access to the event log.
type Service struct {
	repo   *events.Repository
	logger *zap.Logger
}

func NewService(repo *events.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Append records one history entry and returns its server-assigned id.
func (s *Service) Append(userID uint, bookID string, payload entities.EventPayload) (string, error) {
	event, err := entities.NewBookEvent(userID, bookID, payload)
	if err != nil {
		return "", err
	}
	if err := s.repo.Append(event); err != nil {
		return "", err
	}
	s.logger.Debug("event appended",
		zap.String("event_id", event.ID),
		zap.String("book_id", bookID),
		zap.String("type", string(event.Type)),
	)
	return event.ID, nil
}

// ByBook returns a book's history, newest first.
func (s *Service) ByBook(userID uint, bookID string) ([]entities.BookEvent, error) {
	return s.repo.ByBook(userID, bookID)
}

// Recent returns the user's latest entries, newest first, bounded by limit.
func (s *Service) Recent(userID uint, limit int) ([]entities.BookEvent, error) {
	return s.repo.Recent(userID, limit)
}

// ByType returns the user's entries of one event type, newest first.
func (s *Service) ByType(userID uint, eventType entities.EventType) ([]entities.BookEvent, error) {
	return s.repo.ByType(userID, eventType)
}

// DeleteOldEvents removes entries older than the retention period. This is
// the maintenance sweep, not a per-event delete.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	deleted, err := s.repo.DeleteOldEvents(cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("event retention sweep",
			zap.Int64("deleted", deleted),
			zap.Duration("retention", retention),
		)
	}
	return deleted, nil
}
