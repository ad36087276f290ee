// Package library is the only place allowed to mutate a book. Every
// operation performs one entity mutation, appends the matching history
// event, refreshes the statistics document and notifies watchers.
package library

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mrlokans/readtrack/internal/database"
	"github.com/mrlokans/readtrack/internal/database/books"
	eventsdb "github.com/mrlokans/readtrack/internal/database/events"
	statsdb "github.com/mrlokans/readtrack/internal/database/stats"
	"github.com/mrlokans/readtrack/internal/entities"
	"github.com/mrlokans/readtrack/internal/events"
	"github.com/mrlokans/readtrack/internal/results"
	"github.com/mrlokans/readtrack/internal/states"
	"github.com/mrlokans/readtrack/internal/stats"
	"github.com/mrlokans/readtrack/internal/watch"
)

// Service orchestrates book mutations.
type Service struct {
	db        *database.Database
	books     *books.Repository
	events    *events.Service
	statsRepo *statsdb.Repository
	hub       *watch.Hub
	logger    *zap.Logger
	now       func() time.Time
	topGenres int
}

func NewService(db *database.Database, hub *watch.Hub, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:        db,
		books:     books.NewRepository(db.DB),
		events:    events.NewService(eventsdb.NewRepository(db.DB), logger),
		statsRepo: statsdb.NewRepository(db.DB),
		hub:       hub,
		logger:    logger,
		now:       time.Now,
	}
}

// WithTopGenres bounds the favourite-genre list in computed statistics.
// Zero or negative keeps the engine default.
func (s *Service) WithTopGenres(k int) *Service {
	s.topGenres = k
	return s
}

// AddBookInput is everything a caller may set when adding a book. State and
// progress are not here: every book starts not_started at page zero.
type AddBookInput struct {
	Title       string     `json:"title" binding:"required"`
	Author      string     `json:"author"`
	TotalPages  int        `json:"total_pages"`
	IsOwned     bool       `json:"is_owned"`
	ISBN        string     `json:"isbn"`
	Genre       string     `json:"genre"`
	CoverURL    string     `json:"cover_url"`
	PublishedAt *time.Time `json:"published_at"`
}

// AddBook creates a book in the not_started state with zero progress.
func (s *Service) AddBook(userID uint, input AddBookInput) results.Result[*entities.Book] {
	if input.Title == "" {
		return results.Fail[*entities.Book](
			results.Validation("title is required", "A book needs a title."))
	}
	if input.TotalPages < 0 {
		return results.Fail[*entities.Book](
			results.Validation("total_pages must not be negative", "Page count cannot be negative."))
	}

	book := &entities.Book{
		UserID:      userID,
		Title:       input.Title,
		Author:      input.Author,
		State:       entities.StateNotStarted,
		CurrentPage: 0,
		TotalPages:  input.TotalPages,
		IsOwned:     input.IsOwned,
		ISBN:        input.ISBN,
		Genre:       input.Genre,
		CoverURL:    input.CoverURL,
		PublishedAt: input.PublishedAt,
		AddedAt:     s.now(),
	}

	if err := s.books.Create(book); err != nil {
		return results.Fail[*entities.Book](results.Network("failed to create book", err))
	}

	res := results.Ok(book)
	return s.finishMutation(userID, res)
}

// GetBook loads one book.
func (s *Service) GetBook(userID uint, bookID string) results.Result[*entities.Book] {
	book, err := s.books.GetByID(userID, bookID)
	if err != nil {
		return results.Fail[*entities.Book](s.classifyLoad(err, bookID))
	}
	return results.Ok(book)
}

// GetBooks loads the user's full collection.
func (s *Service) GetBooks(userID uint) results.Result[[]entities.Book] {
	list, err := s.books.GetAllForUser(userID)
	if err != nil {
		return results.Fail[[]entities.Book](results.Network("failed to load books", err))
	}
	return results.Ok(list)
}

// GetBooksByState loads the user's books in one reading state.
func (s *Service) GetBooksByState(userID uint, state entities.ReadingState) results.Result[[]entities.Book] {
	if !entities.ValidState(state) {
		return results.Fail[[]entities.Book](
			results.Validation(fmt.Sprintf("unknown state %q", state), "Unknown reading state."))
	}
	list, err := s.books.GetByState(userID, state)
	if err != nil {
		return results.Fail[[]entities.Book](results.Network("failed to load books", err))
	}
	return results.Ok(list)
}

// UpdateBookState moves a book forward through the reading lifecycle. The
// book row and its state_change event are written in one batch so neither
// lands without the other.
func (s *Service) UpdateBookState(userID uint, bookID string, newState entities.ReadingState) results.Result[*entities.Book] {
	if !entities.ValidState(newState) {
		return results.Fail[*entities.Book](
			results.Validation(fmt.Sprintf("unknown state %q", newState), "Unknown reading state."))
	}

	book, err := s.books.GetByID(userID, bookID)
	if err != nil {
		return results.Fail[*entities.Book](s.classifyLoad(err, bookID))
	}

	previous := book.State
	if !states.CanTransition(previous, newState) {
		return results.Fail[*entities.Book](
			results.BusinessLogic(
				fmt.Sprintf("illegal transition %s -> %s for book %s", previous, newState, bookID),
				"A book can only move forward: not started, in progress, finished.",
			).WithContext(map[string]any{"book_id": bookID, "from": previous, "to": newState}))
	}

	now := s.now()
	book.State = newState
	switch newState {
	case entities.StateInProgress:
		if book.StartedAt == nil {
			book.StartedAt = &now
		}
	case entities.StateFinished:
		if book.FinishedAt == nil {
			book.FinishedAt = &now
		}
	}

	event, err := entities.NewBookEvent(userID, bookID, entities.StateChangePayload{
		PreviousState: previous,
		NewState:      newState,
	})
	if err != nil {
		return results.Fail[*entities.Book](results.Classify(err, results.CategorySystem))
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := books.NewRepository(tx).Save(book); err != nil {
			return err
		}
		return eventsdb.NewRepository(tx).Append(event)
	})
	if err != nil {
		return results.Fail[*entities.Book](results.Network("failed to save state change", err))
	}

	s.logger.Info("book state changed",
		zap.String("book_id", bookID),
		zap.String("from", string(previous)),
		zap.String("to", string(newState)),
	)

	return s.finishMutation(userID, results.Ok(book))
}

// UpdateBookProgress records a new page position. Reaching the last page
// does not finish the book; finishing stays an explicit state change.
func (s *Service) UpdateBookProgress(userID uint, bookID string, currentPage int) results.Result[*entities.Book] {
	book, err := s.books.GetByID(userID, bookID)
	if err != nil {
		return results.Fail[*entities.Book](s.classifyLoad(err, bookID))
	}

	if !entities.ValidProgress(currentPage, book.TotalPages) {
		return results.Fail[*entities.Book](
			results.Validation(
				fmt.Sprintf("page %d out of range 0..%d", currentPage, book.TotalPages),
				"Page must be between 0 and the book's page count.",
			).WithContext(map[string]any{"book_id": bookID, "current_page": currentPage}))
	}

	previousPage := book.CurrentPage
	book.CurrentPage = currentPage

	if err := s.books.Save(book); err != nil {
		return results.Fail[*entities.Book](results.Network("failed to save progress", err))
	}

	res := results.Ok(book)
	res.Warning = s.appendEvent(userID, bookID, entities.ProgressUpdatePayload{
		PreviousPage: previousPage,
		NewPage:      currentPage,
	})
	return s.finishMutation(userID, res)
}

// UpdateBookRating sets the book's rating. Rating is allowed in any state,
// not just finished.
func (s *Service) UpdateBookRating(userID uint, bookID string, rating int) results.Result[*entities.Book] {
	if !entities.ValidRating(rating) {
		return results.Fail[*entities.Book](
			results.Validation(fmt.Sprintf("rating %d out of range 1..5", rating),
				"Rating must be a whole number from 1 to 5."))
	}

	book, err := s.books.GetByID(userID, bookID)
	if err != nil {
		return results.Fail[*entities.Book](s.classifyLoad(err, bookID))
	}

	book.Rating = &rating
	if err := s.books.Save(book); err != nil {
		return results.Fail[*entities.Book](results.Network("failed to save rating", err))
	}

	res := results.Ok(book)
	res.Warning = s.appendEvent(userID, bookID, entities.RatingAddedPayload{Rating: rating})
	return s.finishMutation(userID, res)
}

// ManualUpdate is the correction-path input. Nil fields are untouched.
type ManualUpdate struct {
	Title       *string                `json:"title"`
	Author      *string                `json:"author"`
	Genre       *string                `json:"genre"`
	TotalPages  *int                   `json:"total_pages"`
	IsOwned     *bool                  `json:"is_owned"`
	State       *entities.ReadingState `json:"state"`
	CurrentPage *int                   `json:"current_page"`
	Rating      *int                   `json:"rating"`
}

// UpdateBookManual applies a correction without consulting the transition
// table. It exists as its own named operation so every bypass is obvious in
// code and in the event history; it still records events for what changed.
func (s *Service) UpdateBookManual(userID uint, bookID string, updates ManualUpdate) results.Result[*entities.Book] {
	book, err := s.books.GetByID(userID, bookID)
	if err != nil {
		return results.Fail[*entities.Book](s.classifyLoad(err, bookID))
	}

	var payloads []entities.EventPayload

	if updates.Title != nil {
		book.Title = *updates.Title
	}
	if updates.Author != nil {
		book.Author = *updates.Author
	}
	if updates.Genre != nil {
		book.Genre = *updates.Genre
	}
	if updates.TotalPages != nil {
		if *updates.TotalPages < 0 {
			return results.Fail[*entities.Book](
				results.Validation("total_pages must not be negative", "Page count cannot be negative."))
		}
		book.TotalPages = *updates.TotalPages
	}
	if updates.IsOwned != nil {
		book.IsOwned = *updates.IsOwned
	}

	if updates.State != nil && *updates.State != book.State {
		if !entities.ValidState(*updates.State) {
			return results.Fail[*entities.Book](
				results.Validation(fmt.Sprintf("unknown state %q", *updates.State), "Unknown reading state."))
		}
		previous := book.State
		book.State = *updates.State
		now := s.now()
		if book.State == entities.StateInProgress && book.StartedAt == nil {
			book.StartedAt = &now
		}
		if book.State == entities.StateFinished && book.FinishedAt == nil {
			book.FinishedAt = &now
		}
		payloads = append(payloads, entities.StateChangePayload{
			PreviousState: previous,
			NewState:      book.State,
		})
	}

	if updates.CurrentPage != nil && *updates.CurrentPage != book.CurrentPage {
		if !entities.ValidProgress(*updates.CurrentPage, book.TotalPages) {
			return results.Fail[*entities.Book](
				results.Validation(
					fmt.Sprintf("page %d out of range 0..%d", *updates.CurrentPage, book.TotalPages),
					"Page must be between 0 and the book's page count."))
		}
		previousPage := book.CurrentPage
		book.CurrentPage = *updates.CurrentPage
		payloads = append(payloads, entities.ProgressUpdatePayload{
			PreviousPage: previousPage,
			NewPage:      book.CurrentPage,
		})
	}

	if updates.Rating != nil {
		if !entities.ValidRating(*updates.Rating) {
			return results.Fail[*entities.Book](
				results.Validation(fmt.Sprintf("rating %d out of range 1..5", *updates.Rating),
					"Rating must be a whole number from 1 to 5."))
		}
		book.Rating = updates.Rating
		payloads = append(payloads, entities.RatingAddedPayload{Rating: *updates.Rating})
	}

	if err := s.books.Save(book); err != nil {
		return results.Fail[*entities.Book](results.Network("failed to save manual update", err))
	}

	s.logger.Info("manual book update applied",
		zap.String("book_id", bookID),
		zap.Int("events", len(payloads)),
	)

	res := results.Ok(book)
	for _, p := range payloads {
		if w := s.appendEvent(userID, bookID, p); w != nil && res.Warning == nil {
			res.Warning = w
		}
	}
	return s.finishMutation(userID, res)
}

// DeleteBook removes the book. Its event history stays.
func (s *Service) DeleteBook(userID uint, bookID string) results.Result[struct{}] {
	if err := s.books.Delete(userID, bookID); err != nil {
		return results.Fail[struct{}](s.classifyLoad(err, bookID))
	}

	s.logger.Info("book deleted", zap.String("book_id", bookID))

	res := results.Ok(struct{}{})
	if _, err := s.refreshStatistics(userID); err != nil {
		res.Warning = s.statsWarning(userID, err)
	} else {
		s.publishSnapshot(userID)
	}
	return res
}

// Statistics recomputes, persists and returns the user's statistics.
func (s *Service) Statistics(userID uint) results.Result[*entities.Statistics] {
	computed, err := s.refreshStatistics(userID)
	if err != nil {
		return results.Fail[*entities.Statistics](results.Network("failed to refresh statistics", err))
	}
	return results.Ok(computed)
}

// RefreshStatistics recomputes and persists one user's statistics. Used by
// the periodic reconciliation task.
func (s *Service) RefreshStatistics(userID uint) error {
	_, err := s.refreshStatistics(userID)
	return err
}

// UserIDs lists every user with at least one book, for fan-out jobs.
func (s *Service) UserIDs() ([]uint, error) {
	return s.books.UserIDs()
}

// finishMutation runs the post-mutation refresh and watcher notification
// shared by every write path. A refresh failure becomes a warning, never a
// rollback: the primary mutation already happened.
func (s *Service) finishMutation(userID uint, res results.Result[*entities.Book]) results.Result[*entities.Book] {
	if _, err := s.refreshStatistics(userID); err != nil {
		if res.Warning == nil {
			res.Warning = s.statsWarning(userID, err)
		}
		return res
	}
	s.publishSnapshot(userID)
	return res
}

// appendEvent records a history entry for an already-persisted mutation.
// On failure it returns a low-severity warning instead of an error: the
// mutation stands, only its audit trail is incomplete.
func (s *Service) appendEvent(userID uint, bookID string, payload entities.EventPayload) *results.StandardError {
	_, err := s.events.Append(userID, bookID, payload)
	if err == nil {
		return nil
	}
	return s.appendWarning(bookID, payload, err)
}

func (s *Service) appendWarning(bookID string, payload entities.EventPayload, err error) *results.StandardError {
	s.logger.Warn("event append failed after successful mutation",
		zap.String("book_id", bookID),
		zap.String("type", string(payload.EventType())),
		zap.Error(err),
	)
	return results.Classify(err, results.CategorySystem).
		WithSeverity(results.SeverityLow).
		WithUserMessage("The change was saved, but it could not be added to the history log.").
		WithContext(map[string]any{"book_id": bookID, "event_type": payload.EventType()})
}

func (s *Service) refreshStatistics(userID uint) (*entities.Statistics, error) {
	list, err := s.books.GetAllForUser(userID)
	if err != nil {
		return nil, err
	}
	computed := stats.Compute(list, s.now(), s.topGenres)
	computed.UserID = userID
	computed.RefreshedAt = s.now()
	if err := s.statsRepo.Replace(&computed); err != nil {
		return nil, err
	}
	return &computed, nil
}

func (s *Service) statsWarning(userID uint, err error) *results.StandardError {
	s.logger.Warn("statistics refresh failed after successful mutation",
		zap.Uint("user_id", userID),
		zap.Error(err),
	)
	return results.Classify(err, results.CategorySystem).
		WithSeverity(results.SeverityLow).
		WithUserMessage("The change was saved, but the dashboard may be briefly out of date.")
}

func (s *Service) publishSnapshot(userID uint) {
	if s.hub == nil {
		return
	}
	list, err := s.books.GetAllForUser(userID)
	if err != nil {
		s.logger.Warn("snapshot publish skipped", zap.Error(err))
		return
	}
	row, err := s.statsRepo.Get(userID)
	if err != nil {
		s.logger.Warn("snapshot publish skipped", zap.Error(err))
		return
	}
	s.hub.Publish(userID, watch.Snapshot{Books: list, Stats: *row})
}

func (s *Service) classifyLoad(err error, bookID string) *results.StandardError {
	if errors.Is(err, books.ErrNotFound) {
		return results.BusinessLogic(
			fmt.Sprintf("book %s not found", bookID),
			"That book is not in your library.",
		).WithContext(map[string]any{"book_id": bookID})
	}
	return results.Network("failed to load book", err).
		WithContext(map[string]any{"book_id": bookID})
}
