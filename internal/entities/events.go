package entities

import (
	"encoding/json"
	"fmt"
	"time"
)

type EventType string

const (
	EventStateChange    EventType = "state_change"
	EventProgressUpdate EventType = "progress_update"
	EventRatingAdded    EventType = "rating_added"
	EventComment        EventType = "comment"
	EventReview         EventType = "review"
)

// BookEvent is one immutable history entry. Rows are append-only: nothing
// edits an event after it is written, and removal happens only through the
// bulk retention sweep.
type BookEvent struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	BookID    string    `gorm:"index;size:36" json:"book_id"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Type      EventType `gorm:"index;size:30" json:"type"`
	Payload   string    `gorm:"type:text" json:"payload"` // JSON, shape fixed by Type
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (BookEvent) TableName() string {
	return "book_events"
}

// EventPayload is the closed set of per-type payload shapes. Constructing a
// BookEvent through NewBookEvent ties the Type tag to the payload type, so a
// rating_added event can never carry page fields.
type EventPayload interface {
	EventType() EventType
	sealed()
}

type StateChangePayload struct {
	PreviousState ReadingState `json:"previous_state"`
	NewState      ReadingState `json:"new_state"`
}

func (StateChangePayload) EventType() EventType { return EventStateChange }
func (StateChangePayload) sealed()              {}

type ProgressUpdatePayload struct {
	PreviousPage int `json:"previous_page"`
	NewPage      int `json:"new_page"`
}

func (ProgressUpdatePayload) EventType() EventType { return EventProgressUpdate }
func (ProgressUpdatePayload) sealed()              {}

type RatingAddedPayload struct {
	Rating int `json:"rating"`
}

func (RatingAddedPayload) EventType() EventType { return EventRatingAdded }
func (RatingAddedPayload) sealed()              {}

// NotePayload carries the free-text event variants.
type NotePayload struct {
	Kind EventType `json:"-"` // EventComment or EventReview
	Text string    `json:"text"`
}

func (p NotePayload) EventType() EventType {
	if p.Kind == EventReview {
		return EventReview
	}
	return EventComment
}
func (NotePayload) sealed() {}

// NewBookEvent builds an unsaved event for the given payload. ID and
// CreatedAt are assigned by the event log on append.
func NewBookEvent(userID uint, bookID string, payload EventPayload) (*BookEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", payload.EventType(), err)
	}
	return &BookEvent{
		BookID:  bookID,
		UserID:  userID,
		Type:    payload.EventType(),
		Payload: string(raw),
	}, nil
}

// DecodePayload reconstructs the typed payload from the stored JSON,
// dispatching on the event's Type tag.
func (e *BookEvent) DecodePayload() (EventPayload, error) {
	switch e.Type {
	case EventStateChange:
		var p StateChangePayload
		if err := json.Unmarshal([]byte(e.Payload), &p); err != nil {
			return nil, fmt.Errorf("failed to decode state_change payload: %w", err)
		}
		return p, nil
	case EventProgressUpdate:
		var p ProgressUpdatePayload
		if err := json.Unmarshal([]byte(e.Payload), &p); err != nil {
			return nil, fmt.Errorf("failed to decode progress_update payload: %w", err)
		}
		return p, nil
	case EventRatingAdded:
		var p RatingAddedPayload
		if err := json.Unmarshal([]byte(e.Payload), &p); err != nil {
			return nil, fmt.Errorf("failed to decode rating_added payload: %w", err)
		}
		return p, nil
	case EventComment, EventReview:
		var p NotePayload
		if err := json.Unmarshal([]byte(e.Payload), &p); err != nil {
			return nil, fmt.Errorf("failed to decode %s payload: %w", e.Type, err)
		}
		p.Kind = e.Type
		return p, nil
	}
	return nil, fmt.Errorf("unknown event type %q", e.Type)
}
