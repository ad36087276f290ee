// Package states holds the reading-state transition table for books.
//
// The table is forward-only: not_started -> in_progress -> finished. There is
// deliberately no override hook here; corrections that bypass the table go
// through the library service's explicit manual-update operation so the
// bypass is visible at the call site and in the event history.
package states

import "github.com/mrlokans/readtrack/internal/entities"

var transitions = map[entities.ReadingState][]entities.ReadingState{
	entities.StateNotStarted: {entities.StateInProgress},
	entities.StateInProgress: {entities.StateFinished},
	entities.StateFinished:   {}, // terminal
}

// CanTransition reports whether a book may move from current to next.
// Same-state moves, backward moves, skips and unknown values are all illegal.
func CanTransition(current, next entities.ReadingState) bool {
	allowed, ok := transitions[current]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == next {
			return true
		}
	}
	return false
}
