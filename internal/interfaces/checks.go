package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/readtrack/internal/events"
	"github.com/mrlokans/readtrack/internal/greeting"
	"github.com/mrlokans/readtrack/internal/library"
	"github.com/mrlokans/readtrack/internal/scheduler"
	"github.com/mrlokans/readtrack/internal/tasks"
)

// =============================================================================
// Background Maintenance
// =============================================================================

// EventSweeper implementations
var _ tasks.EventSweeper = (*events.Service)(nil)

// StatisticsRefresher implementations
var _ tasks.StatisticsRefresher = (*library.Service)(nil)

// TaskEnqueuer implementations
var _ scheduler.TaskEnqueuer = (*tasks.Client)(nil)

// UserLister implementations
var _ scheduler.UserLister = (*library.Service)(nil)

// =============================================================================
// External Services
// =============================================================================

// Greeting provider implementations
var _ greeting.Provider = (*greeting.HTTPProvider)(nil)
