// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Background Maintenance Interfaces
//
//   - EventSweeper: event retention sweep (internal/tasks/cleanup_events.go)
//   - StatisticsRefresher: statistics reconciliation (internal/tasks/refresh_stats.go)
//   - TaskEnqueuer: enqueueing background tasks (internal/scheduler/maintenance.go)
//   - UserLister: user fan-out for periodic jobs (internal/scheduler/maintenance.go)
//
// ## External Service Interfaces
//
//   - greeting.Provider: remote text generation (internal/greeting/provider.go)
//
// # Adding a New Greeting Provider
//
// To add a new source of generated greetings:
//
//  1. Implement Provider in internal/greeting/
//
//     type OpenAIProvider struct {
//         apiKey     string
//         httpClient *http.Client
//     }
//
//     func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error)
//     func (p *OpenAIProvider) Name() string
//
//     var _ Provider = (*OpenAIProvider)(nil)
//
//  2. Configure in entrypoint.go
//
// # Adding a New Database Domain
//
// To add a new data domain:
//
//  1. Create sub-package: internal/database/<domain>/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB) *Repository
//
//  3. Register the entities in database.AutoMigrate
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
