// Package greeting produces the personalized dashboard message. Generation
// is delegated to a pluggable text provider; any provider failure falls
// back to a static templated message, so the dashboard never breaks on a
// flaky upstream.
package greeting

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mrlokans/readtrack/internal/entities"
)

// Provider generates text for a prompt. Implementations are replaceable;
// the service only needs this one call.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// Service builds the dashboard greeting from the user's statistics.
type Service struct {
	provider Provider
	logger   *zap.Logger
}

func NewService(provider Provider, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, logger: logger}
}

// Message returns a short greeting for the dashboard. Provider errors are
// logged and swallowed: the static fallback is always available.
func (s *Service) Message(ctx context.Context, stats *entities.Statistics) string {
	if s.provider != nil {
		prompt := buildPrompt(stats)
		text, err := s.provider.Generate(ctx, prompt)
		if err == nil && text != "" {
			return text
		}
		if err != nil {
			s.logger.Warn("greeting provider failed, using fallback",
				zap.String("provider", s.provider.Name()),
				zap.Error(err),
			)
		}
	}
	return Fallback(stats)
}

// Fallback is the static templated message used when no provider is
// configured or generation fails.
func Fallback(stats *entities.Statistics) string {
	if stats == nil || stats.BooksInLibrary == 0 {
		return "Welcome! Add your first book to start tracking your reading."
	}
	if stats.CurrentlyReading > 0 {
		return fmt.Sprintf("Welcome back! You are reading %d book(s) and have finished %d so far.",
			stats.CurrentlyReading, stats.TotalBooksRead)
	}
	return fmt.Sprintf("Welcome back! You have finished %d of the %d books in your library.",
		stats.TotalBooksRead, stats.BooksInLibrary)
}

func buildPrompt(stats *entities.Statistics) string {
	if stats == nil {
		return "Write one short, friendly greeting for a reading-tracker dashboard."
	}
	return fmt.Sprintf(
		"Write one short, friendly greeting for a reading-tracker dashboard. "+
			"The reader has %d books, is reading %d, has finished %d, and read %d this year.",
		stats.BooksInLibrary, stats.CurrentlyReading, stats.TotalBooksRead, stats.BooksReadThisYear,
	)
}
