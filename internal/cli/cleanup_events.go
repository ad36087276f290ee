// Package cli implements the maintenance commands that run outside the
// HTTP server.
package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/readtrack/internal/config"
	"github.com/mrlokans/readtrack/internal/database"
	"github.com/mrlokans/readtrack/internal/database/events"
)

// CleanupEventsCommand runs a one-shot event retention sweep against the
// main database. The same sweep runs periodically inside the server; this
// command exists for operators who want to reclaim space immediately.
type CleanupEventsCommand struct {
	DatabasePath  string
	RetentionDays int
	DryRun        bool
}

// NewCleanupEventsCommand creates a new CleanupEventsCommand
func NewCleanupEventsCommand() *CleanupEventsCommand {
	return &CleanupEventsCommand{}
}

// ParseFlags parses command line flags
func (cmd *CleanupEventsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("cleanup-events", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the main database file")
	fs.IntVar(&cmd.RetentionDays, "retention-days", 365, "Delete events older than this many days")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Report what would be deleted without deleting")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s cleanup-events [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete history events older than the retention period.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s cleanup-events\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s cleanup-events -retention-days 90\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s cleanup-events -dry-run\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the sweep
func (cmd *CleanupEventsCommand) Run() error {
	if cmd.RetentionDays <= 0 {
		return fmt.Errorf("retention-days must be positive, got %d", cmd.RetentionDays)
	}

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	if _, err := os.Stat(absDBPath); os.IsNotExist(err) {
		return fmt.Errorf("database %s does not exist", absDBPath)
	}

	db, err := database.NewDatabase(absDBPath, zap.NewNop())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	cutoff := time.Now().AddDate(0, 0, -cmd.RetentionDays)
	repo := events.NewRepository(db.DB)

	if cmd.DryRun {
		count, err := repo.CountOldEvents(cutoff)
		if err != nil {
			return fmt.Errorf("failed to count old events: %w", err)
		}
		fmt.Printf("Would delete %d events older than %s\n", count, cutoff.Format("2006-01-02"))
		return nil
	}

	deleted, err := repo.DeleteOldEvents(cutoff)
	if err != nil {
		return fmt.Errorf("failed to delete old events: %w", err)
	}
	fmt.Printf("Deleted %d events older than %s\n", deleted, cutoff.Format("2006-01-02"))
	return nil
}
