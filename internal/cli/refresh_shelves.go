package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/avolkau/bookmart/internal/catalog"
	"github.com/avolkau/bookmart/internal/config"
	"github.com/avolkau/bookmart/internal/database"
	"github.com/avolkau/bookmart/internal/database/snapshots"
	"github.com/avolkau/bookmart/internal/googlebooks"
)

// RefreshShelvesCommand refreshes stored category snapshots from the
// catalog source without starting the server.
type RefreshShelvesCommand struct {
	DatabasePath string
	Category     string
	APIURL       string
	APIKey       string
	Timeout      time.Duration
	Verbose      bool
}

// NewRefreshShelvesCommand creates a new RefreshShelvesCommand.
func NewRefreshShelvesCommand() *RefreshShelvesCommand {
	return &RefreshShelvesCommand{}
}

// ParseFlags parses command line flags.
func (cmd *RefreshShelvesCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("refresh-shelves", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.Category, "category", "", "Refresh a single category key (default: all featured)")
	fs.StringVar(&cmd.APIURL, "api-url", "https://www.googleapis.com/books/v1/volumes", "Catalog API base URL")
	fs.StringVar(&cmd.APIKey, "api-key", "", "Optional catalog API key")
	fs.DurationVar(&cmd.Timeout, "timeout", 10*time.Second, "Per-request timeout")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s refresh-shelves [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Refresh stored category snapshots from the catalog source.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s refresh-shelves\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s refresh-shelves -category fiction\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s refresh-shelves -db /data/bookmart.db -api-key $BOOKS_API_KEY\n", os.Args[0])
	}

	return fs.Parse(args)
}

// Run executes the refresh command.
func (cmd *RefreshShelvesCommand) Run() error {
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	cmd.DatabasePath = absDBPath

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	client := googlebooks.NewClient(cmd.APIURL, cmd.APIKey, cmd.Timeout)
	repo := snapshots.NewRepository(db.DB)
	fetcher := catalog.NewFetcher(client, repo)

	categories := catalog.FeaturedCategories
	if cmd.Category != "" {
		categories = []catalog.Category{catalog.FindCategory(cmd.Category)}
	}

	fmt.Printf("Database: %s\n", cmd.DatabasePath)
	fmt.Printf("Refreshing %d categories\n", len(categories))

	var failed int
	for _, cat := range categories {
		ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout*2)
		count, err := fetcher.SnapshotListing(ctx, cat)
		cancel()

		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "  %s: %v\n", cat.Key, err)
			continue
		}
		if cmd.Verbose {
			fmt.Printf("  %s: %d books stored\n", cat.Key, count)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d categories failed to refresh", failed, len(categories))
	}

	fmt.Println("Done")
	return nil
}
