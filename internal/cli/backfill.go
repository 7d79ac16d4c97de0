package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/veristream/veristream/internal/pipeline"
	"github.com/veristream/veristream/internal/provider"
	"github.com/veristream/veristream/internal/store"
	"github.com/veristream/veristream/internal/worker"
)

var (
	backfillConcurrency int
	backfillTimeout     time.Duration
)

// backfillCmd represents the backfill command
var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Reprocess every claim that has no verification result",
	Long: `Backfill finds all claims whose processing never completed (for example
because providers or the event bus were down when they were created) and runs
a verification pass for each, concurrently.

Example:
  veristream backfill
  veristream backfill --concurrency 8 --timeout 30m`,
	RunE: runBackfill,
}

func init() {
	rootCmd.AddCommand(backfillCmd)

	backfillCmd.Flags().IntVar(&backfillConcurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	backfillCmd.Flags().DurationVar(&backfillTimeout, "timeout", 10*time.Minute, "total timeout for the backfill")
}

func runBackfill(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if cfg.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required (set VERISTREAM_DATABASE_DSN or the config file)")
	}

	concurrency := backfillConcurrency
	if concurrency <= 0 {
		concurrency = cfg.Concurrency.BackfillWorkers
	}

	st, err := store.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	processor := pipeline.NewProcessor(st, provider.New(cfg), logger)

	ctx, cancel := context.WithTimeout(context.Background(), backfillTimeout)
	defer cancel()

	ids, err := st.UnprocessedClaims(ctx)
	if err != nil {
		return fmt.Errorf("list unprocessed claims: %w", err)
	}
	if len(ids) == 0 {
		fmt.Println("No unprocessed claims")
		return nil
	}

	fmt.Fprintf(os.Stderr, "⚙️  Processing %d claims with %d workers...\n", len(ids), concurrency)

	backfiller := worker.NewBackfiller(processor, concurrency)
	results := backfiller.ProcessClaims(ctx, ids)

	successCount := 0
	failureCount := 0
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ claim %d: %v\n", result.ClaimID, result.Error)
			continue
		}
		successCount++
		fmt.Fprintf(os.Stderr, "✓ claim %d: %s (confidence %d/100)\n",
			result.ClaimID, result.Outcome.Status, result.Outcome.Confidence)
	}

	fmt.Fprintf(os.Stderr, "\nTotal: %d  Success: %d  Failures: %d\n",
		len(results), successCount, failureCount)
	return nil
}
