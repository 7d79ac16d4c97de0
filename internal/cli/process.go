package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/veristream/veristream/internal/pipeline"
	"github.com/veristream/veristream/internal/provider"
	"github.com/veristream/veristream/internal/store"
)

var processTimeout time.Duration

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process <claim-id>",
	Short: "Run one verification pass for a stored claim",
	Long: `Process fetches the claim, scores it against every configured provider,
aggregates the results and persists the confidence, status and fact-check
entries.

Example:
  veristream process 42
  veristream process 42 --timeout 30s`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().DurationVar(&processTimeout, "timeout", 2*time.Minute, "overall processing timeout")
}

func runProcess(cmd *cobra.Command, args []string) error {
	claimID, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid claim id %q", args[0])
	}

	cfg := loadConfig()
	if cfg.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required (set VERISTREAM_DATABASE_DSN or the config file)")
	}

	st, err := store.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	processor := pipeline.NewProcessor(st, provider.New(cfg), logger)

	ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
	defer cancel()

	outcome, err := processor.Process(ctx, claimID)
	if err != nil {
		return fmt.Errorf("process claim %d: %w", claimID, err)
	}

	succeeded := 0
	for _, r := range outcome.Results {
		if r.Succeeded {
			succeeded++
		}
	}
	fmt.Printf("✓ Claim %d: %s (confidence %d/100, %d of %d providers)\n",
		claimID, outcome.Status, outcome.Confidence, succeeded, len(outcome.Results))
	return nil
}
