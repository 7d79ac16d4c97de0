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
)

var checkTimeout time.Duration

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <text>",
	Short: "Score a claim text without persisting it",
	Long: `Check sends the text to every configured provider and prints the
per-provider results plus the aggregated confidence and status. Nothing is
stored.

Example:
  veristream check "The moon landing was staged"
  veristream check "Water boils at 100 degrees Celsius at sea level" --timeout 30s`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 1*time.Minute, "overall check timeout")
}

func runCheck(cmd *cobra.Command, args []string) error {
	text := args[0]
	cfg := loadConfig()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if !verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	}
	processor := pipeline.NewProcessor(nil, provider.New(cfg), logger)

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	outcome, err := processor.Evaluate(ctx, text)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}

	for _, r := range outcome.Results {
		if r.Succeeded {
			fmt.Printf("✓ %-26s %3d  %s\n", r.Source, r.Score, r.Explanation)
		} else {
			fmt.Printf("✗ %-26s      %s\n", r.Source, r.ErrorDetail)
		}
	}
	fmt.Printf("\nConfidence: %d/100\nStatus:     %s\n", outcome.Confidence, outcome.Status)
	return nil
}
