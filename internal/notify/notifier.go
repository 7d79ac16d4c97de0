package notify

import (
	"context"
	"log/slog"
	"os"

	"github.com/veristream/veristream/internal/pipeline"
)

// Processor is the slice of the pipeline the notifier invokes
type Processor interface {
	Process(ctx context.Context, claimID uint64) (*pipeline.Outcome, error)
}

// Notifier consumes creation events and reports outcomes. It is a single
// consumer: events are handled strictly in arrival order, which gives one
// pass per creation event without further guarding.
type Notifier struct {
	source      Source
	processor   Processor
	broadcaster Broadcaster
	logger      *slog.Logger
}

// NewNotifier creates a notifier
func NewNotifier(source Source, processor Processor, broadcaster Broadcaster, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &Notifier{
		source:      source,
		processor:   processor,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Run consumes events until ctx is cancelled or the source closes
func (n *Notifier) Run(ctx context.Context) error {
	events := n.source.Events(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			n.handle(ctx, ev)
		}
	}
}

// handle runs one pass and reports its outcome
func (n *Notifier) handle(ctx context.Context, ev Event) {
	outcome, err := n.processor.Process(ctx, ev.ClaimID)
	if err != nil {
		n.logger.Error("processing failed",
			"claim", ev.ClaimID,
			"kind", pipeline.KindOf(err),
			"err", err)
		n.emitOutcome(ctx, OutcomeEvent{ClaimID: ev.ClaimID, Error: err.Error()})
	} else {
		n.emitOutcome(ctx, OutcomeEvent{
			ClaimID:    ev.ClaimID,
			Success:    true,
			Confidence: outcome.Confidence,
			Status:     outcome.Status,
		})
	}

	// Always sent, even after a failed pass
	if err := n.broadcaster.Changed(ctx, ClaimsTable); err != nil {
		n.logger.Warn("changed signal failed", "err", err)
	}
}

func (n *Notifier) emitOutcome(ctx context.Context, outcome OutcomeEvent) {
	if err := n.broadcaster.Outcome(ctx, outcome); err != nil {
		n.logger.Warn("outcome broadcast failed", "claim", outcome.ClaimID, "err", err)
	}
}
