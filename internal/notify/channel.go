package notify

import (
	"context"
	"log/slog"
)

// ChannelBus implements Publisher and Source on an in-process channel. It
// backs tests and single-process deployments with no redis configured; there
// is no cross-process fan-out.
type ChannelBus struct {
	events chan Event
}

// NewChannelBus creates an in-process bus with the given buffer
func NewChannelBus(buffer int) *ChannelBus {
	return &ChannelBus{events: make(chan Event, buffer)}
}

// ClaimCreated delivers a creation event to the in-process consumer
func (b *ChannelBus) ClaimCreated(ctx context.Context, claimID uint64) error {
	select {
	case b.events <- Event{ClaimID: claimID}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Events returns the event channel
func (b *ChannelBus) Events(ctx context.Context) <-chan Event {
	return b.events
}

// Close stops the bus; the consumer drains and exits
func (b *ChannelBus) Close() {
	close(b.events)
}

// LogBroadcaster implements Broadcaster by logging. Used when no redis is
// configured: outcomes still surface somewhere observable.
type LogBroadcaster struct {
	Logger *slog.Logger
}

// Outcome logs one pass result
func (l LogBroadcaster) Outcome(ctx context.Context, outcome OutcomeEvent) error {
	if outcome.Success {
		l.Logger.Info("outcome", "claim", outcome.ClaimID, "confidence", outcome.Confidence, "status", outcome.Status)
	} else {
		l.Logger.Info("outcome", "claim", outcome.ClaimID, "error", outcome.Error)
	}
	return nil
}

// Changed logs the refresh signal
func (l LogBroadcaster) Changed(ctx context.Context, table string) error {
	l.Logger.Debug("changed", "table", table)
	return nil
}
