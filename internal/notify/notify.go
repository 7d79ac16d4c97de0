// Package notify connects claim creation events to the processing pipeline
// and fans outcomes out to subscribers. The event source abstraction keeps
// the pipeline decoupled from the transport delivering the events.
package notify

import (
	"context"

	"github.com/veristream/veristream/internal/model"
)

// ClaimsTable keys the generic changed signal; subscribers refresh per
// table, not per record
const ClaimsTable = "claims"

// Event signals that a claim record was created
type Event struct {
	ClaimID uint64 `json:"claimId"`
}

// Source produces claim creation events
type Source interface {
	// Events delivers creation events until ctx is done. The channel closes
	// when the source stops.
	Events(ctx context.Context) <-chan Event
}

// Publisher announces claim creation to the processing side
type Publisher interface {
	ClaimCreated(ctx context.Context, claimID uint64) error
}

// Broadcaster fans processing results out to display-layer subscribers
type Broadcaster interface {
	// Outcome reports one finished pass, success or failure
	Outcome(ctx context.Context, outcome OutcomeEvent) error

	// Changed emits the table-keyed refresh signal. It follows every
	// observed creation event, even when processing failed, so display
	// layers can refresh regardless.
	Changed(ctx context.Context, table string) error
}

// OutcomeEvent is the message subscribers receive after each pass
type OutcomeEvent struct {
	ClaimID    uint64       `json:"claimId"`
	Success    bool         `json:"success"`
	Confidence int          `json:"confidence,omitempty"`
	Status     model.Status `json:"status,omitempty"`
	Error      string       `json:"error,omitempty"`
}
