package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/veristream/veristream/internal/model"
	"github.com/veristream/veristream/internal/pipeline"
)

// stubProcessor records calls and returns a canned outcome or error
type stubProcessor struct {
	mu      sync.Mutex
	calls   []uint64
	outcome *pipeline.Outcome
	err     error
}

func (s *stubProcessor) Process(ctx context.Context, claimID uint64) (*pipeline.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, claimID)
	if s.err != nil {
		return nil, s.err
	}
	out := *s.outcome
	out.ClaimID = claimID
	return &out, nil
}

// recordingBroadcaster collects everything broadcast
type recordingBroadcaster struct {
	mu       sync.Mutex
	outcomes []OutcomeEvent
	changed  []string
	done     chan struct{}
}

func newRecordingBroadcaster(expectedChanged int) *recordingBroadcaster {
	return &recordingBroadcaster{done: make(chan struct{}, expectedChanged)}
}

func (r *recordingBroadcaster) Outcome(ctx context.Context, outcome OutcomeEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
	return nil
}

func (r *recordingBroadcaster) Changed(ctx context.Context, table string) error {
	r.mu.Lock()
	r.changed = append(r.changed, table)
	r.mu.Unlock()
	r.done <- struct{}{}
	return nil
}

func (r *recordingBroadcaster) waitForChanged(t *testing.T) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for the changed signal")
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifier_SuccessfulPass(t *testing.T) {
	bus := NewChannelBus(4)
	proc := &stubProcessor{outcome: &pipeline.Outcome{Confidence: 85, Status: model.StatusVerified}}
	bc := newRecordingBroadcaster(1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n := NewNotifier(bus, proc, bc, quietLogger())
	go func() { _ = n.Run(ctx) }()

	if err := bus.ClaimCreated(ctx, 7); err != nil {
		t.Fatalf("ClaimCreated: %v", err)
	}
	bc.waitForChanged(t)

	bc.mu.Lock()
	defer bc.mu.Unlock()
	if len(bc.outcomes) != 1 {
		t.Fatalf("Expected 1 outcome, got %d", len(bc.outcomes))
	}
	out := bc.outcomes[0]
	if !out.Success || out.ClaimID != 7 || out.Confidence != 85 || out.Status != model.StatusVerified {
		t.Errorf("Unexpected outcome: %+v", out)
	}
	if len(bc.changed) != 1 || bc.changed[0] != ClaimsTable {
		t.Errorf("Expected one changed signal for %q, got %v", ClaimsTable, bc.changed)
	}
}

func TestNotifier_FailedPassStillSignalsChanged(t *testing.T) {
	bus := NewChannelBus(4)
	proc := &stubProcessor{err: &pipeline.Error{Kind: pipeline.FailureNotFound, Err: errors.New("claim gone")}}
	bc := newRecordingBroadcaster(1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n := NewNotifier(bus, proc, bc, quietLogger())
	go func() { _ = n.Run(ctx) }()

	if err := bus.ClaimCreated(ctx, 9); err != nil {
		t.Fatalf("ClaimCreated: %v", err)
	}
	bc.waitForChanged(t)

	bc.mu.Lock()
	defer bc.mu.Unlock()
	if len(bc.outcomes) != 1 {
		t.Fatalf("Expected 1 outcome, got %d", len(bc.outcomes))
	}
	out := bc.outcomes[0]
	if out.Success {
		t.Error("A failed pass must not report success")
	}
	if out.ClaimID != 9 || out.Error == "" {
		t.Errorf("Unexpected failure outcome: %+v", out)
	}
	if len(bc.changed) != 1 {
		t.Errorf("Changed must follow even a failed pass, got %v", bc.changed)
	}
}

func TestNotifier_EventsInOrder(t *testing.T) {
	bus := NewChannelBus(8)
	proc := &stubProcessor{outcome: &pipeline.Outcome{Confidence: 50, Status: model.StatusFlagged}}
	bc := newRecordingBroadcaster(3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	n := NewNotifier(bus, proc, bc, quietLogger())
	go func() { _ = n.Run(ctx) }()

	for _, id := range []uint64{1, 2, 3} {
		if err := bus.ClaimCreated(ctx, id); err != nil {
			t.Fatalf("ClaimCreated(%d): %v", id, err)
		}
	}
	for i := 0; i < 3; i++ {
		bc.waitForChanged(t)
	}

	proc.mu.Lock()
	defer proc.mu.Unlock()
	if len(proc.calls) != 3 {
		t.Fatalf("Expected 3 passes, got %d", len(proc.calls))
	}
	for i, id := range []uint64{1, 2, 3} {
		if proc.calls[i] != id {
			t.Errorf("Pass %d processed claim %d, want %d", i, proc.calls[i], id)
		}
	}
}

func TestNotifier_StopsWhenSourceCloses(t *testing.T) {
	bus := NewChannelBus(1)
	proc := &stubProcessor{outcome: &pipeline.Outcome{}}
	bc := newRecordingBroadcaster(1)

	n := NewNotifier(bus, proc, bc, quietLogger())

	done := make(chan error, 1)
	go func() { done <- n.Run(context.Background()) }()

	bus.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run should return nil on a closed source, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the source closed")
	}
}
