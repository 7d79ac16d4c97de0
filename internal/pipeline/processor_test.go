package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/veristream/veristream/internal/model"
	"github.com/veristream/veristream/internal/provider"
	"github.com/veristream/veristream/internal/store"
)

// stubProvider returns a fixed result for every Check call
type stubProvider struct {
	name   string
	kind   provider.Kind
	result provider.Result
}

func (s *stubProvider) Name() string        { return s.name }
func (s *stubProvider) Kind() provider.Kind { return s.kind }
func (s *stubProvider) Check(ctx context.Context, text string) provider.Result {
	return s.result
}

func numericStub(score int) provider.Provider {
	return &stubProvider{
		name: "numeric",
		kind: provider.KindNumeric,
		result: provider.Result{
			Source:      "numeric",
			Kind:        provider.KindNumeric,
			Score:       score,
			Explanation: "stub score",
			Succeeded:   true,
		},
	}
}

func qualitativeStub(corroborated bool) provider.Provider {
	score := 30
	if corroborated {
		score = 90
	}
	return &stubProvider{
		name: "qualitative",
		kind: provider.KindQualitative,
		result: provider.Result{
			Source:       "qualitative",
			Kind:         provider.KindQualitative,
			Score:        score,
			Explanation:  "stub review",
			Corroborated: corroborated,
			Succeeded:    true,
		},
	}
}

func failingStub(name string, kind provider.Kind) provider.Provider {
	return &stubProvider{
		name: name,
		kind: kind,
		result: provider.Result{
			Source:      name,
			Kind:        kind,
			Succeeded:   false,
			ErrorDetail: "stub failure",
		},
	}
}

// failingStore wraps a Store and fails ApplyVerification
type failingStore struct {
	store.Store
}

func (f *failingStore) ApplyVerification(ctx context.Context, claimID uint64, confidence int, status model.Status, entries []model.FactCheckEntry) error {
	return errors.New("disk full")
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProcess_SuccessfulPass(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	claim, err := st.CreateClaim(ctx, "The moon orbits the earth")
	if err != nil {
		t.Fatalf("CreateClaim: %v", err)
	}

	p := NewProcessor(st, []provider.Provider{numericStub(85), qualitativeStub(true)}, quietLogger())

	outcome, err := p.Process(ctx, claim.ID)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if outcome.Confidence != 85 {
		t.Errorf("Expected confidence 85, got %d", outcome.Confidence)
	}
	if outcome.Status != model.StatusVerified {
		t.Errorf("Expected verified, got %s", outcome.Status)
	}

	stored, err := st.Claim(ctx, claim.ID)
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if !stored.APIProcessed {
		t.Error("Claim should be marked processed")
	}
	if stored.Confidence == nil || *stored.Confidence != 85 {
		t.Errorf("Stored confidence = %v, want 85", stored.Confidence)
	}
	if stored.Status != model.StatusVerified {
		t.Errorf("Stored status = %s, want verified", stored.Status)
	}
	if len(stored.FactChecks) != 2 {
		t.Errorf("Expected 2 fact-check entries, got %d", len(stored.FactChecks))
	}
}

func TestProcess_ClaimNotFound(t *testing.T) {
	p := NewProcessor(store.NewMemory(), []provider.Provider{numericStub(50)}, quietLogger())

	_, err := p.Process(context.Background(), 999)
	if err == nil {
		t.Fatal("Expected an error for a missing claim")
	}
	if kind := KindOf(err); kind != FailureNotFound {
		t.Errorf("Expected not_found, got %s", kind)
	}
}

func TestProcess_NoProviders(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	claim, _ := st.CreateClaim(ctx, "claim")

	p := NewProcessor(st, nil, quietLogger())

	_, err := p.Process(ctx, claim.ID)
	if err == nil {
		t.Fatal("Expected an error with no providers")
	}
	if kind := KindOf(err); kind != FailureConfiguration {
		t.Errorf("Expected configuration, got %s", kind)
	}
}

func TestProcess_PersistenceFailure(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	claim, _ := st.CreateClaim(ctx, "claim")

	p := NewProcessor(&failingStore{Store: st}, []provider.Provider{numericStub(50)}, quietLogger())

	_, err := p.Process(ctx, claim.ID)
	if err == nil {
		t.Fatal("Expected an error when the store rejects the write")
	}
	if kind := KindOf(err); kind != FailurePersistence {
		t.Errorf("Expected persistence, got %s", kind)
	}

	// The underlying claim was never updated
	stored, _ := st.Claim(ctx, claim.ID)
	if stored.APIProcessed {
		t.Error("Claim must stay unprocessed after a failed write")
	}
}

func TestProcess_AllProvidersFail(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	claim, _ := st.CreateClaim(ctx, "claim")

	providers := []provider.Provider{
		failingStub("numeric", provider.KindNumeric),
		failingStub("qualitative", provider.KindQualitative),
	}
	p := NewProcessor(st, providers, quietLogger())

	outcome, err := p.Process(ctx, claim.ID)
	if err != nil {
		t.Fatalf("Zero evidence must not abort the pass: %v", err)
	}
	if outcome.Confidence != 0 {
		t.Errorf("Expected confidence 0, got %d", outcome.Confidence)
	}
	if outcome.Status != model.StatusDebunked {
		t.Errorf("Expected debunked, got %s", outcome.Status)
	}

	stored, _ := st.Claim(ctx, claim.ID)
	if !stored.APIProcessed {
		t.Error("A completed pass marks the claim processed even without evidence")
	}
	if len(stored.FactChecks) != 0 {
		t.Errorf("Failed providers must write no entries, got %d", len(stored.FactChecks))
	}
}

func TestProcess_ResultsInInvocationOrder(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	claim, _ := st.CreateClaim(ctx, "claim")

	p := NewProcessor(st, []provider.Provider{numericStub(60), qualitativeStub(false)}, quietLogger())

	outcome, err := p.Process(ctx, claim.ID)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(outcome.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(outcome.Results))
	}
	if outcome.Results[0].Source != "numeric" || outcome.Results[1].Source != "qualitative" {
		t.Errorf("Results out of invocation order: %s, %s", outcome.Results[0].Source, outcome.Results[1].Source)
	}
}

func TestProcess_RepeatedPassConsistent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	claim, _ := st.CreateClaim(ctx, "claim")

	p := NewProcessor(st, []provider.Provider{numericStub(45)}, quietLogger())

	first, err := p.Process(ctx, claim.ID)
	if err != nil {
		t.Fatalf("First pass: %v", err)
	}
	second, err := p.Process(ctx, claim.ID)
	if err != nil {
		t.Fatalf("Second pass: %v", err)
	}

	if first.Confidence != second.Confidence || first.Status != second.Status {
		t.Errorf("Repeated passes disagree: %d/%s vs %d/%s",
			first.Confidence, first.Status, second.Confidence, second.Status)
	}

	// Entries accumulate; the claim fields converge
	stored, _ := st.Claim(ctx, claim.ID)
	if len(stored.FactChecks) != 2 {
		t.Errorf("Expected one entry per pass, got %d", len(stored.FactChecks))
	}
}

func TestEvaluate_NoStoreRequired(t *testing.T) {
	p := NewProcessor(nil, []provider.Provider{numericStub(30), qualitativeStub(true)}, quietLogger())

	outcome, err := p.Evaluate(context.Background(), "some text")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if outcome.Confidence != 80 {
		t.Errorf("Expected corroboration floor 80, got %d", outcome.Confidence)
	}
	if outcome.Status != model.StatusFlagged {
		t.Errorf("Expected flagged at 80, got %s", outcome.Status)
	}
}
