package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/veristream/veristream/internal/model"
	"github.com/veristream/veristream/internal/provider"
	"github.com/veristream/veristream/internal/score"
	"github.com/veristream/veristream/internal/store"
)

// Processor runs one verification pass per claim: fetch the record, fan the
// text out to every provider, aggregate, classify, persist. One pass is one
// unit of work; concurrent passes over the same claim id are not excluded
// here and must be guarded by the trigger.
type Processor struct {
	store      store.Store
	providers  []provider.Provider
	aggregator *score.Aggregator
	logger     *slog.Logger
}

// NewProcessor creates a processor. The store may be nil for Evaluate-only
// use (the check command).
func NewProcessor(st store.Store, providers []provider.Provider, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &Processor{
		store:      st,
		providers:  providers,
		aggregator: score.NewAggregator(),
		logger:     logger,
	}
}

// Outcome summarizes one completed pass
type Outcome struct {
	ClaimID    uint64            `json:"claimId"`
	Confidence int               `json:"confidence"`
	Status     model.Status      `json:"status"`
	Results    []provider.Result `json:"results"`
}

// Process runs the full pass for one claim id.
//
// Individual provider failures are absorbed: each contributes no evidence and
// the pass continues, even when every provider fails (zero evidence means
// confidence 0). Only an absent claim, an empty provider set, or a store
// failure aborts the pass.
func (p *Processor) Process(ctx context.Context, claimID uint64) (*Outcome, error) {
	claim, err := p.store.Claim(ctx, claimID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &Error{Kind: FailureNotFound, Err: err}
		}
		return nil, &Error{Kind: FailurePersistence, Err: fmt.Errorf("fetch claim %d: %w", claimID, err)}
	}

	if len(p.providers) == 0 {
		return nil, &Error{Kind: FailureConfiguration, Err: errors.New("no verification providers configured")}
	}

	results := p.scoreText(ctx, claim.Content)
	agg := p.aggregator.Aggregate(claim.ID, results)
	status := score.Classify(agg.Confidence)

	if err := p.store.ApplyVerification(ctx, claim.ID, agg.Confidence, status, agg.Entries); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &Error{Kind: FailureNotFound, Err: err}
		}
		return nil, &Error{Kind: FailurePersistence, Err: fmt.Errorf("persist verification for claim %d: %w", claim.ID, err)}
	}

	p.logger.Info("claim processed",
		"claim", claim.ID,
		"confidence", agg.Confidence,
		"status", status,
		"entries", len(agg.Entries))

	return &Outcome{
		ClaimID:    claim.ID,
		Confidence: agg.Confidence,
		Status:     status,
		Results:    results,
	}, nil
}

// Evaluate scores text without touching the store; used by the check command
func (p *Processor) Evaluate(ctx context.Context, text string) (*Outcome, error) {
	if len(p.providers) == 0 {
		return nil, &Error{Kind: FailureConfiguration, Err: errors.New("no verification providers configured")}
	}

	results := p.scoreText(ctx, text)
	agg := p.aggregator.Aggregate(0, results)

	return &Outcome{
		Confidence: agg.Confidence,
		Status:     score.Classify(agg.Confidence),
		Results:    results,
	}, nil
}

// scoreText fans the claim text out to every provider concurrently and joins
// the results in invocation order. Providers share no mutable state, so the
// indexed slice needs no locking.
func (p *Processor) scoreText(ctx context.Context, text string) []provider.Result {
	results := make([]provider.Result, len(p.providers))
	var wg sync.WaitGroup

	for i, prov := range p.providers {
		wg.Add(1)
		go func(idx int, prov provider.Provider) {
			defer wg.Done()
			results[idx] = prov.Check(ctx, text)
		}(i, prov)
	}
	wg.Wait()

	for _, r := range results {
		if !r.Succeeded {
			p.logger.Warn("provider failed", "provider", r.Source, "detail", r.ErrorDetail)
		}
	}
	return results
}
