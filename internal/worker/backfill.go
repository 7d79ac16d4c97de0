package worker

import (
	"context"

	"github.com/veristream/veristream/internal/pipeline"
)

// ClaimProcessor is the slice of the pipeline the backfill needs
type ClaimProcessor interface {
	Process(ctx context.Context, claimID uint64) (*pipeline.Outcome, error)
}

// BackfillJob runs one processing pass for a claim
type BackfillJob struct {
	ClaimID   uint64
	Processor ClaimProcessor
}

// Execute executes the processing pass
func (j *BackfillJob) Execute(ctx context.Context) Result {
	outcome, err := j.Processor.Process(ctx, j.ClaimID)
	return &BackfillResult{
		ClaimID: j.ClaimID,
		Outcome: outcome,
		Error:   err,
	}
}

// BackfillResult represents the result of one backfilled claim
type BackfillResult struct {
	ClaimID uint64
	Outcome *pipeline.Outcome
	Error   error
}

// GetError returns the error from the backfill result
func (r *BackfillResult) GetError() error {
	return r.Error
}

// Backfiller reprocesses claims concurrently. Claims are independent units of
// work, so ordering between them carries no meaning.
type Backfiller struct {
	processor   ClaimProcessor
	concurrency int
}

// NewBackfiller creates a new backfiller
func NewBackfiller(processor ClaimProcessor, concurrency int) *Backfiller {
	return &Backfiller{
		processor:   processor,
		concurrency: concurrency,
	}
}

// ProcessClaims processes the given claim ids concurrently
func (b *Backfiller) ProcessClaims(ctx context.Context, ids []uint64) []*BackfillResult {
	if len(ids) == 0 {
		return []*BackfillResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	// Submit concurrently with the result drain so a batch larger than the
	// queue buffer cannot wedge the pool
	go func() {
		for _, id := range ids {
			pool.Submit(&BackfillJob{
				ClaimID:   id,
				Processor: b.processor,
			})
		}
		pool.Close()
	}()

	results := pool.Wait()

	backfillResults := make([]*BackfillResult, len(results))
	for i, result := range results {
		backfillResults[i] = result.(*BackfillResult)
	}

	return backfillResults
}
