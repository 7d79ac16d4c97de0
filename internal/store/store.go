package store

import (
	"context"
	"errors"

	"github.com/veristream/veristream/internal/model"
)

// ErrNotFound is returned when a claim id does not exist
var ErrNotFound = errors.New("claim not found")

// Store is the persistence contract shared by the processor and the API.
// The store is the only shared mutable resource in the system; verification
// results are written through it exclusively by the processor.
type Store interface {
	// CreateClaim persists a new pending claim
	CreateClaim(ctx context.Context, content string) (*model.Claim, error)

	// Claim loads one claim with its fact-check entries
	Claim(ctx context.Context, id uint64) (*model.Claim, error)

	// RecentClaims returns the latest claims, newest first, entries included
	RecentClaims(ctx context.Context, limit int) ([]model.Claim, error)

	// UnprocessedClaims returns the ids of claims with no verification result
	UnprocessedClaims(ctx context.Context) ([]uint64, error)

	// ApplyVerification persists one processing pass as a unit: all
	// fact-check entries plus the claim's confidence, status and apiProcessed
	// flip. Either everything lands or the error reports a failed pass.
	ApplyVerification(ctx context.Context, claimID uint64, confidence int, status model.Status, entries []model.FactCheckEntry) error
}
