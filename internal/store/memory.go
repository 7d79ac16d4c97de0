package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/veristream/veristream/internal/model"
)

// Memory implements Store in process memory. It backs tests and serves as
// the ephemeral store when no database is configured.
type Memory struct {
	mu          sync.RWMutex
	claims      map[uint64]model.Claim
	entries     map[uint64][]model.FactCheckEntry
	nextClaimID uint64
	nextEntryID uint64
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		claims:  make(map[uint64]model.Claim),
		entries: make(map[uint64][]model.FactCheckEntry),
	}
}

// CreateClaim persists a new pending claim
func (m *Memory) CreateClaim(ctx context.Context, content string) (*model.Claim, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextClaimID++
	claim := model.Claim{
		ID:        m.nextClaimID,
		Content:   content,
		Status:    model.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	m.claims[claim.ID] = claim

	out := claim
	return &out, nil
}

// Claim loads one claim with its fact-check entries
func (m *Memory) Claim(ctx context.Context, id uint64) (*model.Claim, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	claim, ok := m.claims[id]
	if !ok {
		return nil, ErrNotFound
	}
	claim.FactChecks = append([]model.FactCheckEntry(nil), m.entries[id]...)
	return &claim, nil
}

// RecentClaims returns the latest claims, newest first, entries included
func (m *Memory) RecentClaims(ctx context.Context, limit int) ([]model.Claim, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	claims := make([]model.Claim, 0, len(m.claims))
	for _, claim := range m.claims {
		claim.FactChecks = append([]model.FactCheckEntry(nil), m.entries[claim.ID]...)
		claims = append(claims, claim)
	}
	sort.Slice(claims, func(i, j int) bool {
		if !claims[i].CreatedAt.Equal(claims[j].CreatedAt) {
			return claims[i].CreatedAt.After(claims[j].CreatedAt)
		}
		return claims[i].ID > claims[j].ID
	})
	if limit > 0 && len(claims) > limit {
		claims = claims[:limit]
	}
	return claims, nil
}

// UnprocessedClaims returns the ids of claims with no verification result
func (m *Memory) UnprocessedClaims(ctx context.Context) ([]uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []uint64
	for id, claim := range m.claims {
		if !claim.APIProcessed {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// ApplyVerification writes the entries and the claim update under one lock,
// which makes the pair atomic to every reader
func (m *Memory) ApplyVerification(ctx context.Context, claimID uint64, confidence int, status model.Status, entries []model.FactCheckEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	claim, ok := m.claims[claimID]
	if !ok {
		return ErrNotFound
	}

	now := time.Now().UTC()
	for _, entry := range entries {
		m.nextEntryID++
		entry.ID = m.nextEntryID
		entry.ClaimID = claimID
		entry.CreatedAt = now
		m.entries[claimID] = append(m.entries[claimID], entry)
	}

	c := confidence
	claim.Confidence = &c
	claim.Status = status
	claim.APIProcessed = true
	m.claims[claimID] = claim
	return nil
}
