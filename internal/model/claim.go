package model

import "time"

// Status is the lifecycle classification of a claim
type Status string

const (
	StatusPending  Status = "pending"  // Created, not yet processed
	StatusVerified Status = "verified" // Aggregated confidence above 80
	StatusDebunked Status = "debunked" // Aggregated confidence below 40
	StatusFlagged  Status = "flagged"  // Inconclusive middle band, boundaries included
)

// Claim represents a broadcast submitted for verification.
// Content and CreatedAt are immutable after creation; Confidence, Status and
// APIProcessed are written only by the processor, together, in one pass.
type Claim struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	Confidence   *int      `json:"confidence"` // 0-100, nil until processed
	Status       Status    `gorm:"size:16;not null" json:"status"`
	APIProcessed bool      `gorm:"not null" json:"apiProcessed"` // Flips to true on the first successful pass
	CreatedAt    time.Time `json:"createdAt"`

	FactChecks []FactCheckEntry `gorm:"foreignKey:ClaimID" json:"factChecks,omitempty"`
}
