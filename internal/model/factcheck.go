package model

import "time"

// FactCheckEntry is one provider's individual contribution to a claim, kept
// for display and audit. Entries are append-only: the processor creates them
// during a pass and nothing in this repository mutates or deletes them.
type FactCheckEntry struct {
	ID                 uint64    `gorm:"primaryKey" json:"id"`
	ClaimID            uint64    `gorm:"index;not null" json:"claimId"`
	VerificationSource string    `gorm:"size:64;not null" json:"verificationSource"`
	Explanation        string    `gorm:"type:text" json:"explanation"`
	ConfidenceScore    int       `gorm:"not null" json:"confidenceScore"` // The provider's own normalized score, not the aggregate
	CreatedAt          time.Time `json:"createdAt"`
}
