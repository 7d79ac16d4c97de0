package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/veristream/veristream/internal/model"
)

// MySQL implements Store on a gorm MySQL connection
type MySQL struct {
	db *gorm.DB
}

// Open connects to MySQL and migrates the claim tables
func Open(dsn string) (*MySQL, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	if err := db.AutoMigrate(&model.Claim{}, &model.FactCheckEntry{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &MySQL{db: db}, nil
}

// CreateClaim persists a new pending claim
func (m *MySQL) CreateClaim(ctx context.Context, content string) (*model.Claim, error) {
	claim := &model.Claim{
		Content: content,
		Status:  model.StatusPending,
	}
	if err := m.db.WithContext(ctx).Create(claim).Error; err != nil {
		return nil, fmt.Errorf("create claim: %w", err)
	}
	return claim, nil
}

// Claim loads one claim with its fact-check entries
func (m *MySQL) Claim(ctx context.Context, id uint64) (*model.Claim, error) {
	var claim model.Claim
	err := m.db.WithContext(ctx).Preload("FactChecks").First(&claim, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch claim: %w", err)
	}
	return &claim, nil
}

// RecentClaims returns the latest claims, newest first, entries included
func (m *MySQL) RecentClaims(ctx context.Context, limit int) ([]model.Claim, error) {
	var claims []model.Claim
	err := m.db.WithContext(ctx).
		Preload("FactChecks").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&claims).Error
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	return claims, nil
}

// UnprocessedClaims returns the ids of claims with no verification result
func (m *MySQL) UnprocessedClaims(ctx context.Context) ([]uint64, error) {
	var ids []uint64
	err := m.db.WithContext(ctx).
		Model(&model.Claim{}).
		Where("api_processed = ?", false).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list unprocessed claims: %w", err)
	}
	return ids, nil
}

// ApplyVerification writes the entries and the claim update in one
// transaction. Entries go first: a claim must never read as processed
// without its supporting evidence.
func (m *MySQL) ApplyVerification(ctx context.Context, claimID uint64, confidence int, status model.Status, entries []model.FactCheckEntry) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range entries {
			entries[i].ClaimID = claimID
		}
		if len(entries) > 0 {
			if err := tx.Create(&entries).Error; err != nil {
				return fmt.Errorf("insert fact checks: %w", err)
			}
		}

		res := tx.Model(&model.Claim{}).Where("id = ?", claimID).Updates(map[string]interface{}{
			"confidence":    confidence,
			"status":        status,
			"api_processed": true,
		})
		if res.Error != nil {
			return fmt.Errorf("update claim: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
