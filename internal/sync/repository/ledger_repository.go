package repository

import (
	"errors"
	"time"

	syncdomain "jobtrack-backend/internal/sync/domain"

	"gorm.io/gorm"
)

// LedgerRepository is the idempotency ledger keyed by message thread id.
type LedgerRepository interface {
	IsProcessed(threadID string) (bool, error)
	MarkProcessed(record *syncdomain.ProcessedText) error
}

// ledgerRepository implements LedgerRepository interface
type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new instance of ledgerRepository
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{
		db: db,
	}
}

func (r *ledgerRepository) IsProcessed(threadID string) (bool, error) {
	var record syncdomain.ProcessedText
	err := r.db.Where("thread_id = ?", threadID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *ledgerRepository) MarkProcessed(record *syncdomain.ProcessedText) error {
	record.DateCreated = time.Now()
	return r.db.Save(record).Error
}
