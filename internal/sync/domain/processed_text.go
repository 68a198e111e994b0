package domain

import (
	"encoding/json"
	"time"
)

// ProcessedText is one dedup-ledger entry. A record's existence is what
// gates reprocessing: once a thread id is written here it is never sent to
// the classifier again, even when no spreadsheet row came out of it.
type ProcessedText struct {
	ThreadID         string          `json:"textOriginId" gorm:"primaryKey"`
	ProcessingResult json.RawMessage `json:"processingResult" gorm:"serializer:json"`
	UserID           string          `json:"userId" gorm:"index;not null"`
	DocumentID       string          `json:"documentId" gorm:"index"`
	DateCreated      time.Time       `json:"dateCreated"`
}
