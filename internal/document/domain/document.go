package domain

import (
	"strings"
	"time"
)

// TrackingDocument is one user-facing spreadsheet recording a row per
// classified job-application email.
type TrackingDocument struct {
	ID            string     `json:"id" gorm:"primaryKey"`
	DocumentID    string     `json:"documentId" gorm:"index;not null"`
	ActiveSheetID int64      `json:"activeSheetId"`
	UserID        string     `json:"userId" gorm:"index;not null"`
	DocumentName  string     `json:"documentName"`
	DocumentLink  string     `json:"documentLink"`
	Slug          string     `json:"slug" gorm:"index"`
	Tracking      []string   `json:"tracking" gorm:"serializer:json"`
	LastSync      *time.Time `json:"lastSync"`
	DateCreated   time.Time  `json:"dateCreated"`
}

// Slugify derives the lookup slug from a document name.
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
