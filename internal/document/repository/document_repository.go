package repository

import (
	"errors"
	"time"

	docdomain "jobtrack-backend/internal/document/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentRepository is the store adapter for tracking-document records.
type DocumentRepository interface {
	Create(doc *docdomain.TrackingDocument) error
	FindBySlug(slug string) (*docdomain.TrackingDocument, error)
	FindByUser(userID string) ([]docdomain.TrackingDocument, error)
	// TouchLastSync stamps every tracking document matching the spreadsheet
	// id with the given sync time.
	TouchLastSync(documentID string, at time.Time) error
}

// documentRepository implements DocumentRepository interface
type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new instance of documentRepository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{
		db: db,
	}
}

func (r *documentRepository) Create(doc *docdomain.TrackingDocument) error {
	doc.ID = uuid.New().String()
	doc.DateCreated = time.Now()
	return r.db.Create(doc).Error
}

func (r *documentRepository) FindBySlug(slug string) (*docdomain.TrackingDocument, error) {
	var doc docdomain.TrackingDocument
	err := r.db.Where("slug = ?", slug).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) FindByUser(userID string) ([]docdomain.TrackingDocument, error) {
	var docs []docdomain.TrackingDocument
	err := r.db.Where("user_id = ?", userID).Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *documentRepository) TouchLastSync(documentID string, at time.Time) error {
	return r.db.Model(&docdomain.TrackingDocument{}).
		Where("document_id = ?", documentID).
		Update("last_sync", at).Error
}
