package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"visualcaption/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CaptionFilter narrows the admin caption listing.
type CaptionFilter struct {
	Search         string // case-insensitive substring of the caption
	FileType       string
	SortByUploaded bool // newest first
	Limit          int
}

// UploadRepository defines the interface for upload (caption) data access.
type UploadRepository interface {
	Create(upload *models.Upload) error
	GetByID(id string) (*models.Upload, error)
	ListByUser(userID string) ([]models.Upload, error)
	List(filter CaptionFilter) ([]models.Upload, error)
	Delete(id string) error
	Count() (int64, error)
}

// GORMUploadRepository is a GORM implementation of UploadRepository.
type GORMUploadRepository struct {
	db *gorm.DB
}

// NewGORMUploadRepository creates a new GORMUploadRepository.
func NewGORMUploadRepository(db *gorm.DB) *GORMUploadRepository {
	return &GORMUploadRepository{db: db}
}

// Create inserts an upload row, filling in the ID and timestamp when unset.
func (r *GORMUploadRepository) Create(upload *models.Upload) error {
	if upload.ID == "" {
		upload.ID = uuid.New().String()
	}
	if upload.UploadedAt.IsZero() {
		upload.UploadedAt = time.Now().UTC()
	}
	if err := r.db.Create(upload).Error; err != nil {
		return fmt.Errorf("failed to create upload: %w", translateWriteError(err))
	}
	return nil
}

// GetByID finds an upload by its ID.
func (r *GORMUploadRepository) GetByID(id string) (*models.Upload, error) {
	var upload models.Upload
	if err := r.db.First(&upload, "upload_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("upload with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get upload %s: %w", id, err)
	}
	return &upload, nil
}

// ListByUser returns a user's uploads in storage order.
func (r *GORMUploadRepository) ListByUser(userID string) ([]models.Upload, error) {
	uploads := make([]models.Upload, 0)
	if err := r.db.Where("user_id = ?", userID).Find(&uploads).Error; err != nil {
		return nil, fmt.Errorf("failed to list uploads for user %s: %w", userID, err)
	}
	return uploads, nil
}

// List returns uploads matching filter.
func (r *GORMUploadRepository) List(filter CaptionFilter) ([]models.Upload, error) {
	q := r.db.Model(&models.Upload{})
	if filter.Search != "" {
		q = q.Where("LOWER(caption) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.FileType != "" {
		q = q.Where("file_type = ?", filter.FileType)
	}
	if filter.SortByUploaded {
		q = q.Order("uploaded_at DESC")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	uploads := make([]models.Upload, 0)
	if err := q.Find(&uploads).Error; err != nil {
		return nil, fmt.Errorf("failed to list captions: %w", err)
	}
	return uploads, nil
}

// Delete removes an upload, returning ErrNotFound when no row matched.
func (r *GORMUploadRepository) Delete(id string) error {
	res := r.db.Delete(&models.Upload{}, "upload_id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete upload %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("upload with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// Count returns the number of uploads.
func (r *GORMUploadRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Upload{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count uploads: %w", err)
	}
	return count, nil
}
