package services

import (
	"context"

	"visualcaption/internal/models"
	"visualcaption/internal/repositories"

	"github.com/sirupsen/logrus"
)

const captionNotFound = "Caption not found"

// EventPublisher announces recorded uploads.
type EventPublisher interface {
	PublishUploadRecorded(event models.UploadEvent) error
}

// UploadService manages upload records, which double as captions in the admin view.
type UploadService struct {
	uploadRepo repositories.UploadRepository
	publisher  EventPublisher
	history    *HistoryService
	logger     *logrus.Logger
}

// NewUploadService creates an UploadService. publisher may be nil, in which
// case recorded uploads go to the history store directly.
func NewUploadService(
	uploadRepo repositories.UploadRepository,
	publisher EventPublisher,
	history *HistoryService,
	logger *logrus.Logger,
) *UploadService {
	return &UploadService{
		uploadRepo: uploadRepo,
		publisher:  publisher,
		history:    history,
		logger:     logger,
	}
}

// RecordUpload inserts an upload row and returns its ID. Calls are not idempotent.
func (s *UploadService) RecordUpload(userID, fileURL, fileType, caption string) (string, error) {
	upload := &models.Upload{
		UserID:   userID,
		FileURL:  fileURL,
		FileType: fileType,
		Caption:  caption,
	}
	if err := s.uploadRepo.Create(upload); err != nil {
		return "", wrapError(ErrUpstream, err.Error(), nil)
	}

	s.recordHistory(upload.Event())
	return upload.ID, nil
}

func (s *UploadService) recordHistory(event models.UploadEvent) {
	log := s.logger.WithField("upload_id", event.UploadID)
	if s.publisher != nil {
		err := s.publisher.PublishUploadRecorded(event)
		if err == nil {
			return
		}
		log.WithError(err).Warn("publish failed, writing history directly")
	}
	if s.history == nil {
		return
	}
	if err := s.history.Append(context.Background(), event); err != nil {
		log.WithError(err).Error("failed to append history")
	}
}

// ListUserUploads returns a user's uploads. Zero rows is reported as not found.
func (s *UploadService) ListUserUploads(userID string) ([]models.Upload, error) {
	uploads, err := s.uploadRepo.ListByUser(userID)
	if err != nil {
		return nil, wrapError(ErrUpstream, err.Error(), nil)
	}
	if len(uploads) == 0 {
		return nil, newError(ErrNotFound, "No uploads found for this user")
	}
	return uploads, nil
}

// ListCaptions returns uploads matching filter.
func (s *UploadService) ListCaptions(filter repositories.CaptionFilter) ([]models.Upload, error) {
	return s.uploadRepo.List(filter)
}

// GetCaption returns one upload by ID.
func (s *UploadService) GetCaption(id string) (*models.Upload, error) {
	upload, err := s.uploadRepo.GetByID(id)
	if err != nil {
		return nil, notFoundAs(err, captionNotFound)
	}
	return upload, nil
}

// DeleteCaption removes one upload by ID.
func (s *UploadService) DeleteCaption(id string) error {
	if err := s.uploadRepo.Delete(id); err != nil {
		return notFoundAs(err, captionNotFound)
	}
	return nil
}
