package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"visualcaption/internal/models"
	"visualcaption/internal/repositories"

	"github.com/sirupsen/logrus"
)

// HistoryListLimit caps how many history documents are returned at once.
const HistoryListLimit = 100

// HistoryService exposes the caption history document store.
type HistoryService struct {
	repo   repositories.HistoryRepository
	logger *logrus.Logger
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(repo repositories.HistoryRepository, logger *logrus.Logger) *HistoryService {
	return &HistoryService{repo: repo, logger: logger}
}

// List returns up to HistoryListLimit history documents.
func (s *HistoryService) List(ctx context.Context) ([]models.HistoryRecord, error) {
	return s.repo.List(ctx, HistoryListLimit)
}

// Get returns the record with the given _id, or nil when there is none.
func (s *HistoryService) Get(ctx context.Context, id string) (models.HistoryRecord, error) {
	record, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	return record, err
}

// Append stores an upload event as a history document keyed by its upload ID.
// Re-appending the same upload is ignored.
func (s *HistoryService) Append(ctx context.Context, event models.UploadEvent) error {
	record := models.HistoryRecord{
		"_id":         event.UploadID,
		"user_id":     event.UserID,
		"file_url":    event.FileURL,
		"file_type":   event.FileType,
		"caption":     event.Caption,
		"uploaded_at": event.UploadedAt,
	}
	if err := s.repo.Append(ctx, record); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			s.logger.WithField("upload_id", event.UploadID).Debug("history already recorded")
			return nil
		}
		return err
	}
	return nil
}

// HandleUploadEvent decodes a queued upload event and appends it.
func (s *HistoryService) HandleUploadEvent(body []byte) error {
	var event models.UploadEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to decode upload event: %w", err)
	}
	if event.UploadID == "" {
		return fmt.Errorf("upload event without upload_id")
	}
	return s.Append(context.Background(), event)
}
