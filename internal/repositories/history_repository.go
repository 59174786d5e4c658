package repositories

import (
	"context"

	"visualcaption/internal/models"
)

// HistoryRepository stores schema-less caption history documents.
type HistoryRepository interface {
	List(ctx context.Context, limit int64) ([]models.HistoryRecord, error)
	GetByID(ctx context.Context, id string) (models.HistoryRecord, error)
	Append(ctx context.Context, record models.HistoryRecord) error
}
