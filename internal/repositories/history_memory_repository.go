package repositories

import (
	"context"
	"fmt"
	"sync"

	"visualcaption/internal/models"

	"github.com/google/uuid"
)

// MemoryHistoryRepository is an in-memory implementation of HistoryRepository,
// used when no MongoDB URI is configured.
type MemoryHistoryRepository struct {
	records []models.HistoryRecord
	index   map[string]int
	mu      sync.RWMutex
}

// NewMemoryHistoryRepository creates a new instance of MemoryHistoryRepository.
func NewMemoryHistoryRepository() *MemoryHistoryRepository {
	return &MemoryHistoryRepository{
		records: make([]models.HistoryRecord, 0),
		index:   make(map[string]int),
	}
}

// List returns up to limit records in insertion order.
func (r *MemoryHistoryRepository) List(_ context.Context, limit int64) ([]models.HistoryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := int64(len(r.records))
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.HistoryRecord, 0, n)
	for _, rec := range r.records[:n] {
		out = append(out, copyRecord(rec))
	}
	return out, nil
}

// GetByID returns the record whose _id matches.
func (r *MemoryHistoryRepository) GetByID(_ context.Context, id string) (models.HistoryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, fmt.Errorf("history %s: %w", id, ErrNotFound)
	}
	return copyRecord(r.records[i]), nil
}

// Append stores a record, assigning a string _id when it has none.
func (r *MemoryHistoryRepository) Append(_ context.Context, record models.HistoryRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := copyRecord(record)
	id, ok := rec["_id"].(string)
	if !ok || id == "" {
		id = uuid.New().String()
		rec["_id"] = id
	}
	if _, exists := r.index[id]; exists {
		return fmt.Errorf("history %s: %w", id, ErrDuplicate)
	}
	r.index[id] = len(r.records)
	r.records = append(r.records, rec)
	return nil
}

func copyRecord(rec models.HistoryRecord) models.HistoryRecord {
	out := make(models.HistoryRecord, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
