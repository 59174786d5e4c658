package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"visualcaption/internal/models"
	"visualcaption/internal/repositories"
	"visualcaption/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func stubCreate(repo *MockUploadRepository, id string) {
	repo.On("Create", mock.AnythingOfType("*models.Upload")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Upload).ID = id
	}).Return(nil).Once()
}

func TestUploadService_RecordUploadPublishes(t *testing.T) {
	repo := new(MockUploadRepository)
	publisher := new(MockPublisher)
	historyRepo := repositories.NewMemoryHistoryRepository()
	svc := services.NewUploadService(repo, publisher, services.NewHistoryService(historyRepo, quietLogger()), quietLogger())

	stubCreate(repo, "up-1")
	publisher.On("PublishUploadRecorded", mock.MatchedBy(func(e models.UploadEvent) bool {
		return e.UploadID == "up-1" && e.Caption == "a dog"
	})).Return(nil).Once()

	id, err := svc.RecordUpload("u1", "https://cdn/x.jpg", "image/jpeg", "a dog")
	require.NoError(t, err)
	assert.Equal(t, "up-1", id)
	publisher.AssertExpectations(t)

	// History is written by the consumer, not here
	records, _ := historyRepo.List(context.Background(), 10)
	assert.Empty(t, records)
}

func TestUploadService_RecordUploadFallsBackToHistory(t *testing.T) {
	repo := new(MockUploadRepository)
	publisher := new(MockPublisher)
	historyRepo := repositories.NewMemoryHistoryRepository()
	svc := services.NewUploadService(repo, publisher, services.NewHistoryService(historyRepo, quietLogger()), quietLogger())

	stubCreate(repo, "up-2")
	publisher.On("PublishUploadRecorded", mock.Anything).Return(errors.New("broker gone")).Once()

	_, err := svc.RecordUpload("u1", "https://cdn/y.jpg", "image/png", "a cat")
	require.NoError(t, err)

	record, err := historyRepo.GetByID(context.Background(), "up-2")
	require.NoError(t, err)
	assert.Equal(t, "a cat", record["caption"])
}

func TestUploadService_RecordUploadWithoutBroker(t *testing.T) {
	repo := new(MockUploadRepository)
	historyRepo := repositories.NewMemoryHistoryRepository()
	svc := services.NewUploadService(repo, nil, services.NewHistoryService(historyRepo, quietLogger()), quietLogger())

	stubCreate(repo, "up-3")
	_, err := svc.RecordUpload("u1", "https://cdn/z.jpg", "image/png", "a bird")
	require.NoError(t, err)

	_, err = historyRepo.GetByID(context.Background(), "up-3")
	assert.NoError(t, err)
}

func TestUploadService_ListUserUploadsEmptyIsNotFound(t *testing.T) {
	repo := new(MockUploadRepository)
	svc := services.NewUploadService(repo, nil, nil, quietLogger())

	repo.On("ListByUser", "u1").Return([]models.Upload{}, nil).Once()
	_, err := svc.ListUserUploads("u1")
	assert.ErrorIs(t, err, services.ErrNotFound)

	repo.On("ListByUser", "u2").Return([]models.Upload{{ID: "a"}}, nil).Once()
	uploads, err := svc.ListUserUploads("u2")
	require.NoError(t, err)
	assert.Len(t, uploads, 1)
}

func TestUploadService_CaptionLookups(t *testing.T) {
	repo := new(MockUploadRepository)
	svc := services.NewUploadService(repo, nil, nil, quietLogger())

	repo.On("GetByID", "missing").Return(nil, repositories.ErrNotFound).Once()
	_, err := svc.GetCaption("missing")
	assert.ErrorIs(t, err, services.ErrNotFound)

	repo.On("Delete", "missing").Return(repositories.ErrNotFound).Once()
	assert.ErrorIs(t, svc.DeleteCaption("missing"), services.ErrNotFound)
}

func TestHistoryService_HandleUploadEvent(t *testing.T) {
	historyRepo := repositories.NewMemoryHistoryRepository()
	svc := services.NewHistoryService(historyRepo, quietLogger())

	body, _ := json.Marshal(models.UploadEvent{UploadID: "up-9", Caption: "boats"})
	require.NoError(t, svc.HandleUploadEvent(body))
	// Redelivery of the same event is ignored
	require.NoError(t, svc.HandleUploadEvent(body))

	records, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)

	record, err := svc.Get(context.Background(), "up-9")
	require.NoError(t, err)
	assert.Equal(t, "boats", record["caption"])

	missing, err := svc.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	assert.Error(t, svc.HandleUploadEvent([]byte("not json")))
	assert.Error(t, svc.HandleUploadEvent([]byte(`{"caption":"no id"}`)))
}
