package services_test

import (
	"context"
	"io"

	"visualcaption/internal/models"
	"visualcaption/internal/repositories"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Exists(id string) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) List(filter repositories.UserFilter) ([]models.User, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) SetActive(id string, active bool) error {
	return m.Called(id, active).Error(0)
}

func (m *MockUserRepository) Delete(id string) error {
	return m.Called(id).Error(0)
}

func (m *MockUserRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockFeedbackRepository is a mock implementation of repositories.FeedbackRepository
type MockFeedbackRepository struct {
	mock.Mock
}

func (m *MockFeedbackRepository) Create(feedback *models.Feedback) error {
	return m.Called(feedback).Error(0)
}

func (m *MockFeedbackRepository) GetByID(id string) (*models.Feedback, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) ListByUser(userID string) ([]models.Feedback, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) List(filter repositories.FeedbackFilter) ([]models.Feedback, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.Feedback), args.Error(1)
}

func (m *MockFeedbackRepository) SetResponse(id, response string) error {
	return m.Called(id, response).Error(0)
}

func (m *MockFeedbackRepository) MarkResolved(id string) error {
	return m.Called(id).Error(0)
}

func (m *MockFeedbackRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockUploadRepository is a mock implementation of repositories.UploadRepository
type MockUploadRepository struct {
	mock.Mock
}

func (m *MockUploadRepository) Create(upload *models.Upload) error {
	return m.Called(upload).Error(0)
}

func (m *MockUploadRepository) GetByID(id string) (*models.Upload, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Upload), args.Error(1)
}

func (m *MockUploadRepository) ListByUser(userID string) ([]models.Upload, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.Upload), args.Error(1)
}

func (m *MockUploadRepository) List(filter repositories.CaptionFilter) ([]models.Upload, error) {
	args := m.Called(filter)
	return args.Get(0).([]models.Upload), args.Error(1)
}

func (m *MockUploadRepository) Delete(id string) error {
	return m.Called(id).Error(0)
}

func (m *MockUploadRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

type MockOTPStore struct {
	mock.Mock
}

func (m *MockOTPStore) Issue(email string) (string, error) {
	args := m.Called(email)
	return args.String(0), args.Error(1)
}

func (m *MockOTPStore) Verify(email, code string) bool {
	return m.Called(email, code).Bool(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendOTP(to, code string) error {
	return m.Called(to, code).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishUploadRecorded(event models.UploadEvent) error {
	return m.Called(event).Error(0)
}

type MockCaptioner struct {
	mock.Mock
}

func (m *MockCaptioner) Caption(ctx context.Context, image []byte) (string, error) {
	args := m.Called(ctx, image)
	return args.String(0), args.Error(1)
}

type MockDescriber struct {
	mock.Mock
}

func (m *MockDescriber) DescribeDestination(ctx context.Context, image []byte) (string, error) {
	args := m.Called(ctx, image)
	return args.String(0), args.Error(1)
}

type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}
