package services_test

import (
	"fmt"
	"testing"
	"time"

	"visualcaption/internal/models"
	"visualcaption/internal/repositories"
	"visualcaption/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFeedbackService_CreateFeedback(t *testing.T) {
	userRepo := new(MockUserRepository)
	feedbackRepo := new(MockFeedbackRepository)
	svc := services.NewFeedbackService(userRepo, feedbackRepo)

	userRepo.On("Exists", "u1").Return(true, nil).Once()
	feedbackRepo.On("Create", mock.AnythingOfType("*models.Feedback")).Run(func(args mock.Arguments) {
		f := args.Get(0).(*models.Feedback)
		f.ID = "f1"
		f.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}).Return(nil).Once()

	out, err := svc.CreateFeedback("u1", "great app", 5)
	require.NoError(t, err)
	assert.Equal(t, "f1", out.FeedbackID)
	assert.Equal(t, "great app", out.Content)
	assert.Equal(t, 5, out.Rating)
	userRepo.AssertExpectations(t)
	feedbackRepo.AssertExpectations(t)
}

func TestFeedbackService_CreateFeedbackRejectsRatingBeforeStore(t *testing.T) {
	userRepo := new(MockUserRepository)
	feedbackRepo := new(MockFeedbackRepository)
	svc := services.NewFeedbackService(userRepo, feedbackRepo)

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.CreateFeedback("u1", "x", rating)
		assert.ErrorIs(t, err, services.ErrBadRequest, "rating %d", rating)
	}
	userRepo.AssertNotCalled(t, "Exists", mock.Anything)
	feedbackRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestFeedbackService_CreateFeedbackMissingUser(t *testing.T) {
	userRepo := new(MockUserRepository)
	feedbackRepo := new(MockFeedbackRepository)
	svc := services.NewFeedbackService(userRepo, feedbackRepo)

	userRepo.On("Exists", "ghost").Return(false, nil).Once()
	_, err := svc.CreateFeedback("ghost", "hello", 3)
	assert.ErrorIs(t, err, services.ErrNotFound)
	feedbackRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestFeedbackService_CreateFeedbackConstraint(t *testing.T) {
	userRepo := new(MockUserRepository)
	feedbackRepo := new(MockFeedbackRepository)
	svc := services.NewFeedbackService(userRepo, feedbackRepo)

	userRepo.On("Exists", "u1").Return(true, nil).Once()
	feedbackRepo.On("Create", mock.Anything).Return(fmt.Errorf("failed to create feedback: %w", repositories.ErrConstraint)).Once()
	_, err := svc.CreateFeedback("u1", "hello", 3)
	assert.ErrorIs(t, err, services.ErrBadRequest)
}

func TestFeedbackService_ListUserFeedback(t *testing.T) {
	userRepo := new(MockUserRepository)
	feedbackRepo := new(MockFeedbackRepository)
	svc := services.NewFeedbackService(userRepo, feedbackRepo)

	// Empty list is not an error
	userRepo.On("Exists", "u1").Return(true, nil).Once()
	feedbackRepo.On("ListByUser", "u1").Return([]models.Feedback{}, nil).Once()
	out, err := svc.ListUserFeedback("u1")
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)

	userRepo.On("Exists", "ghost").Return(false, nil).Once()
	_, err = svc.ListUserFeedback("ghost")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
