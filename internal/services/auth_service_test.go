package services_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"visualcaption/internal/models"
	"visualcaption/internal/repositories"
	"visualcaption/internal/services"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

func newAuthService(repo *MockUserRepository, store *MockOTPStore, mailer *MockMailer) *services.AuthService {
	return services.NewAuthService(repo, store, mailer, testJWTSecret, 0, quietLogger())
}

func TestAuthService_RegisterUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockStore := new(MockOTPStore)
	mockMailer := new(MockMailer)
	authService := newAuthService(mockRepo, mockStore, mockMailer)

	email := "test@example.com"
	notFound := fmt.Errorf("user with email %s: %w", email, repositories.ErrNotFound)

	// Test successful registration
	mockRepo.On("GetByEmail", email).Return(nil, notFound).Once()
	mockRepo.On("Create", mock.MatchedBy(func(u *models.User) bool {
		return u.Email == email &&
			u.Username == email &&
			u.IsActive &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("password123")) == nil
	})).Return(nil).Once()
	mockStore.On("Issue", email).Return("123456", nil).Once()
	mockMailer.On("SendOTP", email, "123456").Return(nil).Once()

	err := authService.RegisterUser(email, "password123")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockStore.AssertExpectations(t)
	mockMailer.AssertExpectations(t)

	// Test email already registered
	mockRepo.On("GetByEmail", email).Return(&models.User{ID: "1", Email: email}, nil).Once()
	err = authService.RegisterUser(email, "password123")
	assert.ErrorIs(t, err, services.ErrConflict)
	mockRepo.AssertExpectations(t)

	// Test duplicate caught by the unique index
	mockRepo.On("GetByEmail", email).Return(nil, notFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).
		Return(fmt.Errorf("failed to create user: %w", repositories.ErrDuplicate)).Once()
	err = authService.RegisterUser(email, "password123")
	assert.ErrorIs(t, err, services.ErrConflict)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUserSurvivesMailFailure(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockStore := new(MockOTPStore)
	mockMailer := new(MockMailer)
	authService := newAuthService(mockRepo, mockStore, mockMailer)

	mockRepo.On("GetByEmail", "a@b.c").Return(nil, repositories.ErrNotFound).Once()
	mockRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil).Once()
	mockStore.On("Issue", "a@b.c").Return("654321", nil).Once()
	mockMailer.On("SendOTP", "a@b.c", "654321").Return(errors.New("smtp down")).Once()

	assert.NoError(t, authService.RegisterUser("a@b.c", "pw"))
	mockMailer.AssertExpectations(t)
}

func TestAuthService_SendOTP(t *testing.T) {
	mockStore := new(MockOTPStore)
	mockMailer := new(MockMailer)
	authService := newAuthService(new(MockUserRepository), mockStore, mockMailer)

	mockStore.On("Issue", "x@y.z").Return("111111", nil).Once()
	mockMailer.On("SendOTP", "x@y.z", "111111").Return(nil).Once()
	assert.NoError(t, authService.SendOTP("x@y.z"))

	mockStore.On("Issue", "x@y.z").Return("222222", nil).Once()
	mockMailer.On("SendOTP", "x@y.z", "222222").Return(errors.New("smtp down")).Once()
	err := authService.SendOTP("x@y.z")
	assert.ErrorIs(t, err, services.ErrUpstream)
}

func TestAuthService_VerifyOTP(t *testing.T) {
	mockStore := new(MockOTPStore)
	authService := newAuthService(new(MockUserRepository), mockStore, new(MockMailer))

	mockStore.On("Verify", "x@y.z", "123456").Return(true).Once()
	assert.NoError(t, authService.VerifyOTP("x@y.z", "123456"))

	mockStore.On("Verify", "x@y.z", "123456").Return(false).Once()
	err := authService.VerifyOTP("x@y.z", "123456")
	assert.ErrorIs(t, err, services.ErrBadRequest)
	assert.EqualError(t, err, "Invalid OTP.")
}

func TestAuthService_LoginUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo, new(MockOTPStore), new(MockMailer))

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{
		ID:       "3f1c9a52-6a1e-4f0e-9f2d-8f1a2b3c4d5e",
		Username: "test@example.com",
		Email:    "test@example.com",
		Password: string(hashedPassword),
	}

	// Test successful login
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	before := time.Now()
	token, err := authService.LoginUser(user.Email, "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Len(t, claims, 2)
	assert.Equal(t, user.ID, claims["sub"])
	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(24*time.Hour), exp.Time, 5*time.Second)
	mockRepo.AssertExpectations(t)

	// Test invalid credentials (wrong password)
	mockRepo.On("GetByEmail", user.Email).Return(user, nil).Once()
	_, wrongPassword := authService.LoginUser(user.Email, "wrongpassword")
	assert.ErrorIs(t, wrongPassword, services.ErrUnauthorized)

	// Test invalid credentials (user not found)
	mockRepo.On("GetByEmail", "nobody@example.com").Return(nil, repositories.ErrNotFound).Once()
	_, unknownUser := authService.LoginUser("nobody@example.com", "password123")
	assert.ErrorIs(t, unknownUser, services.ErrUnauthorized)

	// Both failures look the same to the client
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService := newAuthService(new(MockUserRepository), new(MockOTPStore), new(MockMailer))

	sign := func(method jwt.SigningMethod, claims jwt.MapClaims, secret string) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	// Test valid token
	valid := sign(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-123", "exp": time.Now().Add(time.Hour).Unix()}, testJWTSecret)
	userID, err := authService.ValidateToken(valid)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", userID)

	// Test garbage token
	_, err = authService.ValidateToken("invalid.token.string")
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	// Test wrong secret
	_, err = authService.ValidateToken(sign(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(time.Hour).Unix()}, "other"))
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	// Test expired token
	_, err = authService.ValidateToken(sign(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Hour).Unix()}, testJWTSecret))
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	// Test other HMAC algorithm
	_, err = authService.ValidateToken(sign(jwt.SigningMethodHS512, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(time.Hour).Unix()}, testJWTSecret))
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	// Test missing expiry
	_, err = authService.ValidateToken(sign(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u"}, testJWTSecret))
	assert.ErrorIs(t, err, services.ErrUnauthorized)
}
