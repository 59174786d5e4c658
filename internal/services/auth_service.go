package services

import (
	"errors"
	"fmt"
	"time"

	"visualcaption/internal/models"
	"visualcaption/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is the lifetime of an issued access token.
const DefaultTokenTTL = 24 * time.Hour

const invalidCredentials = "Invalid credentials"

// Mailer delivers one-time passwords.
type Mailer interface {
	SendOTP(to, code string) error
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo  repositories.UserRepository
	otpStore  OTPStore
	mailer    Mailer
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *logrus.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo repositories.UserRepository,
	otpStore OTPStore,
	mailer Mailer,
	jwtSecret string,
	tokenTTL time.Duration,
	logger *logrus.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &AuthService{
		userRepo:  userRepo,
		otpStore:  otpStore,
		mailer:    mailer,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
	}
}

// RegisterUser creates an account whose username is the email, then sends an OTP.
// A failed OTP delivery does not undo the registration.
func (s *AuthService) RegisterUser(email, password string) error {
	existing, err := s.userRepo.GetByEmail(email)
	if err == nil && existing != nil {
		return newError(ErrConflict, "Email already registered.")
	}
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		Username: email,
		Password: string(hashedPassword),
		IsActive: true,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return newError(ErrConflict, "Email already registered.")
		}
		return fmt.Errorf("failed to register user: %w", err)
	}

	if err := s.SendOTP(email); err != nil {
		s.logger.WithError(err).WithField("email", email).Warn("registered user but could not deliver otp")
	}
	return nil
}

// SendOTP issues a fresh code for the email and mails it.
func (s *AuthService) SendOTP(email string) error {
	code, err := s.otpStore.Issue(email)
	if err != nil {
		return fmt.Errorf("failed to issue otp: %w", err)
	}
	if err := s.mailer.SendOTP(email, code); err != nil {
		return wrapError(ErrUpstream, "Failed to send OTP email", err)
	}
	s.logger.WithField("email", email).Info("otp sent")
	return nil
}

// VerifyOTP consumes the pending code. The error does not reveal whether the email is known.
func (s *AuthService) VerifyOTP(email, code string) error {
	if !s.otpStore.Verify(email, code) {
		return newError(ErrBadRequest, "Invalid OTP.")
	}
	return nil
}

// LoginUser authenticates a user and returns a signed token.
func (s *AuthService) LoginUser(email, password string) (string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", newError(ErrUnauthorized, invalidCredentials)
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", newError(ErrUnauthorized, invalidCredentials)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID,
		"exp": time.Now().Add(s.tokenTTL).Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses an HS256 token and returns the user ID from its subject.
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", wrapError(ErrUnauthorized, "Invalid or expired token", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", newError(ErrUnauthorized, "Invalid or expired token")
	}
	return subject, nil
}
