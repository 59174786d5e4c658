package services

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"sync"
	"time"

	"visualcaption/internal/models"
	"visualcaption/internal/repositories"

	"github.com/sirupsen/logrus"
)

// DefaultOTPTTL is how long an issued code stays valid.
const DefaultOTPTTL = 5 * time.Minute

// OTPStore issues and checks one-time passwords keyed by email.
// Issuing replaces any pending code for the email; a successful Verify consumes it.
type OTPStore interface {
	Issue(email string) (string, error)
	Verify(email, code string) bool
}

// generateOTP returns a six digit code in [100000, 999999].
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

type otpEntry struct {
	code      string
	expiresAt time.Time
}

// MemoryOTPStore keeps codes in a mutex-guarded map.
type MemoryOTPStore struct {
	mu      sync.Mutex
	entries map[string]otpEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryOTPStore creates an in-process store whose codes expire after ttl.
func NewMemoryOTPStore(ttl time.Duration) *MemoryOTPStore {
	if ttl <= 0 {
		ttl = DefaultOTPTTL
	}
	return &MemoryOTPStore{
		entries: make(map[string]otpEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Issue generates a code for email, replacing any previous one.
func (s *MemoryOTPStore) Issue(email string) (string, error) {
	code, err := generateOTP()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email] = otpEntry{code: code, expiresAt: s.now().Add(s.ttl)}
	s.sweep()
	return code, nil
}

// Verify reports whether code matches the unexpired code for email and consumes it on success.
func (s *MemoryOTPStore) Verify(email, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[email]
	if !ok {
		return false
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.entries, email)
		return false
	}
	if subtle.ConstantTimeCompare([]byte(entry.code), []byte(code)) != 1 {
		return false
	}
	delete(s.entries, email)
	return true
}

// sweep drops expired entries. Caller holds mu.
func (s *MemoryOTPStore) sweep() {
	now := s.now()
	for email, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, email)
		}
	}
}

// RepositoryOTPStore keeps codes in the database so they survive restarts
// and are shared between replicas.
type RepositoryOTPStore struct {
	repo   repositories.OTPRepository
	ttl    time.Duration
	logger *logrus.Logger
	now    func() time.Time
}

// NewRepositoryOTPStore creates a store backed by the otp_codes table.
func NewRepositoryOTPStore(repo repositories.OTPRepository, ttl time.Duration, logger *logrus.Logger) *RepositoryOTPStore {
	if ttl <= 0 {
		ttl = DefaultOTPTTL
	}
	return &RepositoryOTPStore{repo: repo, ttl: ttl, logger: logger, now: time.Now}
}

// Issue generates a code for email and upserts it with a fresh expiry.
func (s *RepositoryOTPStore) Issue(email string) (string, error) {
	code, err := generateOTP()
	if err != nil {
		return "", err
	}
	entry := &models.OTPCode{Email: email, Code: code, ExpiresAt: s.now().Add(s.ttl).UTC()}
	if err := s.repo.Save(entry); err != nil {
		return "", err
	}
	return code, nil
}

// Verify consumes a matching unexpired code. Storage errors count as a mismatch.
func (s *RepositoryOTPStore) Verify(email, code string) bool {
	ok, err := s.repo.Consume(email, code, s.now().UTC())
	if err != nil {
		s.logger.WithError(err).WithField("email", email).Error("otp lookup failed")
		return false
	}
	return ok
}
