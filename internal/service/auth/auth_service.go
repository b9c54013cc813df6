package auth

import (
	"fmt"
	"time"

	apperrors "epc-api/pkg/errors"
	"epc-api/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// SessionTTL is how long an issued admin session stays valid
const SessionTTL = 12 * time.Hour

// Service issues and verifies admin sessions. The admin password is stored
// as a bcrypt hash and compared with constant-time bcrypt verification; a
// successful login yields a signed session token. There is no plaintext
// password comparison and no hardcoded fallback credential.
type Service struct {
	passwordHash []byte
	jwtSecret    []byte
	logger       *logger.Logger
	now          func() time.Time
}

// NewService creates a new admin auth service
func NewService(passwordHash, jwtSecret string, logger *logger.Logger) *Service {
	return &Service{
		passwordHash: []byte(passwordHash),
		jwtSecret:    []byte(jwtSecret),
		logger:       logger,
		now:          time.Now,
	}
}

// Configured reports whether both the password hash and signing secret are set
func (s *Service) Configured() bool {
	return len(s.passwordHash) > 0 && len(s.jwtSecret) > 0
}

// Login verifies the password against the stored hash and issues a session
// token valid for SessionTTL
func (s *Service) Login(password string) (string, error) {
	if !s.Configured() {
		return "", apperrors.NewInternalError("admin access is not configured", nil)
	}

	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		s.logger.Warn("Admin login rejected")
		return "", apperrors.NewAuthenticationError("invalid credentials")
	}

	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", apperrors.NewInternalError("failed to sign session token", err)
	}

	s.logger.Info("Admin session issued")
	return token, nil
}

// Verify parses and validates a session token
func (s *Service) Verify(tokenString string) error {
	if !s.Configured() {
		return apperrors.NewInternalError("admin access is not configured", nil)
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return apperrors.NewAuthenticationError("invalid or expired session")
	}

	return nil
}
