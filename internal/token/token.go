// Package token issues and verifies signed, purpose-bound, time-limited tokens
// used in e-mail verification and password reset links.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Purposes used by the site. Each one derives its own signing key.
const (
	PurposeEmailConfirm  = "email-confirm-salt"
	PurposePasswordReset = "password-reset-salt"
)

// DefaultMaxAge is the lifetime of verification and reset links.
const DefaultMaxAge = time.Hour

var (
	// ErrInvalid is returned for tokens that are malformed, tampered with, or bound to another purpose.
	ErrInvalid = errors.New("invalid token")
	// ErrExpired is returned for well-formed tokens older than the allowed max age.
	ErrExpired = errors.New("token expired")
)

// Service signs tokens with a key derived from the secret and the token purpose.
type Service struct {
	secret []byte
	now    func() time.Time
}

// New returns a Service using secret. now defaults to time.Now.
func New(secret string, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{secret: []byte(secret), now: now}
}

// Issue returns a token binding subject to purpose and the current time.
func (s *Service) Issue(subject, purpose string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  subject,
		Audience: jwt.ClaimStrings{purpose},
		IssuedAt: jwt.NewNumericDate(s.now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key(purpose))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the subject of token if it was issued for purpose no more than maxAge ago.
func (s *Service) Verify(token, purpose string, maxAge time.Duration) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(purpose),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)

	var claims jwt.RegisteredClaims
	_, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.key(purpose), nil
	})
	if err != nil {
		return "", ErrInvalid
	}
	if claims.IssuedAt == nil || claims.Subject == "" {
		return "", ErrInvalid
	}
	if s.now().Sub(claims.IssuedAt.Time) > maxAge {
		return "", ErrExpired
	}
	return claims.Subject, nil
}

func (s *Service) key(purpose string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte("token:" + purpose))
	return mac.Sum(nil)
}
