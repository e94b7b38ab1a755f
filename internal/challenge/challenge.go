// Package challenge implements short-lived numeric codes sent out-of-band to confirm
// sensitive actions such as deleting an account.
package challenge

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/cache"
	eko "github.com/eko/gocache/lib/v4/cache"
)

// PurposeDeleteAccount guards self-service account deletion.
const PurposeDeleteAccount = "delete-account"

// DefaultTTL is how long a code stays valid.
const DefaultTTL = 10 * time.Minute

// ErrNoChallenge is returned when no code is pending for the session.
var ErrNoChallenge = errors.New("no pending challenge")

// Challenge is a code issued at a point in time for one purpose.
type Challenge struct {
	Code     string    `json:"code"`
	IssuedAt time.Time `json:"issued_at"`
	Purpose  string    `json:"purpose"`
}

// Expired reports whether more than ttl has passed since the code was issued.
func (c Challenge) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(c.IssuedAt) > ttl
}

// Matches compares code in constant time.
func (c Challenge) Matches(code string) bool {
	return subtle.ConstantTimeCompare([]byte(c.Code), []byte(code)) == 1
}

// NewCode returns a zero padded random six digit code.
func NewCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Store keeps at most one challenge per (session, purpose). Issuing again overwrites the previous code.
type Store struct {
	cache *cache.PrefixedCache[Challenge]
	ttl   time.Duration
}

// NewStore returns a Store on top of c.
func NewStore(c *eko.Cache[string], ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		cache: cache.NewPrefixedCache[Challenge](c, "challenge-"),
		ttl:   ttl,
	}
}

// TTL returns the validity window of issued codes.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Issue creates a fresh challenge for the session and purpose.
func (s *Store) Issue(ctx context.Context, sessionID, purpose string, now time.Time) (Challenge, error) {
	code, err := NewCode()
	if err != nil {
		return Challenge{}, err
	}
	c := Challenge{Code: code, IssuedAt: now.UTC(), Purpose: purpose}
	// keep the entry a little longer than its validity so an expired code is reported as expired
	if err := s.cache.Set(ctx, storeKey(sessionID, purpose), c, 2*s.ttl); err != nil {
		return Challenge{}, fmt.Errorf("failed to store challenge: %w", err)
	}
	return c, nil
}

// Get returns the pending challenge or ErrNoChallenge.
func (s *Store) Get(ctx context.Context, sessionID, purpose string) (Challenge, error) {
	c, err := s.cache.Get(ctx, storeKey(sessionID, purpose))
	if err != nil || c.Purpose != purpose || c.Code == "" {
		return Challenge{}, ErrNoChallenge
	}
	return c, nil
}

// Clear drops the pending challenge.
func (s *Store) Clear(ctx context.Context, sessionID, purpose string) error {
	return s.cache.Delete(ctx, storeKey(sessionID, purpose))
}

func storeKey(sessionID, purpose string) string {
	return purpose + ":" + sessionID
}
