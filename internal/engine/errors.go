package engine

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/database"
)

var (
	// ErrNotFound is returned when an id does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the actor may not perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredential is returned on a password mismatch.
	ErrInvalidCredential = errors.New("invalid credentials")
	// ErrInvalidOrExpiredCode is returned when a confirmation code is missing or wrong.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	// ErrCodeExpired is returned when a confirmation code is past its validity window.
	ErrCodeExpired = fmt.Errorf("%w: code expired", ErrInvalidOrExpiredCode)
	// ErrInvalidToken is returned for bad or expired e-mail links.
	ErrInvalidToken = errors.New("invalid or expired link")
	// ErrEmailNotVerified is returned on login before the e-mail address is confirmed.
	ErrEmailNotVerified = errors.New("email not verified")
	// ErrUsernameChangeTooSoon is returned when the username was changed within the cooldown.
	ErrUsernameChangeTooSoon = errors.New("username changed too recently")
	// ErrMailDelivery is returned when a mail could not be sent. The operation itself went through.
	ErrMailDelivery = errors.New("mail delivery failed")

	ErrCapacityExceeded  = errors.New("tournament is full")
	ErrTournamentClosed  = errors.New("tournament has already started")
	ErrAlreadyRegistered = errors.New("already registered for this tournament")
	ErrNotRegistered     = errors.New("not registered for this tournament")
)

// ValidationError carries per-field messages for malformed input.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns a ValidationError for a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// UsernameCooldownError reports how long the user has to wait before changing the username again.
type UsernameCooldownError struct {
	DaysLeft int
}

func (e *UsernameCooldownError) Error() string {
	return fmt.Sprintf("username can be changed again in %d days", e.DaysLeft)
}

func (e *UsernameCooldownError) Is(target error) bool {
	return target == ErrUsernameChangeTooSoon
}

// storeError maps store errors onto the engine's errors.
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, database.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, database.ErrTournamentFull):
		return ErrCapacityExceeded
	case errors.Is(err, database.ErrTournamentStarted):
		return ErrTournamentClosed
	case errors.Is(err, database.ErrAlreadyRegistered):
		return ErrAlreadyRegistered
	case errors.Is(err, database.ErrNotRegistered):
		return ErrNotRegistered
	default:
		return err
	}
}

func mailError(err error) error {
	return fmt.Errorf("%w: %v", ErrMailDelivery, err)
}
