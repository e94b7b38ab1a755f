// Package policy decides which users may reach a group of routes.
package policy

import (
	"errors"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/database"
)

var (
	// ErrUnauthenticated is returned when no user is logged in.
	ErrUnauthenticated = errors.New("login required")
	// ErrNotAdmin is returned when the user lacks the administrator flag.
	ErrNotAdmin = errors.New("administrator required")
)

// Policy is a predicate over the current user. user is nil for anonymous visitors.
type Policy interface {
	Check(user *database.User) error
}

// Func adapts a plain function to Policy.
type Func func(user *database.User) error

func (f Func) Check(user *database.User) error {
	return f(user)
}

// Authenticated lets any logged in user through.
var Authenticated Policy = Func(func(user *database.User) error {
	if user == nil {
		return ErrUnauthenticated
	}
	return nil
})

// Admin lets only administrators through.
var Admin Policy = Func(func(user *database.User) error {
	if user == nil {
		return ErrUnauthenticated
	}
	if !user.IsAdmin {
		return ErrNotAdmin
	}
	return nil
})

// Engine checks a user against a set of policies.
type Engine struct {
	policies []Policy
}

// NewEngine creates a policy engine holding policies.
func NewEngine(policies ...Policy) *Engine {
	return &Engine{policies: policies}
}

// SetPolicies sets the policies for the engine, replacing any existing ones.
func (e *Engine) SetPolicies(policies ...Policy) {
	e.policies = policies
}

// Check returns the error of the first policy the user fails.
func (e *Engine) Check(user *database.User) error {
	for _, p := range e.policies {
		if err := p.Check(user); err != nil {
			return err
		}
	}
	return nil
}
