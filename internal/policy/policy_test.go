package policy

import (
	"testing"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/database"
	"github.com/stretchr/testify/assert"
)

func TestPolicies(t *testing.T) {
	member := &database.User{ID: 1}
	admin := &database.User{ID: 2, IsAdmin: true}

	tests := []struct {
		name   string
		policy Policy
		user   *database.User
		want   error
	}{
		{"authenticated anonymous", Authenticated, nil, ErrUnauthenticated},
		{"authenticated member", Authenticated, member, nil},
		{"admin anonymous", Admin, nil, ErrUnauthenticated},
		{"admin member", Admin, member, ErrNotAdmin},
		{"admin admin", Admin, admin, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.policy.Check(tt.user), tt.want)
		})
	}
}

func TestEngineCheck(t *testing.T) {
	e := NewEngine()
	assert.NoError(t, e.Check(nil))

	e.SetPolicies(Authenticated, Admin)
	assert.ErrorIs(t, e.Check(nil), ErrUnauthenticated)
	assert.ErrorIs(t, e.Check(&database.User{ID: 1}), ErrNotAdmin)
	assert.NoError(t, e.Check(&database.User{ID: 1, IsAdmin: true}))

	banned := Func(func(u *database.User) error {
		if u != nil && u.Username == "spam" {
			return assert.AnError
		}
		return nil
	})
	e.SetPolicies(Authenticated, banned)
	assert.ErrorIs(t, e.Check(&database.User{Username: "spam"}), assert.AnError)
}
