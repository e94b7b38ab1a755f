package challenge

import (
	"context"
	"testing"
	"time"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/cache"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCode(t *testing.T) {
	for range 200 {
		code, err := NewCode()
		require.NoError(t, err)
		assert.Regexp(t, `^[0-9]{6}$`, code)
	}
}

func TestChallengeExpired(t *testing.T) {
	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := Challenge{Code: "123456", IssuedAt: issued, Purpose: PurposeDeleteAccount}

	tests := []struct {
		name    string
		elapsed time.Duration
		expired bool
	}{
		{"just issued", 0, false},
		{"nine minutes", 9 * time.Minute, false},
		{"exactly ten minutes", 10 * time.Minute, false},
		{"ten minutes and a second", 10*time.Minute + time.Second, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, c.Expired(issued.Add(tt.elapsed), DefaultTTL))
		})
	}
}

func TestChallengeMatches(t *testing.T) {
	c := Challenge{Code: "012345"}
	assert.True(t, c.Matches("012345"))
	assert.False(t, c.Matches("12345"))
	assert.False(t, c.Matches(""))
}

func TestStore(t *testing.T) {
	mr := miniredis.RunT(t)
	backends := map[string]*config.CacheConfig{
		"memory": {Type: config.CacheTypeMemory},
		"redis":  {Type: config.CacheTypeRedis, RedisURL: mr.Addr()},
	}

	for name, cfg := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
			store := NewStore(cache.New(cfg), 0)
			assert.Equal(t, DefaultTTL, store.TTL())

			_, err := store.Get(ctx, "sid-"+name, PurposeDeleteAccount)
			assert.ErrorIs(t, err, ErrNoChallenge)

			first, err := store.Issue(ctx, "sid-"+name, PurposeDeleteAccount, now)
			require.NoError(t, err)

			second, err := store.Issue(ctx, "sid-"+name, PurposeDeleteAccount, now.Add(time.Minute))
			require.NoError(t, err)

			got, err := store.Get(ctx, "sid-"+name, PurposeDeleteAccount)
			require.NoError(t, err)
			assert.Equal(t, second.Code, got.Code)
			assert.True(t, got.IssuedAt.Equal(now.Add(time.Minute)))
			if first.Code != second.Code {
				assert.False(t, got.Matches(first.Code))
			}

			_, err = store.Get(ctx, "other-session", PurposeDeleteAccount)
			assert.ErrorIs(t, err, ErrNoChallenge)

			require.NoError(t, store.Clear(ctx, "sid-"+name, PurposeDeleteAccount))
			_, err = store.Get(ctx, "sid-"+name, PurposeDeleteAccount)
			assert.ErrorIs(t, err, ErrNoChallenge)
		})
	}
}
