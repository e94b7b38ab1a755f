package seed

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/config"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newDB(t *testing.T) *database.Client {
	t.Helper()
	db, err := database.New(&config.DatabaseConfig{Driver: config.DatabaseDriverSQLite, Path: filepath.Join(t.TempDir(), "seed.db")})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestTournamentBounds(t *testing.T) {
	g := New(42, func() time.Time { return fixedNow })
	for range 200 {
		tr := g.Tournament()
		require.NotNil(t, tr.EndDate)

		offset := tr.StartDate.Sub(fixedNow)
		assert.LessOrEqual(t, offset, startWindow*24*time.Hour)
		assert.GreaterOrEqual(t, offset, -(startWindow+1)*24*time.Hour)

		length := tr.EndDate.Sub(tr.StartDate)
		assert.GreaterOrEqual(t, length, 24*time.Hour)
		assert.LessOrEqual(t, length, 72*time.Hour)

		assert.Contains(t, MaxPlayerOptions, tr.MaxPlayers)
		assert.NotEmpty(t, tr.Title)
		assert.LessOrEqual(t, len([]rune(tr.Title)), 120)
		assert.NotEmpty(t, tr.Location)
	}
}

func TestPost(t *testing.T) {
	g := New(7, func() time.Time { return fixedNow })
	p := g.Post(3)
	assert.Equal(t, uint(3), p.UserID)
	assert.NotEmpty(t, p.Title)
	assert.LessOrEqual(t, len([]rune(p.Title)), 100)
	assert.Contains(t, p.Content, "<p>")
	assert.False(t, p.DatePosted.After(fixedNow))
}

func TestSameSeedSameOutput(t *testing.T) {
	a := New(99, func() time.Time { return fixedNow }).Tournament()
	b := New(99, func() time.Time { return fixedNow }).Tournament()
	assert.Equal(t, a.Title, b.Title)
	assert.Equal(t, a.StartDate, b.StartDate)
	assert.Equal(t, a.MaxPlayers, b.MaxPlayers)
}

func TestGeneratePostsNeedsAdmin(t *testing.T) {
	ctx := context.Background()
	db := newDB(t)
	g := New(1, func() time.Time { return fixedNow })

	n, err := g.GeneratePosts(ctx, db, 3)
	require.ErrorIs(t, err, ErrNoAuthor)
	assert.Zero(t, n)

	admin := &database.User{Username: "admin", Email: "admin@ipba.pl", PasswordHash: "x", FirstName: "Ad", LastName: "Min", IsAdmin: true}
	require.NoError(t, db.CreateUser(ctx, admin))

	n, err = g.GeneratePosts(ctx, db, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	count, err := db.Count(ctx, &database.Post{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestGenerateTournaments(t *testing.T) {
	ctx := context.Background()
	db := newDB(t)

	n, err := New(1, nil).GenerateTournaments(ctx, db, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	removed, err := db.DeleteAllTournaments(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), removed)
}
