// Package seed generates fake posts and tournaments for development databases.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/database"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/charmbracelet/log"
)

// ErrNoAuthor is returned when posts are generated before any administrator exists.
var ErrNoAuthor = errors.New("no administrator found to author the posts, run init-admin first")

// MaxPlayerOptions are the capacities generated tournaments pick from.
var MaxPlayerOptions = []int{16, 32, 64}

// startWindow bounds how far generated tournaments start from now, in both directions.
const startWindow = 60

type Generator struct {
	faker *gofakeit.Faker
	now   func() time.Time
}

// New returns a Generator. A seed of 0 picks a random one.
func New(seed uint64, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{
		faker: gofakeit.New(seed),
		now:   now,
	}
}

// Post returns an unsaved post written by authorID.
func (g *Generator) Post(authorID uint) *database.Post {
	title := strings.TrimSuffix(g.faker.LoremIpsumSentence(g.faker.IntRange(3, 7)), ".")
	paragraphs := g.faker.IntRange(1, 4)
	content := make([]string, 0, paragraphs)
	for range paragraphs {
		content = append(content, "<p>"+g.faker.LoremIpsumParagraph(1, g.faker.IntRange(2, 5), 12, "")+"</p>")
	}
	return &database.Post{
		Title:      truncate(title, 100),
		Content:    strings.Join(content, "\n"),
		UserID:     authorID,
		DatePosted: g.now().UTC().Add(-time.Duration(g.faker.IntRange(0, startWindow*24)) * time.Hour),
	}
}

// Tournament returns an unsaved tournament starting within startWindow days of now
// and ending one to three days after it starts.
func (g *Generator) Tournament() *database.Tournament {
	day := time.Duration(g.faker.IntRange(-startWindow, startWindow)) * 24 * time.Hour
	start := g.now().UTC().Truncate(24 * time.Hour).Add(day)
	end := start.Add(time.Duration(g.faker.IntRange(1, 3)) * 24 * time.Hour)
	city := g.faker.City()
	return &database.Tournament{
		Title:       truncate(fmt.Sprintf("%s Badminton Open %d", city, start.Year()), 120),
		Description: g.faker.LoremIpsumParagraph(1, 3, 10, ""),
		Location:    truncate(city, 100),
		StartDate:   start,
		EndDate:     &end,
		MaxPlayers:  g.faker.RandomInt(MaxPlayerOptions),
	}
}

// GeneratePosts stores n fake posts authored by the first administrator.
func (g *Generator) GeneratePosts(ctx context.Context, db database.DB, n int) (int, error) {
	users, err := db.ListUsers(ctx)
	if err != nil {
		return 0, err
	}
	var author *database.User
	for i := range users {
		if users[i].IsAdmin {
			author = &users[i]
			break
		}
	}
	if author == nil {
		return 0, ErrNoAuthor
	}

	for i := range n {
		if err := db.CreatePost(ctx, g.Post(author.ID)); err != nil {
			return i, fmt.Errorf("failed to create post %d: %w", i+1, err)
		}
	}
	log.Info("generated posts", "count", n, "author", author.Username)
	return n, nil
}

// GenerateTournaments stores n fake tournaments.
func (g *Generator) GenerateTournaments(ctx context.Context, db database.DB, n int) (int, error) {
	for i := range n {
		if err := db.CreateTournament(ctx, g.Tournament()); err != nil {
			return i, fmt.Errorf("failed to create tournament %d: %w", i+1, err)
		}
	}
	log.Info("generated tournaments", "count", n)
	return n, nil
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
