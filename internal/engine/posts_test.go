package engine

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/database"
)

func pngUpload(name string) *Upload {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 32))); err != nil {
		panic(err)
	}
	return &Upload{Filename: name, Body: &buf}
}

func (s *EngineTestSuite) uploaded(key string) bool {
	_, err := os.Stat(filepath.Join(s.uploads, filepath.FromSlash(key)))
	return err == nil
}

func (s *EngineTestSuite) TestCreatePostSanitizes() {
	admin := s.createAdmin("admin")

	post, err := s.engine.CreatePost(s.ctx, admin, PostInput{
		Title:   "<i>Results</i>",
		Content: `<p>Final <b>score</b></p><script>alert(1)</script><a href="https://ipba.pl" onclick="x()">link</a>`,
	})
	s.Require().NoError(err)
	s.Equal("Results", post.Title)
	s.Equal(`<p>Final <b>score</b></p><a href="https://ipba.pl">link</a>`, post.Content)
	s.Equal(database.DefaultImage, post.ImageFile)
	s.Equal("admin", post.Author.Username)

	var verr *ValidationError
	_, err = s.engine.CreatePost(s.ctx, admin, PostInput{Title: "<b></b>", Content: "x"})
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "title")
}

func (s *EngineTestSuite) TestPostImageLifecycle() {
	admin := s.createAdmin("admin")

	_, err := s.engine.CreatePost(s.ctx, admin, PostInput{Title: "t", Content: "c", Image: &Upload{Filename: "x.gif", Body: strings.NewReader("GIF89a")}})
	var verr *ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "image")

	post, err := s.engine.CreatePost(s.ctx, admin, PostInput{Title: "t", Content: "c", Image: pngUpload("Court Photo.png")})
	s.Require().NoError(err)
	s.True(strings.HasPrefix(post.ImageFile, "posts/court-photo-"))
	s.True(s.uploaded(post.ImageFile))
	first := post.ImageFile

	post, err = s.engine.UpdatePost(s.ctx, post.ID, PostInput{Title: "t2", Content: "c2", Image: pngUpload("new.png")})
	s.Require().NoError(err)
	s.NotEqual(first, post.ImageFile)
	s.False(s.uploaded(first))
	s.True(s.uploaded(post.ImageFile))

	// keeping the image when none is uploaded
	post, err = s.engine.UpdatePost(s.ctx, post.ID, PostInput{Title: "t3", Content: "c3"})
	s.Require().NoError(err)
	s.True(s.uploaded(post.ImageFile))
	s.Equal("t3", post.Title)

	s.Require().NoError(s.engine.DeletePost(s.ctx, post.ID))
	s.False(s.uploaded(post.ImageFile))
	s.ErrorIs(s.engine.DeletePost(s.ctx, post.ID), ErrNotFound)
	_, err = s.engine.GetPost(s.ctx, post.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *EngineTestSuite) TestListPostsPagination() {
	admin := s.createAdmin("admin")
	for range 10 {
		_, err := s.engine.CreatePost(s.ctx, admin, PostInput{Title: "t", Content: "c"})
		s.Require().NoError(err)
		s.now = s.now.Add(time.Minute)
	}

	page, err := s.engine.ListPosts(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(page.Items, 9)
	s.True(page.HasNext())
	s.True(page.Items[0].DatePosted.After(page.Items[1].DatePosted))

	page, err = s.engine.ListPosts(s.ctx, 2)
	s.Require().NoError(err)
	s.Len(page.Items, 1)
	s.False(page.HasNext())
}

func (s *EngineTestSuite) TestTournamentCRUD() {
	var verr *ValidationError
	_, err := s.engine.CreateTournament(s.ctx, TournamentInput{Title: "", StartDate: "14.07.2025", MaxPlayers: 0})
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "title")
	s.Contains(verr.Fields, "start_date")
	s.Contains(verr.Fields, "max_players")

	_, err = s.engine.CreateTournament(s.ctx, TournamentInput{Title: "Open", StartDate: "2025-07-14", EndDate: "2025-07-13", MaxPlayers: 16})
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "end_date")

	t, err := s.engine.CreateTournament(s.ctx, TournamentInput{
		Title:       "Open",
		Description: "<p>Singles</p>",
		Location:    "Łódź",
		StartDate:   "2025-07-14",
		EndDate:     "2025-07-15",
		MaxPlayers:  16,
		Banner:      pngUpload("banner.png"),
	})
	s.Require().NoError(err)
	s.Equal(time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC), t.StartDate)
	s.Require().NotNil(t.EndDate)
	s.True(strings.HasPrefix(t.BannerImage, "tournaments/banner-"))

	a := s.createUser("alice")
	b := s.createUser("bob")
	s.Require().NoError(s.engine.Register(s.ctx, a, t.ID))
	s.Require().NoError(s.engine.Register(s.ctx, b, t.ID))

	// lowering the limit keeps existing registrations
	t, err = s.engine.UpdateTournament(s.ctx, t.ID, TournamentInput{Title: "Open", StartDate: "2025-07-14", MaxPlayers: 1})
	s.Require().NoError(err)
	s.Nil(t.EndDate)
	n, err := s.db.CountRegistrations(s.ctx, t.ID)
	s.Require().NoError(err)
	s.EqualValues(2, n)
	s.ErrorIs(s.engine.Register(s.ctx, s.createUser("carol"), t.ID), ErrCapacityExceeded)

	_, err = s.engine.RecordWinner(s.ctx, t.ID, a.ID, 1)
	s.Require().NoError(err)

	s.Require().NoError(s.engine.DeleteTournament(s.ctx, t.ID))
	s.False(s.uploaded(t.BannerImage))
	s.EqualValues(0, s.count(&database.Registration{}))
	s.EqualValues(0, s.count(&database.Winner{}))
	s.ErrorIs(s.engine.DeleteTournament(s.ctx, t.ID), ErrNotFound)
}
