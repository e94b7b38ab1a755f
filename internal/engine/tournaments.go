package engine

import (
	"context"
	"strings"
	"time"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/database"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/media"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/sanitize"
	"github.com/charmbracelet/log"
)

// DateLayout is the format of tournament dates in forms and exports.
const DateLayout = "2006-01-02"

// TournamentInput holds the tournament form. Dates use DateLayout, EndDate may be empty.
type TournamentInput struct {
	Title       string
	Description string
	Location    string
	StartDate   string
	EndDate     string
	MaxPlayers  int
	Banner      *Upload
}

func (in TournamentInput) apply(t *database.Tournament) error {
	verr := &ValidationError{Fields: map[string]string{}}

	t.Title = sanitize.Text(in.Title)
	t.Description = sanitize.Content(in.Description)
	t.Location = sanitize.Text(in.Location)
	t.MaxPlayers = in.MaxPlayers

	if t.Title == "" {
		verr.Fields["title"] = "This field is required"
	}
	if t.MaxPlayers < 1 {
		verr.Fields["max_players"] = "Must be greater than 0"
	}

	start, err := time.Parse(DateLayout, strings.TrimSpace(in.StartDate))
	if err != nil {
		verr.Fields["start_date"] = "Use the YYYY-MM-DD format"
	} else {
		t.StartDate = start.UTC()
	}

	t.EndDate = nil
	if s := strings.TrimSpace(in.EndDate); s != "" {
		end, err := time.Parse(DateLayout, s)
		switch {
		case err != nil:
			verr.Fields["end_date"] = "Use the YYYY-MM-DD format"
		case !t.StartDate.IsZero() && end.Before(t.StartDate):
			verr.Fields["end_date"] = "End date cannot be before the start date"
		default:
			end = end.UTC()
			t.EndDate = &end
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// CreateTournament adds a tournament.
func (e *Engine) CreateTournament(ctx context.Context, in TournamentInput) (*database.Tournament, error) {
	t := &database.Tournament{BannerImage: database.DefaultImage}
	if err := in.apply(t); err != nil {
		return nil, err
	}
	if in.Banner != nil {
		key, err := e.saveImage(ctx, in.Banner, media.KindTournament, "banner")
		if err != nil {
			return nil, err
		}
		t.BannerImage = key
	}
	if err := e.db.CreateTournament(ctx, t); err != nil {
		e.media.Delete(ctx, t.BannerImage)
		return nil, err
	}
	log.Info("tournament created", "tournament", t.ID, "title", t.Title)
	return t, nil
}

// GetTournament returns a tournament by id.
func (e *Engine) GetTournament(ctx context.Context, id uint) (*database.Tournament, error) {
	t, err := e.db.GetTournament(ctx, id)
	return t, storeError(err)
}

// UpdateTournament edits a tournament. Lowering MaxPlayers never drops existing registrations.
func (e *Engine) UpdateTournament(ctx context.Context, id uint, in TournamentInput) (*database.Tournament, error) {
	t, err := e.db.GetTournament(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if err := in.apply(t); err != nil {
		return nil, err
	}
	oldBanner := t.BannerImage
	if in.Banner != nil {
		key, err := e.saveImage(ctx, in.Banner, media.KindTournament, "banner")
		if err != nil {
			return nil, err
		}
		t.BannerImage = key
	}
	if err := e.db.UpdateTournament(ctx, t); err != nil {
		return nil, err
	}
	if t.BannerImage != oldBanner {
		e.media.Delete(ctx, oldBanner)
	}
	return t, nil
}

// DeleteTournament removes a tournament, its registrations and winners.
func (e *Engine) DeleteTournament(ctx context.Context, id uint) error {
	t, err := e.db.GetTournament(ctx, id)
	if err != nil {
		return storeError(err)
	}
	if err := e.db.DeleteTournament(ctx, id); err != nil {
		return storeError(err)
	}
	e.media.Delete(ctx, t.BannerImage)
	log.Info("tournament deleted", "tournament", id, "title", t.Title)
	return nil
}

// ListTournaments returns every tournament for the admin list.
func (e *Engine) ListTournaments(ctx context.Context) ([]database.Tournament, error) {
	return e.db.ListTournaments(ctx)
}

// TournamentOverview is the public tournament list.
type TournamentOverview struct {
	Upcoming []database.Tournament
	Past     *database.Page[database.Tournament]
}

// GetTournamentOverview returns all upcoming tournaments and one page of past ones.
func (e *Engine) GetTournamentOverview(ctx context.Context, page int) (*TournamentOverview, error) {
	now := e.clock()
	upcoming, err := e.db.UpcomingTournaments(ctx, now, 0)
	if err != nil {
		return nil, err
	}
	past, err := e.db.PastTournaments(ctx, now, page, e.cfg.PostsPerPage)
	if err != nil {
		return nil, err
	}
	return &TournamentOverview{Upcoming: upcoming, Past: past}, nil
}

// HomePage is the content of the landing page.
type HomePage struct {
	Posts    []database.Post
	Upcoming []database.Tournament
	Past     []database.Tournament
}

const homePageItems = 3

// GetHomePage returns the latest posts with the next and the most recent tournaments.
func (e *Engine) GetHomePage(ctx context.Context) (*HomePage, error) {
	now := e.clock()
	posts, err := e.db.LatestPosts(ctx, homePageItems)
	if err != nil {
		return nil, err
	}
	upcoming, err := e.db.UpcomingTournaments(ctx, now, homePageItems)
	if err != nil {
		return nil, err
	}
	past, err := e.db.PastTournaments(ctx, now, 1, homePageItems)
	if err != nil {
		return nil, err
	}
	return &HomePage{Posts: posts, Upcoming: upcoming, Past: past.Items}, nil
}
