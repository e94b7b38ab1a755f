package models

import (
	"time"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/database"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/engine"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/gravatar"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/media"
	"github.com/mergestat/timediff"
	"github.com/samber/lo"
)

// Converter turns store records into view models.
type Converter struct {
	media    *media.Store
	gravatar *gravatar.Resolver
	now      func() time.Time
}

// NewConverter creates a Converter. now is used for relative dates.
func NewConverter(m *media.Store, g *gravatar.Resolver, now func() time.Time) *Converter {
	return &Converter{media: m, gravatar: g, now: now}
}

// ToUser converts the logged in user.
func (c *Converter) ToUser(u *database.User) *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:                  u.ID,
		Username:            u.Username,
		Email:               u.Email,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		IsAdmin:             u.IsAdmin,
		EmailVerified:       u.EmailVerified,
		AvatarURL:           c.gravatar.URL(u.Email),
		UsernameLastChanged: u.UsernameLastChanged,
	}
}

// ToMember converts a user for public listings.
func ToMember(u database.User) Member {
	return Member{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// ToAdminUsers converts the admin user list.
func ToAdminUsers(users []database.User) []AdminUser {
	return lo.Map(users, func(u database.User, _ int) AdminUser {
		return AdminUser{
			Member:        ToMember(u),
			Email:         u.Email,
			IsAdmin:       u.IsAdmin,
			EmailVerified: u.EmailVerified,
		}
	})
}

// ToPost converts a post.
func (c *Converter) ToPost(p database.Post) Post {
	return Post{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		ImageURL:   c.media.URL(p.ImageFile),
		DatePosted: p.DatePosted,
		Posted:     timediff.TimeDiff(p.DatePosted, timediff.WithStartTime(c.now())),
		Author:     ToMember(p.Author),
	}
}

// ToPosts converts a list of posts.
func (c *Converter) ToPosts(posts []database.Post) []Post {
	return lo.Map(posts, func(p database.Post, _ int) Post { return c.ToPost(p) })
}

// ToTournament converts a tournament.
func (c *Converter) ToTournament(t database.Tournament) Tournament {
	out := Tournament{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Location:    t.Location,
		BannerURL:   c.media.URL(t.BannerImage),
		StartDate:   t.StartDate.Format(engine.DateLayout),
		StartsIn:    timediff.TimeDiff(t.StartDate, timediff.WithStartTime(c.now())),
		MaxPlayers:  t.MaxPlayers,
	}
	if t.EndDate != nil {
		out.EndDate = lo.ToPtr(t.EndDate.Format(engine.DateLayout))
	}
	return out
}

// ToTournaments converts a list of tournaments.
func (c *Converter) ToTournaments(ts []database.Tournament) []Tournament {
	return lo.Map(ts, func(t database.Tournament, _ int) Tournament { return c.ToTournament(t) })
}

// ToWinners converts a winner list.
func ToWinners(winners []database.Winner) []Winner {
	return lo.Map(winners, func(w database.Winner, _ int) Winner {
		return Winner{ID: w.ID, Placing: w.Placing, Player: ToMember(w.User)}
	})
}

// ToTournamentDetails converts the tournament page.
func (c *Converter) ToTournamentDetails(d *engine.TournamentDetails) TournamentDetails {
	return TournamentDetails{
		Tournament: c.ToTournament(*d.Tournament),
		Registrations: lo.Map(d.Registrations, func(r database.Registration, _ int) Registration {
			return Registration{Player: ToMember(r.User), RegistrationDate: r.RegistrationDate}
		}),
		Winners:      ToWinners(d.Winners),
		SlotsLeft:    d.SlotsLeft(),
		Started:      d.Started,
		IsRegistered: d.IsRegistered,
	}
}

// ToPage converts a page of records with conv.
func ToPage[S, T any](p *database.Page[S], conv func([]S) []T) Page[T] {
	return Page[T]{
		Items:   conv(p.Items),
		Page:    p.Page,
		Pages:   p.Pages(),
		Total:   p.Total,
		HasPrev: p.HasPrev(),
		HasNext: p.HasNext(),
	}
}
