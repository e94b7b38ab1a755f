package engine

import (
	"time"
)

func (s *EngineTestSuite) TestRegisterCapacityExceeded() {
	t := s.createTournament(1, s.now.Add(7*24*time.Hour))
	a := s.createUser("alice")
	b := s.createUser("bob")

	s.Require().NoError(s.engine.Register(s.ctx, a, t.ID))
	s.ErrorIs(s.engine.Register(s.ctx, b, t.ID), ErrCapacityExceeded)

	n, err := s.db.CountRegistrations(s.ctx, t.ID)
	s.Require().NoError(err)
	s.EqualValues(1, n)
}

func (s *EngineTestSuite) TestUnregisterAfterStart() {
	t := s.createTournament(8, s.now.Add(24*time.Hour))
	a := s.createUser("alice")
	s.Require().NoError(s.engine.Register(s.ctx, a, t.ID))

	s.now = s.now.Add(48 * time.Hour)
	s.ErrorIs(s.engine.Unregister(s.ctx, a, t.ID), ErrTournamentClosed)

	registered, err := s.db.IsRegistered(s.ctx, t.ID, a.ID)
	s.Require().NoError(err)
	s.True(registered)
}

func (s *EngineTestSuite) TestRegisterUnregisterRoundTrip() {
	t := s.createTournament(4, s.now.Add(24*time.Hour))
	other := s.createUser("other")
	a := s.createUser("alice")
	s.Require().NoError(s.engine.Register(s.ctx, other, t.ID))

	before, err := s.db.CountRegistrations(s.ctx, t.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.engine.Register(s.ctx, a, t.ID))
	s.Require().NoError(s.engine.Unregister(s.ctx, a, t.ID))

	after, err := s.db.CountRegistrations(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Equal(before, after)
}

func (s *EngineTestSuite) TestRegisterErrors() {
	future := s.createTournament(4, s.now.Add(24*time.Hour))
	started := s.createTournament(4, s.now)
	a := s.createUser("alice")

	s.ErrorIs(s.engine.Register(s.ctx, a, started.ID), ErrTournamentClosed)
	s.ErrorIs(s.engine.Register(s.ctx, a, 12345), ErrNotFound)
	s.ErrorIs(s.engine.Unregister(s.ctx, a, future.ID), ErrNotRegistered)

	s.Require().NoError(s.engine.Register(s.ctx, a, future.ID))
	s.ErrorIs(s.engine.Register(s.ctx, a, future.ID), ErrAlreadyRegistered)
}

func (s *EngineTestSuite) TestCapacityNeverExceededSequentially() {
	t := s.createTournament(3, s.now.Add(24*time.Hour))
	for _, name := range []string{"p1", "p2", "p3", "p4", "p5"} {
		_ = s.engine.Register(s.ctx, s.createUser(name), t.ID)
		n, err := s.db.CountRegistrations(s.ctx, t.ID)
		s.Require().NoError(err)
		s.LessOrEqual(n, int64(t.MaxPlayers))
	}
}

func (s *EngineTestSuite) TestTournamentDetails() {
	t := s.createTournament(2, s.now.Add(24*time.Hour))
	a := s.createUser("alice")
	b := s.createUser("bob")
	s.Require().NoError(s.engine.Register(s.ctx, a, t.ID))

	d, err := s.engine.GetTournamentDetails(s.ctx, t.ID, a)
	s.Require().NoError(err)
	s.True(d.IsRegistered)
	s.False(d.Started)
	s.Equal(1, d.SlotsLeft())
	s.Len(d.Registrations, 1)

	d, err = s.engine.GetTournamentDetails(s.ctx, t.ID, b)
	s.Require().NoError(err)
	s.False(d.IsRegistered)

	d, err = s.engine.GetTournamentDetails(s.ctx, t.ID, nil)
	s.Require().NoError(err)
	s.False(d.IsRegistered)

	_, err = s.engine.GetTournamentDetails(s.ctx, 999, nil)
	s.ErrorIs(err, ErrNotFound)
}

func (s *EngineTestSuite) TestExportRegistrations() {
	t := s.createTournament(8, time.Date(2025, 7, 14, 0, 0, 0, 0, time.UTC))
	t.Title = "Puchar Łodzi"
	s.Require().NoError(s.db.UpdateTournament(s.ctx, t))

	a := s.createUser("alice")
	s.Require().NoError(s.engine.Register(s.ctx, a, t.ID))

	_, records, err := s.engine.ExportRegistrations(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(RegistrationRecord{
		Username:            "alice",
		FirstName:           "Test",
		LastName:            "User",
		TournamentID:        t.ID,
		TournamentTitle:     "Puchar Łodzi",
		TournamentStartDate: "2025-07-14",
		RegistrationDate:    "2025-06-01 12:00:00",
		Paid:                false,
	}, records[0])

	out, err := MarshalRecords(records)
	s.Require().NoError(err)
	s.Contains(string(out), `"tournament_title": "Puchar Łodzi"`)
	s.Contains(string(out), `"paid": false`)

	empty, err := MarshalRecords(nil)
	s.Require().NoError(err)
	s.Equal("[]", string(empty))

	_, _, err = s.engine.ExportRegistrations(s.ctx, 999)
	s.ErrorIs(err, ErrNotFound)
}

func (s *EngineTestSuite) TestTournamentOverviewAndHome() {
	for i := range 4 {
		s.createTournament(8, s.now.Add(time.Duration(i+1)*24*time.Hour))
		s.createTournament(8, s.now.Add(-time.Duration(i+1)*24*time.Hour))
	}
	author := s.createAdmin("admin")
	for range 4 {
		_, err := s.engine.CreatePost(s.ctx, author, PostInput{Title: "News", Content: "<p>hi</p>"})
		s.Require().NoError(err)
	}

	overview, err := s.engine.GetTournamentOverview(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(overview.Upcoming, 4)
	s.EqualValues(4, overview.Past.Total)
	s.True(overview.Upcoming[0].StartDate.Before(overview.Upcoming[1].StartDate))
	s.True(overview.Past.Items[0].StartDate.After(overview.Past.Items[1].StartDate))

	home, err := s.engine.GetHomePage(s.ctx)
	s.Require().NoError(err)
	s.Len(home.Posts, 3)
	s.Len(home.Upcoming, 3)
	s.Len(home.Past, 3)
}
