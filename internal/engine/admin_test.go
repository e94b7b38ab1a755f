package engine

import (
	"time"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/database"
)

func (s *EngineTestSuite) TestToggleAdminSelfRejected() {
	admin := s.createAdmin("admin")

	// rejected even with a wrong password: the self check comes first
	_, err := s.engine.ToggleAdmin(s.ctx, admin, admin.ID, "wrong")
	s.ErrorIs(err, ErrForbidden)
	_, err = s.engine.CheckToggleAdmin(s.ctx, admin, admin.ID)
	s.ErrorIs(err, ErrForbidden)

	stored, err := s.db.GetUserByID(s.ctx, admin.ID)
	s.Require().NoError(err)
	s.True(stored.IsAdmin)
}

func (s *EngineTestSuite) TestToggleAdmin() {
	admin := s.createAdmin("admin")
	user := s.createUser("alice")

	_, err := s.engine.ToggleAdmin(s.ctx, admin, user.ID, "wrong")
	s.ErrorIs(err, ErrInvalidCredential)
	_, err = s.engine.ToggleAdmin(s.ctx, admin, 999, "Password123!")
	s.ErrorIs(err, ErrNotFound)

	target, err := s.engine.ToggleAdmin(s.ctx, admin, user.ID, "Password123!")
	s.Require().NoError(err)
	s.True(target.IsAdmin)

	target, err = s.engine.ToggleAdmin(s.ctx, admin, user.ID, "Password123!")
	s.Require().NoError(err)
	s.False(target.IsAdmin)

	stored, err := s.db.GetUserByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.False(stored.IsAdmin)
}

func (s *EngineTestSuite) TestAdminDeleteUser() {
	admin := s.createAdmin("admin")
	user := s.createUser("alice")
	t := s.createTournament(8, s.now.Add(24*time.Hour))
	s.Require().NoError(s.engine.Register(s.ctx, user, t.ID))
	_, err := s.engine.CreatePost(s.ctx, user, PostInput{Title: "mine", Content: "x"})
	s.Require().NoError(err)

	s.ErrorIs(s.engine.DeleteUser(s.ctx, admin, admin.ID), ErrForbidden)
	s.ErrorIs(s.engine.DeleteUser(s.ctx, admin, 999), ErrNotFound)

	s.Require().NoError(s.engine.DeleteUser(s.ctx, admin, user.ID))
	s.EqualValues(1, s.count(&database.User{}))
	s.EqualValues(0, s.count(&database.Post{}))
	s.EqualValues(0, s.count(&database.Registration{}))
}

func (s *EngineTestSuite) TestPromoteAdmin() {
	_, err := s.engine.SignUp(s.ctx, SignUpInput{Username: "boss", Email: "boss@ipba.pl", Password: "Secret1!"})
	s.Require().NoError(err)

	user, err := s.engine.PromoteAdmin(s.ctx, "BOSS@ipba.pl")
	s.Require().NoError(err)
	s.True(user.IsAdmin)
	s.True(user.EmailVerified)

	_, err = s.engine.Authenticate(s.ctx, "boss", "Secret1!")
	s.NoError(err)

	_, err = s.engine.PromoteAdmin(s.ctx, "nobody@ipba.pl")
	s.ErrorIs(err, ErrNotFound)
}

func (s *EngineTestSuite) TestRecordWinner() {
	t := s.createTournament(8, s.now.Add(-24*time.Hour))
	a := s.createUser("alice")
	b := s.createUser("bob")

	var verr *ValidationError
	_, err := s.engine.RecordWinner(s.ctx, t.ID, a.ID, 0)
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "placing")

	_, err = s.engine.RecordWinner(s.ctx, t.ID, 999, 1)
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "user_id")

	_, err = s.engine.RecordWinner(s.ctx, 999, a.ID, 1)
	s.ErrorIs(err, ErrNotFound)

	second, err := s.engine.RecordWinner(s.ctx, t.ID, b.ID, 2)
	s.Require().NoError(err)
	_, err = s.engine.RecordWinner(s.ctx, t.ID, a.ID, 1)
	s.Require().NoError(err)
	// shared placings are allowed
	_, err = s.engine.RecordWinner(s.ctx, t.ID, b.ID, 1)
	s.Require().NoError(err)

	winners, err := s.engine.ListWinners(s.ctx, t.ID)
	s.Require().NoError(err)
	s.Require().Len(winners, 3)
	s.Equal(1, winners[0].Placing)
	s.Equal(2, winners[2].Placing)

	tournamentID, err := s.engine.DeleteWinner(s.ctx, second.ID)
	s.Require().NoError(err)
	s.Equal(t.ID, tournamentID)
	_, err = s.engine.DeleteWinner(s.ctx, second.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *EngineTestSuite) TestRemoveRegistrationAfterStart() {
	t := s.createTournament(8, s.now.Add(time.Hour))
	a := s.createUser("alice")
	s.Require().NoError(s.engine.Register(s.ctx, a, t.ID))

	s.now = s.now.Add(2 * time.Hour)
	s.ErrorIs(s.engine.Unregister(s.ctx, a, t.ID), ErrTournamentClosed)
	s.Require().NoError(s.engine.RemoveRegistration(s.ctx, t.ID, a.ID))
	s.ErrorIs(s.engine.RemoveRegistration(s.ctx, t.ID, a.ID), ErrNotRegistered)
}

func (s *EngineTestSuite) TestDashboardStats() {
	admin := s.createAdmin("admin")
	user := s.createUser("alice")
	t := s.createTournament(8, s.now.Add(time.Hour))
	s.Require().NoError(s.engine.Register(s.ctx, user, t.ID))
	_, err := s.engine.CreatePost(s.ctx, admin, PostInput{Title: "t", Content: "c"})
	s.Require().NoError(err)

	stats, err := s.engine.DashboardStats(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(2, stats.Users)
	s.EqualValues(1, stats.Posts)
	s.EqualValues(1, stats.Tournaments)
	s.EqualValues(1, stats.Registrations)
	s.EqualValues(0, stats.Winners)
}
