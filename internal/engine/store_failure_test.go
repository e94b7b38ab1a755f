package engine

import (
	"errors"
	"time"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/database"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/database/mock"
)

var errDiskFull = errors.New("database or disk is full")

func (s *EngineTestSuite) TestStoreFailuresPassThrough() {
	db := mock.NewMockDB(s.db)
	e := s.newEngine(db)
	user := s.createUser("alice")
	admin := s.createAdmin("admin")
	t := s.createTournament(4, s.now.Add(24*time.Hour))

	db.RegisterPlayerError = errDiskFull
	err := e.Register(s.ctx, user, t.ID)
	s.ErrorIs(err, errDiskFull)
	for _, rule := range []error{ErrCapacityExceeded, ErrTournamentClosed, ErrAlreadyRegistered, ErrNotFound} {
		s.NotErrorIs(err, rule)
	}
	s.Equal(1, db.Calls("RegisterPlayer"))

	db.GetStatsError = errDiskFull
	_, err = e.DashboardStats(s.ctx)
	s.ErrorIs(err, errDiskFull)

	db.DeleteUserError = errDiskFull
	s.ErrorIs(e.DeleteUser(s.ctx, admin, user.ID), errDiskFull)
	_, err = s.db.GetUserByID(s.ctx, user.ID)
	s.NoError(err)

	db.Reset()
	s.Require().NoError(e.Register(s.ctx, user, t.ID))
	s.Equal(1, db.Calls("RegisterPlayer"))
}

func (s *EngineTestSuite) TestStoreRuleErrorsMapToEngineErrors() {
	db := mock.NewMockDB(s.db)
	e := s.newEngine(db)
	user := s.createUser("alice")

	tests := []struct {
		name     string
		injected error
		want     error
	}{
		{"full", database.ErrTournamentFull, ErrCapacityExceeded},
		{"started", database.ErrTournamentStarted, ErrTournamentClosed},
		{"duplicate", database.ErrAlreadyRegistered, ErrAlreadyRegistered},
		{"missing", database.ErrNotFound, ErrNotFound},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			db.RegisterPlayerError = tt.injected
			s.ErrorIs(e.Register(s.ctx, user, 1), tt.want)
		})
	}
}

func (s *EngineTestSuite) TestSignUpStoreFailureSendsNoMail() {
	db := mock.NewMockDB(s.db)
	e := s.newEngine(db)
	db.CreateUserError = errDiskFull

	_, err := e.SignUp(s.ctx, SignUpInput{
		Username:  "newbie",
		Email:     "newbie@user.com",
		Password:  "Password123!",
		FirstName: "New",
		LastName:  "Bie",
	})
	s.ErrorIs(err, errDiskFull)
	_, sent := s.mailer.last("verify")
	s.False(sent)
	s.Equal(int64(0), s.count(&database.User{}))
}

func (s *EngineTestSuite) TestAuthenticateStoreFailure() {
	db := mock.NewMockDB(s.db)
	e := s.newEngine(db)
	s.createUser("alice")
	db.GetUserByLoginError = errDiskFull

	_, err := e.Authenticate(s.ctx, "alice", "Password123!")
	s.ErrorIs(err, errDiskFull)
	s.NotErrorIs(err, ErrInvalidCredential)
}
