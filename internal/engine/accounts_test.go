package engine

import (
	"strings"
	"time"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/database"
)

// tokenFrom returns the last path segment of a mailed link.
func tokenFrom(link string) string {
	return link[strings.LastIndex(link, "/")+1:]
}

func (s *EngineTestSuite) TestSignUpVerifyLogin() {
	user, err := s.engine.SignUp(s.ctx, SignUpInput{
		Username:  "ania",
		Email:     "Ania@Example.com",
		Password:  "Secret1!",
		FirstName: "Anna",
		LastName:  "Nowak",
	})
	s.Require().NoError(err)
	s.False(user.EmailVerified)
	s.Equal("ania@example.com", user.Email)

	_, err = s.engine.Authenticate(s.ctx, "ania", "Secret1!")
	s.ErrorIs(err, ErrEmailNotVerified)

	mail, ok := s.mailer.last("verify")
	s.Require().True(ok)
	s.True(strings.HasPrefix(mail.Body, "http://localhost:5000/verify_email/"))

	already, err := s.engine.VerifyEmail(s.ctx, tokenFrom(mail.Body))
	s.Require().NoError(err)
	s.False(already)

	already, err = s.engine.VerifyEmail(s.ctx, tokenFrom(mail.Body))
	s.Require().NoError(err)
	s.True(already)

	got, err := s.engine.Authenticate(s.ctx, "ania@example.com", "Secret1!")
	s.Require().NoError(err)
	s.Equal(user.ID, got.ID)

	_, err = s.engine.Authenticate(s.ctx, "ania", "wrong")
	s.ErrorIs(err, ErrInvalidCredential)
	_, err = s.engine.Authenticate(s.ctx, "nobody", "Secret1!")
	s.ErrorIs(err, ErrInvalidCredential)
}

func (s *EngineTestSuite) TestSignUpValidation() {
	s.createUser("taken")

	var verr *ValidationError
	_, err := s.engine.SignUp(s.ctx, SignUpInput{Username: "taken", Email: "taken@user.com", Password: "Secret1!"})
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "username")
	s.Contains(verr.Fields, "email")

	_, err = s.engine.SignUp(s.ctx, SignUpInput{Username: "fresh", Email: "fresh@user.com", Password: "weak"})
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "password")
}

func (s *EngineTestSuite) TestSignUpMailFailureKeepsUser() {
	s.mailer.Err = errSMTP
	user, err := s.engine.SignUp(s.ctx, SignUpInput{Username: "ania", Email: "ania@example.com", Password: "Secret1!"})
	s.ErrorIs(err, ErrMailDelivery)
	s.Require().NotNil(user)

	stored, err := s.db.GetUserByUsername(s.ctx, "ania")
	s.Require().NoError(err)
	s.Equal(user.ID, stored.ID)
}

func (s *EngineTestSuite) TestVerifyEmailExpired() {
	_, err := s.engine.SignUp(s.ctx, SignUpInput{Username: "ania", Email: "ania@example.com", Password: "Secret1!"})
	s.Require().NoError(err)
	mail, _ := s.mailer.last("verify")

	s.now = s.now.Add(time.Hour + time.Second)
	_, err = s.engine.VerifyEmail(s.ctx, tokenFrom(mail.Body))
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *EngineTestSuite) TestPasswordReset() {
	user := s.createUser("alice")

	s.Require().NoError(s.engine.RequestPasswordReset(s.ctx, "nobody@user.com"))
	_, ok := s.mailer.last("reset")
	s.False(ok)

	s.Require().NoError(s.engine.RequestPasswordReset(s.ctx, user.Email))
	mail, ok := s.mailer.last("reset")
	s.Require().True(ok)
	tok := tokenFrom(mail.Body)

	s.Require().NoError(s.engine.CheckResetToken(tok))
	s.ErrorIs(s.engine.CheckResetToken("garbage"), ErrInvalidToken)

	var verr *ValidationError
	s.ErrorAs(s.engine.ResetPassword(s.ctx, tok, "short"), &verr)

	s.Require().NoError(s.engine.ResetPassword(s.ctx, tok, "NewPass1!"))
	_, err := s.engine.Authenticate(s.ctx, "alice", "NewPass1!")
	s.NoError(err)
	_, err = s.engine.Authenticate(s.ctx, "alice", "Password123!")
	s.ErrorIs(err, ErrInvalidCredential)
}

func (s *EngineTestSuite) TestVerificationTokenCannotResetPassword() {
	user := s.createUser("alice")
	s.Require().NoError(s.engine.SendVerification(user))
	mail, _ := s.mailer.last("verify")

	s.ErrorIs(s.engine.ResetPassword(s.ctx, tokenFrom(mail.Body), "NewPass1!"), ErrInvalidToken)
}

func (s *EngineTestSuite) TestUpdateProfileUsernameCooldown() {
	user := s.createUser("alice")
	s.createUser("bob")

	var verr *ValidationError
	_, err := s.engine.UpdateProfile(s.ctx, user, ProfileInput{Username: "bob", FirstName: "A", LastName: "B"})
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr.Fields, "username")

	updated, err := s.engine.UpdateProfile(s.ctx, user, ProfileInput{Username: "alicja", FirstName: "Alicja", LastName: "Kowalska"})
	s.Require().NoError(err)
	s.Equal("alicja", updated.Username)
	s.Require().NotNil(updated.UsernameLastChanged)

	s.now = s.now.Add(10 * 24 * time.Hour)
	_, err = s.engine.UpdateProfile(s.ctx, updated, ProfileInput{Username: "ala"})
	s.ErrorIs(err, ErrUsernameChangeTooSoon)
	var cooldown *UsernameCooldownError
	s.Require().ErrorAs(err, &cooldown)
	s.Equal(4, cooldown.DaysLeft)

	// names can still change during the cooldown
	renamed, err := s.engine.UpdateProfile(s.ctx, updated, ProfileInput{Username: "alicja", FirstName: "Ala"})
	s.Require().NoError(err)
	s.Equal("Ala", renamed.FirstName)

	s.now = s.now.Add(4 * 24 * time.Hour)
	_, err = s.engine.UpdateProfile(s.ctx, renamed, ProfileInput{Username: "ala"})
	s.NoError(err)
}

func (s *EngineTestSuite) TestChangePassword() {
	user := s.createUser("alice")

	s.ErrorIs(s.engine.ChangePassword(s.ctx, user, "wrong", "NewPass1!"), ErrInvalidCredential)
	var verr *ValidationError
	s.Require().ErrorAs(s.engine.ChangePassword(s.ctx, user, "Password123!", "nospecial1A"), &verr)
	s.Contains(verr.Fields, "new_password")

	s.Require().NoError(s.engine.ChangePassword(s.ctx, user, "Password123!", "NewPass1!"))
	_, err := s.engine.Authenticate(s.ctx, "alice", "NewPass1!")
	s.NoError(err)
}

func (s *EngineTestSuite) TestDeleteAccountWrongCodeKeepsData() {
	user := s.createUser("alice")
	t := s.createTournament(8, s.now.Add(24*time.Hour))
	s.Require().NoError(s.engine.Register(s.ctx, user, t.ID))
	s.Require().NoError(s.db.CreatePost(s.ctx, &database.Post{Title: "mine", Content: "x", UserID: user.ID, DatePosted: s.now}))

	s.Require().NoError(s.engine.RequestAccountDeletion(s.ctx, user, "session-1"))
	mail, ok := s.mailer.last("delete")
	s.Require().True(ok)
	s.Regexp(`^\d{6}$`, mail.Body)

	wrong := "000000"
	if mail.Body == wrong {
		wrong = "111111"
	}
	s.ErrorIs(s.engine.DeleteAccount(s.ctx, user, "session-1", "Password123!", wrong), ErrInvalidOrExpiredCode)

	_, err := s.db.GetUserByID(s.ctx, user.ID)
	s.NoError(err)
	s.EqualValues(1, s.count(&database.Post{}))
	s.EqualValues(1, s.count(&database.Registration{}))
}

func (s *EngineTestSuite) TestDeleteAccount() {
	user := s.createUser("alice")
	other := s.createUser("bob")
	t := s.createTournament(8, s.now.Add(24*time.Hour))
	s.Require().NoError(s.engine.Register(s.ctx, user, t.ID))
	s.Require().NoError(s.engine.Register(s.ctx, other, t.ID))
	_, err := s.engine.RecordWinner(s.ctx, t.ID, user.ID, 1)
	s.Require().NoError(err)
	s.Require().NoError(s.db.CreatePost(s.ctx, &database.Post{Title: "mine", Content: "x", UserID: user.ID, DatePosted: s.now}))

	s.ErrorIs(s.engine.DeleteAccount(s.ctx, user, "session-1", "Password123!", "123456"), ErrInvalidOrExpiredCode)

	s.Require().NoError(s.engine.RequestAccountDeletion(s.ctx, user, "session-1"))
	mail, _ := s.mailer.last("delete")

	// the code is bound to the session it was issued for
	s.ErrorIs(s.engine.DeleteAccount(s.ctx, user, "session-2", "Password123!", mail.Body), ErrInvalidOrExpiredCode)
	s.ErrorIs(s.engine.DeleteAccount(s.ctx, user, "session-1", "wrong", mail.Body), ErrInvalidCredential)

	s.Require().NoError(s.engine.DeleteAccount(s.ctx, user, "session-1", "Password123!", mail.Body))

	_, err = s.db.GetUserByID(s.ctx, user.ID)
	s.ErrorIs(err, database.ErrNotFound)
	s.EqualValues(0, s.count(&database.Post{}))
	s.EqualValues(1, s.count(&database.Registration{}))
	s.EqualValues(0, s.count(&database.Winner{}))
}

func (s *EngineTestSuite) TestDeleteAccountCodeExpired() {
	user := s.createUser("alice")
	s.Require().NoError(s.engine.RequestAccountDeletion(s.ctx, user, "session-1"))
	mail, _ := s.mailer.last("delete")

	s.now = s.now.Add(10*time.Minute + time.Second)
	s.ErrorIs(s.engine.DeleteAccount(s.ctx, user, "session-1", "Password123!", mail.Body), ErrCodeExpired)

	// an expired code is cleared, a retry reports it as missing
	err := s.engine.DeleteAccount(s.ctx, user, "session-1", "Password123!", mail.Body)
	s.ErrorIs(err, ErrInvalidOrExpiredCode)
	s.NotErrorIs(err, ErrCodeExpired)

	_, err = s.db.GetUserByID(s.ctx, user.ID)
	s.NoError(err)
}

func (s *EngineTestSuite) TestContactMessage() {
	s.Require().NoError(s.engine.SendContactMessage(ContactInput{Name: "Jan", Email: "jan@user.com", Subject: "Hi", Message: "<b>Hello</b>"}))
	mail, ok := s.mailer.last("contact")
	s.Require().True(ok)
	s.Equal("Hello", mail.Body)

	s.mailer.Err = errSMTP
	s.ErrorIs(s.engine.SendContactMessage(ContactInput{Name: "Jan", Email: "jan@user.com", Message: "x"}), ErrMailDelivery)
}
