package engine

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/challenge"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/database"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/notify/email"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/sanitize"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/token"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/validation"
	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"
)

// SignUpInput holds the sign-up form.
type SignUpInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// ProfileInput holds the editable profile fields.
type ProfileInput struct {
	Username  string
	FirstName string
	LastName  string
}

// ContactInput holds a contact form submission.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

func hashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

func checkNewPassword(field, pw string) error {
	if err := validation.CheckPassword(pw); err != nil {
		return NewValidationError(field, strings.TrimPrefix(err.Error(), validation.ErrWeakPassword.Error()+": "))
	}
	return nil
}

// SignUp creates an unverified account and mails the confirmation link.
// If only the mail fails, the user is returned together with an ErrMailDelivery error.
func (e *Engine) SignUp(ctx context.Context, in SignUpInput) (*database.User, error) {
	in.Username = sanitize.Text(in.Username)
	in.FirstName = sanitize.Text(in.FirstName)
	in.LastName = sanitize.Text(in.LastName)

	if err := checkNewPassword("password", in.Password); err != nil {
		return nil, err
	}
	if err := e.checkUnique(ctx, in.Username, in.Email, 0); err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &database.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	}
	if err := e.db.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	log.Info("user signed up", "user", user.Username)

	if err := e.SendVerification(user); err != nil {
		return user, err
	}
	return user, nil
}

// SendVerification mails a fresh confirmation link to user.
func (e *Engine) SendVerification(user *database.User) error {
	tok, err := e.tokens.Issue(user.Email, token.PurposeEmailConfirm)
	if err != nil {
		return err
	}
	if err := e.mailer.SendVerification(user.Email, user.FirstName, e.link("/verify_email/"+tok)); err != nil {
		log.Error("failed to send verification mail", "user", user.Username, "error", err)
		return mailError(err)
	}
	return nil
}

func (e *Engine) checkUnique(ctx context.Context, username, mail string, exceptID uint) error {
	verr := &ValidationError{Fields: map[string]string{}}
	if username != "" {
		taken, err := e.db.UsernameTaken(ctx, username, exceptID)
		if err != nil {
			return err
		}
		if taken {
			verr.Fields["username"] = "This username is already taken"
		}
	}
	if mail != "" {
		taken, err := e.db.EmailTaken(ctx, mail, exceptID)
		if err != nil {
			return err
		}
		if taken {
			verr.Fields["email"] = "This e-mail address is already registered"
		}
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

// VerifyEmail confirms the address carried by tok. Confirming twice is a no-op reported by alreadyVerified.
func (e *Engine) VerifyEmail(ctx context.Context, tok string) (alreadyVerified bool, err error) {
	subject, err := e.tokens.Verify(tok, token.PurposeEmailConfirm, token.DefaultMaxAge)
	if err != nil {
		return false, ErrInvalidToken
	}
	user, err := e.db.GetUserByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return false, ErrInvalidToken
		}
		return false, err
	}
	if user.EmailVerified {
		return true, nil
	}
	if err := e.db.SetEmailVerified(ctx, user.ID); err != nil {
		return false, err
	}
	log.Info("email verified", "user", user.Username)
	return false, nil
}

// Authenticate resolves identifier (e-mail or username) and checks the password.
func (e *Engine) Authenticate(ctx context.Context, identifier, password string) (*database.User, error) {
	user, err := e.db.GetUserByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, err
	}
	if !checkPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredential
	}
	if !user.EmailVerified {
		return nil, ErrEmailNotVerified
	}
	return user, nil
}

// CurrentUser loads the user behind a session. A deleted account resolves to ErrNotFound.
func (e *Engine) CurrentUser(ctx context.Context, id uint) (*database.User, error) {
	user, err := e.db.GetUserByID(ctx, id)
	return user, storeError(err)
}

// RequestPasswordReset mails a reset link if the address belongs to an account.
// Unknown addresses are silently ignored.
func (e *Engine) RequestPasswordReset(ctx context.Context, address string) error {
	user, err := e.db.GetUserByEmail(ctx, address)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			log.Debug("password reset for unknown address")
			return nil
		}
		return err
	}
	tok, err := e.tokens.Issue(user.Email, token.PurposePasswordReset)
	if err != nil {
		return err
	}
	if err := e.mailer.SendPasswordReset(user.Email, user.FirstName, e.link("/reset_password/"+tok)); err != nil {
		log.Error("failed to send password reset mail", "user", user.Username, "error", err)
		return mailError(err)
	}
	return nil
}

// CheckResetToken reports whether tok is a valid, unexpired reset link.
func (e *Engine) CheckResetToken(tok string) error {
	if _, err := e.tokens.Verify(tok, token.PurposePasswordReset, token.DefaultMaxAge); err != nil {
		return ErrInvalidToken
	}
	return nil
}

// ResetPassword sets a new password for the account the reset link was issued to.
func (e *Engine) ResetPassword(ctx context.Context, tok, password string) error {
	subject, err := e.tokens.Verify(tok, token.PurposePasswordReset, token.DefaultMaxAge)
	if err != nil {
		return ErrInvalidToken
	}
	if err := checkNewPassword("password", password); err != nil {
		return err
	}
	user, err := e.db.GetUserByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	if err := e.db.SetPasswordHash(ctx, user.ID, hash); err != nil {
		return err
	}
	log.Info("password reset", "user", user.Username)
	return nil
}

// UpdateProfile changes the names and, at most once per cooldown period, the username.
func (e *Engine) UpdateProfile(ctx context.Context, user *database.User, in ProfileInput) (*database.User, error) {
	username := sanitize.Text(in.Username)
	updated := *user
	updated.FirstName = sanitize.Text(in.FirstName)
	updated.LastName = sanitize.Text(in.LastName)

	if username != "" && username != user.Username {
		now := e.clock()
		if user.UsernameLastChanged != nil {
			next := user.UsernameLastChanged.Add(UsernameChangeCooldown)
			if now.Before(next) {
				return nil, &UsernameCooldownError{DaysLeft: int(math.Ceil(next.Sub(now).Hours() / 24))}
			}
		}
		if err := e.checkUnique(ctx, username, "", user.ID); err != nil {
			return nil, err
		}
		updated.Username = username
		updated.UsernameLastChanged = &now
	}

	if err := e.db.UpdateUser(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ChangePassword replaces the password after checking the current one.
func (e *Engine) ChangePassword(ctx context.Context, user *database.User, oldPassword, newPassword string) error {
	if !checkPassword(user.PasswordHash, oldPassword) {
		return ErrInvalidCredential
	}
	if err := checkNewPassword("new_password", newPassword); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	return e.db.SetPasswordHash(ctx, user.ID, hash)
}

// RequestAccountDeletion issues a deletion code for the session and mails it.
// A new request replaces any code issued before.
func (e *Engine) RequestAccountDeletion(ctx context.Context, user *database.User, sessionID string) error {
	c, err := e.challenges.Issue(ctx, sessionID, challenge.PurposeDeleteAccount, e.clock())
	if err != nil {
		return err
	}
	if err := e.mailer.SendDeletionCode(user.Email, user.FirstName, c.Code, e.challenges.TTL()); err != nil {
		log.Error("failed to send deletion code", "user", user.Username, "error", err)
		return mailError(err)
	}
	return nil
}

// DeleteAccount removes the user's own account once the password and the mailed code check out.
// Posts, registrations and winner records are removed by the store's cascade rules.
func (e *Engine) DeleteAccount(ctx context.Context, user *database.User, sessionID, password, code string) error {
	c, err := e.challenges.Get(ctx, sessionID, challenge.PurposeDeleteAccount)
	if err != nil {
		return ErrInvalidOrExpiredCode
	}
	if c.Expired(e.clock(), e.challenges.TTL()) {
		if err := e.challenges.Clear(ctx, sessionID, challenge.PurposeDeleteAccount); err != nil {
			log.Warn("failed to clear expired challenge", "error", err)
		}
		return ErrCodeExpired
	}
	if !checkPassword(user.PasswordHash, password) {
		return ErrInvalidCredential
	}
	if !c.Matches(strings.TrimSpace(code)) {
		return ErrInvalidOrExpiredCode
	}

	if err := e.db.DeleteUser(ctx, user.ID); err != nil {
		return storeError(err)
	}
	if err := e.challenges.Clear(ctx, sessionID, challenge.PurposeDeleteAccount); err != nil {
		log.Warn("failed to clear challenge", "error", err)
	}
	log.Info("account deleted by owner", "user", user.Username)
	return nil
}

// SendContactMessage forwards a contact form submission to the club.
func (e *Engine) SendContactMessage(in ContactInput) error {
	msg := email.ContactMessage{
		Name:    sanitize.Text(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Subject: sanitize.Text(in.Subject),
		Message: sanitize.Text(in.Message),
	}
	if err := e.mailer.SendContactMessage(msg); err != nil {
		log.Error("failed to send contact message", "error", err)
		return mailError(err)
	}
	return nil
}
