package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/api/auth"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/api/models"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/engine"
	"github.com/charmbracelet/log"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func (h *Handler) RegisterPage(c *gin.Context) {
	if auth.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, "register", nil)
}

// Register creates an account and sends the verification link.
func (h *Handler) Register(c *gin.Context) {
	if auth.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	var form registerForm
	if !bind(c, &form) {
		return
	}
	_, err := h.engine.SignUp(c.Request.Context(), engine.SignUpInput{
		Username:  form.Username,
		Email:     form.Email,
		Password:  form.Password,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	})
	switch {
	case errors.Is(err, engine.ErrMailDelivery):
		redirect(c, models.FlashWarning, "Your account has been created, but we could not send the verification e-mail. Please try again later.", "/login")
	case err != nil:
		h.fail(c, err, "/register")
	default:
		redirect(c, models.FlashSuccess, "Your account has been created! Check your inbox to verify your e-mail address.", "/login")
	}
}

func (h *Handler) VerifyEmail(c *gin.Context) {
	already, err := h.engine.VerifyEmail(c.Request.Context(), c.Param("token"))
	switch {
	case err != nil:
		h.fail(c, err, "/login")
	case already:
		redirect(c, models.FlashInfo, "Your account is already verified. Please log in.", "/login")
	default:
		redirect(c, models.FlashSuccess, "Your e-mail address has been verified. You can now log in.", "/login")
	}
}

func (h *Handler) LoginPage(c *gin.Context) {
	if auth.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, "login", gin.H{"next": c.Query("next")})
}

// Login accepts an e-mail address or a username.
func (h *Handler) Login(c *gin.Context) {
	if auth.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	var form loginForm
	if !bind(c, &form) {
		return
	}
	next := c.Query("next")
	back := "/login"
	if next != "" {
		back += "?next=" + url.QueryEscape(next)
	}

	user, err := h.engine.Authenticate(c.Request.Context(), form.Login, form.Password)
	switch {
	case errors.Is(err, engine.ErrEmailNotVerified):
		redirect(c, models.FlashWarning, "Please verify your e-mail address before logging in.", back)
		return
	case errors.Is(err, engine.ErrInvalidCredential):
		redirect(c, models.FlashDanger, "Login unsuccessful. Please check your login and password.", back)
		return
	case err != nil:
		h.fail(c, err, back)
		return
	}

	opts := sessions.Options{
		Path:     "/",
		MaxAge:   h.config.RememberMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if err := auth.Login(c, user, form.Remember, opts); err != nil {
		h.fail(c, err, back)
		return
	}
	log.Info("user logged in", "user", user.Username)
	c.Redirect(http.StatusFound, safeNext(next))
}

func (h *Handler) Logout(c *gin.Context) {
	if err := auth.Logout(c); err != nil {
		h.fail(c, err, "/")
		return
	}
	redirect(c, models.FlashInfo, "You have been logged out.", "/")
}

func (h *Handler) ResetRequestPage(c *gin.Context) {
	h.render(c, "reset_request", nil)
}

// ResetRequest answers the same way whether or not the address has an account.
func (h *Handler) ResetRequest(c *gin.Context) {
	var form resetRequestForm
	if !bind(c, &form) {
		return
	}
	if err := h.engine.RequestPasswordReset(c.Request.Context(), form.Email); err != nil {
		log.Error("password reset request failed", "error", err)
	}
	redirect(c, models.FlashInfo, "If an account exists for this address, an e-mail with instructions has been sent.", "/login")
}

func (h *Handler) ResetTokenPage(c *gin.Context) {
	if err := h.engine.CheckResetToken(c.Param("token")); err != nil {
		h.fail(c, err, "/reset_password")
		return
	}
	h.render(c, "reset_token", nil)
}

func (h *Handler) ResetPassword(c *gin.Context) {
	token := c.Param("token")
	if err := h.engine.CheckResetToken(token); err != nil {
		h.fail(c, err, "/reset_password")
		return
	}
	var form resetPasswordForm
	if !bind(c, &form) {
		return
	}
	if err := h.engine.ResetPassword(c.Request.Context(), token, form.Password); err != nil {
		h.fail(c, err, "/reset_password")
		return
	}
	redirect(c, models.FlashSuccess, "Your password has been updated. You can now log in.", "/login")
}

func (h *Handler) Profile(c *gin.Context) {
	h.render(c, "profile", gin.H{"username_change_days": int(engine.UsernameChangeCooldown.Hours() / 24)})
}

// UpdateProfile changes the names and, outside the cooldown, the username.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var form profileForm
	if !bind(c, &form) {
		return
	}
	_, err := h.engine.UpdateProfile(c.Request.Context(), auth.CurrentUser(c), engine.ProfileInput{
		Username:  form.Username,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	})
	if err != nil {
		if errors.Is(err, engine.ErrUsernameChangeTooSoon) {
			msg, _ := ruleMessage(err)
			redirect(c, models.FlashWarning, msg, "/profile")
			return
		}
		h.fail(c, err, "/profile")
		return
	}
	redirect(c, models.FlashSuccess, "Your profile has been updated.", "/profile")
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var form changePasswordForm
	if !bind(c, &form) {
		return
	}
	err := h.engine.ChangePassword(c.Request.Context(), auth.CurrentUser(c), form.OldPassword, form.NewPassword)
	if errors.Is(err, engine.ErrInvalidCredential) {
		redirect(c, models.FlashDanger, "Your current password is incorrect.", "/profile")
		return
	}
	if err != nil {
		h.fail(c, err, "/profile")
		return
	}
	redirect(c, models.FlashSuccess, "Your password has been changed.", "/profile")
}

// DeleteAccountPage mails a fresh confirmation code, replacing any earlier one.
func (h *Handler) DeleteAccountPage(c *gin.Context) {
	sid, err := auth.SessionID(c)
	if err != nil {
		h.fail(c, err, "/profile")
		return
	}
	err = h.engine.RequestAccountDeletion(c.Request.Context(), auth.CurrentUser(c), sid)
	switch {
	case errors.Is(err, engine.ErrMailDelivery):
		auth.AddFlash(c, models.FlashWarning, mailFailedMessage)
	case err != nil:
		h.fail(c, err, "/profile")
		return
	default:
		auth.AddFlash(c, models.FlashInfo, "We have sent a confirmation code to your e-mail address. It is valid for 10 minutes.")
	}
	h.render(c, "delete_account", gin.H{"code_validity_minutes": int(h.engine.ChallengeTTL().Minutes())})
}

// DeleteAccount removes the account once both the password and the mailed code match.
// A wrong password or code leaves the code in place so the user can retry.
func (h *Handler) DeleteAccount(c *gin.Context) {
	var form deleteAccountForm
	if !bind(c, &form) {
		return
	}
	sid, err := auth.SessionID(c)
	if err != nil {
		h.fail(c, err, "/profile")
		return
	}
	user := auth.CurrentUser(c)

	err = h.engine.DeleteAccount(c.Request.Context(), user, sid, form.Password, form.Code)
	switch {
	case errors.Is(err, engine.ErrCodeExpired):
		redirect(c, models.FlashDanger, "The confirmation code has expired. We have sent you a new one.", "/delete_account")
		return
	case errors.Is(err, engine.ErrInvalidOrExpiredCode), errors.Is(err, engine.ErrInvalidCredential):
		auth.AddFlash(c, models.FlashDanger, "Invalid password or confirmation code.")
		h.render(c, "delete_account", gin.H{"code_validity_minutes": int(h.engine.ChallengeTTL().Minutes())})
		return
	case err != nil:
		h.fail(c, err, "/profile")
		return
	}

	if err := auth.Logout(c); err != nil {
		log.Error("failed to clear session", "error", err)
	}
	redirect(c, models.FlashSuccess, "Your account has been permanently deleted.", "/")
}
