package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/api/auth"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/api/models"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/config"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/engine"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/gravatar"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/validation"
	"github.com/ccoveille/go-safecast"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const mailFailedMessage = "We could not send the e-mail. Please try again later."

var registerValidator sync.Once

type Handler struct {
	engine  *engine.Engine
	config  *config.Config
	convert *models.Converter
}

func New(eng *engine.Engine, cfg *config.Config) *Handler {
	registerValidator.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			if err := validation.Register(v); err != nil {
				log.Fatal("failed to register form validators", "error", err)
			}
		}
	})
	return &Handler{
		engine:  eng,
		config:  cfg,
		convert: models.NewConverter(eng.Media(), gravatar.New(cfg.Gravatar), eng.Now),
	}
}

// render writes a page as JSON, together with the current user and the pending flashes.
func (h *Handler) render(c *gin.Context, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["page"] = page
	data["user"] = h.convert.ToUser(auth.CurrentUser(c))
	data["flashes"] = auth.Flashes(c)
	c.JSON(http.StatusOK, data)
}

func redirect(c *gin.Context, category, message, location string) {
	if message != "" {
		auth.AddFlash(c, category, message)
	}
	c.Redirect(http.StatusFound, location)
}

func notFound(c *gin.Context) {
	c.String(http.StatusNotFound, http.StatusText(http.StatusNotFound))
}

func forbidden(c *gin.Context) {
	c.String(http.StatusForbidden, http.StatusText(http.StatusForbidden))
}

func invalid(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fields})
}

// ruleMessages names the business rule a request broke. Order matters, more specific errors first.
var ruleMessages = []struct {
	err error
	msg string
}{
	{engine.ErrCapacityExceeded, "This tournament is full."},
	{engine.ErrTournamentClosed, "Registration for this tournament is closed."},
	{engine.ErrAlreadyRegistered, "You are already registered for this tournament."},
	{engine.ErrNotRegistered, "You are not registered for this tournament."},
	{engine.ErrInvalidCredential, "Invalid password."},
	{engine.ErrCodeExpired, "The confirmation code has expired. Please request a new one."},
	{engine.ErrInvalidOrExpiredCode, "Invalid password or confirmation code."},
	{engine.ErrInvalidToken, "The link is invalid or has expired."},
	{engine.ErrEmailNotVerified, "Please verify your e-mail address before logging in."},
}

func ruleMessage(err error) (string, bool) {
	var cooldown *engine.UsernameCooldownError
	if errors.As(err, &cooldown) {
		return "You can change your username again in " + strconv.Itoa(cooldown.DaysLeft) + " days.", true
	}
	for _, r := range ruleMessages {
		if errors.Is(err, r.err) {
			return r.msg, true
		}
	}
	return "", false
}

// fail maps an engine error to a response. Broken business rules and mail failures
// are flashed and sent back to location.
func (h *Handler) fail(c *gin.Context, err error, location string) {
	var verr *engine.ValidationError
	switch {
	case errors.As(err, &verr):
		invalid(c, verr.Fields)
	case errors.Is(err, engine.ErrNotFound):
		notFound(c)
	case errors.Is(err, engine.ErrForbidden):
		forbidden(c)
	case errors.Is(err, engine.ErrMailDelivery):
		redirect(c, models.FlashWarning, mailFailedMessage, location)
	default:
		if msg, ok := ruleMessage(err); ok {
			redirect(c, models.FlashDanger, msg, location)
			return
		}
		log.Error("request failed", "path", c.Request.URL.Path, "error", err)
		c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

// bind parses the form into obj and answers 422 if it does not validate.
func bind(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil {
		invalid(c, validation.Format(err))
		return false
	}
	return true
}

func parseUintParam(param string) (uint, error) {
	id, err := strconv.ParseUint(param, 10, 0)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// idParam reads a numeric path parameter. Anything else is a 404.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := parseUintParam(c.Param(name))
	if err != nil || id == 0 {
		notFound(c)
		return 0, false
	}
	return id, true
}

// pageParam reads ?page=, defaulting to 1.
func pageParam(c *gin.Context) int {
	p, err := parseUintParam(c.Query("page"))
	if err != nil || p == 0 {
		return 1
	}
	page, err := safecast.ToInt(p)
	if err != nil {
		return 1
	}
	return page
}

// formImage returns the uploaded file in field, or nil if none was sent.
// The caller closes the returned file.
func formImage(c *gin.Context, field string) (*engine.Upload, multipart.File, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	if header.Filename == "" || header.Size == 0 {
		return nil, nil, nil
	}
	f, err := header.Open()
	if err != nil {
		return nil, nil, err
	}
	return &engine.Upload{Filename: header.Filename, Body: f}, f, nil
}

// safeNext returns next if it is a local path, "/" otherwise.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
