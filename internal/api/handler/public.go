package handler

import (
	"errors"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/api/auth"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/api/models"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/engine"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// Home shows the latest posts and the next and most recent tournaments.
func (h *Handler) Home(c *gin.Context) {
	home, err := h.engine.GetHomePage(c.Request.Context())
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	h.render(c, "home", gin.H{
		"posts":    h.convert.ToPosts(home.Posts),
		"upcoming": h.convert.ToTournaments(home.Upcoming),
		"past":     h.convert.ToTournaments(home.Past),
	})
}

func (h *Handler) News(c *gin.Context) {
	posts, err := h.engine.ListPosts(c.Request.Context(), pageParam(c))
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	h.render(c, "news", gin.H{"posts": models.ToPage(posts, h.convert.ToPosts)})
}

func (h *Handler) Post(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	post, err := h.engine.GetPost(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "/news")
		return
	}
	h.render(c, "post", gin.H{"post": h.convert.ToPost(*post)})
}

// Tournaments lists every upcoming tournament and one page of past ones.
func (h *Handler) Tournaments(c *gin.Context) {
	overview, err := h.engine.GetTournamentOverview(c.Request.Context(), pageParam(c))
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	h.render(c, "tournaments", gin.H{
		"upcoming": h.convert.ToTournaments(overview.Upcoming),
		"past":     models.ToPage(overview.Past, h.convert.ToTournaments),
	})
}

func (h *Handler) Tournament(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	details, err := h.engine.GetTournamentDetails(c.Request.Context(), id, auth.CurrentUser(c))
	if err != nil {
		h.fail(c, err, "/tournaments")
		return
	}
	h.render(c, "tournament", gin.H{"details": h.convert.ToTournamentDetails(details)})
}

func (h *Handler) ContactPage(c *gin.Context) {
	h.render(c, "contact", nil)
}

// Contact forwards the message to the club's mailbox.
func (h *Handler) Contact(c *gin.Context) {
	var form contactForm
	if !bind(c, &form) {
		return
	}
	err := h.engine.SendContactMessage(engine.ContactInput{
		Name:    form.Name,
		Email:   form.Email,
		Subject: form.Subject,
		Message: form.Message,
	})
	if err != nil {
		if !errors.Is(err, engine.ErrMailDelivery) {
			log.Error("failed to forward contact message", "error", err)
		}
		redirect(c, models.FlashDanger, "Your message could not be sent. Please try again later.", "/contact")
		return
	}
	redirect(c, models.FlashSuccess, "Thank you! Your message has been sent.", "/contact")
}
