package handler

import (
	"errors"
	"fmt"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/api/auth"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/api/models"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/database"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/engine"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

const (
	adminUsersPath       = "/admin/users"
	adminPostsPath       = "/admin/posts"
	adminTournamentsPath = "/admin/tournaments"
)

// AdminHandler serves the back-office. Every route sits behind the admin policy.
type AdminHandler struct {
	*Handler
}

func NewAdmin(h *Handler) *AdminHandler {
	return &AdminHandler{Handler: h}
}

func winnersPath(id uint) string {
	return fmt.Sprintf("/admin/tournament/%d/manage_winners", id)
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.engine.DashboardStats(c.Request.Context())
	if err != nil {
		h.fail(c, err, "/")
		return
	}
	h.render(c, "admin_dashboard", gin.H{"stats": stats})
}

func (h *AdminHandler) Users(c *gin.Context) {
	users, err := h.engine.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err, "/admin/dashboard")
		return
	}
	h.render(c, "admin_users", gin.H{"users": models.ToAdminUsers(users)})
}

const selfToggleMessage = "You cannot change your own administrator rights."

// ToggleAdminPage asks the admin to confirm with their own password.
func (h *AdminHandler) ToggleAdminPage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	target, err := h.engine.CheckToggleAdmin(c.Request.Context(), auth.CurrentUser(c), id)
	if errors.Is(err, engine.ErrForbidden) {
		redirect(c, models.FlashDanger, selfToggleMessage, adminUsersPath)
		return
	}
	if err != nil {
		h.fail(c, err, adminUsersPath)
		return
	}
	action := "grant"
	if target.IsAdmin {
		action = "revoke"
	}
	h.render(c, "admin_toggle_confirm", gin.H{
		"target": models.ToAdminUsers([]database.User{*target})[0],
		"action": action,
	})
}

// ToggleAdmin flips the target's admin flag. Self-targets are turned away before the password is looked at.
func (h *AdminHandler) ToggleAdmin(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	actor := auth.CurrentUser(c)
	if actor.ID == id {
		redirect(c, models.FlashDanger, selfToggleMessage, adminUsersPath)
		return
	}
	var form confirmPasswordForm
	if !bind(c, &form) {
		return
	}
	target, err := h.engine.ToggleAdmin(c.Request.Context(), actor, id, form.Password)
	switch {
	case errors.Is(err, engine.ErrForbidden):
		redirect(c, models.FlashDanger, selfToggleMessage, adminUsersPath)
	case errors.Is(err, engine.ErrInvalidCredential):
		redirect(c, models.FlashDanger, "Invalid password. The operation was cancelled.", adminUsersPath)
	case err != nil:
		h.fail(c, err, adminUsersPath)
	case target.IsAdmin:
		redirect(c, models.FlashSuccess, fmt.Sprintf("%s is now an administrator.", target.Username), adminUsersPath)
	default:
		redirect(c, models.FlashSuccess, fmt.Sprintf("%s is no longer an administrator.", target.Username), adminUsersPath)
	}
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	err := h.engine.DeleteUser(c.Request.Context(), auth.CurrentUser(c), id)
	if errors.Is(err, engine.ErrForbidden) {
		redirect(c, models.FlashDanger, "You cannot delete your own account here.", adminUsersPath)
		return
	}
	if err != nil {
		h.fail(c, err, adminUsersPath)
		return
	}
	redirect(c, models.FlashSuccess, "The user and all their data have been deleted.", adminUsersPath)
}

func (h *AdminHandler) Posts(c *gin.Context) {
	posts, err := h.engine.ListPosts(c.Request.Context(), pageParam(c))
	if err != nil {
		h.fail(c, err, "/admin/dashboard")
		return
	}
	h.render(c, "admin_posts", gin.H{"posts": models.ToPage(posts, h.convert.ToPosts)})
}

func (h *AdminHandler) DeletePost(c *gin.Context) {
	h.deletePost(c, adminPostsPath)
}

func (h *AdminHandler) Tournaments(c *gin.Context) {
	ts, err := h.engine.ListTournaments(c.Request.Context())
	if err != nil {
		h.fail(c, err, "/admin/dashboard")
		return
	}
	h.render(c, "admin_tournaments", gin.H{"tournaments": h.convert.ToTournaments(ts)})
}

// tournamentInput binds the tournament form and the optional banner. done releases the upload.
func tournamentInput(c *gin.Context) (in engine.TournamentInput, done func(), ok bool) {
	done = func() {}
	var form tournamentForm
	if !bind(c, &form) {
		return in, done, false
	}
	banner, f, err := formImage(c, "banner")
	if err != nil {
		invalid(c, map[string]string{"banner": "Could not read the uploaded file"})
		return in, done, false
	}
	if f != nil {
		done = func() {
			if err := f.Close(); err != nil {
				log.Warn("failed to close upload", "error", err)
			}
		}
	}
	return engine.TournamentInput{
		Title:       form.Title,
		Description: form.Description,
		Location:    form.Location,
		StartDate:   form.StartDate,
		EndDate:     form.EndDate,
		MaxPlayers:  form.MaxPlayers,
		Banner:      banner,
	}, done, true
}

func (h *AdminHandler) NewTournamentPage(c *gin.Context) {
	h.render(c, "admin_tournament_form", nil)
}

func (h *AdminHandler) CreateTournament(c *gin.Context) {
	in, done, ok := tournamentInput(c)
	defer done()
	if !ok {
		return
	}
	t, err := h.engine.CreateTournament(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err, "/admin/tournaments/new")
		return
	}
	redirect(c, models.FlashSuccess, fmt.Sprintf("Tournament %q has been created.", t.Title), adminTournamentsPath)
}

func (h *AdminHandler) EditTournamentPage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	t, err := h.engine.GetTournament(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, adminTournamentsPath)
		return
	}
	h.render(c, "admin_tournament_form", gin.H{"tournament": h.convert.ToTournament(*t)})
}

func (h *AdminHandler) UpdateTournament(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	in, done, ok := tournamentInput(c)
	defer done()
	if !ok {
		return
	}
	if _, err := h.engine.UpdateTournament(c.Request.Context(), id, in); err != nil {
		h.fail(c, err, fmt.Sprintf("/admin/tournament/%d/update", id))
		return
	}
	redirect(c, models.FlashSuccess, "The tournament has been updated.", adminTournamentsPath)
}

func (h *AdminHandler) DeleteTournament(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.engine.DeleteTournament(c.Request.Context(), id); err != nil {
		h.fail(c, err, adminTournamentsPath)
		return
	}
	redirect(c, models.FlashSuccess, "The tournament has been deleted.", adminTournamentsPath)
}

// DeleteRegistration removes a player from a tournament, also after it has started.
func (h *AdminHandler) DeleteRegistration(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}
	if err := h.engine.RemoveRegistration(c.Request.Context(), id, userID); err != nil {
		h.fail(c, err, tournamentPath(id))
		return
	}
	redirect(c, models.FlashSuccess, "The registration has been removed.", tournamentPath(id))
}

func (h *AdminHandler) ManageWinnersPage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	t, err := h.engine.GetTournament(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, adminTournamentsPath)
		return
	}
	winners, err := h.engine.ListWinners(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, adminTournamentsPath)
		return
	}
	users, err := h.engine.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err, adminTournamentsPath)
		return
	}
	h.render(c, "admin_manage_winners", gin.H{
		"tournament": h.convert.ToTournament(*t),
		"winners":    models.ToWinners(winners),
		"users":      models.ToAdminUsers(users),
	})
}

func (h *AdminHandler) AddWinner(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var form winnerForm
	if !bind(c, &form) {
		return
	}
	if _, err := h.engine.RecordWinner(c.Request.Context(), id, form.UserID, form.Placing); err != nil {
		h.fail(c, err, winnersPath(id))
		return
	}
	redirect(c, models.FlashSuccess, "The winner has been added!", winnersPath(id))
}

func (h *AdminHandler) DeleteWinner(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	tournamentID, err := h.engine.DeleteWinner(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, adminTournamentsPath)
		return
	}
	redirect(c, models.FlashSuccess, "The winner entry has been removed.", winnersPath(tournamentID))
}
