package handler

import (
	"fmt"
	"net/http"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/api/auth"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/api/models"
	"github.com/QL1STY/Badminton-IPBA-Project/internal/engine"
	"github.com/gin-gonic/gin"
)

func tournamentPath(id uint) string {
	return fmt.Sprintf("/tournament/%d", id)
}

// RegisterForTournament signs the current user up. Every outcome redirects back to the tournament.
func (h *Handler) RegisterForTournament(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.engine.Register(c.Request.Context(), auth.CurrentUser(c), id); err != nil {
		h.fail(c, err, tournamentPath(id))
		return
	}
	redirect(c, models.FlashSuccess, "You have been registered for the tournament.", tournamentPath(id))
}

func (h *Handler) UnregisterFromTournament(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.engine.Unregister(c.Request.Context(), auth.CurrentUser(c), id); err != nil {
		h.fail(c, err, tournamentPath(id))
		return
	}
	redirect(c, models.FlashSuccess, "You have been unregistered from the tournament.", tournamentPath(id))
}

// ExportRegistrations serves the player list as a JSON download.
func (h *Handler) ExportRegistrations(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	t, records, err := h.engine.ExportRegistrations(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err, "/admin/tournaments")
		return
	}
	body, err := engine.MarshalRecords(records)
	if err != nil {
		h.fail(c, err, "/admin/tournaments")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=tournament_%d_registrations.json", t.ID))
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
