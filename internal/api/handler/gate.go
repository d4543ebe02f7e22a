package handler

import (
	"net/http"

	"github.com/mcoot/fantasyhockey/internal/api/response"
	"github.com/mcoot/fantasyhockey/internal/services/gate"
)

// GateHandler reports which real-world teams are playing today
type GateHandler struct {
	gateService *gate.Service
}

// NewGateHandler creates a new gate handler
func NewGateHandler(gateService *gate.Service) *GateHandler {
	return &GateHandler{
		gateService: gateService,
	}
}

// LockedTeams handles GET /api/v1/locked-teams
func (h *GateHandler) LockedTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.gateService.LockedTeams(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LockedTeams{Teams: teams})
}

// GameStatuses handles GET /api/v1/game-statuses
func (h *GateHandler) GameStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.gateService.TeamGameStatuses(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameStatusesFromModel(statuses))
}
