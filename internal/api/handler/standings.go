package handler

import (
	"net/http"

	"github.com/mcoot/fantasyhockey/internal/api/response"
	"github.com/mcoot/fantasyhockey/internal/services/standings"
)

// StandingsHandler handles standings and live score endpoints
type StandingsHandler struct {
	standingsService *standings.Service
}

// NewStandingsHandler creates a new standings handler
func NewStandingsHandler(standingsService *standings.Service) *StandingsHandler {
	return &StandingsHandler{
		standingsService: standingsService,
	}
}

// Get handles GET /api/v1/standings
func (h *StandingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	teams, err := h.standingsService.Standings(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StandingsFromModel(teams))
}

// Recompute handles POST /api/v1/standings/recompute
func (h *StandingsHandler) Recompute(w http.ResponseWriter, r *http.Request) {
	teams, err := h.standingsService.RecomputeStandings(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StandingsFromModel(teams))
}

// LiveScores handles POST /api/v1/scores/live
func (h *StandingsHandler) LiveScores(w http.ResponseWriter, r *http.Request) {
	week, matchups, err := h.standingsService.RefreshLiveScores(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LiveScores{
		Week:     response.WeekFromModel(week),
		Matchups: response.MatchupsFromModel(matchups),
	})
}
