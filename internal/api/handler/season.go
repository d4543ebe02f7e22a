package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/fantasyhockey/internal/api/response"
	"github.com/mcoot/fantasyhockey/internal/model"
	"github.com/mcoot/fantasyhockey/internal/services/schedule"
	"github.com/mcoot/fantasyhockey/internal/services/standings"
)

// SeasonHandler handles season, week and matchup endpoints
type SeasonHandler struct {
	scheduleService  *schedule.Service
	standingsService *standings.Service
}

// NewSeasonHandler creates a new season handler
func NewSeasonHandler(scheduleService *schedule.Service, standingsService *standings.Service) *SeasonHandler {
	return &SeasonHandler{
		scheduleService:  scheduleService,
		standingsService: standingsService,
	}
}

// Init handles POST /api/v1/season/init
func (h *SeasonHandler) Init(w http.ResponseWriter, r *http.Request) {
	result, err := h.scheduleService.InitializeSeason(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	status := http.StatusOK
	if result.Outcome != schedule.InitSkipped {
		status = http.StatusCreated
	}
	response.JSON(w, status, response.SeasonInitFromResult(result))
}

// Reset handles POST /api/v1/season/reset
func (h *SeasonHandler) Reset(w http.ResponseWriter, r *http.Request) {
	result, err := h.scheduleService.ResetSeason(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SeasonInitFromResult(result))
}

// CurrentWeek handles GET /api/v1/weeks/current
func (h *SeasonHandler) CurrentWeek(w http.ResponseWriter, r *http.Request) {
	week, err := h.scheduleService.CurrentWeek(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.WeekFromModel(week))
}

// GetWeek handles GET /api/v1/weeks/{number}
func (h *SeasonHandler) GetWeek(w http.ResponseWriter, r *http.Request) {
	number, ok := weekNumber(w, r)
	if !ok {
		return
	}

	week, err := h.scheduleService.WeekByNumber(r.Context(), number)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.WeekFromModel(week))
}

// WeekMatchups handles GET /api/v1/weeks/{number}/matchups
func (h *SeasonHandler) WeekMatchups(w http.ResponseWriter, r *http.Request) {
	number, ok := weekNumber(w, r)
	if !ok {
		return
	}

	week, err := h.scheduleService.WeekByNumber(r.Context(), number)
	if err != nil {
		WriteError(w, err)
		return
	}
	matchups, err := h.scheduleService.MatchupsForWeek(r.Context(), number)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.WeekMatchups{
		Week:     response.WeekFromModel(week),
		Matchups: response.MatchupsFromModel(matchups),
	})
}

// Matchup handles GET /api/v1/matchups/{id}
func (h *SeasonHandler) Matchup(w http.ResponseWriter, r *http.Request) {
	id := model.MatchupID(mux.Vars(r)["id"])

	detail, err := h.standingsService.MatchupDetail(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MatchupDetailFromModel(detail))
}

func weekNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	number, err := strconv.Atoi(mux.Vars(r)["number"])
	if err != nil || number < 1 {
		WriteError(w, NewInvalidRequestError("week number must be a positive integer"))
		return 0, false
	}
	return number, true
}
