package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/fantasyhockey/internal/api/request"
	"github.com/mcoot/fantasyhockey/internal/api/response"
	"github.com/mcoot/fantasyhockey/internal/model"
	"github.com/mcoot/fantasyhockey/internal/services/ingest"
)

// IngestHandler handles stat, roster and injury ingestion endpoints
type IngestHandler struct {
	ingestService *ingest.Service
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(ingestService *ingest.Service) *IngestHandler {
	return &IngestHandler{
		ingestService: ingestService,
	}
}

// Game handles POST /api/v1/ingest/games/{gameId}
func (h *IngestHandler) Game(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["gameId"], 10, 64)
	if err != nil {
		WriteError(w, NewInvalidRequestError("game id must be an integer"))
		return
	}

	var req request.IngestGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if !req.Date.IsValid() {
		WriteError(w, NewInvalidRequestError("date is required"))
		return
	}

	result, err := h.ingestService.IngestGame(r.Context(), model.GameID(id), req.Date)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameIngestFromResult(result))
}

// Range handles POST /api/v1/ingest/range
func (h *IngestHandler) Range(w http.ResponseWriter, r *http.Request) {
	var req request.IngestRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if !req.Start.IsValid() || !req.End.IsValid() {
		WriteError(w, NewInvalidRequestError("start and end are required"))
		return
	}
	if req.Days() > request.MaxIngestRangeDays {
		WriteError(w, NewInvalidRequestError(
			fmt.Sprintf("range covers %d days; at most %d per request", req.Days(), request.MaxIngestRangeDays)))
		return
	}

	result, err := h.ingestService.IngestDateRange(r.Context(), req.Start, req.End)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RangeIngestFromResult(result))
}

// Rosters handles POST /api/v1/rosters/import
func (h *IngestHandler) Rosters(w http.ResponseWriter, r *http.Request) {
	result, err := h.ingestService.ImportRosters(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RosterImportFromResult(result))
}

// Injuries handles POST /api/v1/injuries/update
func (h *IngestHandler) Injuries(w http.ResponseWriter, r *http.Request) {
	injured, err := h.ingestService.UpdateInjuries(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.InjuryUpdate{Injured: injured})
}
