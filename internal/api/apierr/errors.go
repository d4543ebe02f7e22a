package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/fantasyhockey/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidDateRange = "INVALID_DATE_RANGE"
	CodeInvalidStatLine  = "INVALID_STAT_LINE"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodePlayerNotFound   = "PLAYER_NOT_FOUND"
	CodeTeamNotFound     = "TEAM_NOT_FOUND"
	CodeWeekNotFound     = "WEEK_NOT_FOUND"
	CodeNoCurrentWeek    = "NO_CURRENT_WEEK"
	CodeMatchupNotFound  = "MATCHUP_NOT_FOUND"
	CodeOddTeamCount     = "ODD_TEAM_COUNT"
	CodeGameNotFinal     = "GAME_NOT_FINAL"
	CodeUpstreamFailure  = "UPSTREAM_FAILURE"
	CodeInternalError    = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not found"}}
	case errors.Is(err, model.ErrTeamNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeTeamNotFound, "Team not found"}}
	case errors.Is(err, model.ErrWeekNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeWeekNotFound, "Game week not found"}}
	case errors.Is(err, model.ErrNoCurrentWeek):
		return &httpError{http.StatusNotFound, APIError{CodeNoCurrentWeek, "No game week is current"}}
	case errors.Is(err, model.ErrMatchupNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeMatchupNotFound, "Matchup not found"}}
	case errors.Is(err, model.ErrOddTeamCount):
		return &httpError{http.StatusConflict, APIError{CodeOddTeamCount, "The league needs an even number of teams"}}
	case errors.Is(err, model.ErrGameNotFinal):
		return &httpError{http.StatusConflict, APIError{CodeGameNotFinal, "Game has not finished"}}
	case errors.Is(err, model.ErrInvalidDateRange):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidDateRange, "End date is before start date"}}
	case errors.Is(err, model.ErrInvalidStatLine):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidStatLine, err.Error()}}
	case errors.Is(err, model.ErrExternalFetch):
		return &httpError{http.StatusBadGateway, APIError{CodeUpstreamFailure, "Data provider request failed"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
