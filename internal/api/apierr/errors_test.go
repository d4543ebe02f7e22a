package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/fantasyhockey/internal/model"
)

func TestWriteErrorMapsModelErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("week 40: %w", model.ErrWeekNotFound), http.StatusNotFound, CodeWeekNotFound},
		{model.ErrNoCurrentWeek, http.StatusNotFound, CodeNoCurrentWeek},
		{model.ErrMatchupNotFound, http.StatusNotFound, CodeMatchupNotFound},
		{fmt.Errorf("%w: 5 teams", model.ErrOddTeamCount), http.StatusConflict, CodeOddTeamCount},
		{fmt.Errorf("%w: game 1 is LIVE", model.ErrGameNotFinal), http.StatusConflict, CodeGameNotFinal},
		{model.ErrInvalidDateRange, http.StatusBadRequest, CodeInvalidDateRange},
		{fmt.Errorf("%w: schedule: 503", model.ErrExternalFetch), http.StatusBadGateway, CodeUpstreamFailure},
		{NewInvalidRequestError("bad"), http.StatusBadRequest, CodeInvalidRequest},
		{errors.New("boom"), http.StatusInternalServerError, CodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var resp ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}
