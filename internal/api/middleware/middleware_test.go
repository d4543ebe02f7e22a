package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func TestLoggingLogsAPIRequests(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	rr := httptest.NewRecorder()
	Logging(logger)(http.HandlerFunc(okHandler)).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/locked-teams", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Contains(t, buf.String(), `"path":"/api/v1/locked-teams"`)
	assert.Contains(t, buf.String(), `"status":204`)
}

func TestAdminToken(t *testing.T) {
	h := AdminToken("sekrit")(http.HandlerFunc(okHandler))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/season/init", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/season/init", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/season/init", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestAdminTokenEmptyDisablesCheck(t *testing.T) {
	rr := httptest.NewRecorder()
	AdminToken("")(http.HandlerFunc(okHandler)).
		ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/standings/recompute", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestRecoveryWritesJSONError(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))

	rr := httptest.NewRecorder()
	Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/standings", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "INTERNAL_ERROR")
}
