package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI records requests and answers with canned JSON
type fakeAPI struct {
	*httptest.Server

	mu       sync.Mutex
	lastAuth string
	lastBody map[string]string
	resets   int
}

func (f *fakeAPI) last() (string, map[string]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastAuth, f.lastBody
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{}

	r := mux.NewRouter()
	r.HandleFunc("/api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.HandleFunc("/api/v1/ingest/games/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.lastAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&f.lastBody)
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{"game_id":2025020001,"recorded":3,"duplicates":0,"unknown":1,"failed":0}`))
	}).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/season/reset", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.resets++
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"outcome":"reset","weeks":20,"matchups":40}`))
	}).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/standings", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"rank":1,"team_id":"team-a","name":"Aces","wins":1,"league_points":3},` +
			`{"rank":2,"team_id":"team-b","name":"Bears","ot_wins":1,"league_points":2}]`))
	})
	r.HandleFunc("/api/v1/weeks/current", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"NO_CURRENT_WEEK","message":"No game week is current"}}`))
	})

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Close)
	return f
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHealthText(t *testing.T) {
	api := newFakeAPI(t)

	out, err := run(t, "--server", api.URL, "health")
	require.NoError(t, err)
	assert.Equal(t, "Status: ok\n", out)
}

func TestIngestGameSendsDateAndToken(t *testing.T) {
	api := newFakeAPI(t)

	out, err := run(t, "--server", api.URL, "--token", "s3cret", "ingest", "game", "2025020001", "--date", "2025-10-08")
	require.NoError(t, err)
	auth, body := api.last()
	assert.Equal(t, "Bearer s3cret", auth)
	assert.Equal(t, map[string]string{"date": "2025-10-08"}, body)
	assert.Contains(t, out, "Game 2025020001: 3 recorded, 0 duplicates, 1 unknown players, 0 failed")
}

func TestIngestGameRejectsBadDate(t *testing.T) {
	api := newFakeAPI(t)

	_, err := run(t, "--server", api.URL, "ingest", "game", "1", "--date", "10/08/2025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--date")

	_, err = run(t, "--server", api.URL, "ingest", "range", "--start", "2025-10-09", "--end", "2025-10-08")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before")

	_, err = run(t, "--server", api.URL, "ingest", "range", "--start", "2025-10-01", "--end", "2025-11-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most 31")
}

func TestSeasonResetRequiresConfirm(t *testing.T) {
	api := newFakeAPI(t)

	_, err := run(t, "--server", api.URL, "season", "reset")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--confirm")

	out, err := run(t, "--server", api.URL, "season", "reset", "--confirm")
	require.NoError(t, err)
	assert.Equal(t, "Season reset: 20 weeks, 40 matchups\n", out)

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, 1, api.resets)
}

func TestStandingsJSONAndText(t *testing.T) {
	api := newFakeAPI(t)

	out, err := run(t, "--server", api.URL, "-o", "json", "standings", "show")
	require.NoError(t, err)
	var table Table
	require.NoError(t, json.Unmarshal([]byte(out), &table))
	require.Len(t, table, 2)
	assert.Equal(t, "team-b", table[1].TeamID)

	out, err = run(t, "--server", api.URL, "standings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Aces")
	assert.Contains(t, out, "Pts")
}

func TestAPIErrorSurfaces(t *testing.T) {
	api := newFakeAPI(t)

	_, err := run(t, "--server", api.URL, "weeks", "current")
	require.Error(t, err)
	assert.Equal(t, "No game week is current (NO_CURRENT_WEEK)", err.Error())
}

func TestUnknownOutputFormat(t *testing.T) {
	api := newFakeAPI(t)

	_, err := run(t, "--server", api.URL, "-o", "yaml", "health")
	require.Error(t, err)
}
