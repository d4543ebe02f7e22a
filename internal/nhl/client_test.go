package nhl

import (
	"context"
	"embed"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/fantasyhockey/internal/model"
	"github.com/mcoot/fantasyhockey/internal/testutil"
)

//go:embed testdata
var testdata embed.FS

type ClientSuite struct {
	suite.Suite
	server   *httptest.Server
	client   *Client
	ctx      context.Context
	mu       sync.Mutex
	requests []string
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.requests = nil

	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			s.mu.Lock()
			s.requests = append(s.requests, req.URL.Path)
			s.mu.Unlock()
			next.ServeHTTP(w, req)
		})
	})
	r.HandleFunc("/v1/schedule/{date}", s.serveFile("testdata/schedule.json")).Methods(http.MethodGet)
	r.HandleFunc("/v1/gamecenter/2025020005/boxscore", s.serveFile("testdata/boxscore.json")).Methods(http.MethodGet)
	r.HandleFunc("/v1/gamecenter/{id}/boxscore", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.HandleFunc("/v1/roster/BOS/current", s.serveFile("testdata/roster.json")).Methods(http.MethodGet)
	r.HandleFunc("/v1/roster/XXX/current", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	})

	s.server = httptest.NewServer(r)
	cfg := DefaultConfig()
	cfg.BaseURL = s.server.URL
	s.client = New(cfg, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ClientSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientSuite) serveFile(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		data, err := testdata.ReadFile(name)
		s.Require().NoError(err)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}
}

func (s *ClientSuite) TestGamesOnKeepsOnlyRequestedDay() {
	games, err := s.client.GamesOn(s.ctx, civil.Date{Year: 2025, Month: 10, Day: 9})
	s.Require().NoError(err)
	s.Require().Len(games, 2)

	s.Equal(model.GameID(2025020011), games[0].ID)
	s.Equal("TBL", games[0].HomeTeam)
	s.Equal("MTL", games[0].AwayTeam)
	s.Equal(model.GameStateFuture, games[0].State)
	s.Equal("2025-10-09T23:00:00Z", games[0].StartTimeUTC)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Equal([]string{"/v1/schedule/2025-10-09"}, s.requests)
}

func (s *ClientSuite) TestGamesOnDayWithoutGames() {
	games, err := s.client.GamesOn(s.ctx, civil.Date{Year: 2025, Month: 10, Day: 12})
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *ClientSuite) TestBoxscoreMergesDefenseSpellings() {
	box, err := s.client.Boxscore(s.ctx, 2025020005)
	s.Require().NoError(err)

	s.Equal("TOR", box.HomeTeam)
	s.Equal(4, box.HomeScore)
	s.Equal(2, box.AwayScore)
	s.Equal(model.GameStateOfficial, box.State)

	s.Require().Len(box.Home.Skaters, 2)
	s.Equal(model.PlayerID(8479318), box.Home.Skaters[0].PlayerID)
	s.Equal(3, box.Home.Skaters[0].Goals)
	s.Equal(6, box.Home.Skaters[0].Shots)
	s.Equal(model.PlayerID(8476853), box.Home.Skaters[1].PlayerID)
	s.Equal(3, box.Home.Skaters[1].Blocks)

	s.Require().Len(box.Away.Skaters, 2)
	s.Equal(2, box.Away.Skaters[0].PenaltyMinutes)
}

func (s *ClientSuite) TestBoxscoreGoalieCounts() {
	box, err := s.client.Boxscore(s.ctx, 2025020005)
	s.Require().NoError(err)

	s.Require().Len(box.Home.Goalies, 1)
	s.Equal(26, box.Home.Goalies[0].Saves)
	s.Equal(28, box.Home.Goalies[0].ShotsAgainst)

	// Only the summary string is present for the away goalie
	s.Require().Len(box.Away.Goalies, 1)
	s.Equal(29, box.Away.Goalies[0].Saves)
	s.Equal(33, box.Away.Goalies[0].ShotsAgainst)
}

func (s *ClientSuite) TestBoxscoreNotFoundIsExternalFetchFailure() {
	_, err := s.client.Boxscore(s.ctx, 1)
	s.ErrorIs(err, model.ErrExternalFetch)
}

func (s *ClientSuite) TestRoster() {
	players, err := s.client.Roster(s.ctx, "bos")
	s.Require().NoError(err)
	s.Require().Len(players, 3)

	s.Equal("David", players[0].FirstName)
	s.Equal("Pastrnak", players[0].LastName)
	s.Equal("R", players[0].Position)
	s.Equal("D", players[1].Position)
	s.Equal(model.PlayerID(8480280), players[2].ID)
}

func (s *ClientSuite) TestMalformedBodyIsExternalFetchFailure() {
	_, err := s.client.Roster(s.ctx, "XXX")
	s.ErrorIs(err, model.ErrExternalFetch)
}

func (s *ClientSuite) TestUnreachableServer() {
	s.server.Close()
	_, err := s.client.GamesOn(s.ctx, civil.Date{Year: 2025, Month: 10, Day: 9})
	s.ErrorIs(err, model.ErrExternalFetch)
}
