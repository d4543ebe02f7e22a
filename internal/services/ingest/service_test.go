package ingest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/fantasyhockey/internal/dependencies/mocks"
	"github.com/mcoot/fantasyhockey/internal/espn/mockespn"
	"github.com/mcoot/fantasyhockey/internal/model"
	"github.com/mcoot/fantasyhockey/internal/nhl"
	"github.com/mcoot/fantasyhockey/internal/nhl/mocknhl"
	"github.com/mcoot/fantasyhockey/internal/services/scoring"
	"github.com/mcoot/fantasyhockey/internal/storage/memory"
	"github.com/mcoot/fantasyhockey/internal/testutil"
)

const (
	matthews model.PlayerID = 8479318
	marner   model.PlayerID = 8478483
	woll     model.PlayerID = 8479361
	swayman  model.PlayerID = 8480280
	stranger model.PlayerID = 1
)

type ServiceSuite struct {
	suite.Suite
	storage  *memory.Storage
	clock    *mocks.MockClock
	provider *mocknhl.Client
	injuries *mockespn.Scraper
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func oct(d int) civil.Date {
	return civil.Date{Year: 2025, Month: time.October, Day: d}
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 10, 10, 2, 0, 0, 0, time.UTC))
	s.provider = new(mocknhl.Client)
	s.injuries = new(mockespn.Scraper)
	s.ctx = context.Background()

	logger := testutil.NopLogger()
	cfg := Config{SweepDelay: 0, Teams: []string{"BOS", "TOR"}, Location: testutil.MustLocation("America/New_York")}
	s.service = New(s.storage, scoring.New(s.storage, s.clock, logger), s.provider, s.injuries, s.clock, cfg, logger)

	for _, p := range []*model.Player{
		{ID: matthews, FirstName: "Auston", LastName: "Matthews", Position: model.PositionCenter, NHLTeam: "TOR"},
		{ID: marner, FirstName: "Mitch", LastName: "Marner", Position: model.PositionRightWing, NHLTeam: "TOR"},
		{ID: woll, FirstName: "Joseph", LastName: "Woll", Position: model.PositionGoalie, NHLTeam: "TOR"},
		{ID: swayman, FirstName: "Jeremy", LastName: "Swayman", Position: model.PositionGoalie, NHLTeam: "BOS"},
	} {
		s.Require().NoError(s.storage.SavePlayer(s.ctx, p))
	}
}

func (s *ServiceSuite) TearDownTest() {
	s.provider.AssertExpectations(s.T())
	s.injuries.AssertExpectations(s.T())
}

func boxscore(id model.GameID) *nhl.Boxscore {
	return &nhl.Boxscore{
		GameID:    id,
		State:     model.GameStateOfficial,
		HomeTeam:  "TOR",
		AwayTeam:  "BOS",
		HomeScore: 4,
		AwayScore: 2,
		Home: nhl.TeamLines{
			Skaters: []nhl.SkaterStats{
				{PlayerID: matthews, Goals: 2, Assists: 1},
				{PlayerID: marner, Assists: 2, Shots: 3},
			},
			Goalies: []nhl.GoalieStats{{PlayerID: woll, Saves: 28, ShotsAgainst: 30}},
		},
		Away: nhl.TeamLines{
			Skaters: []nhl.SkaterStats{{PlayerID: stranger, Goals: 1}},
			Goalies: []nhl.GoalieStats{{PlayerID: swayman, Saves: 29, ShotsAgainst: 33}},
		},
	}
}

func (s *ServiceSuite) record(player model.PlayerID, date civil.Date) *model.StatRecord {
	records, err := s.storage.ListStatRecords(s.ctx, player, date, date)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	return records[0]
}

// IngestGame

func (s *ServiceSuite) TestIngestGameRecordsEveryKnownLine() {
	s.provider.On("Boxscore", mock.Anything, model.GameID(2025020005)).Return(boxscore(2025020005), nil)

	result, err := s.service.IngestGame(s.ctx, 2025020005, oct(9))
	s.Require().NoError(err)

	s.Equal(4, result.Recorded)
	s.Equal(1, result.Unknown)
	s.Equal(0, result.Failed)

	s.Equal(9, s.record(matthews, oct(9)).FantasyPoints)
	s.Equal(8, s.record(marner, oct(9)).FantasyPoints)

	home := s.record(woll, oct(9))
	s.True(home.Goalie)
	s.True(home.Win)
	s.Equal(2, home.GoalsAgainst)

	away := s.record(swayman, oct(9))
	s.False(away.Win)
	s.Equal(4, away.GoalsAgainst)
}

func (s *ServiceSuite) TestIngestGameTwiceIsNoOp() {
	s.provider.On("Boxscore", mock.Anything, model.GameID(7)).Return(boxscore(7), nil).Twice()

	_, err := s.service.IngestGame(s.ctx, 7, oct(9))
	s.Require().NoError(err)
	result, err := s.service.IngestGame(s.ctx, 7, oct(9))
	s.Require().NoError(err)

	s.Equal(0, result.Recorded)
	s.Equal(4, result.Duplicates)
}

func (s *ServiceSuite) TestIngestGameRejectsUnfinishedGame() {
	box := boxscore(7)
	box.State = model.GameStateLive
	s.provider.On("Boxscore", mock.Anything, model.GameID(7)).Return(box, nil)

	_, err := s.service.IngestGame(s.ctx, 7, oct(9))
	s.ErrorIs(err, model.ErrGameNotFinal)

	exists, err := s.storage.StatRecordExists(s.ctx, matthews, 7)
	s.Require().NoError(err)
	s.False(exists)
}

func (s *ServiceSuite) TestIngestGameProviderFailure() {
	s.provider.On("Boxscore", mock.Anything, model.GameID(7)).
		Return(nil, fmt.Errorf("%w: boom", model.ErrExternalFetch))

	_, err := s.service.IngestGame(s.ctx, 7, oct(9))
	s.ErrorIs(err, model.ErrExternalFetch)
}

func (s *ServiceSuite) TestIngestGameSkipsInvalidLines() {
	box := boxscore(7)
	box.Home.Goalies = []nhl.GoalieStats{{PlayerID: woll, Saves: 31, ShotsAgainst: 30}}
	s.provider.On("Boxscore", mock.Anything, model.GameID(7)).Return(box, nil)

	result, err := s.service.IngestGame(s.ctx, 7, oct(9))
	s.Require().NoError(err)
	s.Equal(1, result.Failed)
	s.Equal(3, result.Recorded)
}

// IngestDateRange

func (s *ServiceSuite) TestIngestDateRange() {
	s.provider.On("GamesOn", mock.Anything, oct(8)).
		Return(nil, fmt.Errorf("%w: down", model.ErrExternalFetch))
	s.provider.On("GamesOn", mock.Anything, oct(9)).Return([]model.ScheduledGame{
		{ID: 1, State: model.GameStateOfficial},
		{ID: 2, State: model.GameStateFinal},
		{ID: 3, State: model.GameStatePostponed},
	}, nil)
	s.provider.On("GamesOn", mock.Anything, oct(10)).Return([]model.ScheduledGame{}, nil)
	s.provider.On("Boxscore", mock.Anything, model.GameID(1)).Return(boxscore(1), nil)
	s.provider.On("Boxscore", mock.Anything, model.GameID(2)).
		Return(nil, fmt.Errorf("%w: 500", model.ErrExternalFetch))

	result, err := s.service.IngestDateRange(s.ctx, oct(8), oct(10))
	s.Require().NoError(err)

	s.Equal(3, result.Days)
	s.Equal(1, result.FailedDays)
	s.Equal(1, result.Games)
	s.Equal(1, result.FailedGames)
	s.Equal(1, result.SkippedGames)
	s.Equal(4, result.Lines.Recorded)

	s.Equal(oct(9), s.record(matthews, oct(9)).Date)
}

func (s *ServiceSuite) TestIngestDateRangeIgnoresCancellation() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	s.provider.On("GamesOn", mock.Anything, oct(9)).Return([]model.ScheduledGame{{ID: 1, State: model.GameStateOfficial}}, nil)
	s.provider.On("Boxscore", mock.Anything, model.GameID(1)).Return(boxscore(1), nil)

	result, err := s.service.IngestDateRange(ctx, oct(9), oct(9))
	s.Require().NoError(err)
	s.Equal(1, result.Games)
}

func (s *ServiceSuite) TestIngestDateRangeRejectsInvertedRange() {
	_, err := s.service.IngestDateRange(s.ctx, oct(10), oct(9))
	s.ErrorIs(err, model.ErrInvalidDateRange)
}

func (s *ServiceSuite) TestIngestYesterdayUsesLeagueTimeZone() {
	// 02:00 UTC on Oct 10 is the evening of Oct 9 in New York
	s.provider.On("GamesOn", mock.Anything, oct(8)).Return([]model.ScheduledGame{}, nil)

	result, err := s.service.IngestYesterday(s.ctx)
	s.Require().NoError(err)
	s.Equal(oct(8), result.Start)
	s.Equal(oct(8), result.End)
}

// Rosters and injuries

func (s *ServiceSuite) TestImportRosters() {
	injured, err := s.storage.GetPlayer(s.ctx, swayman)
	s.Require().NoError(err)
	injured.Injured = true
	s.Require().NoError(s.storage.SavePlayer(s.ctx, injured))

	s.provider.On("Roster", mock.Anything, "BOS").Return([]nhl.RosterPlayer{
		{ID: swayman, FirstName: "Jeremy", LastName: "Swayman", Position: "G"},
		{ID: 8477956, FirstName: "David", LastName: "Pastrnak", Position: "R"},
		{ID: 99, FirstName: "Mystery", LastName: "Man", Position: "X"},
	}, nil)
	s.provider.On("Roster", mock.Anything, "TOR").Return(nil, fmt.Errorf("%w: 503", model.ErrExternalFetch))

	result, err := s.service.ImportRosters(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, result.Teams)
	s.Equal(1, result.FailedTeams)
	s.Equal(2, result.Players)
	s.Equal(1, result.Skipped)

	pasta, err := s.storage.GetPlayer(s.ctx, 8477956)
	s.Require().NoError(err)
	s.Equal(model.PositionRightWing, pasta.Position)
	s.Equal("BOS", pasta.NHLTeam)

	sway, err := s.storage.GetPlayer(s.ctx, swayman)
	s.Require().NoError(err)
	s.True(sway.Injured)

	_, err = s.storage.GetPlayer(s.ctx, 99)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestUpdateInjuries() {
	healed, err := s.storage.GetPlayer(s.ctx, marner)
	s.Require().NoError(err)
	healed.Injured = true
	s.Require().NoError(s.storage.SavePlayer(s.ctx, healed))

	s.injuries.On("InjuredPlayers", mock.Anything).Return(map[string]string{
		"Auston Matthews": "Out",
		"Someone Else":    "Injured Reserve",
	}, nil)

	count, err := s.service.UpdateInjuries(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, count)

	p, err := s.storage.GetPlayer(s.ctx, matthews)
	s.Require().NoError(err)
	s.True(p.Injured)

	p, err = s.storage.GetPlayer(s.ctx, marner)
	s.Require().NoError(err)
	s.False(p.Injured)
}

func (s *ServiceSuite) TestUpdateInjuriesReportFailure() {
	s.injuries.On("InjuredPlayers", mock.Anything).Return(nil, fmt.Errorf("%w: 502", model.ErrExternalFetch))

	_, err := s.service.UpdateInjuries(s.ctx)
	s.ErrorIs(err, model.ErrExternalFetch)
}
