package standings

import (
	"context"
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/fantasyhockey/internal/dependencies/mocks"
	"github.com/mcoot/fantasyhockey/internal/model"
	"github.com/mcoot/fantasyhockey/internal/services/aggregate"
	"github.com/mcoot/fantasyhockey/internal/services/schedule"
	"github.com/mcoot/fantasyhockey/internal/services/scoring"
	"github.com/mcoot/fantasyhockey/internal/storage/memory"
	"github.com/mcoot/fantasyhockey/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage  *memory.Storage
	clock    *mocks.MockClock
	schedule *schedule.Service
	scoring  *scoring.Service
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func oct(d int) civil.Date {
	return civil.Date{Year: 2025, Month: time.October, Day: d}
}

func noonUTC(d civil.Date) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 17, 0, 0, 0, time.UTC)
}

// SetupTest builds a six team league, team-0 through team-5, whose week 1
// pairings are team-0 v team-5, team-1 v team-4 and team-2 v team-3
func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(noonUTC(oct(1)))
	s.ctx = context.Background()
	logger := testutil.NopLogger()

	s.schedule = schedule.New(s.storage, s.clock, mocks.NewMockRandom(), schedule.DefaultConfig(), logger)
	s.scoring = scoring.New(s.storage, s.clock, logger)
	s.service = New(s.storage, aggregate.New(s.storage, logger), s.schedule, logger)

	for i := 0; i < 6; i++ {
		s.Require().NoError(s.storage.SaveTeam(s.ctx, &model.Team{
			ID:   model.TeamID(fmt.Sprintf("team-%d", i)),
			Name: fmt.Sprintf("Team %d", i),
		}))
	}
	_, err := s.schedule.InitializeSeason(s.ctx)
	s.Require().NoError(err)
}

func (s *ServiceSuite) rosterPlayer(team model.TeamID, id model.PlayerID) {
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: id, FirstName: "P", LastName: fmt.Sprint(id), Position: model.PositionCenter}))
	t, err := s.storage.GetTeam(s.ctx, team)
	s.Require().NoError(err)
	t.PlayerIDs = append(t.PlayerIDs, id)
	s.Require().NoError(s.storage.SaveTeam(s.ctx, t))
}

func (s *ServiceSuite) skaterGame(player model.PlayerID, game model.GameID, date civil.Date, goals, assists int) {
	_, err := s.scoring.RecordSkaterGame(s.ctx, model.SkaterLine{
		PlayerID: player, GameID: game, Date: date, Goals: goals, Assists: assists,
	})
	s.Require().NoError(err)
}

func (s *ServiceSuite) endWeekOne() {
	s.clock.Set(noonUTC(oct(13)))
	s.Require().NoError(s.schedule.RefreshWeekStatuses(s.ctx))
}

func (s *ServiceSuite) team(id model.TeamID) *model.Team {
	t, err := s.storage.GetTeam(s.ctx, id)
	s.Require().NoError(err)
	return t
}

func (s *ServiceSuite) weekOneMatchup(home model.TeamID) *model.Matchup {
	matchups, err := s.storage.ListMatchupsForWeek(s.ctx, 1)
	s.Require().NoError(err)
	for _, m := range matchups {
		if m.HomeTeamID == home {
			return m
		}
	}
	s.FailNow("no week 1 matchup", "home %s", home)
	return nil
}

func (s *ServiceSuite) assertRecord(id model.TeamID, wins, losses, otWins, otLosses, points int) {
	t := s.team(id)
	s.Equal(wins, t.Wins, "%s wins", id)
	s.Equal(losses, t.Losses, "%s losses", id)
	s.Equal(otWins, t.OTWins, "%s ot wins", id)
	s.Equal(otLosses, t.OTLosses, "%s ot losses", id)
	s.Equal(points, t.LeaguePoints, "%s points", id)
	s.Equal(t.ExpectedLeaguePoints(), t.LeaguePoints)
}

func (s *ServiceSuite) TestWeekOneEndToEnd() {
	s.rosterPlayer("team-0", 8478402)
	s.clock.Set(noonUTC(oct(9)))
	s.skaterGame(8478402, 2025020050, oct(9), 2, 1)

	s.endWeekOne()
	standings, err := s.service.RecomputeStandings(s.ctx)
	s.Require().NoError(err)

	s.assertRecord("team-0", 1, 0, 0, 0, 3)
	s.assertRecord("team-5", 0, 1, 0, 0, 0)
	s.assertRecord("team-1", 0, 0, 1, 0, 2)
	s.assertRecord("team-4", 0, 0, 0, 1, 1)
	s.assertRecord("team-2", 0, 0, 1, 0, 2)
	s.assertRecord("team-3", 0, 0, 0, 1, 1)

	m := s.weekOneMatchup("team-0")
	s.Equal(9, m.HomeScore)
	s.Equal(0, m.AwayScore)
	s.True(m.IsResolved())
	s.Require().NotNil(m.Winner)
	s.Equal(model.TeamID("team-0"), *m.Winner)
	s.False(m.Overtime)

	tie := s.weekOneMatchup("team-1")
	s.True(tie.IsResolved())
	s.Equal(model.TeamID("team-1"), *tie.Winner)
	s.True(tie.Overtime)

	order := make([]model.TeamID, 0, len(standings))
	for _, t := range standings {
		order = append(order, t.ID)
	}
	s.Equal([]model.TeamID{"team-0", "team-1", "team-2", "team-3", "team-4", "team-5"}, order)
}

func (s *ServiceSuite) TestOvertimeAwayWinsOnBetterBestPlayer() {
	s.rosterPlayer("team-1", 1)
	s.rosterPlayer("team-1", 2)
	s.rosterPlayer("team-4", 3)
	s.skaterGame(1, 10, oct(8), 1, 0) // 3
	s.skaterGame(2, 10, oct(8), 0, 1) // 3
	s.skaterGame(3, 11, oct(8), 2, 0) // 6

	s.endWeekOne()
	_, err := s.service.RecomputeStandings(s.ctx)
	s.Require().NoError(err)

	s.assertRecord("team-4", 0, 0, 1, 0, 2)
	s.assertRecord("team-1", 0, 0, 0, 1, 1)

	m := s.weekOneMatchup("team-1")
	s.Equal(6, m.HomeScore)
	s.Equal(6, m.AwayScore)
	s.Equal(model.TeamID("team-4"), *m.Winner)
	s.True(m.Overtime)
}

func (s *ServiceSuite) TestRecomputeIsIdempotent() {
	s.rosterPlayer("team-0", 1)
	s.skaterGame(1, 10, oct(8), 1, 0)
	s.endWeekOne()

	first, err := s.service.RecomputeStandings(s.ctx)
	s.Require().NoError(err)
	second, err := s.service.RecomputeStandings(s.ctx)
	s.Require().NoError(err)

	s.Equal(first, second)
	s.assertRecord("team-0", 1, 0, 0, 0, 3)
}

func (s *ServiceSuite) TestResolvedMatchupsAreFrozen() {
	s.rosterPlayer("team-0", 1)
	s.rosterPlayer("team-5", 2)
	s.skaterGame(1, 10, oct(8), 1, 0)
	s.endWeekOne()

	_, err := s.service.RecomputeStandings(s.ctx)
	s.Require().NoError(err)

	// A late correction inside week 1 must not change the frozen result
	s.skaterGame(2, 11, oct(10), 4, 0)
	_, err = s.service.RecomputeStandings(s.ctx)
	s.Require().NoError(err)

	m := s.weekOneMatchup("team-0")
	s.Equal(3, m.HomeScore)
	s.Equal(0, m.AwayScore)
	s.Equal(model.TeamID("team-0"), *m.Winner)
	s.assertRecord("team-0", 1, 0, 0, 0, 3)
	s.assertRecord("team-5", 0, 1, 0, 0, 0)
}

func (s *ServiceSuite) TestPastWeekNotYetCompletedCountsButStaysPending() {
	s.rosterPlayer("team-0", 1)
	s.skaterGame(1, 10, oct(8), 1, 0)

	// Week 1 is over but the daily status refresh has not run
	s.clock.Set(noonUTC(oct(13)))
	_, err := s.service.RecomputeStandings(s.ctx)
	s.Require().NoError(err)

	m := s.weekOneMatchup("team-0")
	s.Equal(3, m.HomeScore)
	s.False(m.IsResolved())
	s.Nil(m.Winner)
	s.assertRecord("team-0", 1, 0, 0, 0, 3)
}

func (s *ServiceSuite) TestCurrentWeekDoesNotCount() {
	s.rosterPlayer("team-0", 1)
	s.clock.Set(noonUTC(oct(9)))
	s.Require().NoError(s.schedule.RefreshWeekStatuses(s.ctx))
	s.skaterGame(1, 10, oct(8), 1, 0)

	standings, err := s.service.RecomputeStandings(s.ctx)
	s.Require().NoError(err)
	for _, t := range standings {
		s.Equal(0, t.GamesPlayed())
		s.Equal(0, t.LeaguePoints)
	}
}

func (s *ServiceSuite) TestRecomputeResetsStaleCounters() {
	stale := s.team("team-3")
	stale.Wins = 7
	stale.LeaguePoints = 21
	s.Require().NoError(s.storage.SaveTeam(s.ctx, stale))

	_, err := s.service.RecomputeStandings(s.ctx)
	s.Require().NoError(err)
	s.assertRecord("team-3", 0, 0, 0, 0, 0)
}

func (s *ServiceSuite) TestMatchupWithUnknownTeamIsSkipped() {
	s.Require().NoError(s.storage.SaveMatchup(s.ctx, &model.Matchup{
		ID:         "orphan",
		WeekNumber: 1,
		HomeTeamID: "team-0",
		AwayTeamID: "disbanded",
		Status:     model.MatchupStatusPending,
	}))

	s.endWeekOne()
	_, err := s.service.RecomputeStandings(s.ctx)
	s.Require().NoError(err)

	s.assertRecord("team-0", 0, 0, 1, 0, 2)
	orphan, err := s.storage.GetMatchup(s.ctx, "orphan")
	s.Require().NoError(err)
	s.False(orphan.IsResolved())
}

func (s *ServiceSuite) TestRefreshLiveScores() {
	s.rosterPlayer("team-2", 1)
	s.clock.Set(noonUTC(oct(9)))
	s.skaterGame(1, 10, oct(8), 0, 2)

	week, matchups, err := s.service.RefreshLiveScores(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, week.Number)
	s.Len(matchups, 3)

	m := s.weekOneMatchup("team-2")
	s.Equal(6, m.HomeScore)
	s.False(m.IsResolved())
}

func (s *ServiceSuite) TestRefreshLiveScoresWithoutCurrentWeek() {
	s.Require().NoError(s.storage.DeleteSchedule(s.ctx))
	_, _, err := s.service.RefreshLiveScores(s.ctx)
	s.ErrorIs(err, model.ErrNoCurrentWeek)
}

func (s *ServiceSuite) TestMatchupDetail() {
	s.rosterPlayer("team-0", 1)
	s.rosterPlayer("team-0", 2)
	s.skaterGame(1, 10, oct(8), 0, 1)
	s.skaterGame(2, 10, oct(8), 1, 1)

	m := s.weekOneMatchup("team-0")
	detail, err := s.service.MatchupDetail(s.ctx, m.ID)
	s.Require().NoError(err)

	s.Equal(1, detail.Week.Number)
	s.Equal(model.TeamID("team-0"), detail.HomeTeam.ID)
	s.Equal(model.TeamID("team-5"), detail.AwayTeam.ID)
	s.Require().Len(detail.HomePlayers, 2)
	s.Equal(model.PlayerID(2), detail.HomePlayers[0].Player.ID)
	s.Equal(6, detail.HomePlayers[0].Points)
	s.Empty(detail.AwayPlayers)
}

func (s *ServiceSuite) TestMatchupDetailNotFound() {
	_, err := s.service.MatchupDetail(s.ctx, "missing")
	s.ErrorIs(err, model.ErrMatchupNotFound)
}

func (s *ServiceSuite) TestStandingsOrder() {
	for id, rec := range map[model.TeamID][3]int{
		"team-0": {3, 1, 0}, "team-1": {3, 0, 1}, "team-2": {5, 1, 1}, "team-3": {3, 1, 0},
	} {
		t := s.team(id)
		t.LeaguePoints, t.Wins, t.OTWins = rec[0], rec[1], rec[2]
		s.Require().NoError(s.storage.SaveTeam(s.ctx, t))
	}

	standings, err := s.service.Standings(s.ctx)
	s.Require().NoError(err)

	order := make([]model.TeamID, 0, len(standings))
	for _, t := range standings {
		order = append(order, t.ID)
	}
	s.Equal([]model.TeamID{"team-2", "team-0", "team-3", "team-1", "team-4", "team-5"}, order)
}
