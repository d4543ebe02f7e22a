// Package storagetest holds a behavioural test suite shared by every
// storage.Storage implementation.
package storagetest

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/fantasyhockey/internal/model"
	"github.com/mcoot/fantasyhockey/internal/storage"
)

// Suite exercises the storage contract. Embedding suites set NewStorage,
// which is called once per test and must return an empty store.
type Suite struct {
	suite.Suite
	NewStorage func() storage.Storage

	Store storage.Storage
	Ctx   context.Context
}

func (s *Suite) SetupTest() {
	s.Require().NotNil(s.NewStorage, "NewStorage must be set")
	s.Store = s.NewStorage()
	s.Ctx = context.Background()
}

func date(month time.Month, day int) civil.Date {
	return civil.Date{Year: 2025, Month: month, Day: day}
}

// Team tests

func (s *Suite) TestSaveAndGetTeam() {
	team := &model.Team{ID: "team-a", Name: "Alpha", OwnerName: "Ann", PlayerIDs: []model.PlayerID{1, 2}}
	s.Require().NoError(s.Store.SaveTeam(s.Ctx, team))

	got, err := s.Store.GetTeam(s.Ctx, "team-a")
	s.Require().NoError(err)
	s.Equal("Alpha", got.Name)
	s.Equal([]model.PlayerID{1, 2}, got.PlayerIDs)
}

func (s *Suite) TestGetTeamNotFound() {
	_, err := s.Store.GetTeam(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrTeamNotFound)
}

func (s *Suite) TestSaveTeamsUpdatesRecords() {
	a := &model.Team{ID: "b-team", Name: "B"}
	b := &model.Team{ID: "a-team", Name: "A"}
	s.Require().NoError(s.Store.SaveTeams(s.Ctx, []*model.Team{a, b}))

	a.RecordWin()
	b.RecordLoss()
	s.Require().NoError(s.Store.SaveTeams(s.Ctx, []*model.Team{a, b}))

	teams, err := s.Store.ListTeams(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(teams, 2)
	s.Equal(model.TeamID("a-team"), teams[0].ID)
	s.Equal(1, teams[0].Losses)
	s.Equal(3, teams[1].LeaguePoints)
}

func (s *Suite) TestReturnedTeamIsACopy() {
	s.Require().NoError(s.Store.SaveTeam(s.Ctx, &model.Team{ID: "t"}))

	got, err := s.Store.GetTeam(s.Ctx, "t")
	s.Require().NoError(err)
	got.RecordWin()

	again, err := s.Store.GetTeam(s.Ctx, "t")
	s.Require().NoError(err)
	s.Zero(again.Wins)
}

// Player tests

func (s *Suite) TestSaveAndGetPlayer() {
	player := &model.Player{ID: 8478402, FirstName: "Connor", LastName: "McDavid", Position: model.PositionCenter, NHLTeam: "EDM"}
	s.Require().NoError(s.Store.SavePlayer(s.Ctx, player))

	got, err := s.Store.GetPlayer(s.Ctx, 8478402)
	s.Require().NoError(err)
	s.Equal("Connor McDavid", got.FullName())
	s.Equal(model.PositionCenter, got.Position)
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Store.GetPlayer(s.Ctx, 1)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestSavePlayerUpserts() {
	s.Require().NoError(s.Store.SavePlayer(s.Ctx, &model.Player{ID: 7, LastName: "One", NHLTeam: "BOS", Position: model.PositionDefense}))
	s.Require().NoError(s.Store.SavePlayer(s.Ctx, &model.Player{ID: 7, LastName: "One", NHLTeam: "TOR", Position: model.PositionDefense, Injured: true}))
	s.Require().NoError(s.Store.SavePlayer(s.Ctx, &model.Player{ID: 3, LastName: "Two", Position: model.PositionGoalie}))

	players, err := s.Store.ListPlayers(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 2)
	s.Equal(model.PlayerID(3), players[0].ID)
	s.Equal("TOR", players[1].NHLTeam)
	s.True(players[1].Injured)
}

// Stat record tests

func (s *Suite) TestInsertStatRecordRejectsDuplicates() {
	record := &model.StatRecord{PlayerID: 1, GameID: 2025020001, Date: date(10, 9), Goals: 2, FantasyPoints: 6}
	s.Require().NoError(s.Store.InsertStatRecord(s.Ctx, record))

	exists, err := s.Store.StatRecordExists(s.Ctx, 1, 2025020001)
	s.Require().NoError(err)
	s.True(exists)

	err = s.Store.InsertStatRecord(s.Ctx, &model.StatRecord{PlayerID: 1, GameID: 2025020001, Date: date(10, 9), FantasyPoints: 99})
	s.ErrorIs(err, model.ErrDuplicateStatRecord)

	records, err := s.Store.ListStatRecords(s.Ctx, 1, date(10, 1), date(10, 31))
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(6, records[0].FantasyPoints)
}

func (s *Suite) TestStatRecordExistsIsFalseForOtherGame() {
	s.Require().NoError(s.Store.InsertStatRecord(s.Ctx, &model.StatRecord{PlayerID: 1, GameID: 10, Date: date(10, 9)}))

	exists, err := s.Store.StatRecordExists(s.Ctx, 1, 11)
	s.Require().NoError(err)
	s.False(exists)

	exists, err = s.Store.StatRecordExists(s.Ctx, 2, 10)
	s.Require().NoError(err)
	s.False(exists)
}

func (s *Suite) TestListStatRecordsFiltersByPlayerAndInclusiveWindow() {
	for i, d := range []civil.Date{date(10, 6), date(10, 7), date(10, 12), date(10, 13)} {
		s.Require().NoError(s.Store.InsertStatRecord(s.Ctx, &model.StatRecord{
			PlayerID: 1, GameID: model.GameID(100 + i), Date: d, FantasyPoints: i + 1,
		}))
	}
	s.Require().NoError(s.Store.InsertStatRecord(s.Ctx, &model.StatRecord{PlayerID: 2, GameID: 101, Date: date(10, 8), FantasyPoints: 50}))

	records, err := s.Store.ListStatRecords(s.Ctx, 1, date(10, 7), date(10, 12))
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal(date(10, 7), records[0].Date)
	s.Equal(date(10, 12), records[1].Date)
	s.Equal(2, records[0].FantasyPoints)
}

func (s *Suite) TestGoalieRecordRoundTrip() {
	record := &model.StatRecord{
		PlayerID: 5, GameID: 77, Date: date(10, 10), Goalie: true,
		Saves: 30, ShotsAgainst: 30, Win: true, FantasyPoints: 9,
	}
	s.Require().NoError(s.Store.InsertStatRecord(s.Ctx, record))

	records, err := s.Store.ListStatRecords(s.Ctx, 5, date(10, 10), date(10, 10))
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.True(records[0].Goalie)
	s.True(records[0].Win)
	s.Equal(30, records[0].Saves)
}

func (s *Suite) TestDeleteAllStatRecords() {
	s.Require().NoError(s.Store.InsertStatRecord(s.Ctx, &model.StatRecord{PlayerID: 1, GameID: 1, Date: date(10, 9)}))
	s.Require().NoError(s.Store.DeleteAllStatRecords(s.Ctx))

	exists, err := s.Store.StatRecordExists(s.Ctx, 1, 1)
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.Store.InsertStatRecord(s.Ctx, &model.StatRecord{PlayerID: 1, GameID: 1, Date: date(10, 9)}))
}

// Game week tests

func (s *Suite) TestSaveAndListGameWeeks() {
	for _, n := range []int{3, 1, 2} {
		start := date(10, 7).AddDays((n - 1) * 7)
		s.Require().NoError(s.Store.SaveGameWeek(s.Ctx, &model.GameWeek{Number: n, StartDate: start, EndDate: start.AddDays(6)}))
	}

	weeks, err := s.Store.ListGameWeeks(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(weeks, 3)
	s.Equal([]int{1, 2, 3}, []int{weeks[0].Number, weeks[1].Number, weeks[2].Number})
	s.Equal(date(10, 7), weeks[0].StartDate)

	weeks[0].IsCurrent = true
	s.Require().NoError(s.Store.SaveGameWeek(s.Ctx, weeks[0]))

	got, err := s.Store.GetGameWeek(s.Ctx, 1)
	s.Require().NoError(err)
	s.True(got.IsCurrent)
}

func (s *Suite) TestGetGameWeekNotFound() {
	_, err := s.Store.GetGameWeek(s.Ctx, 42)
	s.ErrorIs(err, model.ErrWeekNotFound)
}

// Matchup tests

func (s *Suite) TestSaveAndListMatchups() {
	m1 := &model.Matchup{ID: "m-b", WeekNumber: 1, HomeTeamID: "a", AwayTeamID: "b", Status: model.MatchupStatusPending}
	m2 := &model.Matchup{ID: "m-a", WeekNumber: 2, HomeTeamID: "a", AwayTeamID: "c", Status: model.MatchupStatusPending}
	m3 := &model.Matchup{ID: "m-c", WeekNumber: 1, HomeTeamID: "c", AwayTeamID: "d", Status: model.MatchupStatusPending}
	for _, m := range []*model.Matchup{m1, m2, m3} {
		s.Require().NoError(s.Store.SaveMatchup(s.Ctx, m))
	}

	all, err := s.Store.ListMatchups(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal([]model.MatchupID{"m-b", "m-c", "m-a"}, []model.MatchupID{all[0].ID, all[1].ID, all[2].ID})

	week1, err := s.Store.ListMatchupsForWeek(s.Ctx, 1)
	s.Require().NoError(err)
	s.Len(week1, 2)

	m1.HomeScore = 12
	m1.Resolve("a", false)
	s.Require().NoError(s.Store.SaveMatchup(s.Ctx, m1))

	got, err := s.Store.GetMatchup(s.Ctx, "m-b")
	s.Require().NoError(err)
	s.Equal(12, got.HomeScore)
	s.Require().NotNil(got.Winner)
	s.Equal(model.TeamID("a"), *got.Winner)
	s.True(got.IsResolved())
}

func (s *Suite) TestGetMatchupNotFound() {
	_, err := s.Store.GetMatchup(s.Ctx, "nope")
	s.ErrorIs(err, model.ErrMatchupNotFound)
}

func (s *Suite) TestDeleteScheduleRemovesWeeksAndMatchupsOnly() {
	s.Require().NoError(s.Store.SaveGameWeek(s.Ctx, &model.GameWeek{Number: 1, StartDate: date(10, 7), EndDate: date(10, 12)}))
	s.Require().NoError(s.Store.SaveMatchup(s.Ctx, &model.Matchup{ID: "m1", WeekNumber: 1, HomeTeamID: "a", AwayTeamID: "b"}))
	s.Require().NoError(s.Store.SaveTeam(s.Ctx, &model.Team{ID: "a"}))
	s.Require().NoError(s.Store.InsertStatRecord(s.Ctx, &model.StatRecord{PlayerID: 1, GameID: 1, Date: date(10, 9)}))

	s.Require().NoError(s.Store.DeleteSchedule(s.Ctx))

	weeks, err := s.Store.ListGameWeeks(s.Ctx)
	s.Require().NoError(err)
	s.Empty(weeks)
	matchups, err := s.Store.ListMatchups(s.Ctx)
	s.Require().NoError(err)
	s.Empty(matchups)
	week1, err := s.Store.ListMatchupsForWeek(s.Ctx, 1)
	s.Require().NoError(err)
	s.Empty(week1)

	_, err = s.Store.GetTeam(s.Ctx, "a")
	s.NoError(err)
	exists, err := s.Store.StatRecordExists(s.Ctx, 1, 1)
	s.Require().NoError(err)
	s.True(exists)
}
