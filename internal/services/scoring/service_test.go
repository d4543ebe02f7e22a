package scoring

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/fantasyhockey/internal/dependencies/mocks"
	"github.com/mcoot/fantasyhockey/internal/model"
	"github.com/mcoot/fantasyhockey/internal/storage"
	"github.com/mcoot/fantasyhockey/internal/storage/memory"
	"github.com/mcoot/fantasyhockey/internal/testutil"
)

// Formula tests

func TestSkaterPoints(t *testing.T) {
	tests := []struct {
		name string
		line model.SkaterLine
		want int
	}{
		{"empty line", model.SkaterLine{}, 0},
		{"hat trick with two assists", model.SkaterLine{Goals: 3, Assists: 2}, 18},
		{"two goals one assist", model.SkaterLine{Goals: 2, Assists: 1}, 9},
		{"half point rounds up", model.SkaterLine{Shots: 1}, 1},
		{"full line", model.SkaterLine{Goals: 1, Assists: 1, PlusMinus: 2, Shots: 4, Blocks: 1, Hits: 3, PenaltyMinutes: 2}, 12},
		{"minus rounds toward positive infinity", model.SkaterLine{PlusMinus: -2, Shots: 1}, -1},
		{"penalty minutes only", model.SkaterLine{PenaltyMinutes: 4}, 0},
		{"penalty minutes past half", model.SkaterLine{PenaltyMinutes: 6}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SkaterPoints(tt.line); got != tt.want {
				t.Errorf("SkaterPoints() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGoaliePoints(t *testing.T) {
	tests := []struct {
		name string
		line model.GoalieLine
		want int
	}{
		{"shutout on thirty shots", model.GoalieLine{Saves: 30, ShotsAgainst: 30}, 9},
		{"no shots is not a shutout", model.GoalieLine{}, 0},
		{"two goals against", model.GoalieLine{Saves: 28, ShotsAgainst: 30}, 4},
		{"win carries no points", model.GoalieLine{Saves: 28, ShotsAgainst: 30, Win: true}, 4},
		{"rough night", model.GoalieLine{Saves: 10, ShotsAgainst: 16}, -4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GoaliePoints(tt.line); got != tt.want {
				t.Errorf("GoaliePoints() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRoundTenths(t *testing.T) {
	cases := map[int]int{0: 0, 4: 0, 5: 1, 14: 1, 15: 2, -4: 0, -5: 0, -6: -1, -15: -1, -16: -2}
	for tenths, want := range cases {
		if got := roundTenths(tenths); got != want {
			t.Errorf("roundTenths(%d) = %d, want %d", tenths, got, want)
		}
	}
}

// Recording tests

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 10, 10, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()

	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: 1, FirstName: "Auston", LastName: "Matthews", Position: model.PositionCenter, NHLTeam: "TOR"}))
	s.Require().NoError(s.storage.SavePlayer(s.ctx, &model.Player{ID: 2, FirstName: "Joseph", LastName: "Woll", Position: model.PositionGoalie, NHLTeam: "TOR"}))
}

var gameDate = civil.Date{Year: 2025, Month: time.October, Day: 9}

func (s *ServiceSuite) TestRecordSkaterGameSavesRecord() {
	created, err := s.service.RecordSkaterGame(s.ctx, model.SkaterLine{PlayerID: 1, GameID: 100, Date: gameDate, Goals: 3, Assists: 2})
	s.Require().NoError(err)
	s.True(created)

	records, err := s.storage.ListStatRecords(s.ctx, 1, gameDate, gameDate)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(18, records[0].FantasyPoints)
	s.Equal(3, records[0].Goals)
	s.False(records[0].Goalie)
	s.Equal(s.clock.Now(), records[0].RecordedAt)
}

func (s *ServiceSuite) TestRecordSkaterGameIsIdempotent() {
	line := model.SkaterLine{PlayerID: 1, GameID: 100, Date: gameDate, Goals: 1}

	created, err := s.service.RecordSkaterGame(s.ctx, line)
	s.Require().NoError(err)
	s.True(created)

	line.Goals = 4
	created, err = s.service.RecordSkaterGame(s.ctx, line)
	s.Require().NoError(err)
	s.False(created)

	records, err := s.storage.ListStatRecords(s.ctx, 1, gameDate, gameDate)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(1, records[0].Goals)
}

func (s *ServiceSuite) TestRecordedGameIsNoOpEvenWhenLineIsNowInvalid() {
	created, err := s.service.RecordSkaterGame(s.ctx, model.SkaterLine{PlayerID: 1, GameID: 100, Date: gameDate, Goals: 1})
	s.Require().NoError(err)
	s.True(created)
	created, err = s.service.RecordGoalieGame(s.ctx, model.GoalieLine{PlayerID: 2, GameID: 100, Date: gameDate, Saves: 20, ShotsAgainst: 21})
	s.Require().NoError(err)
	s.True(created)

	created, err = s.service.RecordSkaterGame(s.ctx, model.SkaterLine{PlayerID: 1, GameID: 100, Date: gameDate, Shots: -1})
	s.Require().NoError(err)
	s.False(created)

	created, err = s.service.RecordGoalieGame(s.ctx, model.GoalieLine{PlayerID: 2, GameID: 100, Date: gameDate, Saves: 31, ShotsAgainst: 30})
	s.Require().NoError(err)
	s.False(created)
}

func (s *ServiceSuite) TestRecordGoalieGameSavesRecord() {
	created, err := s.service.RecordGoalieGame(s.ctx, model.GoalieLine{PlayerID: 2, GameID: 100, Date: gameDate, Saves: 30, ShotsAgainst: 30, Win: true})
	s.Require().NoError(err)
	s.True(created)

	records, err := s.storage.ListStatRecords(s.ctx, 2, gameDate, gameDate)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.True(records[0].Goalie)
	s.True(records[0].Win)
	s.Equal(0, records[0].GoalsAgainst)
	s.Equal(9, records[0].FantasyPoints)
}

func (s *ServiceSuite) TestRecordFailsForUnknownPlayer() {
	_, err := s.service.RecordSkaterGame(s.ctx, model.SkaterLine{PlayerID: 99, GameID: 100, Date: gameDate})
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *ServiceSuite) TestRecordRejectsInvalidLines() {
	_, err := s.service.RecordSkaterGame(s.ctx, model.SkaterLine{PlayerID: 1, GameID: 100, Date: gameDate, Shots: -1})
	s.ErrorIs(err, model.ErrInvalidStatLine)

	_, err = s.service.RecordGoalieGame(s.ctx, model.GoalieLine{PlayerID: 2, GameID: 100, Date: gameDate, Saves: 31, ShotsAgainst: 30})
	s.ErrorIs(err, model.ErrInvalidStatLine)

	exists, err := s.storage.StatRecordExists(s.ctx, 2, 100)
	s.Require().NoError(err)
	s.False(exists)
}

func (s *ServiceSuite) TestNegativePlusMinusIsValid() {
	created, err := s.service.RecordSkaterGame(s.ctx, model.SkaterLine{PlayerID: 1, GameID: 100, Date: gameDate, PlusMinus: -3})
	s.Require().NoError(err)
	s.True(created)
}

// racyStorage hides existing records from the pre-check, as a concurrent
// writer would, so the store's uniqueness constraint is what stops the write.
type racyStorage struct {
	storage.Storage
}

func (r racyStorage) StatRecordExists(context.Context, model.PlayerID, model.GameID) (bool, error) {
	return false, nil
}

func (s *ServiceSuite) TestStoreDuplicateIsTreatedAsNoOp() {
	service := New(racyStorage{s.storage}, s.clock, testutil.NopLogger())
	line := model.SkaterLine{PlayerID: 1, GameID: 100, Date: gameDate, Goals: 1}

	created, err := service.RecordSkaterGame(s.ctx, line)
	s.Require().NoError(err)
	s.True(created)

	created, err = service.RecordSkaterGame(s.ctx, line)
	s.Require().NoError(err)
	s.False(created)
}
