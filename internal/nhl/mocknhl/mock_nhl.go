package mocknhl

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/mock"

	"github.com/mcoot/fantasyhockey/internal/model"
	"github.com/mcoot/fantasyhockey/internal/nhl"
)

type Client struct {
	mock.Mock
}

func (c *Client) GamesOn(ctx context.Context, date civil.Date) ([]model.ScheduledGame, error) {
	args := c.Called(ctx, date)

	var res []model.ScheduledGame
	if args.Get(0) != nil {
		res = args.Get(0).([]model.ScheduledGame)
	}

	return res, args.Error(1)
}

func (c *Client) Boxscore(ctx context.Context, gameID model.GameID) (*nhl.Boxscore, error) {
	args := c.Called(ctx, gameID)

	var res *nhl.Boxscore
	if args.Get(0) != nil {
		res = args.Get(0).(*nhl.Boxscore)
	}

	return res, args.Error(1)
}

func (c *Client) Roster(ctx context.Context, teamAbbrev string) ([]nhl.RosterPlayer, error) {
	args := c.Called(ctx, teamAbbrev)

	var res []nhl.RosterPlayer
	if args.Get(0) != nil {
		res = args.Get(0).([]nhl.RosterPlayer)
	}

	return res, args.Error(1)
}
