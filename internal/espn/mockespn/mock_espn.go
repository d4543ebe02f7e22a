package mockespn

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Scraper struct {
	mock.Mock
}

func (s *Scraper) InjuredPlayers(ctx context.Context) (map[string]string, error) {
	args := s.Called(ctx)

	var res map[string]string
	if args.Get(0) != nil {
		res = args.Get(0).(map[string]string)
	}

	return res, args.Error(1)
}
