package standings

import "github.com/mcoot/fantasyhockey/internal/model"

// outcome is the decided result of one matchup
type outcome struct {
	homeWins bool
	overtime bool
}

// decide settles a matchup. A strictly higher score wins in regulation;
// equal scores go to overtime, where the away side needs a strictly higher
// best-player score and the home side takes every other case.
func decide(homeScore, awayScore int, bests func() (home, away int, err error)) (outcome, error) {
	switch {
	case homeScore > awayScore:
		return outcome{homeWins: true}, nil
	case awayScore > homeScore:
		return outcome{homeWins: false}, nil
	}

	homeBest, awayBest, err := bests()
	if err != nil {
		return outcome{}, err
	}
	return outcome{homeWins: awayBest <= homeBest, overtime: true}, nil
}

// storedOutcome reads the frozen result of a resolved matchup
func storedOutcome(m *model.Matchup) (outcome, bool) {
	if m.Winner == nil {
		return outcome{}, false
	}
	return outcome{homeWins: *m.Winner == m.HomeTeamID, overtime: m.Overtime}, true
}

func (o outcome) winner(m *model.Matchup) model.TeamID {
	if o.homeWins {
		return m.HomeTeamID
	}
	return m.AwayTeamID
}

// apply credits both teams' records
func (o outcome) apply(home, away *model.Team) {
	winner, loser := home, away
	if !o.homeWins {
		winner, loser = away, home
	}
	if o.overtime {
		winner.RecordOTWin()
		loser.RecordOTLoss()
		return
	}
	winner.RecordWin()
	loser.RecordLoss()
}
