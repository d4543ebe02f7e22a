package schedule

import "github.com/mcoot/fantasyhockey/internal/model"

// Pairing is one home/away meeting within a round
type Pairing struct {
	Home model.TeamID
	Away model.TeamID
}

// Pairings returns the circle-method pairings for a round.
//
// teams[0] stays fixed; round r places team 1+((p-1-r) mod (n-1)) at every
// position p >= 1, and position i meets position n-1-i with i at home.
// Rounds repeat every n-1, so any round number is valid.
func Pairings(teams []model.TeamID, round int) ([]Pairing, error) {
	n := len(teams)
	if n%2 != 0 {
		return nil, model.ErrOddTeamCount
	}
	if n < 2 {
		return nil, nil
	}

	at := func(p int) model.TeamID {
		if p == 0 {
			return teams[0]
		}
		return teams[1+mod(p-1-round, n-1)]
	}

	pairs := make([]Pairing, 0, n/2)
	for i := 0; i < n/2; i++ {
		pairs = append(pairs, Pairing{Home: at(i), Away: at(n - 1 - i)})
	}
	return pairs, nil
}

func mod(a, m int) int {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}
