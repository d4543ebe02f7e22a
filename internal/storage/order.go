package storage

import (
	"cmp"

	"github.com/mcoot/fantasyhockey/internal/model"
)

// CompareMatchups orders matchups by week number, then ID
func CompareMatchups(a, b *model.Matchup) int {
	if c := cmp.Compare(a.WeekNumber, b.WeekNumber); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// CompareStatRecords orders stat records by date, then game ID
func CompareStatRecords(a, b *model.StatRecord) int {
	if c := cmp.Compare(a.Date.DaysSince(b.Date), 0); c != 0 {
		return c
	}
	return cmp.Compare(a.GameID, b.GameID)
}
