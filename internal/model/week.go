package model

import "cloud.google.com/go/civil"

// GameWeek is one scoring period of the fantasy season.
// IsCurrent and IsCompleted only ever move forward.
type GameWeek struct {
	Number      int
	StartDate   civil.Date
	EndDate     civil.Date
	IsCurrent   bool
	IsCompleted bool
}

// Contains reports whether the date falls inside the week (inclusive)
func (w *GameWeek) Contains(d civil.Date) bool {
	return !d.Before(w.StartDate) && !d.After(w.EndDate)
}

// HasEnded reports whether the week's end date is before today
func (w *GameWeek) HasEnded(today civil.Date) bool {
	return w.EndDate.Before(today)
}

// IsFinal reports whether matchups of this week count toward standings
func (w *GameWeek) IsFinal(today civil.Date) bool {
	return w.IsCompleted || w.HasEnded(today)
}
