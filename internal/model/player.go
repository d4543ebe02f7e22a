package model

import (
	"fmt"
	"strings"
)

// PlayerID is the data provider's numeric player identifier
type PlayerID int64

// Position is a player's position code as reported by the provider
type Position string

const (
	PositionCenter    Position = "C"
	PositionLeftWing  Position = "LW"
	PositionRightWing Position = "RW"
	PositionDefense   Position = "D"
	PositionGoalie    Position = "G"
)

// ParsePosition converts a provider position code into a Position
func ParsePosition(code string) (Position, error) {
	switch p := Position(strings.ToUpper(strings.TrimSpace(code))); p {
	case PositionCenter, PositionLeftWing, PositionRightWing, PositionDefense, PositionGoalie:
		return p, nil
	case "L":
		return PositionLeftWing, nil
	case "R":
		return PositionRightWing, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPosition, code)
	}
}

// IsForward reports whether the position belongs to the forward group
func (p Position) IsForward() bool {
	return p == PositionCenter || p == PositionLeftWing || p == PositionRightWing
}

// IsGoalie reports whether the position is goaltender
func (p Position) IsGoalie() bool {
	return p == PositionGoalie
}

// Player is a real-world hockey player known to the league
type Player struct {
	ID        PlayerID
	FirstName string
	LastName  string
	Position  Position
	NHLTeam   string // real-world team abbreviation, e.g. "BOS"
	Injured   bool
}

// FullName returns "First Last"
func (p *Player) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
