package redis

import (
	"fmt"

	"cloud.google.com/go/civil"

	"github.com/mcoot/fantasyhockey/internal/model"
)

// Key prefix for all league data
const keyPrefix = "fhl"

var epoch = civil.Date{Year: 1970, Month: 1, Day: 1}

// teamKey returns the Redis key for a Team
func teamKey(id model.TeamID) string {
	return fmt.Sprintf("%s:team:%s", keyPrefix, id)
}

// teamsIndexKey returns the Redis key for the SET of team keys
func teamsIndexKey() string {
	return fmt.Sprintf("%s:idx:teams", keyPrefix)
}

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%d", keyPrefix, id)
}

// playersIndexKey returns the Redis key for the SET of player keys
func playersIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// statKey returns the Redis key for a StatRecord. Its existence is the
// uniqueness guard for the (player, game) pair.
func statKey(playerID model.PlayerID, gameID model.GameID) string {
	return fmt.Sprintf("%s:stat:%d:%d", keyPrefix, playerID, gameID)
}

// statsForPlayerIndexKey returns the Redis key for the ZSET of a player's
// stat keys scored by game date
func statsForPlayerIndexKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:idx:stats_for_player:%d", keyPrefix, playerID)
}

// statIndexesKey returns the Redis key for the SET of every stat key and
// per-player stat index, used for the season reset
func statIndexesKey() string {
	return fmt.Sprintf("%s:idx:stats", keyPrefix)
}

// weekKey returns the Redis key for a GameWeek
func weekKey(number int) string {
	return fmt.Sprintf("%s:week:%d", keyPrefix, number)
}

// weeksIndexKey returns the Redis key for the ZSET of week keys scored by number
func weeksIndexKey() string {
	return fmt.Sprintf("%s:idx:weeks", keyPrefix)
}

// matchupKey returns the Redis key for a Matchup
func matchupKey(id model.MatchupID) string {
	return fmt.Sprintf("%s:matchup:%s", keyPrefix, id)
}

// matchupsIndexKey returns the Redis key for the SET of all matchup keys
func matchupsIndexKey() string {
	return fmt.Sprintf("%s:idx:matchups", keyPrefix)
}

// matchupsForWeekIndexKey returns the Redis key for the SET of matchup keys in a week
func matchupsForWeekIndexKey(weekNumber int) string {
	return fmt.Sprintf("%s:idx:matchups_for_week:%d", keyPrefix, weekNumber)
}

// dateScore maps a calendar date onto a sortable ZSET score
func dateScore(d civil.Date) float64 {
	return float64(d.DaysSince(epoch))
}
