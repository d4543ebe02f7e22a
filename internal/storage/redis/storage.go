package redis

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/redis/go-redis/v9"

	"github.com/mcoot/fantasyhockey/internal/model"
	"github.com/mcoot/fantasyhockey/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// getJSON loads and decodes a single value, mapping a missing key to notFound
func (s *Storage) getJSON(ctx context.Context, key string, notFound error, out any) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return notFound
		}
		return err
	}
	return json.Unmarshal(data, out)
}

// mgetJSON fetches many keys at once, skipping keys that no longer exist
func mgetJSON[T any](ctx context.Context, client *redis.Client, keys []string) ([]*T, error) {
	if len(keys) == 0 {
		return []*T{}, nil
	}

	values, err := client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	results := make([]*T, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue // Key removed between index read and fetch
		}
		var item T
		if err := json.Unmarshal([]byte(str), &item); err != nil {
			return nil, err
		}
		results = append(results, &item)
	}
	return results, nil
}

// Team operations

func (s *Storage) SaveTeam(ctx context.Context, team *model.Team) error {
	return s.SaveTeams(ctx, []*model.Team{team})
}

func (s *Storage) SaveTeams(ctx context.Context, teams []*model.Team) error {
	if len(teams) == 0 {
		return nil
	}

	// Standings commits write every team in one transaction
	pipe := s.client.TxPipeline()
	for _, team := range teams {
		data, err := json.Marshal(team)
		if err != nil {
			return err
		}
		key := teamKey(team.ID)
		pipe.Set(ctx, key, data, 0)
		pipe.SAdd(ctx, teamsIndexKey(), key)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetTeam(ctx context.Context, id model.TeamID) (*model.Team, error) {
	var team model.Team
	if err := s.getJSON(ctx, teamKey(id), model.ErrTeamNotFound, &team); err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *Storage) ListTeams(ctx context.Context) ([]*model.Team, error) {
	keys, err := s.client.SMembers(ctx, teamsIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	teams, err := mgetJSON[model.Team](ctx, s.client, keys)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(teams, func(a, b *model.Team) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return teams, nil
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	key := playerKey(player.ID)
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, playersIndexKey(), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	var player model.Player
	if err := s.getJSON(ctx, playerKey(id), model.ErrPlayerNotFound, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	keys, err := s.client.SMembers(ctx, playersIndexKey()).Result()
	if err != nil {
		return nil, err
	}
	players, err := mgetJSON[model.Player](ctx, s.client, keys)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(players, func(a, b *model.Player) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return players, nil
}

// Stat record operations

func (s *Storage) InsertStatRecord(ctx context.Context, record *model.StatRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	key := statKey(record.PlayerID, record.GameID)

	// SETNX is the uniqueness guard for the (player, game) pair
	created, err := s.client.SetNX(ctx, key, data, 0).Result()
	if err != nil {
		return err
	}
	if !created {
		// The index writes below can fail after SETNX commits, so a
		// duplicate repairs the index from the stored record before
		// reporting itself
		var stored model.StatRecord
		if err := s.getJSON(ctx, key, model.ErrDuplicateStatRecord, &stored); err != nil {
			return err
		}
		if err := s.indexStatRecord(ctx, key, &stored); err != nil {
			return err
		}
		return model.ErrDuplicateStatRecord
	}

	return s.indexStatRecord(ctx, key, record)
}

// indexStatRecord adds a stat key to its player's date index and the reset
// set. Both writes are idempotent.
func (s *Storage) indexStatRecord(ctx context.Context, key string, record *model.StatRecord) error {
	indexKey := statsForPlayerIndexKey(record.PlayerID)
	pipe := s.client.Pipeline()
	pipe.ZAdd(ctx, indexKey, redis.Z{Score: dateScore(record.Date), Member: key})
	pipe.SAdd(ctx, statIndexesKey(), key, indexKey)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) StatRecordExists(ctx context.Context, playerID model.PlayerID, gameID model.GameID) (bool, error) {
	exists, err := s.client.Exists(ctx, statKey(playerID, gameID)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *Storage) ListStatRecords(ctx context.Context, playerID model.PlayerID, start, end civil.Date) ([]*model.StatRecord, error) {
	keys, err := s.client.ZRangeByScore(ctx, statsForPlayerIndexKey(playerID), &redis.ZRangeBy{
		Min: strconv.FormatFloat(dateScore(start), 'f', 0, 64),
		Max: strconv.FormatFloat(dateScore(end), 'f', 0, 64),
	}).Result()
	if err != nil {
		return nil, err
	}
	records, err := mgetJSON[model.StatRecord](ctx, s.client, keys)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(records, storage.CompareStatRecords)
	return records, nil
}

func (s *Storage) DeleteAllStatRecords(ctx context.Context) error {
	keys, err := s.client.SMembers(ctx, statIndexesKey()).Result()
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	for _, key := range keys {
		pipe.Del(ctx, key)
	}
	pipe.Del(ctx, statIndexesKey())
	_, err = pipe.Exec(ctx)
	return err
}

// Game week operations

func (s *Storage) SaveGameWeek(ctx context.Context, week *model.GameWeek) error {
	data, err := json.Marshal(week)
	if err != nil {
		return err
	}

	key := weekKey(week.Number)
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.ZAdd(ctx, weeksIndexKey(), redis.Z{Score: float64(week.Number), Member: key})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGameWeek(ctx context.Context, number int) (*model.GameWeek, error) {
	var week model.GameWeek
	if err := s.getJSON(ctx, weekKey(number), model.ErrWeekNotFound, &week); err != nil {
		return nil, err
	}
	return &week, nil
}

func (s *Storage) ListGameWeeks(ctx context.Context) ([]*model.GameWeek, error) {
	// The ZSET is scored by week number so range order is week order
	keys, err := s.client.ZRange(ctx, weeksIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return mgetJSON[model.GameWeek](ctx, s.client, keys)
}

// Matchup operations

func (s *Storage) SaveMatchup(ctx context.Context, matchup *model.Matchup) error {
	data, err := json.Marshal(matchup)
	if err != nil {
		return err
	}

	key := matchupKey(matchup.ID)
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, matchupsIndexKey(), key)
	pipe.SAdd(ctx, matchupsForWeekIndexKey(matchup.WeekNumber), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetMatchup(ctx context.Context, id model.MatchupID) (*model.Matchup, error) {
	var matchup model.Matchup
	if err := s.getJSON(ctx, matchupKey(id), model.ErrMatchupNotFound, &matchup); err != nil {
		return nil, err
	}
	return &matchup, nil
}

func (s *Storage) ListMatchups(ctx context.Context) ([]*model.Matchup, error) {
	return s.listMatchupsByIndex(ctx, matchupsIndexKey())
}

func (s *Storage) ListMatchupsForWeek(ctx context.Context, weekNumber int) ([]*model.Matchup, error) {
	return s.listMatchupsByIndex(ctx, matchupsForWeekIndexKey(weekNumber))
}

func (s *Storage) listMatchupsByIndex(ctx context.Context, indexKey string) ([]*model.Matchup, error) {
	keys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}
	matchups, err := mgetJSON[model.Matchup](ctx, s.client, keys)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(matchups, storage.CompareMatchups)
	return matchups, nil
}

func (s *Storage) DeleteSchedule(ctx context.Context) error {
	matchups, err := s.ListMatchups(ctx)
	if err != nil {
		return err
	}
	weekKeys, err := s.client.ZRange(ctx, weeksIndexKey(), 0, -1).Result()
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	for _, m := range matchups {
		pipe.Del(ctx, matchupKey(m.ID), matchupsForWeekIndexKey(m.WeekNumber))
	}
	for _, key := range weekKeys {
		pipe.Del(ctx, key)
	}
	pipe.Del(ctx, matchupsIndexKey(), weeksIndexKey())
	_, err = pipe.Exec(ctx)
	return err
}
