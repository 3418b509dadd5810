package storage

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/langpoll/langpoll/logging"
)

const (
	redisPicksKey   = "poll:picks"
	redisOrderKey   = "poll:options"
	redisHistoryKey = "poll:log"
)

// voteScript guards against unknown options, then increments the pick count
// and appends the log entry in one server-side step.
var voteScript = redis.NewScript(`
if redis.call("HEXISTS", KEYS[1], ARGV[1]) == 0 then
    return 0
end
redis.call("HINCRBY", KEYS[1], ARGV[1], 1)
redis.call("RPUSH", KEYS[2], ARGV[2])
return 1
`)

// clearScript zeroes every pick count and drops the log together.
var clearScript = redis.NewScript(`
local fields = redis.call("HKEYS", KEYS[1])
for _, field in ipairs(fields) do
    redis.call("HSET", KEYS[1], field, 0)
end
redis.call("DEL", KEYS[2])
return #fields
`)

// RedisOptionStore is the managed-service backend.
type RedisOptionStore struct {
	client *redis.Client
}

func NewRedisOptionStore(client *redis.Client) *RedisOptionStore {
	return &RedisOptionStore{client: client}
}

// ConnectRedis pings the server before handing back a usable client.
func ConnectRedis(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, err
	}
	logging.Log.Infof("STORE: connected to redis at %s", addr)
	return client, nil
}

func (s *RedisOptionStore) ListOptions(ctx context.Context) ([]*Option, error) {
	names, err := s.client.LRange(ctx, redisOrderKey, 0, -1).Result()
	if err != nil {
		logging.Log.Errorf("STORE: redis list failed: %v", err)
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}

	picks, err := s.client.HGetAll(ctx, redisPicksKey).Result()
	if err != nil {
		logging.Log.Errorf("STORE: redis picks read failed: %v", err)
		return nil, err
	}

	options := make([]*Option, 0, len(names))
	for _, name := range names {
		o := &Option{Name: name}
		if raw, ok := picks[name]; ok {
			count, err := strconv.Atoi(raw)
			if err != nil {
				return nil, err
			}
			o.Picks = count
		}
		options = append(options, o)
	}
	return options, nil
}

func (s *RedisOptionStore) RecordVote(ctx context.Context, option string) error {
	id, err := newEntryID()
	if err != nil {
		return err
	}
	entry, err := json.Marshal(&LogEntry{
		ID:        id,
		Option:    option,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	err = voteScript.Run(ctx, s.client, []string{redisPicksKey, redisHistoryKey}, option, entry).Err()
	if err != nil {
		logging.Log.Errorf("STORE: redis vote failed: %v", err)
	}
	return err
}

func (s *RedisOptionStore) History(ctx context.Context) ([]*LogEntry, error) {
	raw, err := s.client.LRange(ctx, redisHistoryKey, 0, -1).Result()
	if err != nil {
		logging.Log.Errorf("STORE: redis history failed: %v", err)
		return nil, err
	}

	entries := make([]*LogEntry, 0, len(raw))
	for _, item := range raw {
		var e LogEntry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, nil
}

func (s *RedisOptionStore) ClearAll(ctx context.Context) error {
	err := clearScript.Run(ctx, s.client, []string{redisPicksKey, redisHistoryKey}).Err()
	if err != nil {
		logging.Log.Errorf("STORE: redis clear failed: %v", err)
	}
	return err
}

func (s *RedisOptionStore) EnsureOptions(ctx context.Context, names []string) error {
	for _, name := range names {
		created, err := s.client.HSetNX(ctx, redisPicksKey, name, 0).Result()
		if err != nil {
			logging.Log.Errorf("STORE: redis seed of %s failed: %v", name, err)
			return err
		}
		if created {
			if err := s.client.RPush(ctx, redisOrderKey, name).Err(); err != nil {
				return err
			}
		}
	}
	return nil
}
