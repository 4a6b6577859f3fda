package combatlogs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/thornwatch/d20combat/internal/combat"
	"github.com/thornwatch/d20combat/internal/errors"
)

const (
	// Key patterns
	logKeyPrefix     = "combatlog:"
	outcomeKeySuffix = ":outcome"
	sessionsIndexKey = "combatlog:sessions"

	// TTL for stored logs (7 days)
	logTTL = 7 * 24 * time.Hour
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
	LogTTL time.Duration
}

// redisRepository implements Repository using Redis. Entries are stored as
// a list of JSON documents per session, so appends never rewrite the log.
type redisRepository struct {
	client redis.UniversalClient
	logTTL time.Duration
}

// NewRedisRepository creates a new Redis-backed combat log repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg.Client == nil {
		panic("redis client is required")
	}

	ttl := cfg.LogTTL
	if ttl == 0 {
		ttl = logTTL
	}

	return &redisRepository{
		client: cfg.Client,
		logTTL: ttl,
	}
}

// NewRedis creates a new Redis-backed combat log repository with default
// configuration
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{
		Client: client,
		LogTTL: logTTL,
	})
}

func (r *redisRepository) Append(ctx context.Context, sessionID string, entries ...combat.LogEntry) error {
	if sessionID == "" {
		return errors.InvalidArgument("session ID cannot be empty")
	}
	if len(entries) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(entries))
	for _, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return errors.Wrap(err, "failed to serialize log entry")
		}
		values = append(values, data)
	}

	logKey := logKeyPrefix + sessionID
	if err := r.client.RPush(ctx, logKey, values...).Err(); err != nil {
		return errors.Wrap(err, "failed to append log entries")
	}
	if err := r.client.Expire(ctx, logKey, r.logTTL).Err(); err != nil {
		return errors.Wrap(err, "failed to refresh log TTL")
	}
	if err := r.client.SAdd(ctx, sessionsIndexKey, sessionID).Err(); err != nil {
		return errors.Wrap(err, "failed to index session")
	}

	return nil
}

func (r *redisRepository) Get(ctx context.Context, sessionID string) ([]combat.LogEntry, error) {
	logKey := logKeyPrefix + sessionID

	raw, err := r.client.LRange(ctx, logKey, 0, -1).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get combat log")
	}
	if len(raw) == 0 {
		return nil, errors.NotFoundf("no combat log for session %q", sessionID)
	}

	entries := make([]combat.LogEntry, 0, len(raw))
	for _, data := range raw {
		var entry combat.LogEntry
		if err := json.Unmarshal([]byte(data), &entry); err != nil {
			return nil, errors.Wrap(err, "failed to deserialize log entry")
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (r *redisRepository) SetOutcome(ctx context.Context, sessionID string, outcome *combat.Outcome) error {
	if sessionID == "" {
		return errors.InvalidArgument("session ID cannot be empty")
	}
	if outcome == nil {
		return errors.InvalidArgument("outcome cannot be nil")
	}

	data, err := json.Marshal(outcome)
	if err != nil {
		return errors.Wrap(err, "failed to serialize outcome")
	}

	outcomeKey := logKeyPrefix + sessionID + outcomeKeySuffix
	if err := r.client.Set(ctx, outcomeKey, data, r.logTTL).Err(); err != nil {
		return errors.Wrap(err, "failed to store outcome")
	}

	return nil
}

func (r *redisRepository) GetOutcome(ctx context.Context, sessionID string) (*combat.Outcome, error) {
	outcomeKey := logKeyPrefix + sessionID + outcomeKeySuffix

	data, err := r.client.Get(ctx, outcomeKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("no outcome recorded for session %q", sessionID)
		}
		return nil, errors.Wrap(err, "failed to get outcome")
	}

	var outcome combat.Outcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return nil, errors.Wrap(err, "failed to deserialize outcome")
	}

	return &outcome, nil
}

func (r *redisRepository) ListSessions(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, sessionsIndexKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sessions")
	}
	return ids, nil
}

func (r *redisRepository) Delete(ctx context.Context, sessionID string) error {
	logKey := logKeyPrefix + sessionID
	outcomeKey := logKey + outcomeKeySuffix

	deleted, err := r.client.Del(ctx, logKey, outcomeKey).Result()
	if err != nil {
		return errors.Wrap(err, "failed to delete combat log")
	}
	if deleted == 0 {
		return errors.NotFoundf("no combat log for session %q", sessionID)
	}

	if err := r.client.SRem(ctx, sessionsIndexKey, sessionID).Err(); err != nil {
		return errors.Wrap(err, "failed to remove session from index")
	}

	return nil
}
