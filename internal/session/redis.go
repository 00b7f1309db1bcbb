package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisConfig configures the redis-backed store.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
	// LockTTL bounds how long a crashed holder can block a session.
	LockTTL time.Duration
	// LockWait bounds how long Lock retries before ErrLockTimeout.
	LockWait time.Duration
}

// unlockScript deletes the lock only when it still holds our token.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore keeps sessions as JSON values with a TTL and uses SET NX keys
// as per-session locks, so several replicas can share conversations.
type RedisStore struct {
	client   redis.UniversalClient
	prefix   string
	ttl      time.Duration
	lockTTL  time.Duration
	lockWait time.Duration
}

// NewRedisClient connects and pings redis.
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client redis.UniversalClient, cfg RedisConfig) *RedisStore {
	s := &RedisStore{
		client:   client,
		prefix:   cfg.KeyPrefix,
		ttl:      cfg.TTL,
		lockTTL:  cfg.LockTTL,
		lockWait: cfg.LockWait,
	}
	if s.prefix == "" {
		s.prefix = "triage:session:"
	}
	if s.lockTTL <= 0 {
		s.lockTTL = 30 * time.Second
	}
	if s.lockWait <= 0 {
		s.lockWait = 10 * time.Second
	}
	return s
}

func (s *RedisStore) key(id string) string     { return s.prefix + id }
func (s *RedisStore) lockKey(id string) string { return s.prefix + id + ":lock" }

func (s *RedisStore) Lock(ctx context.Context, id string) (func(), error) {
	token := uuid.NewString()
	key := s.lockKey(id)
	deadline := time.Now().Add(s.lockWait)
	backoff := 5 * time.Millisecond
	for {
		ok, err := s.client.SetNX(ctx, key, token, s.lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire session lock: %w", err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, 200*time.Millisecond)
	}
	return func() {
		// Release even when the request context is already cancelled.
		if err := unlockScript.Run(context.Background(), s.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("component", "session").Str("session_id", id).Msg("failed to release session lock")
		}
	}, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*State, bool, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get session: %w", err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, false, fmt.Errorf("decode session: %w", err)
	}
	return &st, true, nil
}

func (s *RedisStore) Save(ctx context.Context, state *State) error {
	st := *state
	st.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(state.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
