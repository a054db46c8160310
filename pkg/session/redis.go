package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flickergrid/flickergrid/pkg/design"
)

// DefaultRedisKey is the hash that holds every session.
const DefaultRedisKey = "flickergrid:sessions"

// RedisStore keeps sessions as fields of one Redis hash, name → design text.
type RedisStore struct {
	client redis.UniversalClient
	key    string
	now    func() time.Time
}

// RedisConfig configures a RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Key is the hash name; defaults to DefaultRedisKey.
	Key string
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return NewRedisStoreFromClient(client, cfg.Key), nil
}

// NewRedisStoreFromClient wraps an existing client. Closing the store closes
// the client.
func NewRedisStoreFromClient(client redis.UniversalClient, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key, now: time.Now}
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	names, err := s.client.HKeys(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func (s *RedisStore) Get(ctx context.Context, name string) (string, error) {
	name, err := lookupName(name)
	if err != nil {
		return "", err
	}
	text, err := s.client.HGet(ctx, s.key, name).Result()
	if errors.Is(err, redis.Nil) {
		return "", notFound(name)
	}
	if err != nil {
		return "", fmt.Errorf("get session %q: %w", name, err)
	}
	return text, nil
}

func (s *RedisStore) Save(ctx context.Context, name, text string) (string, error) {
	name, patches, err := prepare(name, text, s.now())
	if err != nil {
		return "", err
	}
	if err := s.client.HSet(ctx, s.key, name, design.Serialize(patches)).Err(); err != nil {
		return "", fmt.Errorf("save session %q: %w", name, err)
	}
	return name, nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	name, err := lookupName(name)
	if err != nil {
		return err
	}
	n, err := s.client.HDel(ctx, s.key, name).Result()
	if err != nil {
		return fmt.Errorf("delete session %q: %w", name, err)
	}
	if n == 0 {
		return notFound(name)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
