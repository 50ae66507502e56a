package backoffice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPreferenceOptions configures the Redis preference store.
type RedisPreferenceOptions struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379/0)
	URL    string
	Prefix string
	// TTL expires idle preferences; zero keeps them forever.
	TTL         time.Duration
	DialTimeout time.Duration
}

// RedisPreferenceStore shares preferences across server instances.
type RedisPreferenceStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisPreferenceStore connects to Redis using the given options.
func NewRedisPreferenceStore(opts RedisPreferenceOptions) (*RedisPreferenceStore, error) {
	if opts.URL == "" {
		return nil, errors.New("backoffice: redis URL is required")
	}
	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("backoffice: parse redis url: %w", err)
	}
	if opts.DialTimeout > 0 {
		redisOpts.DialTimeout = opts.DialTimeout
	}
	return NewRedisPreferenceStoreFromClient(redis.NewClient(redisOpts), opts.Prefix, opts.TTL), nil
}

// NewRedisPreferenceStoreFromClient wraps an existing client.
func NewRedisPreferenceStoreFromClient(client *redis.Client, prefix string, ttl time.Duration) *RedisPreferenceStore {
	if prefix == "" {
		prefix = "backoffice:prefs:"
	}
	return &RedisPreferenceStore{client: client, prefix: prefix, ttl: ttl}
}

// Preference implements PreferenceStore.
func (s *RedisPreferenceStore) Preference(ctx context.Context, key string) (string, error) {
	value, err := s.client.Get(ctx, s.key(ctx, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrPreferenceNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return value, nil
}

// SavePreference implements PreferenceStore.
func (s *RedisPreferenceStore) SavePreference(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(ctx, key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *RedisPreferenceStore) Close() error {
	return s.client.Close()
}

func (s *RedisPreferenceStore) key(ctx context.Context, key string) string {
	viewer := ViewerFromContext(ctx)
	if viewer.UserID == "" {
		return s.prefix + "anonymous:" + key
	}
	return s.prefix + viewer.UserID + ":" + key
}
