package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/edgard/relaybot/internal/config"
)

// RedisStore keeps correlation entries as plain Redis strings, one key per
// relayed message, so several processes can share it.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisStore connects to the Redis server at cfg.URL and verifies the
// connection.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	s := NewRedisStoreWithClient(redis.NewClient(opts), cfg.TTL, logger)
	if err := s.Ping(ctx); err != nil {
		_ = s.client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}
	s.logger.Info("Connected to redis", "addr", opts.Addr, "db", opts.DB)
	return s, nil
}

// NewRedisStoreWithClient wraps an existing client. A zero ttl keeps entries
// until the server evicts them.
func NewRedisStoreWithClient(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisStore {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "store", "driver", "redis"),
	}
}

// Get returns the origin chat stored under key.
func (s *RedisStore) Get(ctx context.Context, key string) (int64, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get correlation %s: %w", key, err)
	}
	chatID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt correlation %s=%q: %w", key, val, err)
	}
	return chatID, true, nil
}

// Set stores chatID under key.
func (s *RedisStore) Set(ctx context.Context, key string, chatID int64) error {
	if err := s.client.Set(ctx, key, strconv.FormatInt(chatID, 10), s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save correlation %s: %w", key, err)
	}
	s.logger.DebugContext(ctx, "Correlation saved", "key", key, "chat_id", chatID)
	return nil
}

// Ping checks the server connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// RunMaintenance reports key space usage. Eviction stays a server policy.
func (s *RedisStore) RunMaintenance(ctx context.Context) error {
	size, err := s.client.DBSize(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to read redis dbsize: %w", err)
	}
	s.logger.InfoContext(ctx, "Redis key space", "keys", size, "ttl", s.ttl)
	return nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
