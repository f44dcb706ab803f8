package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"order-service/internal/pkg/config"

	"github.com/redis/go-redis/v9"
)

var ErrSpoolEmpty = errors.New("event spool is empty")

// Spool parks events that could not be written so they can be retried later.
type Spool interface {
	// Push appends to the tail.
	Push(ctx context.Context, payload []byte) error
	// Requeue puts payload back at the head so it is popped next.
	Requeue(ctx context.Context, payload []byte) error
	// Pop removes the head, or returns ErrSpoolEmpty.
	Pop(ctx context.Context) ([]byte, error)
	Len(ctx context.Context) (int64, error)
}

func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// RedisSpool is a FIFO list: LPUSH at the tail, RPOP from the head.
type RedisSpool struct {
	client *redis.Client
	key    string
}

func NewRedisSpool(client *redis.Client, key string) *RedisSpool {
	return &RedisSpool{client: client, key: key}
}

func (s *RedisSpool) Push(ctx context.Context, payload []byte) error {
	if err := s.client.LPush(ctx, s.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to push to spool: %w", err)
	}
	return nil
}

func (s *RedisSpool) Requeue(ctx context.Context, payload []byte) error {
	if err := s.client.RPush(ctx, s.key, payload).Err(); err != nil {
		return fmt.Errorf("failed to requeue to spool: %w", err)
	}
	return nil
}

func (s *RedisSpool) Pop(ctx context.Context) ([]byte, error) {
	payload, err := s.client.RPop(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSpoolEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pop from spool: %w", err)
	}
	return payload, nil
}

func (s *RedisSpool) Len(ctx context.Context) (int64, error) {
	return s.client.LLen(ctx, s.key).Result()
}
