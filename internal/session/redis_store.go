package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"llmgateway/internal/llmgw"
)

// RedisStore is a Redis-backed CheckpointStore. Each thread is a Redis
// list of JSON-encoded messages; every read or write refreshes the key's
// TTL, matching the checkpoint store's per-thread TTL-on-access contract.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore builds a RedisStore against addr, pinging to validate the
// connection before returning.
func NewRedisStore(addr string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) key(threadID string) string {
	return "session:history:" + threadID
}

func (s *RedisStore) AppendMessages(ctx context.Context, threadID string, messages []llmgw.Message) error {
	if len(messages) == 0 {
		return nil
	}
	encoded := make([]any, len(messages))
	for i, m := range messages {
		b, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("session: marshal message: %w", err)
		}
		encoded[i] = b
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, s.key(threadID), encoded...)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key(threadID), s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) GetMessages(ctx context.Context, threadID string) ([]llmgw.Message, error) {
	raw, err := s.client.LRange(ctx, s.key(threadID), 0, -1).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	if s.ttl > 0 && len(raw) > 0 {
		s.client.Expire(ctx, s.key(threadID), s.ttl)
	}

	out := make([]llmgw.Message, 0, len(raw))
	for _, item := range raw {
		var m llmgw.Message
		if err := json.Unmarshal([]byte(item), &m); err != nil {
			return nil, fmt.Errorf("session: unmarshal message: %w", err)
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *RedisStore) DeleteThread(ctx context.Context, threadID string) error {
	return s.client.Del(ctx, s.key(threadID)).Err()
}

// Close closes the underlying Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
