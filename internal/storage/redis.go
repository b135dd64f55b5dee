package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adherahq/adhera-bot/internal/apperrors"
	"github.com/adherahq/adhera-bot/internal/domain"
	"github.com/adherahq/adhera-bot/internal/logger"
)

// RedisStore persists each record as one JSON string value, no TTL.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(redisHost, redisPort string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", redisHost, redisPort),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func recordKey(userKey string) string {
	return "adhera:record:" + userKey
}

// Load fetches and decodes the record. Missing keys and transport
// errors both fall back to the empty default; only a present but
// undecodable payload is flagged corrupt.
func (s *RedisStore) Load(ctx context.Context, userKey string) (domain.UserRecord, domain.LoadInfo) {
	result := s.client.Get(ctx, recordKey(userKey))
	if result.Err() != nil {
		return domain.NewUserRecord(), domain.LoadInfo{}
	}

	var rec domain.UserRecord
	if err := json.Unmarshal([]byte(result.Val()), &rec); err != nil {
		logger.Warn("Corrupt record, using empty default",
			apperrors.NewParseError(err).WithContext("user_key", userKey).LogFields()...)
		return domain.NewUserRecord(), domain.LoadInfo{Found: true, Corrupt: true}
	}
	if rec.NextID < 1 {
		rec.NextID = 1
	}
	return rec, domain.LoadInfo{Found: true}
}

// Save overwrites the stored record with the given one.
func (s *RedisStore) Save(ctx context.Context, userKey string, record domain.UserRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	if err := s.client.Set(ctx, recordKey(userKey), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store record: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
