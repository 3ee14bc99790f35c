package rate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"karat-desk/internal/domain"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

const DefaultSnapshotTTL = 24 * time.Hour

// SnapshotStore persists the last good snapshot across restarts
type SnapshotStore interface {
	Load(ctx context.Context) (domain.RateSnapshot, error)
	Save(ctx context.Context, snap domain.RateSnapshot) error
}

type RedisSnapshotStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisSnapshotStore(client *redis.Client, key string, ttl time.Duration) *RedisSnapshotStore {
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	return &RedisSnapshotStore{client: client, key: key, ttl: ttl}
}

// Load returns the cached snapshot tagged as coming from the cache
func (s *RedisSnapshotStore) Load(ctx context.Context) (domain.RateSnapshot, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.RateSnapshot{}, ErrCacheMiss
	}
	if err != nil {
		return domain.RateSnapshot{}, fmt.Errorf("redis get failed: %w", err)
	}

	var snap domain.RateSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.RateSnapshot{}, fmt.Errorf("unmarshal rate snapshot failed: %w", err)
	}
	snap.Source = domain.RateSourceCache

	return snap, nil
}

func (s *RedisSnapshotStore) Save(ctx context.Context, snap domain.RateSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal rate snapshot failed: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
