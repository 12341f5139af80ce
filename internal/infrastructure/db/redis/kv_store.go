package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/louagetn/station-client/internal/core/domain"
	"github.com/louagetn/station-client/internal/core/ports"
)

// KVStore keeps session entries in Redis with no TTL; session expiry is
// decided by the session layer, not by key eviction.
// Key format: station:<station_id>:<key>
type KVStore struct {
	client *redis.Client
	prefix string
}

var _ ports.KVStore = (*KVStore)(nil)

// NewKVStore scopes all keys to stationID so several kiosks can share one
// Redis instance.
func NewKVStore(client *redis.Client, stationID string) *KVStore {
	return &KVStore{client: client, prefix: keyPrefix(stationID)}
}

func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", key, domain.ErrEntryNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *KVStore) key(k string) string {
	return s.prefix + k
}

func keyPrefix(stationID string) string {
	if stationID == "" {
		stationID = "default"
	}
	return "station:" + stationID + ":"
}
