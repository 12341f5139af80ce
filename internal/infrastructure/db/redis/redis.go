package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	clientName     = "stationctl"
	defaultTimeout = 3 * time.Second
)

// Config selects the Redis instance shared by the station kiosks and the
// station whose keys this process owns.
type Config struct {
	Addr      string
	Password  string
	DB        int
	StationID string
	// Timeout bounds dialing and every command. A kiosk on a flaky uplink
	// should fail a session read fast rather than hang the UI.
	Timeout time.Duration
}

// Open dials Redis and returns a station-scoped session store. The store
// owns the client; Close releases it.
func Open(ctx context.Context, cfg Config) (*KVStore, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ClientName:   clientName,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		MaxRetries:   1,
	})
	store := NewKVStore(client, cfg.StationID)

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("session store redis %s db %d: %w", cfg.Addr, cfg.DB, err)
	}
	return store, nil
}

// Close releases the underlying client.
func (s *KVStore) Close() error {
	return s.client.Close()
}
