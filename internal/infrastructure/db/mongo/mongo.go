package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	appName        = "stationctl"
	defaultTimeout = 5 * time.Second
)

// Config points at the database holding session entries and, for the auth
// simulator, staff accounts.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Dial connects and checks the primary is reachable, since both the session
// store and the staff repository write. Release it with Hangup.
func Dial(ctx context.Context, cfg Config) (*mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect %s: %w", cfg.Database, err)
	}
	if err := client.Ping(dialCtx, readpref.Primary()); err != nil {
		Hangup(client.Database(cfg.Database))
		return nil, fmt.Errorf("mongo primary for %s unreachable: %w", cfg.Database, err)
	}
	return client.Database(cfg.Database), nil
}

// Hangup disconnects the client behind db, waiting at most defaultTimeout.
func Hangup(db *mongo.Database) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	_ = db.Client().Disconnect(ctx)
}
