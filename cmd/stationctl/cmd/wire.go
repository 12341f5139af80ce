package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/louagetn/station-client/internal/core/ports"
	"github.com/louagetn/station-client/internal/core/service"
	"github.com/louagetn/station-client/internal/infrastructure/authapi"
	"github.com/louagetn/station-client/internal/infrastructure/db/bolt"
	"github.com/louagetn/station-client/internal/infrastructure/db/memory"
	"github.com/louagetn/station-client/internal/infrastructure/db/mongo"
	"github.com/louagetn/station-client/internal/infrastructure/db/redis"
	"github.com/louagetn/station-client/internal/pkg/config"
)

// stack is the wired session subsystem.
type stack struct {
	kv      ports.KVStore
	client  *authapi.Client
	manager *service.SessionManager
	close   func()
}

// openKV opens the configured session store backend.
func openKV(ctx context.Context, cfg *config.Config) (ports.KVStore, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreBolt:
		s, err := bolt.Open(cfg.Store.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open session store %s (is the daemon running?): %w", cfg.Store.Path, err)
		}
		return s, func() { _ = s.Close() }, nil
	case config.StoreRedis:
		s, err := redis.Open(ctx, redis.Config{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			StationID: cfg.StationID,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case config.StoreMongo:
		db, err := mongo.Dial(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		return mongo.NewKVStore(db, cfg.StationID), func() { mongo.Hangup(db) }, nil
	case config.StoreMemory:
		return memory.NewStore(), func() {}, nil
	}
	return nil, nil, errors.New("unknown session store backend " + cfg.Store.Backend)
}

// buildStack wires store, auth client, validator and the process session
// manager.
func buildStack(ctx context.Context, cfg *config.Config) (*stack, error) {
	kv, closeKV, err := openKV(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := authapi.NewClient(authapi.Config{BaseURL: cfg.AuthAPI.BaseURL, Timeout: cfg.AuthAPI.Timeout}, log("auth_client"))
	store := service.NewSessionStore(kv, log("session"))
	validator := service.NewSessionValidator(store, client, cfg.Session.VerifyTimeout, log("session"))
	manager := service.InitManager(service.NewSessionManager(store, validator, log("session")))

	return &stack{kv: kv, client: client, manager: manager, close: closeKV}, nil
}

// controller starts an AuthController and waits for its startup restore.
func (s *stack) controller(ctx context.Context, cfg *config.Config, l zerolog.Logger) (*service.AuthController, error) {
	ctrl := service.NewAuthController(ctx, s.manager, s.client, l,
		service.WithSessionTTL(cfg.Session.TTL),
		service.WithRemoteTimeout(cfg.AuthAPI.Timeout),
	)
	if err := ctrl.WaitReady(ctx); err != nil {
		return nil, err
	}
	return ctrl, nil
}
