package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/louagetn/station-client/internal/core/domain"
	"github.com/louagetn/station-client/internal/core/ports"
)

// Keys of the three independent session entries.
const (
	KeyAuth           = "auth"
	KeyStaff          = "staff"
	KeySessionExpires = "session_expires"
)

// expiryLayout is ISO-8601 with sub-second precision, always written in UTC.
const expiryLayout = time.RFC3339Nano

type authEntry struct {
	Token string `json:"token"`
}

// SessionStore persists the station session as three entries in a KVStore.
type SessionStore struct {
	kv  ports.KVStore
	log zerolog.Logger
}

var _ ports.SessionStore = (*SessionStore)(nil)

func NewSessionStore(kv ports.KVStore, log zerolog.Logger) *SessionStore {
	return &SessionStore{kv: kv, log: log.With().Str("component", "session_store").Logger()}
}

// Save writes token, identity and expiry. A session without expiry removes
// any expiry left behind by a previous session.
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) {
	if session == nil {
		return
	}

	authData, err := json.Marshal(authEntry{Token: session.Token})
	if err != nil {
		s.log.Error().Err(err).Msg("encode auth entry")
		return
	}
	if err := s.kv.Set(ctx, KeyAuth, authData); err != nil {
		s.log.Error().Err(err).Str("key", KeyAuth).Msg("persist session entry failed")
	}

	if session.Identity != nil {
		staffData, err := json.Marshal(session.Identity)
		if err != nil {
			s.log.Error().Err(err).Msg("encode staff entry")
		} else if err := s.kv.Set(ctx, KeyStaff, staffData); err != nil {
			s.log.Error().Err(err).Str("key", KeyStaff).Msg("persist session entry failed")
		}
	}

	if session.ExpiresAt != nil {
		stamp := session.ExpiresAt.UTC().Format(expiryLayout)
		if err := s.kv.Set(ctx, KeySessionExpires, []byte(stamp)); err != nil {
			s.log.Error().Err(err).Str("key", KeySessionExpires).Msg("persist session entry failed")
		}
	} else if err := s.kv.Delete(ctx, KeySessionExpires); err != nil {
		s.log.Error().Err(err).Str("key", KeySessionExpires).Msg("drop stale expiry failed")
	}
}

// Load rebuilds the session. Token and staff entries are both required; an
// expiry entry on its own is ignored.
func (s *SessionStore) Load(ctx context.Context) (*domain.Session, error) {
	authData, err := s.get(ctx, KeyAuth)
	if err != nil || authData == nil {
		return nil, err
	}
	staffData, err := s.get(ctx, KeyStaff)
	if err != nil || staffData == nil {
		return nil, err
	}

	var auth authEntry
	if err := json.Unmarshal(authData, &auth); err != nil {
		return nil, fmt.Errorf("load session: %s: %w", KeyAuth, errors.Join(domain.ErrCorruptSession, err))
	}
	if auth.Token == "" {
		return nil, nil
	}

	var identity domain.Identity
	if err := json.Unmarshal(staffData, &identity); err != nil {
		return nil, fmt.Errorf("load session: %s: %w", KeyStaff, errors.Join(domain.ErrCorruptSession, err))
	}

	session := &domain.Session{Token: auth.Token, Identity: &identity}

	expData, err := s.get(ctx, KeySessionExpires)
	if err != nil {
		return nil, err
	}
	if expData != nil {
		exp, err := time.Parse(expiryLayout, string(expData))
		if err != nil {
			return nil, fmt.Errorf("load session: %s: %w", KeySessionExpires, errors.Join(domain.ErrCorruptSession, err))
		}
		exp = exp.UTC()
		session.ExpiresAt = &exp
	}
	return session, nil
}

// Clear removes every entry. Missing entries are not an error.
func (s *SessionStore) Clear(ctx context.Context) {
	for _, key := range []string{KeyAuth, KeyStaff, KeySessionExpires} {
		if err := s.kv.Delete(ctx, key); err != nil {
			s.log.Error().Err(err).Str("key", key).Msg("clear session entry failed")
		}
	}
}

// get returns nil, nil for a missing key.
func (s *SessionStore) get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, domain.ErrEntryNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %s: %w", key, err)
	}
	return data, nil
}
