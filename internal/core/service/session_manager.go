package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/louagetn/station-client/internal/core/domain"
	"github.com/louagetn/station-client/internal/core/ports"
)

// SessionManager is the single access point to the station session. It owns
// the in-memory copy and is the only writer of the persisted one.
//
// The mutex only keeps the cache pointer coherent; session-mutating flows
// still need to be serialized by the caller (the AuthController does this).
type SessionManager struct {
	store     ports.SessionStore
	validator *SessionValidator
	now       func() time.Time
	log       zerolog.Logger

	mu     sync.Mutex
	cached *domain.Session
}

var _ ports.SessionManager = (*SessionManager)(nil)

func NewSessionManager(store ports.SessionStore, validator *SessionValidator, log zerolog.Logger) *SessionManager {
	return &SessionManager{
		store:     store,
		validator: validator,
		now:       time.Now,
		log:       log.With().Str("component", "session_manager").Logger(),
	}
}

// SaveSession replaces the current session in memory and in the store.
func (m *SessionManager) SaveSession(ctx context.Context, session *domain.Session) {
	if session == nil {
		return
	}
	m.setCached(session)
	m.store.Save(ctx, session)
}

// LoadSession returns the cached session or loads and caches the persisted
// one. Unreadable data is logged and reported as no session.
func (m *SessionManager) LoadSession(ctx context.Context) *domain.Session {
	if s := m.getCached(); s != nil {
		return s
	}
	session, err := m.store.Load(ctx)
	if err != nil {
		m.log.Error().Err(err).Msg("load session failed")
		return nil
	}
	if session == nil {
		return nil
	}
	m.setCached(session)
	return session.Clone()
}

// GetCurrentSession returns the session this process should act as.
func (m *SessionManager) GetCurrentSession(ctx context.Context) *domain.Session {
	return m.LoadSession(ctx)
}

// ClearSession drops the session from memory and the store. Idempotent.
func (m *SessionManager) ClearSession(ctx context.Context) {
	m.setCached(nil)
	m.store.Clear(ctx)
}

// ForgetSession drops the in-memory copy but leaves the store alone.
func (m *SessionManager) ForgetSession() {
	m.setCached(nil)
}

// ValidateSession runs the startup gate and keeps the cache in line with its
// verdict.
func (m *SessionManager) ValidateSession(ctx context.Context) domain.ValidationResult {
	result := m.validator.Validate(ctx)
	switch {
	case result.Valid:
		m.setCached(result.Session)
		result.Session = result.Session.Clone()
	case !result.Preserved():
		m.setCached(nil)
	}
	return result
}

// RefreshSession re-verifies the current session and merges any updated
// identity. Unlike ValidateSession it never clears anything: a rejection or
// local expiry is reported to the caller, which owns that policy.
func (m *SessionManager) RefreshSession(ctx context.Context) (*domain.Session, error) {
	session := m.GetCurrentSession(ctx)
	if session == nil {
		return nil, domain.ErrNoSession
	}
	if session.IsExpired(m.now()) {
		return session, domain.ErrSessionExpired
	}

	resp, err := m.validator.verify(ctx, session.Token)
	if err != nil {
		return session, fmt.Errorf("%w: %v", domain.ErrTransientNetwork, err)
	}
	if !resp.Success {
		return session, rejection(resp.Message)
	}

	if updated, ok := mergeVerified(session, resp.Staff, m.log); ok {
		m.SaveSession(ctx, updated)
		m.log.Debug().Str("cin", updated.Identity.CIN).Msg("session identity refreshed")
		return updated.Clone(), nil
	}
	return session, nil
}

// GetSessionInfo reports what is currently held, without side effects. The
// cache is consulted first and the store is read but never cached from here.
func (m *SessionManager) GetSessionInfo(ctx context.Context) domain.SessionInfo {
	session := m.getCached()
	if session == nil {
		var err error
		session, err = m.store.Load(ctx)
		if err != nil {
			m.log.Warn().Err(err).Msg("session info: store unreadable")
			return domain.SessionInfo{}
		}
	}
	return session.InfoAt(m.now())
}

func (m *SessionManager) getCached() *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cached.Clone()
}

func (m *SessionManager) setCached(s *domain.Session) {
	m.mu.Lock()
	m.cached = s.Clone()
	m.mu.Unlock()
}

// Process-wide instance. InitManager runs once at process start; the manager
// owns no unmanaged resources, so there is no teardown.
var (
	defaultMu      sync.RWMutex
	defaultManager *SessionManager
)

// InitManager installs m as the process session manager. Later calls are
// ignored until ResetManager.
func InitManager(m *SessionManager) *SessionManager {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultManager == nil {
		defaultManager = m
	}
	return defaultManager
}

// Manager returns the process session manager. Panics if InitManager has not
// been called.
func Manager() *SessionManager {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	if defaultManager == nil {
		panic("service: Manager() called before InitManager()")
	}
	return defaultManager
}

// ResetManager clears the process instance. Tests only.
func ResetManager() {
	defaultMu.Lock()
	defaultManager = nil
	defaultMu.Unlock()
}
