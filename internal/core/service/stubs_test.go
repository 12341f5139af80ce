package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/louagetn/station-client/internal/core/domain"
	"github.com/louagetn/station-client/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubKV struct {
	mu     sync.Mutex
	data   map[string][]byte
	setErr error
	gets   int
}

func newStubKV() *stubKV {
	return &stubKV{data: make(map[string][]byte)}
}

func (s *stubKV) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	v, ok := s.data[key]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *stubKV) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *stubKV) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *stubKV) Ping(context.Context) error { return nil }

func (s *stubKV) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

func (s *stubKV) getCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets
}

type stubAuth struct {
	mu          sync.Mutex
	loginFn     func(ctx context.Context, cin, password string) (*ports.LoginResponse, error)
	logoutFn    func(ctx context.Context, token string) error
	verifyFn    func(ctx context.Context, token string) (*ports.VerifyResponse, error)
	verifyCalls int
	logoutCalls int
}

func (a *stubAuth) Login(ctx context.Context, cin, password string) (*ports.LoginResponse, error) {
	return a.loginFn(ctx, cin, password)
}

func (a *stubAuth) Logout(ctx context.Context, token string) error {
	a.mu.Lock()
	a.logoutCalls++
	a.mu.Unlock()
	if a.logoutFn == nil {
		return nil
	}
	return a.logoutFn(ctx, token)
}

func (a *stubAuth) VerifyToken(ctx context.Context, token string) (*ports.VerifyResponse, error) {
	a.mu.Lock()
	a.verifyCalls++
	fn := a.verifyFn
	a.mu.Unlock()
	return fn(ctx, token)
}

func (a *stubAuth) setVerify(fn func(ctx context.Context, token string) (*ports.VerifyResponse, error)) {
	a.mu.Lock()
	a.verifyFn = fn
	a.mu.Unlock()
}

func (a *stubAuth) verifyCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.verifyCalls
}

func verifyOK(staff *domain.Identity) func(context.Context, string) (*ports.VerifyResponse, error) {
	return func(context.Context, string) (*ports.VerifyResponse, error) {
		return &ports.VerifyResponse{Success: true, Staff: staff}, nil
	}
}

func verifyRejected(msg string) func(context.Context, string) (*ports.VerifyResponse, error) {
	return func(context.Context, string) (*ports.VerifyResponse, error) {
		return &ports.VerifyResponse{Success: false, Message: msg}, nil
	}
}

func verifyUnreachable(err error) func(context.Context, string) (*ports.VerifyResponse, error) {
	return func(context.Context, string) (*ports.VerifyResponse, error) {
		return nil, err
	}
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func ahmed() domain.Identity {
	return domain.Identity{
		ID:        "s1",
		CIN:       "12345678",
		FirstName: "Ahmed",
		LastName:  "Ben Ali",
		Role:      domain.RoleWorker,
	}
}

type stack struct {
	kv        *stubKV
	auth      *stubAuth
	store     *SessionStore
	validator *SessionValidator
	manager   *SessionManager
}

func newStack(t *testing.T) *stack {
	t.Helper()
	kv := newStubKV()
	auth := &stubAuth{verifyFn: verifyOK(nil)}
	store := NewSessionStore(kv, zerolog.Nop())
	validator := NewSessionValidator(store, auth, time.Second, zerolog.Nop())
	validator.now = func() time.Time { return fixedNow }
	manager := NewSessionManager(store, validator, zerolog.Nop())
	manager.now = func() time.Time { return fixedNow }
	return &stack{kv: kv, auth: auth, store: store, validator: validator, manager: manager}
}

// seed persists a session directly, bypassing the manager cache.
func (s *stack) seed(t *testing.T, token string, expiresAt time.Time) *domain.Session {
	t.Helper()
	session := domain.NewSession(token, ahmed(), expiresAt)
	s.store.Save(context.Background(), session)
	return session
}

func sameSession(a, b *domain.Session) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Token != b.Token {
		return false
	}
	if (a.Identity == nil) != (b.Identity == nil) || (a.Identity != nil && *a.Identity != *b.Identity) {
		return false
	}
	if (a.ExpiresAt == nil) != (b.ExpiresAt == nil) {
		return false
	}
	return a.ExpiresAt == nil || a.ExpiresAt.Equal(*b.ExpiresAt)
}
