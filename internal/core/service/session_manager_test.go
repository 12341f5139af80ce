package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/louagetn/station-client/internal/core/domain"
)

func TestSessionManager_LoadSessionCaches(t *testing.T) {
	s := newStack(t)
	s.seed(t, "abc", fixedNow.Add(time.Hour))
	ctx := context.Background()

	first := s.manager.LoadSession(ctx)
	reads := s.kv.getCount()
	second := s.manager.GetCurrentSession(ctx)

	if first == nil || !sameSession(first, second) {
		t.Fatalf("expected the same session twice, got %+v / %+v", first, second)
	}
	if s.kv.getCount() != reads {
		t.Fatalf("second read must come from the cache")
	}
}

func TestSessionManager_CachedSessionIsIsolated(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	s.manager.SaveSession(ctx, domain.NewSession("abc", ahmed(), time.Time{}))

	got := s.manager.GetCurrentSession(ctx)
	got.Identity.FirstName = "Mutated"

	if again := s.manager.GetCurrentSession(ctx); again.Identity.FirstName != "Ahmed" {
		t.Fatalf("callers must not be able to mutate the cache")
	}
}

func TestSessionManager_ClearSessionIdempotent(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	s.manager.SaveSession(ctx, domain.NewSession("abc", ahmed(), fixedNow.Add(time.Hour)))

	s.manager.ClearSession(ctx)
	once := s.manager.GetSessionInfo(ctx)
	s.manager.ClearSession(ctx)
	twice := s.manager.GetSessionInfo(ctx)

	if once.HasSession || twice.HasSession || once != twice {
		t.Fatalf("clear must be idempotent: %+v vs %+v", once, twice)
	}
	if s.manager.GetCurrentSession(ctx) != nil {
		t.Fatalf("expected no current session")
	}
}

func TestSessionManager_ValidateSessionSyncsCache(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	s.seed(t, "abc", fixedNow.Add(time.Hour))

	if res := s.manager.ValidateSession(ctx); !res.Valid {
		t.Fatalf("expected valid, got %+v", res)
	}
	if s.manager.getCached() == nil {
		t.Fatalf("valid session must be cached")
	}

	s.auth.setVerify(verifyUnreachable(errors.New("no route to host")))
	if res := s.manager.ValidateSession(ctx); res.Source != domain.SourceError {
		t.Fatalf("expected network error, got %+v", res)
	}
	if s.manager.getCached() == nil {
		t.Fatalf("network error must not drop the cache")
	}

	s.auth.setVerify(verifyRejected("superseded"))
	if res := s.manager.ValidateSession(ctx); res.Source != domain.SourceServer {
		t.Fatalf("expected rejection, got %+v", res)
	}
	if s.manager.getCached() != nil {
		t.Fatalf("rejection must drop the cache")
	}
}

func TestSessionManager_RefreshSessionMergesIdentity(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	s.manager.SaveSession(ctx, domain.NewSession("abc", ahmed(), fixedNow.Add(time.Hour)))
	s.auth.setVerify(verifyOK(&domain.Identity{LastName: "Ben Salah"}))

	got, err := s.manager.RefreshSession(ctx)
	if err != nil {
		t.Fatalf("RefreshSession returned error: %v", err)
	}
	if got.Identity.LastName != "Ben Salah" || got.Token != "abc" {
		t.Fatalf("unexpected refreshed session: %+v", got.Identity)
	}
	stored, _ := s.store.Load(ctx)
	if stored.Identity.LastName != "Ben Salah" {
		t.Fatalf("refresh must persist the merged identity")
	}
}

func TestSessionManager_RefreshSessionNeverClears(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	s.manager.SaveSession(ctx, domain.NewSession("abc", ahmed(), fixedNow.Add(time.Hour)))
	s.auth.setVerify(verifyRejected("revoked"))

	_, err := s.manager.RefreshSession(ctx)
	if !errors.Is(err, domain.ErrSessionRejected) {
		t.Fatalf("expected ErrSessionRejected, got %v", err)
	}
	if got, _ := s.store.Load(ctx); got == nil {
		t.Fatalf("refresh must leave clearing to the caller")
	}
}

func TestSessionManager_RefreshSessionWithoutSession(t *testing.T) {
	s := newStack(t)
	if _, err := s.manager.RefreshSession(context.Background()); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestSessionManager_GetSessionInfo(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	expiry := fixedNow.Add(-time.Minute)
	s.seed(t, "abc", expiry)

	info := s.manager.GetSessionInfo(ctx)

	if !info.HasSession || !info.HasToken || !info.HasStaff || !info.IsExpired {
		t.Fatalf("unexpected info: %+v", info)
	}
	if info.ExpiresAt == nil || !info.ExpiresAt.Equal(expiry) {
		t.Fatalf("unexpected expiry: %v", info.ExpiresAt)
	}
	if s.manager.getCached() != nil {
		t.Fatalf("GetSessionInfo must not populate the cache")
	}
	if s.kv.len() != 3 {
		t.Fatalf("GetSessionInfo must not clear an expired session")
	}
}

func TestManagerSingleton(t *testing.T) {
	ResetManager()
	t.Cleanup(ResetManager)

	s := newStack(t)
	other := NewSessionManager(s.store, s.validator, zerolog.Nop())

	if got := InitManager(s.manager); got != s.manager {
		t.Fatalf("InitManager must install the first manager")
	}
	if got := InitManager(other); got != s.manager {
		t.Fatalf("second InitManager must be ignored")
	}
	if Manager() != s.manager {
		t.Fatalf("Manager() returned a different instance")
	}
}

func TestManagerSingleton_PanicsBeforeInit(t *testing.T) {
	ResetManager()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Manager()
}
