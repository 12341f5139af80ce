package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/louagetn/station-client/internal/core/domain"
	"github.com/louagetn/station-client/internal/core/ports"
)

type stubStaffRepo struct {
	mu    sync.Mutex
	staff map[string]*domain.StaffAccount
}

func newStubStaffRepo() *stubStaffRepo {
	return &stubStaffRepo{staff: make(map[string]*domain.StaffAccount)}
}

func cloneAccount(a *domain.StaffAccount) *domain.StaffAccount {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubStaffRepo) Create(_ context.Context, account *domain.StaffAccount) (*domain.StaffAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.staff[account.CIN]; exists {
		return nil, domain.ErrStaffExists
	}
	stored := cloneAccount(account)
	if stored.ID == "" {
		stored.ID = "staff-" + stored.CIN
	}
	r.staff[stored.CIN] = stored
	return cloneAccount(stored), nil
}

func (r *stubStaffRepo) FindByCIN(_ context.Context, cin string) (*domain.StaffAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.staff[cin]; ok {
		return cloneAccount(a), nil
	}
	return nil, domain.ErrStaffNotFound
}

func (r *stubStaffRepo) FindByID(_ context.Context, id string) (*domain.StaffAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.staff {
		if a.ID == id {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrStaffNotFound
}

func registerInput(cin, password string) ports.RegisterStaffInput {
	return ports.RegisterStaffInput{
		CIN:       cin,
		Password:  password,
		FirstName: "Ahmed",
		LastName:  "Ben Ali",
		Role:      domain.RoleWorker,
	}
}

func newStaffAuth(t *testing.T) (*StaffAuthService, *stubStaffRepo) {
	t.Helper()
	repo := newStubStaffRepo()
	svc := NewStaffAuthService(repo, "secret", time.Hour)
	if _, err := svc.Register(context.Background(), registerInput("12345678", "pass123")); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return svc, repo
}

func TestStaffAuthService_Register_HashesPassword(t *testing.T) {
	svc, repo := newStaffAuth(t)
	_ = svc

	stored := repo.staff["12345678"]
	if stored.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestStaffAuthService_Register_Validation(t *testing.T) {
	svc := NewStaffAuthService(newStubStaffRepo(), "secret", time.Hour)

	if _, err := svc.Register(context.Background(), registerInput("1234", "pass123")); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for short CIN, got %v", err)
	}

	in := registerInput("12345678", "pass123")
	in.Role = "JANITOR"
	if _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad role, got %v", err)
	}
}

func TestStaffAuthService_Register_Duplicate(t *testing.T) {
	svc, _ := newStaffAuth(t)
	if _, err := svc.Register(context.Background(), registerInput("12345678", "other1")); !errors.Is(err, domain.ErrStaffExists) {
		t.Fatalf("expected ErrStaffExists, got %v", err)
	}
}

func TestStaffAuthService_Login_IssuesSignedToken(t *testing.T) {
	svc, _ := newStaffAuth(t)

	token, account, err := svc.Login(context.Background(), "12345678", "pass123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if account.CIN != "12345678" {
		t.Fatalf("unexpected account: %+v", account)
	}

	claims := &StaffClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Role != domain.RoleWorker || claims.Subject != account.ID || claims.ID == "" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestStaffAuthService_Login_Failures(t *testing.T) {
	svc, _ := newStaffAuth(t)

	if _, _, err := svc.Login(context.Background(), "12345678", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "87654321", "pass123"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown CIN, got %v", err)
	}
}

func TestStaffAuthService_NewerLoginSupersedes(t *testing.T) {
	svc, _ := newStaffAuth(t)
	ctx := context.Background()

	first, _, _ := svc.Login(ctx, "12345678", "pass123")
	second, _, _ := svc.Login(ctx, "12345678", "pass123")

	if _, err := svc.Verify(ctx, first); !errors.Is(err, domain.ErrTokenRevoked) {
		t.Fatalf("expected first token revoked, got %v", err)
	}
	if _, err := svc.Verify(ctx, second); err != nil {
		t.Fatalf("expected second token valid, got %v", err)
	}

	// Logging out a superseded token leaves the live one alone.
	if err := svc.Logout(ctx, first); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := svc.Verify(ctx, second); err != nil {
		t.Fatalf("expected second token still valid, got %v", err)
	}
}

func TestStaffAuthService_LogoutRevokes(t *testing.T) {
	svc, _ := newStaffAuth(t)
	ctx := context.Background()

	token, _, _ := svc.Login(ctx, "12345678", "pass123")
	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := svc.Verify(ctx, token); !errors.Is(err, domain.ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}
}

func TestStaffAuthService_Verify_RejectsBadTokens(t *testing.T) {
	svc, _ := newStaffAuth(t)
	ctx := context.Background()

	if _, err := svc.Verify(ctx, "not-a-jwt"); !errors.Is(err, domain.ErrSessionRejected) {
		t.Fatalf("expected ErrSessionRejected, got %v", err)
	}

	other := NewStaffAuthService(newStubStaffRepo(), "other-secret", time.Hour)
	_, _ = other.Register(ctx, registerInput("12345678", "pass123"))
	forged, _, _ := other.Login(ctx, "12345678", "pass123")
	if _, err := svc.Verify(ctx, forged); !errors.Is(err, domain.ErrSessionRejected) {
		t.Fatalf("expected forged token rejected, got %v", err)
	}
}

func TestStaffAuthService_Verify_Expired(t *testing.T) {
	svc, _ := newStaffAuth(t)
	ctx := context.Background()

	token, _, _ := svc.Login(ctx, "12345678", "pass123")
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	if _, err := svc.Verify(ctx, token); !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestStaffAuthService_Verify_ReturnsCurrentProfile(t *testing.T) {
	svc, repo := newStaffAuth(t)
	ctx := context.Background()

	token, _, _ := svc.Login(ctx, "12345678", "pass123")
	repo.mu.Lock()
	repo.staff["12345678"].PhoneNumber = "+21620000000"
	repo.mu.Unlock()

	account, err := svc.Verify(ctx, token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if account.PhoneNumber != "+21620000000" {
		t.Fatalf("expected updated phone, got %q", account.PhoneNumber)
	}
}
