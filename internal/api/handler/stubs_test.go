package handler

import (
	"context"

	"github.com/louagetn/station-client/internal/core/domain"
)

type stubController struct {
	state       domain.AuthState
	loginFn     func(ctx context.Context, cin, password string) domain.LoginResult
	refreshErr  error
	restoreOK   bool
	logoutCalls int
}

func (s *stubController) State() domain.AuthState { return s.state }

func (s *stubController) Subscribe() (<-chan domain.AuthState, func()) {
	ch := make(chan domain.AuthState, 1)
	ch <- s.state
	return ch, func() {}
}

func (s *stubController) Login(ctx context.Context, cin, password string) domain.LoginResult {
	return s.loginFn(ctx, cin, password)
}

func (s *stubController) Logout(context.Context) {
	s.logoutCalls++
	s.state = domain.AuthState{Phase: domain.PhaseUnauthenticated}
}

func (s *stubController) RestoreSession(context.Context) bool { return s.restoreOK }

func (s *stubController) RefreshNow(context.Context) error { return s.refreshErr }

type stubInfo domain.SessionInfo

func (s stubInfo) GetSessionInfo(context.Context) domain.SessionInfo { return domain.SessionInfo(s) }

func worker() *domain.Identity {
	return &domain.Identity{ID: "s1", CIN: "12345678", FirstName: "Ahmed", LastName: "Ben Ali", Role: domain.RoleWorker}
}
