package ports

import (
	"context"

	"github.com/louagetn/station-client/internal/core/domain"
)

// AuthController is what the UI layer sees of the session subsystem.
type AuthController interface {
	State() domain.AuthState
	Subscribe() (<-chan domain.AuthState, func())
	Login(ctx context.Context, cin, password string) domain.LoginResult
	Logout(ctx context.Context)
	RestoreSession(ctx context.Context) bool
	RefreshNow(ctx context.Context) error
}
