package ports

import (
	"context"

	"github.com/louagetn/station-client/internal/core/domain"
)

// LoginResponse is the remote answer to a login attempt.
type LoginResponse struct {
	Success bool
	Token   string
	Staff   *domain.Identity
	Message string
}

// VerifyResponse is the remote answer to a token check. Staff may be nil when
// the server has nothing new to report.
type VerifyResponse struct {
	Success bool
	Staff   *domain.Identity
	Message string
}

// AuthClient is the remote authentication service. A returned error always
// means no answer was obtained (transport failure, timeout); an affirmative
// denial comes back as a response with Success false.
type AuthClient interface {
	Login(ctx context.Context, cin, password string) (*LoginResponse, error)
	Logout(ctx context.Context, token string) error
	VerifyToken(ctx context.Context, token string) (*VerifyResponse, error)
}
