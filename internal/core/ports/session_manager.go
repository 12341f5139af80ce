package ports

import (
	"context"

	"github.com/louagetn/station-client/internal/core/domain"
)

// SessionManager is the process-wide access point to the station session and
// the only writer of persisted session state. Callers serialize mutations.
type SessionManager interface {
	SaveSession(ctx context.Context, session *domain.Session)
	LoadSession(ctx context.Context) *domain.Session
	GetCurrentSession(ctx context.Context) *domain.Session
	ClearSession(ctx context.Context)
	// ForgetSession drops the in-memory copy only; the persisted session stays
	// for a later retry.
	ForgetSession()
	ValidateSession(ctx context.Context) domain.ValidationResult
	RefreshSession(ctx context.Context) (*domain.Session, error)
	GetSessionInfo(ctx context.Context) domain.SessionInfo
}
