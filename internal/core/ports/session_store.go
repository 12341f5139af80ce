package ports

import (
	"context"

	"github.com/louagetn/station-client/internal/core/domain"
)

// SessionStore persists the single session of this station.
type SessionStore interface {
	// Save writes token, identity and expiry. Storage failures are logged,
	// never returned: the in-memory session governs the current process.
	Save(ctx context.Context, session *domain.Session)
	// Load returns nil, nil when token or identity is missing.
	Load(ctx context.Context) (*domain.Session, error)
	// Clear removes every entry; clearing an empty store is a no-op.
	Clear(ctx context.Context)
}
