package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/louagetn/station-client/internal/api/metrics"
	"github.com/louagetn/station-client/internal/core/domain"
	"github.com/louagetn/station-client/internal/core/ports"
	"github.com/louagetn/station-client/internal/pkg/validate"
)

const defaultVerifyTimeout = 10 * time.Second

// SessionValidator decides whether the persisted session is usable. Only an
// affirmative local expiry or an affirmative server rejection destroys the
// session; an inconclusive verification leaves it in place for a retry.
type SessionValidator struct {
	store         ports.SessionStore
	auth          ports.AuthClient
	verifyTimeout time.Duration
	now           func() time.Time
	log           zerolog.Logger
}

// NewSessionValidator builds a validator. A non-positive verifyTimeout falls
// back to 10s.
func NewSessionValidator(store ports.SessionStore, auth ports.AuthClient, verifyTimeout time.Duration, log zerolog.Logger) *SessionValidator {
	if verifyTimeout <= 0 {
		verifyTimeout = defaultVerifyTimeout
	}
	return &SessionValidator{
		store:         store,
		auth:          auth,
		verifyTimeout: verifyTimeout,
		now:           time.Now,
		log:           log.With().Str("component", "session_validator").Logger(),
	}
}

// Validate loads, checks local expiry, then confirms with the server.
func (v *SessionValidator) Validate(ctx context.Context) domain.ValidationResult {
	result := v.validate(ctx)
	metrics.SessionValidationsTotal.WithLabelValues(string(result.Source), resultLabel(result.Reason)).Inc()
	return result
}

func (v *SessionValidator) validate(ctx context.Context) domain.ValidationResult {
	// 1. Load; corrupt data counts as no session.
	session, err := v.store.Load(ctx)
	if err != nil {
		v.log.Error().Err(err).Msg("persisted session unreadable, treating as no session")
		return domain.Invalid(domain.SourceLocal, domain.ErrNoSession)
	}
	if session == nil {
		return domain.Invalid(domain.SourceLocal, domain.ErrNoSession)
	}

	// 2. Local expiry.
	if session.IsExpired(v.now()) {
		v.log.Info().Str("cin", session.Identity.CIN).Msg("session expired locally")
		v.store.Clear(ctx)
		return domain.Invalid(domain.SourceLocal, domain.ErrSessionExpired)
	}

	// 3. Remote confirmation.
	resp, err := v.verify(ctx, session.Token)
	if err != nil {
		v.log.Warn().Err(err).Str("cin", session.Identity.CIN).Msg("session verification inconclusive, keeping session")
		return domain.Invalid(domain.SourceError, fmt.Errorf("%w: %v", domain.ErrTransientNetwork, err))
	}
	if !resp.Success {
		v.log.Info().Str("cin", session.Identity.CIN).Str("message", resp.Message).Msg("session rejected by server")
		v.store.Clear(ctx)
		return domain.Invalid(domain.SourceServer, rejection(resp.Message))
	}

	if updated, ok := mergeVerified(session, resp.Staff, v.log); ok {
		session = updated
		v.store.Save(ctx, session)
	}
	return domain.Confirmed(session)
}

// verify calls the server under the verify timeout.
func (v *SessionValidator) verify(ctx context.Context, token string) (*ports.VerifyResponse, error) {
	vctx, cancel := context.WithTimeout(ctx, v.verifyTimeout)
	defer cancel()

	resp, err := v.auth.VerifyToken(vctx, token)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, domain.ErrMalformedResponse
	}
	return resp, nil
}

// mergeVerified folds a server identity into session. Identities that fail
// validation are ignored so a bad payload cannot corrupt the cached profile.
func mergeVerified(session *domain.Session, staff *domain.Identity, log zerolog.Logger) (*domain.Session, bool) {
	if staff == nil {
		return session, false
	}
	updated := session.WithIdentityUpdate(*staff)
	if err := validate.Struct(*updated.Identity); err != nil {
		log.Warn().Err(err).Msg("ignoring invalid identity from server")
		return session, false
	}
	if *updated.Identity == *session.Identity {
		return session, false
	}
	return updated, true
}

func rejection(message string) error {
	if message == "" {
		return domain.ErrSessionRejected
	}
	return fmt.Errorf("%w: %s", domain.ErrSessionRejected, message)
}

// resultLabel maps a verdict reason to its metrics label.
func resultLabel(reason error) string {
	switch {
	case reason == nil:
		return "valid"
	case errors.Is(reason, domain.ErrNoSession):
		return "no_session"
	case errors.Is(reason, domain.ErrSessionExpired):
		return "expired"
	case errors.Is(reason, domain.ErrSessionRejected):
		return "rejected"
	case errors.Is(reason, domain.ErrTransientNetwork):
		return "network_error"
	default:
		return "error"
	}
}
