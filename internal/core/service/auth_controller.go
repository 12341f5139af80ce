package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/louagetn/station-client/internal/api/metrics"
	"github.com/louagetn/station-client/internal/core/domain"
	"github.com/louagetn/station-client/internal/core/ports"
	"github.com/louagetn/station-client/internal/pkg/validate"
)

const defaultRemoteTimeout = 10 * time.Second

// AuthController holds the observable auth state for the UI and drives the
// session through restore, login, logout and background refresh.
//
// States: Restoring (initial) → Authenticated | Unauthenticated. Lifecycle
// operations run one at a time; none of them panics or returns an error for
// expected failures, the outcome is in the result value and the state.
type AuthController struct {
	manager       ports.SessionManager
	auth          ports.AuthClient
	ttl           time.Duration
	remoteTimeout time.Duration
	now           func() time.Time
	log           zerolog.Logger

	opMu sync.Mutex

	mu      sync.RWMutex
	state   domain.AuthState
	subs    map[int]chan domain.AuthState
	nextSub int

	ready     chan struct{}
	readyOnce sync.Once
}

var _ ports.AuthController = (*AuthController)(nil)

// ControllerOption tweaks an AuthController at construction.
type ControllerOption func(*AuthController)

// WithSessionTTL sets how far out new sessions expire.
func WithSessionTTL(d time.Duration) ControllerOption {
	return func(c *AuthController) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithRemoteTimeout bounds the best-effort logout call.
func WithRemoteTimeout(d time.Duration) ControllerOption {
	return func(c *AuthController) {
		if d > 0 {
			c.remoteTimeout = d
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *AuthController) { c.now = now }
}

// NewAuthController enters Restoring and starts the first restore in the
// background. WaitReady blocks until it has resolved.
func NewAuthController(ctx context.Context, manager ports.SessionManager, auth ports.AuthClient, log zerolog.Logger, opts ...ControllerOption) *AuthController {
	c := &AuthController{
		manager:       manager,
		auth:          auth,
		ttl:           domain.DefaultSessionTTL,
		remoteTimeout: defaultRemoteTimeout,
		now:           time.Now,
		log:           log.With().Str("component", "auth_controller").Logger(),
		state:         domain.AuthState{Phase: domain.PhaseRestoring, IsLoading: true},
		subs:          make(map[int]chan domain.AuthState),
		ready:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	// Hold opMu before returning so a Login issued right away queues behind
	// the initial restore instead of being overwritten by it.
	c.opMu.Lock()
	go func() {
		defer c.opMu.Unlock()
		c.restore(ctx)
	}()
	return c
}

// WaitReady blocks until the initial restore has resolved or ctx is done.
func (c *AuthController) WaitReady(ctx context.Context) error {
	select {
	case <-c.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// State returns a snapshot of the current auth state.
func (c *AuthController) State() domain.AuthState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return copyState(c.state)
}

// Subscribe returns a channel that always holds the latest state. Slow
// readers miss intermediate states, never the last one. Call cancel to stop.
func (c *AuthController) Subscribe() (<-chan domain.AuthState, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	ch := make(chan domain.AuthState, 1)
	ch <- copyState(c.state)
	c.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
	return ch, cancel
}

// RestoreSession runs the startup gate again, e.g. after connectivity is back.
func (c *AuthController) RestoreSession(ctx context.Context) bool {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	return c.restore(ctx)
}

// restore expects opMu to be held.
func (c *AuthController) restore(ctx context.Context) (ok bool) {
	defer c.readyOnce.Do(func() { close(c.ready) })

	c.update(func(s *domain.AuthState) {
		s.Phase = domain.PhaseRestoring
		s.IsLoading = true
	})

	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Msg("restore failed unexpectedly, treating as no session")
			c.manager.ForgetSession()
			c.setUnauthenticated(domain.ErrNoSession.Error())
			ok = false
		}
	}()

	result := c.manager.ValidateSession(ctx)
	if result.Valid {
		c.setAuthenticated(result.Session.Identity)
		c.log.Info().Str("cin", result.Session.Identity.CIN).Msg("session restored")
		return true
	}

	if result.Preserved() {
		// Inconclusive: keep the persisted session so a later restore can
		// confirm it without a fresh login.
		c.manager.ForgetSession()
	} else {
		c.manager.ClearSession(ctx)
	}
	c.setUnauthenticated(result.Message())
	c.log.Info().Str("source", string(result.Source)).Str("reason", result.Message()).Msg("session not restored")
	return false
}

// Login authenticates against the remote service and persists the session.
// A failed attempt leaves any existing state untouched.
func (c *AuthController) Login(ctx context.Context, cin, password string) (res domain.LoginResult) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.update(func(s *domain.AuthState) { s.IsLoading = true })
	defer c.update(func(s *domain.AuthState) { s.IsLoading = false })

	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Msg("login failed unexpectedly")
			res = loginFailure(fmt.Errorf("%w: unexpected failure", domain.ErrMalformedResponse), "")
		}
		metrics.LoginsTotal.WithLabelValues(loginLabel(res)).Inc()
	}()

	resp, err := c.auth.Login(ctx, cin, password)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedResponse) {
			c.log.Warn().Err(err).Str("cin", cin).Msg("login got an unusable answer")
			return loginFailure(err, "")
		}
		c.log.Warn().Err(err).Str("cin", cin).Msg("login could not reach auth service")
		if !errors.Is(err, domain.ErrTransientNetwork) {
			err = fmt.Errorf("%w: %v", domain.ErrTransientNetwork, err)
		}
		return loginFailure(err, "")
	}
	if resp == nil {
		return loginFailure(domain.ErrMalformedResponse, "")
	}
	if !resp.Success {
		c.log.Info().Str("cin", cin).Str("message", resp.Message).Msg("login refused")
		return loginFailure(domain.ErrInvalidCredentials, resp.Message)
	}
	if resp.Token == "" || resp.Staff == nil {
		return loginFailure(fmt.Errorf("%w: missing token or staff", domain.ErrMalformedResponse), "")
	}
	if err := validate.Struct(*resp.Staff); err != nil {
		return loginFailure(fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err), "")
	}

	now := c.now()
	session := domain.NewSession(resp.Token, *resp.Staff, sessionExpiry(resp.Token, now, c.ttl))
	c.manager.SaveSession(ctx, session)
	c.setAuthenticated(session.Identity)

	c.log.Info().Str("cin", session.Identity.CIN).Str("role", string(session.Identity.Role)).Time("expires_at", *session.ExpiresAt).Msg("staff logged in")
	identity := *session.Identity
	return domain.LoginResult{Success: true, Identity: &identity}
}

// Logout tells the server best-effort, then always clears the local session.
func (c *AuthController) Logout(ctx context.Context) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Msg("remote logout failed unexpectedly")
			metrics.LogoutsTotal.WithLabelValues("failed").Inc()
		}
	}()
	defer func() {
		c.manager.ClearSession(context.WithoutCancel(ctx))
		c.setUnauthenticated("")
	}()

	session := c.manager.GetCurrentSession(ctx)
	if session == nil {
		return
	}

	lctx, cancel := context.WithTimeout(ctx, c.remoteTimeout)
	defer cancel()
	if err := c.auth.Logout(lctx, session.Token); err != nil {
		c.log.Warn().Err(err).Str("cin", session.Identity.CIN).Msg("remote logout failed, clearing locally")
		metrics.LogoutsTotal.WithLabelValues("failed").Inc()
		return
	}
	metrics.LogoutsTotal.WithLabelValues("ok").Inc()
	c.log.Info().Str("cin", session.Identity.CIN).Msg("staff logged out")
}

// RefreshNow re-verifies an authenticated session and folds identity updates
// into the state. Rejection or expiry ends the session; network trouble does
// not.
func (c *AuthController) RefreshNow(ctx context.Context) error {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	if c.State().Phase != domain.PhaseAuthenticated {
		return domain.ErrNoSession
	}

	session, err := c.manager.RefreshSession(ctx)
	metrics.SessionRefreshTotal.WithLabelValues(refreshLabel(err)).Inc()
	switch {
	case err == nil:
		c.update(func(s *domain.AuthState) {
			id := *session.Identity
			s.CurrentIdentity = &id
			s.LastError = ""
		})
	case errors.Is(err, domain.ErrTransientNetwork):
		c.log.Warn().Err(err).Msg("background refresh inconclusive")
		c.update(func(s *domain.AuthState) { s.LastError = err.Error() })
	default:
		c.log.Info().Err(err).Msg("session ended by refresh")
		c.manager.ClearSession(ctx)
		c.setUnauthenticated(err.Error())
	}
	return err
}

// RunRefresh calls RefreshNow every interval until ctx is cancelled.
func (c *AuthController) RunRefresh(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.RefreshNow(ctx); err != nil && !errors.Is(err, domain.ErrNoSession) {
				c.log.Debug().Err(err).Msg("refresh tick")
			}
		}
	}
}

func (c *AuthController) setAuthenticated(identity *domain.Identity) {
	id := *identity
	c.update(func(s *domain.AuthState) {
		*s = domain.AuthState{
			Phase:           domain.PhaseAuthenticated,
			IsAuthenticated: true,
			CurrentIdentity: &id,
		}
	})
	metrics.Authenticated.Set(1)
}

func (c *AuthController) setUnauthenticated(reason string) {
	c.update(func(s *domain.AuthState) {
		*s = domain.AuthState{Phase: domain.PhaseUnauthenticated, LastError: reason}
	})
	metrics.Authenticated.Set(0)
}

// update applies fn to the state and publishes the result.
func (c *AuthController) update(fn func(*domain.AuthState)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.state)
	snapshot := c.state
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		ch <- copyState(snapshot)
	}
}

func copyState(s domain.AuthState) domain.AuthState {
	if s.CurrentIdentity != nil {
		id := *s.CurrentIdentity
		s.CurrentIdentity = &id
	}
	return s
}

func loginFailure(err error, message string) domain.LoginResult {
	if message == "" {
		message = err.Error()
	}
	return domain.LoginResult{Message: message, Err: err}
}

func loginLabel(res domain.LoginResult) string {
	switch {
	case res.Success:
		return "success"
	case errors.Is(res.Err, domain.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(res.Err, domain.ErrTransientNetwork):
		return "network_error"
	default:
		return "malformed_response"
	}
}

func refreshLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return resultLabel(err)
}
