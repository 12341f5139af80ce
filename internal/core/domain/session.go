package domain

import "time"

// DefaultSessionTTL is how far out a freshly issued session expires.
const DefaultSessionTTL = 30 * 24 * time.Hour

// Session is the authenticated context for one staff member on one device.
// Token is immutable for the life of the session; Identity is only changed by
// merging a server-verified identity. A nil ExpiresAt means the session never
// expires locally and relies on remote confirmation alone.
type Session struct {
	Token     string
	Identity  *Identity
	ExpiresAt *time.Time
}

// NewSession builds a session expiring at expiresAt. A zero expiresAt yields a
// locally non-expiring session.
func NewSession(token string, identity Identity, expiresAt time.Time) *Session {
	s := &Session{Token: token, Identity: &identity}
	if !expiresAt.IsZero() {
		exp := expiresAt.UTC()
		s.ExpiresAt = &exp
	}
	return s
}

// IsExpired reports whether the session has an expiry at or before now.
// The boundary is inclusive: ExpiresAt == now counts as expired.
func (s *Session) IsExpired(now time.Time) bool {
	return s != nil && s.ExpiresAt != nil && !s.ExpiresAt.After(now)
}

// IsLocallyValid reports usability from local data alone.
func (s *Session) IsLocallyValid(now time.Time) bool {
	return s != nil && s.Token != "" && s.Identity != nil && !s.IsExpired(now)
}

// WithIdentityUpdate returns a copy of s with update merged into its identity.
func (s *Session) WithIdentityUpdate(update Identity) *Session {
	out := s.Clone()
	if out.Identity == nil {
		out.Identity = &update
		return out
	}
	merged := out.Identity.Merge(update)
	out.Identity = &merged
	return out
}

// Clone returns a deep copy so callers cannot mutate cached state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := &Session{Token: s.Token}
	if s.Identity != nil {
		id := *s.Identity
		out.Identity = &id
	}
	if s.ExpiresAt != nil {
		exp := *s.ExpiresAt
		out.ExpiresAt = &exp
	}
	return out
}

// SessionInfo is a read-only diagnostic snapshot of the current session.
type SessionInfo struct {
	HasSession bool       `json:"hasSession"`
	HasToken   bool       `json:"hasToken"`
	HasStaff   bool       `json:"hasStaff"`
	IsExpired  bool       `json:"isExpired"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

// InfoAt computes the diagnostic snapshot for s at now. A nil session reports
// everything false.
func (s *Session) InfoAt(now time.Time) SessionInfo {
	if s == nil {
		return SessionInfo{}
	}
	info := SessionInfo{
		HasSession: true,
		HasToken:   s.Token != "",
		HasStaff:   s.Identity != nil,
		IsExpired:  s.IsExpired(now),
	}
	if s.ExpiresAt != nil {
		exp := *s.ExpiresAt
		info.ExpiresAt = &exp
	}
	return info
}
