package domain

// Source tells where a validation verdict came from.
type Source string

const (
	SourceLocal  Source = "local"
	SourceServer Source = "server"
	SourceError  Source = "error"
)

// ValidationResult is either Valid with a confirmed Session, or invalid with a
// Reason wrapping one of ErrNoSession, ErrSessionExpired, ErrSessionRejected or
// ErrTransientNetwork. Build it with Confirmed or Invalid.
type ValidationResult struct {
	Valid   bool
	Session *Session
	Reason  error
	Source  Source
}

// Confirmed is the result for a session the server has just verified.
func Confirmed(s *Session) ValidationResult {
	return ValidationResult{Valid: true, Session: s, Source: SourceServer}
}

// Invalid is the result for any unusable or unconfirmed session.
func Invalid(source Source, reason error) ValidationResult {
	return ValidationResult{Source: source, Reason: reason}
}

// Preserved reports whether the persisted session survived this verdict, i.e.
// the failure was inconclusive rather than an affirmative invalidation.
func (r ValidationResult) Preserved() bool {
	return r.Valid || r.Source == SourceError
}

// Message renders the reason for UI banners and logs.
func (r ValidationResult) Message() string {
	if r.Reason == nil {
		return ""
	}
	return r.Reason.Error()
}
