package domain

import "errors"

// Session lifecycle outcomes. Validation and login results carry one of these
// so callers can branch with errors.Is instead of string matching.
var (
	ErrNoSession          = errors.New("no session")
	ErrSessionExpired     = errors.New("session expired")
	ErrSessionRejected    = errors.New("session rejected by server")
	ErrTransientNetwork   = errors.New("network error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMalformedResponse  = errors.New("malformed auth response")
)

// Persistence failures. ErrEntryNotFound is what a KVStore returns for an
// absent key; ErrCorruptSession marks an entry that no longer decodes.
var (
	ErrEntryNotFound  = errors.New("entry not found")
	ErrCorruptSession = errors.New("corrupt persisted session")
)
