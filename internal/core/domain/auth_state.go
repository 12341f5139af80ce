package domain

// Phase is the auth state machine position.
type Phase string

const (
	PhaseRestoring       Phase = "restoring"
	PhaseAuthenticated   Phase = "authenticated"
	PhaseUnauthenticated Phase = "unauthenticated"
)

// AuthState is the observable auth snapshot consumed by the UI layer.
type AuthState struct {
	Phase           Phase     `json:"phase"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	CurrentIdentity *Identity `json:"currentIdentity"`
	IsLoading       bool      `json:"isLoading"`
	LastError       string    `json:"lastError,omitempty"`
}

// LoginResult reports a login attempt without using errors for control flow.
// Err wraps ErrInvalidCredentials, ErrTransientNetwork or ErrMalformedResponse
// when Success is false.
type LoginResult struct {
	Success  bool      `json:"success"`
	Identity *Identity `json:"identity,omitempty"`
	Message  string    `json:"message,omitempty"`
	Err      error     `json:"-"`
}
