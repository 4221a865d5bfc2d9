package remote

import "context"

// UserRef identifies an authenticated backend user.
type UserRef struct {
	ID    string
	Email string
}

// SessionEvent is one auth-state observation. User is nil when no session
// is active; Err is set when the state could not be determined at all.
type SessionEvent struct {
	User *UserRef
	Err  error
}

// Auth is the authentication subsystem of the backend.
type Auth interface {
	// SignUp creates an account and leaves the client signed in as it.
	SignUp(ctx context.Context, email, password string) (*UserRef, error)

	// SignIn authenticates with email and password.
	SignIn(ctx context.Context, email, password string) (*UserRef, error)

	// SignOut ends the remote session. The locally held token is dropped
	// even if the remote call fails.
	SignOut(ctx context.Context) error

	// CurrentUser returns the signed-in user, or nil.
	CurrentUser() *UserRef

	// RestoreSession asynchronously resolves whether a previous session is
	// still active (persisted token, validated against the backend) and
	// delivers exactly one event before closing the channel.
	RestoreSession(ctx context.Context) <-chan SessionEvent
}

// TokenStore persists the session token between runs. Implemented by the
// local cache.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	DeleteToken(ctx context.Context) error
}
