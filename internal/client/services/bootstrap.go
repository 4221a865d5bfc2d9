package services

import (
	"context"

	"shelftrack/internal/client/cache"
	"shelftrack/internal/client/remote"
	"shelftrack/internal/client/session"
	"shelftrack/internal/logging"
)

// BootState tracks session-bootstrap progress. AuthenticatedComplete and
// Unauthenticated are terminal; AuthenticatedIncomplete is the transient
// "remote session without local snapshot" state that forces a sign-out.
type BootState string

const (
	StateUnresolved              BootState = "unresolved"
	StateAuthenticatedComplete   BootState = "authenticated-complete"
	StateAuthenticatedIncomplete BootState = "authenticated-incomplete"
	StateUnauthenticated         BootState = "unauthenticated"
)

// Route names the initial screen the bootstrap decided on.
type Route string

const (
	RouteWelcome   Route = "welcome"
	RouteDashboard Route = "dashboard"
)

// Bootstrap reconciles the asynchronously restored remote session with the
// local snapshot and picks the starting screen. Only the first auth-state
// event matters here; later changes are handled by the screen-level flows.
type Bootstrap struct {
	auth   remote.Auth
	snaps  *cache.Snapshots
	logger logging.Logger

	state BootState
}

func NewBootstrap(auth remote.Auth, snaps *cache.Snapshots, logger logging.Logger) *Bootstrap {
	return &Bootstrap{auth: auth, snaps: snaps, logger: logger, state: StateUnresolved}
}

// State returns the bootstrap state after Run (or StateUnresolved before).
func (b *Bootstrap) State() BootState {
	return b.state
}

// Run waits for the first session event and returns the initial route,
// with the session when one is usable. Every failure path degrades to the
// least-privileged screen.
//
// A remote session without a local snapshot is treated as inconsistent:
// the screens assume the cache is populated right after login, so such a
// session is unusable and is terminated rather than left silently broken.
func (b *Bootstrap) Run(ctx context.Context) (Route, *session.Session) {
	b.state = StateUnresolved

	var ev remote.SessionEvent
	select {
	case ev = <-b.auth.RestoreSession(ctx):
	case <-ctx.Done():
		b.state = StateUnauthenticated
		return RouteWelcome, nil
	}

	if ev.Err != nil {
		b.logger.Error(ctx, "session state check failed", "error", ev.Err)
		b.state = StateUnauthenticated
		return RouteWelcome, nil
	}

	if ev.User == nil {
		b.state = StateUnauthenticated
		return RouteWelcome, nil
	}

	snap, err := b.snaps.Load(ctx)
	if err != nil {
		b.logger.Error(ctx, "snapshot check failed", "user_id", ev.User.ID, "error", err)
		b.state = StateUnauthenticated
		return RouteWelcome, nil
	}

	if snap == nil {
		b.state = StateAuthenticatedIncomplete
		b.logger.Warn(ctx, "active session without local snapshot, signing out", "user_id", ev.User.ID)
		if err := b.auth.SignOut(ctx); err != nil {
			b.logger.Error(ctx, "forced sign-out failed", "error", err)
		}
		b.state = StateUnauthenticated
		return RouteWelcome, nil
	}

	b.state = StateAuthenticatedComplete
	return RouteDashboard, &session.Session{UserID: ev.User.ID, Email: ev.User.Email}
}
