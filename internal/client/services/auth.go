package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shelftrack/internal/client/cache"
	"shelftrack/internal/client/models"
	"shelftrack/internal/client/remote"
	"shelftrack/internal/client/session"
	"shelftrack/internal/common"
	"shelftrack/internal/logging"
)

// registrationTimeout bounds the combined "write profile + write initial
// stats" remote operation during registration. On expiry the remote writes
// are abandoned but registration still succeeds in degraded mode.
const registrationTimeout = 15 * time.Second

// joinDateLayout is the locale format the profile stores, DD/MM/YYYY.
const joinDateLayout = "02/01/2006"

// RegisterInput carries the registration form fields. The form validates
// them before this layer is called.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthService implements the sign-up, sign-in and sign-out flows together
// with their local-cache reconciliation: the session snapshot is written
// after login and registration and removed on logout. Snapshot writes are
// best-effort side effects of the authoritative remote operations; their
// failures are logged, never surfaced.
type AuthService struct {
	auth   remote.Auth
	store  remote.Store
	books  *BookService
	snaps  *cache.Snapshots
	logger logging.Logger

	now func() time.Time
}

func NewAuthService(auth remote.Auth, store remote.Store, books *BookService, snaps *cache.Snapshots, logger logging.Logger) *AuthService {
	return &AuthService{
		auth:   auth,
		store:  store,
		books:  books,
		snaps:  snaps,
		logger: logger,
		now:    time.Now,
	}
}

// Register creates the account, then writes the profile document and a
// zeroed stats document under an explicit timeout. A failure or timeout on
// those writes degrades registration instead of failing it: the local
// snapshot is still written and the new session is returned.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*session.Session, error) {
	user, err := s.auth.SignUp(ctx, in.Email, in.Password)
	if err != nil {
		return nil, fmt.Errorf("sign-up: %w", err)
	}

	fullName := in.FirstName + " " + in.LastName
	joinDate := s.now().Format(joinDateLayout)

	wctx, cancel := context.WithTimeout(ctx, registrationTimeout)
	defer cancel()
	if err := s.writeInitialDocuments(wctx, user.ID, in, fullName, joinDate); err != nil {
		s.logger.Error(ctx, "initial profile documents not written, continuing degraded",
			"user_id", user.ID, "error", err)
	}

	snap := models.Snapshot{
		UserID:   user.ID,
		Email:    in.Email,
		FullName: fullName,
		JoinDate: joinDate,
	}
	if err := s.snaps.Save(ctx, snap); err != nil {
		s.logger.Warn(ctx, "session snapshot not saved after registration", "error", err)
	}

	return &session.Session{UserID: user.ID, Email: in.Email}, nil
}

func (s *AuthService) writeInitialDocuments(ctx context.Context, userID string, in RegisterInput, fullName, joinDate string) error {
	profile := models.Profile{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		FullName:  fullName,
		JoinDate:  joinDate,
	}
	fields := profile.Doc()
	fields["createdAt"] = remote.ServerTimestamp
	if err := s.store.Collection(collUsers).Set(ctx, userID, fields, false); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}

	stats := models.ReadingStats{}.Doc()
	stats["lastUpdated"] = remote.ServerTimestamp
	if err := s.store.Collection(collStats).Set(ctx, userID, stats, false); err != nil {
		return fmt.Errorf("writing initial stats: %w", err)
	}
	return nil
}

// Login signs in and refreshes the session snapshot from the remote profile
// and stats. The snapshot refresh is best-effort.
func (s *AuthService) Login(ctx context.Context, email, password string) (*session.Session, error) {
	user, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign-in: %w", err)
	}

	sess := &session.Session{UserID: user.ID, Email: user.Email}
	if err := s.refreshSnapshot(ctx, sess); err != nil {
		s.logger.Warn(ctx, "session snapshot not refreshed after login", "error", err)
	}
	return sess, nil
}

func (s *AuthService) refreshSnapshot(ctx context.Context, sess *session.Session) error {
	fields, err := s.store.Collection(collUsers).Get(ctx, sess.UserID)
	if err != nil {
		return fmt.Errorf("loading profile: %w", err)
	}
	profile := models.ProfileFromDoc(sess.UserID, fields)

	stats, err := s.books.Stats(ctx, sess)
	if err != nil {
		return fmt.Errorf("loading stats: %w", err)
	}

	return s.snaps.Save(ctx, models.Snapshot{
		UserID:   sess.UserID,
		Email:    sess.Email,
		FullName: profile.DisplayName(),
		JoinDate: profile.JoinDate,
		Stats:    stats,
	})
}

// Logout ends the remote session and removes the snapshot unconditionally:
// local state must never outlive a session the user explicitly ended, even
// when the remote call fails.
func (s *AuthService) Logout(ctx context.Context) error {
	err := s.auth.SignOut(ctx)

	if cerr := s.snaps.Clear(ctx); cerr != nil {
		s.logger.Error(ctx, "session snapshot not cleared on logout", "error", cerr)
	}

	if err != nil {
		return fmt.Errorf("remote sign-out: %w", err)
	}
	return nil
}

// CurrentProfile loads the user's profile from the remote store, falling
// back to the cached snapshot when the backend is unreachable.
func (s *AuthService) CurrentProfile(ctx context.Context, sess *session.Session) (models.Profile, error) {
	if !sess.Valid() {
		return models.Profile{}, common.ErrUnauthenticated
	}

	fields, err := s.store.Collection(collUsers).Get(ctx, sess.UserID)
	if err == nil {
		return models.ProfileFromDoc(sess.UserID, fields), nil
	}

	if errors.Is(err, common.ErrUnavailable) || errors.Is(err, common.ErrTimeout) {
		snap, serr := s.snaps.Load(ctx)
		if serr == nil && snap != nil {
			s.logger.Warn(ctx, "backend unreachable, serving profile from snapshot", "user_id", sess.UserID)
			return models.Profile{
				UserID:   snap.UserID,
				Email:    snap.Email,
				FullName: snap.FullName,
				JoinDate: snap.JoinDate,
			}, nil
		}
	}
	return models.Profile{}, fmt.Errorf("loading profile: %w", err)
}

// UpdateProfile merges the new name fields into the profile document and
// refreshes the snapshot best-effort.
func (s *AuthService) UpdateProfile(ctx context.Context, sess *session.Session, firstName, lastName string) error {
	if !sess.Valid() {
		return common.ErrUnauthenticated
	}

	fullName := firstName + " " + lastName
	err := s.store.Collection(collUsers).Update(ctx, sess.UserID, map[string]any{
		"firstName": firstName,
		"lastName":  lastName,
		"fullName":  fullName,
		"updatedAt": remote.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}

	snap, serr := s.snaps.Load(ctx)
	if serr != nil || snap == nil {
		if serr != nil {
			s.logger.Warn(ctx, "snapshot not loaded after profile update", "error", serr)
		}
		return nil
	}
	snap.FullName = fullName
	if serr := s.snaps.Save(ctx, *snap); serr != nil {
		s.logger.Warn(ctx, "snapshot not refreshed after profile update", "error", serr)
	}
	return nil
}
