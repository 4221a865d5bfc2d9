package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"shelftrack/internal/client/cache"
	"shelftrack/internal/client/models"
	"shelftrack/internal/common"
	"shelftrack/internal/logging"
)

func snapshotFixture() models.Snapshot {
	return models.Snapshot{
		UserID:   "user-1",
		Email:    "jane@example.com",
		FullName: "Jane Doe",
		JoinDate: "01/02/2024",
	}
}

func newAuthFixture(auth *fakeAuth, store *fakeStore, repo *memRepo) (*AuthService, *cache.Snapshots) {
	logger := logging.NewDiscard()
	snaps := cache.NewSnapshots(repo)
	books := NewBookService(store, logger)
	return NewAuthService(auth, store, books, snaps, logger), snaps
}

func TestRegister_WritesProfileAndStatsDocuments(t *testing.T) {
	store := newFakeStore()
	svc, _ := newAuthFixture(&fakeAuth{}, store, newMemRepo())

	sess, err := svc.Register(context.Background(), RegisterInput{
		Email:     "jane@example.com",
		Password:  "secret123",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	require.Equal(t, "user-1", sess.UserID)
	require.Equal(t, "jane@example.com", sess.Email)

	profile := store.doc(collUsers, "user-1")
	require.NotNil(t, profile)
	require.Equal(t, "Jane", profile["firstName"])
	require.Equal(t, "Jane Doe", profile["fullName"])
	require.NotEmpty(t, profile["createdAt"])

	stats := store.doc(collStats, "user-1")
	require.NotNil(t, stats)
	require.Equal(t, 0, stats["total"])
	require.NotEmpty(t, stats["lastUpdated"])
}

func TestRegister_SavesSnapshot(t *testing.T) {
	store := newFakeStore()
	svc, snaps := newAuthFixture(&fakeAuth{}, store, newMemRepo())

	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "jane@example.com", Password: "secret123", FirstName: "Jane", LastName: "Doe",
	})
	require.NoError(t, err)

	snap, err := snaps.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Equal(t, "user-1", snap.UserID)
	require.Equal(t, "Jane Doe", snap.FullName)
	require.NotEmpty(t, snap.JoinDate)
}

func TestRegister_DegradesWhenDocumentWritesFail(t *testing.T) {
	store := newFakeStore()
	store.collection(collUsers).setErr = errors.New("backend down")
	svc, snaps := newAuthFixture(&fakeAuth{}, store, newMemRepo())

	sess, err := svc.Register(context.Background(), RegisterInput{
		Email: "jane@example.com", Password: "secret123", FirstName: "Jane", LastName: "Doe",
	})
	require.NoError(t, err)
	require.NotNil(t, sess)

	// Local snapshot is written even though the remote documents are not.
	snap, err := snaps.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Nil(t, store.doc(collUsers, "user-1"))
}

func TestRegister_SignUpFailure(t *testing.T) {
	auth := &fakeAuth{signUpErr: common.ErrEmailTaken}
	svc, _ := newAuthFixture(auth, newFakeStore(), newMemRepo())

	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "jane@example.com", Password: "secret123",
	})
	require.ErrorIs(t, err, common.ErrEmailTaken)
}

func TestLogin_RefreshesSnapshot(t *testing.T) {
	store := newFakeStore()
	store.seed(collUsers, "user-1", map[string]any{
		"email": "jane@example.com", "fullName": "Jane Doe", "joinDate": "01/02/2024",
	})
	store.seed(collStats, "user-1", map[string]any{"total": 2, "reading": 1})

	svc, snaps := newAuthFixture(&fakeAuth{}, store, newMemRepo())
	sess, err := svc.Login(context.Background(), "jane@example.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, "user-1", sess.UserID)

	snap, err := snaps.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snap)
	require.Equal(t, "Jane Doe", snap.FullName)
	require.Equal(t, "01/02/2024", snap.JoinDate)
	require.Equal(t, 2, snap.Stats.Total)
}

func TestLogin_BadCredentials(t *testing.T) {
	auth := &fakeAuth{signInErr: common.ErrBadCredentials}
	svc, _ := newAuthFixture(auth, newFakeStore(), newMemRepo())

	_, err := svc.Login(context.Background(), "jane@example.com", "wrong")
	require.ErrorIs(t, err, common.ErrBadCredentials)
}

func TestLogin_SucceedsWhenSnapshotRefreshFails(t *testing.T) {
	store := newFakeStore()
	store.collection(collUsers).getErr = common.ErrUnavailable

	svc, _ := newAuthFixture(&fakeAuth{}, store, newMemRepo())
	sess, err := svc.Login(context.Background(), "jane@example.com", "secret123")
	require.NoError(t, err)
	require.NotNil(t, sess)
}

func TestLogout_ClearsSnapshotEvenWhenRemoteFails(t *testing.T) {
	store := newFakeStore()
	auth := &fakeAuth{signOutErr: common.ErrUnavailable}
	repo := newMemRepo()
	svc, snaps := newAuthFixture(auth, store, repo)

	require.NoError(t, snaps.Save(context.Background(), snapshotFixture()))

	err := svc.Logout(context.Background())
	require.ErrorIs(t, err, common.ErrUnavailable)

	snap, lerr := snaps.Load(context.Background())
	require.NoError(t, lerr)
	require.Nil(t, snap)
}

func TestCurrentProfile_FallsBackToSnapshotWhenUnreachable(t *testing.T) {
	store := newFakeStore()
	store.collection(collUsers).getErr = common.ErrUnavailable

	repo := newMemRepo()
	svc, snaps := newAuthFixture(&fakeAuth{}, store, repo)
	require.NoError(t, snaps.Save(context.Background(), snapshotFixture()))

	profile, err := svc.CurrentProfile(context.Background(), testSession())
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", profile.FullName)
	require.Equal(t, "jane@example.com", profile.Email)
}

func TestCurrentProfile_NoFallbackForOtherErrors(t *testing.T) {
	store := newFakeStore()
	store.collection(collUsers).getErr = common.ErrNotFound

	svc, snaps := newAuthFixture(&fakeAuth{}, store, newMemRepo())
	require.NoError(t, snaps.Save(context.Background(), snapshotFixture()))

	_, err := svc.CurrentProfile(context.Background(), testSession())
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdateProfile_MergesNameFields(t *testing.T) {
	store := newFakeStore()
	store.seed(collUsers, "user-1", map[string]any{
		"email": "jane@example.com", "firstName": "Jane", "lastName": "Doe",
		"fullName": "Jane Doe", "joinDate": "01/02/2024",
	})

	svc, _ := newAuthFixture(&fakeAuth{}, store, newMemRepo())
	err := svc.UpdateProfile(context.Background(), testSession(), "Janet", "Smith")
	require.NoError(t, err)

	doc := store.doc(collUsers, "user-1")
	require.Equal(t, "Janet", doc["firstName"])
	require.Equal(t, "Janet Smith", doc["fullName"])
	require.Equal(t, "jane@example.com", doc["email"])
	require.NotEmpty(t, doc["updatedAt"])
}

func TestUpdateProfile_RefreshesSnapshotName(t *testing.T) {
	store := newFakeStore()
	store.seed(collUsers, "user-1", map[string]any{"fullName": "Jane Doe"})

	repo := newMemRepo()
	svc, snaps := newAuthFixture(&fakeAuth{}, store, repo)
	require.NoError(t, snaps.Save(context.Background(), snapshotFixture()))

	require.NoError(t, svc.UpdateProfile(context.Background(), testSession(), "Janet", "Smith"))

	snap, err := snaps.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Janet Smith", snap.FullName)
}
