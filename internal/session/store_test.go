package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmdesk/internal/domain/models"
)

func openStore(t *testing.T, dir string) *Store {
	t.Helper()
	store, err := Open(dir, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleSession() models.Session {
	return models.Session{
		Token: "token-123",
		User: models.User{
			ID:       "u1",
			Username: "amina",
			Email:    "amina@greenacres.test",
		},
	}
}

func TestSessionRoundTrip(t *testing.T) {
	dir := t.TempDir()

	store := openStore(t, dir)
	_, ok := store.Session()
	assert.False(t, ok, "a fresh store has no session")

	require.NoError(t, store.SetSession(sampleSession()))
	require.NoError(t, store.SetTheme("light"))
	require.NoError(t, store.Close())

	// A second store over the same directory sees the persisted state.
	reopened := openStore(t, dir)
	session, ok := reopened.Session()
	require.True(t, ok)
	assert.Equal(t, "token-123", session.Token)
	assert.Equal(t, "amina", session.User.Username)
	assert.Equal(t, "light", reopened.Theme())
	assert.Equal(t, "token-123", reopened.Token())
}

func TestClearKeepsTheme(t *testing.T) {
	store := openStore(t, t.TempDir())

	require.NoError(t, store.SetSession(sampleSession()))
	require.NoError(t, store.SetTheme("light"))
	require.NoError(t, store.Clear())

	_, ok := store.Session()
	assert.False(t, ok)
	assert.Equal(t, "", store.Token())
	assert.Equal(t, "light", store.Theme())
}

func TestCorruptStateFileStartsClean(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, StateFileName), []byte("{not json"), 0o600))

	store := openStore(t, dir)
	_, ok := store.Session()
	assert.False(t, ok)
}

func TestExternalWriteNotifiesSubscribers(t *testing.T) {
	dir := t.TempDir()
	store := openStore(t, dir)
	updates := store.Subscribe()

	// A second process signs in and rewrites the state file.
	other := openStore(t, dir)
	require.NoError(t, other.SetSession(sampleSession()))

	select {
	case <-updates:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a change signal after an external write")
	}

	session, ok := store.Session()
	require.True(t, ok)
	assert.Equal(t, "token-123", session.Token)
}

func TestSelfWriteStillSignalsOwnSubscribers(t *testing.T) {
	store := openStore(t, t.TempDir())
	updates := store.Subscribe()

	require.NoError(t, store.SetSession(sampleSession()))

	select {
	case <-updates:
	case <-time.After(time.Second):
		t.Fatal("expected a change signal after SetSession")
	}
}
