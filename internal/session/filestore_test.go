package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/holidaze/internal/holidaze"
)

func testSession() Session {
	return Session{
		AccessToken: "tok-abc",
		User:        holidaze.Profile{Name: "jo", Email: "jo@stud.noroff.no", VenueManager: true},
	}
}

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "session.json"), "passphrase")
	require.NoError(t, err)
	return fs
}

func TestFileStore_roundTrip(t *testing.T) {
	fs := newTestStore(t)
	require.NoError(t, fs.Save(testSession()))

	got, ok, err := fs.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, testSession(), got)
}

func TestFileStore_loadMissingFile(t *testing.T) {
	fs := newTestStore(t)
	_, ok, err := fs.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_tokenNotStoredInClear(t *testing.T) {
	fs := newTestStore(t)
	require.NoError(t, fs.Save(testSession()))

	raw, err := os.ReadFile(fs.path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(raw), "tok-abc"))
	assert.False(t, strings.Contains(string(raw), "jo@stud.noroff.no"))
}

func TestFileStore_wrongPassphrase(t *testing.T) {
	fs := newTestStore(t)
	require.NoError(t, fs.Save(testSession()))

	other, err := NewFileStore(fs.path, "not-the-passphrase")
	require.NoError(t, err)
	_, _, err = other.Load()
	require.Error(t, err)
}

func TestFileStore_clear(t *testing.T) {
	fs := newTestStore(t)
	require.NoError(t, fs.Save(testSession()))
	require.NoError(t, fs.Clear())
	// Clearing an already-empty store is a no-op.
	require.NoError(t, fs.Clear())

	_, ok, err := fs.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_corruptFile(t *testing.T) {
	fs := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(fs.path), 0o700))
	require.NoError(t, os.WriteFile(fs.path, []byte("not json"), 0o600))
	_, _, err := fs.Load()
	require.Error(t, err)
}

func TestStore_getSetClearAndSubscribe(t *testing.T) {
	st, err := NewStore(nil)
	require.NoError(t, err)

	var events []bool
	st.Subscribe(func(_ Session, ok bool) { events = append(events, ok) })

	_, ok := st.Get()
	assert.False(t, ok)
	_, ok = st.AccessToken()
	assert.False(t, ok)

	require.NoError(t, st.Set(testSession()))
	got, ok := st.Get()
	require.True(t, ok)
	assert.Equal(t, "tok-abc", got.AccessToken)

	tok, ok := st.AccessToken()
	require.True(t, ok)
	assert.Equal(t, "tok-abc", tok)

	require.NoError(t, st.Clear())
	_, ok = st.Get()
	assert.False(t, ok)

	assert.Equal(t, []bool{true, false}, events)
}

func TestStore_loadsPersistedSession(t *testing.T) {
	fs := newTestStore(t)
	require.NoError(t, fs.Save(testSession()))

	st, err := NewStore(fs)
	require.NoError(t, err)
	got, ok := st.Get()
	require.True(t, ok)
	assert.Equal(t, "jo", got.User.Name)
}

func TestPendingBooking_jsonShape(t *testing.T) {
	b, err := json.Marshal(PendingBooking{VenueID: "v1", Guests: 2})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"venueId":"v1"`)
}
