package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTripAndComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		// written by hand
		"auth.token": "abc",
		"auth.user_id": "u1",
	}`), 0o600))

	fs, err := OpenFileStore(path)
	require.NoError(t, err)

	v, ok, err := fs.Get("auth.token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	var seen []string
	unsubscribe := fs.Subscribe(func(key, value string) { seen = append(seen, key+"="+value) })
	require.NoError(t, fs.Set("theme", "dark"))
	unsubscribe()
	require.NoError(t, fs.Set("theme", "light"))
	assert.Equal(t, []string{"theme=dark"}, seen)

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)
	v, ok, _ = reopened.Get("theme")
	assert.True(t, ok)
	assert.Equal(t, "light", v)
}

func TestFileStoreMissingFile(t *testing.T) {
	fs, err := OpenFileStore(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)

	_, ok, err := fs.Get("anything")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAuthLifecycle(t *testing.T) {
	store := NewMemoryStore()
	auth := NewAuth(store)

	_, err := auth.UserID()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.False(t, auth.LoggedIn())

	var states []bool
	stop := auth.OnChange(func(loggedIn bool) { states = append(states, loggedIn) })
	defer stop()

	require.NoError(t, auth.Login("tok", "user-7"))
	assert.True(t, auth.LoggedIn())

	token, ok := auth.Token()
	assert.True(t, ok)
	assert.Equal(t, "tok", token)

	userID, err := auth.UserID()
	require.NoError(t, err)
	assert.Equal(t, "user-7", userID)

	require.NoError(t, auth.Logout())
	assert.False(t, auth.LoggedIn())
	assert.Equal(t, []bool{false, true, false, false}, states)

	assert.Error(t, auth.Login("", "x"))
}
