package saved

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mishannn/homesearch-go/internal/listing"
	"github.com/mishannn/homesearch-go/internal/session"
)

type saveCall struct {
	userID     string
	propertyID string
	isSaved    bool
}

type fakeSaver struct {
	mu    sync.Mutex
	calls []saveCall
	err   error
}

func (f *fakeSaver) ToggleSavedHome(_ context.Context, userID string, propertyID string, isSaved bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, saveCall{userID: userID, propertyID: propertyID, isSaved: isSaved})
	return f.err
}

func (f *fakeSaver) Calls() []saveCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]saveCall(nil), f.calls...)
}

type recordingNotifier struct {
	mu     sync.Mutex
	errors []error
}

func (n *recordingNotifier) Info(string) {}

func (n *recordingNotifier) Error(_ string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.errors = append(n.errors, err)
}

func (n *recordingNotifier) Errors() []error {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]error(nil), n.errors...)
}

func newTestToggler(t *testing.T, saver Saver, loggedIn bool) (*Toggler, *listing.Store, *recordingNotifier) {
	t.Helper()

	notifier := &recordingNotifier{}
	app := session.NewApp(zap.NewNop(), session.NewMemoryStore(), notifier)
	if loggedIn {
		require.NoError(t, app.Auth.Login("token", "user-1"))
	}

	store := listing.NewStore()
	store.Replace([]listing.Listing{{ID: "A"}, {ID: "B", IsSaved: true}})

	tg := NewToggler(app, saver, store, 20*time.Millisecond, time.Second)
	t.Cleanup(tg.Close)

	return tg, store, notifier
}

func TestToggleCollapsesToLastIntent(t *testing.T) {
	saver := &fakeSaver{}
	tg, store, notifier := newTestToggler(t, saver, true)

	require.NoError(t, tg.Toggle("A", true))
	require.NoError(t, tg.Toggle("A", false))
	require.NoError(t, tg.Toggle("A", true))

	a, _ := store.Get("A")
	assert.True(t, a.IsSaved, "flag is optimistic")

	tg.Flush()

	assert.Equal(t, []saveCall{{userID: "user-1", propertyID: "A", isSaved: true}}, saver.Calls())
	a, _ = store.Get("A")
	assert.True(t, a.IsSaved)
	assert.Empty(t, notifier.Errors())
	assert.Zero(t, tg.Pending())
}

func TestToggleFailureRollsBackAndNotifies(t *testing.T) {
	boom := errors.New("boom")
	saver := &fakeSaver{err: boom}
	tg, store, notifier := newTestToggler(t, saver, true)

	require.NoError(t, tg.Toggle("B", false))
	require.NoError(t, tg.Toggle("B", true))
	require.NoError(t, tg.Toggle("B", false))
	tg.Flush()

	b, _ := store.Get("B")
	assert.True(t, b.IsSaved, "rolled back to the value before the burst")

	require.Len(t, notifier.Errors(), 1)
	assert.ErrorIs(t, notifier.Errors()[0], boom)
}

func TestToggleRequiresLogin(t *testing.T) {
	saver := &fakeSaver{}
	tg, store, _ := newTestToggler(t, saver, false)

	err := tg.Toggle("A", true)
	assert.ErrorIs(t, err, session.ErrNotLoggedIn)

	a, _ := store.Get("A")
	assert.False(t, a.IsSaved)
	assert.Empty(t, saver.Calls())
}

func TestToggleUnknownListing(t *testing.T) {
	tg, _, _ := newTestToggler(t, &fakeSaver{}, true)

	assert.ErrorIs(t, tg.Toggle("missing", true), ErrUnknownListing)
}

func TestCloseRestoresUnsentToggles(t *testing.T) {
	saver := &fakeSaver{}
	notifier := &recordingNotifier{}
	app := session.NewApp(zap.NewNop(), session.NewMemoryStore(), notifier)
	require.NoError(t, app.Auth.Login("token", "user-1"))

	store := listing.NewStore()
	store.Replace([]listing.Listing{{ID: "A"}})

	tg := NewToggler(app, saver, store, time.Hour, time.Second)
	require.NoError(t, tg.Toggle("A", true))
	tg.Close()

	a, _ := store.Get("A")
	assert.False(t, a.IsSaved)
	assert.Empty(t, saver.Calls())
}

type scriptedSaver struct {
	mu      sync.Mutex
	n       int
	respond func(n int) error
}

func (s *scriptedSaver) ToggleSavedHome(_ context.Context, _ string, _ string, _ bool) error {
	s.mu.Lock()
	s.n++
	n := s.n
	s.mu.Unlock()

	return s.respond(n)
}

func (s *scriptedSaver) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.n
}

func TestLateSupersededSuccessKeepsRollbackTarget(t *testing.T) {
	boom := errors.New("boom")
	entered := make(chan struct{})
	release := make(chan struct{})

	saver := &scriptedSaver{respond: func(n int) error {
		switch n {
		case 1:
			close(entered)
			<-release
			return nil
		case 2:
			return nil
		default:
			return boom
		}
	}}
	tg, store, notifier := newTestToggler(t, saver, true)

	require.NoError(t, tg.Toggle("A", true))
	<-entered

	require.NoError(t, tg.Toggle("A", false))
	require.Eventually(t, func() bool {
		return saver.Count() == 2 && tg.Pending() == 0
	}, time.Second, 5*time.Millisecond)

	close(release)
	tg.Flush()

	require.NoError(t, tg.Toggle("A", true))
	tg.Flush()

	a, _ := store.Get("A")
	assert.False(t, a.IsSaved, "rolled back to the value the server last confirmed")
	require.Len(t, notifier.Errors(), 1)
	assert.ErrorIs(t, notifier.Errors()[0], boom)
}
