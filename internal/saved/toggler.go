package saved

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mishannn/homesearch-go/internal/listing"
	"github.com/mishannn/homesearch-go/internal/session"
)

const (
	DefaultDelay   = 400 * time.Millisecond
	DefaultTimeout = 15 * time.Second
)

var ErrUnknownListing = errors.New("listing is not loaded")

type Saver interface {
	ToggleSavedHome(ctx context.Context, userID string, propertyID string, isSaved bool) error
}

// Toggler flips a listing's saved flag immediately and sends the change to
// the server once the user stops toggling it. If the request fails the flag
// goes back to the last value the server is known to have.
type Toggler struct {
	saver    Saver
	store    *listing.Store
	app      *session.App
	logger   *zap.Logger
	timeout  time.Duration
	debounce *Debouncer[string]

	mu        sync.Mutex
	confirmed map[string]bool
}

func NewToggler(app *session.App, saver Saver, store *listing.Store, delay time.Duration, timeout time.Duration) *Toggler {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Toggler{
		saver:     saver,
		store:     store,
		app:       app,
		logger:    app.Logger.Named("saved"),
		timeout:   timeout,
		debounce:  NewDebouncer[string](delay),
		confirmed: make(map[string]bool),
	}
}

// Toggle sets the local flag now and schedules the request.
func (t *Toggler) Toggle(propertyID string, isSaved bool) error {
	userID, err := t.app.Auth.UserID()
	if err != nil {
		return err
	}

	prev, ok := t.store.SetSaved(propertyID, isSaved)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownListing, propertyID)
	}

	t.mu.Lock()
	if _, pending := t.confirmed[propertyID]; !pending {
		t.confirmed[propertyID] = prev
	}
	t.mu.Unlock()

	t.debounce.Debounce(propertyID, func(ctx context.Context) {
		t.send(ctx, userID, propertyID, isSaved)
	})

	return nil
}

func (t *Toggler) send(taskCtx context.Context, userID string, propertyID string, isSaved bool) {
	ctx, cancel := context.WithTimeout(taskCtx, t.timeout)
	defer cancel()

	err := t.saver.ToggleSavedHome(ctx, userID, propertyID, isSaved)

	t.mu.Lock()
	defer t.mu.Unlock()

	// A newer toggle for this listing took over and owns the flag now. Once
	// that toggle has settled there is no burst left to roll back.
	if taskCtx.Err() != nil {
		if _, pending := t.confirmed[propertyID]; pending && err == nil {
			t.confirmed[propertyID] = isSaved
		}
		return
	}

	confirmed := t.confirmed[propertyID]
	delete(t.confirmed, propertyID)

	if err != nil {
		t.store.SetSaved(propertyID, confirmed)
		t.logger.Warn("save toggle rolled back",
			zap.String("property_id", propertyID),
			zap.Bool("is_saved", isSaved),
			zap.Error(err))
		t.app.Notifier.Error("Couldn't update saved homes. Please try again.", err)
		return
	}

	t.logger.Debug("save toggle stored", zap.String("property_id", propertyID), zap.Bool("is_saved", isSaved))
}

func (t *Toggler) Pending() int {
	return t.debounce.Pending()
}

// Flush waits until every scheduled request has been sent.
func (t *Toggler) Flush() {
	t.debounce.Wait()
}

// Close drops requests that have not been sent yet and restores their
// listings to the last confirmed value.
func (t *Toggler) Close() {
	t.debounce.Stop()

	t.mu.Lock()
	defer t.mu.Unlock()

	for id, confirmed := range t.confirmed {
		t.store.SetSaved(id, confirmed)
		delete(t.confirmed, id)
	}
}
