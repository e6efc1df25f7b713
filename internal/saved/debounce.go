package saved

import (
	"context"
	"sync"
	"time"
)

// Debouncer runs at most one pending task per key. Starting a new task for a
// key cancels the pending task for that key, including one that already
// started running if it still honours its context.
type Debouncer[K comparable] struct {
	delay time.Duration

	mu      sync.Mutex
	pending map[K]*task
	wg      sync.WaitGroup
}

type task struct {
	timer  *time.Timer
	cancel context.CancelFunc
}

func NewDebouncer[K comparable](delay time.Duration) *Debouncer[K] {
	return &Debouncer[K]{
		delay:   delay,
		pending: make(map[K]*task),
	}
}

// Debounce schedules fn for key after the delay. fn receives a context that
// is cancelled if the task is superseded or the debouncer is stopped.
func (d *Debouncer[K]) Debounce(key K, fn func(ctx context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked(key)

	ctx, cancel := context.WithCancel(context.Background())
	t := &task{cancel: cancel}

	d.wg.Add(1)
	t.timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		defer cancel()

		d.mu.Lock()
		if d.pending[key] != t {
			d.mu.Unlock()
			return
		}
		d.mu.Unlock()

		fn(ctx)

		d.mu.Lock()
		if d.pending[key] == t {
			delete(d.pending, key)
		}
		d.mu.Unlock()
	})

	d.pending[key] = t
}

// Cancel drops the pending task for key. It reports whether one was pending.
func (d *Debouncer[K]) Cancel(key K) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.cancelLocked(key)
}

func (d *Debouncer[K]) cancelLocked(key K) bool {
	t, ok := d.pending[key]
	if !ok {
		return false
	}

	delete(d.pending, key)
	t.cancel()
	if t.timer.Stop() {
		d.wg.Done()
	}

	return true
}

// Pending returns the number of tasks waiting or running.
func (d *Debouncer[K]) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.pending)
}

// Stop cancels every pending task and waits for running ones to return.
func (d *Debouncer[K]) Stop() {
	d.mu.Lock()
	for key := range d.pending {
		d.cancelLocked(key)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// Wait blocks until every scheduled task has fired or been cancelled.
func (d *Debouncer[K]) Wait() {
	d.wg.Wait()
}
