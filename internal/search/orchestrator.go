package search

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/mishannn/homesearch-go/internal/api"
	"github.com/mishannn/homesearch-go/internal/filter"
	"github.com/mishannn/homesearch-go/internal/listing"
)

const DefaultPageSize = 10

// ErrStale is returned for a response that arrived after a newer search was
// started. The response was dropped without touching state.
var ErrStale = errors.New("stale response discarded")

type Searcher interface {
	SearchProperties(ctx context.Context, body map[string]any, page int, pageSize int) (*api.SearchPage, error)
}

// Cursor describes what has been loaded for the current criteria. Page is the
// last successfully loaded page and never decreases until the next Reload.
type Cursor struct {
	Page    int
	HasMore bool
	Total   int
}

type Snapshot struct {
	Generation  uint64
	Criteria    filter.Criteria
	Cursor      Cursor
	Loading     bool
	LoadingMore bool
	Err         error
	Listings    []listing.Listing
}

// Orchestrator turns committed criteria plus a page number into API calls and
// merges the results into a listing store.
//
// Every Reload starts a new generation. A response is applied only if its
// generation is still current, so a late page from old criteria can never
// overwrite newer results.
type Orchestrator struct {
	searcher Searcher
	store    *listing.Store
	logger   *zap.Logger
	pageSize int

	mu          sync.Mutex
	generation  uint64
	criteria    filter.Criteria
	cursor      Cursor
	loading     bool
	loadingMore bool
	err         error
	listeners   []func(Snapshot)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOrchestrator(searcher Searcher, store *listing.Store, logger *zap.Logger, pageSize int) *Orchestrator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Orchestrator{
		searcher: searcher,
		store:    store,
		logger:   logger,
		pageSize: pageSize,
		criteria: filter.DefaultCriteria(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (o *Orchestrator) Store() *listing.Store {
	return o.store
}

func (o *Orchestrator) PageSize() int {
	return o.pageSize
}

// OnChange registers fn to be called after every applied response.
func (o *Orchestrator) OnChange(fn func(Snapshot)) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.listeners = append(o.listeners, fn)
}

// Bind reloads page 1 in the background whenever committed criteria of state
// change. The generation is taken in commit order, so only the latest commit
// can be applied. The returned func stops listening.
func (o *Orchestrator) Bind(state *filter.State) func() {
	return state.Subscribe(func(c filter.Criteria) {
		gen := o.begin(c)

		o.wg.Add(1)
		go func() {
			defer o.wg.Done()

			err := o.fetchFirst(o.ctx, gen, c)
			if err != nil && !errors.Is(err, ErrStale) {
				o.logger.Debug("background reload failed", zap.Error(err))
			}
		}()
	})
}

// Close cancels background reloads started by Bind and waits for them.
func (o *Orchestrator) Close() {
	o.cancel()
	o.wg.Wait()
}

// Reload starts a new generation for criteria and fetches page 1, replacing
// the current results. On failure the list is emptied and HasMore is false.
func (o *Orchestrator) Reload(ctx context.Context, criteria filter.Criteria) error {
	return o.fetchFirst(ctx, o.begin(criteria), criteria)
}

// begin starts a new generation for criteria. Responses of older generations
// are dropped from now on.
func (o *Orchestrator) begin(criteria filter.Criteria) uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.generation++
	o.criteria = criteria
	o.cursor = Cursor{}
	o.loading = true
	o.loadingMore = false
	o.err = nil

	return o.generation
}

func (o *Orchestrator) fetchFirst(ctx context.Context, gen uint64, criteria filter.Criteria) error {
	o.logger.Debug("reload", zap.Uint64("generation", gen), zap.String("search", criteria.Search))

	page, err := o.searcher.SearchProperties(ctx, criteria.Body(), 1, o.pageSize)

	o.mu.Lock()
	if gen != o.generation {
		o.mu.Unlock()
		o.logger.Debug("dropped stale page", zap.Uint64("generation", gen), zap.Int("page", 1))
		return ErrStale
	}

	o.loading = false
	if err != nil {
		o.store.Clear()
		o.cursor = Cursor{HasMore: false}
		o.err = err
		o.logger.Warn("can't load first page", zap.Error(err))
	} else {
		o.store.Replace(page.Listings)
		o.cursor = Cursor{Page: 1, HasMore: page.HasMore, Total: page.Count}
	}
	snap := o.snapshotLocked()
	listeners := o.listeners
	o.mu.Unlock()

	notify(listeners, snap)

	return err
}

// LoadMore fetches the page after the cursor and appends it. It returns false
// without doing anything when there is nothing more to load or a fetch is
// already running, so concurrent triggers for the same page collapse into one
// request. On failure the page stays unloaded and HasMore becomes false;
// there is no retry.
func (o *Orchestrator) LoadMore(ctx context.Context) (bool, error) {
	o.mu.Lock()
	if o.loading || o.loadingMore || !o.cursor.HasMore {
		o.mu.Unlock()
		return false, nil
	}

	gen := o.generation
	next := o.cursor.Page + 1
	criteria := o.criteria
	o.loadingMore = true
	o.mu.Unlock()

	o.logger.Debug("load more", zap.Uint64("generation", gen), zap.Int("page", next))

	page, err := o.searcher.SearchProperties(ctx, criteria.Body(), next, o.pageSize)

	o.mu.Lock()
	if gen != o.generation {
		o.mu.Unlock()
		o.logger.Debug("dropped stale page", zap.Uint64("generation", gen), zap.Int("page", next))
		return true, ErrStale
	}

	o.loadingMore = false
	if err != nil {
		o.cursor.HasMore = false
		o.err = err
		o.logger.Warn("can't load page", zap.Int("page", next), zap.Error(err))
	} else {
		o.store.Append(page.Listings)
		o.cursor = Cursor{Page: next, HasMore: page.HasMore, Total: page.Count}
	}
	snap := o.snapshotLocked()
	listeners := o.listeners
	o.mu.Unlock()

	notify(listeners, snap)

	return true, err
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.snapshotLocked()
}

// Visible returns the listings of the loaded pages.
func (o *Orchestrator) Visible() []listing.Listing {
	o.mu.Lock()
	page := o.cursor.Page
	o.mu.Unlock()

	return o.store.Slice(page * o.pageSize)
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	return Snapshot{
		Generation:  o.generation,
		Criteria:    o.criteria,
		Cursor:      o.cursor,
		Loading:     o.loading,
		LoadingMore: o.loadingMore,
		Err:         o.err,
		Listings:    o.store.All(),
	}
}

func notify(listeners []func(Snapshot), snap Snapshot) {
	for _, fn := range listeners {
		fn(snap)
	}
}
