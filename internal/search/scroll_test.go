package search

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mishannn/homesearch-go/internal/api"
	"github.com/mishannn/homesearch-go/internal/filter"
	"github.com/mishannn/homesearch-go/internal/listing"
)

func TestRatio(t *testing.T) {
	assert.InDelta(t, 0.85, Ratio(750, 100, 1000), 1e-9)
	assert.Zero(t, Ratio(10, 10, 0))
}

func TestBothListenersIssueOneFetch(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	f := &fakeSearcher{respond: func(_ context.Context, _ map[string]any, page int) (*api.SearchPage, error) {
		if page == 3 {
			close(entered)
			<-release
		}
		return pageOf(true, listing.Listing{ID: string(rune('A' + page))}), nil
	}}
	o := newTestOrchestrator(f)
	defer o.Close()

	require.NoError(t, o.Reload(context.Background(), filter.DefaultCriteria()))
	_, err := o.LoadMore(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, o.Snapshot().Cursor.Page)

	d := NewScrollDriver(o, zap.NewNop(), nil)

	var wg sync.WaitGroup
	wg.Add(1)
	var first bool
	go func() {
		defer wg.Done()
		first = d.OnScroll(context.Background(), SourceContainer, 750, 100, 1000)
	}()

	<-entered
	second := d.OnScroll(context.Background(), SourceWindow, 750, 100, 1000)
	manual := d.ShowMore(context.Background())
	close(release)
	wg.Wait()

	assert.True(t, first)
	assert.False(t, second)
	assert.False(t, manual)
	assert.Equal(t, 1, f.pageCalls(3))
	assert.Equal(t, 3, o.Snapshot().Cursor.Page)
}

func TestScrollThresholds(t *testing.T) {
	f := &fakeSearcher{respond: func(_ context.Context, _ map[string]any, page int) (*api.SearchPage, error) {
		return pageOf(true, listing.Listing{ID: string(rune('A' + page))}), nil
	}}
	o := newTestOrchestrator(f)
	defer o.Close()

	require.NoError(t, o.Reload(context.Background(), filter.DefaultCriteria()))
	d := NewScrollDriver(o, zap.NewNop(), nil)

	assert.False(t, d.OnScroll(context.Background(), SourceContainer, 700, 100, 1000))
	assert.False(t, d.OnScroll(context.Background(), Source("touch"), 900, 100, 1000))
	assert.True(t, d.OnScroll(context.Background(), SourceWindow, 650, 100, 1000))
	assert.True(t, d.ShowMore(context.Background()))

	assert.Equal(t, 3, o.Snapshot().Cursor.Page)
	assert.Len(t, o.Visible(), 3)
}
