package search

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Source identifies which scroll listener reported a position.
type Source string

const (
	SourceWindow    Source = "window"
	SourceContainer Source = "container"
)

var DefaultThresholds = map[Source]float64{
	SourceWindow:    0.7,
	SourceContainer: 0.8,
}

type Loader interface {
	LoadMore(ctx context.Context) (bool, error)
}

// ScrollDriver advances pagination from scroll positions reported by any
// number of listeners, plus a manual "show more" action. Duplicate triggers
// are absorbed by the loader's in-flight guard.
type ScrollDriver struct {
	loader     Loader
	logger     *zap.Logger
	thresholds map[Source]float64
}

func NewScrollDriver(loader Loader, logger *zap.Logger, thresholds map[Source]float64) *ScrollDriver {
	if thresholds == nil {
		thresholds = DefaultThresholds
	}

	return &ScrollDriver{
		loader:     loader,
		logger:     logger,
		thresholds: thresholds,
	}
}

// Ratio is (scrollTop+clientHeight)/scrollHeight. An empty scroll area
// reports 0.
func Ratio(scrollTop, clientHeight, scrollHeight float64) float64 {
	if scrollHeight <= 0 {
		return 0
	}
	return (scrollTop + clientHeight) / scrollHeight
}

// OnScroll loads the next page once the ratio for src passes its threshold.
// It reports whether a fetch was started by this call.
func (d *ScrollDriver) OnScroll(ctx context.Context, src Source, scrollTop, clientHeight, scrollHeight float64) bool {
	threshold, ok := d.thresholds[src]
	if !ok {
		d.logger.Warn("scroll from unknown source", zap.String("source", string(src)))
		return false
	}

	if Ratio(scrollTop, clientHeight, scrollHeight) <= threshold {
		return false
	}

	return d.load(ctx, string(src))
}

// ShowMore is the non-scroll fallback for the same advance.
func (d *ScrollDriver) ShowMore(ctx context.Context) bool {
	return d.load(ctx, "show_more")
}

func (d *ScrollDriver) load(ctx context.Context, trigger string) bool {
	started, err := d.loader.LoadMore(ctx)
	if err != nil && !errors.Is(err, ErrStale) {
		d.logger.Debug("load more failed", zap.String("trigger", trigger), zap.Error(err))
	}

	return started
}
