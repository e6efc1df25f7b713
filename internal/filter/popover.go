package filter

import (
	"errors"
	"sync"
)

var ErrPopoverClosed = errors.New("popover is not open")

// Popover stages edits of one facet until they are applied:
//
//	closed --Open--> open(staging) --Apply|Clear|Close--> closed
//
// The committed value only changes on Apply or Clear.
type Popover[T any] struct {
	mu sync.Mutex

	name      string
	def       T
	committed T
	staging   T
	open      bool

	clone     func(T) T
	normalize func(T) T
	onCommit  func(name string)
}

type popoverOption[T any] func(p *Popover[T])

func withClone[T any](f func(T) T) popoverOption[T] {
	return func(p *Popover[T]) {
		p.clone = f
	}
}

func withNormalize[T any](f func(T) T) popoverOption[T] {
	return func(p *Popover[T]) {
		p.normalize = f
	}
}

func newPopover[T any](name string, def T, opts ...popoverOption[T]) *Popover[T] {
	p := &Popover[T]{
		name:      name,
		clone:     func(v T) T { return v },
		normalize: func(v T) T { return v },
	}

	for _, opt := range opts {
		opt(p)
	}

	p.def = p.clone(def)
	p.committed = p.clone(def)
	p.staging = p.clone(def)

	return p
}

func (p *Popover[T]) Name() string {
	return p.name
}

// Open snapshots the committed value into staging. Opening an already open
// popover restarts staging from the committed value.
func (p *Popover[T]) Open() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.staging = p.clone(p.committed)
	p.open = true
}

func (p *Popover[T]) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.open
}

// Stage replaces the staging value.
func (p *Popover[T]) Stage(v T) error {
	return p.Edit(func(T) T { return v })
}

// Edit transforms the staging value in place.
func (p *Popover[T]) Edit(f func(T) T) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.open {
		return ErrPopoverClosed
	}

	p.staging = f(p.clone(p.staging))

	return nil
}

// Apply commits staging and closes.
func (p *Popover[T]) Apply() error {
	p.mu.Lock()

	if !p.open {
		p.mu.Unlock()
		return ErrPopoverClosed
	}

	p.committed = p.normalize(p.clone(p.staging))
	p.staging = p.clone(p.committed)
	p.open = false
	onCommit := p.onCommit

	p.mu.Unlock()

	if onCommit != nil {
		onCommit(p.name)
	}

	return nil
}

// Clear resets staging and committed to the default and closes. It may be
// called whether the popover is open or not.
func (p *Popover[T]) Clear() {
	p.mu.Lock()

	p.committed = p.clone(p.def)
	p.staging = p.clone(p.def)
	p.open = false
	onCommit := p.onCommit

	p.mu.Unlock()

	if onCommit != nil {
		onCommit(p.name)
	}
}

// Close discards staging.
func (p *Popover[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.staging = p.clone(p.committed)
	p.open = false
}

func (p *Popover[T]) Committed() T {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.clone(p.committed)
}

func (p *Popover[T]) Staging() T {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.clone(p.staging)
}

func (p *Popover[T]) Default() T {
	return p.clone(p.def)
}
