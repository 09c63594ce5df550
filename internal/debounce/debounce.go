// Package debounce turns a stream of raw values into trailing-edge commits
// that are emitted once the stream has been quiet for a fixed delay.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period used for search input.
const DefaultDelay = 500 * time.Millisecond

// Stopper is the part of *time.Timer the debouncer needs.
type Stopper interface {
	Stop() bool
}

// AfterFunc schedules f after d, like time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) Stopper

func realAfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

type Option[T comparable] func(*Debouncer[T])

// WithSuppress drops a commit when fn reports true for it. fn runs on the
// timer goroutine.
func WithSuppress[T comparable](fn func(T) bool) Option[T] {
	return func(d *Debouncer[T]) {
		d.suppress = fn
	}
}

// WithClock replaces the timer source.
func WithClock[T comparable](after AfterFunc) Option[T] {
	return func(d *Debouncer[T]) {
		if after != nil {
			d.after = after
		}
	}
}

// Debouncer is safe for concurrent use. Commits are delivered on a channel
// with room for one value; an unread commit is replaced by a newer one.
type Debouncer[T comparable] struct {
	mu    sync.Mutex
	delay time.Duration
	after AfterFunc
	timer Stopper

	// gen invalidates timers that fire after being stopped.
	gen        uint64
	pending    T
	hasPending bool

	committed    T
	hasCommitted bool
	suppress     func(T) bool

	out    chan T
	closed bool
}

// New creates a debouncer. A non-positive delay falls back to DefaultDelay.
func New[T comparable](delay time.Duration, opts ...Option[T]) *Debouncer[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	d := &Debouncer[T]{
		delay: delay,
		after: realAfterFunc,
		out:   make(chan T, 1),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Commits returns the channel committed values are sent on. It is closed by
// Close.
func (d *Debouncer[T]) Commits() <-chan T {
	return d.out
}

func (d *Debouncer[T]) Delay() time.Duration {
	return d.delay
}

// Push records v and restarts the quiet period.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	d.stopLocked()
	d.pending = v
	d.hasPending = true
	gen := d.gen
	d.timer = d.after(d.delay, func() { d.fire(gen) })
}

// Cancel discards the pending value, if any.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.hasPending = false
}

// Pending reports whether a value is waiting for the quiet period to end.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hasPending
}

// MarkCommitted records v as already committed, so a later commit of the
// same value is suppressed. Call it when v is applied by other means, such as
// an explicit submit.
func (d *Debouncer[T]) MarkCommitted(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.committed = v
	d.hasCommitted = true
}

// Close stops the timer and closes the commit channel. Further pushes are
// ignored.
func (d *Debouncer[T]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.stopLocked()
	d.hasPending = false
	d.closed = true
	close(d.out)
}

func (d *Debouncer[T]) stopLocked() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || gen != d.gen || !d.hasPending {
		return
	}

	v := d.pending
	d.hasPending = false
	d.timer = nil

	if d.hasCommitted && v == d.committed {
		return
	}
	if d.suppress != nil && d.suppress(v) {
		return
	}
	d.committed = v
	d.hasCommitted = true

	select {
	case <-d.out:
	default:
	}
	d.out <- v
}
