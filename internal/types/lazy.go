package types

import (
	"errors"
	"sync"
)

// ErrNotReady is returned by Lazy.Peek when the value was never computed.
var ErrNotReady = errors.New("types: lazy value not initialized")

// LazyState is the two-state lifecycle of a Lazy value.
type LazyState uint8

const (
	Uninitialized LazyState = iota
	Ready
)

// Lazy memoizes a computation. Concurrent first accesses run the loader once;
// every caller observes the same result afterwards.
type Lazy[T any] struct {
	once   sync.Once
	mu     sync.RWMutex
	state  LazyState
	loader func() T
	value  T
}

// NewLazy wraps loader. A nil loader yields the zero value.
func NewLazy[T any](loader func() T) *Lazy[T] {
	return &Lazy[T]{loader: loader}
}

// ReadyLazy returns an already computed holder.
func ReadyLazy[T any](v T) *Lazy[T] {
	l := &Lazy[T]{state: Ready, value: v}
	l.once.Do(func() {})
	return l
}

// Get computes the value on first access.
func (l *Lazy[T]) Get() T {
	l.once.Do(func() {
		var v T
		if l.loader != nil {
			v = l.loader()
		}
		l.mu.Lock()
		l.value = v
		l.state = Ready
		l.loader = nil
		l.mu.Unlock()
	})
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.value
}

// Peek returns the value without computing it.
func (l *Lazy[T]) Peek() (T, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.state != Ready {
		var zero T
		return zero, ErrNotReady
	}
	return l.value, nil
}

// State reports the lifecycle state.
func (l *Lazy[T]) State() LazyState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// CacheState is the lifecycle of a Tri cache.
type CacheState uint8

const (
	NotComputed CacheState = iota
	ComputedNone
	ComputedSome
)

// Tri caches a computation whose result may legitimately be absent, so
// "computed, nothing found" is not confused with "not computed yet". It is
// not synchronized; callers confine it to one goroutine.
type Tri[T any] struct {
	state CacheState
	value T
}

// Get returns the cached value and the state.
func (c *Tri[T]) Get() (T, CacheState) { return c.value, c.state }

// State reports the cache state.
func (c *Tri[T]) State() CacheState { return c.state }

// SetNone records that the computation found nothing.
func (c *Tri[T]) SetNone() {
	var zero T
	c.value = zero
	c.state = ComputedNone
}

// SetSome records a result.
func (c *Tri[T]) SetSome(v T) {
	c.value = v
	c.state = ComputedSome
}
