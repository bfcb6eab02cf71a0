// Package observable provides a multicast value holder with
// replay-latest-on-subscribe semantics.
package observable

import (
	"context"
	"sync"
)

// Value holds a single current value and multicasts every change to its
// subscribers. A new subscriber immediately receives the current value.
//
// Subscribers that fall behind only ever see the latest value: each
// subscription buffers one element and a pending stale value is replaced
// rather than queued, so Set never blocks on a slow reader.
type Value[T any] struct {
	mu      sync.RWMutex
	current T
	subs    map[*subscription[T]]struct{}
}

type subscription[T any] struct {
	ch chan T
}

// New creates a Value holding initial.
func New[T any](initial T) *Value[T] {
	return &Value[T]{
		current: initial,
		subs:    make(map[*subscription[T]]struct{}),
	}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Set replaces the current value and publishes it to every subscriber.
func (v *Value[T]) Set(next T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = next
	for s := range v.subs {
		s.offer(next)
	}
}

// Update applies fn to the current value under the write lock and publishes
// the result. It returns the new value.
func (v *Value[T]) Update(fn func(T) T) T {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = fn(v.current)
	for s := range v.subs {
		s.offer(v.current)
	}
	return v.current
}

// Subscribe returns a channel that receives the current value followed by
// every later change. The channel is closed once ctx is done. Each call
// starts an independent subscription, so a consumer can restart by
// subscribing again.
func (v *Value[T]) Subscribe(ctx context.Context) <-chan T {
	s := &subscription[T]{ch: make(chan T, 1)}

	v.mu.Lock()
	s.ch <- v.current
	v.subs[s] = struct{}{}
	v.mu.Unlock()

	go func() {
		<-ctx.Done()
		v.mu.Lock()
		delete(v.subs, s)
		close(s.ch)
		v.mu.Unlock()
	}()

	return s.ch
}

// offer delivers val, replacing a value the reader has not consumed yet.
// Callers hold the write lock, so offers never race each other.
func (s *subscription[T]) offer(val T) {
	for {
		select {
		case s.ch <- val:
			return
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}

// SetIfChanged publishes next only when it differs from the current value.
// It reports whether a change was published.
func SetIfChanged[T comparable](v *Value[T], next T) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.current == next {
		return false
	}
	v.current = next
	for s := range v.subs {
		s.offer(next)
	}
	return true
}
