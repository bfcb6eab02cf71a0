// Package viewmodel holds the presentation state for each screen: login,
// register, plant list, plant detail, add plant and edit plant, plus the
// session that decides which of them is reachable.
//
// Every state holder exposes an observable snapshot and action methods that
// return immediately. Actions run as tasks in the holder's Scope; closing the
// Scope cancels them and guarantees no state is published afterwards.
package viewmodel

import (
	"context"
	"sync"
)

// Scope ties asynchronous tasks to the lifetime of one screen.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc

	// mu is held for reading while a task publishes and for writing while
	// the scope closes, so a publish never straddles cancellation.
	mu sync.RWMutex
	wg sync.WaitGroup
}

// NewScope creates a Scope that ends when parent is cancelled or Close is
// called.
func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// Context returns the scope's context.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Launch runs task on a new goroutine. It reports false, without running
// task, once the scope has been closed.
func (s *Scope) Launch(task func(ctx context.Context)) bool {
	s.mu.RLock()
	if s.ctx.Err() != nil {
		s.mu.RUnlock()
		return false
	}
	s.wg.Add(1)
	s.mu.RUnlock()

	go func() {
		defer s.wg.Done()
		task(s.ctx)
	}()
	return true
}

// Publish runs fn unless the scope is done. It reports whether fn ran.
func (s *Scope) Publish(fn func()) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ctx.Err() != nil {
		return false
	}
	fn()
	return true
}

// Wait blocks until every launched task has returned.
func (s *Scope) Wait() {
	s.wg.Wait()
}

// Close cancels in-flight tasks and waits for them to return.
func (s *Scope) Close() {
	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()
	s.wg.Wait()
}
