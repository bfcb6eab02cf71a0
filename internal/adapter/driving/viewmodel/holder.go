package viewmodel

import (
	"context"

	"github.com/ericfisherdev/watermyplant/internal/observable"
)

// holder is the plumbing shared by every state holder: a snapshot of type S
// published through an observable value and a scope for its tasks.
type holder[S any] struct {
	scope *Scope
	state *observable.Value[S]
}

func newHolder[S any](ctx context.Context, initial S) holder[S] {
	return holder[S]{scope: NewScope(ctx), state: observable.New(initial)}
}

// State returns the current snapshot.
func (h *holder[S]) State() S {
	return h.state.Get()
}

// Observe streams snapshots, starting with the current one, until ctx is
// done.
func (h *holder[S]) Observe(ctx context.Context) <-chan S {
	return h.state.Subscribe(ctx)
}

// Wait blocks until every action launched so far has published its result.
func (h *holder[S]) Wait() {
	h.scope.Wait()
}

// Close tears the screen down. In-flight actions are cancelled and publish
// nothing further.
func (h *holder[S]) Close() {
	h.scope.Close()
}

// set publishes fn's result unless the scope is closed.
func (h *holder[S]) set(fn func(S) S) bool {
	return h.scope.Publish(func() { h.state.Update(fn) })
}

// run publishes begin synchronously and then runs task in the scope. The
// update task returns is published when the task ends; a nil update
// publishes nothing.
func (h *holder[S]) run(begin func(S) S, task func(ctx context.Context) func(S) S) {
	if !h.set(begin) {
		return
	}
	h.scope.Launch(func(ctx context.Context) {
		apply := task(ctx)
		if apply == nil {
			return
		}
		h.set(apply)
	})
}
