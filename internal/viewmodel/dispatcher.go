package viewmodel

import (
	"context"

	"github.com/mrlokans/bookshelf/internal/mutations"
)

// Dispatcher takes a mutation off the caller's goroutine. Dispatch only
// reports whether the mutation was accepted; the outcome of the write is not
// delivered back.
type Dispatcher interface {
	Dispatch(ctx context.Context, m mutations.Mutation) error
}

// MutationErrorHandler is told about writes that failed after dispatch.
type MutationErrorHandler func(m mutations.Mutation, err error)

// ScopeDispatcher applies mutations on a Scope.
type ScopeDispatcher struct {
	scope   *Scope
	store   mutations.Writer
	onError MutationErrorHandler
}

// NewScopeDispatcher creates a dispatcher writing to store. onError may be nil.
func NewScopeDispatcher(scope *Scope, store mutations.Writer, onError MutationErrorHandler) *ScopeDispatcher {
	return &ScopeDispatcher{scope: scope, store: store, onError: onError}
}

func (d *ScopeDispatcher) Dispatch(_ context.Context, m mutations.Mutation) error {
	return d.scope.Launch(m.String(), func(ctx context.Context) error {
		err := m.Apply(ctx, d.store)
		if err != nil && d.onError != nil {
			d.onError(m, err)
		}
		return err
	})
}
