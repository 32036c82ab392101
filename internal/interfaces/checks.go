package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/database/memstore"
	"github.com/mrlokans/bookshelf/internal/mainloop"
	"github.com/mrlokans/bookshelf/internal/mutations"
	"github.com/mrlokans/bookshelf/internal/tasks"
	"github.com/mrlokans/bookshelf/internal/viewmodel"
)

// =============================================================================
// Record Store
// =============================================================================

// BookStore implementations
var _ viewmodel.BookStore = (*books.Repository)(nil)
var _ viewmodel.BookStore = (*memstore.Store)(nil)

// Writer implementations
var _ mutations.Writer = (*books.Repository)(nil)
var _ mutations.Writer = (*memstore.Store)(nil)

// =============================================================================
// Mutation Dispatch
// =============================================================================

// Dispatcher implementations
var _ viewmodel.Dispatcher = (*viewmodel.ScopeDispatcher)(nil)
var _ viewmodel.Dispatcher = (*tasks.Dispatcher)(nil)

// =============================================================================
// Main Loop
// =============================================================================

// Poster implementations
var _ mainloop.Poster = (*mainloop.Loop)(nil)
var _ mainloop.Poster = mainloop.PosterFunc(nil)
