// Package viewmodel is the boundary between the UI and the Record Store. It
// moves every store call off the UI goroutine, publishes the live listings and
// delivers point lookups back on the UI's main loop.
package viewmodel

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/live"
	"github.com/mrlokans/bookshelf/internal/mainloop"
	"github.com/mrlokans/bookshelf/internal/mutations"
)

// BookStore is the Record Store as seen by the view model.
type BookStore interface {
	mutations.Writer
	FindByID(ctx context.Context, id int64) (*entities.Book, error)
	WatchAll(ctx context.Context) <-chan live.Result[[]entities.Book]
	WatchByCategory(ctx context.Context, category string) <-chan live.Result[[]entities.Book]
	WatchCategories(ctx context.Context) <-chan live.Result[[]string]
}

// BookViewModel exposes the inventory to the UI.
type BookViewModel struct {
	store      BookStore
	scope      *Scope
	dispatcher Dispatcher
	main       mainloop.Poster
	log        zerolog.Logger
	onError    MutationErrorHandler
}

type Option func(*BookViewModel)

// WithDispatcher replaces the in-process dispatcher, e.g. with a durable queue.
func WithDispatcher(d Dispatcher) Option {
	return func(vm *BookViewModel) {
		vm.dispatcher = d
	}
}

// WithPoster sets where FindBookByID callbacks run. Defaults to
// mainloop.Immediate.
func WithPoster(p mainloop.Poster) Option {
	return func(vm *BookViewModel) {
		vm.main = p
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(vm *BookViewModel) {
		vm.log = log
	}
}

// WithMutationErrorHandler is called when a dispatched write fails or cannot
// be dispatched at all.
func WithMutationErrorHandler(fn MutationErrorHandler) Option {
	return func(vm *BookViewModel) {
		vm.onError = fn
	}
}

// New creates a view model over store.
func New(store BookStore, opts ...Option) *BookViewModel {
	vm := &BookViewModel{
		store: store,
		main:  mainloop.Immediate,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(vm)
	}

	vm.log = vm.log.With().Str("component", "viewmodel").Logger()
	vm.scope = NewScope(vm.log)
	if vm.dispatcher == nil {
		vm.dispatcher = NewScopeDispatcher(vm.scope, store, vm.onError)
	}
	return vm
}

// SaveBook inserts book when it has no id yet and replaces the stored record
// otherwise. It returns immediately; the change shows up on the listings.
func (vm *BookViewModel) SaveBook(book entities.Book) {
	vm.dispatch(mutations.ForSave(book))
}

// DeleteBook removes book. It returns immediately.
func (vm *BookViewModel) DeleteBook(book entities.Book) {
	vm.dispatch(mutations.ForDelete(book))
}

func (vm *BookViewModel) dispatch(m mutations.Mutation) {
	if err := vm.dispatcher.Dispatch(vm.scope.Context(), m); err != nil {
		vm.log.Error().Err(err).Stringer("mutation", m).Msg("mutation not dispatched")
		if vm.onError != nil {
			vm.onError(m, err)
		}
	}
}

// FindBookByID looks the book up in the background and calls onResult exactly
// once on the main loop, with nil when there is no such book or the lookup
// failed. The lookup cannot be cancelled, so the callback may arrive after the
// UI has moved on; callers should check the id is still the one they want.
func (vm *BookViewModel) FindBookByID(id int64, onResult func(*entities.Book)) {
	err := vm.scope.Launch("find book", func(ctx context.Context) error {
		book, err := vm.store.FindByID(ctx, id)
		if err != nil {
			vm.log.Error().Err(err).Int64("book_id", id).Msg("lookup failed")
			book = nil
		}
		vm.main.Post(func() { onResult(book) })
		return nil
	})
	if err != nil {
		vm.log.Warn().Err(err).Int64("book_id", id).Msg("lookup not started")
		vm.main.Post(func() { onResult(nil) })
	}
}

// GetAllBooks streams every book, newest first, until ctx is done or the view
// model is closed.
func (vm *BookViewModel) GetAllBooks(ctx context.Context) <-chan []entities.Book {
	ctx, release := vm.bind(ctx)
	return failSoft(ctx, release, vm.streamLog("all_books"), vm.store.WatchAll(ctx))
}

// GetBooksByCategory streams the books in category.
func (vm *BookViewModel) GetBooksByCategory(ctx context.Context, category string) <-chan []entities.Book {
	ctx, release := vm.bind(ctx)
	return failSoft(ctx, release, vm.streamLog("books_by_category"), vm.store.WatchByCategory(ctx, category))
}

// GetAllCategories streams the distinct categories in use.
func (vm *BookViewModel) GetAllCategories(ctx context.Context) <-chan []string {
	ctx, release := vm.bind(ctx)
	return failSoft(ctx, release, vm.streamLog("categories"), vm.store.WatchCategories(ctx))
}

// Wait blocks until background work started so far has finished.
func (vm *BookViewModel) Wait() {
	vm.scope.Wait()
}

// Close waits for in-flight work, then ends every stream.
func (vm *BookViewModel) Close() {
	vm.scope.Close()
}

// bind derives a context that also ends when the view model is closed.
func (vm *BookViewModel) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(vm.scope.Context(), cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (vm *BookViewModel) streamLog(name string) zerolog.Logger {
	return vm.log.With().Str("stream", name).Logger()
}
