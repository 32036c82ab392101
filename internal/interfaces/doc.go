// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Record Store
//
//   - viewmodel.BookStore: writes, point lookup and live listings (internal/viewmodel/viewmodel.go)
//   - mutations.Writer: Insert/Update/Delete only (internal/mutations/mutations.go)
//
// Implemented by books.Repository (SQLite through gorm) and memstore.Store
// (go-memdb). Both invalidate the shared live.Tracker after a write commits.
//
// ## Mutation Dispatch
//
//   - viewmodel.Dispatcher: where SaveBook/DeleteBook writes run (internal/viewmodel/dispatcher.go)
//
// viewmodel.ScopeDispatcher runs them on the view model's background scope,
// tasks.Dispatcher persists them to the backlite queue first.
//
// ## Main Loop
//
//   - mainloop.Poster: where FindBookByID callbacks run (internal/mainloop/loop.go)
//
// # Adding a New Record Store
//
// To back the inventory with another engine:
//
//  1. Create sub-package: internal/database/<engine>/
//
//  2. Implement the store, invalidating the tracker after each commit:
//
//     func (s *Store) Insert(ctx context.Context, book *entities.Book) error {
//         // write, then
//         s.tracker.Invalidate(entities.BookTable)
//     }
//
//     func (s *Store) WatchAll(ctx context.Context) <-chan live.Result[[]entities.Book] {
//         return live.Watch(ctx, s.tracker, s.ListAll, entities.BookTable)
//     }
//
//  3. Add a driver to config and a case to entrypoint.ProvideStore
//
//  4. Add compile-time check:
//
//     var _ viewmodel.BookStore = (*Store)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
