// Package entrypoint wires the application's long-lived handles together and
// tears them down again in dependency order.
package entrypoint

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/samber/do/v2"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/viewmodel"
)

// NewContainer creates the DI container with every provider registered.
func NewContainer(cfg *config.Config) *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.ProvideValue(injector, cfg)
	do.Provide(injector, ProvideLogger)

	// Record Store
	do.Provide(injector, ProvideTracker)
	do.Provide(injector, ProvideDatabase)
	do.Provide(injector, ProvideStore)

	// Background execution
	do.Provide(injector, ProvideTaskClient)
	do.Provide(injector, ProvideMainLoop)

	// View model
	do.Provide(injector, ProvideViewModel)

	return injector
}

// App is a running instance: the view model, the store beneath it and the
// container that owns both.
type App struct {
	ViewModel *viewmodel.BookViewModel
	Store     viewmodel.BookStore
	Log       zerolog.Logger

	cfg      *config.Config
	injector *do.RootScope
}

// Open validates cfg and starts everything the view model needs.
func Open(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	injector := NewContainer(cfg)

	vm, err := do.Invoke[*ViewModelHandle](injector)
	if err != nil {
		injector.Shutdown()
		return nil, fmt.Errorf("failed to start: %w", err)
	}

	return &App{
		ViewModel: vm.BookViewModel,
		Store:     do.MustInvoke[viewmodel.BookStore](injector),
		Log:       do.MustInvoke[zerolog.Logger](injector),
		cfg:       cfg,
		injector:  injector,
	}, nil
}

// FollowExternalWrites makes the live listings pick up writes committed by
// other processes until ctx is done. With the memory driver there are none
// and it returns at once.
func (a *App) FollowExternalWrites(ctx context.Context) error {
	if a.cfg.Database.Driver != config.StoreDriverSQLite {
		return nil
	}

	db, err := do.Invoke[*DatabaseHandle](a.injector)
	if err != nil {
		return err
	}
	return db.PollExternalChanges(ctx, database.DefaultPollInterval)
}

// Close waits for in-flight writes, then shuts every handle down, view model
// first and database last. With the durable queue enabled, mutations already
// queued are applied before the queue stops, bounded by the shutdown timeout.
func (a *App) Close() {
	a.ViewModel.Wait()
	a.injector.Shutdown()
	a.Log.Debug().Msg("shutdown complete")
}
