package entrypoint

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/do/v2"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/database/memstore"
	"github.com/mrlokans/bookshelf/internal/live"
	"github.com/mrlokans/bookshelf/internal/logger"
	"github.com/mrlokans/bookshelf/internal/mainloop"
	"github.com/mrlokans/bookshelf/internal/tasks"
	"github.com/mrlokans/bookshelf/internal/viewmodel"
)

// ProvideLogger builds the process logger from config. Logs go to stderr so
// command output on stdout stays clean.
func ProvideLogger(i do.Injector) (zerolog.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return logger.New(logger.Config{
		Writer: os.Stderr,
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	}), nil
}

// ProvideTracker provides the table invalidation registry shared by the store
// and its live queries.
func ProvideTracker(i do.Injector) (*live.Tracker, error) {
	log := do.MustInvoke[zerolog.Logger](i)
	return live.NewTracker(log), nil
}

// DatabaseHandle wraps the SQLite database with shutdown capability.
type DatabaseHandle struct {
	*database.Database
}

// Shutdown implements do.Shutdownable.
func (h *DatabaseHandle) Shutdown() error {
	return h.Close()
}

// ProvideDatabase opens the SQLite database and brings its schema up to date.
func ProvideDatabase(i do.Injector) (*DatabaseHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[zerolog.Logger](i)
	tracker := do.MustInvoke[*live.Tracker](i)

	db, err := database.NewDatabase(cfg.Database.Path,
		database.WithLogger(log),
		database.WithTracker(tracker),
	)
	if err != nil {
		return nil, err
	}

	return &DatabaseHandle{Database: db}, nil
}

// ProvideStore provides the Record Store selected by STORE_DRIVER.
func ProvideStore(i do.Injector) (viewmodel.BookStore, error) {
	cfg := do.MustInvoke[*config.Config](i)
	tracker := do.MustInvoke[*live.Tracker](i)

	switch cfg.Database.Driver {
	case config.StoreDriverMemory:
		store, err := memstore.New(tracker)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.StoreDriverSQLite:
		db := do.MustInvoke[*DatabaseHandle](i)
		return books.NewRepository(db.DB, tracker), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Database.Driver)
	}
}

// TaskClientHandle wraps the mutation queue with shutdown capability.
type TaskClientHandle struct {
	*tasks.Client
	timeout time.Duration
	log     zerolog.Logger
}

// Shutdown implements do.Shutdownable. Queued mutations get up to the
// shutdown timeout to be applied before the workers stop; whatever is left
// runs the next time the queue starts.
func (h *TaskClientHandle) Shutdown() error {
	drainCtx, cancelDrain := context.WithTimeout(context.Background(), h.timeout)
	defer cancelDrain()

	if err := h.Drain(drainCtx, tasks.MutationQueueName); err != nil {
		h.log.Warn().Err(err).Msg("queued mutations not applied before shutdown")
	}

	stopCtx, cancelStop := context.WithTimeout(context.Background(), h.timeout)
	defer cancelStop()

	h.Stop(stopCtx)
	return h.Close()
}

// ProvideTaskClient starts the durable mutation queue next to the database.
func ProvideTaskClient(i do.Injector) (*TaskClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[zerolog.Logger](i)
	store := do.MustInvoke[viewmodel.BookStore](i)

	client, err := tasks.NewClient(cfg.Database.Path, tasks.Config{
		Workers:         cfg.Tasks.Workers,
		ReleaseAfter:    cfg.Tasks.ReleaseAfter,
		CleanupInterval: cfg.Tasks.CleanupInterval,
	}, log)
	if err != nil {
		return nil, err
	}

	client.Register(tasks.NewMutationQueue(store, log))
	client.Start(context.Background())

	return &TaskClientHandle{Client: client, timeout: cfg.ShutdownTimeout(), log: log}, nil
}

// MainLoopHandle wraps the callback loop with shutdown capability.
type MainLoopHandle struct {
	*mainloop.Loop
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *MainLoopHandle) Shutdown() error {
	h.Stop()
	h.cancel()
	return nil
}

// ProvideMainLoop starts the loop FindBookByID callbacks are delivered on.
func ProvideMainLoop(i do.Injector) (*MainLoopHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	loop := mainloop.New(cfg.MainLoop.Buffer)
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)

	return &MainLoopHandle{Loop: loop, cancel: cancel}, nil
}

// ViewModelHandle wraps the view model with shutdown capability.
type ViewModelHandle struct {
	*viewmodel.BookViewModel
}

// Shutdown implements do.Shutdownable.
func (h *ViewModelHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideViewModel provides the view model. Writes go through the durable
// queue when TASKS_ENABLED is set and run in-process otherwise.
func ProvideViewModel(i do.Injector) (*ViewModelHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[zerolog.Logger](i)
	store := do.MustInvoke[viewmodel.BookStore](i)
	loop := do.MustInvoke[*MainLoopHandle](i)

	opts := []viewmodel.Option{
		viewmodel.WithLogger(log),
		viewmodel.WithPoster(loop.Loop),
	}

	if cfg.Tasks.Enabled {
		client := do.MustInvoke[*TaskClientHandle](i)
		opts = append(opts, viewmodel.WithDispatcher(tasks.NewDispatcher(client.Client)))
		log.Info().Int("workers", cfg.Tasks.Workers).Msg("writes go through the durable queue")
	}

	return &ViewModelHandle{BookViewModel: viewmodel.New(store, opts...)}, nil
}
