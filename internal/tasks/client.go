package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog"

	"github.com/mrlokans/bookshelf/internal/logger"
)

// Client wraps backlite to provide task queue functionality.
type Client struct {
	client *backlite.Client
	db     *sql.DB
	config Config
	log    zerolog.Logger

	mu      sync.RWMutex
	started bool
}

// TasksDBPath returns where the queue for the database at mainDBPath lives:
// alongside it, with a "-tasks" suffix.
func TasksDBPath(mainDBPath string) string {
	dir := filepath.Dir(mainDBPath)
	base := filepath.Base(mainDBPath)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	return filepath.Join(dir, name+"-tasks"+ext)
}

// NewClient opens the mutation queue stored next to the database at mainDBPath.
func NewClient(mainDBPath string, cfg Config, log zerolog.Logger) (*Client, error) {
	log = log.With().Str("component", "tasks").Logger()

	// The queue lives in its own file so a long claim never holds a lock on
	// the inventory database.
	db, err := sql.Open("sqlite3", TasksDBPath(mainDBPath)+"?_journal=WAL&_timeout=5000&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}

	// Workers, the dispatcher's poll and enqueues each hold a connection.
	db.SetMaxOpenConns(cfg.Workers + 2)
	db.SetMaxIdleConns(cfg.Workers + 1)
	db.SetConnMaxLifetime(time.Hour)

	client, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          logger.Backlite{Log: log},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create backlite client: %w", err)
	}

	if err := client.Install(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to install backlite schema: %w", err)
	}

	return &Client{
		client: client,
		db:     db,
		config: cfg,
		log:    log,
	}, nil
}

// Register adds queues to the client. Queues registered after Start are
// never processed.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.client.Register(q)
	}
}

// Start launches the workers and returns. Stop ends them.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	c.log.Info().Int("workers", c.config.Workers).Msg("task queue started")
	c.client.Start(ctx)
}

// Stop ends the workers once their current mutation is applied. Mutations
// still queued stay in the tasks database. Reports whether the workers
// finished before ctx expired.
func (c *Client) Stop(ctx context.Context) bool {
	c.mu.RLock()
	if !c.started {
		c.mu.RUnlock()
		return true
	}
	c.mu.RUnlock()

	c.log.Info().Msg("stopping task queue")
	success := c.client.Stop(ctx)
	if success {
		c.log.Info().Msg("task queue stopped gracefully")
	} else {
		c.log.Warn().Msg("task queue stopped with timeout, queued mutations run on next start")
	}
	return success
}

// Close closes the tasks database. Call Stop first.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Add starts an operation to enqueue one or more tasks.
func (c *Client) Add(tasks ...backlite.Task) *backlite.TaskAddOp {
	return c.client.Add(tasks...)
}

// pendingQuery counts tasks not yet finished. backlite moves a task out of
// backlite_tasks once it succeeds or runs out of attempts, so a claimed task
// still counts until its processor returns.
const pendingQuery = "SELECT COUNT(*) FROM backlite_tasks WHERE queue = ?"

// Pending returns how many tasks on queue have not finished yet.
func (c *Client) Pending(ctx context.Context, queue string) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, pendingQuery, queue).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending %s tasks: %w", queue, err)
	}
	return n, nil
}

// Drain blocks until queue has no pending tasks or ctx is done. Only
// meaningful while the client is started.
func (c *Client) Drain(ctx context.Context, queue string) error {
	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()

	for {
		n, err := c.Pending(ctx, queue)
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%d %s tasks still pending: %w", n, queue, ctx.Err())
		case <-ticker.C:
		}
	}
}

const drainPollInterval = 20 * time.Millisecond
