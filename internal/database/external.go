package database

import (
	"context"
	"fmt"
	"time"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// DefaultPollInterval is how often PollExternalChanges looks for commits from
// other processes.
const DefaultPollInterval = 500 * time.Millisecond

// PollExternalChanges invalidates the book table whenever another connection
// commits, so live queries also follow writes made by other processes. It
// blocks until ctx is done. In-memory databases are private to this process
// and return immediately.
func (d *Database) PollExternalChanges(ctx context.Context, interval time.Duration) error {
	if d.path == MemoryPath {
		return nil
	}

	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}

	// data_version only changes for commits made through other connections,
	// so the same connection has to be used for every read.
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return fmt.Errorf("reserve connection: %w", err)
	}
	defer conn.Close()

	var last int64
	if err := conn.QueryRowContext(ctx, "PRAGMA data_version").Scan(&last); err != nil {
		return fmt.Errorf("read data version: %w", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		var version int64
		if err := conn.QueryRowContext(ctx, "PRAGMA data_version").Scan(&version); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read data version: %w", err)
		}
		if version != last {
			last = version
			d.log.Debug().Int64("data_version", version).Msg("external change detected")
			d.Tracker.Invalidate(entities.BookTable)
		}
	}
}
