package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/database/migrations"
	"github.com/mrlokans/bookshelf/internal/live"
	"github.com/mrlokans/bookshelf/internal/logger"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// CurrentSchemaVersion is the schema version applied by NewDatabase.
const CurrentSchemaVersion uint = 1

// Database is the process-wide handle on the inventory store.
type Database struct {
	DB      *gorm.DB
	Tracker *live.Tracker

	log  zerolog.Logger
	path string
}

// Option customises NewDatabase.
type Option func(*options)

type options struct {
	log     zerolog.Logger
	tracker *live.Tracker
}

// WithLogger routes database and gorm logs to log.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithTracker shares an existing invalidation tracker instead of creating one.
func WithTracker(t *live.Tracker) Option {
	return func(o *options) {
		o.tracker = t
	}
}

// NewDatabase opens (creating if needed) the SQLite database at dbPath,
// applies the schema and installs the invalidation hooks.
func NewDatabase(dbPath string, opts ...Option) (*Database, error) {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.tracker == nil {
		o.tracker = live.NewTracker(o.log)
	}

	db, err := gorm.Open(sqlite.Open(dsn(dbPath)), &gorm.Config{
		Logger: logger.Gorm(o.log),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	if dbPath == MemoryPath {
		// every new connection to :memory: would be a separate, empty database
		sqlDB.SetMaxOpenConns(1)
	}

	database := &Database{DB: db, Tracker: o.tracker, log: o.log, path: dbPath}

	if err := database.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := live.RegisterCallbacks(db, o.tracker); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to register invalidation hooks: %w", err)
	}

	o.log.Info().Str("path", dbPath).Msg("database initialized")

	return database, nil
}

func dsn(dbPath string) string {
	if dbPath == MemoryPath {
		return dbPath
	}
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_journal_mode=WAL&_busy_timeout=5000"
}

func (d *Database) migrate() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}

	driver, err := migratesqlite.WithInstance(sqlDB, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("open migration driver: %w", err)
	}

	// m.Close would close sqlDB through the driver, so the instance is left open
	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("schema version %d is dirty", version)
	}

	d.log.Debug().Uint("version", version).Msg("schema up to date")
	return nil
}

// SchemaVersion returns the migration version recorded in the database.
func (d *Database) SchemaVersion() (uint, error) {
	var version uint
	err := d.DB.Raw("SELECT version FROM schema_migrations LIMIT 1").Scan(&version).Error
	return version, err
}

// Ping checks that the database is reachable.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
