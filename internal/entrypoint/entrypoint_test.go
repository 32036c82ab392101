package entrypoint

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/entities"
)

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	return &config.Config{
		Global:   config.Global{ShutdownTimeoutInSeconds: 2},
		Database: config.Database{Path: filepath.Join(t.TempDir(), "bookshelf.db"), Driver: driver},
		Log:      config.Log{Level: "error", Format: "json"},
		MainLoop: config.MainLoop{Buffer: 4},
		Tasks: config.Tasks{
			Workers:         1,
			ReleaseAfter:    time.Minute,
			CleanupInterval: time.Hour,
		},
	}
}

func saveAndFind(t *testing.T, app *App) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	books := app.ViewModel.GetAllBooks(ctx)

	app.ViewModel.SaveBook(entities.Book{Name: "Dune", Category: "Fiction", Quantity: 5, Price: 29.90})

	var saved []entities.Book
	require.Eventually(t, func() bool {
		select {
		case saved = <-books:
		default:
		}
		return len(saved) == 1
	}, 5*time.Second, 10*time.Millisecond)

	found := make(chan *entities.Book, 1)
	app.ViewModel.FindBookByID(saved[0].ID, func(b *entities.Book) { found <- b })

	select {
	case b := <-found:
		require.NotNil(t, b)
		assert.Equal(t, "Dune", b.Name)
	case <-time.After(5 * time.Second):
		t.Fatal("lookup was not delivered on the main loop")
	}
}

func TestOpen_Memory(t *testing.T) {
	app, err := Open(testConfig(t, config.StoreDriverMemory))
	require.NoError(t, err)
	defer app.Close()

	saveAndFind(t, app)
}

func TestOpen_SQLite(t *testing.T) {
	cfg := testConfig(t, config.StoreDriverSQLite)

	app, err := Open(cfg)
	require.NoError(t, err)
	saveAndFind(t, app)
	app.Close()

	reopened, err := Open(cfg)
	require.NoError(t, err)
	defer reopened.Close()

	book, err := reopened.Store.FindByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, book, "book should survive a restart")
	assert.Equal(t, "Dune", book.Name)
}

func TestOpen_DurableQueue(t *testing.T) {
	cfg := testConfig(t, config.StoreDriverSQLite)
	cfg.Tasks.Enabled = true

	app, err := Open(cfg)
	require.NoError(t, err)
	defer app.Close()

	saveAndFind(t, app)
}

func TestOpen_InvalidConfig(t *testing.T) {
	cfg := testConfig(t, "postgres")

	_, err := Open(cfg)
	assert.Error(t, err)
}

func TestClose_AppliesQueuedWrites(t *testing.T) {
	cfg := testConfig(t, config.StoreDriverSQLite)
	cfg.Global.ShutdownTimeoutInSeconds = 10
	cfg.Tasks.Enabled = true

	app, err := Open(cfg)
	require.NoError(t, err)
	app.ViewModel.SaveBook(entities.Book{Name: "Dune", Category: "Fiction", Quantity: 5, Price: 29.90})
	app.Close()

	cfg.Tasks.Enabled = false
	reopened, err := Open(cfg)
	require.NoError(t, err)
	defer reopened.Close()

	book, err := reopened.Store.FindByID(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, book, "a queued save is applied before Close returns")
	assert.Equal(t, "Dune", book.Name)
}
