package tasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/database/memstore"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/live"
	"github.com/mrlokans/bookshelf/internal/mutations"
)

func TestTasksDBPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "bookshelf-tasks.db"), TasksDBPath(filepath.Join("data", "bookshelf.db")))
}

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	client, err := NewClient(dbPath, DefaultConfig(), zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, client)

	_, err = os.Stat(filepath.Join(tmpDir, "test-tasks.db"))
	assert.NoError(t, err, "tasks database should be created")

	assert.NoError(t, client.Close())
}

func TestClientStartStop(t *testing.T) {
	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), DefaultConfig(), zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	assert.True(t, client.Stop(stopCtx), "stop should succeed gracefully")
}

func TestStopWithoutStart(t *testing.T) {
	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), DefaultConfig(), zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	assert.True(t, client.Stop(context.Background()))
}

func TestDispatcher_AppliesQueuedMutations(t *testing.T) {
	store, err := memstore.New(live.NewTracker(zerolog.Nop()))
	require.NoError(t, err)

	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), DefaultConfig(), zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	client.Register(NewMutationQueue(store, zerolog.Nop()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	dispatcher := NewDispatcher(client)
	book := entities.Book{Name: "Dune", Category: "Fiction", Quantity: 5, Price: 29.90}
	require.NoError(t, dispatcher.Dispatch(ctx, mutations.ForSave(book)))

	require.Eventually(t, func() bool {
		found, err := store.FindByID(ctx, 1)
		return err == nil && found != nil && found.Name == "Dune"
	}, 5*time.Second, 20*time.Millisecond)

	book.ID = 1
	require.NoError(t, dispatcher.Dispatch(ctx, mutations.ForDelete(book)))

	require.Eventually(t, func() bool {
		found, err := store.FindByID(ctx, 1)
		return err == nil && found == nil
	}, 5*time.Second, 20*time.Millisecond)
}

func TestMutationProcessor_ReturnsStoreErrors(t *testing.T) {
	store, err := memstore.New(live.NewTracker(zerolog.Nop()))
	require.NoError(t, err)

	process := MutationProcessor(store, zerolog.Nop())
	err = process(context.Background(), MutationTask{Mutation: mutations.Mutation{
		Op:   mutations.OpInsert,
		Book: entities.Book{ID: 7, Name: "already saved"},
	}})
	assert.Error(t, err)

	assert.Error(t, MutationProcessor(nil, zerolog.Nop())(context.Background(), MutationTask{}))
}

func TestMutationTaskConfig(t *testing.T) {
	cfg := MutationTask{}.Config()

	assert.Equal(t, MutationQueueName, cfg.Name)
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	require.NotNil(t, cfg.Retention)
	assert.True(t, cfg.Retention.OnlyFailed)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 5*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
}

func TestClient_DrainWaitsForQueuedMutations(t *testing.T) {
	store, err := memstore.New(live.NewTracker(zerolog.Nop()))
	require.NoError(t, err)

	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), DefaultConfig(), zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	client.Register(NewMutationQueue(store, zerolog.Nop()))

	ctx := context.Background()
	dispatcher := NewDispatcher(client)
	for _, name := range []string{"Dune", "Emma", "Ulysses"} {
		require.NoError(t, dispatcher.Dispatch(ctx, mutations.ForSave(entities.Book{Name: name, Category: "Fiction"})))
	}

	pending, err := client.Pending(ctx, MutationQueueName)
	require.NoError(t, err)
	assert.Equal(t, 3, pending, "nothing runs before Start")

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	client.Start(runCtx)

	drainCtx, cancelDrain := context.WithTimeout(ctx, 5*time.Second)
	defer cancelDrain()
	require.NoError(t, client.Drain(drainCtx, MutationQueueName))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count, "every queued mutation is applied once Drain returns")
}

func TestClient_DrainGivesUpAtDeadline(t *testing.T) {
	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), DefaultConfig(), zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()

	client.Register(NewMutationQueue(nil, zerolog.Nop()))
	require.NoError(t, NewDispatcher(client).Dispatch(context.Background(), mutations.ForSave(entities.Book{Name: "Dune"})))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = client.Drain(ctx, MutationQueueName)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "a queue that is not started never drains")
}
