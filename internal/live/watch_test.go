package live

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan Result[T]) Result[T] {
	t.Helper()
	select {
	case res, ok := <-ch:
		require.True(t, ok, "stream closed unexpectedly")
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("no emission within timeout")
	}
	return Result[T]{}
}

func TestWatch_EmitsInitialSnapshotAndReruns(t *testing.T) {
	tracker := NewTracker(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int64
	stream := Watch(ctx, tracker, func(ctx context.Context) (int64, error) {
		return runs.Add(1), nil
	}, "book")

	assert.Equal(t, int64(1), receive(t, stream).Value)

	tracker.Invalidate("book")
	assert.Equal(t, int64(2), receive(t, stream).Value)

	tracker.Invalidate("book")
	assert.Equal(t, int64(3), receive(t, stream).Value)
}

func TestWatch_ErrorsDoNotEndTheStream(t *testing.T) {
	tracker := NewTracker(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errBoom := errors.New("boom")
	var fail atomic.Bool
	fail.Store(true)

	stream := Watch(ctx, tracker, func(ctx context.Context) ([]string, error) {
		if fail.Load() {
			return nil, errBoom
		}
		return []string{"Fiction"}, nil
	}, "book")

	res := receive(t, stream)
	assert.ErrorIs(t, res.Err, errBoom)

	fail.Store(false)
	tracker.Invalidate("book")

	res = receive(t, stream)
	require.NoError(t, res.Err)
	assert.Equal(t, []string{"Fiction"}, res.Value)
}

func TestWatch_CancelClosesStream(t *testing.T) {
	tracker := NewTracker(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	stream := Watch(ctx, tracker, func(ctx context.Context) (int, error) {
		return 1, nil
	}, "book")
	receive(t, stream)

	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-stream:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return tracker.ObserverCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatch_IgnoresOtherTables(t *testing.T) {
	tracker := NewTracker(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream := Watch(ctx, tracker, func(ctx context.Context) (int, error) {
		return 1, nil
	}, "book")
	receive(t, stream)

	tracker.Invalidate("settings")

	select {
	case <-stream:
		t.Fatal("unexpected emission for an unrelated table")
	case <-time.After(50 * time.Millisecond):
	}
}
