package live

import "context"

// Result is one emission of a live query.
type Result[T any] struct {
	Value T
	Err   error
}

// QueryFunc loads a snapshot of the data a stream publishes.
type QueryFunc[T any] func(ctx context.Context) (T, error)

// Watch runs query once and again after every invalidation of tables, sending
// each snapshot on the returned channel. Query errors are sent as Result.Err
// and the stream keeps going. The channel is closed when ctx is done.
//
// The observation is registered before the first query runs, so a write that
// commits while the initial snapshot is being read still triggers a re-run.
func Watch[T any](ctx context.Context, t *Tracker, query QueryFunc[T], tables ...string) <-chan Result[T] {
	out := make(chan Result[T])
	obs := t.Observe(tables...)

	go func() {
		defer close(out)
		defer obs.Close()

		for {
			value, err := query(ctx)
			if ctx.Err() != nil {
				return
			}

			select {
			case out <- Result[T]{Value: value, Err: err}:
			case <-ctx.Done():
				return
			}

			select {
			case <-obs.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
