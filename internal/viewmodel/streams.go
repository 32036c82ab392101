package viewmodel

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mrlokans/bookshelf/internal/live"
)

// failSoft forwards a live stream to the UI. A failed query is logged and
// shown as an empty list; the subscription stays open so the next committed
// write can repopulate it.
func failSoft[T any](ctx context.Context, release context.CancelFunc, log zerolog.Logger, in <-chan live.Result[[]T]) <-chan []T {
	out := make(chan []T)

	go func() {
		defer release()
		defer close(out)

		for {
			var res live.Result[[]T]
			select {
			case r, ok := <-in:
				if !ok {
					return
				}
				res = r
			case <-ctx.Done():
				return
			}

			value := res.Value
			if res.Err != nil {
				log.Warn().Err(res.Err).Msg("query failed, showing empty list")
				value = []T{}
			}
			if value == nil {
				value = []T{}
			}

			select {
			case out <- value:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
