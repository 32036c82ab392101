package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog"

	"github.com/mrlokans/bookshelf/internal/mutations"
)

// MutationQueueName is the backlite queue holding book writes.
const MutationQueueName = "book_mutation"

// MutationTask carries one book write through the durable queue.
type MutationTask struct {
	Mutation mutations.Mutation `json:"mutation"`
}

// Config returns the queue configuration for mutation tasks. A failed write is
// not retried; it is kept, with its payload, so it can be inspected.
func (t MutationTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        MutationQueueName,
		MaxAttempts: 1,
		Backoff:     time.Second,
		Timeout:     30 * time.Second,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: true,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// MutationProcessor applies queued mutations to store.
func MutationProcessor(store mutations.Writer, log zerolog.Logger) backlite.QueueProcessor[MutationTask] {
	return func(ctx context.Context, task MutationTask) error {
		if store == nil {
			return fmt.Errorf("book store not configured")
		}

		if err := task.Mutation.Apply(ctx, store); err != nil {
			return fmt.Errorf("%s: %w", task.Mutation, err)
		}

		log.Debug().Stringer("mutation", task.Mutation).Msg("mutation applied")
		return nil
	}
}

// NewMutationQueue creates a backlite queue for mutation tasks.
func NewMutationQueue(store mutations.Writer, log zerolog.Logger) backlite.Queue {
	return backlite.NewQueue(MutationProcessor(store, log))
}

// Dispatcher hands view-model mutations to the durable queue.
type Dispatcher struct {
	client *Client
}

func NewDispatcher(client *Client) *Dispatcher {
	return &Dispatcher{client: client}
}

// Dispatch persists m in the queue; a worker applies it later.
func (d *Dispatcher) Dispatch(ctx context.Context, m mutations.Mutation) error {
	if _, err := d.client.Add(MutationTask{Mutation: m}).Ctx(ctx).Save(); err != nil {
		return fmt.Errorf("enqueue %s: %w", m, err)
	}
	return nil
}
