// Package live turns one-shot store queries into streams that re-run after
// every committed write to the tables they read.
//
// Stores call Tracker.Invalidate once a write has committed. Watch observes the
// tables a query depends on and re-runs it whenever they are invalidated:
//
//	tracker := live.NewTracker(log)
//	books := live.Watch(ctx, tracker, repo.ListAll, entities.BookTable)
//	for res := range books {
//		...
//	}
package live

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Tracker keeps the set of active observers and signals them when a table
// they depend on changes.
type Tracker struct {
	log zerolog.Logger

	mu        sync.RWMutex
	observers map[string]*Observation
}

// NewTracker creates an empty tracker.
func NewTracker(log zerolog.Logger) *Tracker {
	return &Tracker{
		log:       log.With().Str("component", "live").Logger(),
		observers: make(map[string]*Observation),
	}
}

// Observation is a registration on a Tracker. C receives a value after one or
// more invalidations of the observed tables; signals are coalesced, so a slow
// reader sees a single pending signal rather than a backlog.
type Observation struct {
	C <-chan struct{}

	id      string
	tables  map[string]struct{}
	signal  chan struct{}
	tracker *Tracker
	once    sync.Once
}

// Observe registers interest in the given tables.
func (t *Tracker) Observe(tables ...string) *Observation {
	signal := make(chan struct{}, 1)
	obs := &Observation{
		C:       signal,
		id:      uuid.NewString(),
		tables:  make(map[string]struct{}, len(tables)),
		signal:  signal,
		tracker: t,
	}
	for _, table := range tables {
		obs.tables[table] = struct{}{}
	}

	t.mu.Lock()
	t.observers[obs.id] = obs
	count := len(t.observers)
	t.mu.Unlock()

	t.log.Debug().Str("observer_id", obs.id).Strs("tables", tables).Int("observers", count).Msg("observer added")
	return obs
}

// Close removes the observation from its tracker. Safe to call more than once.
func (o *Observation) Close() {
	o.once.Do(func() {
		o.tracker.mu.Lock()
		delete(o.tracker.observers, o.id)
		count := len(o.tracker.observers)
		o.tracker.mu.Unlock()

		o.tracker.log.Debug().Str("observer_id", o.id).Int("observers", count).Msg("observer removed")
	})
}

// Invalidate signals every observer of the given tables. It never blocks.
func (t *Tracker) Invalidate(tables ...string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var signalled int
	for _, obs := range t.observers {
		if !obs.observes(tables) {
			continue
		}
		select {
		case obs.signal <- struct{}{}:
		default:
			// a signal is already pending
		}
		signalled++
	}

	t.log.Debug().Strs("tables", tables).Int("signalled", signalled).Msg("tables invalidated")
}

// ObserverCount returns the number of registered observers.
func (t *Tracker) ObserverCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.observers)
}

func (o *Observation) observes(tables []string) bool {
	for _, table := range tables {
		if _, ok := o.tables[table]; ok {
			return true
		}
	}
	return false
}
