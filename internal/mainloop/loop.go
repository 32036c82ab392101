// Package mainloop provides the "UI thread" that view-model callbacks are
// delivered on: a single goroutine running posted functions one at a time.
package mainloop

import (
	"context"
	"sync"
)

// Poster schedules fn to run on the caller's UI context.
type Poster interface {
	Post(fn func())
}

// PosterFunc adapts a function to Poster.
type PosterFunc func(fn func())

func (f PosterFunc) Post(fn func()) {
	f(fn)
}

// Immediate runs posted functions inline on the posting goroutine.
var Immediate Poster = PosterFunc(func(fn func()) { fn() })

// Loop runs posted functions in order on the goroutine that called Run.
type Loop struct {
	queue chan func()
	done  chan struct{}
	once  sync.Once
}

// New creates a loop whose queue holds up to buffer pending functions before
// Post blocks.
func New(buffer int) *Loop {
	if buffer < 1 {
		buffer = 1
	}
	return &Loop{
		queue: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Post queues fn. After Stop it is dropped.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.done:
		return
	default:
	}

	select {
	case l.queue <- fn:
	case <-l.done:
	}
}

// Run executes queued functions until ctx is done or Stop is called.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-ctx.Done():
			return
		case <-l.done:
			return
		}
	}
}

// Stop ends Run and drops anything still queued. Safe to call more than once.
func (l *Loop) Stop() {
	l.once.Do(func() {
		close(l.done)
	})
}
