package viewmodel

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// ErrClosed is returned when work is launched on a closed scope.
var ErrClosed = errors.New("view model is closed")

// Scope is the background execution context of a view model. Launched work
// runs on its own goroutine and is never cancelled once started; closing the
// scope waits for it and then cancels the scope's context, which ends every
// stream bound to the view model.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	log    zerolog.Logger

	mu     sync.Mutex
	idle   *sync.Cond
	active int
	closed bool
}

// NewScope creates an open scope.
func NewScope(log zerolog.Logger) *Scope {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scope{ctx: ctx, cancel: cancel, log: log}
	s.idle = sync.NewCond(&s.mu)
	return s
}

// Context is done once the scope is closed.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Launch runs fn in the background. An error returned by fn is logged; it is
// not retried and not reported anywhere else.
func (s *Scope) Launch(name string, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.active++
	s.mu.Unlock()

	go func() {
		defer s.finish()
		if err := fn(s.ctx); err != nil {
			s.log.Error().Err(err).Str("task", name).Msg("background task failed")
		}
	}()
	return nil
}

func (s *Scope) finish() {
	s.mu.Lock()
	s.active--
	if s.active == 0 {
		s.idle.Broadcast()
	}
	s.mu.Unlock()
}

// Wait blocks until every launched function has returned.
func (s *Scope) Wait() {
	s.mu.Lock()
	for s.active > 0 {
		s.idle.Wait()
	}
	s.mu.Unlock()
}

// Close rejects new work, waits for in-flight work and cancels the context.
func (s *Scope) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for s.active > 0 {
		s.idle.Wait()
	}
	s.mu.Unlock()

	s.cancel()
}
