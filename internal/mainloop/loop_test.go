package mainloop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoop_RunsPostedFunctionsInOrder(t *testing.T) {
	loop := New(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	got := make(chan int, 3)
	for i := 1; i <= 3; i++ {
		i := i
		loop.Post(func() { got <- i })
	}

	for want := 1; want <= 3; want++ {
		select {
		case v := <-got:
			assert.Equal(t, want, v)
		case <-time.After(time.Second):
			t.Fatal("posted function did not run")
		}
	}
}

func TestLoop_StopDropsLatePosts(t *testing.T) {
	loop := New(1)
	loop.Stop()
	loop.Stop()

	done := make(chan struct{})
	go func() {
		loop.Post(func() {})
		loop.Post(func() {})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Post blocked after Stop")
	}

	finished := make(chan struct{})
	go func() {
		loop.Run(context.Background())
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}
}

func TestImmediate(t *testing.T) {
	ran := false
	Immediate.Post(func() { ran = true })
	assert.True(t, ran)
}
