package sweep

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (c *countingSweeper) SweepExpired(context.Context) error {
	c.calls.Add(1)
	return c.err
}

func TestOnce(t *testing.T) {
	s := &countingSweeper{err: errors.New("locked")}
	Once(context.Background(), s, zerolog.Nop())
	assert.Equal(t, int32(1), s.calls.Load())
}

func TestStart_StopsOnCancel(t *testing.T) {
	s := &countingSweeper{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		Start(ctx, s, time.Millisecond, zerolog.Nop())
		close(done)
	}()

	assert.Eventually(t, func() bool { return s.calls.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}

type slowSweeper struct {
	started  chan struct{}
	once     atomic.Bool
	finished atomic.Bool
	calls    atomic.Int32
}

func (s *slowSweeper) SweepExpired(context.Context) error {
	s.calls.Add(1)
	if s.once.CompareAndSwap(false, true) {
		close(s.started)
	}
	time.Sleep(20 * time.Millisecond)
	s.finished.Store(true)
	return nil
}

func TestGo_StopWaitsForInFlightSweep(t *testing.T) {
	s := &slowSweeper{started: make(chan struct{})}
	stop := Go(context.Background(), s, time.Millisecond, zerolog.Nop())

	select {
	case <-s.started:
	case <-time.After(time.Second):
		t.Fatal("sweep never ran")
	}

	stop()
	assert.True(t, s.finished.Load(), "stop returned while a sweep was running")

	calls := s.calls.Load()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, calls, s.calls.Load(), "no sweeps after stop")
}
