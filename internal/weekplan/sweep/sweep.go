// Package sweep removes expired KV entries.
package sweep

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper deletes expired entries.
type Sweeper interface {
	SweepExpired(ctx context.Context) error
}

// Once runs a single sweep. Failures are logged; expired entries are also
// filtered lazily on read, so a missed sweep only costs disk space.
func Once(ctx context.Context, s Sweeper, log zerolog.Logger) {
	if err := s.SweepExpired(ctx); err != nil {
		log.Debug().Err(err).Msg("kv sweep failed")
	}
}

// Start sweeps every interval until ctx is cancelled. It blocks, so
// long-running commands call it in a goroutine.
func Start(ctx context.Context, s Sweeper, interval time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			Once(ctx, s, log)
		}
	}
}

// Go runs Start in a goroutine. The returned stop func cancels the loop and
// waits for an in-flight sweep to finish.
func Go(ctx context.Context, s Sweeper, interval time.Duration, log zerolog.Logger) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		Start(ctx, s, interval, log)
	}()

	return func() {
		cancel()
		<-done
	}
}
