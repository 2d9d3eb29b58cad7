package memory

import (
	"context"
	"math/rand/v2"
	"time"
)

// latency sleeps for a random duration in [0, bound). It returns early with the
// context error if ctx ends first.
func latency(ctx context.Context, bound time.Duration) error {
	if bound <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(rand.N(bound))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
