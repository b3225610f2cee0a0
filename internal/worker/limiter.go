package worker

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter paces outbound generative-model calls. Model quota is a
// first-order constraint: the pipeline already batches quote extraction
// into as few calls as possible, and the limiter spaces out what remains
// (chunk map calls in particular).
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a limiter allowing requestsPerSecond with the given
// burst. A non-positive rate disables limiting.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if requestsPerSecond <= 0 {
		return &Limiter{}
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

// Wait blocks until a call slot is available or ctx is done
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.limiter == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}
