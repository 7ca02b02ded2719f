package routing

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/augleao/frontend-dev-sub000/internal/core/domain"
	"github.com/augleao/frontend-dev-sub000/internal/infra/ai/provider"
)

// MaxJitter bounds the random delay added to every backoff.
const MaxJitter = 200 * time.Millisecond

// Retrier retries transient provider failures with exponential backoff.
// The zero value is usable.
type Retrier struct {
	// Sleep waits for d or until ctx is done.
	Sleep func(ctx context.Context, d time.Duration) error

	// Jitter returns a value in [0, MaxJitter).
	Jitter func() time.Duration
}

// NewRetrier returns a Retrier using wall-clock sleep and random jitter.
func NewRetrier() *Retrier {
	return &Retrier{Sleep: sleepContext, Jitter: randomJitter}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func randomJitter() time.Duration {
	return rand.N(MaxJitter)
}

// Backoff returns the delay before retry n (1-based):
// base * 2^(n-1) + jitter.
func (r *Retrier) Backoff(policy domain.RetryPolicy, n int) time.Duration {
	if n < 1 {
		n = 1
	}
	delay := policy.BaseDelay << (n - 1)

	jitter := randomJitter
	if r != nil && r.Jitter != nil {
		jitter = r.Jitter
	}
	j := jitter()
	if j < 0 {
		j = 0
	}
	if j >= MaxJitter {
		j = MaxJitter - 1
	}
	return delay + j
}

func (r *Retrier) sleep(ctx context.Context, d time.Duration) error {
	if r != nil && r.Sleep != nil {
		return r.Sleep(ctx, d)
	}
	return sleepContext(ctx, d)
}

// Execute calls op, retrying up to policy.Retries times while the error
// classifies as transient. After exhaustion the last error is returned
// unchanged. Permanent errors return immediately.
func Execute[T any](
	ctx context.Context,
	r *Retrier,
	policy domain.RetryPolicy,
	op func(ctx context.Context) (T, error),
) (T, error) {
	var zero T
	retries := max(policy.Retries, 0)

	for attempt := 0; ; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		if provider.Classify(err) != provider.ClassTransient || attempt >= retries {
			return zero, err
		}

		if serr := r.sleep(ctx, r.Backoff(policy, attempt+1)); serr != nil {
			return zero, serr
		}
	}
}
