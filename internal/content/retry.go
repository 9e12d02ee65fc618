package content

import (
	"context"
	"errors"
	"time"

	"github.com/kidwise/api/internal/apperr"
	"go.uber.org/zap"
)

// RetryPolicy bounds retries of transient provider failures. The delay before
// retry n is BaseDelay*n.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 2, BaseDelay: 500 * time.Millisecond}
}

type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// withRetry runs fn until it succeeds, fails with anything other than
// ProviderUnavailable, or runs out of retries. A context cancelled during the
// backoff still ends as ProviderUnavailable.
func withRetry(ctx context.Context, p RetryPolicy, sleep sleepFunc, logger *zap.Logger, op string, fn func(context.Context) (string, error)) (string, error) {
	for attempt := 1; ; attempt++ {
		text, err := fn(ctx)
		if err == nil {
			return text, nil
		}
		if !errors.Is(err, apperr.ErrProviderUnavailable) || attempt > p.MaxRetries {
			return "", err
		}
		delay := p.BaseDelay * time.Duration(attempt)
		logger.Warn("AI provider unavailable, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
		if serr := sleep(ctx, delay); serr != nil {
			return "", apperr.ProviderUnavailable(serr)
		}
	}
}
