package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/karanveersp/utilfuncs/utils"
	"go.uber.org/zap"
)

// Policy configures KeepRetrying.
type Policy struct {
	// Match retries errors whose message contains it, ignoring case
	Match string
	// Target retries errors for which errors.Is(err, Target) holds
	Target error
	// Interval is the fixed pause between attempts
	Interval time.Duration
	// Logger receives a warning per retried failure; nil disables logging
	Logger *zap.Logger
	// Sleep waits between attempts; defaults to a timer that honors ctx
	Sleep func(ctx context.Context, d time.Duration) error
}

// Retryable reports whether err should be retried under p. With neither
// Match nor Target set every error is retryable, since every message
// contains the empty string.
func (p Policy) Retryable(err error) bool {
	if err == nil {
		return false
	}
	if p.Target != nil && errors.Is(err, p.Target) {
		return true
	}
	if p.Match != "" {
		return utils.IsSubstr(err.Error(), p.Match, true)
	}
	return p.Target == nil
}

// KeepRetrying calls fn until it returns a nil error or an error p does not
// classify as retryable, and returns that final result. Between attempts it
// sleeps p.Interval; if ctx is done during the sleep the context error is
// returned together with the last failure.
func KeepRetrying[T any](ctx context.Context, p Policy, fn func() (T, error)) (T, error) {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	for attempt := 1; ; attempt++ {
		result, err := fn()
		if err == nil || !p.Retryable(err) {
			return result, err
		}

		log.Warn("operation failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("interval", p.Interval),
			zap.Error(err))

		if serr := sleep(ctx, p.Interval); serr != nil {
			var zero T
			return zero, errors.Join(serr, err)
		}
	}
}

// Do is KeepRetrying for operations without a result.
func Do(ctx context.Context, p Policy, fn func() error) error {
	_, err := KeepRetrying(ctx, p, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
