package resilience

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"order-service/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

type Call[T any] func(ctx context.Context) (T, error)

// Fallback receives the error that ended the execution and produces the
// value returned in its place.
type Fallback[T any] func(ctx context.Context, cause error) (T, error)

type BackoffKind string

const (
	BackoffFixed       BackoffKind = "fixed"
	BackoffExponential BackoffKind = "exponential"
)

type RetryConfig struct {
	MaxAttempts int
	Backoff     BackoffKind
	Wait        time.Duration
	Multiplier  float64
	MaxWait     time.Duration
}

type Config struct {
	Breaker BreakerConfig
	// per attempt; zero disables the deadline
	Timeout time.Duration
	Retry   RetryConfig
}

// Policy composes breaker, per-attempt timeout and retry around a call.
// One Policy exists per named operation; all policies sharing a name share
// the breaker held by the Registry.
type Policy[T any] struct {
	name    string
	breaker *CircuitBreaker
	cfg     Config
	logger  *slog.Logger
}

func NewPolicy[T any](reg *Registry, name string, cfg Config) *Policy[T] {
	if cfg.Retry.MaxAttempts < 1 {
		cfg.Retry.MaxAttempts = 1
	}
	return &Policy[T]{
		name:    name,
		breaker: reg.Breaker(name, cfg.Breaker),
		cfg:     cfg,
		logger:  reg.logger,
	}
}

func (p *Policy[T]) Name() string {
	return p.name
}

func (p *Policy[T]) Breaker() *CircuitBreaker {
	return p.breaker
}

// Execute runs call until it succeeds, the attempts are used up, the breaker
// rejects, or ctx ends. In every failing case fallback (when non-nil) decides
// the result; otherwise the last error is returned.
func (p *Policy[T]) Execute(ctx context.Context, call Call[T], fallback Fallback[T]) (T, error) {
	var result T
	attempt := 0

	operation := func() error {
		attempt++
		v, err := p.attempt(ctx, call)
		if err == nil {
			result = v
			return nil
		}
		if errors.Is(err, ErrCircuitOpen) || ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		p.logger.DebugContext(ctx, "retrying call",
			"policy", p.name,
			"attempt", attempt,
			"wait", wait.String(),
			"error", err.Error())
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(p.newBackOff(), uint64(p.cfg.Retry.MaxAttempts-1)),
		ctx,
	)
	err := backoff.RetryNotify(operation, b, notify)
	if err == nil {
		return result, nil
	}

	var zero T
	if fallback == nil {
		return zero, err
	}
	p.logger.WarnContext(ctx, "call failed, using fallback",
		"policy", p.name,
		"attempts", attempt,
		"breaker_state", p.breaker.State().String(),
		"error", err.Error())
	return fallback(ctx, err)
}

type attemptResult[T any] struct {
	value T
	err   error
}

func (p *Policy[T]) attempt(ctx context.Context, call Call[T]) (T, error) {
	var zero T

	ticket, err := p.breaker.Acquire()
	if err != nil {
		return zero, err
	}

	attemptCtx, cancel := ctx, context.CancelFunc(func() {})
	if p.cfg.Timeout > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
	}
	defer cancel()

	done := make(chan attemptResult[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- attemptResult[T]{err: errs.Newf("call panicked: %v", r)}
			}
		}()
		v, err := call(attemptCtx)
		done <- attemptResult[T]{value: v, err: err}
	}()

	select {
	case res := <-done:
		switch {
		case res.err == nil:
			p.breaker.OnSuccess(ticket)
			return res.value, nil
		case ctx.Err() != nil:
			p.breaker.Release(ticket)
			return zero, res.err
		case attemptCtx.Err() != nil:
			p.breaker.OnFailure(ticket)
			return zero, ErrTimeout
		default:
			p.breaker.OnFailure(ticket)
			return zero, res.err
		}
	case <-attemptCtx.Done():
		if ctx.Err() != nil {
			p.breaker.Release(ticket)
			return zero, ctx.Err()
		}
		p.breaker.OnFailure(ticket)
		return zero, ErrTimeout
	}
}

func (p *Policy[T]) newBackOff() backoff.BackOff {
	r := p.cfg.Retry
	if r.Backoff == BackoffExponential {
		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = r.Wait
		eb.Multiplier = r.Multiplier
		eb.MaxInterval = r.MaxWait
		eb.RandomizationFactor = 0
		eb.MaxElapsedTime = 0
		if eb.Multiplier < 1 {
			eb.Multiplier = 1
		}
		return eb
	}
	return backoff.NewConstantBackOff(r.Wait)
}
