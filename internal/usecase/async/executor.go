// Package async runs use case work off the caller's goroutine and hands back
// a Future that settles exactly once.
package async

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"order-service/internal/pkg/config"
	"order-service/internal/pkg/errs"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/semaphore"
)

const tracerName = "order-service/async"

type Future[T any] struct {
	once  sync.Once
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// settle reports whether this call decided the outcome.
func (f *Future[T]) settle(v T, err error) bool {
	settled := false
	f.once.Do(func() {
		f.value, f.err = v, err
		close(f.done)
		settled = true
	})
	return settled
}

// Completed returns a future that is already settled with v and err.
func Completed[T any](v T, err error) *Future[T] {
	f := newFuture[T]()
	f.settle(v, err)
	return f
}

func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future settles or ctx ends. A ctx that ends first
// yields errs.ErrCancelled without affecting the future itself.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, errs.Mark(errs.Wrap(ctx.Err(), "await"), errs.ErrCancelled)
	}
}

type Executor struct {
	sem    *semaphore.Weighted
	tracer trace.Tracer
	wg     sync.WaitGroup
}

func NewExecutor(cfg config.AsyncConfig, tp trace.TracerProvider) *Executor {
	limit := cfg.MaxConcurrent
	if limit < 1 {
		limit = 1
	}
	if tp == nil {
		tp = noop.NewTracerProvider()
	}
	return &Executor{
		sem:    semaphore.NewWeighted(limit),
		tracer: tp.Tracer(tracerName),
	}
}

// Submit starts task on its own goroutine and returns immediately.
//
// The task sees context.WithoutCancel(ctx): it keeps the caller's values and
// span but not its cancellation. When ctx ends first the future settles with
// errs.ErrCancelled and the eventual task result is dropped.
func Submit[T any](ctx context.Context, e *Executor, name string, task func(ctx context.Context) (T, error)) *Future[T] {
	f := newFuture[T]()
	var zero T

	stop := context.AfterFunc(ctx, func() {
		if f.settle(zero, errs.Mark(errs.Wrap(context.Cause(ctx), name), errs.ErrCancelled)) {
			slog.InfoContext(ctx, "caller left before async task settled", "task", name)
		}
	})

	taskCtx := context.WithoutCancel(ctx)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer stop()

		if err := e.sem.Acquire(ctx, 1); err != nil {
			f.settle(zero, errs.Mark(errs.Wrap(err, name), errs.ErrCancelled))
			return
		}
		defer e.sem.Release(1)

		spanCtx, span := e.tracer.Start(taskCtx, name)
		defer span.End()

		v, err := runTask(spanCtx, task)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		if !f.settle(v, err) {
			slog.DebugContext(spanCtx, "async task result discarded", "task", name)
		}
	}()

	return f
}

func runTask[T any](ctx context.Context, task func(ctx context.Context) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "async task panicked", "panic", fmt.Sprint(r))
			err = errs.Newf("async task panicked: %v", r)
		}
	}()
	return task(ctx)
}

// Wait blocks until every submitted task has returned or ctx ends.
func (e *Executor) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
