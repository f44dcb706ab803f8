package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"order-service/internal/pkg/config"
	"order-service/internal/usecase/commands"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

var (
	errEmitterStopped = errors.New("emitter stopped")
	errBufferFull     = errors.New("buffer full")
)

const (
	spoolTimeout   = 2 * time.Second
	maxDrainPerRun = 100
)

// envelope is the spooled form of an event; Carrier holds the trace headers
// of the request that produced it.
type envelope struct {
	Event   commands.OrderPlacedEvent `json:"event"`
	Carrier map[string]string         `json:"carrier,omitempty"`
}

type queued struct {
	ctx   context.Context
	event commands.OrderPlacedEvent
}

// KafkaEmitter publishes OrderPlacedEvents without blocking the caller. A
// single worker writes to Kafka; events that cannot be written are parked in
// the spool (when configured) and retried on every drain tick.
type KafkaEmitter struct {
	producer      Producer
	spool         Spool
	writeTimeout  time.Duration
	drainInterval time.Duration

	queue chan queued
	stop  chan struct{}
	done  chan struct{}
	// mu orders enqueues before close(stop) so the final drain sees them.
	mu      sync.RWMutex
	closed  bool
	started atomic.Bool
}

var _ commands.EventPublisher = (*KafkaEmitter)(nil)

// NewKafkaEmitter accepts a nil spool; undeliverable events are then logged and dropped.
func NewKafkaEmitter(producer Producer, spool Spool, kcfg config.KafkaConfig, rcfg config.RedisConfig) *KafkaEmitter {
	size := kcfg.BufferSize
	if size < 1 {
		size = 1
	}
	return &KafkaEmitter{
		producer:      producer,
		spool:         spool,
		writeTimeout:  kcfg.WriteTimeout,
		drainInterval: rcfg.DrainInterval,
		queue:         make(chan queued, size),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}
}

func (e *KafkaEmitter) Publish(ctx context.Context, event commands.OrderPlacedEvent) {
	item := queued{ctx: context.WithoutCancel(ctx), event: event}
	if cause := e.enqueue(item); cause != nil {
		slog.WarnContext(ctx, "event not queued, spooling event", "order_number", event.OrderNumber, "cause", cause.Error())
		e.park(item, cause)
	}
}

func (e *KafkaEmitter) enqueue(item queued) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return errEmitterStopped
	}
	select {
	case e.queue <- item:
		return nil
	default:
		return errBufferFull
	}
}

func (e *KafkaEmitter) Start(_ context.Context) error {
	if !e.started.CompareAndSwap(false, true) {
		return nil
	}
	go e.run()
	return nil
}

// Stop flushes what is still buffered, then waits for the worker or ctx.
func (e *KafkaEmitter) Stop(ctx context.Context) error {
	e.mu.Lock()
	if !e.closed {
		e.closed = true
		close(e.stop)
	}
	e.mu.Unlock()
	if !e.started.Load() {
		e.sweep()
		return nil
	}
	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event emitter did not stop: %w", ctx.Err())
	}
}

func (e *KafkaEmitter) run() {
	defer close(e.done)

	var tick <-chan time.Time
	if e.spool != nil && e.drainInterval > 0 {
		ticker := time.NewTicker(e.drainInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case item := <-e.queue:
			e.deliver(item)
		case <-tick:
			e.drainSpool()
		case <-e.stop:
			for {
				select {
				case item := <-e.queue:
					e.deliver(item)
				default:
					return
				}
			}
		}
	}
}

// sweep parks whatever was buffered by an emitter that never started.
func (e *KafkaEmitter) sweep() {
	for {
		select {
		case item := <-e.queue:
			e.park(item, errEmitterStopped)
		default:
			return
		}
	}
}

func (e *KafkaEmitter) deliver(item queued) {
	if err := e.write(item.ctx, item.event); err != nil {
		slog.ErrorContext(item.ctx, "failed to publish order placed event",
			"order_number", item.event.OrderNumber,
			"error", err.Error())
		e.park(item, err)
		return
	}
	slog.DebugContext(item.ctx, "order placed event published", "order_number", item.event.OrderNumber)
}

func (e *KafkaEmitter) write(ctx context.Context, event commands.OrderPlacedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}
	if e.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.writeTimeout)
		defer cancel()
	}
	return e.producer.WriteMessage(ctx, kafka.Message{
		Key:   []byte(event.OrderNumber),
		Value: payload,
	})
}

func (e *KafkaEmitter) park(item queued, cause error) {
	if e.spool == nil {
		slog.ErrorContext(item.ctx, "order placed event dropped",
			"order_number", item.event.OrderNumber,
			"cause", cause.Error())
		return
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(item.ctx, carrier)
	payload, err := json.Marshal(envelope{Event: item.event, Carrier: carrier})
	if err != nil {
		slog.ErrorContext(item.ctx, "failed to serialize spooled event", "order_number", item.event.OrderNumber, "error", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(item.ctx, spoolTimeout)
	defer cancel()
	if err := e.spool.Push(ctx, payload); err != nil {
		slog.ErrorContext(item.ctx, "order placed event dropped, spool unavailable",
			"order_number", item.event.OrderNumber,
			"cause", cause.Error(),
			"error", err.Error())
	}
}

// drainSpool replays parked events until the spool is empty or a write fails.
func (e *KafkaEmitter) drainSpool() {
	for range maxDrainPerRun {
		popCtx, cancel := context.WithTimeout(context.Background(), spoolTimeout)
		payload, err := e.spool.Pop(popCtx)
		cancel()
		if errors.Is(err, ErrSpoolEmpty) {
			return
		}
		if err != nil {
			slog.Warn("failed to read event spool", "error", err.Error())
			return
		}

		var env envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			slog.Error("discarding malformed spooled event", "error", err.Error())
			continue
		}

		ctx := otel.GetTextMapPropagator().Extract(context.Background(), propagation.MapCarrier(env.Carrier))
		if err := e.write(ctx, env.Event); err != nil {
			slog.WarnContext(ctx, "spooled event still undeliverable", "order_number", env.Event.OrderNumber, "error", err.Error())
			reqCtx, cancel := context.WithTimeout(context.Background(), spoolTimeout)
			if err := e.spool.Requeue(reqCtx, payload); err != nil {
				slog.ErrorContext(ctx, "order placed event lost while requeueing", "order_number", env.Event.OrderNumber, "error", err.Error())
			}
			cancel()
			return
		}
		slog.InfoContext(ctx, "spooled order placed event published", "order_number", env.Event.OrderNumber)
	}
}
