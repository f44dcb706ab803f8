package resilience

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"order-service/internal/pkg/clock"
	"order-service/internal/pkg/config"
)

// Registry owns one CircuitBreaker per operation name for the whole process.
type Registry struct {
	clock  clock.Clock
	logger *slog.Logger

	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

func NewRegistry(clk clock.Clock, logger *slog.Logger) *Registry {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		clock:    clk,
		logger:   logger,
		breakers: make(map[string]*CircuitBreaker),
	}
}

// Breaker returns the breaker registered under name, creating it with cfg on
// first use. Later calls with a different cfg get the existing breaker.
func (r *Registry) Breaker(name string, cfg BreakerConfig) *CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cb, ok := r.breakers[name]; ok {
		return cb
	}
	cb := NewCircuitBreaker(name, cfg, r.clock, r.logStateChange)
	r.breakers[name] = cb
	return cb
}

func (r *Registry) Snapshot() []BreakerSnapshot {
	r.mu.Lock()
	breakers := make([]*CircuitBreaker, 0, len(r.breakers))
	for _, cb := range r.breakers {
		breakers = append(breakers, cb)
	}
	r.mu.Unlock()

	snapshots := make([]BreakerSnapshot, 0, len(breakers))
	for _, cb := range breakers {
		snapshots = append(snapshots, cb.Snapshot())
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Name < snapshots[j].Name
	})
	return snapshots
}

func (r *Registry) logStateChange(name string, from, to State) {
	level := slog.LevelInfo
	if to == StateOpen {
		level = slog.LevelWarn
	}
	r.logger.Log(context.Background(), level, "circuit breaker state changed",
		"breaker", name,
		"from", from.String(),
		"to", to.String())
}

// NewConfig maps the environment-level settings onto a policy configuration.
func NewConfig(cfg config.ResilienceConfig) Config {
	return Config{
		Breaker: BreakerConfig{
			SlidingWindowSize:    cfg.SlidingWindowSize,
			MinimumCalls:         cfg.MinimumCalls,
			FailureRateThreshold: cfg.FailureRateThreshold,
			OpenDuration:         cfg.WaitDurationOpen,
			HalfOpenPermits:      cfg.HalfOpenPermits,
		},
		Timeout: cfg.CallTimeout,
		Retry: RetryConfig{
			MaxAttempts: cfg.RetryMaxAttempts,
			Backoff:     BackoffKind(cfg.RetryBackoff),
			Wait:        cfg.RetryWait,
			Multiplier:  cfg.RetryMultiplier,
			MaxWait:     cfg.RetryMaxWait,
		},
	}
}
