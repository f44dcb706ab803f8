//go:build unit

package resilience_test

import (
	"testing"
	"time"

	"order-service/internal/pkg/clock"
	"order-service/internal/pkg/resilience"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func testBreakerConfig() resilience.BreakerConfig {
	return resilience.BreakerConfig{
		SlidingWindowSize:    10,
		MinimumCalls:         5,
		FailureRateThreshold: 50,
		OpenDuration:         5 * time.Second,
		HalfOpenPermits:      3,
	}
}

func fail(t *testing.T, cb *resilience.CircuitBreaker, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		ticket, err := cb.Acquire()
		require.NoError(t, err)
		cb.OnFailure(ticket)
	}
}

func succeed(t *testing.T, cb *resilience.CircuitBreaker, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		ticket, err := cb.Acquire()
		require.NoError(t, err)
		cb.OnSuccess(ticket)
	}
}

func TestCircuitBreaker_Closed(t *testing.T) {
	tests := []struct {
		name      string
		cfg       func(*resilience.BreakerConfig)
		record    func(*testing.T, *resilience.CircuitBreaker)
		wantState resilience.State
	}{
		{
			name:      "stays closed below minimum calls",
			record:    func(t *testing.T, cb *resilience.CircuitBreaker) { fail(t, cb, 4) },
			wantState: resilience.StateClosed,
		},
		{
			name:      "opens once minimum calls all failed",
			record:    func(t *testing.T, cb *resilience.CircuitBreaker) { fail(t, cb, 5) },
			wantState: resilience.StateOpen,
		},
		{
			name: "rate equal to threshold does not open",
			cfg:  func(c *resilience.BreakerConfig) { c.MinimumCalls = 4 },
			record: func(t *testing.T, cb *resilience.CircuitBreaker) {
				succeed(t, cb, 2)
				fail(t, cb, 2)
			},
			wantState: resilience.StateClosed,
		},
		{
			name: "rate above threshold opens",
			cfg:  func(c *resilience.BreakerConfig) { c.MinimumCalls = 4 },
			record: func(t *testing.T, cb *resilience.CircuitBreaker) {
				succeed(t, cb, 1)
				fail(t, cb, 3)
			},
			wantState: resilience.StateOpen,
		},
		{
			name: "oldest outcomes fall out of the window",
			cfg: func(c *resilience.BreakerConfig) {
				c.SlidingWindowSize = 4
				c.MinimumCalls = 4
			},
			record: func(t *testing.T, cb *resilience.CircuitBreaker) {
				// ends as SSFF: 50% is not above the threshold
				fail(t, cb, 2)
				succeed(t, cb, 4)
				fail(t, cb, 2)
			},
			wantState: resilience.StateClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testBreakerConfig()
			if tt.cfg != nil {
				tt.cfg(&cfg)
			}
			cb := resilience.NewCircuitBreaker("inventory-check", cfg, clock.NewMockClock(baseTime), nil)

			tt.record(t, cb)

			assert.Equal(t, tt.wantState, cb.State())
		})
	}
}

func TestCircuitBreaker_OpenAndHalfOpen(t *testing.T) {
	t.Run("open rejects until the cooldown elapses", func(t *testing.T) {
		clk := clock.NewMockClock(baseTime)
		cb := resilience.NewCircuitBreaker("inventory-check", testBreakerConfig(), clk, nil)
		fail(t, cb, 5)

		_, err := cb.Acquire()
		assert.ErrorIs(t, err, resilience.ErrCircuitOpen)

		clk.Add(4 * time.Second)
		_, err = cb.Acquire()
		assert.ErrorIs(t, err, resilience.ErrCircuitOpen)

		clk.Add(time.Second)
		_, err = cb.Acquire()
		assert.NoError(t, err)
		assert.Equal(t, resilience.StateHalfOpen, cb.State())
	})

	t.Run("half open admits exactly the permitted trials", func(t *testing.T) {
		clk := clock.NewMockClock(baseTime)
		cb := resilience.NewCircuitBreaker("inventory-check", testBreakerConfig(), clk, nil)
		fail(t, cb, 5)
		clk.Add(5 * time.Second)

		for i := 0; i < 3; i++ {
			_, err := cb.Acquire()
			require.NoError(t, err, "trial %d", i)
		}
		_, err := cb.Acquire()
		assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	})

	t.Run("successful trial closes and resets counters", func(t *testing.T) {
		clk := clock.NewMockClock(baseTime)
		cb := resilience.NewCircuitBreaker("inventory-check", testBreakerConfig(), clk, nil)
		fail(t, cb, 5)
		clk.Add(5 * time.Second)

		ticket, err := cb.Acquire()
		require.NoError(t, err)
		cb.OnSuccess(ticket)

		assert.Equal(t, resilience.StateClosed, cb.State())
		snap := cb.Snapshot()
		assert.Equal(t, 0, snap.BufferedCalls)
		assert.Equal(t, 0, snap.FailedCalls)
	})

	t.Run("failed trial reopens and restarts the cooldown", func(t *testing.T) {
		clk := clock.NewMockClock(baseTime)
		cb := resilience.NewCircuitBreaker("inventory-check", testBreakerConfig(), clk, nil)
		fail(t, cb, 5)
		clk.Add(5 * time.Second)

		ticket, err := cb.Acquire()
		require.NoError(t, err)
		clk.Add(2 * time.Second)
		cb.OnFailure(ticket)

		assert.Equal(t, resilience.StateOpen, cb.State())
		clk.Add(4 * time.Second)
		_, err = cb.Acquire()
		assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
		clk.Add(time.Second)
		_, err = cb.Acquire()
		assert.NoError(t, err)
	})

	t.Run("released trial permit can be reused", func(t *testing.T) {
		clk := clock.NewMockClock(baseTime)
		cfg := testBreakerConfig()
		cfg.HalfOpenPermits = 1
		cb := resilience.NewCircuitBreaker("inventory-check", cfg, clk, nil)
		fail(t, cb, 5)
		clk.Add(5 * time.Second)

		ticket, err := cb.Acquire()
		require.NoError(t, err)
		_, err = cb.Acquire()
		require.ErrorIs(t, err, resilience.ErrCircuitOpen)

		cb.Release(ticket)

		_, err = cb.Acquire()
		assert.NoError(t, err)
		assert.Equal(t, resilience.StateHalfOpen, cb.State())
	})

	t.Run("outcome from a superseded state is ignored", func(t *testing.T) {
		clk := clock.NewMockClock(baseTime)
		cb := resilience.NewCircuitBreaker("inventory-check", testBreakerConfig(), clk, nil)

		stale, err := cb.Acquire()
		require.NoError(t, err)
		fail(t, cb, 5)
		require.Equal(t, resilience.StateOpen, cb.State())

		clk.Add(5 * time.Second)
		_, err = cb.Acquire()
		require.NoError(t, err)

		cb.OnSuccess(stale)

		assert.Equal(t, resilience.StateHalfOpen, cb.State())
	})
}

func TestCircuitBreaker_StateChangeHook(t *testing.T) {
	clk := clock.NewMockClock(baseTime)
	var transitions []string
	cb := resilience.NewCircuitBreaker("inventory-check", testBreakerConfig(), clk,
		func(name string, from, to resilience.State) {
			transitions = append(transitions, name+":"+from.String()+"->"+to.String())
		})

	fail(t, cb, 5)
	clk.Add(5 * time.Second)
	succeed(t, cb, 1)

	assert.Equal(t, []string{
		"inventory-check:CLOSED->OPEN",
		"inventory-check:OPEN->HALF_OPEN",
		"inventory-check:HALF_OPEN->CLOSED",
	}, transitions)
}

func TestRegistry(t *testing.T) {
	reg := resilience.NewRegistry(clock.NewMockClock(baseTime), nil)

	first := reg.Breaker("inventory-decrement", testBreakerConfig())
	second := reg.Breaker("inventory-decrement", resilience.BreakerConfig{})
	reg.Breaker("inventory-check", testBreakerConfig())

	assert.Same(t, first, second)

	fail(t, first, 5)
	snaps := reg.Snapshot()
	require.Len(t, snaps, 2)
	assert.Equal(t, "inventory-check", snaps[0].Name)
	assert.Equal(t, "CLOSED", snaps[0].State)
	assert.Equal(t, "inventory-decrement", snaps[1].Name)
	assert.Equal(t, "OPEN", snaps[1].State)
	assert.Equal(t, 5, snaps[1].FailedCalls)
	assert.InDelta(t, 100.0, snaps[1].FailureRate, 0.001)
}
