package resilience

import (
	"sync"
	"sync/atomic"
	"time"

	"order-service/internal/pkg/clock"
)

type State int32

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

type BreakerConfig struct {
	SlidingWindowSize int
	MinimumCalls      int
	// percentage; the breaker trips when the observed rate is strictly greater
	FailureRateThreshold float64
	OpenDuration         time.Duration
	HalfOpenPermits      int
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		SlidingWindowSize:    10,
		MinimumCalls:         5,
		FailureRateThreshold: 50,
		OpenDuration:         5 * time.Second,
		HalfOpenPermits:      3,
	}
}

func (c BreakerConfig) normalized() BreakerConfig {
	d := DefaultBreakerConfig()
	if c.SlidingWindowSize < 1 {
		c.SlidingWindowSize = d.SlidingWindowSize
	}
	if c.MinimumCalls < 1 {
		c.MinimumCalls = d.MinimumCalls
	}
	if c.MinimumCalls > c.SlidingWindowSize {
		c.MinimumCalls = c.SlidingWindowSize
	}
	if c.FailureRateThreshold <= 0 || c.FailureRateThreshold > 100 {
		c.FailureRateThreshold = d.FailureRateThreshold
	}
	if c.OpenDuration <= 0 {
		c.OpenDuration = d.OpenDuration
	}
	if c.HalfOpenPermits < 1 {
		c.HalfOpenPermits = d.HalfOpenPermits
	}
	return c
}

// Ticket is handed out by Acquire and must be settled exactly once with
// OnSuccess, OnFailure or Release.
type Ticket struct {
	generation uint64
	trial      bool
}

type StateChangeFunc func(name string, from, to State)

// CircuitBreaker tracks the outcomes of one named operation.
//
// Transitions happen under mu, which is never held while the protected call
// runs. Each transition bumps generation so that outcomes of calls admitted
// under an earlier state are discarded.
type CircuitBreaker struct {
	name     string
	cfg      BreakerConfig
	clock    clock.Clock
	onChange StateChangeFunc

	mu         sync.Mutex
	state      State
	generation uint64
	window     *outcomeWindow
	openedAt   time.Time

	// remaining half-open trial permits
	permits atomic.Int32
}

func NewCircuitBreaker(name string, cfg BreakerConfig, clk clock.Clock, onChange StateChangeFunc) *CircuitBreaker {
	cfg = cfg.normalized()
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &CircuitBreaker{
		name:     name,
		cfg:      cfg,
		clock:    clk,
		onChange: onChange,
		state:    StateClosed,
		window:   newOutcomeWindow(cfg.SlidingWindowSize),
	}
}

func (cb *CircuitBreaker) Name() string {
	return cb.name
}

func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentState()
}

// Acquire admits a call or rejects it with ErrCircuitOpen. An expired cooldown
// moves the breaker to HALF_OPEN on the first caller that observes it.
func (cb *CircuitBreaker) Acquire() (Ticket, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.currentState() == StateOpen {
		return Ticket{}, ErrCircuitOpen
	}
	if cb.state == StateOpen {
		cb.transition(StateHalfOpen)
	}

	if cb.state == StateHalfOpen {
		for {
			n := cb.permits.Load()
			if n <= 0 {
				return Ticket{}, ErrCircuitOpen
			}
			if cb.permits.CompareAndSwap(n, n-1) {
				return Ticket{generation: cb.generation, trial: true}, nil
			}
		}
	}
	return Ticket{generation: cb.generation}, nil
}

func (cb *CircuitBreaker) OnSuccess(t Ticket) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if t.generation != cb.generation {
		return
	}
	switch cb.state {
	case StateHalfOpen:
		cb.transition(StateClosed)
	case StateClosed:
		cb.window.add(false)
	}
}

func (cb *CircuitBreaker) OnFailure(t Ticket) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if t.generation != cb.generation {
		return
	}
	switch cb.state {
	case StateHalfOpen:
		cb.transition(StateOpen)
	case StateClosed:
		cb.window.add(true)
		if cb.window.count >= cb.cfg.MinimumCalls && cb.window.failureRate() > cb.cfg.FailureRateThreshold {
			cb.transition(StateOpen)
		}
	}
}

// Release settles a ticket without recording an outcome, returning a
// half-open trial permit when the caller gave up before the call finished.
func (cb *CircuitBreaker) Release(t Ticket) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if t.trial && t.generation == cb.generation && cb.state == StateHalfOpen {
		cb.permits.Add(1)
	}
}

type BreakerSnapshot struct {
	Name          string  `json:"name"`
	State         string  `json:"state"`
	BufferedCalls int     `json:"bufferedCalls"`
	FailedCalls   int     `json:"failedCalls"`
	FailureRate   float64 `json:"failureRate"`
}

func (cb *CircuitBreaker) Snapshot() BreakerSnapshot {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return BreakerSnapshot{
		Name:          cb.name,
		State:         cb.currentState().String(),
		BufferedCalls: cb.window.count,
		FailedCalls:   cb.window.failures,
		FailureRate:   cb.window.failureRate(),
	}
}

// currentState reports OPEN only while the cooldown is running; an elapsed
// cooldown reads as HALF_OPEN even before Acquire performs the transition.
// Caller must hold mu.
func (cb *CircuitBreaker) currentState() State {
	if cb.state == StateOpen && !cb.clock.Now().Before(cb.openedAt.Add(cb.cfg.OpenDuration)) {
		return StateHalfOpen
	}
	return cb.state
}

// Caller must hold mu.
func (cb *CircuitBreaker) transition(to State) {
	from := cb.state
	cb.state = to
	cb.generation++

	switch to {
	case StateOpen:
		cb.openedAt = cb.clock.Now()
		cb.permits.Store(0)
	case StateHalfOpen:
		cb.permits.Store(int32(cb.cfg.HalfOpenPermits))
	case StateClosed:
		cb.window.reset()
		cb.permits.Store(0)
	}

	if cb.onChange != nil && from != to {
		cb.onChange(cb.name, from, to)
	}
}
