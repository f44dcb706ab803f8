package resilience

import "order-service/internal/pkg/errs"

var (
	ErrCircuitOpen = errs.New("circuit breaker is open")
	ErrTimeout     = errs.New("call timed out")
)
