package errs

import "errors"

// Order placement error taxonomy shared by the usecase, infra and handler layers.
var (
	// Caller input: never retried
	ErrValidation = errors.New("validation error")

	// Business decisions taken locally after the stock check
	ErrProductNotFound = errors.New("product does not exist")
	ErrOutOfStock      = errors.New("product is not in stock")

	// Breaker open or retries exhausted against a remote dependency
	ErrRemoteUnavailable = errors.New("remote service unavailable")

	// Caller went away before the async workflow settled
	ErrCancelled = errors.New("order placement cancelled")

	// Post-commit stock decrement failure, recorded but never returned to the caller
	ErrDecrementFailed = errors.New("inventory decrement failed")

	// Operation errors
	ErrOrderPersistFailed = errors.New("order persistence failed")
)
