// Package clients is the resilient HTTP client used to read from upstream
// services such as the regulatory feed.
package clients

import "errors"

// Transport-level failures. Adapters translate them into domain errors.
var (
	// ErrCircuitOpen means the breaker rejected the call without sending it.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last failure once every attempt is used.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
