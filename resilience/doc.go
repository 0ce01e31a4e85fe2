// Package resilience guards calls to the upstream API.
//
//   - Retry: retries transient failures with exponential backoff and jitter
//   - CircuitBreaker: fails fast while the dependency keeps failing
//
// The two compose with the breaker inside the retry, so an open circuit
// stops the retry loop at once:
//
//	snap, err := resilience.Retry(ctx, cfg, func(ctx context.Context) (*snapshot.Snapshot, error) {
//	    return resilience.Call(cb, func() (*snapshot.Snapshot, error) { return fetch(ctx) })
//	})
package resilience
