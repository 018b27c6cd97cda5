package port

import "context"

// IdempotencyStore guards the remote buy entry point against redelivered
// messages.
type IdempotencyStore interface {
	// SetIdempotency sets a key for idempotency check, returns false if already exists
	SetIdempotency(ctx context.Context, key string) (bool, error)
}
