package ports

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyConflict indicates the same key was used with a different mutation or order.
var ErrIdempotencyConflict = errors.New("idempotency conflict")

// IdempotencyRecord ties a client-supplied key to the mutation it already applied.
type IdempotencyRecord struct {
	Key         string
	RequestHash string
	OrderID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IdempotencyStore persists idempotency keys so operator retries are replayed instead of resent.
type IdempotencyStore interface {
	// Get returns the stored record for the key, or nil when unknown.
	Get(ctx context.Context, key string) (*IdempotencyRecord, error)
	// Save persists the record; if the key already exists with the same hash and order, the stored record is returned.
	// When the key exists but points to a different request or order, ErrIdempotencyConflict is returned with the stored record.
	Save(ctx context.Context, record IdempotencyRecord) (*IdempotencyRecord, error)
}

// Resolve settles a second Save of r.Key against the record already stored under it.
// The stored record always comes back; a different hash or order is a conflict.
func (r IdempotencyRecord) Resolve(stored IdempotencyRecord) (*IdempotencyRecord, error) {
	if stored.RequestHash != r.RequestHash || stored.OrderID != r.OrderID {
		return &stored, ErrIdempotencyConflict
	}
	return &stored, nil
}
