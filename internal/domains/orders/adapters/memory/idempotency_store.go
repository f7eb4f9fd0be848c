package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/storefront-admin/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore keeps mutation keys for the life of the process. Records are immutable
// once stored, so the first writer of a key wins just as with a unique index.
type IdempotencyStore struct {
	keys sync.Map // string -> ports.IdempotencyRecord
	now  func() time.Time
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{now: time.Now}
}

func (s *IdempotencyStore) Get(_ context.Context, key string) (*ports.IdempotencyRecord, error) {
	stored, ok := s.keys.Load(key)
	if !ok {
		return nil, nil
	}
	record := stored.(ports.IdempotencyRecord)
	return &record, nil
}

func (s *IdempotencyStore) Save(_ context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	record.CreatedAt = s.now()
	record.UpdatedAt = record.CreatedAt
	stored, loaded := s.keys.LoadOrStore(record.Key, record)
	if !loaded {
		return &record, nil
	}
	return record.Resolve(stored.(ports.IdempotencyRecord))
}
