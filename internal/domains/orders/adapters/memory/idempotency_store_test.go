package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-admin/internal/domains/orders/ports"
)

func TestIdempotencyStore_SaveGetAndConflict(t *testing.T) {
	store := NewIdempotencyStore()
	fixed := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }
	ctx := context.Background()

	missing, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, missing)

	saved, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h1", OrderID: "o1"})
	require.NoError(t, err)
	require.Equal(t, fixed, saved.CreatedAt)

	same, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h1", OrderID: "o1"})
	require.NoError(t, err)
	require.Equal(t, "h1", same.RequestHash)

	existing, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: "h1", OrderID: "o2"})
	require.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	require.Equal(t, "o1", existing.OrderID)

	loaded, err := store.Get(ctx, "k")
	require.NoError(t, err)
	loaded.OrderID = "mutated"
	again, _ := store.Get(ctx, "k")
	require.Equal(t, "o1", again.OrderID)
}

func TestIdempotencyStore_ConcurrentSavesKeepFirstWriter(t *testing.T) {
	store := NewIdempotencyStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	var conflicts atomic.Int32
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := store.Save(ctx, ports.IdempotencyRecord{Key: "k", RequestHash: fmt.Sprintf("h%d", i), OrderID: "o1"})
			if errors.Is(err, ports.ErrIdempotencyConflict) {
				conflicts.Add(1)
			}
		}(i)
	}
	wg.Wait()
	require.EqualValues(t, 7, conflicts.Load())
}
