package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	types "github.com/Apurer/storefront-admin/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
	"github.com/Apurer/storefront-admin/internal/domains/orders/ports"
	"github.com/Apurer/storefront-admin/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Source loads the authoritative order collection, newest first.
type Source interface {
	ListOrders(ctx context.Context) ([]*domain.Order, error)
}

// Repository caches the order backend's collection in process memory.
type Repository struct {
	source Source
	now    func() time.Time

	// fetch serialises backend loads so concurrent refreshes do not interleave their writes.
	fetch sync.Mutex

	mu      sync.RWMutex
	loaded  bool
	ids     []string
	entries map[string]*types.OrderProjection
}

// Option configures the repository.
type Option func(*Repository)

func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

func NewRepository(source Source, opts ...Option) *Repository {
	r := &Repository{
		source:  source,
		now:     time.Now,
		entries: map[string]*types.OrderProjection{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Repository) List(ctx context.Context) ([]*types.OrderProjection, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*types.OrderProjection, 0, len(r.ids))
	for _, id := range r.ids {
		list = append(list, types.CloneProjection(r.entries[id]))
	}
	return list, nil
}

func (r *Repository) Get(ctx context.Context, id string) (*types.OrderProjection, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return types.CloneProjection(entry), nil
}

// Refresh replaces the cache with the backend's collection. A local patch made after
// the fetch started survives, since the snapshot cannot contain it yet.
func (r *Repository) Refresh(ctx context.Context) error {
	if r == nil || r.source == nil {
		return errors.New("order repository source not configured")
	}
	r.fetch.Lock()
	defer r.fetch.Unlock()

	started := r.now()
	orders, err := r.source.ListOrders(ctx)
	if err != nil {
		return err
	}
	syncedAt := r.now()

	ids := make([]string, 0, len(orders))
	entries := make(map[string]*types.OrderProjection, len(orders))

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range orders {
		if order == nil {
			continue
		}
		if _, dup := entries[order.ID]; dup {
			continue
		}
		ids = append(ids, order.ID)
		if prev, ok := r.entries[order.ID]; ok && prev.Metadata.PatchedAt != nil && !prev.Metadata.PatchedAt.Before(started) {
			entries[order.ID] = prev
			continue
		}
		entries[order.ID] = projection.New(order.Clone(), syncedAt)
	}
	r.ids = ids
	r.entries = entries
	r.loaded = true
	return nil
}

func (r *Repository) Patch(ctx context.Context, id string, patch types.OrderPatch) (*types.OrderProjection, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if patch.IsEmpty() {
		return types.CloneProjection(entry), nil
	}
	patched := types.CloneProjection(entry)
	patch.Apply(patched.Entity)
	patched.MarkPatched(r.now())
	r.entries[id] = patched
	return types.CloneProjection(patched), nil
}

func (r *Repository) ensureLoaded(ctx context.Context) error {
	r.mu.RLock()
	loaded := r.loaded
	r.mu.RUnlock()
	if loaded {
		return nil
	}
	return r.Refresh(ctx)
}
