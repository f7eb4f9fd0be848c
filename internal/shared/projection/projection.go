package projection

import "time"

// Metadata captures when a cached view was last confirmed by its owning service
// and, if set, when it was patched locally without confirmation.
type Metadata struct {
	SyncedAt  time.Time
	PatchedAt *time.Time
}

// Optimistic reports whether the entity carries a local patch newer than the last sync.
func (m Metadata) Optimistic() bool {
	return m.PatchedAt != nil && !m.PatchedAt.Before(m.SyncedAt)
}

// Projection represents a cached aggregate view plus synchronisation metadata.
type Projection[T any] struct {
	Entity   T
	Metadata Metadata
}

// New wraps an entity freshly loaded from its source.
func New[T any](entity T, syncedAt time.Time) *Projection[T] {
	return &Projection[T]{Entity: entity, Metadata: Metadata{SyncedAt: syncedAt}}
}

// MarkPatched records a local, not yet confirmed, change.
func (p *Projection[T]) MarkPatched(at time.Time) {
	p.Metadata.PatchedAt = &at
}
