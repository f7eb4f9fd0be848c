package types

import (
	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
	"github.com/Apurer/storefront-admin/internal/shared/projection"
)

// OrderProjection is a cached order plus its synchronisation metadata.
type OrderProjection = projection.Projection[*domain.Order]

// CloneProjection deep-copies a projection so callers never alias the cache.
func CloneProjection(src *OrderProjection) *OrderProjection {
	if src == nil {
		return nil
	}
	clone := *src
	clone.Entity = src.Entity.Clone()
	if src.Metadata.PatchedAt != nil {
		at := *src.Metadata.PatchedAt
		clone.Metadata.PatchedAt = &at
	}
	return &clone
}

// CloneProjectionList duplicates a slice of projections.
func CloneProjectionList(sources []*OrderProjection) []*OrderProjection {
	result := make([]*OrderProjection, 0, len(sources))
	for _, src := range sources {
		if src == nil {
			continue
		}
		result = append(result, CloneProjection(src))
	}
	return result
}

// Orders unwraps the entities of a projection list, keeping order.
func Orders(sources []*OrderProjection) []*domain.Order {
	result := make([]*domain.Order, 0, len(sources))
	for _, src := range sources {
		if src != nil && src.Entity != nil {
			result = append(result, src.Entity)
		}
	}
	return result
}
