package ports

import (
	"context"
	"errors"

	types "github.com/Apurer/storefront-admin/internal/domains/orders/application/types"
)

var ErrNotFound = errors.New("order not found")

// Repository is the process-local order cache. It is the only owner of cached state.
type Repository interface {
	// List returns cached orders newest first, loading them on first use.
	List(ctx context.Context) ([]*types.OrderProjection, error)
	Get(ctx context.Context, id string) (*types.OrderProjection, error)
	// Refresh reloads the whole collection from the order backend.
	Refresh(ctx context.Context) error
	// Patch applies an unconfirmed change to one cached order.
	Patch(ctx context.Context, id string, patch types.OrderPatch) (*types.OrderProjection, error)
}
