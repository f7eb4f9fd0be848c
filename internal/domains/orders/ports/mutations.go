package ports

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
)

// ErrMutationConflict means another process is already delivering a mutation for the order.
// Nothing was sent.
var ErrMutationConflict = errors.New("another mutation for this order is being delivered")

// MutationExecutor delivers validated mutations to the order backend,
// owning retry and timeout policy.
type MutationExecutor interface {
	SetStatus(ctx context.Context, orderID string, status domain.Status) error
	SetPayment(ctx context.Context, orderID string, paid bool) error
}
