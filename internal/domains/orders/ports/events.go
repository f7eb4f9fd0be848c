package ports

import (
	"context"

	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
)

// EventPublisher announces confirmed order changes to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}
