package ports

import (
	"context"

	types "github.com/Apurer/storefront-admin/internal/domains/orders/application/types"
)

// Service exposes the order fulfillment use cases to adapters.
type Service interface {
	ListOrders(ctx context.Context) ([]*types.OrderProjection, error)
	Visible(ctx context.Context, query types.PageQuery) (*types.OrderPage, error)
	GetOrder(ctx context.Context, id string) (*types.OrderDetail, error)
	Refresh(ctx context.Context) error
	Transition(ctx context.Context, input types.TransitionInput) (*types.OrderProjection, error)
	SetPayment(ctx context.Context, input types.PaymentInput) (*types.OrderProjection, error)
	Invoice(ctx context.Context, id string) (*types.InvoiceView, error)
	Waybill(ctx context.Context, input types.WaybillInput) (*types.Waybill, error)
}
