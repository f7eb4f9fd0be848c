package ports

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
)

var (
	// ErrUnauthorized means the bearer credential was missing or refused. Never retried.
	ErrUnauthorized = errors.New("order backend rejected the credential")
	// ErrBackendUnavailable covers transport failures and 5xx answers. Safe to retry.
	ErrBackendUnavailable = errors.New("order backend unavailable")
	// ErrBackendRejected means the backend answered but refused the request.
	ErrBackendRejected = errors.New("order backend rejected the request")
)

// SellerProfiles supplies the shop identity printed on shipment documents.
type SellerProfiles interface {
	GetSellerProfile(ctx context.Context) (domain.SellerProfile, error)
}

// OrderBackend is the external order service that owns order state.
type OrderBackend interface {
	SellerProfiles
	// ListOrders returns every order, newest first.
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	SetOrderStatus(ctx context.Context, orderID string, status domain.Status) error
	SetPaymentStatus(ctx context.Context, orderID string, paid bool) error
}
