package backend

import (
	"context"
	"errors"
	"fmt"

	orderclient "github.com/Apurer/storefront-admin/internal/clients/http/orderbackend"
	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
	"github.com/Apurer/storefront-admin/internal/domains/orders/ports"
	"github.com/Apurer/storefront-admin/internal/shared/auth"
)

// Gateway implements the order backend port over the HTTP client.
type Gateway struct {
	client *orderclient.Client
	token  string
}

// NewGateway wires the HTTP client. The static token is used when the request context carries none.
func NewGateway(client *orderclient.Client, token string) *Gateway {
	return &Gateway{client: client, token: token}
}

func (g *Gateway) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	token, err := g.credential(ctx)
	if err != nil {
		return nil, err
	}
	payloads, err := g.client.ListOrders(ctx, token)
	if err != nil {
		return nil, mapError("list orders", err)
	}
	// the backend stores oldest first
	orders := make([]*domain.Order, 0, len(payloads))
	for i := len(payloads) - 1; i >= 0; i-- {
		orders = append(orders, ToDomain(payloads[i]))
	}
	return orders, nil
}

func (g *Gateway) SetOrderStatus(ctx context.Context, orderID string, status domain.Status) error {
	token, err := g.credential(ctx)
	if err != nil {
		return err
	}
	if err := g.client.UpdateStatus(ctx, token, orderID, string(status)); err != nil {
		return mapError("update status", err)
	}
	return nil
}

func (g *Gateway) SetPaymentStatus(ctx context.Context, orderID string, paid bool) error {
	token, err := g.credential(ctx)
	if err != nil {
		return err
	}
	if err := g.client.UpdatePayment(ctx, token, orderID, paid); err != nil {
		return mapError("update payment", err)
	}
	return nil
}

func (g *Gateway) GetSellerProfile(ctx context.Context) (domain.SellerProfile, error) {
	token, err := g.credential(ctx)
	if err != nil {
		return domain.SellerProfile{}, err
	}
	profile, err := g.client.SellerProfile(ctx, token)
	if err != nil {
		return domain.SellerProfile{}, mapError("seller profile", err)
	}
	return profileToDomain(profile), nil
}

func (g *Gateway) credential(ctx context.Context) (string, error) {
	if g == nil || g.client == nil {
		return "", errors.New("order backend gateway not configured")
	}
	if token := auth.TokenFrom(ctx); token != "" {
		return token, nil
	}
	if g.token != "" {
		return g.token, nil
	}
	return "", fmt.Errorf("%w: no bearer token", ports.ErrUnauthorized)
}

func mapError(op string, err error) error {
	var apiErr *orderclient.APIError
	switch {
	case errors.Is(err, orderclient.ErrMissingToken):
		return fmt.Errorf("%w: %s: %w", ports.ErrUnauthorized, op, err)
	case errors.As(err, &apiErr) && apiErr.Unauthorized():
		return fmt.Errorf("%w: %s: %w", ports.ErrUnauthorized, op, err)
	case errors.As(err, &apiErr) && apiErr.Temporary():
		return fmt.Errorf("%w: %s: %w", ports.ErrBackendUnavailable, op, err)
	case errors.As(err, &apiErr):
		return fmt.Errorf("%w: %s: %w", ports.ErrBackendRejected, op, err)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return fmt.Errorf("%w: %s: %w", ports.ErrBackendUnavailable, op, err)
	}
}

var _ ports.OrderBackend = (*Gateway)(nil)
