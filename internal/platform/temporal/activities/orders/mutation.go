package orders

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
	"github.com/Apurer/storefront-admin/internal/domains/orders/ports"
	"github.com/Apurer/storefront-admin/internal/platform/temporal/sequences"
)

// ApplyMutationActivityName is the registration name of Activities.ApplyMutation.
const ApplyMutationActivityName = sequences.ApplyOrderMutationActivityName

// Activities groups activities that call the order backend.
type Activities struct {
	backend ports.OrderBackend
}

// NewActivities wires the backend gateway. The gateway must carry the worker's own credential.
func NewActivities(backend ports.OrderBackend) *Activities {
	return &Activities{backend: backend}
}

// ApplyMutation sends one mutation. Credential and rejection failures are not retried.
func (a *Activities) ApplyMutation(ctx context.Context, mutation sequences.OrderMutation) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.backend == nil {
		logger.Error("order mutation activity not initialized", "orderId", mutation.OrderID)
		return errors.New("order mutation activity not initialized")
	}
	logger.Info("ApplyMutation activity started", "orderId", mutation.OrderID, "kind", mutation.Kind)

	var err error
	switch mutation.Kind {
	case sequences.MutationStatus:
		err = a.backend.SetOrderStatus(ctx, mutation.OrderID, domain.Status(mutation.Status))
	case sequences.MutationPayment:
		err = a.backend.SetPaymentStatus(ctx, mutation.OrderID, mutation.Paid)
	default:
		return temporal.NewNonRetryableApplicationError(fmt.Sprintf("unknown mutation kind %q", mutation.Kind), sequences.ErrTypeRejected, nil)
	}
	if err != nil {
		logger.Error("ApplyMutation activity failed", "orderId", mutation.OrderID, "error", err)
		return classify(err)
	}
	logger.Info("ApplyMutation activity completed", "orderId", mutation.OrderID)
	return nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, ports.ErrUnauthorized):
		return temporal.NewNonRetryableApplicationError(err.Error(), sequences.ErrTypeUnauthorized, err)
	case errors.Is(err, ports.ErrBackendRejected):
		return temporal.NewNonRetryableApplicationError(err.Error(), sequences.ErrTypeRejected, err)
	default:
		return err
	}
}
