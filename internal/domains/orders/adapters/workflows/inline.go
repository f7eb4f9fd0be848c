package workflows

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
	"github.com/Apurer/storefront-admin/internal/domains/orders/ports"
)

// RetryPolicy bounds how often a mutation is re-sent after a transient failure.
type RetryPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy is used when no policy is configured.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, InitialInterval: 200 * time.Millisecond, MaxInterval: 2 * time.Second}

// InlineExecutor calls the backend in-process with exponential backoff.
type InlineExecutor struct {
	backend ports.OrderBackend
	policy  RetryPolicy
}

// NewInlineExecutor wraps the backend gateway for synchronous delivery.
func NewInlineExecutor(backend ports.OrderBackend, policy RetryPolicy) *InlineExecutor {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultRetryPolicy.MaxAttempts
	}
	if policy.InitialInterval <= 0 {
		policy.InitialInterval = DefaultRetryPolicy.InitialInterval
	}
	if policy.MaxInterval < policy.InitialInterval {
		policy.MaxInterval = policy.InitialInterval
	}
	return &InlineExecutor{backend: backend, policy: policy}
}

func (e *InlineExecutor) SetStatus(ctx context.Context, orderID string, status domain.Status) error {
	return e.retry(ctx, func() error {
		return e.backend.SetOrderStatus(ctx, orderID, status)
	})
}

func (e *InlineExecutor) SetPayment(ctx context.Context, orderID string, paid bool) error {
	return e.retry(ctx, func() error {
		return e.backend.SetPaymentStatus(ctx, orderID, paid)
	})
}

func (e *InlineExecutor) retry(ctx context.Context, call func() error) error {
	if e == nil || e.backend == nil {
		return errors.New("inline order executor not configured")
	}
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = e.policy.InitialInterval
	policy.MaxInterval = e.policy.MaxInterval
	policy.MaxElapsedTime = 0

	attempts := backoff.WithMaxRetries(policy, uint64(e.policy.MaxAttempts-1))
	return backoff.Retry(func() error {
		err := call()
		if err == nil || retryable(err) {
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(attempts, ctx))
}

func retryable(err error) bool {
	return errors.Is(err, ports.ErrBackendUnavailable)
}

var _ ports.MutationExecutor = (*InlineExecutor)(nil)
