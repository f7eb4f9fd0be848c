package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// ApplyOrderMutationActivityName delivers a single mutation to the order backend.
const ApplyOrderMutationActivityName = "orders.activities.ApplyMutation"

// MutationKind tells the activity which backend endpoint to call.
type MutationKind string

const (
	MutationStatus  MutationKind = "status"
	MutationPayment MutationKind = "payment"
)

// OrderMutation is the serialisable form of a validated status or payment change.
type OrderMutation struct {
	OrderID string
	Kind    MutationKind
	Status  string
	Paid    bool
}

// Application error types raised by the activity and mapped back by the caller.
const (
	ErrTypeUnauthorized = "OrderBackendUnauthorized"
	ErrTypeRejected     = "OrderBackendRejected"
)

// RunOrderMutationSequence executes the mutation activity with bounded retries.
func RunOrderMutationSequence(ctx workflow.Context, mutation OrderMutation) error {
	logger := workflow.GetLogger(ctx)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        2 * time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        10 * time.Second,
			MaximumAttempts:        5,
			NonRetryableErrorTypes: []string{ErrTypeUnauthorized, ErrTypeRejected},
		},
	}
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), ApplyOrderMutationActivityName, mutation).Get(ctx, nil)
	if err != nil {
		logger.Error("order mutation sequence failed", "orderId", mutation.OrderID, "kind", mutation.Kind, "error", err)
		return err
	}
	logger.Info("order mutation sequence applied", "orderId", mutation.OrderID, "kind", mutation.Kind)
	return nil
}
