package orders

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/storefront-admin/internal/platform/temporal/sequences"
)

const (
	// OrderMutationWorkflowName is the public identifier for registering the workflow.
	OrderMutationWorkflowName = "orders.workflows.Mutation"
	// OrderMutationTaskQueue is the queue consumed by the worker delivering order mutations.
	OrderMutationTaskQueue = "ORDER_MUTATIONS"
)

// OrderMutationWorkflowInput captures one validated mutation. It never carries credentials.
type OrderMutationWorkflowInput struct {
	Mutation sequences.OrderMutation
	TraceID  string
}

// OrderMutationWorkflow delivers a status or payment change to the order backend.
func OrderMutationWorkflow(ctx workflow.Context, input OrderMutationWorkflowInput) error {
	logger := workflow.GetLogger(ctx)
	orderID := input.Mutation.OrderID
	logger.Info("OrderMutationWorkflow started", withTraceID(input.TraceID, "orderId", orderID, "kind", input.Mutation.Kind)...)
	if err := sequences.RunOrderMutationSequence(ctx, input.Mutation); err != nil {
		logger.Error("OrderMutationWorkflow failed", withTraceID(input.TraceID, "orderId", orderID, "error", err)...)
		return err
	}
	logger.Info("OrderMutationWorkflow completed", withTraceID(input.TraceID, "orderId", orderID)...)
	return nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
