package workflows

import (
	"context"
	"errors"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
	"github.com/Apurer/storefront-admin/internal/domains/orders/ports"
	"github.com/Apurer/storefront-admin/internal/platform/temporal/sequences"
	orderworkflows "github.com/Apurer/storefront-admin/internal/platform/temporal/workflows/orders"
)

// TemporalExecutor delivers mutations through a durable workflow and waits for the outcome.
type TemporalExecutor struct {
	client    client.Client
	taskQueue string
}

// NewTemporalExecutor wires a Temporal client into the executor.
func NewTemporalExecutor(c client.Client) *TemporalExecutor {
	return &TemporalExecutor{client: c, taskQueue: orderworkflows.OrderMutationTaskQueue}
}

func (e *TemporalExecutor) SetStatus(ctx context.Context, orderID string, status domain.Status) error {
	return e.run(ctx, sequences.OrderMutation{OrderID: orderID, Kind: sequences.MutationStatus, Status: string(status)})
}

func (e *TemporalExecutor) SetPayment(ctx context.Context, orderID string, paid bool) error {
	return e.run(ctx, sequences.OrderMutation{OrderID: orderID, Kind: sequences.MutationPayment, Paid: paid})
}

func (e *TemporalExecutor) run(ctx context.Context, mutation sequences.OrderMutation) error {
	if e == nil || e.client == nil {
		return errors.New("temporal order executor not configured")
	}
	// One running workflow per order across every API instance.
	options := client.StartWorkflowOptions{
		ID:                                       MutationWorkflowID(mutation.OrderID),
		TaskQueue:                                e.taskQueue,
		WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	input := orderworkflows.OrderMutationWorkflowInput{Mutation: mutation, TraceID: workflowTraceID(ctx)}
	run, err := e.client.ExecuteWorkflow(ctx, options, orderworkflows.OrderMutationWorkflow, input)
	if err != nil {
		var started *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &started) {
			return fmt.Errorf("%w: %s", ports.ErrMutationConflict, mutation.OrderID)
		}
		return fmt.Errorf("%w: start mutation workflow: %w", ports.ErrBackendUnavailable, err)
	}
	if err := run.Get(ctx, nil); err != nil {
		return fromWorkflowError(err)
	}
	return nil
}

// MutationWorkflowID is the workflow id reserved for mutations of one order.
func MutationWorkflowID(orderID string) string {
	return "order-mutation-" + orderID
}

func fromWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		switch appErr.Type() {
		case sequences.ErrTypeUnauthorized:
			return fmt.Errorf("%w: %s", ports.ErrUnauthorized, appErr.Error())
		case sequences.ErrTypeRejected:
			return fmt.Errorf("%w: %s", ports.ErrBackendRejected, appErr.Error())
		}
	}
	return fmt.Errorf("%w: %w", ports.ErrBackendUnavailable, err)
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}

var _ ports.MutationExecutor = (*TemporalExecutor)(nil)
