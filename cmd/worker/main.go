package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/storefront-admin/internal/app/api"
	platformobservability "github.com/Apurer/storefront-admin/internal/platform/observability"
	orderactivities "github.com/Apurer/storefront-admin/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/storefront-admin/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "storefront-admin-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	settings, err := platformobservability.SettingsFromEnv(serviceName)
	if err != nil {
		log.Fatalf("invalid observability settings: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, settings)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	// The worker acts with its own BACKEND_TOKEN; operator credentials never enter workflow history.
	if cfg.BackendToken == "" {
		logger.Error("BACKEND_TOKEN is required for the mutation worker")
		os.Exit(1)
	}
	gateway, err := api.NewBackendGateway(cfg)
	if err != nil {
		logger.Error("failed to build order backend gateway", slog.String("error", err.Error()))
		os.Exit(1)
	}
	mutationActivities := orderactivities.NewActivities(gateway)

	cfg.TemporalDisabled = false
	temporalClient, err := api.DialTemporal(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderMutationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderMutationWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderMutationWorkflowName})
	w.RegisterActivityWithOptions(mutationActivities.ApplyMutation, activity.RegisterOptions{Name: orderactivities.ApplyMutationActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderMutationTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
