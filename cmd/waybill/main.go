package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/Apurer/storefront-admin/internal/app/api"
	"github.com/Apurer/storefront-admin/internal/app/cli"
	"github.com/Apurer/storefront-admin/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/storefront-admin/internal/platform/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand(buildService).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "waybill:", err)
		os.Exit(1)
	}
}

// buildService wires the stack without workflows or event publishing and logs to stderr.
// Orders are never mutated from here, but render does issue invoice numbers.
func buildService(ctx context.Context) (ports.Service, func(), error) {
	cfg, err := api.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	cfg.TemporalDisabled = true
	cfg.KafkaBrokers = nil
	instruments := &platformobservability.Instruments{
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
	}
	stack, err := api.NewOrderStack(ctx, cfg, instruments)
	if err != nil {
		return nil, nil, err
	}
	return stack.Service, stack.Close, nil
}
