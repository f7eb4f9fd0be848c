package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	adminserver "github.com/Apurer/storefront-admin/go"
	orderclient "github.com/Apurer/storefront-admin/internal/clients/http/orderbackend"
	orderevents "github.com/Apurer/storefront-admin/internal/domains/orders/adapters/events"
	orderbackend "github.com/Apurer/storefront-admin/internal/domains/orders/adapters/external/backend"
	ordersmemory "github.com/Apurer/storefront-admin/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/storefront-admin/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/Apurer/storefront-admin/internal/domains/orders/adapters/persistence/postgres"
	ordersrender "github.com/Apurer/storefront-admin/internal/domains/orders/adapters/render"
	ordersworkflows "github.com/Apurer/storefront-admin/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/storefront-admin/internal/domains/orders/application"
	ordersports "github.com/Apurer/storefront-admin/internal/domains/orders/ports"
	"github.com/Apurer/storefront-admin/internal/platform/messaging"
	"github.com/Apurer/storefront-admin/internal/platform/migrations"
	platformobservability "github.com/Apurer/storefront-admin/internal/platform/observability"
	platformpostgres "github.com/Apurer/storefront-admin/internal/platform/postgres"
	"github.com/Apurer/storefront-admin/internal/shared/auth"
)

const serviceName = "storefront-admin-api"

// Run boots the admin HTTP API and serves until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	settings, err := platformobservability.SettingsFromEnv(serviceName)
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	stack, err := NewOrderStack(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer stack.Close()

	router := NewRouter(stack.Service, instruments)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("admin API listening", slog.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("admin API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down admin API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown admin API: %w", err)
	}
	stack.Core.WaitIdle()
	return nil
}

// adminPrefix marks the routes that act on an operator's behalf and therefore need a bearer token.
const adminPrefix = "/api/admin"

// NewRouter builds the gin engine with tracing, request ids and bearer checks ahead of the routes.
func NewRouter(service ordersports.Service, instruments *platformobservability.Instruments) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		otelgin.Middleware(serviceName),
		adminserver.RequestID(),
		auth.BearerForwarding(),
		auth.RequireBearer(adminPrefix),
	)
	var metrics http.Handler
	if instruments != nil {
		metrics = instruments.MetricsHandler
	}
	return adminserver.NewRouterWithGinEngine(router, adminserver.ApiHandleFunctions{
		OrderAPI:  adminserver.NewOrderAPI(service),
		SystemAPI: adminserver.NewSystemAPI(metrics),
	})
}

// OrderStack is the wired orders service with the resources it owns.
type OrderStack struct {
	// Service is the instrumented service handed to transports.
	Service ordersports.Service
	// Core is the undecorated service, kept for WaitIdle on shutdown.
	Core    *ordersapp.Service
	Backend *orderbackend.Gateway

	closers []func()
}

// Close releases connections in reverse order of acquisition.
func (s *OrderStack) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// NewOrderStack wires the orders bounded context. Temporal, PostgreSQL and Kafka are optional:
// each falls back to its in-process counterpart when unconfigured or unreachable.
func NewOrderStack(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*OrderStack, error) {
	logger := effectiveLogger(instruments)
	// Operator-facing calls act only with the caller's token, never the service credential.
	gateway, err := newGateway(cfg, "", orderclient.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	stack := &OrderStack{Backend: gateway}

	executor := ordersports.MutationExecutor(ordersworkflows.NewInlineExecutor(gateway, cfg.RetryPolicy()))
	if temporalClient, err := DialTemporal(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, delivering order mutations inline", slog.String("error", err.Error()))
	} else {
		stack.closers = append(stack.closers, temporalClient.Close)
		executor = ordersworkflows.NewTemporalExecutor(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	invoices, keys, closeStore := buildPersistence(ctx, cfg, logger)
	stack.closers = append(stack.closers, closeStore)
	events, closeEvents := buildEventPublisher(cfg, logger)
	stack.closers = append(stack.closers, closeEvents)

	stack.Core = ordersapp.NewService(
		ordersmemory.NewRepository(gateway),
		executor,
		ordersapp.WithLogger(logger),
		ordersapp.WithSellerProfiles(gateway),
		ordersapp.WithInvoiceRegister(invoices),
		ordersapp.WithIdempotencyStore(keys),
		ordersapp.WithEventPublisher(events),
		ordersapp.WithRenderers(ordersrender.NewYAMLRenderer(), ordersrender.NewJSONRenderer(), ordersrender.NewHTMLRenderer()),
		ordersapp.WithTaxRate(cfg.TaxRate),
		ordersapp.WithCurrency(cfg.Currency),
		ordersapp.WithPageSize(cfg.PageSize()),
		ordersapp.WithResyncTimeout(cfg.ResyncTimeout),
	)
	stack.Service = ordersobs.New(
		stack.Core,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	return stack, nil
}

// NewBackendGateway builds the gateway for background processes, which act with the static BACKEND_TOKEN.
func NewBackendGateway(cfg Config) (*orderbackend.Gateway, error) {
	return newGateway(cfg, cfg.BackendToken)
}

func newGateway(cfg Config, token string, opts ...orderclient.ClientOption) (*orderbackend.Gateway, error) {
	c, err := orderclient.NewClient(cfg.BackendURL, orderclient.NewHTTPClient(cfg.BackendTimeout), opts...)
	if err != nil {
		return nil, fmt.Errorf("order backend client: %w", err)
	}
	return orderbackend.NewGateway(c, token), nil
}

// DialTemporal connects to Temporal with tracing and the process logger.
func DialTemporal(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

// buildPersistence backs the invoice register and the idempotency keys with postgres when reachable.
func buildPersistence(ctx context.Context, cfg Config, logger *slog.Logger) (ordersports.InvoiceRegister, ordersports.IdempotencyStore, func()) {
	db, cleanup := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return ordersmemory.NewInvoiceRegister(cfg.InvoicePrefix), ordersmemory.NewIdempotencyStore(), cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate schema, invoice numbers and idempotency keys are kept in memory", slog.String("error", err.Error()))
		cleanup()
		return ordersmemory.NewInvoiceRegister(cfg.InvoicePrefix), ordersmemory.NewIdempotencyStore(), func() {}
	}
	logger.Info("invoice register and idempotency keys configured with postgres")
	return orderspostgres.NewInvoiceRegister(db, cfg.InvoicePrefix), orderspostgres.NewIdempotencyStore(db), cleanup
}

func buildEventPublisher(cfg Config, logger *slog.Logger) (ordersports.EventPublisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("KAFKA_BROKERS not set, order events are not published")
		return orderevents.Noop{}, func() {}
	}
	producer := messaging.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	logger.Info("order events published to kafka", slog.String("topic", cfg.KafkaTopic))
	return orderevents.NewKafkaPublisher(producer), func() {
		if err := producer.Close(); err != nil {
			logger.Warn("failed to close kafka producer", slog.String("error", err.Error()))
		}
	}
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
