package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/storefront-admin/internal/domains/orders/application"
	types "github.com/Apurer/storefront-admin/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
	"github.com/Apurer/storefront-admin/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/storefront-admin/internal/domains/orders/adapters/observability/service"

// Service decorates the orders application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) ListOrders(ctx context.Context) ([]*types.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.ListOrders")
	defer span.End()

	result, err := s.inner.ListOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result)))
	return result, nil
}

// Visible serves one page of a status tab.
func (s *Service) Visible(ctx context.Context, query types.PageQuery) (*types.OrderPage, error) {
	ctx, span := s.startSpan(ctx, "Service.Visible",
		attribute.String("order.status", string(query.Status)),
		attribute.Int("page.requested", query.Page),
	)
	defer span.End()

	result, err := s.inner.Visible(ctx, query)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to page orders", slog.String("status", string(query.Status)))
	}
	span.SetAttributes(
		attribute.Int("page.number", result.Number),
		attribute.Int("page.total", result.TotalPages),
		attribute.Int("order.result.count", len(result.Orders)),
	)
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*types.OrderDetail, error) {
	ctx, span := s.startSpan(ctx, "Service.GetOrder", attribute.String("order.id", id))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id))
	}
	return result, nil
}

// Refresh reloads the cache from the order backend.
func (s *Service) Refresh(ctx context.Context) error {
	ctx, span := s.startSpan(ctx, "Service.Refresh")
	defer span.End()

	s.logInfo(ctx, "refreshing orders")
	if err := s.inner.Refresh(ctx); err != nil {
		return s.handleError(ctx, span, err, "failed to refresh orders")
	}
	s.metrics.recordRefreshed(ctx)
	return nil
}

// Transition moves an order along its lifecycle.
func (s *Service) Transition(ctx context.Context, input types.TransitionInput) (*types.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.Transition",
		attribute.String("order.id", input.OrderID),
		attribute.String("order.status.target", string(input.Status)),
	)
	defer span.End()

	s.logInfo(ctx, "transitioning order", slog.String("order.id", input.OrderID), slog.String("target", string(input.Status)))
	result, err := s.inner.Transition(ctx, input)
	if err != nil {
		s.metrics.recordRejected(ctx, "transition", err)
		return nil, s.handleError(ctx, span, err, "failed to transition order", slog.String("order.id", input.OrderID))
	}
	if result != nil && result.Entity != nil {
		s.metrics.recordTransitioned(ctx, result.Entity.Status)
		s.logInfo(ctx, "order transitioned", slog.String("order.id", input.OrderID), slog.String("status", string(result.Entity.Status)))
	}
	return result, nil
}

// SetPayment toggles the payment flag.
func (s *Service) SetPayment(ctx context.Context, input types.PaymentInput) (*types.OrderProjection, error) {
	ctx, span := s.startSpan(ctx, "Service.SetPayment",
		attribute.String("order.id", input.OrderID),
		attribute.Bool("order.payment.target", input.Paid),
	)
	defer span.End()

	s.logInfo(ctx, "setting payment", slog.String("order.id", input.OrderID), slog.Bool("paid", input.Paid))
	result, err := s.inner.SetPayment(ctx, input)
	if err != nil {
		s.metrics.recordRejected(ctx, "payment", err)
		return nil, s.handleError(ctx, span, err, "failed to set payment", slog.String("order.id", input.OrderID))
	}
	s.metrics.recordPaymentToggled(ctx, input.Paid)
	return result, nil
}

func (s *Service) Invoice(ctx context.Context, id string) (*types.InvoiceView, error) {
	ctx, span := s.startSpan(ctx, "Service.Invoice", attribute.String("order.id", id))
	defer span.End()

	result, err := s.inner.Invoice(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to compute invoice", slog.String("order.id", id))
	}
	return result, nil
}

// Waybill composes and renders the shipment document.
func (s *Service) Waybill(ctx context.Context, input types.WaybillInput) (*types.Waybill, error) {
	ctx, span := s.startSpan(ctx, "Service.Waybill",
		attribute.String("order.id", input.OrderID),
		attribute.String("document.format", input.Format),
	)
	defer span.End()

	result, err := s.inner.Waybill(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to generate waybill", slog.String("order.id", input.OrderID))
	}
	span.SetAttributes(attribute.String("document.content_type", result.ContentType), attribute.Int("document.bytes", len(result.Body)))
	s.metrics.recordWaybill(ctx, result.ContentType)
	s.logInfo(ctx, "waybill generated", slog.String("order.id", input.OrderID), slog.String("invoice", result.Layout.Invoice.InvoiceNumber))
	return result, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, level slog.Level, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

// handleError records err on the span. Caller mistakes log at warn, everything else at error.
func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	level := slog.LevelError
	if isCallerError(err) {
		level = slog.LevelWarn
	}
	s.logError(ctx, level, msg, err, attrs...)
	return err
}

func isCallerError(err error) bool {
	return errors.Is(err, application.ErrRejected) ||
		errors.Is(err, application.ErrInvalidInput) ||
		errors.Is(err, ports.ErrNotFound)
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	transitions    metric.Int64Counter
	paymentToggles metric.Int64Counter
	rejections     metric.Int64Counter
	waybills       metric.Int64Counter
	refreshes      metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	transitions, _ := m.Int64Counter("orders.service.transitions", metric.WithDescription("Number of confirmed status transitions"))
	paymentToggles, _ := m.Int64Counter("orders.service.payment_toggles", metric.WithDescription("Number of confirmed payment flag changes"))
	rejections, _ := m.Int64Counter("orders.service.rejections", metric.WithDescription("Number of mutations refused before or by the backend"))
	waybills, _ := m.Int64Counter("orders.service.waybills", metric.WithDescription("Number of waybills generated"))
	refreshes, _ := m.Int64Counter("orders.service.refreshes", metric.WithDescription("Number of explicit cache refreshes"))
	return serviceMetrics{
		transitions:    transitions,
		paymentToggles: paymentToggles,
		rejections:     rejections,
		waybills:       waybills,
		refreshes:      refreshes,
	}
}

func (m serviceMetrics) recordTransitioned(ctx context.Context, status domain.Status) {
	addCounter(ctx, m.transitions, 1, attribute.String("order.status", string(status)))
}

func (m serviceMetrics) recordPaymentToggled(ctx context.Context, paid bool) {
	addCounter(ctx, m.paymentToggles, 1, attribute.Bool("order.paid", paid))
}

func (m serviceMetrics) recordRejected(ctx context.Context, operation string, err error) {
	reason := "failed"
	switch {
	case errors.Is(err, application.ErrMutationInFlight):
		reason = "in_flight"
	case errors.Is(err, application.ErrRejected):
		reason = "rejected"
	case errors.Is(err, application.ErrInvalidInput):
		reason = "invalid"
	case errors.Is(err, ports.ErrNotFound):
		reason = "not_found"
	}
	addCounter(ctx, m.rejections, 1, attribute.String("operation", operation), attribute.String("reason", reason))
}

func (m serviceMetrics) recordWaybill(ctx context.Context, contentType string) {
	addCounter(ctx, m.waybills, 1, attribute.String("document.content_type", contentType))
}

func (m serviceMetrics) recordRefreshed(ctx context.Context) {
	addCounter(ctx, m.refreshes, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
