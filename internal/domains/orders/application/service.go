package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	types "github.com/Apurer/storefront-admin/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
	"github.com/Apurer/storefront-admin/internal/domains/orders/ports"
)

const (
	defaultResyncTimeout  = 15 * time.Second
	defaultPublishTimeout = 2 * time.Second
	defaultCurrency       = "₹"
)

var defaultTaxRate = decimal.RequireFromString("0.05")

// Service orchestrates the order fulfillment use cases.
type Service struct {
	repo     ports.Repository
	executor ports.MutationExecutor

	sellers   ports.SellerProfiles
	invoices  ports.InvoiceRegister
	events    ports.EventPublisher
	renderers map[string]ports.Renderer

	idempotency ports.IdempotencyStore

	taxRate        decimal.Decimal
	currency       string
	pageSize       domain.PageSize
	resyncTimeout  time.Duration
	publishTimeout time.Duration
	now            func() time.Time
	logger         *slog.Logger

	inflight *inflight
	resync   *resyncer
}

// Option configures the service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithSellerProfiles(sellers ports.SellerProfiles) Option {
	return func(s *Service) {
		s.sellers = sellers
	}
}

func WithInvoiceRegister(register ports.InvoiceRegister) Option {
	return func(s *Service) {
		s.invoices = register
	}
}

// WithIdempotencyStore enables replay of mutations that carry an idempotency key.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) {
		s.idempotency = store
	}
}

func WithEventPublisher(events ports.EventPublisher) Option {
	return func(s *Service) {
		s.events = events
	}
}

// WithRenderers registers document renderers by their format name. The first one is the default.
func WithRenderers(renderers ...ports.Renderer) Option {
	return func(s *Service) {
		for _, r := range renderers {
			if r == nil {
				continue
			}
			format := strings.ToLower(r.Format())
			if len(s.renderers) == 0 {
				s.renderers[""] = r
			}
			s.renderers[format] = r
		}
	}
}

// WithTaxRate sets the rate used to decompose tax-inclusive prices, e.g. 0.05.
func WithTaxRate(rate decimal.Decimal) Option {
	return func(s *Service) {
		s.taxRate = rate
	}
}

func WithCurrency(symbol string) Option {
	return func(s *Service) {
		s.currency = symbol
	}
}

func WithPageSize(size domain.PageSize) Option {
	return func(s *Service) {
		s.pageSize = size
	}
}

func WithResyncTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.resyncTimeout = timeout
		}
	}
}

// WithPublishTimeout bounds how long a mutation waits on its event publish.
func WithPublishTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.publishTimeout = timeout
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the orders service with its dependencies.
func NewService(repo ports.Repository, executor ports.MutationExecutor, opts ...Option) *Service {
	s := &Service{
		repo:           repo,
		executor:       executor,
		renderers:      map[string]ports.Renderer{},
		taxRate:        defaultTaxRate,
		currency:       defaultCurrency,
		pageSize:       domain.PageA4,
		resyncTimeout:  defaultResyncTimeout,
		publishTimeout: defaultPublishTimeout,
		now:            time.Now,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		inflight:       newInflight(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.resync = newResyncer(s.repo.Refresh, s.resyncTimeout, s.logger)
	return s
}

// ListOrders returns the cached collection, newest first.
func (s *Service) ListOrders(ctx context.Context) ([]*types.OrderProjection, error) {
	return s.repo.List(ctx)
}

// Visible returns one page of a status tab. Out-of-range pages clamp.
func (s *Service) Visible(ctx context.Context, query types.PageQuery) (*types.OrderPage, error) {
	status := domain.StatusPlaced
	if strings.TrimSpace(string(query.Status)) != "" {
		parsed, err := domain.ParseStatus(string(query.Status))
		if err != nil {
			return nil, mapError(err)
		}
		status = parsed
	}
	projections, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	byOrder := make(map[*domain.Order]*types.OrderProjection, len(projections))
	for _, p := range projections {
		byOrder[p.Entity] = p
	}
	orders := types.Orders(projections)
	page := domain.Paginate(orders, status, query.Page, domain.OrdersPerPage)
	result := &types.OrderPage{
		Status:     page.Status,
		Number:     page.Number,
		Size:       page.Size,
		TotalPages: page.TotalPages,
		TotalCount: page.TotalCount,
		Orders:     make([]*types.OrderProjection, 0, len(page.Orders)),
		Counts:     domain.CountByStatus(orders),
	}
	for _, o := range page.Orders {
		result.Orders = append(result.Orders, byOrder[o])
	}
	return result, nil
}

// GetOrder returns one order together with the actions still open to it.
func (s *Service) GetOrder(ctx context.Context, id string) (*types.OrderDetail, error) {
	projection, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &types.OrderDetail{
		Order:         projection,
		Transitions:   domain.NextTransitions(projection.Entity.Status),
		PaymentLocked: projection.Entity.CanTogglePayment() != nil,
	}, nil
}

// Refresh forces a reload from the order backend.
func (s *Service) Refresh(ctx context.Context) error {
	return s.repo.Refresh(ctx)
}

// Transition moves an order along the fulfillment graph. Illegal moves never reach the backend.
func (s *Service) Transition(ctx context.Context, input types.TransitionInput) (*types.OrderProjection, error) {
	target, err := domain.ParseStatus(string(input.Status))
	if err != nil {
		return nil, mapError(err)
	}
	release, err := s.guard(input.OrderID)
	if err != nil {
		return nil, err
	}
	defer release()

	// Loaded under the guard so validation never sees a snapshot older than the last mutation.
	current, err := s.load(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	order := current.Entity
	patch := types.OrderPatch{Status: &target}
	hash, replay, err := s.replayed(ctx, input.IdempotencyKey, order.ID, patch)
	if err != nil {
		return nil, err
	}
	if replay {
		return current, nil
	}
	if err := domain.ValidateTransition(order.Status, target); err != nil {
		return nil, mapError(err)
	}
	patched, err := s.mutate(ctx, order.ID, patch, func(ctx context.Context) error {
		return s.executor.SetStatus(ctx, order.ID, target)
	})
	if err != nil {
		return nil, err
	}
	s.remember(ctx, input.IdempotencyKey, order.ID, hash)
	s.publish(ctx, domain.OrderStatusChanged{
		BaseEvent:  domain.BaseEvent{OrderID: order.ID, Timestamp: s.now()},
		FromStatus: order.Status,
		ToStatus:   target,
	})
	return patched, nil
}

// SetPayment marks payment collected or not. Cancelled orders are locked.
// Setting the current value again still goes to the backend.
func (s *Service) SetPayment(ctx context.Context, input types.PaymentInput) (*types.OrderProjection, error) {
	release, err := s.guard(input.OrderID)
	if err != nil {
		return nil, err
	}
	defer release()

	current, err := s.load(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	order := current.Entity
	paid := input.Paid
	patch := types.OrderPatch{Payment: &paid}
	hash, replay, err := s.replayed(ctx, input.IdempotencyKey, order.ID, patch)
	if err != nil {
		return nil, err
	}
	if replay {
		return current, nil
	}
	if err := order.CanTogglePayment(); err != nil {
		return nil, mapError(err)
	}
	patched, err := s.mutate(ctx, order.ID, patch, func(ctx context.Context) error {
		return s.executor.SetPayment(ctx, order.ID, paid)
	})
	if err != nil {
		return nil, err
	}
	s.remember(ctx, input.IdempotencyKey, order.ID, hash)
	s.publish(ctx, domain.OrderPaymentChanged{
		BaseEvent: domain.BaseEvent{OrderID: order.ID, Timestamp: s.now()},
		Paid:      paid,
	})
	return patched, nil
}

// Invoice computes the tax breakdown of one order.
func (s *Service) Invoice(ctx context.Context, id string) (*types.InvoiceView, error) {
	projection, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	breakdown, err := domain.ComputeInvoice(projection.Entity, s.taxRate)
	if err != nil {
		return nil, mapError(err)
	}
	return &types.InvoiceView{Order: projection.Entity, Breakdown: breakdown, Currency: s.currency}, nil
}

// Waybill composes the shipment label and tax invoice of one order and renders it.
func (s *Service) Waybill(ctx context.Context, input types.WaybillInput) (*types.Waybill, error) {
	renderer, ok := s.renderers[strings.ToLower(strings.TrimSpace(input.Format))]
	if !ok {
		return nil, fmt.Errorf("%w: %w %q", ErrInvalidInput, ports.ErrUnsupportedFormat, input.Format)
	}
	view, err := s.Invoice(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	seller, err := s.sellerProfile(ctx)
	if err != nil {
		return nil, err
	}
	issuedAt := s.now()
	invoiceNumber := ""
	if s.invoices != nil {
		record, err := s.invoices.Issue(ctx, view.Order, view.Breakdown)
		if err != nil {
			return nil, fmt.Errorf("issue invoice number: %w", err)
		}
		invoiceNumber = record.Number
		issuedAt = record.IssuedAt
	}
	layout := domain.ComposeWaybill(view.Order, seller, view.Breakdown, domain.WaybillMeta{
		InvoiceNumber: invoiceNumber,
		InvoiceDate:   issuedAt,
		Currency:      s.currency,
		PageSize:      s.pageSize,
	})
	doc, err := renderer.Render(ctx, layout)
	if err != nil {
		return nil, fmt.Errorf("render waybill: %w", err)
	}
	return &types.Waybill{
		Layout:      layout,
		ContentType: doc.ContentType,
		Filename:    fmt.Sprintf("waybill-%s.%s", view.Order.DisplayNumber(), doc.Extension),
		Body:        doc.Body,
		IssuedAt:    issuedAt,
	}, nil
}

// WaitIdle blocks until background resyncs have finished.
func (s *Service) WaitIdle() {
	s.resync.wait()
}

func (s *Service) load(ctx context.Context, id string) (*types.OrderProjection, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, mapError(domain.ErrEmptyOrderID)
	}
	projection, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return projection, nil
}

// guard claims the per-order in-flight slot. The caller must hold it from load to patch.
func (s *Service) guard(id string) (func(), error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, mapError(domain.ErrEmptyOrderID)
	}
	if !s.inflight.acquire(id) {
		return nil, fmt.Errorf("%w: %w: %s", ErrRejected, ErrMutationInFlight, id)
	}
	return func() { s.inflight.release(id) }, nil
}

// mutate runs one backend call; the caller holds the order's guard. Success patches the cache and
// schedules a resync; failure forces an immediate resync instead of rolling back.
func (s *Service) mutate(ctx context.Context, id string, patch types.OrderPatch, call func(context.Context) error) (*types.OrderProjection, error) {
	// The operator cannot abort a mutation once sent.
	detached := context.WithoutCancel(ctx)
	if err := call(detached); err != nil {
		if errors.Is(err, ports.ErrMutationConflict) {
			return nil, fmt.Errorf("%w: %w: %w", ErrRejected, ErrMutationInFlight, err)
		}
		refreshCtx, cancel := context.WithTimeout(detached, s.resyncTimeout)
		defer cancel()
		return nil, mutationFailed(err, s.repo.Refresh(refreshCtx))
	}

	patched, err := s.repo.Patch(detached, id, patch)
	s.resync.schedule(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return patched, nil
}

// sellerProfile degrades to an empty profile; only a refused credential is surfaced.
func (s *Service) sellerProfile(ctx context.Context) (domain.SellerProfile, error) {
	if s.sellers == nil {
		return domain.SellerProfile{}, nil
	}
	profile, err := s.sellers.GetSellerProfile(ctx)
	if err == nil {
		return profile, nil
	}
	if errors.Is(err, ports.ErrUnauthorized) {
		return domain.SellerProfile{}, err
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, "seller profile unavailable, composing without it", slog.String("error", err.Error()))
	return domain.SellerProfile{}, nil
}

func (s *Service) publish(ctx context.Context, event domain.Event) {
	if s.events == nil {
		return
	}
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()
	if err := s.events.Publish(publishCtx, event); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish order event",
			slog.String("event", event.EventName()),
			slog.String("order.id", event.AggregateID()),
			slog.String("error", err.Error()))
	}
}

var _ ports.Service = (*Service)(nil)
