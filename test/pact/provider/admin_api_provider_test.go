//go:build pact
// +build pact

package provider_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	adminserver "github.com/Apurer/storefront-admin/go"
	"github.com/Apurer/storefront-admin/internal/domains/orders/adapters/memory"
	ordersobs "github.com/Apurer/storefront-admin/internal/domains/orders/adapters/observability"
	"github.com/Apurer/storefront-admin/internal/domains/orders/adapters/render"
	"github.com/Apurer/storefront-admin/internal/domains/orders/adapters/workflows"
	"github.com/Apurer/storefront-admin/internal/domains/orders/application"
	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
	"github.com/Apurer/storefront-admin/internal/shared/auth"
	pacttest "github.com/Apurer/storefront-admin/test/pact"
)

func TestAdminAPIProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app := newContractProviderApp(t)
	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	seed := func(orders ...*domain.Order) models.StateHandler {
		return func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			if setup {
				return nil, app.reset(orders...)
			}
			return nil, nil
		}
	}

	verifier := pactprovider.NewVerifier()
	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: app.server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers: models.StateHandlers{
			pacttest.StateOrdersBaseline:    seed(exampleOrder(pacttest.PlacedOrderID, domain.StatusPlaced)),
			pacttest.StatePlacedOrderExists: seed(exampleOrder(pacttest.PlacedOrderID, domain.StatusPlaced)),
			pacttest.StateCancelledOrder:    seed(exampleOrder(pacttest.CancelledOrderID, domain.StatusCancelled)),
			pacttest.StateOrderMissing:      seed(),
		},
		BeforeEach: func() error {
			app.service.WaitIdle()
			return nil
		},
	})
	require.NoError(t, err)
}

type contractProviderApp struct {
	backend *stateBackend
	service *application.Service
	server  *httptest.Server
}

func newContractProviderApp(t testing.TB) *contractProviderApp {
	t.Helper()

	backend := &stateBackend{}
	service := application.NewService(
		memory.NewRepository(backend),
		workflows.NewInlineExecutor(backend, workflows.DefaultRetryPolicy),
		application.WithSellerProfiles(backend),
		application.WithInvoiceRegister(memory.NewInvoiceRegister("INV")),
		application.WithRenderers(render.NewYAMLRenderer(), render.NewJSONRenderer(), render.NewHTMLRenderer()),
	)

	router := gin.New()
	router.Use(gin.Recovery(), adminserver.RequestID(), auth.BearerForwarding(), auth.RequireBearer("/api/admin"))
	router = adminserver.NewRouterWithGinEngine(router, adminserver.ApiHandleFunctions{
		OrderAPI:  adminserver.NewOrderAPI(ordersobs.New(service)),
		SystemAPI: adminserver.NewSystemAPI(nil),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	t.Cleanup(service.WaitIdle)

	return &contractProviderApp{backend: backend, service: service, server: server}
}

// reset replaces the backend's orders and reloads the admin cache from them.
func (a *contractProviderApp) reset(orders ...*domain.Order) error {
	a.service.WaitIdle()
	a.backend.set(orders)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.service.Refresh(ctx)
}

func exampleOrder(id string, status domain.Status) *domain.Order {
	return &domain.Order{
		ID:            id,
		OrderNumber:   "ORD-1001",
		Status:        status,
		PaymentMethod: "COD",
		Amount:        decimal.RequireFromString("250"),
		Items:         []domain.Item{{Name: "Cotton Kurta", Code: "KT-1", Quantity: 2, Price: decimal.RequireFromString("105")}},
		CreatedAt:     time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC),
	}
}

// stateBackend stands in for the storefront order backend with provider-state seeded orders.
type stateBackend struct {
	mu     sync.Mutex
	orders []*domain.Order
}

func (b *stateBackend) set(orders []*domain.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders = b.orders[:0]
	for _, o := range orders {
		b.orders = append(b.orders, o.Clone())
	}
}

func (b *stateBackend) ListOrders(context.Context) ([]*domain.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*domain.Order, 0, len(b.orders))
	for _, o := range b.orders {
		out = append(out, o.Clone())
	}
	return out, nil
}

func (b *stateBackend) SetOrderStatus(_ context.Context, id string, status domain.Status) error {
	return b.update(id, func(o *domain.Order) { o.Status = status })
}

func (b *stateBackend) SetPaymentStatus(_ context.Context, id string, paid bool) error {
	return b.update(id, func(o *domain.Order) { o.Payment = paid })
}

func (b *stateBackend) GetSellerProfile(context.Context) (domain.SellerProfile, error) {
	return domain.SellerProfile{ShopName: "Loom & Co", TaxID: "29ABCDE1234F1Z5"}, nil
}

func (b *stateBackend) update(id string, apply func(*domain.Order)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, o := range b.orders {
		if o.ID == id {
			apply(o)
		}
	}
	return nil
}
