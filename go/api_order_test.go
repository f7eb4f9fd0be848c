package adminserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-admin/internal/domains/orders/adapters/memory"
	"github.com/Apurer/storefront-admin/internal/domains/orders/adapters/render"
	"github.com/Apurer/storefront-admin/internal/domains/orders/adapters/workflows"
	"github.com/Apurer/storefront-admin/internal/domains/orders/application"
	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
	"github.com/Apurer/storefront-admin/internal/domains/orders/ports"
	"github.com/Apurer/storefront-admin/internal/shared/auth"
)

type fakeBackend struct {
	mu      sync.Mutex
	orders  []*domain.Order
	fail    error
	tokens  []string
	profile domain.SellerProfile
}

func (b *fakeBackend) record(ctx context.Context) {
	b.tokens = append(b.tokens, auth.TokenFrom(ctx))
}

func (b *fakeBackend) GetSellerProfile(ctx context.Context) (domain.SellerProfile, error) {
	return b.profile, nil
}

func (b *fakeBackend) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(ctx)
	out := make([]*domain.Order, 0, len(b.orders))
	for _, o := range b.orders {
		out = append(out, o.Clone())
	}
	return out, nil
}

func (b *fakeBackend) SetOrderStatus(ctx context.Context, id string, status domain.Status) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(ctx)
	if b.fail != nil {
		return b.fail
	}
	for _, o := range b.orders {
		if o.ID == id {
			o.Status = status
		}
	}
	return nil
}

func (b *fakeBackend) SetPaymentStatus(ctx context.Context, id string, paid bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(ctx)
	if b.fail != nil {
		return b.fail
	}
	for _, o := range b.orders {
		if o.ID == id {
			o.Payment = paid
		}
	}
	return nil
}

func seedBackend() *fakeBackend {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	backend := &fakeBackend{profile: domain.SellerProfile{ShopName: "Loom & Co", TaxID: "29ABCDE1234F1Z5"}}
	for i := 0; i < 8; i++ {
		backend.orders = append(backend.orders, &domain.Order{
			ID:            fmt.Sprintf("o-%d", i),
			OrderNumber:   fmt.Sprintf("ORD-%d", 1000+i),
			Status:        domain.StatusPlaced,
			PaymentMethod: "COD",
			Amount:        decimal.RequireFromString("250"),
			Items:         []domain.Item{{Name: "Kurta", Code: "KT-1", Quantity: 2, Price: decimal.RequireFromString("105")}},
			CreatedAt:     at.Add(time.Duration(i) * time.Hour),
		})
	}
	backend.orders[7].Status = domain.StatusCancelled
	return backend
}

func newTestRouter(t *testing.T, backend *fakeBackend) (*gin.Engine, *application.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	service := application.NewService(
		memory.NewRepository(backend),
		workflows.NewInlineExecutor(backend, workflows.RetryPolicy{MaxAttempts: 1}),
		application.WithSellerProfiles(backend),
		application.WithInvoiceRegister(memory.NewInvoiceRegister("INV")),
		application.WithIdempotencyStore(memory.NewIdempotencyStore()),
		application.WithRenderers(render.NewYAMLRenderer(), render.NewJSONRenderer()),
	)
	t.Cleanup(service.WaitIdle)
	router := gin.New()
	router.Use(RequestID(), auth.BearerForwarding(), auth.RequireBearer("/api/admin"))
	return NewRouterWithGinEngine(router, ApiHandleFunctions{
		OrderAPI:  NewOrderAPI(service),
		SystemAPI: NewSystemAPI(http.NotFoundHandler()),
	}), service
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer operator-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestListOrders_DefaultTabFirstPage(t *testing.T) {
	router, _ := newTestRouter(t, seedBackend())

	rec := do(router, http.MethodGet, "/api/admin/orders", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	var page struct {
		Status     string           `json:"status"`
		Page       int              `json:"page"`
		TotalPages int              `json:"totalPages"`
		Orders     []map[string]any `json:"orders"`
		Counts     map[string]int   `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Equal(t, "Order Placed", page.Status)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Orders, domain.OrdersPerPage)
	require.Equal(t, 7, page.Counts["Order Placed"])
	require.Equal(t, 1, page.Counts["Cancelled"])
}

func TestListOrders_ClampsPageAndRejectsBadPage(t *testing.T) {
	router, _ := newTestRouter(t, seedBackend())

	rec := do(router, http.MethodGet, "/api/admin/orders?status=Order%20Placed&page=99", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"page":2`)

	rec = do(router, http.MethodGet, "/api/admin/orders?page=two", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestUpdateOrderStatus_LegalAndIllegal(t *testing.T) {
	backend := seedBackend()
	router, service := newTestRouter(t, backend)

	rec := do(router, http.MethodPost, "/api/admin/orders/o-1/status", `{"status":"Dispatched"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"Dispatched"`)
	service.WaitIdle()
	require.Contains(t, backend.tokens, "operator-token")

	rec = do(router, http.MethodPost, "/api/admin/orders/o-7/status", `{"status":"Dispatched"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "illegal_transition")

	rec = do(router, http.MethodPost, "/api/admin/orders/o-1/status", `{"status":"Shipped"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(router, http.MethodPost, "/api/admin/orders/o-1/status", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateOrderStatus_IdempotencyKeyReplays(t *testing.T) {
	backend := seedBackend()
	router, service := newTestRouter(t, backend)

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/orders/o-3/status", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer operator-token")
		req.Header.Set("Idempotency-Key", "dispatch-o-3")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, send(`{"status":"Dispatched"}`).Code)
	service.WaitIdle()
	calls := len(backend.tokens)

	rec := send(`{"status":"Dispatched"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"Dispatched"`)
	require.Len(t, backend.tokens, calls)

	rec = send(`{"status":"Cancelled"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "idempotency_conflict")
}

func TestUpdateOrderPayment(t *testing.T) {
	router, _ := newTestRouter(t, seedBackend())

	rec := do(router, http.MethodPost, "/api/admin/orders/o-2/payment", `{"payment":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"paymentLabel":"Paid"`)

	rec = do(router, http.MethodPost, "/api/admin/orders/o-7/payment", `{"payment":true}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "payment_locked")

	rec = do(router, http.MethodPost, "/api/admin/orders/o-2/payment", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateOrderStatus_BackendFailureIsBadGateway(t *testing.T) {
	backend := seedBackend()
	backend.fail = fmt.Errorf("%w: refused", ports.ErrBackendRejected)
	router, _ := newTestRouter(t, backend)

	rec := do(router, http.MethodPost, "/api/admin/orders/o-1/status", `{"status":"Dispatched"}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), `"resynced":true`)

	rec = do(router, http.MethodGet, "/api/admin/orders/o-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"Order Placed"`)
}

func TestUpdateOrderStatus_UnauthorizedBackend(t *testing.T) {
	backend := seedBackend()
	backend.fail = fmt.Errorf("%w: token expired", ports.ErrUnauthorized)
	router, _ := newTestRouter(t, backend)

	rec := do(router, http.MethodPost, "/api/admin/orders/o-1/status", `{"status":"Dispatched"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetOrder_DetailAndMissing(t *testing.T) {
	router, _ := newTestRouter(t, seedBackend())

	rec := do(router, http.MethodGet, "/api/admin/orders/o-3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var detail struct {
		Transitions   []map[string]string `json:"transitions"`
		PaymentLocked bool                `json:"paymentLocked"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	require.Len(t, detail.Transitions, 2)
	require.Equal(t, "Dispatched", detail.Transitions[0]["status"])
	require.False(t, detail.PaymentLocked)

	rec = do(router, http.MethodGet, "/api/admin/orders/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetOrderInvoice(t *testing.T) {
	router, _ := newTestRouter(t, seedBackend())

	rec := do(router, http.MethodGet, "/api/admin/orders/o-1/invoice", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"totalTax":"11.90"`)
	require.Contains(t, rec.Body.String(), `"taxRatePercent":"5"`)
}

func TestGetOrderWaybill(t *testing.T) {
	router, _ := newTestRouter(t, seedBackend())

	rec := do(router, http.MethodGet, "/api/admin/orders/o-1/waybill", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	require.Equal(t, "INV-000001", rec.Header().Get("X-Invoice-Number"))
	require.Equal(t, "A4", rec.Header().Get("X-Page-Size"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), "waybill-ORD-1001.yaml")
	require.Contains(t, rec.Body.String(), "Cash on delivery")

	rec = do(router, http.MethodGet, "/api/admin/orders/o-1/waybill?format=json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "INV-000001", rec.Header().Get("X-Invoice-Number"))

	rec = do(router, http.MethodGet, "/api/admin/orders/o-1/waybill?format=pdf", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshAndSystemRoutes(t *testing.T) {
	router, _ := newTestRouter(t, seedBackend())

	rec := do(router, http.MethodPost, "/api/admin/orders/refresh", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(router, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMissingAuthorizationIsRejectedBeforeCacheRead(t *testing.T) {
	backend := seedBackend()
	router, _ := newTestRouter(t, backend)

	// Warm the cache with an operator's call first.
	require.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/admin/orders", "").Code)

	for _, path := range []string{"/api/admin/orders", "/api/admin/orders/o-1", "/api/admin/orders/o-1/invoice"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
		require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		require.NotContains(t, rec.Body.String(), "Kurta")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMalformedAuthorizationIsRejected(t *testing.T) {
	router, _ := newTestRouter(t, seedBackend())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
