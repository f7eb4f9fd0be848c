package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	orderclient "github.com/Apurer/storefront-admin/internal/clients/http/orderbackend"
	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
	"github.com/Apurer/storefront-admin/internal/domains/orders/ports"
	"github.com/Apurer/storefront-admin/internal/shared/auth"
)

func newGateway(t *testing.T, handler http.HandlerFunc, token string) *Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := orderclient.NewClient(srv.URL, srv.Client())
	require.NoError(t, err)
	return NewGateway(client, token)
}

func TestGateway_ListOrdersNewestFirst(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer ctx-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"orders": []map[string]any{
				{"_id": "old", "status": "Order Placed", "amount": 100, "createdAt": "2024-01-01T00:00:00Z"},
				{"_id": "new", "status": "Dispatched", "amount": "250.50", "date": 1717200000000,
					"items": []map[string]any{{"name": "Kurta", "quantity": 2, "price": 105}}},
			},
		})
	}, "static")

	ctx := auth.WithToken(context.Background(), "ctx-token")
	orders, err := gw.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Equal(t, "new", orders[0].ID)
	require.Equal(t, domain.StatusDispatched, orders[0].Status)
	require.Equal(t, "250.5", orders[0].Amount.String())
	require.Len(t, orders[0].Items, 1)
	require.False(t, orders[0].Date.IsZero())
	require.Equal(t, "old", orders[1].ID)
}

func TestGateway_FallsBackToStaticToken(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer static", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true}`))
	}, "static")

	require.NoError(t, gw.SetPaymentStatus(context.Background(), "o-1", true))
}

func TestGateway_MissingTokenSkipsCall(t *testing.T) {
	var calls atomic.Int32
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}, "")

	err := gw.SetOrderStatus(context.Background(), "o-1", domain.StatusDispatched)
	require.ErrorIs(t, err, ports.ErrUnauthorized)
	require.Zero(t, calls.Load())
}

func TestGateway_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"success":false,"message":"token expired"}`, ports.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ``, ports.ErrUnauthorized},
		{"server error", http.StatusBadGateway, `oops`, ports.ErrBackendUnavailable},
		{"throttled", http.StatusTooManyRequests, ``, ports.ErrBackendUnavailable},
		{"bad request", http.StatusBadRequest, `{"success":false,"message":"bad id"}`, ports.ErrBackendRejected},
		{"soft failure", http.StatusOK, `{"success":false,"message":"Order not found"}`, ports.ErrBackendRejected},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}, "static")
			err := gw.SetOrderStatus(context.Background(), "o-1", domain.StatusDelivered)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestGateway_TransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client, err := orderclient.NewClient(srv.URL, srv.Client())
	require.NoError(t, err)
	srv.Close()

	_, err = NewGateway(client, "static").ListOrders(context.Background())
	require.ErrorIs(t, err, ports.ErrBackendUnavailable)
}

func TestGateway_SellerProfile(t *testing.T) {
	gw := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/seller/profile", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"profile":{"shopName":"Loom & Co","gstin":"29ABCDE1234F1Z5","city":"Surat"}}`))
	}, "static")

	profile, err := gw.GetSellerProfile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Loom & Co", profile.ShopName)
	require.Equal(t, "29ABCDE1234F1Z5", profile.TaxID)
}

func TestToDomain_KeepsUnknownStatusVerbatim(t *testing.T) {
	order := ToDomain(orderclient.OrderPayload{ID: "x", Status: "Returned"})
	require.Equal(t, domain.Status("Returned"), order.Status)
	require.False(t, order.Status.IsValid())
}
