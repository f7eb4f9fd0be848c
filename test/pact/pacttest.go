//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// Admin console contract: the admin UI consuming this service.
const (
	ProviderName = "storefront-admin-api"
	ConsumerName = "admin-ui"

	StateOrdersBaseline    = "orders baseline"
	StatePlacedOrderExists = "placed order o-101 exists"
	StateCancelledOrder    = "cancelled order o-202 exists"
	StateOrderMissing      = "no order with id o-404"
)

// Backend contract: this service consuming the storefront order backend.
const (
	BackendProviderName = "order-backend"
	BackendConsumerName = "storefront-admin-api"

	StateBackendOrders  = "the seller has orders"
	StateBackendProfile = "the seller has a profile"
	StateBackendExpired = "the seller token is expired"
)

const (
	PlacedOrderID    = "o-101"
	CancelledOrderID = "o-202"
	MissingOrderID   = "o-404"
	OperatorToken    = "Bearer pact-operator-token"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the admin UI consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleBackendOrder is one order as the storefront backend serialises it.
func ExampleBackendOrder() map[string]any {
	return map[string]any{
		"_id":           PlacedOrderID,
		"orderNumber":   "ORD-1001",
		"status":        "Order Placed",
		"payment":       false,
		"paymentMethod": "COD",
		"amount":        250,
		"createdAt":     "2024-06-12T10:00:00Z",
		"items": []map[string]any{{
			"name":     "Cotton Kurta",
			"code":     "KT-1",
			"color":    "Indigo",
			"size":     "M",
			"quantity": 2,
			"price":    105,
		}},
		"address": map[string]any{
			"fullName":    "Asha Rao",
			"addressLine": "12 MG Road",
			"city":        "Bengaluru",
			"state":       "Karnataka",
			"pincode":     "560001",
			"country":     "India",
			"phone":       "+919800000000",
		},
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
