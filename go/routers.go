// Package adminserver exposes the order fulfillment core over HTTP.
package adminserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router with recovery and the default middleware chain.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID())
	return NewRouterWithGinEngine(router, handleFunctions)
}

// NewRouterWithGinEngine registers the routes on an engine the caller already configured with middleware.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes that have no handler wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// ApiHandleFunctions groups the handler sets served by the router.
type ApiHandleFunctions struct {
	// Routes for the order group
	OrderAPI OrderAPI
	// Routes for the system group
	SystemAPI SystemAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"ListOrders",
			http.MethodGet,
			"/api/admin/orders",
			handleFunctions.OrderAPI.ListOrders,
		},
		{
			"RefreshOrders",
			http.MethodPost,
			"/api/admin/orders/refresh",
			handleFunctions.OrderAPI.RefreshOrders,
		},
		{
			"GetOrder",
			http.MethodGet,
			"/api/admin/orders/:orderId",
			handleFunctions.OrderAPI.GetOrder,
		},
		{
			"UpdateOrderStatus",
			http.MethodPost,
			"/api/admin/orders/:orderId/status",
			handleFunctions.OrderAPI.UpdateOrderStatus,
		},
		{
			"UpdateOrderPayment",
			http.MethodPost,
			"/api/admin/orders/:orderId/payment",
			handleFunctions.OrderAPI.UpdateOrderPayment,
		},
		{
			"GetOrderInvoice",
			http.MethodGet,
			"/api/admin/orders/:orderId/invoice",
			handleFunctions.OrderAPI.GetOrderInvoice,
		},
		{
			"GetOrderWaybill",
			http.MethodGet,
			"/api/admin/orders/:orderId/waybill",
			handleFunctions.OrderAPI.GetOrderWaybill,
		},
		{
			"Healthz",
			http.MethodGet,
			"/healthz",
			handleFunctions.SystemAPI.Healthz,
		},
		{
			"Metrics",
			http.MethodGet,
			"/metrics",
			handleFunctions.SystemAPI.Metrics,
		},
	}
}
