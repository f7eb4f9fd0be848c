package adminserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	ordermapper "github.com/Apurer/storefront-admin/internal/domains/orders/adapters/http/mapper"
	types "github.com/Apurer/storefront-admin/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
	"github.com/Apurer/storefront-admin/internal/domains/orders/ports"
	apierrors "github.com/Apurer/storefront-admin/internal/shared/errors"
)

// idempotencyKeyHeader lets the console retry a mutation without sending it twice.
const idempotencyKeyHeader = "Idempotency-Key"

// OrderAPI wires HTTP transport with the orders bounded context service.
type OrderAPI struct {
	service ports.Service
}

// NewOrderAPI creates an OrderAPI backed by the provided service.
func NewOrderAPI(service ports.Service) OrderAPI {
	return OrderAPI{service: service}
}

// Get /api/admin/orders
// Lists one page of orders in a status tab
func (api *OrderAPI) ListOrders(c *gin.Context) {
	var status string
	if err := runtime.BindQueryParameter("form", true, false, "status", c.Request.URL.Query(), &status); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	page := 1
	if err := runtime.BindQueryParameter("form", true, false, "page", c.Request.URL.Query(), &page); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	result, err := api.service.Visible(c.Request.Context(), types.PageQuery{Status: domain.Status(status), Page: page})
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromPage(result))
}

// Post /api/admin/orders/refresh
// Reloads the order cache from the order backend
func (api *OrderAPI) RefreshOrders(c *gin.Context) {
	if err := api.service.Refresh(c.Request.Context()); err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /api/admin/orders/:orderId
// Finds an order with the actions available for it
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}
	detail, err := api.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDetail(detail))
}

// Post /api/admin/orders/:orderId/status
// Moves an order along its fulfillment lifecycle
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}
	var payload ordermapper.StatusUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.FromBindingError(err))
		return
	}
	updated, err := api.service.Transition(c.Request.Context(), types.TransitionInput{OrderID: id, Status: domain.Status(payload.Status), IdempotencyKey: c.GetHeader(idempotencyKeyHeader)})
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromProjection(updated))
}

// Post /api/admin/orders/:orderId/payment
// Sets the payment flag of an order
func (api *OrderAPI) UpdateOrderPayment(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}
	var payload ordermapper.PaymentUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.FromBindingError(err))
		return
	}
	updated, err := api.service.SetPayment(c.Request.Context(), types.PaymentInput{OrderID: id, Paid: *payload.Payment, IdempotencyKey: c.GetHeader(idempotencyKeyHeader)})
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromProjection(updated))
}

// Get /api/admin/orders/:orderId/invoice
// Returns the tax decomposition of an order
func (api *OrderAPI) GetOrderInvoice(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}
	view, err := api.service.Invoice(c.Request.Context(), id)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromInvoice(view))
}

// Get /api/admin/orders/:orderId/waybill
// Renders the shipping label and tax invoice
func (api *OrderAPI) GetOrderWaybill(c *gin.Context) {
	id, ok := parseOrderID(c)
	if !ok {
		return
	}
	var format string
	if err := runtime.BindQueryParameter("form", true, false, "format", c.Request.URL.Query(), &format); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	waybill, err := api.service.Waybill(c.Request.Context(), types.WaybillInput{OrderID: id, Format: format})
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", waybill.Filename))
	c.Header("X-Invoice-Number", waybill.Layout.Invoice.InvoiceNumber)
	c.Header("X-Page-Size", waybill.Layout.PageSize.Name)
	c.Header("X-Page-Dimensions-Mm", strconv.FormatFloat(waybill.Layout.PageSize.WidthMM, 'f', -1, 64)+"x"+strconv.FormatFloat(waybill.Layout.PageSize.HeightMM, 'f', -1, 64))
	if !waybill.IssuedAt.IsZero() {
		c.Header("Last-Modified", waybill.IssuedAt.UTC().Format(http.TimeFormat))
	}
	c.Data(http.StatusOK, waybill.ContentType, waybill.Body)
}

func parseOrderID(c *gin.Context) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "orderId", c.Param("orderId"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil || id == "" {
		detail := "orderId is required"
		if err != nil {
			detail = err.Error()
		}
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(detail))
		return "", false
	}
	return id, true
}
