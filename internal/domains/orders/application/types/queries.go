package types

import (
	"time"

	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
)

// PageQuery selects one visible page of orders in a status tab.
type PageQuery struct {
	Status domain.Status
	Page   int
}

// OrderPage is the visible slice of a status tab plus counts for every tab.
type OrderPage struct {
	Status     domain.Status
	Number     int
	Size       int
	TotalPages int
	TotalCount int
	Orders     []*OrderProjection
	Counts     map[domain.Status]int
}

// OrderDetail is one order with the actions the console may offer for it.
type OrderDetail struct {
	Order         *OrderProjection
	Transitions   []domain.Transition
	PaymentLocked bool
}

// InvoiceView is the tax breakdown of one order.
type InvoiceView struct {
	Order     *domain.Order
	Breakdown domain.InvoiceBreakdown
	Currency  string
}

// WaybillInput asks for a rendered shipment document.
type WaybillInput struct {
	OrderID string
	Format  string
}

// Waybill is a composed layout plus its rendered form.
type Waybill struct {
	Layout      domain.DocumentLayout
	ContentType string
	Filename    string
	Body        []byte
	IssuedAt    time.Time
}
