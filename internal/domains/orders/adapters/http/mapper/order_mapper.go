package mapper

import (
	"time"

	types "github.com/Apurer/storefront-admin/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
)

const notAvailable = "N/A"

// StatusUpdate is the body of a status transition request.
type StatusUpdate struct {
	Status string `json:"status" binding:"required"`
}

// PaymentUpdate is the body of a payment toggle request. Payment is a pointer so false is not treated as missing.
type PaymentUpdate struct {
	Payment *bool `json:"payment" binding:"required"`
}

// Address is the HTTP representation of the shipping address.
type Address struct {
	FullName    string `json:"fullName"`
	AddressLine string `json:"addressLine"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
	Country     string `json:"country"`
	Phone       string `json:"phone"`
}

// Item is one purchased line as shown in the order detail.
type Item struct {
	Name      string `json:"name"`
	Code      string `json:"code,omitempty"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	LineTotal string `json:"lineTotal"`
}

// Order is the HTTP representation of an order projection.
type Order struct {
	ID            string     `json:"id"`
	OrderNumber   string     `json:"orderNumber"`
	Status        string     `json:"status"`
	Payment       bool       `json:"payment"`
	PaymentLabel  string     `json:"paymentLabel"`
	PaymentMethod string     `json:"paymentMethod"`
	Amount        string     `json:"amount"`
	ItemCount     int        `json:"itemCount"`
	Items         []Item     `json:"items,omitempty"`
	Address       *Address   `json:"address,omitempty"`
	OrderedAt     *time.Time `json:"orderedAt,omitempty"`
	SyncedAt      time.Time  `json:"syncedAt"`
	Optimistic    bool       `json:"optimistic"`
}

// OrderPage is one page of a status tab.
type OrderPage struct {
	Status     string         `json:"status"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
	TotalCount int            `json:"totalCount"`
	Orders     []Order        `json:"orders"`
	Counts     map[string]int `json:"counts"`
}

// TransitionOption is an action the console may offer for an order.
type TransitionOption struct {
	Status string `json:"status"`
	Action string `json:"action"`
}

// OrderDetail is an order together with its allowed actions.
type OrderDetail struct {
	Order         Order              `json:"order"`
	Transitions   []TransitionOption `json:"transitions"`
	PaymentLocked bool               `json:"paymentLocked"`
}

// InvoiceLine is a display-rounded tax line.
type InvoiceLine struct {
	Description  string `json:"description"`
	Code         string `json:"code,omitempty"`
	Quantity     int    `json:"quantity"`
	UnitPrice    string `json:"unitPrice"`
	TaxableValue string `json:"taxableValue"`
	TaxAmount    string `json:"taxAmount"`
	Gross        string `json:"gross"`
}

// Invoice is the tax breakdown of an order, rounded for display only.
type Invoice struct {
	OrderID        string        `json:"orderId"`
	Currency       string        `json:"currency"`
	TaxRatePercent string        `json:"taxRatePercent"`
	Lines          []InvoiceLine `json:"lines"`
	Shipping       InvoiceLine   `json:"shipping"`
	TotalTaxable   string        `json:"totalTaxable"`
	TotalTax       string        `json:"totalTax"`
	TotalGross     string        `json:"totalGross"`
}

// FromProjection maps an order projection into its summary form.
func FromProjection(p *types.OrderProjection) Order {
	if p == nil || p.Entity == nil {
		return Order{}
	}
	o := p.Entity
	out := Order{
		ID:            o.ID,
		OrderNumber:   o.DisplayNumber(),
		Status:        string(o.Status),
		Payment:       o.Payment,
		PaymentLabel:  PaymentLabel(o.Payment),
		PaymentMethod: orNA(o.PaymentMethod),
		Amount:        domain.Money(o.Amount),
		SyncedAt:      p.Metadata.SyncedAt,
		Optimistic:    p.Metadata.Optimistic(),
	}
	for _, item := range o.Items {
		out.ItemCount += item.Quantity
	}
	if at, ok := o.OrderedAt(); ok {
		out.OrderedAt = &at
	}
	return out
}

// FromProjectionDetailed includes items and address.
func FromProjectionDetailed(p *types.OrderProjection) Order {
	out := FromProjection(p)
	if p == nil || p.Entity == nil {
		return out
	}
	o := p.Entity
	out.Items = make([]Item, 0, len(o.Items))
	for _, item := range o.Items {
		out.Items = append(out.Items, Item{
			Name:      item.Name,
			Code:      item.Code,
			Color:     item.Color,
			Size:      item.Size,
			Quantity:  item.Quantity,
			Price:     domain.Money(item.Price),
			LineTotal: domain.Money(item.Gross()),
		})
	}
	out.Address = &Address{
		FullName:    orNA(o.Address.FullName),
		AddressLine: orNA(o.Address.AddressLine),
		City:        orNA(o.Address.City),
		State:       orNA(o.Address.State),
		Pincode:     orNA(o.Address.Pincode),
		Country:     orNA(o.Address.Country),
		Phone:       orNA(o.Address.Phone),
	}
	return out
}

// FromPage maps an order page.
func FromPage(page *types.OrderPage) OrderPage {
	out := OrderPage{
		Status:     string(page.Status),
		Page:       page.Number,
		PageSize:   page.Size,
		TotalPages: page.TotalPages,
		TotalCount: page.TotalCount,
		Orders:     make([]Order, 0, len(page.Orders)),
		Counts:     make(map[string]int, len(domain.Statuses)),
	}
	for _, p := range page.Orders {
		out.Orders = append(out.Orders, FromProjection(p))
	}
	for _, status := range domain.Statuses {
		out.Counts[string(status)] = page.Counts[status]
	}
	return out
}

// FromDetail maps an order detail.
func FromDetail(detail *types.OrderDetail) OrderDetail {
	out := OrderDetail{
		Order:         FromProjectionDetailed(detail.Order),
		Transitions:   make([]TransitionOption, 0, len(detail.Transitions)),
		PaymentLocked: detail.PaymentLocked,
	}
	for _, t := range detail.Transitions {
		out.Transitions = append(out.Transitions, TransitionOption{Status: string(t.To), Action: t.Action})
	}
	return out
}

// FromInvoice rounds every amount half-up to two places.
func FromInvoice(view *types.InvoiceView) Invoice {
	b := view.Breakdown
	out := Invoice{
		OrderID:        view.Order.ID,
		Currency:       view.Currency,
		TaxRatePercent: domain.Percent(b.TaxRate),
		Lines:          make([]InvoiceLine, 0, len(b.Lines)),
		TotalTaxable:   domain.Money(b.TotalTaxable),
		TotalTax:       domain.Money(b.TotalTax),
		TotalGross:     domain.Money(b.TotalGross),
	}
	for _, line := range b.Lines {
		out.Lines = append(out.Lines, InvoiceLine{
			Description:  line.Item.Name,
			Code:         line.Item.Code,
			Quantity:     line.Item.Quantity,
			UnitPrice:    domain.Money(line.Item.Price),
			TaxableValue: domain.Money(line.TaxableValue),
			TaxAmount:    domain.Money(line.TaxAmount),
			Gross:        domain.Money(line.Gross),
		})
	}
	out.Shipping = InvoiceLine{
		Description:  "Other / shipping charges",
		Quantity:     1,
		UnitPrice:    domain.Money(b.Shipping.Gross),
		TaxableValue: domain.Money(b.Shipping.TaxableValue),
		TaxAmount:    domain.Money(b.Shipping.TaxAmount),
		Gross:        domain.Money(b.Shipping.Gross),
	}
	return out
}

// PaymentLabel renders the payment flag the way the console shows it.
func PaymentLabel(paid bool) string {
	if paid {
		return "Paid"
	}
	return "Unpaid"
}

func orNA(v string) string {
	if v == "" {
		return notAvailable
	}
	return v
}
