package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates the fulfillment stages of an order.
type Status string

const (
	StatusPlaced         Status = "Order Placed"
	StatusDispatched     Status = "Dispatched"
	StatusOutForDelivery Status = "Out for Delivery"
	StatusDelivered      Status = "Delivered"
	StatusCancelled      Status = "Cancelled"
)

// Statuses lists every known status in lifecycle order.
var Statuses = []Status{StatusPlaced, StatusDispatched, StatusOutForDelivery, StatusDelivered, StatusCancelled}

var (
	ErrUnknownStatus     = errors.New("order status is unknown")
	ErrIllegalTransition = errors.New("order status transition is not allowed")
	ErrPaymentLocked     = errors.New("payment cannot change on a cancelled order")
	ErrEmptyOrderID      = errors.New("order id is required")
)

// Address is the shipping snapshot captured at checkout.
type Address struct {
	FullName    string
	AddressLine string
	City        string
	State       string
	Pincode     string
	Country     string
	Phone       string
}

// Item is one purchased line. Price is the tax-inclusive unit price.
type Item struct {
	Name     string
	Code     string
	Color    string
	Size     string
	Quantity int
	Price    decimal.Decimal
}

// Gross returns price × quantity.
func (i Item) Gross() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order mirrors the order record owned by the storefront backend.
type Order struct {
	ID            string
	OrderNumber   string
	Status        Status
	Payment       bool
	PaymentMethod string
	Amount        decimal.Decimal
	Items         []Item
	Address       Address
	CreatedAt     time.Time
	Date          time.Time
}

// Clone returns a deep copy so callers never share item slices with the cache.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]Item(nil), o.Items...)
	return &clone
}

// CanTogglePayment reports whether the payment flag may still be mutated.
func (o *Order) CanTogglePayment() error {
	if o.Status == StatusCancelled {
		return ErrPaymentLocked
	}
	return nil
}

// ItemsGross sums the tax-inclusive gross of every item.
func (o *Order) ItemsGross() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Gross())
	}
	return total
}

// OrderedAt picks the first known timestamp, matching how the console has always dated orders.
func (o *Order) OrderedAt() (time.Time, bool) {
	switch {
	case !o.CreatedAt.IsZero():
		return o.CreatedAt, true
	case !o.Date.IsZero():
		return o.Date, true
	default:
		return time.Time{}, false
	}
}

// DisplayNumber falls back to the opaque id when the backend omitted an order number.
func (o *Order) DisplayNumber() string {
	if n := strings.TrimSpace(o.OrderNumber); n != "" {
		return n
	}
	return o.ID
}

// ParseStatus maps a wire value onto a known status.
func ParseStatus(raw string) (Status, error) {
	candidate := Status(strings.TrimSpace(raw))
	for _, status := range Statuses {
		if strings.EqualFold(string(status), string(candidate)) {
			return status, nil
		}
	}
	return "", ErrUnknownStatus
}

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}
