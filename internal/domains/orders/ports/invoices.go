package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
)

// InvoiceRecord is a tax invoice number assigned to an order.
type InvoiceRecord struct {
	Number     string
	OrderID    string
	ItemCodes  []string
	TotalTax   decimal.Decimal
	TotalGross decimal.Decimal
	IssuedAt   time.Time
}

// InvoiceRegister hands out invoice numbers. Issuing twice for the same order
// returns the first record.
type InvoiceRegister interface {
	Issue(ctx context.Context, order *domain.Order, breakdown domain.InvoiceBreakdown) (*InvoiceRecord, error)
}
