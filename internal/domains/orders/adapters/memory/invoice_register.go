package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
	"github.com/Apurer/storefront-admin/internal/domains/orders/ports"
)

var _ ports.InvoiceRegister = (*InvoiceRegister)(nil)

// InvoiceRegister numbers invoices sequentially in process memory.
type InvoiceRegister struct {
	prefix string
	now    func() time.Time

	mu      sync.Mutex
	next    int64
	byOrder map[string]*ports.InvoiceRecord
}

func NewInvoiceRegister(prefix string) *InvoiceRegister {
	return &InvoiceRegister{prefix: prefix, now: time.Now, byOrder: map[string]*ports.InvoiceRecord{}}
}

func (r *InvoiceRegister) Issue(_ context.Context, order *domain.Order, breakdown domain.InvoiceBreakdown) (*ports.InvoiceRecord, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byOrder[order.ID]; ok {
		clone := *existing
		return &clone, nil
	}
	r.next++
	record := &ports.InvoiceRecord{
		Number:     domain.FormatInvoiceNumber(r.prefix, r.next),
		OrderID:    order.ID,
		ItemCodes:  domain.ItemCodes(order.Items),
		TotalTax:   breakdown.TotalTax,
		TotalGross: breakdown.TotalGross,
		IssuedAt:   r.now(),
	}
	r.byOrder[order.ID] = record
	clone := *record
	return &clone, nil
}
