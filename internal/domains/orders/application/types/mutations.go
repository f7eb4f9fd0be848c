package types

import "github.com/Apurer/storefront-admin/internal/domains/orders/domain"

// TransitionInput requests a status move for one order.
type TransitionInput struct {
	OrderID        string
	Status         domain.Status
	IdempotencyKey string
}

// PaymentInput sets the payment-collected flag of one order.
type PaymentInput struct {
	OrderID        string
	Paid           bool
	IdempotencyKey string
}

// OrderPatch is an optimistic local change. Nil fields are left untouched.
type OrderPatch struct {
	Status  *domain.Status
	Payment *bool
}

// Apply writes the patch onto an order.
func (p OrderPatch) Apply(order *domain.Order) {
	if order == nil {
		return
	}
	if p.Status != nil {
		order.Status = *p.Status
	}
	if p.Payment != nil {
		order.Payment = *p.Payment
	}
}

// IsEmpty reports whether the patch changes nothing.
func (p OrderPatch) IsEmpty() bool {
	return p.Status == nil && p.Payment == nil
}
