package backend

import (
	"strings"

	orderclient "github.com/Apurer/storefront-admin/internal/clients/http/orderbackend"
	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
)

// ToDomain converts a backend order payload into the domain order. Unknown statuses are kept verbatim
// so the console can still list them; the transition table refuses to move them.
func ToDomain(payload orderclient.OrderPayload) *domain.Order {
	status, err := domain.ParseStatus(payload.Status)
	if err != nil {
		status = domain.Status(strings.TrimSpace(payload.Status))
	}
	order := &domain.Order{
		ID:            payload.ID,
		OrderNumber:   strings.TrimSpace(payload.OrderNumber),
		Status:        status,
		Payment:       payload.Payment,
		PaymentMethod: strings.TrimSpace(payload.PaymentMethod),
		Amount:        payload.Amount,
		CreatedAt:     payload.CreatedAt.Time,
		Date:          payload.Date.Time,
	}
	if order.Date.IsZero() {
		order.Date = payload.UpdatedAt.Time
	}
	if len(payload.Items) > 0 {
		order.Items = make([]domain.Item, 0, len(payload.Items))
		for _, item := range payload.Items {
			order.Items = append(order.Items, domain.Item{
				Name:     item.Name,
				Code:     item.Code,
				Color:    item.Color,
				Size:     item.Size,
				Quantity: item.Quantity,
				Price:    item.Price,
			})
		}
	}
	if a := payload.Address; a != nil {
		order.Address = domain.Address{
			FullName:    a.FullName,
			AddressLine: a.AddressLine,
			City:        a.City,
			State:       a.State,
			Pincode:     a.Pincode,
			Country:     a.Country,
			Phone:       a.Phone,
		}
	}
	return order
}

func profileToDomain(p *orderclient.SellerProfilePayload) domain.SellerProfile {
	if p == nil {
		return domain.SellerProfile{}
	}
	return domain.SellerProfile{
		ShopName:    p.ShopName,
		AddressLine: p.AddressLine,
		City:        p.City,
		State:       p.State,
		Pincode:     p.Pincode,
		Country:     p.Country,
		Phone:       p.Phone,
		Email:       p.Email,
		TaxID:       p.TaxID,
	}
}
