package application

import (
	"context"
	"sync"

	types "github.com/Apurer/storefront-admin/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
	"github.com/Apurer/storefront-admin/internal/domains/orders/ports"
)

// Pager holds the operator's status tab and page, as the console list does.
type Pager struct {
	service ports.Service

	mu     sync.Mutex
	status domain.Status
	page   int
}

// NewPager starts on the first page of the Order Placed tab.
func NewPager(service ports.Service) *Pager {
	return &Pager{service: service, status: domain.StatusPlaced, page: 1}
}

// SetStatus switches tab. The page always goes back to 1, even when the tab is unchanged.
func (p *Pager) SetStatus(status domain.Status) error {
	parsed, err := domain.ParseStatus(string(status))
	if err != nil {
		return mapError(err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = parsed
	p.page = 1
	return nil
}

// SetPage moves to a page; the next Current call clamps it to the available range.
func (p *Pager) SetPage(page int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.page = page
}

// Status returns the active tab.
func (p *Pager) Status() domain.Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Current returns the visible page and stores the clamped page number.
func (p *Pager) Current(ctx context.Context) (*types.OrderPage, error) {
	p.mu.Lock()
	query := types.PageQuery{Status: p.status, Page: p.page}
	p.mu.Unlock()

	page, err := p.service.Visible(ctx, query)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	if p.status == query.Status {
		p.page = page.Number
	}
	p.mu.Unlock()
	return page, nil
}
