package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
)

func TestPager_StatusChangeResetsPage(t *testing.T) {
	var orders []*domain.Order
	for i := 0; i < 13; i++ {
		orders = append(orders, &domain.Order{ID: fmt.Sprintf("p%d", i), Status: domain.StatusPlaced})
		orders = append(orders, &domain.Order{ID: fmt.Sprintf("d%d", i), Status: domain.StatusDispatched})
	}
	svc, _, _ := newTestService(t, orders...)
	pager := NewPager(svc)
	ctx := context.Background()

	pager.SetPage(3)
	page, err := pager.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, page.Number)
	require.Len(t, page.Orders, 1)

	require.NoError(t, pager.SetStatus(domain.StatusDispatched))
	page, err = pager.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, page.Number)
	require.Equal(t, domain.StatusDispatched, page.Status)

	pager.SetPage(2)
	require.NoError(t, pager.SetStatus(domain.StatusDispatched))
	page, err = pager.Current(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, page.Number)
}

func TestPager_ClampsOutOfRangePages(t *testing.T) {
	svc, _, _ := newTestService(t, &domain.Order{ID: "o1", Status: domain.StatusPlaced})
	pager := NewPager(svc)

	pager.SetPage(12)
	page, err := pager.Current(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, page.Number)
	require.LessOrEqual(t, len(page.Orders), domain.OrdersPerPage)

	require.Error(t, pager.SetStatus("Returned"))
	require.Equal(t, domain.StatusPlaced, pager.Status())
}
