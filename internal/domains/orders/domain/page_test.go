package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func ordersWithStatus(n int, status Status) []*Order {
	orders := make([]*Order, 0, n)
	for i := 0; i < n; i++ {
		orders = append(orders, &Order{ID: fmt.Sprintf("%s-%d", status, i), Status: status})
	}
	return orders
}

func TestPaginate_FiltersByStatusAndCapsPageSize(t *testing.T) {
	orders := append(ordersWithStatus(8, StatusPlaced), ordersWithStatus(3, StatusDelivered)...)

	first := Paginate(orders, StatusPlaced, 1, OrdersPerPage)
	require.Len(t, first.Orders, OrdersPerPage)
	require.Equal(t, 2, first.TotalPages)
	require.Equal(t, 8, first.TotalCount)
	for _, o := range first.Orders {
		require.Equal(t, StatusPlaced, o.Status)
	}

	second := Paginate(orders, StatusPlaced, 2, OrdersPerPage)
	require.Len(t, second.Orders, 2)
	require.Equal(t, "Order Placed-6", second.Orders[0].ID)
}

func TestPaginate_ClampsOutOfRangePages(t *testing.T) {
	orders := ordersWithStatus(7, StatusDispatched)

	high := Paginate(orders, StatusDispatched, 99, OrdersPerPage)
	require.Equal(t, 2, high.Number)
	require.Len(t, high.Orders, 1)

	low := Paginate(orders, StatusDispatched, -3, OrdersPerPage)
	require.Equal(t, 1, low.Number)
}

func TestPaginate_EmptyStatus(t *testing.T) {
	page := Paginate(ordersWithStatus(2, StatusPlaced), StatusCancelled, 4, 0)
	require.Equal(t, 1, page.Number)
	require.Equal(t, 0, page.TotalPages)
	require.Equal(t, OrdersPerPage, page.Size)
	require.NotNil(t, page.Orders)
	require.Empty(t, page.Orders)
}

func TestCountByStatus(t *testing.T) {
	orders := append(ordersWithStatus(2, StatusPlaced), ordersWithStatus(1, StatusCancelled)...)
	counts := CountByStatus(orders)
	require.Equal(t, 2, counts[StatusPlaced])
	require.Equal(t, 1, counts[StatusCancelled])
	require.Equal(t, 0, counts[StatusDelivered])
	require.Len(t, counts, len(Statuses))
}
