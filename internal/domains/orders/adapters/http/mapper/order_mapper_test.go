package mapper

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	types "github.com/Apurer/storefront-admin/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
	"github.com/Apurer/storefront-admin/internal/shared/projection"
)

func TestFromProjectionDetailed_FillsPlaceholders(t *testing.T) {
	synced := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	p := projection.New(&domain.Order{
		ID:     "665f0c",
		Status: domain.StatusPlaced,
		Amount: decimal.RequireFromString("210"),
		Items:  []domain.Item{{Name: "Kurta", Quantity: 2, Price: decimal.RequireFromString("105")}},
	}, synced)
	p.MarkPatched(synced.Add(time.Second))

	out := FromProjectionDetailed(p)
	require.Equal(t, "665f0c", out.OrderNumber)
	require.Equal(t, "Unpaid", out.PaymentLabel)
	require.Equal(t, "N/A", out.PaymentMethod)
	require.Equal(t, "N/A", out.Address.City)
	require.Equal(t, "210.00", out.Amount)
	require.Equal(t, "210.00", out.Items[0].LineTotal)
	require.Equal(t, 2, out.ItemCount)
	require.Nil(t, out.OrderedAt)
	require.True(t, out.Optimistic)
}

func TestFromPage_ReportsEveryStatusCount(t *testing.T) {
	page := FromPage(&types.OrderPage{
		Status: domain.StatusPlaced,
		Number: 1,
		Size:   domain.OrdersPerPage,
		Counts: map[domain.Status]int{domain.StatusPlaced: 3},
	})
	require.Len(t, page.Counts, len(domain.Statuses))
	require.Equal(t, 3, page.Counts["Order Placed"])
	require.Equal(t, 0, page.Counts["Cancelled"])
	require.NotNil(t, page.Orders)
}
