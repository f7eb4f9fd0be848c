package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var fivePercent = decimal.RequireFromString("0.05")

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeInvoice_SingleItem(t *testing.T) {
	order := &Order{
		Amount: dec("210"),
		Items:  []Item{{Name: "Kurta", Code: "KT-1", Quantity: 2, Price: dec("105")}},
	}

	b, err := ComputeInvoice(order, fivePercent)
	require.NoError(t, err)
	require.Len(t, b.Lines, 1)
	line := b.Lines[0]
	require.Equal(t, "210.00", Money(line.Gross))
	require.Equal(t, "200.00", Money(line.TaxableValue))
	require.Equal(t, "10.00", Money(line.TaxAmount))
	require.True(t, b.Shipping.Gross.IsZero())
}

func TestComputeInvoice_ShippingResidual(t *testing.T) {
	order := &Order{
		Amount: dec("250"),
		Items:  []Item{{Name: "Kurta", Quantity: 2, Price: dec("105")}},
	}

	b, err := ComputeInvoice(order, fivePercent)
	require.NoError(t, err)
	require.Equal(t, "40.00", Money(b.Shipping.Gross))
	require.Equal(t, "38.10", Money(b.Shipping.TaxableValue))
	require.Equal(t, "1.90", Money(b.Shipping.TaxAmount))
	require.Equal(t, "11.90", Money(b.TotalTax))
	require.Equal(t, "250.00", Money(b.TotalGross))
}

func TestComputeInvoice_PartsSumToAmount(t *testing.T) {
	order := &Order{
		Amount: dec("1999.99"),
		Items: []Item{
			{Quantity: 3, Price: dec("333.33")},
			{Quantity: 1, Price: dec("499.5")},
			{Quantity: 7, Price: dec("61.17")},
		},
	}
	tolerance := dec("0.000001")

	b, err := ComputeInvoice(order, dec("0.12"))
	require.NoError(t, err)

	sum := decimal.Zero
	for _, line := range b.Lines {
		require.True(t, line.TaxableValue.Add(line.TaxAmount).Sub(line.Gross).Abs().LessThan(tolerance))
		sum = sum.Add(line.TaxableValue).Add(line.TaxAmount)
	}
	sum = sum.Add(b.Shipping.TaxableValue).Add(b.Shipping.TaxAmount)
	require.True(t, sum.Sub(order.Amount).Abs().LessThan(tolerance), "sum %s amount %s", sum, order.Amount)
	require.True(t, b.TotalTaxable.Add(b.TotalTax).Sub(order.Amount).Abs().LessThan(tolerance))
}

func TestComputeInvoice_ZeroItemsIsShippingOnly(t *testing.T) {
	b, err := ComputeInvoice(&Order{Amount: dec("52.5")}, fivePercent)
	require.NoError(t, err)
	require.Empty(t, b.Lines)
	require.Equal(t, "52.50", Money(b.Shipping.Gross))
	require.Equal(t, "50.00", Money(b.Shipping.TaxableValue))
	require.Equal(t, "2.50", Money(b.TotalTax))
}

func TestComputeInvoice_ZeroRate(t *testing.T) {
	order := &Order{Amount: dec("100"), Items: []Item{{Quantity: 1, Price: dec("80")}}}
	b, err := ComputeInvoice(order, decimal.Zero)
	require.NoError(t, err)
	require.True(t, b.Lines[0].TaxableValue.Equal(dec("80")))
	require.True(t, b.Lines[0].TaxAmount.IsZero())
	require.True(t, b.Shipping.TaxableValue.Equal(dec("20")))
	require.True(t, b.TotalTax.IsZero())
}

func TestComputeInvoice_ResidualClampedAtZero(t *testing.T) {
	order := &Order{Amount: dec("100"), Items: []Item{{Quantity: 1, Price: dec("105")}}}
	b, err := ComputeInvoice(order, fivePercent)
	require.NoError(t, err)
	require.True(t, b.Shipping.Gross.IsZero())
	require.True(t, b.Shipping.TaxAmount.IsZero())
}

func TestComputeInvoice_NegativeRate(t *testing.T) {
	_, err := ComputeInvoice(&Order{}, dec("-0.01"))
	require.ErrorIs(t, err, ErrNegativeTaxRate)
}

func TestMoney_RoundsHalfUpOnlyAtDisplay(t *testing.T) {
	require.Equal(t, "0.01", Money(dec("0.005")))
	require.Equal(t, "2.68", Money(dec("2.675")))

	// three lines of 1/3 accumulate to exactly 1.00 instead of 0.99
	third := dec("1").Div(dec("3"))
	require.Equal(t, "1.00", Money(third.Add(third).Add(third)))
}

func TestPercent(t *testing.T) {
	require.Equal(t, "5", Percent(fivePercent))
	require.Equal(t, "12.5", Percent(dec("0.125")))
}

func TestFormatInvoiceNumber(t *testing.T) {
	require.Equal(t, "INV-000042", FormatInvoiceNumber("INV", 42))
	require.Equal(t, "000007", FormatInvoiceNumber("", 7))
	require.Equal(t, "INV-1234567", FormatInvoiceNumber("INV", 1234567))
}
