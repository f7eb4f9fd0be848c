package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNegativeTaxRate guards the configuration input of the calculator.
var ErrNegativeTaxRate = errors.New("tax rate must not be negative")

// TaxLine holds one tax-inclusive gross figure split into taxable value and tax.
// Values keep full precision; round only when displaying.
type TaxLine struct {
	Gross        decimal.Decimal
	TaxableValue decimal.Decimal
	TaxAmount    decimal.Decimal
}

// InvoiceLine is the tax decomposition of one order item.
type InvoiceLine struct {
	Item Item
	TaxLine
}

// InvoiceBreakdown aggregates per-item lines, the residual shipping line and order totals.
type InvoiceBreakdown struct {
	TaxRate      decimal.Decimal
	Lines        []InvoiceLine
	Shipping     TaxLine
	TotalTaxable decimal.Decimal
	TotalTax     decimal.Decimal
	TotalGross   decimal.Decimal
}

// SplitInclusive decomposes a tax-inclusive gross amount at the given rate.
func SplitInclusive(gross, rate decimal.Decimal) TaxLine {
	taxable := gross.Div(decimal.NewFromInt(1).Add(rate))
	return TaxLine{
		Gross:        gross,
		TaxableValue: taxable,
		TaxAmount:    gross.Sub(taxable),
	}
}

// ComputeInvoice reverse-calculates tax for every item and for the residual charge
// (order amount minus item gross, clamped at zero) that covers shipping and other fees.
func ComputeInvoice(order *Order, rate decimal.Decimal) (InvoiceBreakdown, error) {
	if rate.IsNegative() {
		return InvoiceBreakdown{}, ErrNegativeTaxRate
	}
	breakdown := InvoiceBreakdown{
		TaxRate:      rate,
		Lines:        make([]InvoiceLine, 0, len(order.Items)),
		TotalTaxable: decimal.Zero,
		TotalTax:     decimal.Zero,
		TotalGross:   order.Amount,
	}
	itemsGross := decimal.Zero
	for _, item := range order.Items {
		line := InvoiceLine{Item: item, TaxLine: SplitInclusive(item.Gross(), rate)}
		breakdown.Lines = append(breakdown.Lines, line)
		itemsGross = itemsGross.Add(line.Gross)
		breakdown.TotalTaxable = breakdown.TotalTaxable.Add(line.TaxableValue)
		breakdown.TotalTax = breakdown.TotalTax.Add(line.TaxAmount)
	}

	residual := order.Amount.Sub(itemsGross)
	if residual.IsNegative() {
		residual = decimal.Zero
	}
	breakdown.Shipping = SplitInclusive(residual, rate)
	breakdown.TotalTaxable = breakdown.TotalTaxable.Add(breakdown.Shipping.TaxableValue)
	breakdown.TotalTax = breakdown.TotalTax.Add(breakdown.Shipping.TaxAmount)
	return breakdown, nil
}

// Money formats an amount for display: two places, halves rounded up.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Percent renders a rate such as 0.05 as "5".
func Percent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).String()
}

// FormatInvoiceNumber renders a sequence number such as INV-000042.
func FormatInvoiceNumber(prefix string, seq int64) string {
	if prefix == "" {
		return fmt.Sprintf("%06d", seq)
	}
	return fmt.Sprintf("%s-%06d", prefix, seq)
}

// ItemCodes lists the item codes of an order in item order.
func ItemCodes(items []Item) []string {
	codes := make([]string, 0, len(items))
	for _, item := range items {
		codes = append(codes, item.Code)
	}
	return codes
}
