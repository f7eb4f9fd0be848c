package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
	"github.com/Apurer/storefront-admin/internal/domains/orders/ports"
)

// HTMLRenderer produces a print-ready page whose @page rule pins the sheet to the layout's page size.
type HTMLRenderer struct {
	tmpl *template.Template
}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{tmpl: template.Must(template.New("waybill").Funcs(template.FuncMap{
		"mm": func(v float64) string { return fmt.Sprintf("%.1fmm", v) },
	}).Parse(waybillTemplate))}
}

func (r *HTMLRenderer) Format() string { return "html" }

func (r *HTMLRenderer) Render(_ context.Context, layout domain.DocumentLayout) (*ports.Document, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, layout); err != nil {
		return nil, fmt.Errorf("render waybill html: %w", err)
	}
	return &ports.Document{
		ContentType: "text/html; charset=utf-8",
		Extension:   "html",
		PageSize:    layout.PageSize,
		Body:        buf.Bytes(),
	}, nil
}

var _ ports.Renderer = (*HTMLRenderer)(nil)

const waybillTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
@page { size: {{mm .PageSize.WidthMM}} {{mm .PageSize.HeightMM}}; margin: 6mm; }
body { font-family: sans-serif; font-size: 10pt; margin: 0; }
.sheet { width: {{mm .PageSize.WidthMM}}; min-height: {{mm .PageSize.HeightMM}}; box-sizing: border-box; padding: 6mm; }
.row { display: flex; gap: 4mm; }
.block { border: 1px solid #000; padding: 2mm; flex: 1; }
.banner { border: 2px solid #000; padding: 2mm; margin: 2mm 0; font-weight: bold; text-align: center; }
table { width: 100%; border-collapse: collapse; margin-top: 2mm; }
th, td { border: 1px solid #000; padding: 1mm; text-align: left; }
td.num { text-align: right; }
</style>
</head>
<body>
<div class="sheet">
<h1>{{.Title}}</h1>
<div class="row">
{{template "address" .Delivery}}
{{template "address" .Return}}
</div>
<div class="banner">{{.Payment.Message}}</div>
<h2>Package contents</h2>
<table>
<tr><th>Item</th><th>Code</th><th>Size</th><th>Color</th><th>Qty</th></tr>
{{range .Contents.Rows}}<tr><td>{{.Name}}</td><td>{{.Code}}</td><td>{{.Size}}</td><td>{{.Color}}</td><td class="num">{{.Quantity}}</td></tr>
{{end}}<tr><td colspan="4">Total units</td><td class="num">{{.Contents.TotalUnits}}</td></tr>
</table>
{{with .Invoice}}
<h2>Tax invoice {{.InvoiceNumber}}</h2>
<p>Sold by {{.SellerName}}{{if .SellerTaxID}} (GSTIN {{.SellerTaxID}}){{end}}<br>
Order {{.OrderNumber}} dated {{.OrderDate}}, invoiced {{.InvoiceDate}}</p>
<table>
<tr><th>Description</th><th>Qty</th><th>Unit price</th><th>Taxable value</th><th>Tax @ {{.TaxRate}}%</th><th>Total</th></tr>
{{range .Rows}}<tr><td>{{.Description}}</td><td class="num">{{.Quantity}}</td><td class="num">{{$.Invoice.Currency}}{{.UnitPrice}}</td><td class="num">{{$.Invoice.Currency}}{{.TaxableValue}}</td><td class="num">{{$.Invoice.Currency}}{{.TaxAmount}}</td><td class="num">{{$.Invoice.Currency}}{{.Gross}}</td></tr>
{{end}}<tr><td>{{.Shipping.Description}}</td><td class="num">{{.Shipping.Quantity}}</td><td class="num">{{.Currency}}{{.Shipping.UnitPrice}}</td><td class="num">{{.Currency}}{{.Shipping.TaxableValue}}</td><td class="num">{{.Currency}}{{.Shipping.TaxAmount}}</td><td class="num">{{.Currency}}{{.Shipping.Gross}}</td></tr>
<tr><th colspan="3">Total</th><th class="num">{{.Currency}}{{.TotalTaxable}}</th><th class="num">{{.Currency}}{{.TotalTax}}</th><th class="num">{{.Currency}}{{.TotalGross}}</th></tr>
</table>
{{end}}
</div>
</body>
</html>
{{define "address"}}<div class="block"><strong>{{.Heading}}</strong><br>{{.Name}}<br>{{.AddressLine}}<br>{{.City}} {{.State}} {{.Pincode}}<br>{{.Country}}<br>{{.Phone}}</div>{{end}}
`
