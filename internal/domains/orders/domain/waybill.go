package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	notAvailable = "N/A"
	dateLayout   = "02 Jan 2006"
)

// PageSize is the fixed page geometry handed to the renderer.
type PageSize struct {
	Name     string  `json:"name" yaml:"name"`
	WidthMM  float64 `json:"widthMm" yaml:"widthMm"`
	HeightMM float64 `json:"heightMm" yaml:"heightMm"`
}

var (
	PageA4       = PageSize{Name: "A4", WidthMM: 210, HeightMM: 297}
	PageLabel4x6 = PageSize{Name: "LABEL_4X6", WidthMM: 101.6, HeightMM: 152.4}
)

// ParsePageSize resolves a configured page name, defaulting to A4.
func ParsePageSize(name string) (PageSize, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", PageA4.Name:
		return PageA4, nil
	case PageLabel4x6.Name:
		return PageLabel4x6, nil
	default:
		return PageSize{}, fmt.Errorf("unknown waybill page size %q", name)
	}
}

// SellerProfile is the shop identity used for the return address and the tax invoice.
// Every field may be empty.
type SellerProfile struct {
	ShopName    string
	AddressLine string
	City        string
	State       string
	Pincode     string
	Country     string
	Phone       string
	Email       string
	TaxID       string
}

// AddressBlock is a rendered postal address. Missing fields stay empty.
type AddressBlock struct {
	Heading     string `json:"heading" yaml:"heading"`
	Name        string `json:"name" yaml:"name"`
	AddressLine string `json:"addressLine" yaml:"addressLine"`
	City        string `json:"city" yaml:"city"`
	State       string `json:"state" yaml:"state"`
	Pincode     string `json:"pincode" yaml:"pincode"`
	Country     string `json:"country" yaml:"country"`
	Phone       string `json:"phone" yaml:"phone"`
}

// PaymentBanner tells the carrier whether cash must be collected.
type PaymentBanner struct {
	Method         string `json:"method" yaml:"method"`
	CashOnDelivery bool   `json:"cashOnDelivery" yaml:"cashOnDelivery"`
	Message        string `json:"message" yaml:"message"`
	CollectAmount  string `json:"collectAmount,omitempty" yaml:"collectAmount,omitempty"`
}

// ContentsRow is one carrier-facing package line. It deliberately has no price columns.
type ContentsRow struct {
	Name     string `json:"name" yaml:"name"`
	Code     string `json:"code" yaml:"code"`
	Quantity int    `json:"quantity" yaml:"quantity"`
	Size     string `json:"size" yaml:"size"`
	Color    string `json:"color" yaml:"color"`
}

// ContentsTable lists the package contents for the carrier.
type ContentsTable struct {
	Rows       []ContentsRow `json:"rows" yaml:"rows"`
	TotalUnits int           `json:"totalUnits" yaml:"totalUnits"`
}

// InvoiceRow is a priced line on the tax invoice, formatted for display.
type InvoiceRow struct {
	Description  string `json:"description" yaml:"description"`
	Code         string `json:"code" yaml:"code"`
	Quantity     int    `json:"quantity" yaml:"quantity"`
	UnitPrice    string `json:"unitPrice" yaml:"unitPrice"`
	TaxableValue string `json:"taxableValue" yaml:"taxableValue"`
	TaxAmount    string `json:"taxAmount" yaml:"taxAmount"`
	Gross        string `json:"gross" yaml:"gross"`
}

// TaxInvoiceBlock is the customer and regulator facing section of the document.
type TaxInvoiceBlock struct {
	SellerName    string       `json:"sellerName" yaml:"sellerName"`
	SellerTaxID   string       `json:"sellerTaxId" yaml:"sellerTaxId"`
	InvoiceNumber string       `json:"invoiceNumber" yaml:"invoiceNumber"`
	OrderNumber   string       `json:"orderNumber" yaml:"orderNumber"`
	OrderDate     string       `json:"orderDate" yaml:"orderDate"`
	InvoiceDate   string       `json:"invoiceDate" yaml:"invoiceDate"`
	Currency      string       `json:"currency" yaml:"currency"`
	TaxRate       string       `json:"taxRatePercent" yaml:"taxRatePercent"`
	Rows          []InvoiceRow `json:"rows" yaml:"rows"`
	Shipping      InvoiceRow   `json:"shipping" yaml:"shipping"`
	TotalTaxable  string       `json:"totalTaxable" yaml:"totalTaxable"`
	TotalTax      string       `json:"totalTax" yaml:"totalTax"`
	TotalGross    string       `json:"totalGross" yaml:"totalGross"`
}

// DocumentLayout is the structured content of a shipment label plus tax invoice.
type DocumentLayout struct {
	Title    string          `json:"title" yaml:"title"`
	PageSize PageSize        `json:"pageSize" yaml:"pageSize"`
	OrderID  string          `json:"orderId" yaml:"orderId"`
	Delivery AddressBlock    `json:"delivery" yaml:"delivery"`
	Return   AddressBlock    `json:"return" yaml:"return"`
	Payment  PaymentBanner   `json:"payment" yaml:"payment"`
	Contents ContentsTable   `json:"contents" yaml:"contents"`
	Invoice  TaxInvoiceBlock `json:"invoice" yaml:"invoice"`
}

// WaybillMeta carries the values that do not come from the order itself.
type WaybillMeta struct {
	InvoiceNumber string
	InvoiceDate   time.Time
	Currency      string
	PageSize      PageSize
}

// ComposeWaybill assembles the layout. Prices appear only in the invoice block.
func ComposeWaybill(order *Order, seller SellerProfile, invoice InvoiceBreakdown, meta WaybillMeta) DocumentLayout {
	if meta.PageSize.Name == "" {
		meta.PageSize = PageA4
	}
	layout := DocumentLayout{
		Title:    "Shipping Label / Tax Invoice",
		PageSize: meta.PageSize,
		OrderID:  order.ID,
		Delivery: AddressBlock{
			Heading:     "Deliver To",
			Name:        order.Address.FullName,
			AddressLine: order.Address.AddressLine,
			City:        order.Address.City,
			State:       order.Address.State,
			Pincode:     order.Address.Pincode,
			Country:     order.Address.Country,
			Phone:       order.Address.Phone,
		},
		Return: AddressBlock{
			Heading:     "Return To",
			Name:        seller.ShopName,
			AddressLine: seller.AddressLine,
			City:        seller.City,
			State:       seller.State,
			Pincode:     seller.Pincode,
			Country:     seller.Country,
			Phone:       seller.Phone,
		},
		Payment:  paymentBanner(order, meta.Currency),
		Contents: contentsTable(order.Items),
	}
	layout.Invoice = taxInvoice(order, seller, invoice, meta)
	return layout
}

// IsCashOnDelivery recognises the cash-on-delivery labels the storefront uses.
func IsCashOnDelivery(method string) bool {
	m := strings.ToLower(strings.TrimSpace(method))
	return m == "cod" || strings.Contains(m, "cash")
}

func paymentBanner(order *Order, currency string) PaymentBanner {
	method := strings.TrimSpace(order.PaymentMethod)
	if method == "" {
		method = notAvailable
	}
	banner := PaymentBanner{Method: method}
	if IsCashOnDelivery(order.PaymentMethod) && !order.Payment {
		banner.CashOnDelivery = true
		banner.CollectAmount = currency + Money(order.Amount)
		banner.Message = fmt.Sprintf("Cash on delivery: collect %s", banner.CollectAmount)
		return banner
	}
	banner.Message = "Prepaid: no cash to be collected"
	return banner
}

func contentsTable(items []Item) ContentsTable {
	table := ContentsTable{Rows: make([]ContentsRow, 0, len(items))}
	for _, item := range items {
		table.Rows = append(table.Rows, ContentsRow{
			Name:     item.Name,
			Code:     item.Code,
			Quantity: item.Quantity,
			Size:     item.Size,
			Color:    item.Color,
		})
		table.TotalUnits += item.Quantity
	}
	return table
}

func taxInvoice(order *Order, seller SellerProfile, invoice InvoiceBreakdown, meta WaybillMeta) TaxInvoiceBlock {
	block := TaxInvoiceBlock{
		SellerName:    seller.ShopName,
		SellerTaxID:   seller.TaxID,
		InvoiceNumber: meta.InvoiceNumber,
		OrderNumber:   order.DisplayNumber(),
		OrderDate:     notAvailable,
		InvoiceDate:   notAvailable,
		Currency:      meta.Currency,
		TaxRate:       Percent(invoice.TaxRate),
		Rows:          make([]InvoiceRow, 0, len(invoice.Lines)),
		TotalTaxable:  Money(invoice.TotalTaxable),
		TotalTax:      Money(invoice.TotalTax),
		TotalGross:    Money(invoice.TotalGross),
	}
	if at, ok := order.OrderedAt(); ok {
		block.OrderDate = at.Format(dateLayout)
	}
	if !meta.InvoiceDate.IsZero() {
		block.InvoiceDate = meta.InvoiceDate.Format(dateLayout)
	}
	for _, line := range invoice.Lines {
		block.Rows = append(block.Rows, InvoiceRow{
			Description:  describe(line.Item),
			Code:         line.Item.Code,
			Quantity:     line.Item.Quantity,
			UnitPrice:    Money(line.Item.Price),
			TaxableValue: Money(line.TaxableValue),
			TaxAmount:    Money(line.TaxAmount),
			Gross:        Money(line.Gross),
		})
	}
	block.Shipping = InvoiceRow{
		Description:  "Other / shipping charges",
		Quantity:     1,
		UnitPrice:    Money(invoice.Shipping.Gross),
		TaxableValue: Money(invoice.Shipping.TaxableValue),
		TaxAmount:    Money(invoice.Shipping.TaxAmount),
		Gross:        Money(invoice.Shipping.Gross),
	}
	return block
}

func describe(item Item) string {
	parts := []string{item.Name}
	var variant []string
	if item.Size != "" {
		variant = append(variant, item.Size)
	}
	if item.Color != "" {
		variant = append(variant, item.Color)
	}
	if len(variant) > 0 {
		parts = append(parts, "("+strings.Join(variant, ", ")+")")
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
