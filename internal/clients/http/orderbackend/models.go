package orderbackend

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// envelope is the common reply shape of the order backend.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// listOrdersResponse keeps orders raw so one bad row can be skipped without losing the page.
type listOrdersResponse struct {
	envelope
	Orders []json.RawMessage `json:"orders"`
}

type sellerProfileResponse struct {
	envelope
	Profile *SellerProfilePayload `json:"profile"`
}

// StatusRequest is the body of POST /api/order/status.
type StatusRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// PaymentRequest is the body of POST /api/order/paymentstatus.
type PaymentRequest struct {
	OrderID string `json:"orderId"`
	Payment bool   `json:"payment"`
}

// OrderPayload is an order as stored by the backend.
type OrderPayload struct {
	ID            string          `json:"_id"`
	OrderNumber   string          `json:"orderNumber,omitempty"`
	Status        string          `json:"status"`
	Payment       bool            `json:"payment"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Items         []ItemPayload   `json:"items"`
	Address       *AddressPayload `json:"address,omitempty"`
	CreatedAt     Timestamp       `json:"createdAt,omitempty"`
	Date          Timestamp       `json:"date,omitempty"`
	UpdatedAt     Timestamp       `json:"updatedAt,omitempty"`
}

// ItemPayload is one purchased line.
type ItemPayload struct {
	Name     string          `json:"name"`
	Code     string          `json:"code,omitempty"`
	Color    string          `json:"color,omitempty"`
	Size     string          `json:"size,omitempty"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// AddressPayload is the checkout address snapshot.
type AddressPayload struct {
	FullName    string `json:"fullName,omitempty"`
	AddressLine string `json:"addressLine,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Pincode     string `json:"pincode,omitempty"`
	Country     string `json:"country,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// SellerProfilePayload is the shop identity.
type SellerProfilePayload struct {
	ShopName    string `json:"shopName,omitempty"`
	AddressLine string `json:"addressLine,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Pincode     string `json:"pincode,omitempty"`
	Country     string `json:"country,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	TaxID       string `json:"gstin,omitempty"`
}

// Timestamp accepts RFC 3339 strings and epoch milliseconds, both of which the backend emits.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			t.Time = time.Time{}
			return nil
		}
		if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
			t.Time = time.UnixMilli(ms).UTC()
			return nil
		}
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return err
		}
		t.Time = parsed
		return nil
	}
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	t.Time = time.UnixMilli(ms).UTC()
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}
