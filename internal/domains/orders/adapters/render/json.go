package render

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
	"github.com/Apurer/storefront-admin/internal/domains/orders/ports"
)

// JSONRenderer emits the layout as indented JSON.
type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer { return &JSONRenderer{} }

func (JSONRenderer) Format() string { return "json" }

func (JSONRenderer) Render(_ context.Context, layout domain.DocumentLayout) (*ports.Document, error) {
	body, err := json.MarshalIndent(layout, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode waybill json: %w", err)
	}
	return &ports.Document{
		ContentType: "application/json",
		Extension:   "json",
		PageSize:    layout.PageSize,
		Body:        body,
	}, nil
}

var _ ports.Renderer = (*JSONRenderer)(nil)
