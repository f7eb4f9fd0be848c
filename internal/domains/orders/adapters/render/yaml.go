package render

import (
	"bytes"
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
	"github.com/Apurer/storefront-admin/internal/domains/orders/ports"
)

// YAMLRenderer emits the layout as a YAML document for label printers that consume structured input.
type YAMLRenderer struct{}

func NewYAMLRenderer() *YAMLRenderer { return &YAMLRenderer{} }

func (YAMLRenderer) Format() string { return "yaml" }

func (YAMLRenderer) Render(_ context.Context, layout domain.DocumentLayout) (*ports.Document, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(layout); err != nil {
		return nil, fmt.Errorf("encode waybill yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode waybill yaml: %w", err)
	}
	return &ports.Document{
		ContentType: "application/yaml",
		Extension:   "yaml",
		PageSize:    layout.PageSize,
		Body:        buf.Bytes(),
	}, nil
}

var _ ports.Renderer = (*YAMLRenderer)(nil)
