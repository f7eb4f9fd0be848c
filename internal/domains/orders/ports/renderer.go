package ports

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
)

var ErrUnsupportedFormat = errors.New("unsupported document format")

// Document is a rendered, fixed page size shipment document.
type Document struct {
	ContentType string
	Extension   string
	PageSize    domain.PageSize
	Body        []byte
}

// Renderer turns a layout into a document. Rasterization is out of scope for this service.
type Renderer interface {
	Format() string
	Render(ctx context.Context, layout domain.DocumentLayout) (*Document, error)
}
