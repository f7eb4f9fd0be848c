package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
	"github.com/Apurer/storefront-admin/internal/domains/orders/ports"
)

var _ ports.InvoiceRegister = (*InvoiceRegister)(nil)

// InvoiceRegister numbers invoices from the table's identity column so numbers survive restarts
// and stay unique across replicas.
type InvoiceRegister struct {
	db     *gorm.DB
	prefix string
	now    func() time.Time
}

// NewInvoiceRegister wires a PostgreSQL-backed invoice register.
func NewInvoiceRegister(db *gorm.DB, prefix string) *InvoiceRegister {
	return &InvoiceRegister{db: db, prefix: prefix, now: time.Now}
}

// Issue assigns the next number to order, or returns the number it already holds.
func (r *InvoiceRegister) Issue(ctx context.Context, order *domain.Order, breakdown domain.InvoiceBreakdown) (*ports.InvoiceRecord, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	var stored *invoiceRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// look first: a conflicting insert would still burn a sequence value
		existing, err := findInvoice(tx, order.ID)
		if err != nil || existing != nil {
			stored = existing
			return err
		}
		candidate := invoiceRecord{
			OrderID:    order.ID,
			ItemCodes:  pq.StringArray(domain.ItemCodes(order.Items)),
			TotalTax:   breakdown.TotalTax,
			TotalGross: breakdown.TotalGross,
			IssuedAt:   r.now().UTC(),
		}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			DoNothing: true,
		}).Create(&candidate)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 1 {
			number := domain.FormatInvoiceNumber(r.prefix, candidate.ID)
			if err := tx.Model(&candidate).Update("number", number).Error; err != nil {
				return err
			}
		}
		stored, err = findInvoice(tx, order.ID)
		if err == nil && stored == nil {
			err = fmt.Errorf("%w: invoice for order %s", ports.ErrNotFound, order.ID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return toPort(stored), nil
}

// findInvoice returns the invoice already issued for orderID, or nil.
func findInvoice(tx *gorm.DB, orderID string) (*invoiceRecord, error) {
	var record invoiceRecord
	if err := tx.First(&record, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *InvoiceRegister) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres invoice register not configured")
	}
	return nil
}

type invoiceRecord struct {
	ID         int64           `gorm:"primaryKey;autoIncrement;column:id"`
	Number     string          `gorm:"column:number;size:64;index"`
	OrderID    string          `gorm:"column:order_id;size:64;uniqueIndex"`
	ItemCodes  pq.StringArray  `gorm:"column:item_codes;type:text[]"`
	TotalTax   decimal.Decimal `gorm:"column:total_tax;type:numeric(18,6)"`
	TotalGross decimal.Decimal `gorm:"column:total_gross;type:numeric(18,6)"`
	IssuedAt   time.Time       `gorm:"column:issued_at;index"`
	CreatedAt  time.Time       `gorm:"column:created_at"`
}

func (invoiceRecord) TableName() string { return "order_invoices" }

func toPort(rec *invoiceRecord) *ports.InvoiceRecord {
	if rec == nil {
		return nil
	}
	return &ports.InvoiceRecord{
		Number:     rec.Number,
		OrderID:    rec.OrderID,
		ItemCodes:  append([]string(nil), rec.ItemCodes...),
		TotalTax:   rec.TotalTax,
		TotalGross: rec.TotalGross,
		IssuedAt:   rec.IssuedAt,
	}
}
