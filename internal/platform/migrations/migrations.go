package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema owned by this service. Order state itself lives in the order backend.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&invoiceRecord{},
		&idempotencyRecord{},
	)
}

// Invoice schema mirrors the orders Postgres invoice register.
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

// Idempotency schema mirrors the orders Postgres idempotency store.
type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     string    `gorm:"column:order_id;size:64;index"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "order_idempotency_keys" }
